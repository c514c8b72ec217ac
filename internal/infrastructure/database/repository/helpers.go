package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Text conversion helpers

func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func nullTextToString(t pgtype.Text) string {
	if !t.Valid {
		return ""
	}
	return t.String
}

// Array helpers

// nonNilStrings keeps TEXT[] columns as '{}' rather than NULL
func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
