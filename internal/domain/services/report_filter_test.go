package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportFilter(t *testing.T) {
	f := NewReportFilter(1000, 0.001)

	assert.False(t, f.Seen("Scan this QR to receive cashback"))
	f.Add("Scan this QR to receive cashback")

	assert.True(t, f.Seen("Scan this QR to receive cashback"))
	assert.True(t, f.Seen("  scan THIS qr\tto receive\ncashback "))
	assert.False(t, f.Seen("Scan this QR to receive a refund"))
}

func TestReportFilter_Empty(t *testing.T) {
	f := NewReportFilter(0, 0)
	f.Add("   ")
	assert.False(t, f.Seen(""))
	assert.False(t, f.Seen(" \n "))
}

func TestReportFilter_Concurrent(t *testing.T) {
	f := NewReportFilter(10000, 0.01)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				msg := fmt.Sprintf("message %d-%d", i, j)
				f.Add(msg)
				assert.True(t, f.Seen(msg))
			}
		}(i)
	}
	wg.Wait()
}
