package database

import (
	"github.com/prometheus/client_golang/prometheus"
)

type poolCollector struct {
	db *PostgresDB

	acquired      *prometheus.Desc
	idle          *prometheus.Desc
	total         *prometheus.Desc
	max           *prometheus.Desc
	acquires      *prometheus.Desc
	emptyAcquires *prometheus.Desc
	acquireWait   *prometheus.Desc
}

// Collector exports connection pool statistics as Prometheus metrics
func (db *PostgresDB) Collector() prometheus.Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc("vigilant_db_pool_"+name, help, nil, nil)
	}
	return &poolCollector{
		db:            db,
		acquired:      desc("acquired_conns", "Connections currently checked out"),
		idle:          desc("idle_conns", "Idle connections"),
		total:         desc("total_conns", "Open connections"),
		max:           desc("max_conns", "Configured pool size"),
		acquires:      desc("acquires_total", "Successful connection acquisitions"),
		emptyAcquires: desc("empty_acquires_total", "Acquisitions that waited for a free connection"),
		acquireWait:   desc("acquire_wait_seconds_total", "Time spent acquiring connections"),
	}
}

func (c *poolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.acquired
	ch <- c.idle
	ch <- c.total
	ch <- c.max
	ch <- c.acquires
	ch <- c.emptyAcquires
	ch <- c.acquireWait
}

func (c *poolCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.db.Stats()
	ch <- prometheus.MustNewConstMetric(c.acquired, prometheus.GaugeValue, float64(s.AcquiredConns()))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.IdleConns()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(s.TotalConns()))
	ch <- prometheus.MustNewConstMetric(c.max, prometheus.GaugeValue, float64(s.MaxConns()))
	ch <- prometheus.MustNewConstMetric(c.acquires, prometheus.CounterValue, float64(s.AcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.emptyAcquires, prometheus.CounterValue, float64(s.EmptyAcquireCount()))
	ch <- prometheus.MustNewConstMetric(c.acquireWait, prometheus.CounterValue, s.AcquireDuration().Seconds())
}
