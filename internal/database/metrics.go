package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

var (
	// DB 쿼리 실행 시간
	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "localdirectory_db_query_duration_seconds",
			Help:    "Database query execution time in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation", "table", "status"},
	)

	// DB 에러 횟수
	dbErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localdirectory_db_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// 느린 쿼리 횟수 (>1초)
	dbSlowQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "localdirectory_db_slow_queries_total",
			Help: "Total number of slow queries (>1 second)",
		},
		[]string{"operation", "table"},
	)

	dbConnectionPoolOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localdirectory_db_connection_pool_open",
			Help: "Number of open database connections",
		},
	)

	dbConnectionPoolIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localdirectory_db_connection_pool_idle",
			Help: "Number of idle database connections in the pool",
		},
	)

	dbConnectionPoolInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "localdirectory_db_connection_pool_in_use",
			Help: "Number of database connections currently in use",
		},
	)
)

// MetricsPlugin records query latency and errors for every GORM operation.
type MetricsPlugin struct{}

func (p *MetricsPlugin) Name() string {
	return "metricsPlugin"
}

func (p *MetricsPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}

	for _, h := range hooks {
		op := h.op
		if err := h.before("metrics:before_"+op, beforeCallback); err != nil {
			return err
		}
		if err := h.after("metrics:after_"+op, func(tx *gorm.DB) { afterCallback(tx, op) }); err != nil {
			return err
		}
	}
	return nil
}

func beforeCallback(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func afterCallback(db *gorm.DB, operation string) {
	v, ok := db.InstanceGet(startTimeKey)
	if !ok {
		return
	}
	start, ok := v.(time.Time)
	if !ok {
		return
	}

	duration := time.Since(start).Seconds()
	table := db.Statement.Table
	if table == "" {
		table = "unknown"
	}

	status := "success"
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		status = "error"
		dbErrorsTotal.WithLabelValues(operation, table, fmt.Sprintf("%T", db.Error)).Inc()
	}

	dbQueryDuration.WithLabelValues(operation, table, status).Observe(duration)

	if duration > 1.0 {
		dbSlowQueriesTotal.WithLabelValues(operation, table).Inc()
	}
}

// UpdateConnectionPoolMetrics connection pool 메트릭 업데이트
func UpdateConnectionPoolMetrics(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}

	stats := sqlDB.Stats()
	dbConnectionPoolOpen.Set(float64(stats.OpenConnections))
	dbConnectionPoolIdle.Set(float64(stats.Idle))
	dbConnectionPoolInUse.Set(float64(stats.InUse))
}

// StartConnectionPoolMetricsCollector blocks until ctx is done.
func StartConnectionPoolMetricsCollector(ctx context.Context, db *gorm.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			UpdateConnectionPoolMetrics(db)
		}
	}
}
