package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type probeRow struct {
	ID     uint `gorm:"primaryKey"`
	Amount string
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&probeRow{}))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), zap.NewNop())

	require.NoError(t, plugin.RegisterOtelGorm(db))
	assert.Nil(t, db.Callback().Query().Get("otel_timing:before_query"))
}

func TestDBTracingPlugin_AnnotatesSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	db := setupTestDB(t)
	cfg := telemetry.DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	cfg.SlowQueryThresh = time.Nanosecond
	require.NoError(t, telemetry.NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&probeRow{Amount: "12.50"}).Error)
	parent.End()

	var annotated bool
	for _, span := range sr.Ended() {
		attrs := spanAttrs(span)
		if attrs[attribute.Key("db.sql.table")].AsString() != "probe_rows" {
			continue
		}
		annotated = true
		assert.Equal(t, int64(1), attrs[attribute.Key("db.rows_affected")].AsInt64())
		assert.True(t, attrs[attribute.Key("db.slow_query")].AsBool())
	}
	assert.True(t, annotated, "the insert span carries table attributes")
}

func TestDBMetrics_Plugin(t *testing.T) {
	reader, provider := newTestMeter(t)
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	m, err := telemetry.NewDBMetrics(provider.Meter("db.client"), sqlDB, telemetry.DBMetricsConfig{
		Enabled:            true,
		SlowQueryThreshold: time.Nanosecond,
		PoolStatsInterval:  time.Hour,
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Use(m))

	ctx := context.Background()
	require.NoError(t, db.WithContext(ctx).Create(&probeRow{Amount: "1.00"}).Error)
	var rows []probeRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	require.NoError(t, db.WithContext(ctx).Exec("DELETE FROM probe_rows").Error)

	m.StartPoolStatsCollection(ctx)
	m.Stop()
	m.Stop()

	rm := collect(t, reader)
	queries := int64Points(t, rm, "db_query_total", telemetry.AttrDBOperation)
	assert.Equal(t, int64(1), queries["INSERT"])
	assert.Equal(t, int64(1), queries["SELECT"])
	assert.Equal(t, int64(1), queries["DELETE"])
	assert.Equal(t, int64(3), int64Points(t, rm, "db_slow_query_total", telemetry.AttrDBTable)["probe_rows"]+
		int64Points(t, rm, "db_slow_query_total", telemetry.AttrDBTable)["unknown"])

	pool := int64Points(t, rm, "db_pool_connections", telemetry.AttrDBState)
	assert.Contains(t, pool, "open")
}

func TestRegisterDBMetrics_DisabledProvider(t *testing.T) {
	db := setupTestDB(t)
	mp, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{}, zap.NewNop())
	require.NoError(t, err)

	m, err := telemetry.RegisterDBMetrics(db, mp, telemetry.DBMetricsConfig{Enabled: true}, zap.NewNop())

	require.NoError(t, err)
	assert.Nil(t, m)
}
