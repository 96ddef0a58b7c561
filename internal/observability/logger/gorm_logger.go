package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// Warehouse layers, derived from the table prefix a statement touches.
const (
	LayerStaging   = "staging"
	LayerDimension = "dimension"
	LayerFact      = "fact"
	LayerRunLog    = "run_log"
	LayerOther     = "other"
)

var layerPrefixes = []struct {
	prefix string
	layer  string
}{
	{"stg_", LayerStaging},
	{"dim_", LayerDimension},
	{"fact_", LayerFact},
	{"etl_", LayerRunLog},
}

// GormLoggerConfig sets the statement log level and slow-query thresholds.
// SlowThreshold applies to layers without an entry in LayerSlowThresholds.
type GormLoggerConfig struct {
	Level               gormlogger.LogLevel
	SlowThreshold       time.Duration
	LayerSlowThresholds map[string]time.Duration
}

// DefaultGormLoggerConfig tolerates longer statements on the bulk layers:
// staging and fact writes are batched inserts and full-table deletes, while
// dimension statements are single-key lookups and guarded closes.
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		Level:         gormlogger.Warn,
		SlowThreshold: 200 * time.Millisecond,
		LayerSlowThresholds: map[string]time.Duration{
			LayerStaging:   2 * time.Second,
			LayerFact:      2 * time.Second,
			LayerDimension: 100 * time.Millisecond,
		},
	}
}

// GormLogger writes gorm statements to zap with warehouse table and layer fields.
type GormLogger struct {
	level     gormlogger.LogLevel
	slow      time.Duration
	layerSlow map[string]time.Duration
}

func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		level:     cfg.Level,
		slow:      cfg.SlowThreshold,
		layerSlow: cfg.LayerSlowThresholds,
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	copy := *l
	copy.level = level
	return &copy
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		FromContext(ctx).Info(msg, messageFields(data)...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		FromContext(ctx).Warn(msg, messageFields(data)...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		FromContext(ctx).Error(msg, messageFields(data)...)
	}
}

func messageFields(data []interface{}) []zap.Field {
	fields := []zap.Field{zap.String("component", "gorm")}
	if len(data) > 0 {
		fields = append(fields, zap.Any("data", data))
	}
	return fields
}

// Trace logs failed statements at error and slow statements at warn. Not-found
// lookups are expected on dimension merges and are never logged as errors.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	table, layer := classifySQL(sql)

	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound) && l.level >= gormlogger.Error:
		l.logQuery(ctx, sql, rows, table, layer, elapsed, err, zap.ErrorLevel)
	case l.slowFor(layer) > 0 && elapsed > l.slowFor(layer) && l.level >= gormlogger.Warn:
		l.logQuery(ctx, sql, rows, table, layer, elapsed, nil, zap.WarnLevel)
	case l.level >= gormlogger.Info:
		l.logQuery(ctx, sql, rows, table, layer, elapsed, nil, zap.DebugLevel)
	}
}

func (l *GormLogger) slowFor(layer string) time.Duration {
	if d, ok := l.layerSlow[layer]; ok {
		return d
	}
	return l.slow
}

// ParamsFilter strips bound values so customer contact data never reaches the logs.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, _ ...interface{}) (string, []interface{}) {
	return sql, nil
}

func (l *GormLogger) logQuery(ctx context.Context, sql string, rows int64, table, layer string, elapsed time.Duration, err error, level zapcore.Level) {
	fields := []zap.Field{
		zap.String("component", "gorm"),
		zap.String("sql", strings.TrimSpace(sql)),
		zap.String("operation", operationFromSQL(sql)),
		zap.String("layer", layer),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if table != "" {
		fields = append(fields, zap.String("table", table))
	}
	if rows >= 0 {
		fields = append(fields, zap.Int64("rows_affected", rows))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	msg := "gorm.query"
	if level == zap.WarnLevel {
		msg = "gorm.query.slow"
	}
	if ce := FromContext(ctx).Check(level, msg); ce != nil {
		ce.Write(fields...)
	}
}

func operationFromSQL(sql string) string {
	for _, token := range strings.Fields(strings.ToUpper(sql)) {
		switch token = strings.Trim(token, "();"); token {
		case "SELECT", "INSERT", "UPDATE", "DELETE", "TRUNCATE":
			return token
		}
	}
	return "UNKNOWN"
}

// classifySQL returns the first warehouse table the statement references and
// its layer.
func classifySQL(sql string) (string, string) {
	for _, token := range strings.Fields(strings.ToLower(sql)) {
		token = strings.Trim(token, "`\"();,")
		for _, p := range layerPrefixes {
			if strings.HasPrefix(token, p.prefix) {
				return token, p.layer
			}
		}
	}
	return "", LayerOther
}

var _ gormlogger.Interface = (*GormLogger)(nil)
