// Package logger provides a stats collector that writes every metric
// update to a zap logger at debug level.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/discochess/repertoire/internal/stats"
)

// Collector implements stats.Collector by logging metrics via zap.
type Collector struct {
	logger *zap.Logger
	level  zapcore.Level
}

var _ stats.Collector = (*Collector)(nil)

// New creates a collector that logs under the "stats" name.
// A nil logger discards everything.
func New(logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{logger: logger.Named("stats"), level: zapcore.DebugLevel}
}

// WithLevel returns a copy of c that logs at level instead of debug.
func (c *Collector) WithLevel(level zapcore.Level) *Collector {
	return &Collector{logger: c.logger, level: level}
}

func (c *Collector) IncCounter(name string, delta int64) {
	c.write("counter", zap.String("metric", name), zap.Int64("delta", delta))
}

func (c *Collector) SetGauge(name string, value int64) {
	c.write("gauge", zap.String("metric", name), zap.Int64("value", value))
}

func (c *Collector) ObserveHistogram(name string, value float64) {
	c.write("histogram", zap.String("metric", name), zap.Float64("value", value))
}

func (c *Collector) write(kind string, fields ...zap.Field) {
	if ce := c.logger.Check(c.level, kind); ce != nil {
		ce.Write(fields...)
	}
}
