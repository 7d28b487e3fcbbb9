package x_db

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//
// ---------- statement tags ----------

type tagsKey struct{}

// WithTags attaches key/value pairs that every statement run under ctx logs.
// Pairs nest: tags from an outer context are kept.
func WithTags(ctx context.Context, kv ...string) context.Context {
	tags := append(slices.Clone(Tags(ctx)), kv...)
	return context.WithValue(ctx, tagsKey{}, tags)
}

// Tags returns the flat key/value list stored by WithTags.
func Tags(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	tags, _ := ctx.Value(tagsKey{}).([]string)
	return tags
}

//
// ---------- GORM log adapter ----------

// logAdapter routes gorm output to zerolog, tagging each line with the
// statement's context tags.
type logAdapter struct {
	log   *zerolog.Logger
	level logger.LogLevel
	slow  time.Duration
}

func newLogAdapter(zlog *zerolog.Logger, level logger.LogLevel) logger.Interface {
	return &logAdapter{log: zlog, level: level, slow: 200 * time.Millisecond}
}

func (l *logAdapter) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *logAdapter) event(ctx context.Context, at logger.LogLevel, ev func() *zerolog.Event) *zerolog.Event {
	if l.level < at {
		return nil
	}
	e := ev()
	tags := Tags(ctx)
	for i := 0; i+1 < len(tags); i += 2 {
		e = e.Str(tags[i], tags[i+1])
	}
	return e
}

func (l *logAdapter) Info(ctx context.Context, msg string, data ...any) {
	if e := l.event(ctx, logger.Info, l.log.Info); e != nil {
		e.Msgf(msg, data...)
	}
}

func (l *logAdapter) Warn(ctx context.Context, msg string, data ...any) {
	if e := l.event(ctx, logger.Warn, l.log.Warn); e != nil {
		e.Msgf(msg, data...)
	}
}

func (l *logAdapter) Error(ctx context.Context, msg string, data ...any) {
	if e := l.event(ctx, logger.Error, l.log.Error); e != nil {
		e.Msgf(msg, data...)
	}
}

// Trace logs one statement. Failures log at error, slow statements at warn,
// everything else at debug. Misses on lookups are not failures.
func (l *logAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var e *zerolog.Event
	msg := ""
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return
	case err != nil:
		e, msg = l.event(ctx, logger.Error, l.log.Error), "query failed"
		if e != nil {
			e = e.Err(err)
		}
	case elapsed > l.slow:
		e, msg = l.event(ctx, logger.Warn, l.log.Warn), "slow query"
	default:
		e, msg = l.event(ctx, logger.Info, l.log.Debug), "query"
	}
	if e == nil {
		return
	}
	sql, rows := fc()
	e.Str("sql", sql).Int64("rows", rows).Dur("elapsed", elapsed).Msg(msg)
}
