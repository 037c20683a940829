package glshade

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records. The
// Enabled method returns false so callers skip message formatting entirely,
// making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the diagnostic log sink for glshade and its
// sub-packages. By default glshade produces no log output. Pass nil to
// restore the default silent behavior.
//
// Log levels used by glshade:
//   - [slog.LevelDebug]: generated shader source dumps (when
//     [CacheConfig.LogShaders] is set) and absent persisted combination files.
//   - [slog.LevelWarn]: best-effort persistence failures and per-combination
//     precompilation failures during [ShaderCache.Load].
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current diagnostic logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
