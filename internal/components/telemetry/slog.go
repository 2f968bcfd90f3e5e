package telemetry

import (
	"fmt"
	"log/slog"
)

// SlogAPI implements API on top of a slog.Logger, slog's default logger is
// used when Logger is nil.
type SlogAPI struct {
	Logger *slog.Logger
}

func (s SlogAPI) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// attrs turns report params into slog attributes, errors are logged under
// "err" while everything else is numbered by position.
func attrs(id string, params []any) []any {
	out := make([]any, 0, 2+2*len(params))
	if id != "" {
		out = append(out, "id", id)
	}
	for i, p := range params {
		if err, ok := p.(error); ok {
			out = append(out, "err", err.Error())
			continue
		}
		out = append(out, fmt.Sprintf("params.%d", i), p)
	}
	return out
}

func (s SlogAPI) ReportBroken(id string, params ...any) {
	s.logger().Error("broken component", attrs(id, params)...)
}

func (s SlogAPI) ReportWarning(id string, params ...any) {
	s.logger().Warn("incomplete data", attrs(id, params)...)
}

func (s SlogAPI) ReportDebug(message string, params ...any) {
	s.logger().Debug(message, attrs("", params)...)
}

func (s SlogAPI) ReportCount(id string, count int64) {
	s.logger().Info("count", "id", id, "n", count)
}
