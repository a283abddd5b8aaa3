package errors

import "go.uber.org/zap"

// LogHandler is an ErrorHandler that writes reports to a zap logger.
// A nil Logger falls back to zap's global logger.
type LogHandler struct {
	Logger *zap.Logger
	// Verbose adds stack traces to log entries.
	Verbose bool
}

func (h *LogHandler) logger() *zap.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return zap.L()
}

// HandleError logs an Error. Hanging exits are warnings; everything else is
// logged at error level.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	fields := []zap.Field{
		zap.String("op", err.Op),
		zap.Stringer("kind", err.Kind),
		zap.Error(err.Err),
	}
	if err.Scope != "" {
		fields = append(fields, zap.String("scope", err.Scope))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	if err.Kind == KindHangingExit {
		h.logger().Warn("choreo error", fields...)
		return
	}
	h.logger().Error("choreo error", fields...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	fields := []zap.Field{zap.Any("value", err.Value)}
	if err.Op != "" {
		fields = append(fields, zap.String("op", err.Op))
	}
	if h.Verbose && err.StackTrace != "" {
		fields = append(fields, zap.String("stack", err.StackTrace))
	}
	h.logger().Error("choreo panic", fields...)
}
