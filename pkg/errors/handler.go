package errors

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives hanging exits resolved by a coordinator's
	// fallback, failed or timed-out navigations and panics recovered from
	// sound cues. The CLI replaces it with a LogHandler bound to its zap
	// logger once logging is configured.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func handler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now()
	}
}

// Report sends err to the global handler, stamping it if needed. Reports are
// delivered synchronously on the scheduler goroutine that raised them.
func Report(err *Error) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	if h := handler(); h != nil {
		h.HandleError(err)
	}
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	stamp(&err.Timestamp)
	if h := handler(); h != nil {
		h.HandlePanic(err)
	}
}

// Recover reports a panic raised below the deferring function and stops it
// from unwinding further. Cues and listeners run inside transitions, so a
// panic there must not leave a scope stuck mid-flight.
//
//	defer errors.Recover("sound.Cue.Play")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// RecoverWithCallback is Recover followed by callback(r), so callers can
// count or log the failure in their own terms.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
		if callback != nil {
			callback(r)
		}
	}
}

// CaptureStack returns the current call stack as a string, skipping
// CaptureStack itself and its caller's deferred frame.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
