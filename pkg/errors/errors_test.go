package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorString(t *testing.T) {
	err := &Error{
		Op:   "transition.Coordinator.Exit",
		Kind: KindHangingExit,
		Err:  &HangingExitError{Pending: []int{1}, Total: 3, Bound: time.Second},
	}
	assert.Equal(t,
		"transition.Coordinator.Exit [hanging-exit]: 1 of 3 children did not finish exiting within 1s (indices [1])",
		err.Error())
}

func TestErrorWithScope(t *testing.T) {
	err := &Error{
		Op:    "navigation.Navigator.Navigate",
		Kind:  KindNavigation,
		Scope: "page:/events",
		Err:   stderrors.New("exit timed out"),
	}
	assert.Contains(t, err.Error(), "scope=page:/events")
}

func TestErrorUnwrap(t *testing.T) {
	inner := &HangingExitError{Total: 1, Pending: []int{0}}
	err := &Error{Op: "x", Kind: KindHangingExit, Err: inner}

	var target *HangingExitError
	require.True(t, stderrors.As(err, &target))
	assert.Same(t, inner, target)
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindContract, "contract"},
		{KindHangingExit, "hanging-exit"},
		{KindNavigation, "navigation"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String(), "ErrorKind(%d)", tt.kind)
	}
}

func TestContractErrorString(t *testing.T) {
	err := &ContractError{Leaf: "*views.Broken", Missing: []string{"Exit"}}
	assert.Equal(t, "lifecycle contract violation: *views.Broken does not implement Exit(done func())", err.Error())

	both := &ContractError{Leaf: "int", Missing: []string{"Enter", "Exit"}}
	assert.Contains(t, both.Error(), "Enter(done func()) or Exit(done func())")
}

func TestPanicErrorString(t *testing.T) {
	assert.Equal(t, "panic: boom", (&PanicError{Value: "boom"}).Error())
	assert.Equal(t, "panic in sound.play: boom", (&PanicError{Op: "sound.play", Value: "boom"}).Error())
}

func TestReport(t *testing.T) {
	var captured *Error
	withHandler(t, &testHandler{onError: func(err *Error) { captured = err }})

	Report(&Error{Op: "test.op", Kind: KindConfig, Err: stderrors.New("bad")})

	require.NotNil(t, captured)
	assert.Equal(t, "test.op", captured.Op)
	assert.False(t, captured.Timestamp.IsZero())
}

func TestReportNil(t *testing.T) {
	called := false
	withHandler(t, &testHandler{onError: func(*Error) { called = true }})
	Report(nil)
	assert.False(t, called)
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	withHandler(t, &testHandler{onPanic: func(err *PanicError) { captured = err }})

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	require.NotNil(t, captured)
	assert.Equal(t, "intentional test panic", captured.Value)
	assert.Equal(t, "test.recover", captured.Op)
	assert.NotEmpty(t, captured.StackTrace)
}

func TestRecoverWithCallback(t *testing.T) {
	withHandler(t, &testHandler{})

	var got any
	func() {
		defer RecoverWithCallback("test.callback", func(r any) { got = r })
		panic(42)
	}()
	assert.Equal(t, 42, got)
}

func TestRecoverWithCallback_StampsAndKeepsReportedTime(t *testing.T) {
	var panics []*PanicError
	withHandler(t, &testHandler{onPanic: func(err *PanicError) { panics = append(panics, err) }})

	calls := 0
	func() {
		defer RecoverWithCallback("sound.Cue.Play:deploy", func(any) { calls++ })
		panic("boom")
	}()
	func() {
		defer RecoverWithCallback("sound.Cue.Play:deploy", nil)
	}()

	require.Len(t, panics, 1)
	assert.Equal(t, 1, calls)
	assert.False(t, panics[0].Timestamp.IsZero())

	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ReportPanic(&PanicError{Op: "x", Value: 1, Timestamp: at})
	require.Len(t, panics, 2)
	assert.Equal(t, at, panics[1].Timestamp)
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	require.NotEmpty(t, stack)
	assert.True(t, strings.Contains(stack, "testing") || strings.Contains(stack, "runtime"))
}

func TestSetHandlerNil(t *testing.T) {
	old := DefaultHandler
	t.Cleanup(func() { SetHandler(old) })

	SetHandler(nil)
	_, ok := DefaultHandler.(*LogHandler)
	assert.True(t, ok, "SetHandler(nil) should install LogHandler, got %T", DefaultHandler)
}

func TestLogHandlerLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := &LogHandler{Logger: zap.New(core)}

	h.HandleError(&Error{Op: "a", Kind: KindHangingExit, Err: stderrors.New("slow")})
	h.HandleError(&Error{Op: "b", Kind: KindNavigation, Scope: "nav", Err: stderrors.New("lost")})
	h.HandlePanic(&PanicError{Op: "c", Value: "boom"})

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "nav", entries[1].ContextMap()["scope"])
	assert.Equal(t, "choreo panic", entries[2].Message)
}

func withHandler(t *testing.T, h ErrorHandler) {
	t.Helper()
	old := DefaultHandler
	SetHandler(h)
	t.Cleanup(func() { SetHandler(old) })
}

type testHandler struct {
	onError func(*Error)
	onPanic func(*PanicError)
}

func (h *testHandler) HandleError(err *Error) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}
