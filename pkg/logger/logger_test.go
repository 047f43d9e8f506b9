package logger

import (
	"context"
	"errors"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mockLogLevel int8 = 0

func TestGetReturnsSameInstanceOnSubsequentCalls(t *testing.T) {
	logger1 := Get(mockLogLevel)
	logger2 := Get(-1)
	require.NotNil(t, logger1)
	assert.Same(t, logger1, logger2, "Get should initialise only once")
}

func TestSetupReturnsNoopLoggerIfGlobalLoggerNil(t *testing.T) {
	Get(mockLogLevel)
	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()

	assert.Same(t, &defaultNoopLogger, Setup(Options{}))
}

func TestWithLoggerReturnsSameContextIfLoggerAlreadySet(t *testing.T) {
	lgr := Get(mockLogLevel)
	ctx := WithLogger(context.Background(), lgr)
	assert.Equal(t, ctx, WithLogger(ctx, lgr))
}

func TestWithLoggerReplacesLoggerIfDifferent(t *testing.T) {
	ctx := WithLogger(context.Background(), Get(mockLogLevel))
	other := logr.Discard()
	got := FromContext(WithLogger(ctx, &other))
	assert.Same(t, &other, got)
}

func TestFromContextFallbacks(t *testing.T) {
	global := Get(mockLogLevel)
	assert.Same(t, global, FromContext(context.Background()))

	orig := globalLogrLogger
	globalLogrLogger = nil
	defer func() { globalLogrLogger = orig }()
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))
}

func TestFromContextNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is tolerated on purpose
	assert.NotNil(t, FromContext(nil))
}

func TestSyncDoesNotPanicWhenGlobalZapLoggerIsNil(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(syscall.ENOTTY))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}

func TestWithValuesReturnsNewLogger(t *testing.T) {
	lgr := Get(mockLogLevel)
	newLogger := WithValues(lgr, TokenKey, "blue_sky")
	require.NotNil(t, newLogger)
	assert.NotSame(t, lgr, newLogger)
}

func TestForComponent(t *testing.T) {
	lgr := logr.Discard()
	ctx := WithLogger(context.Background(), &lgr)
	assert.NotPanics(t, func() {
		ForComponent(ctx, "tagindex").V(1).Info("lookup", TokenKey, "sky")
	})
}
