package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willonboy/ztapi/log"
	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

func TestLoggingPlugin_WillSendLogsRedactedHeaders(t *testing.T) {
	logger := log.NewTestLogger()
	p := NewLoggingPlugin(logger)

	d := &request.Descriptor{
		Method:  wire.MethodGet,
		URL:     "https://api.example.com",
		Headers: wire.Headers{{Name: "Authorization", Value: "Bearer secret"}},
	}

	_, err := p.WillSend(context.Background(), d)
	require.NoError(t, err)

	entries := logger.GetLogsByLevel("DEBUG")
	require.Len(t, entries, 1)
	assert.Equal(t, "sending request", entries[0].Message)
}

func TestLoggingPlugin_NilLoggerIsNoop(t *testing.T) {
	p := LoggingPlugin{}
	d := &request.Descriptor{URL: "https://api.example.com"}

	next, err := p.WillSend(context.Background(), d)
	require.NoError(t, err)
	assert.Same(t, d, next)

	assert.NoError(t, p.DidReceive(context.Background(), &wire.Response{}, nil, d))
	assert.NoError(t, p.DidCatch(context.Background(), errors.New("boom"), d, nil))
}

func TestLoggingPlugin_DidReceiveLogsStatus(t *testing.T) {
	logger := log.NewTestLogger()
	p := NewLoggingPlugin(logger)

	d := &request.Descriptor{URL: "https://api.example.com"}
	err := p.DidReceive(context.Background(), &wire.Response{StatusCode: 204}, nil, d)
	require.NoError(t, err)

	entries := logger.GetLogsByLevel("DEBUG")
	require.Len(t, entries, 1)
	assert.Equal(t, 204, fieldValue(t, entries[0], "http.status"))
}

func TestLoggingPlugin_DidCatchLogsWarning(t *testing.T) {
	logger := log.NewTestLogger()
	p := NewLoggingPlugin(logger)

	boom := errors.New("boom")
	d := &request.Descriptor{URL: "https://api.example.com"}
	err := p.DidCatch(context.Background(), boom, d, nil)
	require.NoError(t, err)

	entries := logger.GetLogsByLevel("WARN")
	require.Len(t, entries, 1)
	assert.Equal(t, "request attempt failed", entries[0].Message)
}

// fieldValue looks up a structured field's value by key within a
// TestLogger entry.
func fieldValue(t *testing.T, entry log.LogEntry, key string) any {
	t.Helper()

	v, ok := entry.Fields[key]
	if !ok {
		t.Fatalf("field %q not found in entry %+v", key, entry)
	}

	return v
}

func TestLoggingPlugin_ProcessPassesDataThrough(t *testing.T) {
	p := LoggingPlugin{}
	out, err := p.Process(context.Background(), []byte("x"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", string(out))
}
