package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willonboy/ztapi/wire"
)

func TestStub_NoResponsesReturnsDefaultOK(t *testing.T) {
	s := &Stub{}

	data, resp, err := s.Do(context.Background(), &wire.Request{}, nil)
	require.NoError(t, err)
	assert.Nil(t, data)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, s.CallCount())
}

func TestStub_ConsumesResponsesInFIFOOrderThenRepeatsLast(t *testing.T) {
	s := &Stub{Responses: []StubResponse{
		{Body: []byte("first")},
		{Body: []byte("second")},
	}}

	data1, _, err := s.Do(context.Background(), &wire.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data1))

	data2, _, err := s.Do(context.Background(), &wire.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data2))

	data3, _, err := s.Do(context.Background(), &wire.Request{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data3))

	assert.Equal(t, 3, s.CallCount())
	assert.Len(t, s.Calls, 3)
}

func TestStub_ReturnsConfiguredError(t *testing.T) {
	boom := assert.AnError
	s := &Stub{Responses: []StubResponse{{Err: boom, Response: &wire.Response{StatusCode: 500}}}}

	_, resp, err := s.Do(context.Background(), &wire.Request{}, nil)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestStub_CallsOnProgressWhenBodyNonEmpty(t *testing.T) {
	s := &Stub{Responses: []StubResponse{{Body: []byte("hello")}}}

	var gotSent, gotTotal int64
	_, _, err := s.Do(context.Background(), &wire.Request{}, func(sent, total int64) {
		gotSent, gotTotal = sent, total
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), gotSent)
	assert.Equal(t, int64(5), gotTotal)
}

func TestStub_DelayIsCancellable(t *testing.T) {
	s := &Stub{Responses: []StubResponse{{Body: []byte("x"), Delay: time.Second}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Do(ctx, &wire.Request{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
