package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willonboy/ztapi/request"
	"github.com/willonboy/ztapi/wire"
)

// trackingPlugin records which hooks ran on it and can be configured to
// fail at a specific hook.
type trackingPlugin struct {
	name       string
	calls      *[]string
	failOn     string
	failErr    error
	processOut []byte
}

func (p trackingPlugin) record(hook string) {
	*p.calls = append(*p.calls, p.name+":"+hook)
}

func (p trackingPlugin) WillSend(_ context.Context, d *request.Descriptor) (*request.Descriptor, error) {
	p.record("willSend")

	if p.failOn == "willSend" {
		return nil, p.failErr
	}

	return d, nil
}

func (p trackingPlugin) DidReceive(_ context.Context, _ *wire.Response, _ []byte, _ *request.Descriptor) error {
	p.record("didReceive")

	if p.failOn == "didReceive" {
		return p.failErr
	}

	return nil
}

func (p trackingPlugin) Process(_ context.Context, data []byte, _ *wire.Response, _ *request.Descriptor) ([]byte, error) {
	p.record("process")

	if p.failOn == "process" {
		return nil, p.failErr
	}

	if p.processOut != nil {
		return p.processOut, nil
	}

	return data, nil
}

func (p trackingPlugin) DidCatch(context.Context, error, *request.Descriptor, *wire.Response) error {
	p.record("didCatch")

	return nil
}

func TestPipeline_RunsAllFourPhasesInOrderOnSuccess(t *testing.T) {
	var calls []string
	a := trackingPlugin{name: "a", calls: &calls}
	b := trackingPlugin{name: "b", calls: &calls}

	pipe := New([]request.Plugin{a, b})

	data, resp, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return []byte("body"), &wire.Response{StatusCode: 200}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "body", string(data))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{
		"a:willSend", "b:willSend",
		"a:didReceive", "b:didReceive",
		"a:process", "b:process",
	}, calls)
}

func TestPipeline_ProcessChainsDataThroughPlugins(t *testing.T) {
	var calls []string
	a := trackingPlugin{name: "a", calls: &calls, processOut: []byte("from-a")}
	b := trackingPlugin{name: "b", calls: &calls}

	pipe := New([]request.Plugin{a, b})

	data, _, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return []byte("original"), &wire.Response{}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "from-a", string(data))
}

func TestPipeline_WillSendFailureCatchesOnlyPluginsThatAlreadyRan(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	a := trackingPlugin{name: "a", calls: &calls}
	b := trackingPlugin{name: "b", calls: &calls, failOn: "willSend", failErr: boom}
	c := trackingPlugin{name: "c", calls: &calls}

	pipe := New([]request.Plugin{a, b, c})

	_, _, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		t.Fatal("send should not be called when willSend fails")
		return nil, nil, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"a:willSend", "b:willSend",
		"a:didCatch", "b:didCatch",
	}, calls)
}

func TestPipeline_SendFailureCatchesEveryPluginInDeclarationOrder(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	a := trackingPlugin{name: "a", calls: &calls}
	b := trackingPlugin{name: "b", calls: &calls}

	pipe := New([]request.Plugin{a, b})

	_, _, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return nil, nil, boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"a:willSend", "b:willSend",
		"a:didCatch", "b:didCatch",
	}, calls)
}

func TestPipeline_DidReceiveFailureCatchesEveryPlugin(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	a := trackingPlugin{name: "a", calls: &calls, failOn: "didReceive", failErr: boom}
	b := trackingPlugin{name: "b", calls: &calls}

	pipe := New([]request.Plugin{a, b})

	_, _, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return []byte("x"), &wire.Response{}, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"a:willSend", "b:willSend",
		"a:didReceive",
		"a:didCatch", "b:didCatch",
	}, calls)
}

func TestPipeline_ProcessFailureCatchesEveryPlugin(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	a := trackingPlugin{name: "a", calls: &calls}
	b := trackingPlugin{name: "b", calls: &calls, failOn: "process", failErr: boom}

	pipe := New([]request.Plugin{a, b})

	_, _, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return []byte("x"), &wire.Response{}, nil
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{
		"a:willSend", "b:willSend",
		"a:didReceive", "b:didReceive",
		"a:process", "b:process",
		"a:didCatch", "b:didCatch",
	}, calls)
}

func TestPipeline_EmptyPluginListJustCallsSend(t *testing.T) {
	pipe := New(nil)

	data, resp, err := pipe.Run(context.Background(), &request.Descriptor{}, func(ctx context.Context, d *request.Descriptor) ([]byte, *wire.Response, error) {
		return []byte("x"), &wire.Response{StatusCode: 204}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
	assert.Equal(t, 204, resp.StatusCode)
}
