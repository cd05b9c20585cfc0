package state

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_RunsImmediatelyThenPerTick(t *testing.T) {
	factory := &tickerFactory{}
	p := NewPoller(factory.New, time.Minute)
	var runs atomic.Int32

	require.True(t, p.Start(context.Background(), func(context.Context) { runs.Add(1) }))
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, time.Millisecond)

	factory.last().ch <- time.Now()
	factory.last().ch <- time.Now()
	require.Eventually(t, func() bool { return runs.Load() == 3 }, time.Second, time.Millisecond)

	p.Stop()
	assert.False(t, p.Active())
	assert.True(t, factory.last().stopped.Load())
}

func TestPoller_SecondStartIsNoop(t *testing.T) {
	factory := &tickerFactory{}
	p := NewPoller(factory.New, time.Minute)
	fn := func(context.Context) {}

	assert.True(t, p.Start(context.Background(), fn))
	assert.False(t, p.Start(context.Background(), fn))
	assert.Equal(t, 1, factory.built())
	p.Stop()
}

func TestPoller_NilTickerNeverStarts(t *testing.T) {
	p := NewPoller(nil, time.Minute)
	called := false

	assert.False(t, p.Start(context.Background(), func(context.Context) { called = true }))
	assert.False(t, p.Active())
	p.Stop()
	assert.False(t, called)
}

func TestPoller_ParentCancelReleasesHandle(t *testing.T) {
	factory := &tickerFactory{}
	p := NewPoller(factory.New, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	require.True(t, p.Start(ctx, func(context.Context) {}))
	cancel()

	require.Eventually(t, func() bool { return !p.Active() }, time.Second, time.Millisecond)
	assert.True(t, p.Start(context.Background(), func(context.Context) {}))
	p.Stop()
}

func TestSystemTicker(t *testing.T) {
	tk := SystemTicker(time.Millisecond)
	defer tk.Stop()

	select {
	case <-tk.C():
	case <-time.After(time.Second):
		t.Fatal("system ticker never fired")
	}
}
