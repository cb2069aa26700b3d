package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompletionPort_FIFO(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	reqs := []*Request{{Op: `a`}, {Op: `b`}, {Op: `c`}}
	for _, r := range reqs {
		require.NoError(t, p.post(r))
	}
	for _, want := range reqs {
		got, err := p.dequeue(-1)
		require.NoError(t, err)
		require.Same(t, want, got)
	}
}

func TestCompletionPort_ZeroTimeout(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	start := time.Now()
	_, err = p.dequeue(0)
	require.ErrorIs(t, err, errPollTimeout)
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestCompletionPort_FiniteTimeout(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	start := time.Now()
	_, err = p.dequeue(20)
	require.ErrorIs(t, err, errPollTimeout)
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestCompletionPort_InfiniteWaitWoken(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	want := &Request{Op: `wake`}
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = p.post(want)
	}()

	got, err := p.dequeue(-1)
	require.NoError(t, err)
	require.Same(t, want, got)
}

func TestCompletionPort_BatchOrder(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	reqs := []*Request{{Op: `a`}, {Op: `b`}, {Op: `c`}, {Op: `d`}}
	for _, r := range reqs {
		require.NoError(t, p.post(r))
	}

	buf := make([]*Request, 8)
	n, err := p.dequeueBatch(buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(reqs), n)
	for i, want := range reqs {
		require.Same(t, want, buf[i])
	}

	_, err = p.dequeueBatch(buf, 0)
	require.ErrorIs(t, err, errPollTimeout)
}

func TestCompletionPort_BatchWaits(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)
	defer p.close()

	want := &Request{Op: `late`}
	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = p.post(want)
	}()

	buf := make([]*Request, 4)
	n, err := p.dequeueBatch(buf, -1)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Same(t, want, buf[0])
}

func TestCompletionPort_Close(t *testing.T) {
	p, err := newCompletionPort()
	require.NoError(t, err)

	require.NoError(t, p.close())
	require.NoError(t, p.close()) // idempotent

	require.Error(t, p.post(&Request{}))

	_, err = p.dequeue(0)
	require.Error(t, err)
	require.NotErrorIs(t, err, errPollTimeout)
}
