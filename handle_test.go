package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHandle_TeardownSameTick pins the close-to-teardown contract: a
// request handler that closes a handle sees its teardown reaped in the
// same tick, after request dispatch and before the refcount check.
func TestHandle_TeardownSameTick(t *testing.T) {
	l := New()
	defer l.Destroy()

	var order []string
	var dispatchTick, teardownTick uint64
	h := l.NewHandle(func(*Handle) {
		order = append(order, `teardown`)
		teardownTick = l.tickCount
	})

	l.Ref()
	require.NoError(t, l.Post(&Request{
		Op: `close`,
		Done: func(*Request) {
			order = append(order, `request`)
			dispatchTick = l.tickCount
			h.Close()
			l.Unref()
		},
	}))

	require.NoError(t, l.Run())
	require.Equal(t, []string{`request`, `teardown`}, order)
	require.Equal(t, dispatchTick, teardownTick)
}

func TestHandle_DoubleClose(t *testing.T) {
	l := New()
	defer l.Destroy()

	count := 0
	h := l.NewHandle(func(*Handle) { count++ })

	require.False(t, h.Closing())
	h.Close()
	h.Close()
	require.True(t, h.Closing())

	require.NoError(t, l.RunOnce())
	require.Equal(t, 1, count)

	// Closing again after teardown remains a no-op.
	h.Close()
	require.NoError(t, l.RunOnce())
	require.Equal(t, 1, count)
}

func TestHandle_EndgameFIFO(t *testing.T) {
	l := New()
	defer l.Destroy()

	var order []int
	a := l.NewHandle(func(*Handle) { order = append(order, 1) })
	b := l.NewHandle(func(*Handle) { order = append(order, 2) })
	c := l.NewHandle(func(*Handle) { order = append(order, 3) })

	b.Close()
	a.Close()
	c.Close()

	require.NoError(t, l.RunOnce())
	require.Equal(t, []int{2, 1, 3}, order)
}

// TestHandle_CloseFromTeardown verifies a teardown may close further
// handles; they drain within the same endgame pass.
func TestHandle_CloseFromTeardown(t *testing.T) {
	l := New()
	defer l.Destroy()

	var order []int
	inner := l.NewHandle(func(*Handle) { order = append(order, 2) })
	outer := l.NewHandle(func(*Handle) {
		order = append(order, 1)
		inner.Close()
	})

	outer.Close()
	require.NoError(t, l.RunOnce())
	require.Equal(t, []int{1, 2}, order)
}

func TestHandle_NilTeardown(t *testing.T) {
	l := New()
	defer l.Destroy()

	h := l.NewHandle(nil)
	h.Close()
	require.NoError(t, l.RunOnce())
	require.True(t, h.Closing())
}

// TestHandle_TeardownReceivesHandle verifies the teardown argument is
// the closed handle itself.
func TestHandle_TeardownReceivesHandle(t *testing.T) {
	l := New()
	defer l.Destroy()

	var got *Handle
	h := l.NewHandle(func(x *Handle) { got = x })
	h.Close()
	require.NoError(t, l.RunOnce())
	require.Same(t, h, got)
}
