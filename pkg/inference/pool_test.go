package inference

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/matzehuels/repoinsight/pkg/errors"
)

type fakeHandle struct {
	id     string
	mu     sync.Mutex
	closed int
}

func (h *fakeHandle) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return h.id + ":" + prompt, nil
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed++
	return nil
}

func (h *fakeHandle) closedCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

type fakeLoader struct {
	mu      sync.Mutex
	handles map[string]*fakeHandle
	loads   int
	fail    error
}

func (l *fakeLoader) Load(ctx context.Context, id string) (Handle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail != nil {
		return nil, l.fail
	}
	l.loads++
	h := &fakeHandle{id: id}
	if l.handles == nil {
		l.handles = map[string]*fakeHandle{}
	}
	l.handles[id] = h
	return h, nil
}

func TestPoolReusesHandles(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	p, err := NewPool(loader, PoolOptions{Size: 2})
	require.NoError(t, err)

	a, err := p.Checkout(ctx, "a")
	require.NoError(t, err)
	out, err := a.Generate(ctx, "hi", GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "a:hi", out)
	a.Release()
	a.Release()

	again, err := p.Checkout(ctx, "a")
	require.NoError(t, err)
	again.Release()

	assert.Equal(t, 1, loader.loads)
	assert.Equal(t, "a", again.ModelID())
	assert.Equal(t, 1, p.Len())
}

func TestPoolEvictionClosesIdleHandles(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	p, err := NewPool(loader, PoolOptions{Size: 1})
	require.NoError(t, err)

	a, err := p.Checkout(ctx, "a")
	require.NoError(t, err)
	a.Release()

	b, err := p.Checkout(ctx, "b")
	require.NoError(t, err)
	defer b.Release()

	assert.Equal(t, 1, loader.handles["a"].closedCount())
	assert.Equal(t, 0, loader.handles["b"].closedCount())
}

func TestPoolEvictionWaitsForLease(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	p, err := NewPool(loader, PoolOptions{Size: 1})
	require.NoError(t, err)

	a, err := p.Checkout(ctx, "a")
	require.NoError(t, err)

	b, err := p.Checkout(ctx, "b")
	require.NoError(t, err)
	b.Release()

	assert.Equal(t, 0, loader.handles["a"].closedCount(), "leased handle closed early")
	a.Release()
	assert.Equal(t, 1, loader.handles["a"].closedCount())
}

func TestPoolLoadFailure(t *testing.T) {
	p, err := NewPool(&fakeLoader{fail: errors.New("no weights")}, PoolOptions{})
	require.NoError(t, err)

	_, err = p.Checkout(context.Background(), "a")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCodeInferenceUnavailable))
	assert.Contains(t, err.Error(), "no weights")
}

func TestPoolClose(t *testing.T) {
	ctx := context.Background()
	loader := &fakeLoader{}
	p, err := NewPool(loader, PoolOptions{})
	require.NoError(t, err)

	a, err := p.Checkout(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, p.Close())
	assert.Equal(t, 0, loader.handles["a"].closedCount())
	a.Release()
	assert.Equal(t, 1, loader.handles["a"].closedCount())

	_, err = p.Checkout(ctx, "b")
	assert.True(t, pkgerrors.Is(err, pkgerrors.ErrCodeInferenceUnavailable))
}

func TestOfflineLoader(t *testing.T) {
	h, err := OfflineLoader{}.Load(context.Background(), "any")
	require.NoError(t, err)
	_, err = h.Generate(context.Background(), "x", GenerateOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiLoaderRequiresKey(t *testing.T) {
	_, err := GeminiLoader{}.Load(context.Background(), "gemini-2.0-flash")
	assert.Error(t, err)
}
