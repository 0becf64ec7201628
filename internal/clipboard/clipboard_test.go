package clipboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWriteText(t *testing.T) {
	m := NewMemory()

	require.NoError(t, m.WriteText(context.Background(), "test1234"))
	assert.Equal(t, "test1234", m.Text())
	assert.Equal(t, 1, m.Writes())

	require.NoError(t, m.WriteText(context.Background(), "second"))
	assert.Equal(t, "second", m.Text())
	assert.Equal(t, 2, m.Writes())
}

func TestMemoryFailWith(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.WriteText(context.Background(), "kept"))

	denied := errors.New("permission denied")
	m.FailWith(denied)

	err := m.WriteText(context.Background(), "lost")
	require.ErrorIs(t, err, denied)
	assert.Equal(t, "kept", m.Text())
	assert.Equal(t, 1, m.Writes())

	m.FailWith(nil)
	require.NoError(t, m.WriteText(context.Background(), "again"))
	assert.Equal(t, "again", m.Text())
}

func TestMemoryCanceledContext(t *testing.T) {
	m := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.WriteText(ctx, "text")
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Text())
}

func TestUnavailable(t *testing.T) {
	var w Writer = Unavailable{}
	err := w.WriteText(context.Background(), "text")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestSystemCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := System{}.WriteText(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}
