package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	slot := Slot{Backend: mem, Key: "sid-1"}

	_, err := slot.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slot.Save(ctx, "tok-a"))
	require.NoError(t, slot.Save(ctx, "tok-b"))
	got, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-b", got)

	other := Slot{Backend: mem, Key: "sid-2"}
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slot.Clear(ctx))
	require.NoError(t, slot.Clear(ctx))
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, mem.Len())
}

func TestEmptySlot(t *testing.T) {
	ctx := context.Background()
	var s Slot
	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, s.Save(ctx, "x"))
	assert.NoError(t, s.Clear(ctx))
}

func TestOpenMemoryAndUnknown(t *testing.T) {
	b, closeFn, err := Open(context.Background(), Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
	assert.NoError(t, closeFn())

	_, _, err = Open(context.Background(), Options{Driver: "etcd"})
	assert.Error(t, err)
}
