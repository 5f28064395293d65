package pagestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_PrimaryPage_NoOverflowAllocation(t *testing.T) {
	s := New[int](4)

	slot := s.Get(2)
	assert.NotNil(t, slot)
	assert.Nil(t, slot.Load())

	v := 42
	slot.Store(&v)
	assert.Equal(t, &v, s.Get(2).Load())
	assert.Equal(t, 0, len(s.overflow))
}

func TestStore_Get_UnallocatedOverflow_ReturnsNil(t *testing.T) {
	s := New[int](4)
	assert.Nil(t, s.Get(10))
	assert.Equal(t, 0, len(s.overflow))
}

func TestStore_GetOrCreate_Overflow(t *testing.T) {
	s := New[int](4)

	slot := s.GetOrCreate(4) // first overflow id: page 0, index 0
	assert.NotNil(t, slot)
	v := 7
	slot.Store(&v)

	assert.Equal(t, &v, s.Get(4).Load())

	// a distant id grows the overflow vector to reach it
	far := s.GetOrCreate(4 + 4*3 + 1) // page 3, index 1
	assert.NotNil(t, far)
	assert.Equal(t, 4, len(s.overflow))
}

func TestStore_Locate_OffByOneAtCapacity(t *testing.T) {
	s := New[int](8)

	primary, _, index := s.locate(7)
	assert.True(t, primary)
	assert.Equal(t, 7, index)

	primary, page, index := s.locate(8)
	assert.False(t, primary)
	assert.Equal(t, 0, page)
	assert.Equal(t, 0, index)
}

func TestStore_New_PanicsOnNonPositiveCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
	assert.Panics(t, func() { New[int](-1) })
}
