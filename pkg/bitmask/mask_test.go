package bitmask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskOperations(t *testing.T) {
	//** Arrange
	a := Bit(0).Or(Bit(63)).Or(Bit(64))
	b := Bit(64).Or(Bit(255))
	c := Bit(1)

	//** Assert
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.Equal(t, []int{0, 63, 64}, a.Bits())
	assert.Equal(t, 3, a.Count())
	assert.True(t, a.And(b).Equal(Bit(64)))
	assert.True(t, a.Or(c).Contains(a))
	assert.False(t, a.Contains(b))
	assert.True(t, Mask{}.IsZero())
	assert.False(t, c.IsZero())
	assert.True(t, a.Has(63))
	assert.False(t, a.Has(62))
	assert.False(t, a.Has(-1))
}

func TestMaskOverflow(t *testing.T) {
	//** Arrange
	high := Bit(FixedWidth + 70)
	other := Bit(FixedWidth + 3)
	low := Bit(3)

	//** Assert
	assert.False(t, high.Intersects(other))
	assert.False(t, other.Intersects(low))
	assert.True(t, high.Or(low).Intersects(high))
	assert.Equal(t, []int{3, FixedWidth + 3, FixedWidth + 70}, high.Or(other).Or(low).Bits())
	assert.True(t, high.Has(FixedWidth+70))
	assert.False(t, low.Has(FixedWidth+70))

	// Or does not alias its operands
	union := high.Or(other)
	union.set(FixedWidth + 5)
	assert.False(t, high.Has(FixedWidth+5))
	assert.False(t, other.Has(FixedWidth+5))

	// Trailing zero words do not matter
	assert.True(t, high.And(low).Equal(Mask{}))
	assert.True(t, high.And(high.Or(low)).Equal(high))
}

func TestMaskString(t *testing.T) {
	assert.Equal(t, "0x0", Mask{}.String())
	assert.Equal(t, "0x5", Bit(0).Or(Bit(2)).String())
	assert.Equal(t, "0x10000000000000000", Bit(64).String())
	assert.Equal(t, "0x1"+"0000000000000000000000000000000000000000000000000000000000000000", Bit(FixedWidth).String())
}
