package bitmask

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// FixedWidth is the number of bits a Mask holds without spilling into its
// overflow words. Allocators refuse to go beyond it unless built wide.
const FixedWidth = 256

const (
	wordSize   = 64
	fixedWords = FixedWidth / wordSize
)

// Mask is a set of resource bits. The first FixedWidth bits live inline; the
// overflow words are only used by wide allocators. Masks are values: Or never
// modifies its operands.
type Mask struct {
	fixed    [fixedWords]uint64
	overflow []uint64
}

// Bit returns the mask with only bit i set.
func Bit(i int) Mask {
	var mask Mask
	mask.set(i)
	return mask
}

func (m *Mask) set(i int) {
	if i < FixedWidth {
		m.fixed[i/wordSize] |= 1 << (i % wordSize)
		return
	}

	word := (i - FixedWidth) / wordSize
	if word >= len(m.overflow) {
		m.overflow = append(m.overflow, make([]uint64, word-len(m.overflow)+1)...)
	}
	m.overflow[word] |= 1 << ((i - FixedWidth) % wordSize)
}

func (m Mask) Has(i int) bool {
	if i < 0 {
		return false
	} else if i < FixedWidth {
		return m.fixed[i/wordSize]&(1<<(i%wordSize)) != 0
	}

	word := (i - FixedWidth) / wordSize
	return word < len(m.overflow) && m.overflow[word]&(1<<((i-FixedWidth)%wordSize)) != 0
}

func (m Mask) Or(other Mask) Mask {
	var result Mask
	for i := range m.fixed {
		result.fixed[i] = m.fixed[i] | other.fixed[i]
	}

	if len(m.overflow) > 0 || len(other.overflow) > 0 {
		result.overflow = make([]uint64, max(len(m.overflow), len(other.overflow)))
		copy(result.overflow, m.overflow)
		for i, word := range other.overflow {
			result.overflow[i] |= word
		}
	}

	return result
}

func (m Mask) And(other Mask) Mask {
	var result Mask
	for i := range m.fixed {
		result.fixed[i] = m.fixed[i] & other.fixed[i]
	}

	if words := min(len(m.overflow), len(other.overflow)); words > 0 {
		result.overflow = make([]uint64, words)
		for i := range words {
			result.overflow[i] = m.overflow[i] & other.overflow[i]
		}
	}

	return result
}

// Intersects reports whether the two masks share a bit, i.e. whether the
// resources they stand for overlap.
func (m Mask) Intersects(other Mask) bool {
	for i := range m.fixed {
		if m.fixed[i]&other.fixed[i] != 0 {
			return true
		}
	}
	for i := range min(len(m.overflow), len(other.overflow)) {
		if m.overflow[i]&other.overflow[i] != 0 {
			return true
		}
	}
	return false
}

// Contains reports whether every bit of other is also set in m.
func (m Mask) Contains(other Mask) bool {
	return other.And(m).Equal(other)
}

func (m Mask) IsZero() bool {
	return m.Count() == 0
}

func (m Mask) Count() int {
	count := 0
	for _, word := range m.fixed {
		count += bits.OnesCount64(word)
	}
	for _, word := range m.overflow {
		count += bits.OnesCount64(word)
	}
	return count
}

// Equal compares the set bits, ignoring trailing zero overflow words.
func (m Mask) Equal(other Mask) bool {
	if m.fixed != other.fixed {
		return false
	}
	a, b := trimmed(m.overflow), trimmed(other.overflow)
	return slices.Equal(a, b)
}

func trimmed(words []uint64) []uint64 {
	end := len(words)
	for end > 0 && words[end-1] == 0 {
		end--
	}
	return words[:end]
}

// Bits lists the set bit positions in ascending order.
func (m Mask) Bits() []int {
	positions := make([]int, 0, m.Count())
	collect := func(offset int, word uint64) {
		for word != 0 {
			positions = append(positions, offset+bits.TrailingZeros64(word))
			word &= word - 1
		}
	}

	for i, word := range m.fixed {
		collect(i*wordSize, word)
	}
	for i, word := range m.overflow {
		collect(FixedWidth+i*wordSize, word)
	}
	return positions
}

// String renders the mask as a hexadecimal number without leading zeros.
func (m Mask) String() string {
	words := append(slices.Clone(m.fixed[:]), m.overflow...)
	words = trimmed(words)
	if len(words) == 0 {
		return "0x0"
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "0x%x", words[len(words)-1])
	for i := len(words) - 2; i >= 0; i-- {
		fmt.Fprintf(&builder, "%016x", words[i])
	}
	return builder.String()
}
