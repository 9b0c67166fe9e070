package cripta

import (
	"fmt"
	"strings"
)

// PermuteBits reads value as an inputWidth-bit number and builds a new one from the
// bits named by rule. Positions are 1-based and counted from the most significant bit;
// the result holds len(rule) bits, first rule entry in the highest position.
func PermuteBits(value uint16, rule []int, inputWidth int) uint16 {
	var result uint16

	for i := 0; i < len(rule); i++ {
		sourcePos := rule[i]
		if sourcePos < 1 || sourcePos > inputWidth {
			panic(fmt.Sprintf("cripta: position %d out of bounds for %d-bit input", sourcePos, inputWidth))
		}

		bitValue := (value >> (inputWidth - sourcePos)) & 1
		result = (result << 1) | bitValue
	}

	return result
}

// RotateLeft rotates the low width bits of value left by shift positions.
func RotateLeft(value uint16, shift int, width int) uint16 {
	mask := uint16(1)<<width - 1
	value &= mask

	shift %= width
	if shift == 0 {
		return value
	}

	return ((value << shift) | (value >> (width - shift))) & mask
}

func BinaryString(value uint16, width int) string {
	var sb strings.Builder
	sb.Grow(width)
	for i := width - 1; i >= 0; i-- {
		if (value>>i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
