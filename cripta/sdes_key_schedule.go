package cripta

import (
	"fmt"
)

// Key is a 10-bit S-DES master key held in the low bits.
type Key uint16

const (
	KeyBits = 10
	KeyMask = Key(1)<<KeyBits - 1

	halfKeyBits = KeyBits / 2
	halfKeyMask = uint16(1)<<halfKeyBits - 1
)

var P10 = []int{3, 5, 2, 7, 4, 10, 1, 9, 8, 6}

var P8 = []int{6, 3, 7, 4, 8, 5, 10, 9}

// SHIFT_SCHEDULE holds the rotation applied to both halves before each round key,
// relative to the previous one (1, then 2 more for a net 3).
var SHIFT_SCHEDULE = []int{1, 2}

type SDESKeySchedule struct{}

func (sks *SDESKeySchedule) GenerateRoundKeys(masterKey Key) ([]uint8, error) {
	if masterKey&^KeyMask != 0 {
		return nil, fmt.Errorf("S-DES key must fit in %d bits, got %#x", KeyBits, uint16(masterKey))
	}

	roundKeys := make([]uint8, 0, len(SHIFT_SCHEDULE))

	permutedKey := PermuteBits(uint16(masterKey), P10, KeyBits)

	left := (permutedKey >> halfKeyBits) & halfKeyMask
	right := permutedKey & halfKeyMask

	for _, shift := range SHIFT_SCHEDULE {
		left = RotateLeft(left, shift, halfKeyBits)
		right = RotateLeft(right, shift, halfKeyBits)

		combined := left<<halfKeyBits | right
		roundKeys = append(roundKeys, uint8(PermuteBits(combined, P8, KeyBits)))
	}

	return roundKeys, nil
}

// DeriveKeys returns the two round keys for key. Bits above the tenth are ignored.
func DeriveKeys(key Key) (k1, k2 uint8) {
	roundKeys, _ := (&SDESKeySchedule{}).GenerateRoundKeys(key & KeyMask)
	return roundKeys[0], roundKeys[1]
}

func (k Key) String() string {
	return BinaryString(uint16(k), KeyBits)
}
