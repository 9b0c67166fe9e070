package cripta

import (
	"fmt"
)

// FeistelNetwork runs the S-DES rounds on an 8-bit block split into 4-bit halves.
// Each round computes L ^= F(R, K); the halves are swapped between rounds but not
// after the last one.
type FeistelNetwork struct {
	keySchedule   IKeySchedule
	roundFunction IRoundFunction

	roundsCount int

	roundKeys []uint8
}

func NewFeistelNetwork(
	keyScheduleImpl IKeySchedule,
	roundFunctionImpl IRoundFunction,
	roundsCount int,
) (*FeistelNetwork, error) {

	if keyScheduleImpl == nil {
		return nil, fmt.Errorf("key schedule implementation cannot be nil")
	}
	if roundFunctionImpl == nil {
		return nil, fmt.Errorf("round function implementation cannot be nil")
	}

	fRoundsCount := roundsCount
	if fRoundsCount == 0 {
		fRoundsCount = 2
	}

	return &FeistelNetwork{
		keySchedule:   keyScheduleImpl,
		roundFunction: roundFunctionImpl,
		roundsCount:   fRoundsCount,
		roundKeys:     make([]uint8, fRoundsCount),
	}, nil
}

func (fn *FeistelNetwork) GetRoundsCount() int {
	return fn.roundsCount
}

func (fn *FeistelNetwork) RoundKeys() []uint8 {
	keys := make([]uint8, len(fn.roundKeys))
	copy(keys, fn.roundKeys)
	return keys
}

func (fn *FeistelNetwork) splitBlock(block uint8) (uint8, uint8) {
	return block >> 4, block & 0x0F
}

func (fn *FeistelNetwork) combineBlocks(left uint8, right uint8) uint8 {
	return (left&0x0F)<<4 | right&0x0F
}

func (fn *FeistelNetwork) SetKey(key Key) error {
	roundKeys, err := fn.keySchedule.GenerateRoundKeys(key)
	if err != nil {
		return fmt.Errorf("failed to generate round keys: %w", err)
	}

	return fn.SetRoundKeys(roundKeys)
}

// SetRoundKeys installs precomputed round keys, bypassing the key schedule.
func (fn *FeistelNetwork) SetRoundKeys(roundKeys []uint8) error {
	if len(roundKeys) < fn.roundsCount {
		return fmt.Errorf("insufficient round keys: got %d, need %d",
			len(roundKeys), fn.roundsCount)
	}

	keys := make([]uint8, fn.roundsCount)
	copy(keys, roundKeys)
	fn.roundKeys = keys

	return nil
}

// Round is one application of fk: (L xor F(R, K)) || R.
func (fn *FeistelNetwork) Round(block uint8, roundKey uint8) uint8 {
	left, right := fn.splitBlock(block)
	left ^= fn.roundFunction.Apply(right, roundKey)
	return fn.combineBlocks(left, right)
}

func (fn *FeistelNetwork) swap(block uint8) uint8 {
	left, right := fn.splitBlock(block)
	return fn.combineBlocks(right, left)
}

func (fn *FeistelNetwork) EncryptBlock(plainBlock uint8) uint8 {
	block := plainBlock
	for round := 0; round < fn.roundsCount; round++ {
		block = fn.Round(block, fn.roundKeys[round])
		if round < fn.roundsCount-1 {
			block = fn.swap(block)
		}
	}
	return block
}

func (fn *FeistelNetwork) DecryptBlock(cipherBlock uint8) uint8 {
	block := cipherBlock
	for round := fn.roundsCount - 1; round >= 0; round-- {
		block = fn.Round(block, fn.roundKeys[round])
		if round > 0 {
			block = fn.swap(block)
		}
	}
	return block
}
