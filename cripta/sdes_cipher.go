package cripta

import "fmt"

const BlockSize = 1

type SDESCipher struct {
	feistel    *FeistelNetwork
	currentKey Key
}

var IP = []int{2, 6, 3, 1, 4, 8, 5, 7}

var IP_INV = []int{4, 1, 3, 5, 7, 2, 8, 6}

func NewSDESCipher() (*SDESCipher, error) {
	keySchedule := &SDESKeySchedule{}
	roundFunction := &SDESRoundFunction{}

	feistel, err := NewFeistelNetwork(
		keySchedule,
		roundFunction,
		2,
	)
	if err != nil {
		return nil, err
	}

	return &SDESCipher{
		feistel: feistel,
	}, nil
}

// NewSDESCipherWithKey is NewSDESCipher followed by SetKey.
func NewSDESCipherWithKey(key Key) (*SDESCipher, error) {
	sdes, err := NewSDESCipher()
	if err != nil {
		return nil, err
	}
	if err := sdes.SetKey(key); err != nil {
		return nil, err
	}
	return sdes, nil
}

// NewSDESCipherWithRoundKeys builds a cipher from already derived K1 and K2.
func NewSDESCipherWithRoundKeys(k1, k2 uint8) (*SDESCipher, error) {
	sdes, err := NewSDESCipher()
	if err != nil {
		return nil, err
	}
	if err := sdes.feistel.SetRoundKeys([]uint8{k1, k2}); err != nil {
		return nil, err
	}
	return sdes, nil
}

func (sdes *SDESCipher) SetKey(key Key) error {
	err := sdes.feistel.SetKey(key)
	if err != nil {
		return fmt.Errorf("failed to set key in feistel network: %w", err)
	}

	sdes.currentKey = key
	return nil
}

func (sdes *SDESCipher) RoundKeys() (k1, k2 uint8) {
	keys := sdes.feistel.RoundKeys()
	return keys[0], keys[1]
}

func (sdes *SDESCipher) EncryptBlock(plainBlock uint8) uint8 {
	permuted := uint8(PermuteBits(uint16(plainBlock), IP, 8))
	feistelOutput := sdes.feistel.EncryptBlock(permuted)
	return uint8(PermuteBits(uint16(feistelOutput), IP_INV, 8))
}

func (sdes *SDESCipher) DecryptBlock(cipherBlock uint8) uint8 {
	permuted := uint8(PermuteBits(uint16(cipherBlock), IP, 8))
	feistelOutput := sdes.feistel.DecryptBlock(permuted)
	return uint8(PermuteBits(uint16(feistelOutput), IP_INV, 8))
}

// BlockSize, Encrypt and Decrypt satisfy crypto/cipher.Block.

func (sdes *SDESCipher) BlockSize() int {
	return BlockSize
}

func (sdes *SDESCipher) Encrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("cripta: block buffer too small")
	}
	dst[0] = sdes.EncryptBlock(src[0])
}

func (sdes *SDESCipher) Decrypt(dst, src []byte) {
	if len(src) < BlockSize || len(dst) < BlockSize {
		panic("cripta: block buffer too small")
	}
	dst[0] = sdes.DecryptBlock(src[0])
}

func (sdes *SDESCipher) Key() Key {
	return sdes.currentKey
}
