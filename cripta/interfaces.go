package cripta

type IKeySchedule interface {
	GenerateRoundKeys(masterKey Key) ([]uint8, error)
}

type IRoundFunction interface {
	Apply(rightHalf uint8, roundKey uint8) uint8
}

type ISymmetricCipher interface {
	SetKey(key Key) error
	EncryptBlock(plainBlock uint8) uint8
	DecryptBlock(cipherBlock uint8) uint8
}
