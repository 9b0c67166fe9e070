package cripta

import (
	"fmt"
	"runtime"
	"sync"

	log "github.com/sirupsen/logrus"
)

type CipherMode int

const (
	CipherModeECB CipherMode = iota
	CipherModeCBC
	CipherModeCTR
)

func (cm CipherMode) String() string {
	switch cm {
	case CipherModeECB:
		return "ECB"
	case CipherModeCBC:
		return "CBC"
	case CipherModeCTR:
		return "CTR"
	default:
		return fmt.Sprintf("CipherMode(%d)", int(cm))
	}
}

// NeedsIV reports whether the mode is seeded with an IV (CBC) or nonce (CTR).
func (cm CipherMode) NeedsIV() bool {
	return cm == CipherModeCBC || cm == CipherModeCTR
}

type Direction int

const (
	DirectionEncrypt Direction = iota
	DirectionDecrypt
)

func (d Direction) String() string {
	if d == DirectionDecrypt {
		return "decrypt"
	}
	return "encrypt"
}

// blockState carries the chaining state of one stream transform. step is called
// exactly once per byte, in stream order.
type blockState interface {
	step(in uint8) uint8
}

type ecbState struct {
	cipher  ISymmetricCipher
	decrypt bool
}

func (s *ecbState) step(in uint8) uint8 {
	if s.decrypt {
		return s.cipher.DecryptBlock(in)
	}
	return s.cipher.EncryptBlock(in)
}

// cbcEncryptState chains on the ciphertext it produces.
type cbcEncryptState struct {
	cipher ISymmetricCipher
	prev   uint8
}

func (s *cbcEncryptState) step(in uint8) uint8 {
	out := s.cipher.EncryptBlock(in ^ s.prev)
	s.prev = out
	return out
}

// cbcDecryptState chains on the ciphertext it consumes.
type cbcDecryptState struct {
	cipher ISymmetricCipher
	prev   uint8
}

func (s *cbcDecryptState) step(in uint8) uint8 {
	out := s.cipher.DecryptBlock(in) ^ s.prev
	s.prev = in
	return out
}

// ctrState is used for both directions; the keystream always comes from EncryptBlock.
type ctrState struct {
	cipher  ISymmetricCipher
	counter uint8
}

func (s *ctrState) step(in uint8) uint8 {
	out := in ^ s.cipher.EncryptBlock(s.counter)
	s.counter++
	return out
}

type CipherContext struct {
	cipher   ISymmetricCipher
	mode     CipherMode
	iv       uint8
	parallel bool
	workers  int
}

func NewCipherContext(
	cipher ISymmetricCipher,
	mode CipherMode,
	iv uint8,
	parallel bool,
) (*CipherContext, error) {

	if cipher == nil {
		return nil, fmt.Errorf("cipher implementation cannot be nil")
	}

	switch mode {
	case CipherModeECB, CipherModeCBC, CipherModeCTR:
	default:
		return nil, fmt.Errorf("unsupported cipher mode %v", mode)
	}

	return &CipherContext{
		cipher:   cipher,
		mode:     mode,
		iv:       iv,
		parallel: parallel,
	}, nil
}

func (ctx *CipherContext) newState(dir Direction) blockState {
	switch ctx.mode {
	case CipherModeCBC:
		if dir == DirectionDecrypt {
			return &cbcDecryptState{cipher: ctx.cipher, prev: ctx.iv}
		}
		return &cbcEncryptState{cipher: ctx.cipher, prev: ctx.iv}
	case CipherModeCTR:
		return &ctrState{cipher: ctx.cipher, counter: ctx.iv}
	default:
		return &ecbState{cipher: ctx.cipher, decrypt: dir == DirectionDecrypt}
	}
}

// canParallelize is false only for CBC encryption, where every block needs the
// previous ciphertext.
func (ctx *CipherContext) canParallelize(dir Direction) bool {
	return !(ctx.mode == CipherModeCBC && dir == DirectionEncrypt)
}

// Transform runs data through the mode in the given direction. The output always has
// the same length as the input.
func (ctx *CipherContext) Transform(dir Direction, data []uint8) []uint8 {
	if ctx.parallel && ctx.canParallelize(dir) && len(data) > 1 {
		return ctx.transformParallel(dir, data)
	}

	out := make([]uint8, len(data))
	state := ctx.newState(dir)
	for i, b := range data {
		out[i] = state.step(b)
	}
	return out
}

func (ctx *CipherContext) Encrypt(plaintext []uint8) []uint8 {
	return ctx.Transform(DirectionEncrypt, plaintext)
}

func (ctx *CipherContext) Decrypt(ciphertext []uint8) []uint8 {
	return ctx.Transform(DirectionDecrypt, ciphertext)
}

// blockAt computes output byte i without any shared mutable state.
func (ctx *CipherContext) blockAt(dir Direction, data []uint8, i int) uint8 {
	switch ctx.mode {
	case CipherModeCTR:
		return data[i] ^ ctx.cipher.EncryptBlock(ctx.iv+uint8(i))
	case CipherModeCBC:
		prev := ctx.iv
		if i > 0 {
			prev = data[i-1]
		}
		return ctx.cipher.DecryptBlock(data[i]) ^ prev
	default:
		if dir == DirectionDecrypt {
			return ctx.cipher.DecryptBlock(data[i])
		}
		return ctx.cipher.EncryptBlock(data[i])
	}
}

func (ctx *CipherContext) transformParallel(dir Direction, data []uint8) []uint8 {
	numBlocks := len(data)
	out := make([]uint8, numBlocks)

	numThreads := ctx.workers
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}
	if numThreads == 0 {
		numThreads = 4
	}
	if numThreads > numBlocks {
		numThreads = numBlocks
	}

	blocksPerThread := (numBlocks + numThreads - 1) / numThreads

	log.WithFields(log.Fields{
		"mode":    ctx.mode,
		"dir":     dir,
		"blocks":  numBlocks,
		"threads": numThreads,
	}).Debug("parallel transform")

	var wg sync.WaitGroup

	for t := 0; t < numThreads; t++ {
		startBlock := t * blocksPerThread
		endBlock := startBlock + blocksPerThread
		if endBlock > numBlocks {
			endBlock = numBlocks
		}

		if startBlock >= numBlocks {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				out[i] = ctx.blockAt(dir, data, i)
			}
		}(startBlock, endBlock)
	}

	wg.Wait()

	return out
}

func (ctx *CipherContext) SetMode(newMode CipherMode) {
	ctx.mode = newMode
}

func (ctx *CipherContext) SetIV(newIV uint8) {
	ctx.iv = newIV
}

func (ctx *CipherContext) SetParallel(parallel bool) {
	ctx.parallel = parallel
}

// SetWorkers caps the goroutines used by parallel transforms; 0 means one per CPU.
func (ctx *CipherContext) SetWorkers(workers int) {
	ctx.workers = workers
}

func (ctx *CipherContext) GetMode() CipherMode {
	return ctx.mode
}

func (ctx *CipherContext) GetIV() uint8 {
	return ctx.iv
}

func (ctx *CipherContext) IsParallel() bool {
	return ctx.parallel
}

func (ctx *CipherContext) GetBlockSize() int {
	return BlockSize
}

// TransformStream applies mode to input with the given round keys. It panics only
// when mode is not one of the CipherMode constants.
func TransformStream(mode CipherMode, k1, k2 uint8, dir Direction, ivOrNonce uint8, input []uint8) []uint8 {
	sdes, err := NewSDESCipherWithRoundKeys(k1, k2)
	if err != nil {
		panic(err)
	}

	ctx, err := NewCipherContext(sdes, mode, ivOrNonce, false)
	if err != nil {
		panic(err)
	}

	return ctx.Transform(dir, input)
}
