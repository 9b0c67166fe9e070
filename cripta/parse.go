package cripta

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyFormatError reports a key string that is not at least ten '0'/'1' digits.
type KeyFormatError struct {
	Input  string
	Reason string
}

func (e *KeyFormatError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Input, e.Reason)
}

// ModeFormatError reports an unrecognised mode name.
type ModeFormatError struct {
	Input string
}

func (e *ModeFormatError) Error() string {
	return fmt.Sprintf("unknown cipher mode %q: use ECB, CBC or CTR", e.Input)
}

// IVFormatError reports an IV or nonce that is not a single byte.
type IVFormatError struct {
	Input string
	Err   error
}

func (e *IVFormatError) Error() string {
	return fmt.Sprintf("invalid IV/nonce %q: must be one byte, hex (0x..) or decimal", e.Input)
}

func (e *IVFormatError) Unwrap() error {
	return e.Err
}

// ParseKey reads a key written as bits, e.g. "10100 00010". Spaces and tabs are
// skipped and parsing stops at the first line ending. Longer inputs keep their
// low ten bits.
func ParseKey(bits string) (Key, error) {
	var value uint64
	count := 0

	for i := 0; i < len(bits); i++ {
		ch := bits[i]
		if ch == '\n' || ch == '\r' {
			break
		}

		switch ch {
		case '0', '1':
			value = value<<1 | uint64(ch-'0')
			count++
		case ' ', '\t':
			continue
		default:
			return 0, &KeyFormatError{
				Input:  bits,
				Reason: fmt.Sprintf("unexpected character %q at offset %d", ch, i),
			}
		}
	}

	if count < KeyBits {
		return 0, &KeyFormatError{
			Input:  bits,
			Reason: fmt.Sprintf("need at least %d bits, got %d", KeyBits, count),
		}
	}

	return Key(value) & KeyMask, nil
}

func ParseCipherMode(mode string) (CipherMode, error) {
	switch strings.ToUpper(strings.TrimSpace(mode)) {
	case "ECB":
		return CipherModeECB, nil
	case "CBC":
		return CipherModeCBC, nil
	case "CTR":
		return CipherModeCTR, nil
	default:
		return 0, &ModeFormatError{Input: mode}
	}
}

// ParseIV accepts "0xA3" style hex or plain decimal.
func ParseIV(s string) (uint8, error) {
	text := strings.TrimSpace(s)

	base := 10
	if len(text) >= 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X') {
		text = text[2:]
		base = 16
	}

	value, err := strconv.ParseUint(text, base, 8)
	if err != nil {
		return 0, &IVFormatError{Input: s, Err: err}
	}

	return uint8(value), nil
}
