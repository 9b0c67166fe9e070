package cripta

import (
	"io"
)

type streamReader struct {
	src   io.Reader
	state blockState
}

// NewReader returns a reader that yields src transformed by the context's mode.
// Each reader owns its chaining state, so one reader must not be shared between
// goroutines and two readers never affect each other.
func (ctx *CipherContext) NewReader(dir Direction, src io.Reader) io.Reader {
	return &streamReader{
		src:   src,
		state: ctx.newState(dir),
	}
}

func (r *streamReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	for i := 0; i < n; i++ {
		p[i] = r.state.step(p[i])
	}
	return n, err
}
