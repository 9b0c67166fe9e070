// Package bmp passes a bitmap's headers and palette through unchanged and runs only
// the pixel data through an S-DES cipher context.
package bmp

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/nPaBwaYT/SDESBmp/cripta"
)

const (
	// HeaderSize covers BITMAPFILEHEADER (14 bytes) and BITMAPINFOHEADER (40 bytes).
	HeaderSize = 54

	pixelOffsetPos = 10
)

var (
	ErrShortHeader = errors.New("not a BMP: short header")
	ErrNotBitmap   = errors.New("not a BMP: missing 'BM' signature")
	ErrTruncated   = errors.New("unexpected EOF reading palette/headers")
)

type Header struct {
	Raw [HeaderSize]byte

	FileSize    uint32
	PixelOffset uint32
	Width       int32
	Height      int32
	BitCount    uint16
}

type Stats struct {
	HeaderBytes int64
	PixelBytes  int64
}

// ReadHeader consumes exactly HeaderSize bytes from r. A pixel offset smaller than
// the header is raised to HeaderSize.
func ReadHeader(r io.Reader) (*Header, error) {
	h := &Header{}
	if _, err := io.ReadFull(r, h.Raw[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrShortHeader
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if h.Raw[0] != 'B' || h.Raw[1] != 'M' {
		return nil, ErrNotBitmap
	}

	h.FileSize = binary.LittleEndian.Uint32(h.Raw[2:6])
	h.PixelOffset = binary.LittleEndian.Uint32(h.Raw[pixelOffsetPos : pixelOffsetPos+4])
	h.Width = int32(binary.LittleEndian.Uint32(h.Raw[18:22]))
	h.Height = int32(binary.LittleEndian.Uint32(h.Raw[22:26]))
	h.BitCount = binary.LittleEndian.Uint16(h.Raw[28:30])

	if h.PixelOffset < HeaderSize {
		h.PixelOffset = HeaderSize
	}

	return h, nil
}

// Transform copies the headers from r to w and transforms the pixel data with ctx.
// A parallel context reads the whole pixel region into memory; otherwise the data
// is streamed.
func Transform(r io.Reader, w io.Writer, ctx *cripta.CipherContext, dir cripta.Direction) (*Stats, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"file_size":    h.FileSize,
		"pixel_offset": h.PixelOffset,
		"width":        h.Width,
		"height":       h.Height,
		"bit_count":    h.BitCount,
	}).Debug("bmp header")

	stats := &Stats{}

	if _, err := w.Write(h.Raw[:]); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	stats.HeaderBytes = HeaderSize

	if extra := int64(h.PixelOffset) - HeaderSize; extra > 0 {
		n, err := io.CopyN(w, r, extra)
		stats.HeaderBytes += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrTruncated
			}
			return nil, fmt.Errorf("failed to copy palette: %w", err)
		}
	}

	if ctx.IsParallel() {
		pixels, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read pixel data: %w", err)
		}
		n, err := io.Copy(w, bytes.NewReader(ctx.Transform(dir, pixels)))
		stats.PixelBytes = n
		if err != nil {
			return nil, fmt.Errorf("failed to write pixel data: %w", err)
		}
		return stats, nil
	}

	n, err := io.Copy(w, ctx.NewReader(dir, r))
	stats.PixelBytes = n
	if err != nil {
		return nil, fmt.Errorf("failed to transform pixel data: %w", err)
	}

	return stats, nil
}

func TransformFile(inputPath, outputPath string, ctx *cripta.CipherContext, dir cripta.Direction) (*Stats, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	bw := bufio.NewWriter(out)
	stats, err := Transform(bufio.NewReader(in), bw, ctx, dir)
	if err != nil {
		out.Close()
		return nil, err
	}

	if err := bw.Flush(); err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to write output file: %w", err)
	}

	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close output file: %w", err)
	}

	return stats, nil
}
