package bmp

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/nPaBwaYT/SDESBmp/cripta"
)

// makeBitmap builds a minimal 8-bit bitmap: header, palette, then pixels.
func makeBitmap(offset uint32, palette, pixels []byte) []byte {
	header := make([]byte, HeaderSize)
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:6], uint32(HeaderSize+len(palette)+len(pixels)))
	binary.LittleEndian.PutUint32(header[10:14], offset)
	binary.LittleEndian.PutUint32(header[14:18], 40)
	binary.LittleEndian.PutUint32(header[18:22], 4)
	binary.LittleEndian.PutUint32(header[22:26], 2)
	binary.LittleEndian.PutUint16(header[26:28], 1)
	binary.LittleEndian.PutUint16(header[28:30], 8)

	out := append(header, palette...)
	return append(out, pixels...)
}

func newContext(mode cripta.CipherMode, iv uint8, parallel bool) *cripta.CipherContext {
	sdes, err := cripta.NewSDESCipherWithKey(0b1010000010)
	if err != nil {
		panic(err)
	}
	ctx, err := cripta.NewCipherContext(sdes, mode, iv, parallel)
	if err != nil {
		panic(err)
	}
	return ctx
}

func TestReadHeader(t *testing.T) {
	Convey("Given a bitmap header", t, func() {
		palette := bytes.Repeat([]byte{0xEE}, 16)
		data := makeBitmap(HeaderSize+16, palette, []byte{1, 2, 3, 4, 5, 6, 7, 8})

		Convey("the fields are decoded little-endian", func() {
			h, err := ReadHeader(bytes.NewReader(data))
			So(err, ShouldBeNil)
			So(h.PixelOffset, ShouldEqual, HeaderSize+16)
			So(h.FileSize, ShouldEqual, len(data))
			So(h.Width, ShouldEqual, 4)
			So(h.Height, ShouldEqual, 2)
			So(h.BitCount, ShouldEqual, 8)
		})

		Convey("a pixel offset inside the header is raised to the header size", func() {
			binary.LittleEndian.PutUint32(data[10:14], 12)
			h, err := ReadHeader(bytes.NewReader(data))
			So(err, ShouldBeNil)
			So(h.PixelOffset, ShouldEqual, HeaderSize)
		})

		Convey("a wrong signature is rejected", func() {
			data[0] = 'P'
			_, err := ReadHeader(bytes.NewReader(data))
			So(err, ShouldEqual, ErrNotBitmap)
		})

		Convey("a short file is rejected", func() {
			_, err := ReadHeader(bytes.NewReader(data[:20]))
			So(err, ShouldEqual, ErrShortHeader)

			_, err = ReadHeader(bytes.NewReader(nil))
			So(err, ShouldEqual, ErrShortHeader)
		})
	})
}

func TestTransform(t *testing.T) {
	Convey("Given a bitmap with a palette", t, func() {
		palette := bytes.Repeat([]byte{0x10, 0x20, 0x30, 0x00}, 4)
		pixels := []byte("BMPIXELS-BMPIXELS-BMPIXELS")
		offset := uint32(HeaderSize + len(palette))
		data := makeBitmap(offset, palette, pixels)

		for _, mode := range []cripta.CipherMode{cripta.CipherModeECB, cripta.CipherModeCBC, cripta.CipherModeCTR} {
			mode := mode

			Convey("encrypting in "+mode.String(), func() {
				ctx := newContext(mode, 0xA3, false)

				var out bytes.Buffer
				stats, err := Transform(bytes.NewReader(data), &out, ctx, cripta.DirectionEncrypt)
				So(err, ShouldBeNil)

				encrypted := out.Bytes()

				Convey("keeps the length and the header and palette bytes", func() {
					So(len(encrypted), ShouldEqual, len(data))
					So(encrypted[:offset], ShouldResemble, data[:offset])
					So(stats.HeaderBytes, ShouldEqual, offset)
					So(stats.PixelBytes, ShouldEqual, len(pixels))
				})

				Convey("transforms only the pixel data", func() {
					So(encrypted[offset:], ShouldResemble, ctx.Encrypt(pixels))
				})

				Convey("decrypts back to the original file", func() {
					var restored bytes.Buffer
					_, err := Transform(bytes.NewReader(encrypted), &restored, ctx, cripta.DirectionDecrypt)
					So(err, ShouldBeNil)
					So(restored.Bytes(), ShouldResemble, data)
				})

				Convey("matches the parallel path", func() {
					var parallel bytes.Buffer
					_, err := Transform(bytes.NewReader(data), &parallel, newContext(mode, 0xA3, true), cripta.DirectionEncrypt)
					So(err, ShouldBeNil)
					So(parallel.Bytes(), ShouldResemble, encrypted)
				})
			})
		}

		Convey("a palette cut short is reported", func() {
			truncated := makeBitmap(HeaderSize+64, palette[:8], nil)
			var out bytes.Buffer
			_, err := Transform(bytes.NewReader(truncated), &out, newContext(cripta.CipherModeECB, 0, false), cripta.DirectionEncrypt)
			So(err, ShouldEqual, ErrTruncated)
		})

		Convey("a bitmap without pixel data yields only the header", func() {
			empty := makeBitmap(HeaderSize, nil, nil)
			var out bytes.Buffer
			stats, err := Transform(bytes.NewReader(empty), &out, newContext(cripta.CipherModeCTR, 1, false), cripta.DirectionEncrypt)
			So(err, ShouldBeNil)
			So(out.Bytes(), ShouldResemble, empty)
			So(stats.PixelBytes, ShouldEqual, 0)
		})
	})
}

func TestTransformFile(t *testing.T) {
	Convey("Given a bitmap on disk", t, func() {
		dir := t.TempDir()
		input := filepath.Join(dir, "in.bmp")
		encrypted := filepath.Join(dir, "enc.bmp")
		restored := filepath.Join(dir, "dec.bmp")

		data := makeBitmap(HeaderSize, nil, bytes.Repeat([]byte{0xAB, 0xCD}, 100))
		So(os.WriteFile(input, data, 0644), ShouldBeNil)

		ctx := newContext(cripta.CipherModeCBC, 0x5C, false)

		Convey("encrypting and decrypting restores the file", func() {
			_, err := TransformFile(input, encrypted, ctx, cripta.DirectionEncrypt)
			So(err, ShouldBeNil)

			enc, err := os.ReadFile(encrypted)
			So(err, ShouldBeNil)
			So(enc[:HeaderSize], ShouldResemble, data[:HeaderSize])
			So(enc[HeaderSize:], ShouldNotResemble, data[HeaderSize:])

			stats, err := TransformFile(encrypted, restored, ctx, cripta.DirectionDecrypt)
			So(err, ShouldBeNil)
			So(stats.PixelBytes, ShouldEqual, 200)

			dec, err := os.ReadFile(restored)
			So(err, ShouldBeNil)
			So(dec, ShouldResemble, data)
		})

		Convey("a missing input file is an error", func() {
			_, err := TransformFile(filepath.Join(dir, "missing.bmp"), encrypted, ctx, cripta.DirectionEncrypt)
			So(err, ShouldNotBeNil)
		})

		Convey("a non-bitmap input is rejected", func() {
			bogus := filepath.Join(dir, "bogus.bmp")
			So(os.WriteFile(bogus, bytes.Repeat([]byte{'x'}, 100), 0644), ShouldBeNil)
			_, err := TransformFile(bogus, encrypted, ctx, cripta.DirectionEncrypt)
			So(err, ShouldEqual, ErrNotBitmap)
		})
	})
}
