package waywin

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMime(t *testing.T) {
	tests := []struct{ in, want string }{
		{"text/plain", "text/plain"},
		{"Text/Plain", "text/plain"},
		{`text/plain; charset="UTF-8"`, "text/plain;charset=utf-8"},
		{"text/plain;charset=utf-8", "text/plain;charset=utf-8"},
	}
	for _, tt := range tests {
		got := normalizeMime(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, got, normalizeMime(got), "normalization must be idempotent")
	}
}

func TestUnicodeTextImport(t *testing.T) {
	out := importUnicodeText([]byte("Hello"))

	want := []byte{'H', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0, 0, 0}
	assert.Equal(t, want, out)
}

func TestUnicodeTextLineEndings(t *testing.T) {
	out := importUnicodeText([]byte("a\nb"))
	assert.Equal(t, "a\r\nb", decodeUTF16LE(t, out))

	// Already-CRLF input must not double the carriage returns.
	out = importUnicodeText([]byte("a\r\nb"))
	assert.Equal(t, "a\r\nb", decodeUTF16LE(t, out))

	back := exportUnicodeText(out)
	assert.Equal(t, "a\nb", string(back))
}

func TestUnicodeTextNonASCII(t *testing.T) {
	out := importUnicodeText([]byte("héllo €"))
	assert.Equal(t, "héllo €", decodeUTF16LE(t, out))
}

// decodeUTF16LE decodes raw NUL-terminated UTF-16LE without the
// line-ending rewrite that exportUnicodeText applies.
func decodeUTF16LE(t *testing.T, b []byte) string {
	t.Helper()
	var units []uint16
	for i := 0; i+1 < len(b); i += 2 {
		u := binary.LittleEndian.Uint16(b[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

func TestTextImport(t *testing.T) {
	out := importText([]byte("hi\nthere"))
	require.NotEmpty(t, out)
	assert.Equal(t, byte(0), out[len(out)-1], "CF_TEXT is NUL terminated")
	assert.Equal(t, "hi\r\nthere", string(out[:len(out)-1]))

	// Non-ASCII degrades rather than corrupting.
	out = importText([]byte("é"))
	assert.Equal(t, []byte{'?', 0}, out)
}

func TestDIBExportImport(t *testing.T) {
	// A minimal BITMAPINFOHEADER for a 1x1 32bpp image.
	dib := make([]byte, 40+4)
	binary.LittleEndian.PutUint32(dib, 40)        // header size
	binary.LittleEndian.PutUint32(dib[4:], 1)     // width
	binary.LittleEndian.PutUint32(dib[8:], 1)     // height
	binary.LittleEndian.PutUint16(dib[12:], 1)    // planes
	binary.LittleEndian.PutUint16(dib[14:], 32)   // bpp
	copy(dib[40:], []byte{0x11, 0x22, 0x33, 0xFF})

	bmp := exportDIB(dib)
	require.NotNil(t, bmp)
	assert.Equal(t, byte('B'), bmp[0])
	assert.Equal(t, byte('M'), bmp[1])
	assert.Equal(t, uint32(len(bmp)), binary.LittleEndian.Uint32(bmp[2:]))
	assert.Equal(t, uint32(14+40), binary.LittleEndian.Uint32(bmp[10:]), "pixel offset")

	back := importDIB(bmp)
	assert.Equal(t, dib, back)
}

func TestDIBExportPalette(t *testing.T) {
	// 8bpp with an implicit 256-entry palette shifts the pixel
	// offset past the color table.
	dib := make([]byte, 40)
	binary.LittleEndian.PutUint32(dib, 40)
	binary.LittleEndian.PutUint16(dib[14:], 8)

	bmp := exportDIB(dib)
	require.NotNil(t, bmp)
	assert.Equal(t, uint32(14+40+256*4), binary.LittleEndian.Uint32(bmp[10:]))
}

func TestDIBImportRejectsGarbage(t *testing.T) {
	assert.Nil(t, importDIB([]byte("not a bitmap")))
	assert.Nil(t, importDIB(nil))
}
