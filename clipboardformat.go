package waywin

import (
	"bytes"
	"encoding/binary"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"deedles.dev/waywin/win"
)

// tagMime marks selections originating from this process. It is
// offered on every outgoing selection and filtered on every incoming
// one so our own clipboard writes do not echo back.
const tagMime = "application/x.winewayland.tag"

// normalizeMime canonicalizes a MIME type for table lookup. The
// operation is idempotent.
func normalizeMime(mime string) string {
	mime = strings.ToLower(mime)
	mime = strings.ReplaceAll(mime, " ", "")
	mime = strings.ReplaceAll(mime, `"`, "")
	return mime
}

// clipboardFormat ties a MIME type to a host clipboard format. The
// importer converts compositor bytes to the host representation; the
// exporter goes the other way. Either may be nil for a straight
// copy.
type clipboardFormat struct {
	mime string

	// format is the fixed host identifier, or zero when the format
	// is registered by name at runtime.
	format win.ClipboardFormat
	name   string

	importer func([]byte) []byte
	exporter func([]byte) []byte
}

var clipboardFormats = []*clipboardFormat{
	{
		mime:     "text/plain;charset=utf-8",
		format:   win.CFUnicodeText,
		importer: importUnicodeText,
		exporter: exportUnicodeText,
	},
	{
		mime:     "text/plain",
		format:   win.CFText,
		importer: importText,
		exporter: exportText,
	},
	{
		mime:     "image/bmp",
		format:   win.CFDIB,
		importer: importDIB,
		exporter: exportDIB,
	},
	{
		mime: "image/png",
		name: "PNG",
	},
	{
		mime: "text/html",
		name: "HTML Format",
	},
	{
		mime: "image/jpeg",
		name: "JFIF",
	},
	{
		mime: "image/gif",
		name: "GIF",
	},
}

// importUnicodeText converts UTF-8 to NUL-terminated UTF-16LE with
// CRLF line endings.
func importUnicodeText(data []byte) []byte {
	text := strings.ReplaceAll(crlf(string(data)), "\x00", "")
	units := utf16.Encode([]rune(text))
	out := make([]byte, 0, (len(units)+1)*2)
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return binary.LittleEndian.AppendUint16(out, 0)
}

func exportUnicodeText(data []byte) []byte {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return []byte(lf(string(utf16.Decode(units))))
}

func importText(data []byte) []byte {
	text := crlf(string(data))
	out := make([]byte, 0, len(text)+1)
	for _, r := range text {
		if r == 0 {
			continue
		}
		if r < 0x80 {
			out = append(out, byte(r))
		} else {
			out = append(out, '?')
		}
	}
	return append(out, 0)
}

func exportText(data []byte) []byte {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	if utf8.Valid(data) {
		return []byte(lf(string(data)))
	}
	out := make([]byte, 0, len(data))
	for _, b := range data {
		if b < 0x80 {
			out = append(out, b)
		} else {
			out = append(out, '?')
		}
	}
	return []byte(lf(string(out)))
}

func crlf(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func lf(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

const bmpFileHeaderSize = 14

// importDIB strips the BMP file header, leaving the DIB that host
// CF_DIB carries.
func importDIB(data []byte) []byte {
	if len(data) < bmpFileHeaderSize || data[0] != 'B' || data[1] != 'M' {
		return nil
	}
	return data[bmpFileHeaderSize:]
}

// exportDIB prepends a BMP file header to a host DIB. The pixel
// offset is derived from the info header and color table.
func exportDIB(data []byte) []byte {
	if len(data) < 4 {
		return nil
	}
	infoSize := binary.LittleEndian.Uint32(data)
	if int(infoSize) > len(data) {
		return nil
	}

	pixelOffset := uint32(bmpFileHeaderSize) + infoSize
	if infoSize >= 36 {
		bpp := binary.LittleEndian.Uint16(data[14:])
		colors := binary.LittleEndian.Uint32(data[32:])
		if colors == 0 && bpp <= 8 {
			colors = 1 << bpp
		}
		pixelOffset += colors * 4
	}

	out := make([]byte, 0, bmpFileHeaderSize+len(data))
	out = append(out, 'B', 'M')
	out = binary.LittleEndian.AppendUint32(out, uint32(bmpFileHeaderSize+len(data)))
	out = binary.LittleEndian.AppendUint32(out, 0)
	out = binary.LittleEndian.AppendUint32(out, pixelOffset)
	return append(out, data...)
}
