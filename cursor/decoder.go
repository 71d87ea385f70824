// Package cursor loads Xcursor theme files. Themed cursors back the
// default pointer image when the host does not supply one.
package cursor

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"deedles.dev/ximage"
)

// ErrBadMagic indicates an unrecognized magic number when attempting
// to load a cursor.
var ErrBadMagic = errors.New("bad magic")

const (
	fileMagic = 0x72756358 // ASCII "Xcur"

	chunkImage = 0xFFFD0002
)

// Image is a single cursor frame.
type Image struct {
	NominalSize int
	XHot, YHot  int
	Delay       time.Duration
	Image       *ximage.FormatImage
}

// Cursor is the set of frames an Xcursor file provides at one
// nominal size. A single-frame cursor is static; more than one frame
// animates with per-frame delays.
type Cursor struct {
	Frames []*Image
}

type decoder struct {
	r    io.Reader
	br   *bufio.Reader
	n    int
	err  error
	size int
}

// DecodeFile loads the cursor from path at the nominal size closest
// to size.
func DecodeFile(path string, size int) (*Cursor, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	return Decode(file, size)
}

// Decode reads an Xcursor stream, keeping only the frames whose
// nominal size is the best match for size.
func Decode(r io.Reader, size int) (*Cursor, error) {
	d := decoder{
		r:    r,
		br:   bufio.NewReader(r),
		size: size,
	}
	return d.Decode()
}

func (d *decoder) Decode() (c *Cursor, err error) {
	if d.err != nil {
		return nil, d.err
	}

	defer d.catch(&err)

	tocs := d.header()
	best := d.bestSize(tocs)

	c = new(Cursor)
	for _, toc := range tocs {
		if toc.Type != chunkImage || int(toc.Subtype) != best {
			continue
		}
		d.SeekTo(int(toc.Position))
		c.Frames = append(c.Frames, d.image())
	}
	if len(c.Frames) == 0 {
		d.throw(errors.New("no image chunks"))
	}
	return c, nil
}

func (d *decoder) header() []fileToc {
	magic := d.uint32()
	if magic != fileMagic {
		d.throw(ErrBadMagic)
	}
	hsize := d.uint32()
	d.uint32() // Version.
	ntoc := int(d.uint32())
	d.SeekTo(int(hsize))

	tocs := make([]fileToc, 0, ntoc)
	for i := 0; i < ntoc; i++ {
		tocs = append(tocs, fileToc{
			Type:     d.uint32(),
			Subtype:  d.uint32(),
			Position: d.uint32(),
		})
	}

	return tocs
}

// bestSize picks the nominal size closest to the requested one among
// the image chunks.
func (d *decoder) bestSize(tocs []fileToc) int {
	best := -1
	for _, toc := range tocs {
		if toc.Type != chunkImage {
			continue
		}
		size := int(toc.Subtype)
		if best < 0 || abs(size-d.size) < abs(best-d.size) {
			best = size
		}
	}
	if best < 0 {
		d.throw(errors.New("no image chunks"))
	}
	return best
}

// image reads one image chunk at the current position. The pixels
// are premultiplied ARGB in file order, which matches the shm wire
// format byte for byte on little-endian hosts.
func (d *decoder) image() *Image {
	hsize := d.uint32()
	if hsize < 36 {
		d.throw(fmt.Errorf("image chunk header too small: %d", hsize))
	}
	ctype := d.uint32()
	if ctype != chunkImage {
		d.throw(fmt.Errorf("unexpected chunk type: %x", ctype))
	}
	size := d.uint32()
	d.uint32() // Version.
	width := d.uint32()
	height := d.uint32()
	xhot := d.uint32()
	yhot := d.uint32()
	delay := d.uint32()

	const maxDim = 0x7FFF
	if width == 0 || height == 0 || width > maxDim || height > maxDim {
		d.throw(fmt.Errorf("unreasonable cursor dimensions %dx%d", width, height))
	}

	pix := make([]byte, int(width)*int(height)*4)
	_, err := io.ReadFull(d, pix)
	d.throw(err)

	return &Image{
		NominalSize: int(size),
		XHot:        int(xhot),
		YHot:        int(yhot),
		Delay:       time.Duration(delay) * time.Millisecond,
		Image: &ximage.FormatImage{
			Format: ximage.ARGB8888,
			Rect:   image.Rect(0, 0, int(width), int(height)),
			Pix:    pix,
		},
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (d *decoder) uint32() (v uint32) {
	d.throw(binary.Read(d, binary.LittleEndian, &v))
	return v
}

func (d *decoder) Read(buf []byte) (int, error) {
	n, err := d.br.Read(buf)
	d.throw(err)
	d.n += n
	return n, err
}

func (d *decoder) Discard(n int) (int, error) {
	disc, err := d.br.Discard(n)
	d.throw(err)
	d.n += disc
	return disc, err
}

func (d *decoder) SeekTo(n int) error {
	diff := n - d.n
	if diff < 0 {
		panic("tried to seek backwards")
	}
	if diff == 0 {
		return nil
	}

	s, ok := d.r.(io.Seeker)
	if !ok || (diff <= d.br.Buffered()) {
		_, err := d.Discard(diff)
		d.throw(err)
		return nil
	}

	_, err := s.Seek(int64(n), io.SeekStart)
	d.throw(err)
	d.br.Reset(d.r)
	d.n = n
	return nil
}

type fileToc struct {
	Type     uint32
	Subtype  uint32
	Position uint32
}

type decoderError struct {
	err error
}

func (d *decoder) throw(err error) {
	if err != nil {
		panic(decoderError{err: err})
	}
}

func (d *decoder) catch(err *error) {
	switch r := recover().(type) {
	case decoderError:
		*err = r.err
		d.err = r.err
	case nil:
		*err = d.err
	default:
		panic(r)
	}
}
