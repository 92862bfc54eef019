package models

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/taigrr/glyph3d/pkg/render"
)

// MaxSpriteSide bounds each sprite dimension accepted by DecodeSprite.
const MaxSpriteSide = 4096

// ErrSpriteSize is returned for sprites with a negative, zero or oversized
// dimension.
var ErrSpriteSize = errors.New("invalid sprite size")

// DecodeSprite reads a sprite in the binary console format: little-endian
// int16 width and height, then width*height uint16 glyphs, then
// width*height uint16 color attributes, both row-major.
func DecodeSprite(r io.Reader) (*render.Sprite, error) {
	var dims [2]int16
	if err := binary.Read(r, binary.LittleEndian, &dims); err != nil {
		return nil, fmt.Errorf("read sprite header: %w", err)
	}
	w, h := int(dims[0]), int(dims[1])
	if w <= 0 || h <= 0 || w > MaxSpriteSide || h > MaxSpriteSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrSpriteSize, w, h)
	}

	glyphs := make([]uint16, w*h)
	attrs := make([]uint16, w*h)
	if err := binary.Read(r, binary.LittleEndian, glyphs); err != nil {
		return nil, fmt.Errorf("read sprite glyphs: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, attrs); err != nil {
		return nil, fmt.Errorf("read sprite colors: %w", err)
	}

	s := render.NewSprite(w, h)
	for i := range s.Cells {
		s.Cells[i] = render.CellFromAttr(glyphs[i], attrs[i])
	}
	return s, nil
}

// EncodeSprite writes s in the format read by DecodeSprite.
func EncodeSprite(w io.Writer, s *render.Sprite) error {
	if s.W <= 0 || s.H <= 0 || s.W > MaxSpriteSide || s.H > MaxSpriteSide {
		return fmt.Errorf("%w: %dx%d", ErrSpriteSize, s.W, s.H)
	}

	glyphs := make([]uint16, len(s.Cells))
	attrs := make([]uint16, len(s.Cells))
	for i, c := range s.Cells {
		glyphs[i] = uint16(c.Glyph)
		attrs[i] = c.Attr()
	}

	dims := [2]int16{int16(s.W), int16(s.H)}
	for _, part := range []any{dims, glyphs, attrs} {
		if err := binary.Write(w, binary.LittleEndian, part); err != nil {
			return fmt.Errorf("write sprite: %w", err)
		}
	}
	return nil
}

// LoadSprite reads a sprite file.
func LoadSprite(path string) (*render.Sprite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()
	return DecodeSprite(bufio.NewReader(f))
}

// SaveSprite writes s to path, replacing any existing file.
func SaveSprite(path string, s *render.Sprite) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sprite: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := EncodeSprite(bw, s); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write sprite: %w", err)
	}
	return f.Close()
}
