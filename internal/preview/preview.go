// Package preview produces small PNG renditions of extracted images for
// on-page display. Downloads always carry the original bytes.
package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// MaxWidth is the widest preview produced.
const MaxWidth = 640

// Thumbnail decodes data and scales it down to at most maxWidth pixels wide,
// keeping the aspect ratio. Images already narrow enough are re-encoded as-is.
func Thumbnail(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	dst := src
	if b.Dx() > maxWidth {
		h := max(1, b.Dy()*maxWidth/b.Dx())
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Over, nil)
		dst = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}
