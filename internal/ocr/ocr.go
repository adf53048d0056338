// Package ocr recognizes text in raster images. Recognition itself is done by
// an Engine; this package only checks that the image decodes and wraps
// failures as *OcrError.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Engine runs optical character recognition over one encoded image using the
// engine's default language and page layout settings.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// OcrError reports an image that could not be decoded or recognized.
type OcrError struct {
	Format string // decoded format, empty when decoding failed
	Err    error
}

func (e *OcrError) Error() string { return "ocr: " + e.Err.Error() }
func (e *OcrError) Unwrap() error { return e.Err }

// Extract returns the recognized text of data. No pre-processing is applied.
func Extract(ctx context.Context, engine Engine, data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", &OcrError{Err: fmt.Errorf("decode image: %w", err)}
	}
	text, err := engine.Recognize(ctx, data)
	if err != nil {
		return "", &OcrError{Format: format, Err: err}
	}
	return text, nil
}
