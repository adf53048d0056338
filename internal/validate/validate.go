// Package validate decides whether an upload may enter the pipeline.
package validate

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/MalithGihan/docsum-service/pkg/types"
)

const (
	TypePDF  = "application/pdf"
	TypePNG  = "image/png"
	TypeJPEG = "image/jpeg"
)

var (
	ErrEmpty           = errors.New("empty upload")
	ErrTooLarge        = errors.New("upload too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowed = map[string]bool{TypePDF: true, TypePNG: true, TypeJPEG: true}

var aliases = map[string]string{
	"image/jpg":   TypeJPEG,
	"image/pjpeg": TypeJPEG,
	"image/x-png": TypePNG,
}

// MediaType normalizes a declared content type. Parameters are dropped and
// common aliases folded; an empty or generic declaration falls back to the
// file extension.
func MediaType(declared, filename string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(mt); err == nil {
		mt = parsed
	}
	if a, ok := aliases[mt]; ok {
		mt = a
	}
	if mt == "" || mt == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".pdf":
			return TypePDF
		case ".png":
			return TypePNG
		case ".jpg", ".jpeg":
			return TypeJPEG
		}
	}
	return mt
}

// Upload checks size and type. Documents that fail never reach extraction.
func Upload(doc types.Document, maxBytes int64) error {
	if len(doc.Data) == 0 {
		return ErrEmpty
	}
	if maxBytes > 0 && int64(len(doc.Data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrTooLarge, len(doc.Data), maxBytes)
	}
	if !allowed[doc.MIMEType] {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, doc.MIMEType)
	}
	return nil
}
