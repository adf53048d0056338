package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/docsum-service/internal/ocr"
	"github.com/MalithGihan/docsum-service/internal/store"
	"github.com/MalithGihan/docsum-service/internal/validate"
	"github.com/MalithGihan/docsum-service/pkg/types"
)

// DetectType maps a normalized media type to the extractor that handles it.
func DetectType(mediaType string) string {
	switch mediaType {
	case validate.TypePDF:
		return "pdf"
	case validate.TypePNG, validate.TypeJPEG:
		return "raster"
	default:
		return "unknown"
	}
}

// Service dispatches a document to the PDF extractor or to OCR.
type Service struct {
	OCR     ocr.Engine
	Scratch *store.FS
	Log     logrus.FieldLogger
}

func (s *Service) Extract(ctx context.Context, doc types.Document) (types.ExtractionResult, error) {
	switch DetectType(doc.MIMEType) {
	case "pdf":
		return s.extractPDF(ctx, doc)
	case "raster":
		text, err := ocr.Extract(ctx, s.OCR, doc.Data)
		if err != nil {
			return types.ExtractionResult{}, err
		}
		return types.ExtractionResult{Text: text}, nil
	default:
		return types.ExtractionResult{}, fmt.Errorf("%w: %q", validate.ErrUnsupportedType, doc.MIMEType)
	}
}

func (s *Service) extractPDF(ctx context.Context, doc types.Document) (types.ExtractionResult, error) {
	jobID := uuid.NewString()
	path, err := s.Scratch.WriteUpload(jobID, doc.Name, doc.Data)
	if err != nil {
		return types.ExtractionResult{}, fmt.Errorf("write scratch file: %w", err)
	}
	defer func() {
		if err := s.Scratch.Remove(jobID); err != nil && s.Log != nil {
			s.Log.WithError(err).WithField("job", jobID).Warn("scratch cleanup failed")
		}
	}()

	res, err := ParsePDF(ctx, path)
	if err != nil {
		return types.ExtractionResult{}, err
	}
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{
			"job":    jobID,
			"pages":  res.Pages,
			"tables": len(res.Tables),
			"images": len(res.Images),
		}).Debug("pdf extracted")
	}
	return res, nil
}
