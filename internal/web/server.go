// Package web serves the upload form and renders extraction results.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/MalithGihan/docsum-service/internal/ingest"
	"github.com/MalithGihan/docsum-service/internal/ocr"
	"github.com/MalithGihan/docsum-service/internal/summarize"
	"github.com/MalithGihan/docsum-service/internal/validate"
	"github.com/MalithGihan/docsum-service/pkg/types"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Extractor interface {
	Extract(ctx context.Context, doc types.Document) (types.ExtractionResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) summarize.Result
}

type Server struct {
	extractor      Extractor
	summarizer     Summarizer
	maxUploadBytes int64
	log            logrus.FieldLogger
	tmpl           *template.Template
}

func NewServer(ex Extractor, sum Summarizer, maxUploadBytes int64, log logrus.FieldLogger) *Server {
	return &Server{
		extractor:      ex,
		summarizer:     sum,
		maxUploadBytes: maxUploadBytes,
		log:            log,
		tmpl:           template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"docsum-service"}`))
	})
	r.Get("/", s.handleIndex)
	r.Post("/extract", s.handleExtract)
	r.Post("/api/extract", s.handleAPIExtract)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, "index.html", nil)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	doc, res, sum, err := s.process(w, r)
	if err != nil {
		status, title := classify(err)
		s.render(w, status, "error.html", errorView{Title: title, Message: err.Error()})
		return
	}
	view := buildResultView(doc, ingest.DetectType(doc.MIMEType) == "pdf", res, sum, s.logger(r))
	s.render(w, http.StatusOK, "result.html", view)
}

func (s *Server) handleAPIExtract(w http.ResponseWriter, r *http.Request) {
	doc, res, sum, err := s.process(w, r)
	if err != nil {
		status, title := classify(err)
		writeJSON(w, status, map[string]string{"error": title, "detail": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newAPIResponse(doc, res, sum))
}

// process runs one upload through validation, extraction and summarization,
// strictly in that order.
func (s *Server) process(w http.ResponseWriter, r *http.Request) (types.Document, types.ExtractionResult, summarize.Result, error) {
	var (
		res types.ExtractionResult
		sum summarize.Result
	)
	doc, err := s.readUpload(w, r)
	if err != nil {
		return doc, res, sum, err
	}
	if err := validate.Upload(doc, s.maxUploadBytes); err != nil {
		return doc, res, sum, err
	}

	log := s.logger(r).WithFields(logrus.Fields{"file": doc.Name, "type": doc.MIMEType, "bytes": len(doc.Data)})
	log.Info("extracting")
	res, err = s.extractor.Extract(r.Context(), doc)
	if err != nil {
		log.WithError(err).Warn("extraction failed")
		return doc, res, sum, err
	}

	sum = s.summarizer.Summarize(r.Context(), res.Text)
	return doc, res, sum, nil
}

func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (types.Document, error) {
	// Leave room for the multipart envelope around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.Document{}, fmt.Errorf("%w: %v", validate.ErrTooLarge, err)
		}
		return types.Document{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: missing file field", errBadRequest)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return types.Document{
		Name:     fh.Filename,
		MIMEType: validate.MediaType(fh.Header.Get("Content-Type"), fh.Filename),
		Data:     data,
	}, nil
}

var errBadRequest = errors.New("bad request")

// classify maps pipeline errors to an HTTP status and a user-facing title.
func classify(err error) (int, string) {
	var (
		parseErr *ingest.ParseError
		ocrErr   *ocr.OcrError
	)
	switch {
	case errors.Is(err, validate.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "Unsupported file type. Upload a PDF, PNG or JPEG file."
	case errors.Is(err, validate.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "The file is too large."
	case errors.Is(err, validate.ErrEmpty), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "No file was uploaded."
	case errors.As(err, &parseErr):
		return http.StatusUnprocessableEntity, "The PDF could not be read."
	case errors.As(err, &ocrErr):
		return http.StatusUnprocessableEntity, "The image could not be read."
	default:
		return http.StatusInternalServerError, "Something went wrong while processing the file."
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.WithError(err).WithField("template", name).Error("render failed")
	}
}

func (s *Server) logger(r *http.Request) logrus.FieldLogger {
	return s.log.WithField("request_id", RequestID(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
