package web

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/MalithGihan/docsum-service/internal/export"
	"github.com/MalithGihan/docsum-service/internal/preview"
	"github.com/MalithGihan/docsum-service/internal/summarize"
	"github.com/MalithGihan/docsum-service/pkg/types"
)

const (
	TextFilename    = "extracted_text.txt"
	SummaryFilename = "summary.txt"
	TablesFilename  = "tables.xlsx"

	textMIME = "text/plain;charset=utf-8"
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvMIME  = "text/csv;charset=utf-8"
)

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	sanitize = bluemonday.UGCPolicy()
)

type resultView struct {
	Filename    string
	IsPDF       bool
	Text        string
	TextHref    template.URL
	Summary     string
	SummaryOK   bool
	SummaryHTML template.HTML
	SummaryHref template.URL
	Tables      []tableView
	XLSXHref    template.URL
	Images      []imageView
}

type tableView struct {
	Index   int
	Page    int
	Columns []string
	Rows    [][]string
	CSVName string
	CSVHref template.URL
}

type imageView struct {
	Page       int
	Filename   string
	PreviewSrc template.URL
	Href       template.URL
}

type errorView struct {
	Title   string
	Message string
}

// dataURI embeds data in a link so downloads carry exactly the shown bytes.
func dataURI(mimeType string, data []byte) template.URL {
	return template.URL("data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// renderSummary converts the model's markdown into sanitized HTML.
func renderSummary(s string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(sanitize.SanitizeBytes(buf.Bytes()))
}

func buildResultView(doc types.Document, isPDF bool, res types.ExtractionResult, sum summarize.Result, log logrus.FieldLogger) resultView {
	summary := sum.Display()
	v := resultView{
		Filename:    doc.Name,
		IsPDF:       isPDF,
		Text:        res.Text,
		TextHref:    dataURI(textMIME, []byte(res.Text)),
		Summary:     summary,
		SummaryOK:   sum.OK(),
		SummaryHref: dataURI(textMIME, []byte(summary)),
	}
	if sum.OK() {
		v.SummaryHTML = renderSummary(sum.Text)
	}

	for i, t := range res.Tables {
		tv := tableView{
			Index:   i + 1,
			Page:    t.Page,
			Columns: t.Columns,
			Rows:    t.Rows,
			CSVName: fmt.Sprintf("table_%d.csv", i+1),
		}
		if b, err := export.TableCSV(t); err == nil {
			tv.CSVHref = dataURI(csvMIME, b)
		} else {
			log.WithError(err).WithField("table", i+1).Warn("csv export failed")
		}
		v.Tables = append(v.Tables, tv)
	}
	if len(res.Tables) > 0 {
		if b, err := export.TablesXLSX(res.Tables); err == nil {
			v.XLSXHref = dataURI(xlsxMIME, b)
		} else {
			log.WithError(err).Warn("xlsx export failed")
		}
	}

	for _, img := range res.Images {
		iv := imageView{
			Page:     img.Page,
			Filename: img.Filename,
			Href:     dataURI(img.MIMEType, img.Data),
		}
		if thumb, err := preview.Thumbnail(img.Data, preview.MaxWidth); err == nil {
			iv.PreviewSrc = dataURI("image/png", thumb)
		} else {
			iv.PreviewSrc = iv.Href
		}
		v.Images = append(v.Images, iv)
	}
	return v
}
