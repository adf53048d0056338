package web

import (
	"github.com/MalithGihan/docsum-service/internal/summarize"
	"github.com/MalithGihan/docsum-service/pkg/types"
)

type apiResponse struct {
	Filename string     `json:"filename"`
	MIMEType string     `json:"mime_type"`
	Text     string     `json:"text"`
	Summary  apiSummary `json:"summary"`
	Tables   []apiTable `json:"tables"`
	Images   []apiImage `json:"images"`
}

type apiSummary struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

type apiTable struct {
	Page     int        `json:"page"`
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	Markdown string     `json:"markdown"`
}

type apiImage struct {
	Page     int    `json:"page"`
	MIMEType string `json:"mime_type"`
	Filename string `json:"filename"`
	Data     []byte `json:"data"` // base64 in JSON
}

func newAPIResponse(doc types.Document, res types.ExtractionResult, sum summarize.Result) apiResponse {
	out := apiResponse{
		Filename: doc.Name,
		MIMEType: doc.MIMEType,
		Text:     res.Text,
		Summary:  apiSummary{OK: sum.OK(), Text: sum.Display()},
		Tables:   make([]apiTable, 0, len(res.Tables)),
		Images:   make([]apiImage, 0, len(res.Images)),
	}
	if !sum.OK() {
		out.Summary.Error = sum.Err.Error()
	}
	for _, t := range res.Tables {
		out.Tables = append(out.Tables, apiTable{Page: t.Page, Columns: t.Columns, Rows: t.Rows, Markdown: t.Markdown})
	}
	for _, img := range res.Images {
		out.Images = append(out.Images, apiImage{Page: img.Page, MIMEType: img.MIMEType, Filename: img.Filename, Data: img.Data})
	}
	return out
}
