package ingest

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfcpumodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/tsawler/tabula/contentstream"
	"github.com/tsawler/tabula/core"
	"github.com/tsawler/tabula/graphicsstate"
	tabmodel "github.com/tsawler/tabula/model"
	"github.com/tsawler/tabula/pages"
	"github.com/tsawler/tabula/reader"
	"github.com/tsawler/tabula/tables"
	pdftext "github.com/tsawler/tabula/text"

	"github.com/MalithGihan/docsum-service/pkg/types"
)

// ParseError reports a PDF that could not be opened or parsed. No partial
// result accompanies it.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return "parse pdf: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// ParsePDF extracts text, tables and images from the PDF at path, page by page.
func ParsePDF(ctx context.Context, path string) (types.ExtractionResult, error) {
	if err := validatePDF(path); err != nil {
		return types.ExtractionResult{}, &ParseError{Path: path, Err: err}
	}

	r, err := reader.Open(path)
	if err != nil {
		return types.ExtractionResult{}, &ParseError{Path: path, Err: err}
	}
	defer r.Close()

	n, err := r.PageCount()
	if err != nil {
		return types.ExtractionResult{}, &ParseError{Path: path, Err: err}
	}

	detector := tables.NewGeometricDetector()
	res := types.ExtractionResult{Pages: n}
	texts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return types.ExtractionResult{}, err
		}
		p, err := loadPage(r, detector, i)
		if err != nil {
			return types.ExtractionResult{}, &ParseError{Path: path, Err: fmt.Errorf("page %d: %w", i+1, err)}
		}
		text, tbls := extractPage(p)
		texts = append(texts, text)
		res.Tables = append(res.Tables, tbls...)
		res.Images = append(res.Images, p.Images...)
	}
	res.Text = strings.Join(texts, "\n")
	return res, nil
}

// validatePDF runs the document through pdfcpu's reader so that broken files
// are rejected before page iteration starts.
func validatePDF(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	conf := pdfcpumodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfcpumodel.ValidationRelaxed
	if _, err := api.ReadValidateAndOptimize(f, conf); err != nil {
		return fmt.Errorf("pdfcpu read: %w", err)
	}
	return nil
}

func loadPage(r *reader.Reader, detector tables.Detector, index int) (Page, error) {
	pg, err := r.GetPage(index)
	if err != nil {
		return Page{}, err
	}
	width, _ := pg.Width()
	height, _ := pg.Height()
	p := Page{Number: index + 1, Width: width, Height: height}

	frags, err := r.ExtractTextFragments(pg)
	if err != nil {
		return Page{}, err
	}
	p.Glyphs = toGlyphs(frags, height)

	raw := make([]tabmodel.TextFragment, 0, len(frags))
	for _, f := range frags {
		raw = append(raw, tabmodel.TextFragment{
			Text:     f.Text,
			BBox:     tabmodel.NewBBox(f.X, f.Y, f.Width, f.Height),
			FontSize: f.FontSize,
			FontName: f.FontName,
		})
	}

	content, contentErr := pageContent(pg)
	var ge *graphicsstate.GraphicsExtractor
	if contentErr == nil {
		ge = pageGraphics(content)
	}
	if p.Tables, err = detectTables(detector, ge, raw, width, height); err != nil {
		return Page{}, err
	}

	var drawn map[string]int
	if contentErr == nil {
		drawn = drawnXObjects(content)
	}
	if p.Images, err = pageImages(r, pg, p.Number, drawn); err != nil {
		return Page{}, fmt.Errorf("images: %w", err)
	}
	return p, nil
}

// toGlyphs splits text fragments into one glyph per rune, sharing the
// fragment's width evenly, and moves them to a top-left origin.
func toGlyphs(frags []pdftext.TextFragment, pageHeight float64) []types.Glyph {
	var out []types.Glyph
	for _, f := range frags {
		n := utf8.RuneCountInString(f.Text)
		if n == 0 {
			continue
		}
		h := f.Height
		if h <= 0 {
			h = f.FontSize
		}
		w := f.Width / float64(n)
		if w <= 0 {
			w = f.FontSize * 0.5
		}
		top := pageHeight - (f.Y + h)
		i := 0
		for _, r := range f.Text {
			left := f.X + w*float64(i)
			out = append(out, types.Glyph{
				Text: string(r),
				BBox: types.BBox{Left: left, Top: top, Right: left + w, Bottom: top + h},
			})
			i++
		}
	}
	return out
}

func flipBBox(b tabmodel.BBox, pageHeight float64) types.BBox {
	return types.BBox{
		Left:   b.Left(),
		Top:    pageHeight - b.Top(),
		Right:  b.Right(),
		Bottom: pageHeight - b.Bottom(),
	}
}

// pageContent concatenates the page's decoded content streams.
func pageContent(pg *pages.Page) ([]byte, error) {
	contents, err := pg.Contents()
	if err != nil {
		return nil, err
	}
	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		b, err := stream.Decode()
		if err != nil {
			return nil, err
		}
		data = append(data, b...)
	}
	return data, nil
}

// pageGraphics collects stroked lines and rectangles from the page content.
// They only feed table detection, so a stream that fails to parse yields
// no graphics rather than an error.
func pageGraphics(content []byte) *graphicsstate.GraphicsExtractor {
	if len(content) == 0 {
		return nil
	}
	ge := graphicsstate.NewGraphicsExtractor()
	if err := ge.ExtractFromBytes(content); err != nil {
		return nil
	}
	return ge
}

// drawnXObjects maps every XObject painted by a Do operator in the page's
// own content stream to the position of its first use. It returns nil when
// the stream cannot be parsed.
func drawnXObjects(content []byte) map[string]int {
	ops, err := contentstream.NewParser(content).Parse()
	if err != nil {
		return nil
	}
	drawn := make(map[string]int)
	for _, op := range ops {
		if op.Operator != "Do" || len(op.Operands) != 1 {
			continue
		}
		name, ok := op.Operands[0].(core.Name)
		if !ok {
			continue
		}
		if _, seen := drawn[string(name)]; !seen {
			drawn[string(name)] = len(drawn)
		}
	}
	return drawn
}

// pageImages returns the images the page draws, in drawing order. Without a
// readable content stream every image resource is returned, ordered by
// resource name. JPEG and JPEG 2000 streams keep their stored bytes;
// everything else is re-encoded as PNG from the decoded pixels.
func pageImages(r *reader.Reader, pg *pages.Page, number int, drawn map[string]int) ([]types.ExtractedImage, error) {
	imgs, err := r.ExtractPageImages(pg)
	if err != nil {
		return nil, err
	}
	if drawn != nil {
		kept := imgs[:0]
		for _, img := range imgs {
			if _, ok := drawn[img.Name]; ok {
				kept = append(kept, img)
			}
		}
		imgs = kept
		sort.Slice(imgs, func(i, j int) bool { return drawn[imgs[i].Name] < drawn[imgs[j].Name] })
	} else {
		sort.Slice(imgs, func(i, j int) bool { return imgs[i].Name < imgs[j].Name })
	}

	out := make([]types.ExtractedImage, 0, len(imgs))
	for _, img := range imgs {
		data, mimeType, ext, err := encodeImage(&img)
		if err != nil {
			continue
		}
		out = append(out, types.ExtractedImage{
			Page:     number,
			MIMEType: mimeType,
			Filename: fmt.Sprintf("image_page_%d.%s", number, ext),
			Data:     data,
		})
	}
	return out, nil
}

func encodeImage(img *reader.PageImage) ([]byte, string, string, error) {
	switch img.Filter {
	case "DCTDecode", "DCT":
		return img.Data, "image/jpeg", "jpg", nil
	case "JPXDecode":
		return img.Data, "image/jp2", "jp2", nil
	}
	data, err := img.ToPNG()
	if err != nil {
		return nil, "", "", err
	}
	return data, "image/png", "png", nil
}
