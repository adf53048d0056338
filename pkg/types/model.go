package types

// Document is one uploaded file. It lives only for the request that carried it.
type Document struct {
	Name     string
	MIMEType string // application/pdf|image/png|image/jpeg
	Data     []byte
}

// BBox is a rectangle in page space, origin at the top-left corner.
type BBox struct {
	Left, Top, Right, Bottom float64
}

func (b BBox) Width() float64  { return b.Right - b.Left }
func (b BBox) Height() float64 { return b.Bottom - b.Top }

// Intersects reports whether the boxes share an edge segment or any area.
// Boxes that meet at a single corner point do not intersect.
func (b BBox) Intersects(o BBox) bool {
	w := min(b.Right, o.Right) - max(b.Left, o.Left)
	h := min(b.Bottom, o.Bottom) - max(b.Top, o.Top)
	return w >= 0 && h >= 0 && w+h > 0
}

type Glyph struct {
	Text string
	BBox BBox
}

type Table struct {
	Page     int
	BBox     BBox
	Columns  []string   // row 0 of the detected grid
	Rows     [][]string // data rows, row 0 excluded
	Markdown string
}

type ExtractedImage struct {
	Page     int // 1-based
	MIMEType string
	Filename string
	Data     []byte
}

type ExtractionResult struct {
	Text   string
	Tables []Table
	Images []ExtractedImage
	Pages  int
}
