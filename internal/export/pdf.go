// Package export writes a reel out as a printable PDF flipbook, an animated
// PNG, or a single frame image.
package export

import (
	"fmt"
	"io"
	"log"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"

	"flipbook/internal/state"
)

// PDFOptions lays out the flipbook pages. Sizes are in millimetres.
type PDFOptions struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	// Shadows draws onion skins behind each page's frame.
	Shadows bool
	Depth   int
	Dir     int
	// Footer prints the frame number at the bottom of each page.
	Footer bool
}

func DefaultPDFOptions() PDFOptions {
	return PDFOptions{PageWidth: 148, PageHeight: 105, Margin: 8, Depth: 3, Dir: -1, Footer: true}
}

// pdfSurface maps canvas pixels onto a page through a scale and an offset.
type pdfSurface struct {
	pdf       *gofpdf.Fpdf
	scale     float64
	dx, dy    float64
	w, h      float64
	tolerance float64
}

func rgb(style string) (int, int, int) {
	c := gg.Hex(style)
	return int(c.R*255 + 0.5), int(c.G*255 + 0.5), int(c.B*255 + 0.5)
}

func (s *pdfSurface) Fill(style string) {
	s.pdf.SetFillColor(rgb(style))
	s.pdf.Rect(0, 0, s.w, s.h, "F")
}

// Clear is a no-op: a fresh page is already blank.
func (s *pdfSurface) Clear() {}

func (s *pdfSurface) SetStrokeStyle(style string) {
	s.pdf.SetDrawColor(rgb(style))
	s.pdf.SetFillColor(rgb(style))
}

func (s *pdfSurface) StrokeLine(from, to state.Point, width float64) {
	if width <= 0 {
		return
	}
	x1, y1 := s.dx+from.X*s.scale, s.dy+from.Y*s.scale
	x2, y2 := s.dx+to.X*s.scale, s.dy+to.Y*s.scale
	w := width * s.scale
	if from == to {
		s.pdf.Circle(x1, y1, w/2, "F")
		return
	}
	s.pdf.SetLineWidth(w)
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *pdfSurface) IsPointInStroke(from, to, probe state.Point) bool {
	return state.DistanceToSegment(probe, from, to) <= s.tolerance
}

func (s *pdfSurface) StrokeTolerance() float64 { return s.tolerance }

// fit returns the scale and offset that center content inside the page
// margins without distorting it.
func fit(content state.Rect, o PDFOptions) (scale, dx, dy float64) {
	availW := o.PageWidth - 2*o.Margin
	availH := o.PageHeight - 2*o.Margin
	cw, ch := content.Width(), content.Height()
	if cw <= 0 {
		cw = 1
	}
	if ch <= 0 {
		ch = 1
	}
	scale = min(availW/cw, availH/ch)
	dx = o.Margin + (availW-cw*scale)/2 - content.MinX*scale
	dy = o.Margin + (availH-ch*scale)/2 - content.MinY*scale
	return scale, dx, dy
}

// WritePDF renders one page per frame. Every page shares the same framing
// so the drawing stays put when the pages are flipped.
func WritePDF(w io.Writer, r *state.Reel, o PDFOptions) error {
	if o.PageWidth <= 0 || o.PageHeight <= 0 || 2*o.Margin >= min(o.PageWidth, o.PageHeight) {
		return fmt.Errorf("pdf page %.0fx%.0fmm with margin %.0fmm leaves no room", o.PageWidth, o.PageHeight, o.Margin)
	}
	frames := r.Frames()
	content, ok := state.ContentBounds(frames)
	if !ok {
		content = state.Rect{MaxX: 1, MaxY: 1}
	}
	// Strokes are drawn centred on their path; leave room for the widest.
	content = content.Inflate(r.Options().Thickness / 2)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: o.PageWidth, Ht: o.PageHeight},
	})
	pdf.SetCreator("flipbook", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	pdf.SetFont("Helvetica", "", 8)

	scale, dx, dy := fit(content, o)
	surface := &pdfSurface{pdf: pdf, scale: scale, dx: dx, dy: dy, w: o.PageWidth, h: o.PageHeight}

	for i, f := range frames {
		pdf.AddPage()
		compose(surface, frames, f.Index, o.Shadows, o.Depth, o.Dir)
		if o.Footer {
			pdf.SetTextColor(128, 128, 128)
			label := fmt.Sprintf("%d / %d", i+1, len(frames))
			pdf.Text(o.PageWidth-o.Margin-pdf.GetStringWidth(label), o.PageHeight-o.Margin/3, label)
		}
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	log.Printf("[EXPORT] pdf with %d pages", len(frames))
	return nil
}
