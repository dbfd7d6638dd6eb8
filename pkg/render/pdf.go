package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"

	"github.com/akeil/tkb/internal/logging"
)

const mediaBox = "/MediaBox"

const tsFormat = "2006-01-02 15:04"

// PDFOptions are the metadata for an exported PDF.
type PDFOptions struct {
	Title string
	// Footer adds page numbers and the title to each page.
	Footer bool
}

// PDF copies the pages of the paper's PDF document from src and draws the
// boxes of the given overlays on top.
//
// The resulting PDF document is written to w.
func (c *Context) PDF(ctx context.Context, src io.ReadSeeker, overlays []Overlay, opts PDFOptions, w io.Writer) error {
	logging.Debug("Render PDF %q with %d overlays", opts.Title, len(overlays))
	pdf := setupPDF(opts)
	pages := byPage(overlays)

	im := gofpdi.NewImporter()
	var tpl int
	err := dontPanic(func() {
		tpl = im.ImportPageFromStream(pdf, &src, 1, mediaBox)
	})
	if err != nil {
		return fmt.Errorf("could not read PDF: %w", err)
	}
	sizes := im.GetPageSizes()
	numPages := len(sizes)

	for i := 1; i <= numPages; i++ {
		err = ctx.Err()
		if err != nil {
			return err
		}

		if i > 1 {
			err = dontPanic(func() {
				tpl = im.ImportPageFromStream(pdf, &src, i, mediaBox)
			})
			if err != nil {
				return fmt.Errorf("could not import page %d: %w", i, err)
			}
		}

		size := pageSize(sizes, i)
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: size.W, Ht: size.H})
		im.UseImportedTemplate(pdf, tpl, 0, 0, size.W, size.H)

		boxes := pages[i]
		if len(boxes) == 0 {
			continue
		}
		logging.Debug("Overlay %d boxes on page %d", len(boxes), i)
		c.boxesToPDF(pdf, boxes)
	}

	for _, n := range pageNumbers(pages) {
		if n < 1 || n > numPages {
			logging.Warning("Skipped boxes on page %d, document has %d pages", n, numPages)
		}
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}

func pageSize(sizes map[int]map[string]map[string]float64, page int) Size {
	s, ok := sizes[page][mediaBox]
	if !ok || s["w"] <= 0 || s["h"] <= 0 {
		return A4
	}
	return Size{W: s["w"], H: s["h"]}
}

func setupPDF(opts PDFOptions) *gofpdf.Fpdf {
	orientation := "P" // [P]ortrait or [L]andscape
	sizeUnit := "pt"
	fontDir := ""
	pdf := gofpdf.New(orientation, sizeUnit, "A4", fontDir)

	pdf.SetMargins(0, 0, 0) // left, top, right
	pdf.SetAutoPageBreak(false, 0)
	pdf.AliasNbPages("{totalPages}")
	pdf.SetFont("helvetica", "", 6)
	pdf.SetProducer("tkb", true)

	now := time.Now().UTC()
	pdf.SetCreationDate(now)
	pdf.SetModificationDate(now)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}

	if opts.Footer {
		pdf.SetFooterFunc(func() {
			_, h := pdf.GetPageSize()
			pdf.SetY(h - 14)
			pdf.SetX(24)
			pdf.SetTextColor(127, 127, 127)
			pdf.SetFontSize(7)
			pdf.Cellf(0, 10, "%d / {totalPages}  |  %v  |  %v",
				pdf.PageNo(),
				opts.Title,
				now.Local().Format(tsFormat))
		})
	}

	return pdf
}

func (c *Context) boxesToPDF(pdf *gofpdf.Fpdf, boxes []box) {
	for _, b := range boxes {
		col := c.Color(b.Label)
		r, g, bl := int(col.R), int(col.G), int(col.B)
		x, y, w, h := b.MinH, b.MinV, b.Width(), b.Height()

		if b.style.FillAlpha > 0 {
			pdf.SetAlpha(b.style.FillAlpha, "Normal")
			pdf.SetFillColor(r, g, bl)
			pdf.Rect(x, y, w, h, "F")
			pdf.SetAlpha(1, "Normal")
		}

		pdf.SetDrawColor(r, g, bl)
		pdf.SetLineWidth(b.style.LineWidth)
		dash := b.style.Dash
		if dash == nil {
			dash = []float64{}
		}
		pdf.SetDashPattern(dash, 0)
		pdf.Rect(x, y, w, h, "D")

		if b.style.Caption {
			pdf.SetFontSize(6)
			pdf.SetTextColor(r, g, bl)
			pdf.Text(x, y-1.5, b.Label)
		}
	}
	pdf.SetDashPattern([]float64{}, 0)
}

// dontPanic executes f in a separate goroutine.
// A panic in f is recovered and returned as an error.
func dontPanic(f func()) error {
	rv := make(chan error, 1)

	go func() {
		defer func() {
			x := recover()
			if x != nil {
				logging.Warning("Panic occurred (recovered): %v", x)
				rv <- fmt.Errorf("recovered from: %v", x)
				return
			}
			rv <- nil
		}()

		f()
	}()

	return <-rv
}
