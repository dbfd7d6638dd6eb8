package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"

	"github.com/akeil/tkb/internal/imaging"
)

var bgColor = color.White

// backgroundOpacity lightens the page below the boxes.
const backgroundOpacity = 0.75

// PageOptions control how a single page is rendered.
type PageOptions struct {
	// Width of the image in pixels. Zero means one pixel per point.
	Width int
	// Background is painted below the boxes, scaled to the page size.
	// Typically, this is the rendered page of the paper.
	Background image.Image
	// Transparent leaves the image transparent if there is no background.
	Transparent bool
}

// PagePNG paints the boxes for one page (starting at 1) of a paper and
// writes the result as PNG to w.
func (c *Context) PagePNG(overlays []Overlay, page int, size Size, opts PageOptions, w io.Writer) error {
	img, err := c.Page(overlays, page, size, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Page paints the boxes for one page (starting at 1) of a paper.
func (c *Context) Page(overlays []Overlay, page int, size Size, opts PageOptions) (*image.RGBA, error) {
	if page < 1 {
		return nil, fmt.Errorf("invalid page number %d", page)
	}
	if size.W <= 0 || size.H <= 0 {
		size = A4
	}

	width := opts.Width
	if width <= 0 {
		width = int(math.Ceil(size.W))
	}
	scale := float64(width) / size.W
	height := int(math.Ceil(size.H * scale))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if opts.Background != nil {
		imaging.Fill(dst, bgColor)
		imaging.Fit(dst, imaging.ApplyOpacity(opts.Background, backgroundOpacity))
	} else if !opts.Transparent {
		imaging.Fill(dst, bgColor)
	}

	gc := draw2dimg.NewGraphicContext(dst)
	gc.Scale(scale, scale)

	for _, b := range byPage(overlays)[page] {
		c.drawBox(gc, b)
	}

	return dst, nil
}

func (c *Context) drawBox(gc *draw2dimg.GraphicContext, b box) {
	col := c.Color(b.Label)

	gc.Save()
	defer gc.Restore()

	if b.style.FillAlpha > 0 {
		fill := color.NRGBA{col.R, col.G, col.B, uint8(math.Round(255 * b.style.FillAlpha))}
		gc.SetFillColor(fill)
		draw2dkit.Rectangle(gc, b.MinH, b.MinV, b.MaxH, b.MaxV)
		gc.Fill()
	}

	gc.SetStrokeColor(col)
	gc.SetLineWidth(b.style.LineWidth)
	if b.style.Dash != nil {
		gc.SetLineDash(b.style.Dash, 0)
	}
	draw2dkit.Rectangle(gc, b.MinH, b.MinV, b.MaxH, b.MaxV)
	gc.Stroke()
}
