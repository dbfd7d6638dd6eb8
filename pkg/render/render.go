// Package render paints annotation layers onto the pages of a paper.
//
// Coordinates of bounding boxes are PDF points with the origin in the top
// left corner of a page.
package render

import (
	"image/color"
	"sort"
	"sync"

	"github.com/akeil/tkb"
)

// Overlay is a layer with its bounding boxes.
type Overlay struct {
	Layer tkb.Layer
	Boxes []tkb.Annotation
}

// Size is the size of a page in points.
type Size struct {
	W float64
	H float64
}

// A4 is the page size used when the size of a page is not known.
var A4 = Size{W: 595.28, H: 841.89}

var palette = []color.RGBA{
	{31, 119, 180, 255},
	{255, 127, 14, 255},
	{44, 160, 44, 255},
	{214, 39, 40, 255},
	{148, 103, 189, 255},
	{140, 86, 75, 255},
	{227, 119, 194, 255},
	{127, 127, 127, 255},
	{188, 189, 34, 255},
	{23, 190, 207, 255},
}

// Context holds the label colors for rendering operations.
//
// If multiple pages or papers are rendered, they should use the same
// Context so that a label keeps its color.
type Context struct {
	mx     sync.Mutex
	colors map[string]color.RGBA
	next   int
}

// NewContext sets up a rendering context.
// The given labels get the first colors, in order.
func NewContext(labels ...string) *Context {
	c := &Context{colors: make(map[string]color.RGBA)}
	for _, l := range labels {
		c.Color(l)
	}
	return c
}

// DefaultContext is a context without assigned colors.
func DefaultContext() *Context {
	return NewContext()
}

// Color returns the color for a label.
// Unknown labels get the next color from the palette.
func (c *Context) Color(label string) color.RGBA {
	c.mx.Lock()
	defer c.mx.Unlock()
	if col, ok := c.colors[label]; ok {
		return col
	}
	col := palette[c.next%len(palette)]
	c.next++
	c.colors[label] = col
	return col
}

// byPage groups the boxes of all overlays by page number.
// Boxes on a page keep the order of the overlays.
func byPage(overlays []Overlay) map[int][]box {
	pages := make(map[int][]box)
	for _, o := range overlays {
		st := styleFor(o.Layer)
		for _, a := range o.Boxes {
			pages[a.PageNum] = append(pages[a.PageNum], box{Annotation: a, style: st})
		}
	}
	return pages
}

type box struct {
	tkb.Annotation
	style Style
}

// pageNumbers returns the sorted page numbers of a grouping.
func pageNumbers(pages map[int][]box) []int {
	nums := make([]int, 0, len(pages))
	for n := range pages {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
