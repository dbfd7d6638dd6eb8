package imaging

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Fit scales src to the bounds of dst and paints it over dst.
func Fit(dst draw.Image, src image.Image) {
	// bilinear is good enough for rendered text and line art
	s := draw.BiLinear
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
}

// Fill paints the complete destination image in one color.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// ApplyOpacity applies the given opacity (0.0..1.0) to the given image.
// This method returns a new image where the alpha channel is a combination
// of the source alpha and the opacity.
func ApplyOpacity(i image.Image, opacity float64) image.Image {
	alpha := uint8(math.Round(255 * opacity))
	mask := image.NewUniform(color.Alpha{alpha})

	rect := i.Bounds()
	dst := image.NewRGBA(rect)
	p := image.Point{}
	draw.DrawMask(dst, rect, i, rect.Min, mask, p, draw.Over)
	return dst
}
