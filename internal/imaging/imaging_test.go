package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFit(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 100))
	Fill(src, color.RGBA{255, 0, 0, 255})

	dst := image.NewRGBA(image.Rect(0, 0, 50, 25))
	Fit(dst, src)

	r, g, b, a := dst.At(25, 12).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0), g)
	assert.Equal(t, uint32(0), b)
	assert.Equal(t, uint32(0xffff), a)
}

func TestFill(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Fill(dst, color.White)
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			assert.Equal(t, color.RGBA{255, 255, 255, 255}, dst.RGBAAt(x, y))
		}
	}
}

func TestApplyOpacity(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	Fill(src, color.Black)

	out := ApplyOpacity(src, 0.5)
	_, _, _, a := out.At(1, 1).RGBA()
	assert.InDelta(t, 0x8080, a, 0x100)

	_, _, _, a = ApplyOpacity(src, 0).At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}
