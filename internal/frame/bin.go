package frame

import (
	"image"

	"golang.org/x/image/draw"
)

// Bin simulates sensor pixel binning on img in place: the frame is resampled
// down to floor(W/factor) x floor(H/factor) and back up to W x H, both with
// nearest-neighbour sampling, which leaves visible factor x factor blocks.
//
// Factors below 2 and frames too small to shrink are left untouched.
func Bin(img *image.RGBA, factor int) {
	if factor <= 1 {
		return
	}
	b := img.Bounds()
	sw, sh := b.Dx()/factor, b.Dy()/factor
	if sw == 0 || sh == 0 {
		return
	}
	small := image.NewRGBA(image.Rect(0, 0, sw, sh))
	draw.NearestNeighbor.Scale(small, small.Bounds(), img, b, draw.Src, nil)
	draw.NearestNeighbor.Scale(img, b, small, small.Bounds(), draw.Src, nil)
}
