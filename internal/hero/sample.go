// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hero

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Sample rasterises word centred on a w×h canvas and returns the grid
// points, density pixels apart, that fall inside the glyphs. The word is
// sized like the browser version: 82% of the width or 52% of the height,
// whichever is smaller.
func Sample(word string, w, h, density int) []Point {
	if word == "" || w <= 0 || h <= 0 || density <= 0 {
		return nil
	}
	face := basicfont.Face7x13
	mask := rasterise(word, face)
	mw, mh := mask.Bounds().Dx(), mask.Bounds().Dy()

	fontSize := math.Min(float64(w)*0.82/(float64(len(word))*0.62), float64(h)*0.52)
	scale := fontSize / float64(face.Height)
	left := float64(w)/2 - float64(mw)*scale/2
	top := float64(h)/2 - float64(mh)*scale/2

	var pts []Point
	for y := 0; y < h; y += density {
		my := int(math.Floor((float64(y) - top) / scale))
		if my < 0 || my >= mh {
			continue
		}
		for x := 0; x < w; x += density {
			mx := int(math.Floor((float64(x) - left) / scale))
			if mx < 0 || mx >= mw {
				continue
			}
			if mask.AlphaAt(mx, my).A > 128 {
				pts = append(pts, Point{X: float64(x), Y: float64(y)})
			}
		}
	}
	return pts
}

func rasterise(word string, face *basicfont.Face) *image.Alpha {
	width := font.MeasureString(face, word).Ceil()
	mask := image.NewAlpha(image.Rect(0, 0, width, face.Height))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.NewUniform(color.Alpha{A: 255}),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(word)
	return mask
}
