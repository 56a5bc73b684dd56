package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// DefaultRowHeight is the band height, in processed-image pixels, used when the
// caller does not configure one.
const DefaultRowHeight = 60

// SplitRows cuts an image into horizontal bands of rowHeight pixels.
//
// Bands are returned top to bottom and span the full image width. The last band
// holds whatever remains and may be shorter than rowHeight. A non-positive
// rowHeight returns the whole image as a single band; an empty image returns no
// bands.
//
// Each band is an independent copy, so callers may encode or mutate it freely.
func SplitRows(img image.Image, rowHeight int) []image.Image {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil
	}
	if rowHeight <= 0 {
		return []image.Image{imaging.Clone(img)}
	}

	rows := make([]image.Image, 0, (bounds.Dy()+rowHeight-1)/rowHeight)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += rowHeight {
		bottom := y + rowHeight
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		rows = append(rows, imaging.Crop(img, image.Rect(bounds.Min.X, y, bounds.Max.X, bottom)))
	}

	return rows
}
