package imaging

import (
	"image"
	"image/color"
)

// Close applies a morphological closing (dilation followed by erosion) with a
// size x size square structuring element.
//
// On a binarized screenshot this fills gaps narrower than the element in the
// light regions. Sizes below 2 return an unmodified copy. Border pixels use
// clamped (replicated) neighbors.
func Close(gray *image.Gray, size int) *image.Gray {
	if size < 2 {
		return copyGray(gray)
	}
	return erode(dilate(gray, size), size)
}

// dilate replaces every pixel with the maximum of its size x size neighborhood.
func dilate(gray *image.Gray, size int) *image.Gray {
	return rankFilter(gray, size, func(a, b uint8) bool { return a > b })
}

// erode replaces every pixel with the minimum of its size x size neighborhood.
func erode(gray *image.Gray, size int) *image.Gray {
	return rankFilter(gray, size, func(a, b uint8) bool { return a < b })
}

// rankFilter keeps, for each pixel, the neighbor value preferred by better.
// Even sizes extend one pixel further before the anchor than after it, the
// same anchoring OpenCV uses for even kernels.
func rankFilter(gray *image.Gray, size int, better func(a, b uint8) bool) *image.Gray {
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))

	before := size / 2
	after := size - before - 1

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			best := gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
			for ky := -before; ky <= after; ky++ {
				py := clamp(y+ky, 0, height-1)
				for kx := -before; kx <= after; kx++ {
					px := clamp(x+kx, 0, width-1)
					v := gray.GrayAt(px+bounds.Min.X, py+bounds.Min.Y).Y
					if better(v, best) {
						best = v
					}
				}
			}
			result.SetGray(x, y, color.Gray{Y: best})
		}
	}

	return result
}

func copyGray(gray *image.Gray) *image.Gray {
	bounds := gray.Bounds()
	result := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			result.SetGray(x, y, gray.GrayAt(x+bounds.Min.X, y+bounds.Min.Y))
		}
	}
	return result
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in neighborhood operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
