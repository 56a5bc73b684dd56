package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestOtsuThreshold_Bimodal(t *testing.T) {
	g := newGray(20, 10, 200)
	for y := 0; y < 10; y++ {
		for x := 0; x < 8; x++ {
			g.SetGray(x, y, color.Gray{Y: 50})
		}
	}

	level := OtsuThreshold(g)
	if level < 50 || level >= 200 {
		t.Errorf("threshold %d does not separate 50 from 200", level)
	}

	binary := Binarize(g, level)
	if v := binary.GrayAt(0, 0).Y; v != 0 {
		t.Errorf("dark pixel: got %d, want 0", v)
	}
	if v := binary.GrayAt(19, 9).Y; v != 255 {
		t.Errorf("light pixel: got %d, want 255", v)
	}
}

func TestOtsuThreshold_Uniform(t *testing.T) {
	if level := OtsuThreshold(newGray(5, 5, 128)); level != 0 {
		t.Errorf("uniform image threshold: got %d, want 0", level)
	}
}

func TestBinarize_StrictlyGreater(t *testing.T) {
	g := newGray(3, 1, 0)
	g.SetGray(0, 0, color.Gray{Y: 99})
	g.SetGray(1, 0, color.Gray{Y: 100})
	g.SetGray(2, 0, color.Gray{Y: 101})

	binary := Binarize(g, 100)
	want := []uint8{0, 0, 255}
	for x, w := range want {
		if v := binary.GrayAt(x, 0).Y; v != w {
			t.Errorf("pixel %d: got %d, want %d", x, v, w)
		}
	}
}

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name    string
		c       color.Color
		minWant uint8
		maxWant uint8
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 250, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0, 5},
		{"mid gray", color.RGBA{128, 128, 128, 255}, 123, 133},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := createInMemoryImage(4, 3, tt.c)
			var got image.Image = Grayscale(img)

			gray, ok := got.(*image.Gray)
			if !ok {
				t.Fatalf("Grayscale returned %T, want *image.Gray", got)
			}
			if gray.Bounds() != image.Rect(0, 0, 4, 3) {
				t.Fatalf("bounds: got %v, want (0,0)-(4,3)", gray.Bounds())
			}
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					if v := gray.GrayAt(x, y).Y; v < tt.minWant || v > tt.maxWant {
						t.Errorf("pixel (%d,%d): got %d, want %d..%d", x, y, v, tt.minWant, tt.maxWant)
					}
				}
			}
		})
	}
}

func TestGrayscale_OffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 7, 9, 10))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}

	gray := Grayscale(src)
	if gray.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds: got %v, want (0,0)-(4,3)", gray.Bounds())
	}
	if v := gray.GrayAt(3, 2).Y; v < 250 {
		t.Errorf("corner intensity: got %d, want ~255", v)
	}
}

func TestUpscale(t *testing.T) {
	tests := []struct {
		name         string
		factor       float64
		wantW, wantH int
	}{
		{"triple", 3.0, 30, 15},
		{"fractional", 1.5, 15, 8},
		{"identity", 1.0, 10, 5},
		{"non-positive", 0, 10, 5},
	}

	img := createInMemoryImage(10, 5, color.White)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Upscale(img, tt.factor)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("dimensions: got %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	// Dark text-like block on a light background.
	img := createInMemoryImage(40, 20, color.RGBA{230, 230, 230, 255})
	for y := 5; y < 15; y++ {
		for x := 10; x < 30; x++ {
			img.Set(x, y, color.RGBA{20, 20, 20, 255})
		}
	}

	out := Preprocess(img, DefaultPreprocessOptions())

	if out.Bounds() != image.Rect(0, 0, 120, 60) {
		t.Fatalf("bounds: got %v, want (0,0)-(120,60)", out.Bounds())
	}

	// Centre of the block stays dark, corner stays light, and nothing is gray.
	r, _, _, _ := out.At(60, 30).RGBA()
	if r>>8 > 10 {
		t.Errorf("block centre: got %d, want ~0", r>>8)
	}
	r, _, _, _ = out.At(2, 2).RGBA()
	if r>>8 < 245 {
		t.Errorf("background corner: got %d, want ~255", r>>8)
	}
}

func TestDefaultPreprocessOptions(t *testing.T) {
	opts := DefaultPreprocessOptions()
	if opts.KernelSize != 3 {
		t.Errorf("KernelSize: got %d, want 3", opts.KernelSize)
	}
	if opts.Scale != 3.0 {
		t.Errorf("Scale: got %v, want 3", opts.Scale)
	}
}
