// Package imaging loads screenshot images and prepares them for text recognition.
//
// The preparation chain mirrors what works well for Tesseract on UI screenshots:
// single-channel intensity, a global Otsu threshold, a small morphological closing
// to reconnect broken strokes, and a cubic upscale. The processed image is then
// cut into fixed-height horizontal bands so each recognition call sees a bounded
// amount of context.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Supported Inputs
//
// Only files with a ".png" or ".jpg" extension are considered by ListImages.
// Load decodes PNG and JPEG payloads; anything else is reported as an error and
// left to the caller to skip.
//
// # Thread Safety
//
// Every operation is stateless and returns a freshly allocated image, so the
// functions can be called concurrently on different inputs.
package imaging
