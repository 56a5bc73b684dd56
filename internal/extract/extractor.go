package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ironsheep/shotmail/internal/imaging"
	"github.com/ironsheep/shotmail/internal/ocr"
)

// Options configures an Extractor.
type Options struct {
	// RowHeight is the band height in processed (upscaled) pixels.
	RowHeight int

	// Preprocess controls binarization, closing and upscaling.
	Preprocess imaging.PreprocessOptions
}

// DefaultOptions returns 60 pixel bands over the default preprocessing chain.
func DefaultOptions() Options {
	return Options{
		RowHeight:  imaging.DefaultRowHeight,
		Preprocess: imaging.DefaultPreprocessOptions(),
	}
}

// ImageReport records the outcome for one screenshot.
type ImageReport struct {
	Path string

	// Addresses is the number of distinct valid addresses found in the image.
	Addresses int

	// Err is the failure that made the image contribute nothing, if any.
	Err error
}

// Result is the outcome of a directory pass.
type Result struct {
	// Addresses holds every distinct valid address, sorted.
	Addresses []string

	// Images has one report per screenshot, in processing order.
	Images []ImageReport
}

// Failed returns the number of images that could not be processed.
func (r *Result) Failed() int {
	n := 0
	for _, img := range r.Images {
		if img.Err != nil {
			n++
		}
	}
	return n
}

// Extractor runs the screenshot to address pipeline.
type Extractor struct {
	recognizer ocr.Recognizer
	opts       Options
	logger     *slog.Logger
}

// New returns an Extractor that recognizes bands with r. A nil logger uses
// slog.Default().
func New(r ocr.Recognizer, opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		recognizer: r,
		opts:       opts,
		logger:     logger,
	}
}

// ExtractDir processes every screenshot in dir and returns the union of their
// addresses.
//
// A missing directory is an error. Per-image failures are logged and recorded
// in the result, never returned. The pass stops early only when ctx is done.
func (e *Extractor) ExtractDir(ctx context.Context, dir string) (*Result, error) {
	paths, err := imaging.ListImages(dir)
	if err != nil {
		return nil, err
	}

	e.logger.Info("found image files", "dir", dir, "count", len(paths))

	all := NewAddressSet()
	result := &Result{Images: make([]ImageReport, 0, len(paths))}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		e.logger.Info("processing image", "path", path)

		found, err := e.ExtractFile(ctx, path)
		if err != nil {
			e.logger.Error("error processing image", "path", path, "error", err)
			result.Images = append(result.Images, ImageReport{Path: path, Err: err})
			continue
		}

		all.Merge(found)
		result.Images = append(result.Images, ImageReport{Path: path, Addresses: found.Len()})
	}

	result.Addresses = all.Sorted()
	return result, nil
}

// ExtractFile returns the distinct valid addresses found in one screenshot.
//
// An error from any band fails the whole image so that a half-read screenshot
// is never reported as complete.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*AddressSet, error) {
	img, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}

	processed := imaging.Preprocess(img, e.opts.Preprocess)
	rows := imaging.SplitRows(processed, e.opts.RowHeight)

	texts := make([]string, 0, len(rows))
	for idx, row := range rows {
		text, err := e.recognizer.Recognize(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx, err)
		}
		e.logger.Debug("extracted text from row", "path", path, "row", idx, "text", text)
		texts = append(texts, text)
	}

	found := NewAddressSet(FindAddresses(strings.Join(texts, "\n"))...)

	e.logger.Info("extracted valid emails", "path", path, "count", found.Len(), "sample", sample(found.Sorted(), 5))
	return found, nil
}

// sample returns at most n leading addresses for log output.
func sample(addrs []string, n int) []string {
	if len(addrs) > n {
		return addrs[:n]
	}
	return addrs
}
