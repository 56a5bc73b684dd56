// Package ocr turns processed screenshot bands into text using Tesseract.
//
// The package exposes a small Recognizer interface so the extraction pipeline can
// be exercised without a native engine, and a Tesseract implementation backed by
// gosseract/v2.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng libtesseract-dev
//   - macOS: brew install tesseract
//
// gosseract links against libtesseract through cgo. Binaries built with
// CGO_ENABLED=0 still compile, but their Tesseract recognizer reports
// ErrUnavailable from Probe and Recognize.
//
// # Recognition Mode
//
// Every band is recognized with page segmentation mode 6 ("assume a single
// uniform block of text"). Screenshot bands are narrow strips, and letting
// Tesseract run full layout analysis on them loses more text than it finds.
//
// # Setup Failures
//
// Call Probe once before processing. A missing engine or missing language data
// surfaces there as an error, which callers treat as fatal; errors returned by
// Recognize afterwards are per-band failures.
package ocr
