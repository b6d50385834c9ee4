// Package ocr runs the local text recognition engine (tesseract) behind a
// subprocess seam.
//
// Images are preprocessed deterministically before recognition: grayscale,
// 2x upscale, contrast boost, sharpen. The Runner abstraction keeps the
// engine testable without a tesseract binary installed.
package ocr
