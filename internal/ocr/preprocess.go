package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// preprocess applies the fixed enhancement chain that makes small phone
// screenshots legible to tesseract: grayscale, 2x upscale, contrast boost,
// sharpen. The result is written as a PNG into dir and its path returned.
func preprocess(imagePath, dir string) (string, error) {
	img, err := imaging.Open(imagePath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	bounds := img.Bounds()
	processed := imaging.Grayscale(img)
	processed = imaging.Resize(processed, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	processed = imaging.AdjustContrast(processed, 30)
	processed = imaging.Sharpen(processed, 1.0)

	base := filepath.Base(imagePath)
	outPath := filepath.Join(dir, base+".prep.png")
	if err := imaging.Save(processed, outPath); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("save preprocessed image: %w", err)
	}
	return outPath, nil
}
