package ocr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Preprocess applies the cleanup chain used before recognition: grayscale,
// slight contrast boost and a mild sharpen. It writes the result next to the
// source file and returns the new path.
func Preprocess(imagePath string) (string, error) {
	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	img = imaging.Grayscale(img)
	img = imaging.AdjustContrast(img, 15)
	img = imaging.Sharpen(img, 0.5)

	ext := filepath.Ext(imagePath)
	outPath := imagePath[:len(imagePath)-len(ext)] + ".prep.png"
	if err := imaging.Save(img, outPath); err != nil {
		_ = os.Remove(outPath)
		return "", fmt.Errorf("save preprocessed image: %w", err)
	}
	return outPath, nil
}
