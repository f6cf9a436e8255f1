// Package ocr locates word tokens with their bounding boxes in a Jira
// screenshot. The Tesseract binding needs cgo, so the real locator sits
// behind the "ocr" build tag; without it image runs fail fast with
// ErrOCRNotEnabled.
package ocr

import (
	"bytes"
	"image"

	// Register the decoders the validator can recognise.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"jira-triage-snapshot/internal/common"
)

// ValidateImage checks that the byte slice decodes as a known image
// format before it is handed to the OCR engine.
func ValidateImage(imageData []byte) error {
	if len(imageData) == 0 {
		return common.NewImageError("empty_image", "source image is empty")
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(imageData)); err != nil {
		return common.WrapError(err, common.ErrorTypeImage, "unreadable_image", "source image cannot be decoded")
	}

	return nil
}
