//go:build ocr

package ocr

import (
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
	"jira-triage-snapshot/internal/models"
)

type locator struct {
	client *gosseract.Client
}

// New creates a Tesseract-backed word locator configured for the table
// screenshot layout.
func New(config *common.OCRConfig) (interfaces.WordLocator, error) {
	client := gosseract.NewClient()

	if config.Language != "" {
		if err := client.SetLanguage(config.Language); err != nil {
			client.Close()
			return nil, common.WrapError(err, common.ErrorTypeOCR, "set_language",
				"failed to set OCR language").WithContext("language", config.Language)
		}
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(config.PageSegMode)); err != nil {
		client.Close()
		return nil, common.WrapError(err, common.ErrorTypeOCR, "set_page_seg_mode",
			"failed to set page segmentation mode").WithContext("mode", strconv.Itoa(config.PageSegMode))
	}

	return &locator{client: client}, nil
}

// Locate runs word-level OCR and returns one token per recognised word,
// with its pixel bounding box and confidence. Empty recognitions are
// dropped.
func (l *locator) Locate(imageData []byte) ([]models.Token, error) {
	if err := ValidateImage(imageData); err != nil {
		return nil, err
	}

	if err := l.client.SetImageFromBytes(imageData); err != nil {
		return nil, common.WrapError(err, common.ErrorTypeOCR, "set_image", "failed to load image into OCR engine")
	}

	boxes, err := l.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, common.WrapError(err, common.ErrorTypeOCR, "bounding_boxes", "word recognition failed")
	}

	tokens := make([]models.Token, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		tokens = append(tokens, models.Token{
			Text:       text,
			Confidence: box.Confidence,
			Box: models.Box{
				Left:   box.Box.Min.X,
				Top:    box.Box.Min.Y,
				Width:  box.Box.Dx(),
				Height: box.Box.Dy(),
			},
		})
	}

	return tokens, nil
}

func (l *locator) Close() error {
	return l.client.Close()
}
