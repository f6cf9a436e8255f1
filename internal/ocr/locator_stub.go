//go:build !ocr

package ocr

import (
	"jira-triage-snapshot/internal/common"
	"jira-triage-snapshot/internal/interfaces"
)

// ErrOCRNotEnabled is returned when the binary was built without the
// "ocr" build tag. The tag pulls in the cgo Tesseract binding.
var ErrOCRNotEnabled = common.NewOCRError("not_enabled",
	"OCR support not enabled; rebuild with -tags ocr and Tesseract installed")

// New reports that OCR support is unavailable in this build.
func New(config *common.OCRConfig) (interfaces.WordLocator, error) {
	return nil, ErrOCRNotEnabled
}
