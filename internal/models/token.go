package models

// ConfidenceUnknown marks tokens whose locator did not report a confidence.
const ConfidenceUnknown = -1

// Box is an axis-aligned bounding box in image pixel coordinates.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the X coordinate of the box's right edge.
func (b Box) Right() int {
	return b.Left + b.Width
}

// Bottom returns the Y coordinate of the box's bottom edge.
func (b Box) Bottom() int {
	return b.Top + b.Height
}

// Token is one OCR-recognized text fragment with its pixel bounding box.
// Tokens are produced once per image and never mutated afterwards.
type Token struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100, or ConfidenceUnknown
	Box        Box     `json:"box"`
}

// RowCluster groups tokens judged to share one visual table line.
// Top is the row's vertical reference: the top of its first token.
type RowCluster struct {
	Tokens []Token `json:"tokens"`
	Top    int     `json:"top"`
}

// Cell is one column's text within a row, possibly merged from several
// adjacent tokens. Left is the left edge of the cell's first token.
type Cell struct {
	Text string `json:"text"`
	Left int    `json:"left"`
}
