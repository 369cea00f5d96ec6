package domain

// Box is a rectangle in UI space: origin at the page's top-left corner,
// y increasing downward, units are page pixels at the 1x reference scale.
// Width and height are never negative.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToPDFSpace converts the box to PDF space, where the origin is the page's
// bottom-left corner and y increases upward. pageHeight is the media box
// height of the page in PDF units. The conversion is exact: no rounding, so
// identical input always yields identical output.
func (b Box) ToPDFSpace(pageHeight float64) Box {
	return Box{
		X:      b.X,
		Y:      pageHeight - b.Y - b.Height,
		Width:  b.Width,
		Height: b.Height,
	}
}

// PDFRect returns the [x0 y0 x1 y1] corner form used by PDF rectangle
// objects, derived as (x, y, x+width, y+height).
func (b Box) PDFRect() [4]float64 {
	return [4]float64{b.X, b.Y, b.X + b.Width, b.Y + b.Height}
}
