package certificate

// Point is a position in PDF points measured from the lower-left corner.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Layout fixes where and how large each field is drawn. The coordinates are
// tuned to the printed certificate and do not depend on text length.
type Layout struct {
	ChineseName  Point `yaml:"chineseName"`
	DharmaName   Point `yaml:"dharmaName"`
	Date         Point `yaml:"date"`
	NameFontSize int   `yaml:"nameFontSize"`
	DateFontSize int   `yaml:"dateFontSize"`
}

// DefaultLayout is the layout of the refuge certificate inner page.
func DefaultLayout() Layout {
	return Layout{
		ChineseName:  Point{X: 160, Y: 355},
		DharmaName:   Point{X: 160, Y: 90},
		Date:         Point{X: 149, Y: 50},
		NameFontSize: 16,
		DateFontSize: 11,
	}
}

// Request builds the render request for one registrant.
func (l Layout) Request(chineseName, dharmaName, date string, f Font, g PageGeometry) RenderRequest {
	return RenderRequest{
		Names: []Placement{
			{Text: chineseName, X: l.ChineseName.X, Y: l.ChineseName.Y, FontSize: l.NameFontSize},
			{Text: dharmaName, X: l.DharmaName.X, Y: l.DharmaName.Y, FontSize: l.NameFontSize},
		},
		Date:     Placement{Text: date, X: l.Date.X, Y: l.Date.Y, FontSize: l.DateFontSize},
		Font:     f,
		Geometry: g,
	}
}
