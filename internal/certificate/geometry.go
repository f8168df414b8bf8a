package certificate

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Mode selects how a rendered overlay becomes an output document.
type Mode int

const (
	// ModeTemplateMerge stamps the overlay onto one page of a template.
	ModeTemplateMerge Mode = iota
	// ModeStandalone emits the overlay page as the whole document.
	ModeStandalone
)

func (m Mode) String() string {
	switch m {
	case ModeTemplateMerge:
		return "template-merge"
	case ModeStandalone:
		return "standalone"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// TemplateType is the label used in run summaries.
func (m Mode) TemplateType() string {
	if m == ModeStandalone {
		return "blank (Landscape)"
	}
	return "original"
}

// PageGeometry is a named paper size plus orientation. Paper names are the
// ones pdfcpu knows, e.g. "A5" or "Letter".
type PageGeometry struct {
	Paper     string `yaml:"paper"`
	Landscape bool   `yaml:"landscape"`
}

// DefaultGeometry returns the overlay page used by each mode: A5 portrait for
// template-merge, A5 landscape for standalone.
func DefaultGeometry(m Mode) PageGeometry {
	return PageGeometry{Paper: "A5", Landscape: m == ModeStandalone}
}

// IsZero reports whether no geometry was configured.
func (g PageGeometry) IsZero() bool {
	return g.Paper == ""
}

// PaperSpec is the pdfcpu paper string, e.g. "A5P" or "A5L".
func (g PageGeometry) PaperSpec() string {
	if g.Landscape {
		return g.Paper + "L"
	}
	return g.Paper + "P"
}

// Dim returns width and height in points with orientation applied.
func (g PageGeometry) Dim() (types.Dim, error) {
	d, ok := types.PaperSize[g.Paper]
	if !ok {
		return types.Dim{}, fmt.Errorf("%w: unknown paper size %q", ErrData, g.Paper)
	}
	w, h := d.Width, d.Height
	if w > h {
		w, h = h, w
	}
	if g.Landscape {
		w, h = h, w
	}
	return types.Dim{Width: w, Height: h}, nil
}

func (g PageGeometry) String() string {
	return g.PaperSpec()
}
