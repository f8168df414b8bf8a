package certificate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
)

// Placement is one string drawn left-anchored with its baseline at (X, Y).
type Placement struct {
	Text     string
	X, Y     float64
	FontSize int
}

// RenderRequest describes one overlay page. Only the first two Names are drawn.
type RenderRequest struct {
	Names    []Placement
	Date     Placement
	Font     Font
	Geometry PageGeometry
	// Script is the pdfcpu script tag for CJK fonts ("SC", "TC", ...), empty otherwise.
	Script string
}

// The JSON shapes below are the subset of pdfcpu's create format the overlay needs.
type overlayDescription struct {
	Paper  string                 `json:"paper"`
	Origin string                 `json:"origin"`
	Pages  map[string]overlayPage `json:"pages"`
}

type overlayPage struct {
	Content overlayContent `json:"content"`
}

type overlayContent struct {
	Text []overlayText `json:"text"`
}

type overlayText struct {
	Value string      `json:"value"`
	Pos   [2]float64  `json:"pos"`
	Font  overlayFont `json:"font"`
}

type overlayFont struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	Script string `json:"script,omitempty"`
}

// Renderer draws text-only overlay pages with fonts from a Registry.
type Renderer struct {
	fonts *Registry
}

// NewRenderer returns a renderer bound to fonts.
func NewRenderer(fonts *Registry) *Renderer {
	return &Renderer{fonts: fonts}
}

// Render produces a single-page PDF holding only the requested text.
// Text is neither wrapped nor clipped here.
func (r *Renderer) Render(req RenderRequest) ([]byte, error) {
	f, ok := r.fonts.Lookup(req.Font.LogicalName)
	if !ok {
		return nil, fmt.Errorf("%w: font %q is not registered", ErrResource, req.Font.LogicalName)
	}
	if _, err := req.Geometry.Dim(); err != nil {
		return nil, err
	}

	desc, err := json.Marshal(describeOverlay(req, f))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal overlay description: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, newPDFConfiguration()); err != nil {
		return nil, fmt.Errorf("failed to render overlay: %w", err)
	}
	return buf.Bytes(), nil
}

func describeOverlay(req RenderRequest, f Font) overlayDescription {
	names := req.Names
	if len(names) > 2 {
		names = names[:2]
	}

	placed := make([]Placement, 0, len(names)+1)
	placed = append(placed, names...)
	placed = append(placed, req.Date)

	texts := make([]overlayText, 0, len(placed))
	for _, p := range placed {
		texts = append(texts, overlayText{
			Value: p.Text,
			Pos:   [2]float64{p.X, p.Y - baselineShift(f.Name, p.FontSize)},
			Font:  overlayFont{Name: f.Name, Size: p.FontSize, Script: req.Script},
		})
	}

	return overlayDescription{
		Paper:  req.Geometry.PaperSpec(),
		Origin: "LowerLeft",
		Pages: map[string]overlayPage{
			"1": {Content: overlayContent{Text: texts}},
		},
	}
}

// baselineShift is how far pdfcpu raises the baseline above a text box's
// position. Subtracting it puts the baseline on the requested coordinate.
func baselineShift(fontName string, fontSize int) float64 {
	return math.Ceil(font.Descent(fontName, fontSize))
}
