package certificate

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// goRegular installs Go Regular and returns it. pdfcpu's config dir is set up
// by TestMain.
func goRegular(t *testing.T) Font {
	t.Helper()
	path := filepath.Join(t.TempDir(), "goregular.ttf")
	require.NoError(t, os.WriteFile(path, goregular.TTF, 0o644))
	f, err := NewRegistry().Register(path, "Test-Regular")
	require.NoError(t, err)
	return f
}

func TestDescribeOverlay_PlacesNamesAndDate(t *testing.T) {
	f := goRegular(t)
	req := DefaultLayout().Request("张三", "慧明", "2024年01月01日", f, DefaultGeometry(ModeTemplateMerge))
	req.Script = "SC"

	desc := describeOverlay(req, f)

	assert.Equal(t, "A5P", desc.Paper)
	assert.Equal(t, "LowerLeft", desc.Origin)
	require.Contains(t, desc.Pages, "1")
	texts := desc.Pages["1"].Content.Text
	require.Len(t, texts, 3)

	nameShift := math.Ceil(font.Descent(f.Name, 16))
	dateShift := math.Ceil(font.Descent(f.Name, 11))
	require.Positive(t, nameShift)
	require.Positive(t, dateShift)

	assert.Equal(t, "张三", texts[0].Value)
	assert.Equal(t, [2]float64{160, 355 - nameShift}, texts[0].Pos)
	assert.Equal(t, 16, texts[0].Font.Size)

	assert.Equal(t, "慧明", texts[1].Value)
	assert.Equal(t, [2]float64{160, 90 - nameShift}, texts[1].Pos)
	assert.Equal(t, 16, texts[1].Font.Size)

	assert.Equal(t, "2024年01月01日", texts[2].Value)
	assert.Equal(t, [2]float64{149, 50 - dateShift}, texts[2].Pos)
	assert.Equal(t, 11, texts[2].Font.Size)

	for _, txt := range texts {
		assert.Equal(t, f.Name, txt.Font.Name)
		assert.Equal(t, "SC", txt.Font.Script)
	}
}

func TestDescribeOverlay_DrawsOnlyTwoNames(t *testing.T) {
	req := RenderRequest{
		Names: []Placement{
			{Text: "a", X: 1, Y: 1, FontSize: 16},
			{Text: "b", X: 2, Y: 2, FontSize: 16},
			{Text: "c", X: 3, Y: 3, FontSize: 16},
		},
		Date:     Placement{Text: "d", X: 4, Y: 4, FontSize: 11},
		Geometry: DefaultGeometry(ModeStandalone),
	}

	desc := describeOverlay(req, goRegular(t))

	texts := desc.Pages["1"].Content.Text
	require.Len(t, texts, 3)
	assert.Equal(t, "a", texts[0].Value)
	assert.Equal(t, "b", texts[1].Value)
	assert.Equal(t, "d", texts[2].Value)
	assert.Equal(t, "c", req.Names[2].Text, "request must not be modified")
	assert.Equal(t, "A5L", desc.Paper)
}

func TestOverlayStamp_IsIdentityPlacement(t *testing.T) {
	desc, err := json.Marshal(map[string]any{
		"paper":  "A5P",
		"origin": "LowerLeft",
		"pages": map[string]any{
			"1": map[string]any{"content": map[string]any{"text": []map[string]any{{
				"value": "x",
				"pos":   []float64{10, 10},
				"font":  map[string]any{"name": "Helvetica", "size": 10},
			}}}},
		},
	})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, api.Create(nil, bytes.NewReader(desc), &buf, newPDFConfiguration()))
	path := filepath.Join(t.TempDir(), "overlay.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	wm, err := api.PDFWatermark(path, overlayStamp, true, false, types.POINTS)
	require.NoError(t, err)
	assert.Equal(t, 1.0, wm.Scale)
	assert.True(t, wm.ScaleAbs)
	assert.Zero(t, wm.Rotation)
	assert.True(t, wm.OnTop)
}

func TestNameSet_SuffixesRepeats(t *testing.T) {
	s := newNameSet()

	name, collided := s.unique("output_a_b.pdf")
	assert.Equal(t, "output_a_b.pdf", name)
	assert.False(t, collided)

	name, collided = s.unique("output_a_b.pdf")
	assert.Equal(t, "output_a_b_2.pdf", name)
	assert.True(t, collided)

	name, _ = s.unique("output_a_b.pdf")
	assert.Equal(t, "output_a_b_3.pdf", name)

	name, collided = s.unique("output_c_d.pdf")
	assert.Equal(t, "output_c_d.pdf", name)
	assert.False(t, collided)
}

func TestNameSet_SkipsTakenSuffix(t *testing.T) {
	s := newNameSet()
	s.unique("output_a_b_2.pdf")
	s.unique("output_a_b.pdf")

	name, collided := s.unique("output_a_b.pdf")
	assert.True(t, collided)
	assert.Equal(t, "output_a_b_3.pdf", name)
}
