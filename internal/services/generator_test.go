package services

import (
	"archive/zip"
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/certificate/certtest"
	"github.com/Lllllllleong/certificateflow/internal/models"
)

func newTestGenerator(t *testing.T) *GeneratorFunction {
	t.Helper()
	dir := t.TempDir()
	template := filepath.Join(dir, "template.pdf")
	certtest.WriteTemplate(t, template, "A4P", "A5P")

	gen, err := NewGeneratorWithConfig(context.Background(), GeneratorConfig{
		FontPath:       certtest.WriteFont(t, dir),
		FontName:       "Test-Regular",
		TemplatePath:   template,
		TargetPage:     1,
		RosterEncoding: "utf-8",
		ScratchDir:     t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { gen.Close() })
	return gen
}

var testRoster = certtest.Roster(
	[3]string{"新加坡", "Zhang San", "Hui Ming"},
	[3]string{"新加坡", "Li Si", ""},
	[3]string{"吉隆坡", "Wang Wu", "Jing Xin"},
	[3]string{"新加坡", "Chen Liu", "Miao Yin"},
)

func readZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		rc, err := zf.Open()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)
		out[zf.Name] = buf.Bytes()
	}
	return out
}

func TestGenerator_ProcessTemplateMerge(t *testing.T) {
	gen := newTestGenerator(t)

	res, data, err := gen.Process(context.Background(), &models.GenerateRequest{Location: "新加坡", Date: "2024-01-01"}, strings.NewReader(testRoster))
	require.NoError(t, err)

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "original", res.TemplateType)
	assert.Equal(t, "generated_pdfs.zip", res.ArchiveName)
	assert.Equal(t, "Generated 2 PDFs for 新加坡 using original template.", res.Message)

	files := readZip(t, data)
	require.Len(t, files, 2)
	conf := model.NewDefaultConfiguration()
	for _, name := range []string{"output_Zhang San_Hui Ming.pdf", "output_Chen Liu_Miao Yin.pdf"} {
		require.Contains(t, files, name)
		n, err := api.PageCount(bytes.NewReader(files[name]), conf)
		require.NoError(t, err)
		assert.Equal(t, 2, n, "template pages are preserved")
	}

	entries, err := filepath.Glob(filepath.Join(gen.config.ScratchDir, "*"))
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory is removed")
}

func TestGenerator_ProcessBlank(t *testing.T) {
	gen := newTestGenerator(t)

	res, data, err := gen.Process(context.Background(), &models.GenerateRequest{Location: "吉隆坡", Date: "2024-01-01", Blank: true}, strings.NewReader(testRoster))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Generated 1 PDFs for 吉隆坡 using blank (Landscape) template.", res.Message)

	files := readZip(t, data)
	require.Contains(t, files, "output_Wang Wu_Jing Xin.pdf")
	dims, err := api.PageDims(bytes.NewReader(files["output_Wang Wu_Jing Xin.pdf"]), model.NewDefaultConfiguration())
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.Greater(t, dims[0].Width, dims[0].Height)
}

func TestGenerator_ProcessRejectsData(t *testing.T) {
	gen := newTestGenerator(t)

	tests := []struct {
		name   string
		req    models.GenerateRequest
		roster string
	}{
		{"bad date", models.GenerateRequest{Location: "新加坡", Date: "01/01/2024"}, testRoster},
		{"unknown location", models.GenerateRequest{Location: "槟城", Date: "2024-01-01"}, testRoster},
		{"missing column", models.GenerateRequest{Location: "新加坡", Date: "2024-01-01"}, "a,b\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := gen.Process(context.Background(), &tt.req, strings.NewReader(tt.roster))
			assert.ErrorIs(t, err, certificate.ErrData)
		})
	}
}

func TestGenerator_ListLocations(t *testing.T) {
	gen := newTestGenerator(t)

	res, err := gen.ListLocations(context.Background(), strings.NewReader(testRoster))
	require.NoError(t, err)

	assert.Equal(t, "success", res.Status)
	assert.Equal(t, []models.LocationSummary{
		{Location: "新加坡", Total: 3, Qualifying: 2},
		{Location: "吉隆坡", Total: 1, Qualifying: 1},
	}, res.Locations)
}

func TestNewGenerator_BadFont(t *testing.T) {
	_, err := NewGeneratorWithConfig(context.Background(), GeneratorConfig{
		FontPath:     filepath.Join(t.TempDir(), "missing.ttf"),
		TemplatePath: "unused.pdf",
	})
	assert.ErrorIs(t, err, certificate.ErrResource)
}
