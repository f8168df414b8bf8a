// Package certtest provides fonts, templates and rosters for tests.
package certtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/roster"
)

// Main points pdfcpu at a throwaway config directory for the whole test
// binary, runs the tests and exits.
func Main(m *testing.M) {
	dir, err := os.MkdirTemp("", "certtest-pdfcpu-*")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := certificate.ConfigurePDF(dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.RemoveAll(dir)
		os.Exit(1)
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// WriteFont writes the Go Regular TrueType font into dir.
func WriteFont(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "goregular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}
	return path
}

// WriteTemplate writes a PDF with one page per paper spec, e.g. "A4P",
// "A5P", "LetterP". Each page carries a line of text naming it.
func WriteTemplate(t testing.TB, path string, papers ...string) {
	t.Helper()
	dir := t.TempDir()
	conf := model.NewDefaultConfiguration()

	var pages []string
	for i, paper := range papers {
		desc := map[string]any{
			"paper":  paper,
			"origin": "LowerLeft",
			"pages": map[string]any{
				"1": map[string]any{
					"content": map[string]any{
						"text": []map[string]any{{
							"value": fmt.Sprintf("Template page %d", i+1),
							"pos":   []float64{30, 30},
							"font":  map[string]any{"name": "Helvetica", "size": 10},
						}},
					},
				},
			},
		}
		js, err := json.Marshal(desc)
		if err != nil {
			t.Fatalf("marshal page %d: %v", i+1, err)
		}
		var buf bytes.Buffer
		if err := api.Create(nil, bytes.NewReader(js), &buf, conf); err != nil {
			t.Fatalf("create page %d: %v", i+1, err)
		}
		page := filepath.Join(dir, fmt.Sprintf("page%d.pdf", i+1))
		if err := os.WriteFile(page, buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write page %d: %v", i+1, err)
		}
		pages = append(pages, page)
	}

	if len(pages) == 1 {
		data, err := os.ReadFile(pages[0])
		if err != nil {
			t.Fatalf("read page: %v", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write template: %v", err)
		}
		return
	}
	if err := api.MergeCreateFile(pages, path, false, conf); err != nil {
		t.Fatalf("merge template: %v", err)
	}
}

// Roster builds a CSV roster with the default column headers. Each row is
// location, Chinese name, dharma name.
func Roster(rows ...[3]string) string {
	cols := roster.DefaultColumns()
	var b strings.Builder
	fmt.Fprintf(&b, "时间戳记,%s,%s,%s\n", cols.Location, cols.ChineseName, cols.DharmaName)
	for i, r := range rows {
		fmt.Fprintf(&b, "2024/01/%02d,%s,%s,%s\n", i+1, r[0], r[1], r[2])
	}
	return b.String()
}
