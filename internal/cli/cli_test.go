package cli

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/certificateflow/internal/certificate/certtest"
)

func TestMain(m *testing.M) {
	certtest.Main(m)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRoster(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.csv")
	body := certtest.Roster(
		[3]string{"新加坡", "Zhang San", "Hui Ming"},
		[3]string{"吉隆坡", "Li Si", ""},
		[3]string{"新加坡", "Wang Wu", "Jing Xin"},
	)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLocationsCommand(t *testing.T) {
	rosterPath := writeRoster(t, t.TempDir())

	out, err := execute(t, "locations", "--roster", rosterPath)
	require.NoError(t, err)

	assert.Equal(t, "  新加坡\n"+
		"    Registrants: 2, with dharma name: 2\n"+
		"  吉隆坡\n"+
		"    Registrants: 1, with dharma name: 0\n"+
		"Total: 2 locations\n", out)
}

func TestLocationsCommand_MissingRoster(t *testing.T) {
	_, err := execute(t, "locations", "--roster", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "template.pdf")
	certtest.WriteTemplate(t, template, "A5P")
	outPath := filepath.Join(dir, "out.zip")

	out, err := execute(t, "generate",
		"--roster", writeRoster(t, dir),
		"--location", "新加坡",
		"--date", "2024-01-01",
		"--font", certtest.WriteFont(t, dir),
		"--font-name", "Test-Regular",
		"--font-script=",
		"--template", template,
		"--target-page", "0",
		"--out", outPath,
	)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 2 PDFs for 新加坡 using original template.")
	assert.Contains(t, out, "Archive: "+outPath)

	zr, err := zip.OpenReader(outPath)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"output_Zhang San_Hui Ming.pdf", "output_Wang Wu_Jing Xin.pdf"}, names)
}
