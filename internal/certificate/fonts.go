package certificate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/font"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/image/font/sfnt"
)

// DefaultFontName is the logical name certificates are drawn with.
const DefaultFontName = "Kaiti-Bold"

// Font is a TrueType font installed for the PDF layer.
type Font struct {
	LogicalName string
	// Name is the PostScript name pdfcpu resolves the font by.
	Name string
	Path string
}

var (
	pdfConfigOnce sync.Once
	pdfConfigErr  error
)

// ConfigurePDF points pdfcpu at its configuration directory, which also holds
// installed user fonts. An empty dir selects pdfcpu's default location. Only
// the first call has an effect.
func ConfigurePDF(dir string) error {
	pdfConfigOnce.Do(func() {
		if dir == "" {
			model.NewDefaultConfiguration()
			return
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			pdfConfigErr = fmt.Errorf("%w: failed to create pdf config dir: %v", ErrIO, err)
			return
		}
		if err := model.EnsureDefaultConfigAt(dir, false); err != nil {
			pdfConfigErr = fmt.Errorf("%w: failed to initialize pdf config at %s: %v", ErrResource, dir, err)
		}
	})
	return pdfConfigErr
}

func newPDFConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Registry is the process-wide font cache. Register a font once and pass the
// registry to every Renderer.
type Registry struct {
	mu    sync.Mutex
	fonts map[string]Font
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fonts: make(map[string]Font)}
}

// Register loads the TrueType font at path and makes it resolvable under
// logicalName. Registering the same path under the same name again is a no-op.
func (r *Registry) Register(path, logicalName string) (Font, error) {
	if logicalName == "" {
		logicalName = DefaultFontName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.fonts[logicalName]; ok {
		if f.Path == path {
			return f, nil
		}
		return Font{}, fmt.Errorf("%w: font %q already registered from %s", ErrResource, logicalName, f.Path)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != ".ttf" {
		return Font{}, fmt.Errorf("%w: font %s is not a .ttf file", ErrResource, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Font{}, fmt.Errorf("%w: failed to read font: %v", ErrResource, err)
	}
	name, err := postScriptName(data)
	if err != nil {
		return Font{}, fmt.Errorf("%w: font %s: %v", ErrResource, path, err)
	}

	if err := ConfigurePDF(""); err != nil {
		return Font{}, err
	}
	if !font.IsUserFont(name) {
		if err := api.InstallFonts([]string{path}); err != nil {
			return Font{}, fmt.Errorf("%w: failed to install font %s: %v", ErrResource, path, err)
		}
		if !font.IsUserFont(name) {
			return Font{}, fmt.Errorf("%w: font %s did not install as %q", ErrResource, path, name)
		}
		slog.Info("Installed font.", "logicalName", logicalName, "postScriptName", name, "path", path)
	}

	f := Font{LogicalName: logicalName, Name: name, Path: path}
	r.fonts[logicalName] = f
	return f, nil
}

// Lookup returns a registered font.
func (r *Registry) Lookup(logicalName string) (Font, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fonts[logicalName]
	return f, ok
}

func postScriptName(data []byte) (string, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse font: %w", err)
	}
	name, err := f.Name(nil, sfnt.NameIDPostScript)
	if err != nil {
		return "", fmt.Errorf("read postscript name: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("font has no postscript name")
	}
	return name, nil
}
