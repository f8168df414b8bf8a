package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/roster"
)

// Profile holds the layout knobs an operator may override with a YAML file.
// Fields missing from the file keep their defaults.
type Profile struct {
	Columns  roster.Columns     `yaml:"columns"`
	Layout   certificate.Layout `yaml:"layout"`
	Geometry struct {
		Template certificate.PageGeometry `yaml:"template"`
		Blank    certificate.PageGeometry `yaml:"blank"`
	} `yaml:"geometry"`
}

// DefaultProfile matches the printed refuge certificate.
func DefaultProfile() Profile {
	var p Profile
	p.Columns = roster.DefaultColumns()
	p.Layout = certificate.DefaultLayout()
	p.Geometry.Template = certificate.DefaultGeometry(certificate.ModeTemplateMerge)
	p.Geometry.Blank = certificate.DefaultGeometry(certificate.ModeStandalone)
	return p
}

// LoadProfile reads a YAML profile. An empty path returns DefaultProfile.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read layout profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse layout profile %s: %w", path, err)
	}
	for _, g := range []certificate.PageGeometry{p.Geometry.Template, p.Geometry.Blank} {
		if _, err := g.Dim(); err != nil {
			return p, fmt.Errorf("layout profile %s: %w", path, err)
		}
	}
	return p, nil
}
