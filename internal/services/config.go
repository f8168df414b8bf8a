package services

import (
	"fmt"
	"strconv"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/gcp"
)

// GeneratorConfig holds all configuration for the certificate generator.
// FontPath and TemplatePath may be local paths or gs:// URIs.
type GeneratorConfig struct {
	FontPath       string
	FontName       string
	FontScript     string
	TemplatePath   string
	TargetPage     int
	ProfilePath    string
	RosterEncoding string
	PDFConfigDir   string
	ScratchDir     string
}

// LoadGeneratorConfig loads and validates the generator's environment variables.
func LoadGeneratorConfig() (*GeneratorConfig, error) {
	targetPage, err := strconv.Atoi(gcp.GetEnv("TARGET_PAGE", "0"))
	if err != nil || targetPage < 0 {
		return nil, fmt.Errorf("TARGET_PAGE must be a non-negative integer")
	}

	config := &GeneratorConfig{
		FontPath:       gcp.GetEnv("FONT_PATH", "font/Kaiti-SC-Bold.ttf"),
		FontName:       gcp.GetEnv("FONT_NAME", certificate.DefaultFontName),
		FontScript:     gcp.GetEnv("FONT_SCRIPT", "SC"),
		TemplatePath:   gcp.GetEnv("TEMPLATE_PATH", "内页2_resized.pdf"),
		TargetPage:     targetPage,
		ProfilePath:    gcp.GetEnv("LAYOUT_PROFILE", ""),
		RosterEncoding: gcp.GetEnv("ROSTER_ENCODING", "utf-8"),
		PDFConfigDir:   gcp.GetEnv("PDFCPU_CONFIG_DIR", ""),
		ScratchDir:     gcp.GetEnv("SCRATCH_DIR", ""),
	}
	if config.FontPath == "" {
		return nil, fmt.Errorf("FONT_PATH environment variable must be set")
	}
	return config, nil
}

// TriggerConfig holds configuration for the bucket trigger.
type TriggerConfig struct {
	OutputBucket string
}

func loadTriggerConfig() (*TriggerConfig, error) {
	outputBucket := gcp.GetEnv("OUTPUT_BUCKET", "")
	if outputBucket == "" {
		return nil, fmt.Errorf("OUTPUT_BUCKET environment variable must be set")
	}
	return &TriggerConfig{OutputBucket: outputBucket}, nil
}
