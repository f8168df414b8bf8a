package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/certificateflow/internal/archive"
	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/gcp"
	"github.com/Lllllllleong/certificateflow/internal/models"
	"github.com/Lllllllleong/certificateflow/internal/roster"
)

// GeneratorFunction holds the dependencies for certificate generation.
type GeneratorFunction struct {
	config  GeneratorConfig
	profile Profile
	fonts   *certificate.Registry
	font    certificate.Font
	driver  *certificate.Driver
	// templatePath is local even when config.TemplatePath is a gs:// URI.
	templatePath string
	resourceDir  string
}

// NewGenerator creates a GeneratorFunction configured from the environment.
func NewGenerator(ctx context.Context) (*GeneratorFunction, error) {
	config, err := LoadGeneratorConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewGeneratorWithConfig(ctx, *config)
}

// NewGeneratorWithConfig creates a GeneratorFunction. Remote template and font
// files are fetched once here and the font is registered for the process.
func NewGeneratorWithConfig(ctx context.Context, config GeneratorConfig) (*GeneratorFunction, error) {
	profile, err := LoadProfile(config.ProfilePath)
	if err != nil {
		return nil, err
	}
	if err := certificate.ConfigurePDF(config.PDFConfigDir); err != nil {
		return nil, err
	}

	f := &GeneratorFunction{
		config:       config,
		profile:      profile,
		fonts:        certificate.NewRegistry(),
		templatePath: config.TemplatePath,
	}

	fontPath := config.FontPath
	if gcp.IsURI(config.FontPath) || gcp.IsURI(config.TemplatePath) {
		fontPath, err = f.fetchResources(ctx)
		if err != nil {
			f.Close()
			return nil, err
		}
	}

	font, err := f.fonts.Register(fontPath, config.FontName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to register font: %w", err)
	}
	f.font = font
	f.driver = certificate.NewDriver(certificate.NewRenderer(f.fonts), certificate.NewComposer())

	slog.Info("Certificate generator initialized.", "font", font.Name, "template", config.TemplatePath, "targetPage", config.TargetPage)
	return f, nil
}

// fetchResources downloads the gs:// font and template into a private
// directory and returns the local font path.
func (f *GeneratorFunction) fetchResources(ctx context.Context) (string, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create storage client: %w", err)
	}
	defer client.Close()

	dir, err := os.MkdirTemp("", "certificate-resources-*")
	if err != nil {
		return "", fmt.Errorf("%w: failed to create resource dir: %v", certificate.ErrIO, err)
	}
	f.resourceDir = dir

	fontPath := f.config.FontPath
	eg, gctx := errgroup.WithContext(ctx)
	if bucket, object, ok := gcp.ParseURI(f.config.FontPath); ok {
		fontPath = filepath.Join(dir, filepath.Base(object))
		eg.Go(func() error {
			if err := gcp.DownloadObject(gctx, client, bucket, object, fontPath); err != nil {
				return fmt.Errorf("%w: font: %v", certificate.ErrResource, err)
			}
			return nil
		})
	}
	if bucket, object, ok := gcp.ParseURI(f.config.TemplatePath); ok {
		templatePath := filepath.Join(dir, "template.pdf")
		f.templatePath = templatePath
		eg.Go(func() error {
			if err := gcp.DownloadObject(gctx, client, bucket, object, templatePath); err != nil {
				return fmt.Errorf("%w: %v", certificate.ErrTemplate, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return "", err
	}
	return fontPath, nil
}

// Close removes fetched resources.
func (f *GeneratorFunction) Close() error {
	if f.resourceDir == "" {
		return nil
	}
	return os.RemoveAll(f.resourceDir)
}

func (f *GeneratorFunction) options(blank bool) certificate.Options {
	opts := certificate.Options{
		Mode:         certificate.ModeTemplateMerge,
		Geometry:     f.profile.Geometry.Template,
		TemplatePath: f.templatePath,
		TargetPage:   f.config.TargetPage,
		Font:         f.font,
		Script:       f.config.FontScript,
		Layout:       f.profile.Layout,
	}
	if blank {
		opts.Mode = certificate.ModeStandalone
		opts.Geometry = f.profile.Geometry.Blank
	}
	return opts
}

// Process generates the certificates for one location and returns the run
// summary together with the zip archive bytes.
func (f *GeneratorFunction) Process(ctx context.Context, req *models.GenerateRequest, rosterCSV io.Reader) (*models.GenerateResponse, []byte, error) {
	runID := uuid.NewString()
	logCtx := slog.With("runId", runID, "location", req.Location, "blank", req.Blank)
	logCtx.Info("Starting generation.")

	date, err := certificate.FormatDate(req.Date)
	if err != nil {
		logCtx.Warn("Rejected request date.", "error", err)
		return nil, nil, err
	}

	rows, err := roster.Read(rosterCSV, f.profile.Columns, f.config.RosterEncoding)
	if err != nil {
		logCtx.Warn("Failed to read roster.", "error", err)
		return nil, nil, err
	}
	selected := roster.Filter(rows, req.Location)
	if len(selected) == 0 {
		err := fmt.Errorf("%w: no registrants with a dharma name for location %q", certificate.ErrData, req.Location)
		logCtx.Warn("Nothing to generate.", "rosterRows", len(rows))
		return nil, nil, err
	}
	logCtx.Info("Loaded valid entries.", "rosterRows", len(rows), "entries", len(selected))

	tempDir, err := os.MkdirTemp(f.config.ScratchDir, "certificates-"+runID+"-*")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: failed to create temp dir: %v", certificate.ErrIO, err)
	}
	defer os.RemoveAll(tempDir)

	opts := f.options(req.Blank)
	files, err := f.driver.Generate(ctx, selected, date, tempDir, opts)
	if err != nil {
		logCtx.Error("Failed to generate certificates", "error", err)
		return nil, nil, err
	}

	data, err := archive.Archive(files, filepath.Join(tempDir, archive.DefaultName))
	if err != nil {
		logCtx.Error("Failed to archive certificates", "error", err)
		return nil, nil, err
	}

	res := &models.GenerateResponse{
		Status:       "success",
		Location:     req.Location,
		Count:        len(files),
		TemplateType: opts.Mode.TemplateType(),
		ArchiveName:  archive.DefaultName,
	}
	res.Message = fmt.Sprintf("Generated %d PDFs for %s using %s template.", res.Count, res.Location, res.TemplateType)
	logCtx.Info("Generation complete.", "count", res.Count, "archiveBytes", len(data))
	return res, data, nil
}

// ListLocations summarizes the locations present in a roster.
func (f *GeneratorFunction) ListLocations(ctx context.Context, rosterCSV io.Reader) (*models.LocationsResponse, error) {
	rows, err := roster.Read(rosterCSV, f.profile.Columns, f.config.RosterEncoding)
	if err != nil {
		return nil, err
	}
	return &models.LocationsResponse{
		Status:    "success",
		Locations: roster.Locations(rows),
	}, nil
}
