package certificate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/Lllllllleong/certificateflow/internal/models"
)

// Options is the single configuration object for a generation run.
type Options struct {
	Mode Mode
	// Geometry of the overlay page. Zero selects DefaultGeometry(Mode).
	Geometry PageGeometry
	// TemplatePath and TargetPage are used by ModeTemplateMerge only.
	TemplatePath string
	TargetPage   int
	Font         Font
	Script       string
	// Layout zero value selects DefaultLayout.
	Layout Layout
}

func (o Options) withDefaults() Options {
	if o.Geometry.IsZero() {
		o.Geometry = DefaultGeometry(o.Mode)
	}
	if o.Layout == (Layout{}) {
		o.Layout = DefaultLayout()
	}
	return o
}

// Driver runs the per-row render and compose loop.
type Driver struct {
	renderer *Renderer
	composer *Composer
}

// NewDriver returns a Driver using renderer and composer.
func NewDriver(renderer *Renderer, composer *Composer) *Driver {
	return &Driver{renderer: renderer, composer: composer}
}

// Generate writes one certificate per row with a dharma name into outDir, in
// input order, and returns their paths. The first failure aborts the batch;
// files already written stay in outDir for the caller to remove.
func (d *Driver) Generate(ctx context.Context, rows []models.Registrant, date, outDir string, opts Options) ([]string, error) {
	opts = opts.withDefaults()
	logCtx := slog.With("mode", opts.Mode.String(), "geometry", opts.Geometry.String(), "rows", len(rows))

	if opts.Mode == ModeTemplateMerge {
		pageCount, err := TemplatePageCount(opts.TemplatePath)
		if err != nil {
			return nil, err
		}
		if opts.TargetPage < 0 || opts.TargetPage >= pageCount {
			return nil, fmt.Errorf("%w: target page %d out of range, template has %d pages", ErrTemplate, opts.TargetPage, pageCount)
		}
	}

	names := newNameSet()
	var files []string
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !row.HasDharmaName() {
			continue
		}

		req := opts.Layout.Request(row.ChineseName, row.DharmaName, date, opts.Font, opts.Geometry)
		req.Script = opts.Script
		overlay, err := d.renderer.Render(req)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		name, collided := names.unique(OutputName(row.ChineseName, row.DharmaName))
		if collided {
			logCtx.Warn("Duplicate registrant names, using suffixed file name.", "row", i+1, "fileName", name)
		}
		outPath := filepath.Join(outDir, name)

		switch opts.Mode {
		case ModeStandalone:
			err = d.composer.Standalone(overlay, outPath)
		default:
			err = d.composer.Merge(opts.TemplatePath, overlay, opts.TargetPage, outPath)
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		files = append(files, outPath)
	}

	logCtx.Info("Generated certificates.", "count", len(files))
	return files, nil
}
