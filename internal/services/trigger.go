package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/Lllllllleong/certificateflow/internal/archive"
	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/gcp"
	"github.com/Lllllllleong/certificateflow/internal/models"
)

// TriggerFunction generates certificates when a roster CSV lands in a bucket.
// The object's metadata carries the request: location, date and optional blank.
type TriggerFunction struct {
	storageClient *storage.Client
	generator     *GeneratorFunction
	config        TriggerConfig
}

// NewTrigger creates a new TriggerFunction instance.
func NewTrigger(ctx context.Context) (*TriggerFunction, error) {
	config, err := loadTriggerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	generator, err := NewGenerator(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	storageClient, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	slog.Info("Certificate trigger initialized.", "outputBucket", config.OutputBucket)
	return &TriggerFunction{
		storageClient: storageClient,
		generator:     generator,
		config:        *config,
	}, nil
}

// Process handles one object finalize event.
func (f *TriggerFunction) Process(ctx context.Context, e models.GCSEvent) error {
	logCtx := slog.With("gcsBucket", e.Bucket, "gcsObject", e.Name, "generation", e.Generation)
	if !strings.EqualFold(path.Ext(e.Name), ".csv") {
		logCtx.Info("Not a roster CSV, skipping.")
		return nil
	}

	req, err := requestFromMetadata(e.Metadata)
	if err != nil {
		// Retrying cannot fix missing metadata, so the event is acknowledged.
		logCtx.Error("Roster object is missing generation metadata", "error", err)
		return nil
	}
	logCtx = logCtx.With("location", req.Location, "date", req.Date)

	reader, err := f.storageClient.Bucket(e.Bucket).Object(e.Name).NewReader(ctx)
	if err != nil {
		logCtx.Error("Failed to open roster object", "error", err)
		return fmt.Errorf("failed to get GCS object reader for gs://%s/%s: %w", e.Bucket, e.Name, err)
	}
	defer reader.Close()

	res, data, err := f.generator.Process(ctx, req, reader)
	if errors.Is(err, certificate.ErrData) {
		logCtx.Error("Roster rejected", "error", err)
		return nil
	}
	if err != nil {
		return err
	}

	generation := e.Generation
	if generation == "" {
		generation = uuid.NewString()
	}
	objectName := archiveObjectName(e.Name, generation, req)
	bucket := f.storageClient.Bucket(f.config.OutputBucket)
	if err := gcp.SaveToGCSAtomically(ctx, bucket, objectName, archive.ContentType, bytes.NewReader(data)); err != nil {
		logCtx.Error("Failed to save archive to GCS", "error", err, "object", objectName)
		return err
	}

	res.ArchiveURI = fmt.Sprintf("gs://%s/%s", f.config.OutputBucket, objectName)
	logCtx.Info(res.Message, "archiveUri", res.ArchiveURI, "count", res.Count)
	return nil
}

func requestFromMetadata(md map[string]string) (*models.GenerateRequest, error) {
	req := &models.GenerateRequest{
		Location: strings.TrimSpace(md["location"]),
		Date:     strings.TrimSpace(md["date"]),
	}
	if req.Location == "" || req.Date == "" {
		return nil, fmt.Errorf("%w: metadata keys location and date are required", certificate.ErrData)
	}
	if v := strings.TrimSpace(md["blank"]); v != "" {
		blank, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata blank=%q is not a boolean", certificate.ErrData, v)
		}
		req.Blank = blank
	}
	return req, nil
}

// archiveObjectName places the archive beside the roster's stem, e.g.
// uploads/roster.csv -> uploads/roster/<location>_<date>_<generation>.zip.
// Each upload of the roster gets its own archive; a redelivered event maps to
// the archive it already produced.
func archiveObjectName(rosterObject, generation string, req *models.GenerateRequest) string {
	stem := strings.TrimSuffix(rosterObject, path.Ext(rosterObject))
	location := strings.NewReplacer("/", "_", "\\", "_").Replace(req.Location)
	name := fmt.Sprintf("%s_%s", location, req.Date)
	if req.Blank {
		name += "_blank"
	}
	return path.Join(stem, name+"_"+generation+".zip")
}
