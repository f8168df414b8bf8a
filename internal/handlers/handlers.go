// Package handlers adapts the certificate generator to HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lllllllleong/certificateflow/internal/archive"
	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/models"
)

const maxUploadBytes = 32 << 20

// Generator is the part of services.GeneratorFunction the handlers use.
type Generator interface {
	Process(ctx context.Context, req *models.GenerateRequest, rosterCSV io.Reader) (*models.GenerateResponse, []byte, error)
	ListLocations(ctx context.Context, rosterCSV io.Reader) (*models.LocationsResponse, error)
}

// GenerateCertificates accepts a multipart form with a "roster" CSV file and
// "location", "date" and optional "blank" fields, and answers with the zip.
func GenerateCertificates(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		rosterFile, err := openRoster(w, r)
		if err != nil {
			slog.Warn("Could not read roster upload", "error", err)
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer rosterFile.Close()

		req := models.GenerateRequest{
			Location: strings.TrimSpace(r.FormValue("location")),
			Date:     strings.TrimSpace(r.FormValue("date")),
		}
		if v := strings.TrimSpace(r.FormValue("blank")); v != "" {
			req.Blank, err = strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "Bad Request: blank must be true or false", http.StatusBadRequest)
				return
			}
		}

		res, data, err := gen.Process(r.Context(), &req, rosterFile)
		if err != nil {
			// The specific error is already logged inside Process.
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", archive.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.ArchiveName))
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("X-Certificate-Count", strconv.Itoa(res.Count))
		w.Header().Set("X-Template-Type", res.TemplateType)
		if _, err := w.Write(data); err != nil {
			slog.Error("Failed to write archive", "error", err, "location", req.Location)
		}
	}
}

// ListLocations accepts a multipart "roster" CSV and answers with the
// locations found in it as JSON.
func ListLocations(gen Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		rosterFile, err := openRoster(w, r)
		if err != nil {
			slog.Warn("Could not read roster upload", "error", err)
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		defer rosterFile.Close()

		res, err := gen.ListLocations(r.Context(), rosterFile)
		if err != nil {
			slog.Warn("Failed to list locations", "error", err)
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			slog.Error("Failed to write response", "error", err)
			http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
		}
	}
}

func openRoster(w http.ResponseWriter, r *http.Request) (io.ReadCloser, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("could not parse multipart form: %w", err)
	}
	f, _, err := r.FormFile("roster")
	if err != nil {
		return nil, fmt.Errorf("missing roster file: %w", err)
	}
	return f, nil
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, certificate.ErrData) {
		http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
}
