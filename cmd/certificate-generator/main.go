package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/Lllllllleong/certificateflow/internal/handlers"
	"github.com/Lllllllleong/certificateflow/internal/services"
)

var (
	generatorInstance *services.GeneratorFunction
	once              sync.Once
	initErr           error
)

func init() {
	// --- Set up structured logging ---
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	functions.HTTP("HandleGenerateCertificates", handleGenerateCertificates)
	functions.HTTP("HandleListLocations", handleListLocations)
}

// main is required by the Go Functions Framework.
func main() {}

func generator() (*services.GeneratorFunction, error) {
	once.Do(func() {
		generatorInstance, initErr = services.NewGenerator(context.Background())
	})
	return generatorInstance, initErr
}

// handleGenerateCertificates is the HTTP entry point that returns the zip archive.
func handleGenerateCertificates(w http.ResponseWriter, r *http.Request) {
	gen, err := generator()
	if err != nil {
		slog.Error("Critical: Generator initialization failed", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handlers.GenerateCertificates(gen)(w, r)
}

// handleListLocations is the HTTP entry point that lists roster locations.
func handleListLocations(w http.ResponseWriter, r *http.Request) {
	gen, err := generator()
	if err != nil {
		slog.Error("Critical: Generator initialization failed", "error", err)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}
	handlers.ListLocations(gen)(w, r)
}
