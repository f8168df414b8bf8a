package certificate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// overlayStamp places the overlay page 1:1 over the lower-left corner of the
// target page, on top of the existing content.
const overlayStamp = "pos:bl, off:0 0, scalefactor:1 abs, rot:0"

// Composer turns rendered overlay pages into output documents.
type Composer struct{}

// NewComposer returns a Composer.
func NewComposer() *Composer {
	return &Composer{}
}

// TemplatePageCount validates the template and returns its page count.
func TemplatePageCount(templatePath string) (int, error) {
	if _, err := os.Stat(templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: template %s does not exist", ErrTemplate, templatePath)
		}
		return 0, fmt.Errorf("%w: failed to stat template: %v", ErrTemplate, err)
	}
	n, err := api.PageCountFile(templatePath)
	if err != nil {
		return 0, fmt.Errorf("%w: template %s is not a valid PDF: %v", ErrTemplate, templatePath, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: template %s has no pages", ErrTemplate, templatePath)
	}
	return n, nil
}

// MergedPageOrder lists the 1-based output page order for a merge: the target
// page first, then every other page in its original order.
func MergedPageOrder(pageCount, targetIndex int) []string {
	order := make([]string, 0, pageCount)
	order = append(order, strconv.Itoa(targetIndex+1))
	for i := 0; i < pageCount; i++ {
		if i != targetIndex {
			order = append(order, strconv.Itoa(i+1))
		}
	}
	return order
}

// Merge stamps overlay onto the page at targetIndex (zero-based) of the
// template and writes the result to outPath. The stamped page is always
// emitted first.
func (c *Composer) Merge(templatePath string, overlay []byte, targetIndex int, outPath string) error {
	pageCount, err := TemplatePageCount(templatePath)
	if err != nil {
		return err
	}
	if targetIndex < 0 || targetIndex >= pageCount {
		return fmt.Errorf("%w: target page %d out of range, template has %d pages", ErrTemplate, targetIndex, pageCount)
	}

	dir := filepath.Dir(outPath)
	overlayPath, err := writeTemp(dir, "overlay-*.pdf", overlay)
	if err != nil {
		return err
	}
	defer os.Remove(overlayPath)

	stamped, err := os.CreateTemp(dir, "stamped-*.pdf")
	if err != nil {
		return fmt.Errorf("%w: failed to create stamped file: %v", ErrIO, err)
	}
	stampedPath := stamped.Name()
	stamped.Close()
	defer os.Remove(stampedPath)

	wm, err := api.PDFWatermark(overlayPath, overlayStamp, true, false, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to prepare overlay stamp: %w", err)
	}
	conf := newPDFConfiguration()
	selected := []string{strconv.Itoa(targetIndex + 1)}
	if err := api.AddWatermarksFile(templatePath, stampedPath, selected, wm, conf); err != nil {
		return fmt.Errorf("failed to stamp template page %d: %w", targetIndex, err)
	}

	if err := api.CollectFile(stampedPath, outPath, MergedPageOrder(pageCount, targetIndex), conf); err != nil {
		return fmt.Errorf("failed to reorder pages: %w", err)
	}
	return nil
}

// Standalone writes the overlay page as the entire output document.
func (c *Composer) Standalone(overlay []byte, outPath string) error {
	if err := os.WriteFile(outPath, overlay, 0o644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrIO, outPath, err)
	}
	return nil
}

func writeTemp(dir, pattern string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create temp file: %v", ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: failed to write temp file: %v", ErrIO, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: failed to close temp file: %v", ErrIO, err)
	}
	return f.Name(), nil
}
