// Package archive bundles generated certificates into a single zip.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
)

// DefaultName is the file name the archive is offered under.
const DefaultName = "generated_pdfs.zip"

// ContentType is the MIME type of the archive.
const ContentType = "application/zip"

// Archive zips files under their base names into archivePath, deleting each
// source once it is in the archive, then returns the archive bytes and deletes
// archivePath. A failure part way through leaves earlier sources deleted.
func Archive(files []string, archivePath string) ([]byte, error) {
	if err := writeArchive(files, archivePath); err != nil {
		os.Remove(archivePath)
		return nil, err
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read archive: %v", certificate.ErrIO, err)
	}
	if err := os.Remove(archivePath); err != nil {
		return nil, fmt.Errorf("%w: failed to remove archive: %v", certificate.ErrIO, err)
	}
	return data, nil
}

func writeArchive(files []string, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("%w: failed to create archive: %v", certificate.ErrIO, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, file := range files {
		if err := addFile(zw, file); err != nil {
			_ = zw.Close()
			return err
		}
		if err := os.Remove(file); err != nil {
			_ = zw.Close()
			return fmt.Errorf("%w: failed to remove %s: %v", certificate.ErrIO, file, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: failed to finalize archive: %v", certificate.ErrIO, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: failed to close archive: %v", certificate.ErrIO, err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open %s: %v", certificate.ErrIO, path, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("%w: failed to stat %s: %v", certificate.ErrIO, path, err)
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("%w: failed to build zip header for %s: %v", certificate.ErrIO, path, err)
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: failed to add %s: %v", certificate.ErrIO, path, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("%w: failed to copy %s into archive: %v", certificate.ErrIO, path, err)
	}
	return nil
}
