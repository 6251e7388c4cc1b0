package download

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/openra/ra-launcher/internal/model"
	"github.com/openra/ra-launcher/internal/platform"
)

// ExtractDownload unpacks the completed zip archive for key into targetDir.
// Archive members that would land outside targetDir are rejected.
func (r *Registry) ExtractDownload(key, targetDir string) error {
	entry, ok := r.LookupDownload(key)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotRegistered, key)
	}
	if entry.Status != model.DownloadStatusCompleted {
		return fmt.Errorf("%w: %s is %s", ErrNotCompleted, key, entry.Status)
	}

	if err := Unzip(entry.DestinationPath, targetDir); err != nil {
		return err
	}
	r.logger.Info("Download extracted", "key", key, "target", targetDir)
	return nil
}

// Unzip extracts archivePath into targetDir
func Unzip(archivePath, targetDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	root, err := filepath.Abs(targetDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := platform.CreateDirectoryIfNotExists(root); err != nil {
		return fmt.Errorf("failed to create target directory: %w", err)
	}

	for _, f := range zr.File {
		target := filepath.Join(root, filepath.FromSlash(f.Name))
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes target: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, platform.DefaultDirPermissions); err != nil {
				return err
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), platform.DefaultDirPermissions); err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode().Perm()|0600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
