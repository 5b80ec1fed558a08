package shazar

import (
	"archive/zip"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ZipExtension is the suffix of zip bundles, accepted for upload alongside Extension.
const ZipExtension = ".zip"

// ZipRoot returns the single top-level entry shared by every entry of the zip archive at path.
func ZipRoot(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", errors.Wrapf(err, "%s is not a valid zip archive", path)
	}
	defer zr.Close()

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return commonRoot(path, names)
}

// ArchiveRoot validates a bundle by its extension: zip for ".zip", gzip tar otherwise.
func ArchiveRoot(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ZipExtension) {
		return ZipRoot(path)
	}
	return Root(path)
}
