package shazar

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

// epoch is the modification time stamped on every entry.
var epoch = time.Unix(0, 0)

// writeArchive streams the tree at root into w as a gzip-compressed tar whose
// entries all live under base. skip, when set, is left out of the archive so
// an output directory inside the source does not archive the archive.
// It returns the number of entries written.
func writeArchive(w io.Writer, root, base string, skip os.FileInfo) (entries int, err error) {
	gw := gzip.NewWriter(w)
	tw := tar.NewWriter(gw)

	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return archiveError(classify(err, IO), "read source", path, err)
		}
		if skip != nil && os.SameFile(info, skip) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return archiveError(IO, "read source", path, err)
		}
		name := base
		if rel != "." {
			name = filepath.Join(base, rel)
		}

		hdr, err := header(path, filepath.ToSlash(name), info)
		if err != nil {
			return err
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return archiveError(IO, "write archive", path, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if err := copyFile(tw, path); err != nil {
				return err
			}
		}
		entries++
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}

	if err := tw.Close(); err != nil {
		return 0, archiveError(IO, "write archive", root, err)
	}
	if err := gw.Close(); err != nil {
		return 0, archiveError(IO, "write archive", root, err)
	}
	return entries, nil
}

// header builds a tar header that depends only on the entry's name, type,
// permission bits, size and link target.
func header(path, name string, info os.FileInfo) (*tar.Header, error) {
	hdr := &tar.Header{
		Name:    name,
		Mode:    int64(info.Mode().Perm()),
		ModTime: epoch,
	}
	switch mode := info.Mode(); {
	case mode.IsRegular():
		hdr.Typeflag = tar.TypeReg
		hdr.Size = info.Size()
	case mode.IsDir():
		hdr.Typeflag = tar.TypeDir
		hdr.Name += "/"
	case mode&os.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return nil, archiveError(classify(err, IO), "read symlink", path, err)
		}
		hdr.Typeflag = tar.TypeSymlink
		hdr.Linkname = target
	default:
		return nil, archiveError(IO, "archive", path, errors.Errorf("unsupported file type %s", mode.Type()))
	}
	return hdr, nil
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return archiveError(classify(err, IO), "read source", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return archiveError(IO, "write archive", path, err)
	}
	return nil
}

func archiveError(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, State: Archiving, Op: op + " " + path, Path: path, Err: err}
}
