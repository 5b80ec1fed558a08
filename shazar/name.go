package shazar

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Extension is the suffix of every produced archive.
const Extension = ".tgz"

// ErrDigestMismatch indicates an archive's bytes do not hash to the digest in its name.
var ErrDigestMismatch = errors.New("digest mismatch")

// ErrNotContentAddressed indicates a file name without a "-<sha256>.tgz" suffix.
var ErrNotContentAddressed = errors.New("file name does not carry a sha256 digest")

var nameRegex = regexp.MustCompile(`^(.+)-([0-9a-f]{64})\.tgz$`)

// MismatchError reports the digest found in a file name and the one computed from its bytes.
// It wraps ErrDigestMismatch so callers can use errors.Is.
type MismatchError struct {
	Path     string
	Expected string
	Got      string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: digest in name is %s but contents hash to %s", e.Path, e.Expected, e.Got)
}

func (e *MismatchError) Unwrap() error { return ErrDigestMismatch }

// FileName is the content-addressed name of an archive of base with the given digest.
func FileName(base, digest string) string {
	return base + "-" + digest + Extension
}

// ParseName splits a content-addressed archive name into its basename and digest.
func ParseName(file string) (base, digest string, ok bool) {
	m := nameRegex.FindStringSubmatch(filepath.Base(file))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Verify checks that the archive at path hashes to the digest carried in its name.
func Verify(path string) error {
	_, expected, ok := ParseName(path)
	if !ok {
		return errors.Wrap(ErrNotContentAddressed, path)
	}
	got, _, err := digestFile(path, ChunkSize)
	if err != nil {
		return &Error{Kind: classify(err, NotFound), State: Hashing, Op: "hash archive", Path: path, Err: err}
	}
	if got != expected {
		return &MismatchError{Path: path, Expected: expected, Got: got}
	}
	return nil
}

// Entries lists the entry names of the gzip-compressed tar archive at path, in archive order.
func Entries(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not gzip compressed", path)
	}
	defer gr.Close()

	var names []string
	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s is not a valid tar archive", path)
		}
		names = append(names, hdr.Name)
	}
}

// Root returns the single top-level entry shared by every entry of the archive at path.
func Root(path string) (string, error) {
	names, err := Entries(path)
	if err != nil {
		return "", err
	}
	return commonRoot(path, names)
}

func commonRoot(path string, names []string) (string, error) {
	if len(names) == 0 {
		return "", errors.Errorf("%s is an empty archive", path)
	}
	root := topLevel(names[0])
	for _, n := range names[1:] {
		if topLevel(n) != root {
			return "", errors.Errorf("%s has more than one top-level entry: %s and %s", path, root, topLevel(n))
		}
	}
	return root, nil
}

func topLevel(name string) string {
	name = strings.TrimPrefix(name, "./")
	if i := strings.Index(name, "/"); i >= 0 {
		return name[:i]
	}
	return name
}
