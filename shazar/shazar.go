// Package shazar packages a directory (or a single file) into a
// content-addressed, gzip-compressed tar archive.
//
// The archive is streamed to a hidden temporary file inside the output
// directory, hashed with SHA-256 once it is fully flushed, and then renamed
// to "<basename>-<hexdigest>.tgz". A failure at any point removes the
// temporary file, so the output directory either gains the finished archive
// or nothing at all.
//
// Archives are byte-identical for identical trees: entries are written in
// lexical order with a fixed modification time and zeroed ownership, so the
// file name can be used to deduplicate and verify uploads.
package shazar

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/conduct/common/stats"
	"github.com/twitter/conduct/os/temp"
)

// ChunkSize is the default read size used when hashing an archive.
const ChunkSize = 64 * 1024

// Result describes a produced archive.
type Result struct {
	Path    string // Path of the archive in the output directory
	Name    string // File name, "<basename>-<digest>.tgz"
	Digest  string // Lowercase hex SHA-256 of the archive bytes
	Size    int64  // Archive size in bytes
	Entries int    // Number of tar entries written
}

// Option configures a Packager.
type Option func(*Packager)

// WithStats records phase latencies and archive sizes on stat.
func WithStats(stat stats.StatsReceiver) Option {
	return func(p *Packager) {
		p.stat = stat
	}
}

// WithChunkSize overrides the read size used when hashing.
func WithChunkSize(n int) Option {
	return func(p *Packager) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// Packager runs one packaging operation and reports its progress through State.
type Packager struct {
	state     State
	stat      stats.StatsReceiver
	chunkSize int
}

// NewPackager returns an Idle Packager.
func NewPackager(opts ...Option) *Packager {
	p := &Packager{
		state:     Idle,
		stat:      stats.NilStatsReceiver(),
		chunkSize: ChunkSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Package archives source into outputDir with a fresh Packager.
func Package(source, outputDir string, opts ...Option) (*Result, error) {
	return NewPackager(opts...).Package(source, outputDir)
}

// State reports where the packager is in Idle → Archiving → Hashing → Renaming → Done.
func (p *Packager) State() State {
	return p.state
}

// Package archives source into outputDir. A Packager runs at most once.
func (p *Packager) Package(source, outputDir string) (result *Result, err error) {
	if p.state != Idle {
		return nil, errors.Errorf("shazar: packager already %s", p.state)
	}
	defer func() {
		if err != nil {
			p.state = Failed
			p.stat.Counter(stats.PackagerFailureCounter).Inc(1)
			log.WithFields(log.Fields{"source": source, "outputDir": outputDir}).Debugf("Packaging failed: %v", err)
		}
	}()

	root, base, err := resolveSource(source)
	if err != nil {
		return nil, err
	}
	if err := checkOutputDir(outputDir); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"source": root, "base": base, "outputDir": outputDir}).Info("Packaging bundle")

	p.state = Archiving
	archiveLatency := p.stat.Latency(stats.PackagerArchiveLatency_ms).Time()
	tmp, err := (&temp.TempDir{Dir: outputDir}).TempFile("." + base + "-*.tgz.tmp")
	if err != nil {
		return nil, p.fail(classify(err, IO), "create temporary archive", outputDir, err)
	}
	defer tmp.Discard()

	tmpInfo, err := tmp.Stat()
	if err != nil {
		return nil, p.fail(IO, "stat temporary archive", tmp.Name(), err)
	}
	entries, err := writeArchive(tmp, root, base, tmpInfo)
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0644); err != nil {
		return nil, p.fail(IO, "set archive permissions", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, p.fail(IO, "flush archive", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return nil, p.fail(IO, "close archive", tmp.Name(), err)
	}
	archiveLatency.Stop()
	p.stat.Gauge(stats.PackagerEntriesGauge).Update(int64(entries))

	p.state = Hashing
	hashLatency := p.stat.Latency(stats.PackagerHashLatency_ms).Time()
	digest, size, err := digestFile(tmp.Name(), p.chunkSize)
	if err != nil {
		return nil, p.fail(IO, "hash archive", tmp.Name(), err)
	}
	hashLatency.Stop()
	p.stat.Gauge(stats.PackagerArchiveBytesGauge).Update(size)

	p.state = Renaming
	renameLatency := p.stat.Latency(stats.PackagerRenameLatency_ms).Time()
	name := FileName(base, digest)
	dest := filepath.Join(outputDir, name)
	if err := tmp.Keep(dest); err != nil {
		return nil, p.fail(classify(err, IO), "rename archive", dest, err)
	}
	renameLatency.Stop()

	p.state = Done
	log.WithFields(log.Fields{"archive": dest, "entries": entries, "size": size}).Info("Packaged bundle")
	return &Result{
		Path:    dest,
		Name:    name,
		Digest:  digest,
		Size:    size,
		Entries: entries,
	}, nil
}

func (p *Packager) fail(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, State: p.state, Op: op, Path: path, Err: err}
}

// resolveSource returns the tree to walk and the archive's root entry name.
// Trailing separators are dropped so "src/" and "src" name the same root.
func resolveSource(source string) (root, base string, err error) {
	cleaned := filepath.Clean(source)
	info, err := os.Lstat(cleaned)
	if err != nil {
		return "", "", &Error{Kind: classify(err, NotFound), State: Idle, Op: "stat source", Path: source, Err: err}
	}
	base = filepath.Base(cleaned)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		abs, err := filepath.Abs(cleaned)
		if err != nil {
			return "", "", &Error{Kind: IO, State: Idle, Op: "resolve source", Path: source, Err: err}
		}
		base = filepath.Base(abs)
	}
	if base == string(filepath.Separator) || base == "." {
		return "", "", &Error{Kind: IO, State: Idle, Op: "resolve source", Path: source, Err: errors.New("cannot name an archive after the filesystem root")}
	}

	root = cleaned
	if info.Mode()&os.ModeSymlink != 0 {
		if root, err = filepath.EvalSymlinks(cleaned); err != nil {
			return "", "", &Error{Kind: classify(err, NotFound), State: Idle, Op: "resolve source", Path: source, Err: err}
		}
	}
	return root, base, nil
}

// checkOutputDir requires an existing, writable directory.
func checkOutputDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return &Error{Kind: classify(err, NotFound), State: Idle, Op: "stat output directory", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return &Error{Kind: IO, State: Idle, Op: "check output directory", Path: dir, Err: errors.Errorf("%s is not a directory", dir)}
	}
	if err := writable(dir); err != nil {
		return &Error{Kind: classify(err, PermissionDenied), State: Idle, Op: "check output directory", Path: dir, Err: err}
	}
	return nil
}
