// Package workspace keeps the parsed AsciiDoc files below a root directory
// up to date and serves them to editors over the Language Server Protocol.
package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/mangata/asciidoc"
)

var log = commonlog.GetLogger("mangata.workspace")

// Extensions lists the file extensions treated as AsciiDoc sources.
var Extensions = []string{".adoc", ".asciidoc", ".asc"}

func IsSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

type Workspace struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*File
	opts    []asciidoc.Option
}

// File is the parse result for one source file. Doc is nil when the parse
// failed with ParseErr.
type File struct {
	Path       string
	Content    []byte
	Lines      []*asciidoc.Line
	Doc        *asciidoc.Document
	ParseErr   error
	Violations []error
}

// New returns an empty workspace rooted at rootDir. The options are passed
// to every parse.
func New(rootDir string, opts ...asciidoc.Option) *Workspace {
	return &Workspace{
		rootDir: rootDir,
		files:   make(map[string]*File),
		opts:    opts,
	}
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// ScanAll parses every source file below the root directory, skipping
// hidden directories.
func (w *Workspace) ScanAll() error {
	return filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsSource(path) {
			if err := w.ScanFile(path); err != nil {
				log.Warningf("scan %s: %v", path, err)
			}
		}
		return nil
	})
}

func (w *Workspace) ScanFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content as the new text of path and returns the result.
func (w *Workspace) UpdateFile(path string, content []byte) *File {
	f := parseFile(path, content, w.opts)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = f
	return f
}

func parseFile(path string, content []byte, opts []asciidoc.Option) *File {
	text := string(content)
	f := &File{
		Path:    path,
		Content: content,
		Lines:   asciidoc.SplitLines(text),
	}
	f.Doc, f.ParseErr = asciidoc.Parse(text, opts...)
	if f.ParseErr != nil {
		log.Infof("parse %s: %v", path, f.ParseErr)
		return f
	}
	f.Violations = asciidoc.Verify(f.Doc)
	for _, v := range f.Violations {
		log.Errorf("%s: %v", path, v)
	}
	return f
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Paths returns the paths of all known files, sorted.
func (w *Workspace) Paths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Err returns the parse error and invariant violations of f joined, or nil.
func (f *File) Err() error {
	if f.ParseErr != nil {
		return f.ParseErr
	}
	return errors.Join(f.Violations...)
}

// NodesAt returns the nodes enclosing pos, outermost first.
func (f *File) NodesAt(pos asciidoc.Position) []asciidoc.Node {
	if f.Doc == nil {
		return nil
	}
	return asciidoc.PathAt(f.Doc, pos)
}

// Line returns the 1-based line n, or nil.
func (f *File) Line(n int) *asciidoc.Line {
	if n < 1 || n > len(f.Lines) {
		return nil
	}
	return f.Lines[n-1]
}
