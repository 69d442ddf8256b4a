package kb

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	ErrNotFound    = errors.New("kb: entry not found")
	ErrOutsideRoot = errors.New("kb: path escapes the knowledge base root")
)

// Entry is one file or directory in the knowledge base tree. Paths are
// slash-separated and relative to the root.
type Entry struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	IsDir   bool      `json:"is_dir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Library exposes a directory tree of curriculum materials, mostly
// markdown, for browsing and search.
type Library struct {
	root string
	md   goldmark.Markdown
}

func NewLibrary(root string) *Library {
	return &Library{
		root: root,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Root returns the library's root directory.
func (l *Library) Root() string {
	return l.root
}

// resolve maps a request path onto the filesystem, rejecting anything
// that would escape the root.
func (l *Library) resolve(rel string) (string, error) {
	rel = path.Clean("/" + strings.TrimPrefix(rel, "/"))
	if rel == "/" {
		return l.root, nil
	}
	full := filepath.Join(l.root, filepath.FromSlash(rel))
	absRoot, err := filepath.Abs(l.root)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absFull != absRoot && !strings.HasPrefix(absFull, absRoot+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

// List returns the entries directly under the given directory, sorted
// directories first, then by name.
func (l *Library) List(dir string) ([]Entry, error) {
	full, err := l.resolve(dir)
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
		info, err := d.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:    path.Join(strings.TrimPrefix(path.Clean("/"+dir), "/"), d.Name()),
			Name:    d.Name(),
			IsDir:   d.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Search returns files matching a doublestar glob pattern, e.g.
// "algebra/**/*.md".
func (l *Library) Search(pattern string) ([]Entry, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}
	fsys := os.DirFS(l.root)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, m := range matches {
		info, err := fs.Stat(fsys, m)
		if err != nil || info.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Path:    m,
			Name:    path.Base(m),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Read returns the raw contents of a file.
func (l *Library) Read(rel string) ([]byte, error) {
	full, err := l.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Render converts a markdown file to HTML. Non-markdown files are
// returned raw.
func (l *Library) Render(rel string) ([]byte, error) {
	data, err := l.Read(rel)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(rel))
	if ext != ".md" && ext != ".markdown" {
		return data, nil
	}
	var buf bytes.Buffer
	if err := l.md.Convert(data, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
