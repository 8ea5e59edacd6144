package static

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"
)

//go:embed public
var embedded embed.FS

// Page documents served by the router
const (
	IndexPage    = "index.html"
	AboutPage    = "about.html"
	NotFoundPage = "404.html"
)

// Open returns the asset filesystem: the embedded public directory when dir is
// empty, otherwise the on-disk directory
func Open(dir string) (fs.FS, error) {
	if dir == "" {
		sub, err := fs.Sub(embedded, "public")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded assets: %w", err)
		}
		return sub, nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access static directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	log.Printf("Serving static files from %s", dir)
	return os.DirFS(dir), nil
}

// Resolve maps a request path to a regular file inside fsys.
// Directories resolve to their index.html. Returns false when nothing servable exists.
func Resolve(fsys fs.FS, urlPath string) (string, bool) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", false
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", false
	}
	if info.IsDir() {
		name = path.Join(name, IndexPage)
		info, err = fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			return "", false
		}
	}
	if !info.Mode().IsRegular() {
		return "", false
	}

	return name, true
}

// List returns every regular file in fsys, for startup diagnostics
func List(fsys fs.FS) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
