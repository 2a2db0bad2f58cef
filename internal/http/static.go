package http

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticHandler serves files from a root directory: "/" maps to the index file, any other
// path to the same-named file under root. Directories, missing files and any path with a
// dot-prefixed segment (".env", ".git/") are 404.
type StaticHandler struct {
	root  string
	index string
}

// NewStaticHandler returns a handler serving root, with index served for "/".
func NewStaticHandler(root, index string) *StaticHandler {
	return &StaticHandler{root: root, index: index}
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if hasHiddenSegment(name) {
		http.NotFound(w, r)
		return
	}
	if name == "/" {
		name = "/" + h.index
	}
	full := filepath.Join(h.root, filepath.FromSlash(name))

	f, err := os.Open(full)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func hasHiddenSegment(name string) bool {
	for _, seg := range strings.Split(name, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
