package resource

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

// ServeFile writes a file from fsys with the guessed content type.
// A missing file or a directory yields ErrNotFound.
func ServeFile(w http.ResponseWriter, r *http.Request, fsys fs.FS, name string) error {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || !fs.ValidPath(name) {
		return ErrNotFound
	}

	f, err := fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return ErrNotFound
		}
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return ErrNotFound
	}

	content, ok := f.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f)
		if err != nil {
			return err
		}
		content = bytes.NewReader(data)
	}

	w.Header().Set("Content-Type", ContentType(name))
	http.ServeContent(w, r, info.Name(), info.ModTime(), content)
	return nil
}

// ServeEgg serves a file from an application resource directory.
func ServeEgg(w http.ResponseWriter, r *http.Request, root, app, file string) error {
	dir := Dir(root, app)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return ErrNotFound
	}
	return ServeFile(w, r, os.DirFS(dir), file)
}

// Static serves files from several roots. The first root holding the
// requested path wins. Requests no root can satisfy go to next, or get a 404
// when next is nil.
func Static(next http.Handler, roots ...fs.FS) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			passOrNotFound(next, w, r)
			return
		}
		for _, root := range roots {
			err := ServeFile(w, r, root, r.URL.Path)
			if err == nil {
				return
			}
			if !errors.Is(err, ErrNotFound) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
		}
		passOrNotFound(next, w, r)
	})
}

// StaticDirs builds a Static handler from application static directories,
// in the given application order.
func StaticDirs(next http.Handler, root string, apps []string) http.Handler {
	dirs := Dirs(root, apps, StaticDir)
	roots := make([]fs.FS, 0, len(dirs))
	for _, app := range apps {
		if dir, ok := dirs[app]; ok {
			roots = append(roots, os.DirFS(dir))
		}
	}
	return Static(next, roots...)
}

func passOrNotFound(next http.Handler, w http.ResponseWriter, r *http.Request) {
	if next != nil {
		next.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}
