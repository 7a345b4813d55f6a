package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// resources lays out a "blog" app with static files, a "shop.admin" app
// and a "notes" app without a static dir.
func resources(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blog", "static", "css", "blog.css"), "h1{}")
	writeFile(t, filepath.Join(root, "shop", "admin", "static", "admin.js"), "init()")
	writeFile(t, filepath.Join(root, "notes", "templates", "index.html"), "<p></p>")
	return root
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.Execute()
	return out.String(), err
}

func TestExport(t *testing.T) {
	t.Parallel()

	t.Run("copies static dirs", func(t *testing.T) {
		t.Parallel()
		res := resources(t)
		dir := filepath.Join(t.TempDir(), "public")

		out, err := execute(t, "", "blog", "shop.admin", "--resources", res, "--dir", dir)
		require.NoError(t, err)
		require.Contains(t, out, "Creating directory "+dir)
		require.Contains(t, out, "[OK] Static files from blog copied successfully")

		data, err := os.ReadFile(filepath.Join(dir, "blog", "css", "blog.css"))
		require.NoError(t, err)
		require.Equal(t, "h1{}", string(data))
		require.FileExists(t, filepath.Join(dir, "shop.admin", "admin.js"))
	})

	t.Run("skips apps without static files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		out, err := execute(t, "", "notes", "missing", "blog", "-r", resources(t), "-d", dir)
		require.NoError(t, err)
		require.Contains(t, out, "[WAR] Application notes doesn't have a static dir")
		require.Contains(t, out, "[WAR] Application missing doesn't have a resources dir")
		require.FileExists(t, filepath.Join(dir, "blog", "css", "blog.css"))
		require.NoDirExists(t, filepath.Join(dir, "notes"))
	})

	t.Run("existing destination replaced after confirmation", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "blog", "old.css"), "old")

		out, err := execute(t, "y\n", "blog", "-r", resources(t), "-d", dir)
		require.NoError(t, err)
		require.Contains(t, out, "Delete it? [y/N]")
		require.NoFileExists(t, filepath.Join(dir, "blog", "old.css"))
		require.FileExists(t, filepath.Join(dir, "blog", "css", "blog.css"))
	})

	t.Run("declined confirmation stops the export", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "blog", "old.css"), "old")

		out, err := execute(t, "n\n", "blog", "shop.admin", "-r", resources(t), "-d", dir)
		require.NoError(t, err)
		require.Contains(t, out, "[OK] Export stopped by user")
		require.FileExists(t, filepath.Join(dir, "blog", "old.css"))
		require.NoDirExists(t, filepath.Join(dir, "shop.admin"))
	})

	t.Run("yes skips the prompt", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "blog", "old.css"), "old")

		out, err := execute(t, "", "blog", "--yes", "-r", resources(t), "-d", dir)
		require.NoError(t, err)
		require.NotContains(t, out, "Delete it?")
		require.NoFileExists(t, filepath.Join(dir, "blog", "old.css"))
	})

	t.Run("copy failure", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		// A file where the app directory should be created.
		blocker := filepath.Join(dir, "sub")
		writeFile(t, blocker, "")

		_, err := execute(t, "", "blog", "-r", resources(t), "-d", blocker)
		require.Error(t, err)
	})
}

func TestExport_Flags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no apps", []string{"--dir", "out"}},
		{"no destination", []string{"blog"}},
		{"both destinations", []string{"blog", "--dir", "out", "--bucket", "assets"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := execute(t, "", tt.args...)
			require.Error(t, err)
		})
	}
}
