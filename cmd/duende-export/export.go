package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrymomot/duende/pkg/resource"
	"github.com/dmitrymomot/duende/pkg/storage"
)

// errStopped ends an export the user declined to continue.
var errStopped = errors.New("export stopped by user")

type exportOptions struct {
	dir       string
	bucket    string
	resources string
	yes       bool
}

type exporter struct {
	in     *bufio.Reader
	out    io.Writer
	log    *slog.Logger
	bucket storage.Bucket
	opts   exportOptions
}

func (e *exporter) run(ctx context.Context, apps []string) error {
	if e.bucket == nil {
		dir, err := filepath.Abs(e.opts.dir)
		if err != nil {
			return err
		}
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(e.out, "Creating directory %s\n", dir)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		e.opts.dir = dir
	}

	for _, app := range apps {
		err := e.export(ctx, app)
		if errors.Is(err, errStopped) {
			fmt.Fprintln(e.out, "[OK] Export stopped by user")
			return nil
		}
		if err != nil {
			fmt.Fprintf(e.out, "[ERR] Unable to copy static files from %s: %v\n", app, err)
			return err
		}
	}
	return nil
}

// export copies one application's static directory. Applications without
// one are skipped with a warning.
func (e *exporter) export(ctx context.Context, app string) error {
	if _, err := os.Stat(resource.Dir(e.opts.resources, app)); err != nil {
		fmt.Fprintf(e.out, "[WAR] Application %s doesn't have a resources dir, skipping...\n", app)
		return nil
	}
	src := resource.Sub(e.opts.resources, app, resource.StaticDir)
	if info, err := os.Stat(src); err != nil || !info.IsDir() {
		fmt.Fprintf(e.out, "[WAR] Application %s doesn't have a static dir, skipping...\n", app)
		return nil
	}

	if e.bucket != nil {
		res, err := storage.Publish(ctx, e.bucket, src, app, storage.WithLogger(e.log))
		if err != nil {
			return err
		}
		fmt.Fprintf(e.out, "[OK] Static files from %s uploaded (%d new, %d unchanged)\n", app, res.Uploaded, res.Skipped)
		return nil
	}

	dst := filepath.Join(e.opts.dir, app)
	if _, err := os.Stat(dst); err == nil {
		ok, err := e.confirm("Destination dir already exists. Delete it? [y/N] ")
		if err != nil {
			return err
		}
		if !ok {
			return errStopped
		}
		if err := os.RemoveAll(dst); err != nil {
			return err
		}
	}

	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "[OK] Static files from %s copied successfully\n", app)
	return nil
}

func (e *exporter) confirm(prompt string) (bool, error) {
	if e.opts.yes {
		return true, nil
	}
	fmt.Fprint(e.out, prompt)
	line, err := e.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}
