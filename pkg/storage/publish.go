package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/duende/pkg/logger"
	"github.com/dmitrymomot/duende/pkg/resource"
)

const defaultConcurrency = 8

// PublishResult counts the files handled by Publish.
type PublishResult struct {
	Uploaded int
	Skipped  int
}

// PublishOption configures Publish.
type PublishOption func(*publishConfig)

type publishConfig struct {
	logger      *slog.Logger
	concurrency int
}

// WithConcurrency sets how many files upload at once. Defaults to 8.
func WithConcurrency(n int) PublishOption {
	return func(c *publishConfig) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger logs every uploaded and skipped file at debug level.
func WithLogger(l *slog.Logger) PublishOption {
	return func(c *publishConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// Publish uploads every regular file under root to b, keyed by prefix and the
// slash separated path relative to root. Unchanged files are skipped.
// The first failure cancels the remaining uploads.
func Publish(ctx context.Context, b Bucket, root, prefix string, opts ...PublishOption) (PublishResult, error) {
	cfg := &publishConfig{logger: logger.NewNope(), concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(cfg)
	}

	info, err := os.Stat(root)
	if err != nil {
		return PublishResult{}, err
	}
	if !info.IsDir() {
		return PublishResult{}, fmt.Errorf("%w: %s", ErrNotADirectory, root)
	}

	var uploaded, skipped atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.ToSlash(rel))

		g.Go(func() error {
			done, err := publishFile(ctx, b, p, key)
			if err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
			if done {
				uploaded.Add(1)
				cfg.logger.DebugContext(ctx, "file uploaded", slog.String("key", key))
			} else {
				skipped.Add(1)
				cfg.logger.DebugContext(ctx, "file unchanged", slog.String("key", key))
			}
			return nil
		})
		return nil
	})

	res := func() PublishResult {
		return PublishResult{Uploaded: int(uploaded.Load()), Skipped: int(skipped.Load())}
	}
	if gerr := g.Wait(); gerr != nil {
		return res(), gerr
	}
	return res(), err
}

// publishFile uploads one file unless the remote copy matches.
func publishFile(ctx context.Context, b Bucket, name, key string) (bool, error) {
	f, err := os.Open(name)
	if err != nil {
		return false, err
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // S3 ETag comparison
	size, err := io.Copy(h, f)
	if err != nil {
		return false, err
	}
	sum := hex.EncodeToString(h.Sum(nil))

	obj, err := b.Head(ctx, key)
	switch {
	case err == nil && obj.Size == size && obj.ETag == sum:
		return false, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return false, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return false, err
	}
	if err := b.Put(ctx, key, f, size, resource.ContentType(name)); err != nil {
		return false, err
	}
	return true, nil
}
