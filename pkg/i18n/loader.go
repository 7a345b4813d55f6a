package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithDomainFS loads the message files found at the root of fsys into domain.
// Every file is named after its language: "es.yaml", "es_AR.yml" or "pt_BR.json".
// The domain is registered even when fsys holds no message files.
func WithDomainFS(domain string, fsys fs.FS) Option {
	return func(c *Catalog) error {
		if domain == "" {
			return ErrEmptyDomain
		}
		c.domains[domain] = struct{}{}

		entries, err := fs.ReadDir(fsys, ".")
		if err != nil {
			return fmt.Errorf("reading %s locale dir: %w", domain, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if err := loadFile(c, fsys, domain, entry.Name()); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithDomainDir loads message files from dir into domain.
// A missing directory is skipped and the domain is not registered,
// so applications without a locale directory have no translations.
func WithDomainDir(domain, dir string) Option {
	return func(c *Catalog) error {
		info, err := os.Stat(dir)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.IsDir()) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s locale dir: %w", domain, err)
		}
		return WithDomainFS(domain, os.DirFS(dir))(c)
	}
}

func loadFile(c *Catalog, fsys fs.FS, domain, name string) error {
	ext := strings.ToLower(path.Ext(name))

	var unmarshal func([]byte, any) error
	switch ext {
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	case ".json":
		unmarshal = json.Unmarshal
	default:
		return nil
	}

	lang := strings.TrimSuffix(name, path.Ext(name))
	if lang == "" {
		return fmt.Errorf("%w: %q has no language name", ErrInvalidFile, name)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %q: %w", name, err)
	}

	var messages map[string]any
	if err := unmarshal(data, &messages); err != nil {
		return fmt.Errorf("%w: parsing %q: %s", ErrInvalidFile, name, err)
	}

	c.add(lang, domain, messages)
	return nil
}
