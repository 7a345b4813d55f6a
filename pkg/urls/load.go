package urls

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// Format identifies the url file syntax.
type Format string

const (
	FormatINI  Format = "ini"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the file format from its extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".cfg", ".conf":
		return FormatINI, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Load reads a url file from disk.
func Load(path string, opts ...Option) (*Mapping, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrLoad, err)
	}

	return Parse(bytes.NewReader(data), format, opts...)
}

// Parse reads a url file in the given format.
func Parse(r io.Reader, format Format, opts ...Option) (*Mapping, error) {
	var (
		apps, resources map[string]string
		err             error
	)

	switch format {
	case FormatINI:
		apps, resources, err = parseINI(r)
	case FormatYAML:
		apps, resources, err = parseYAML(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	return New(apps, resources, opts...)
}

func parseINI(r io.Reader) (map[string]string, map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Join(ErrLoad, err)
	}

	// Section and key names are case-insensitive like the classic config parser.
	// Inline comments stay disabled because "egg:app#file" uses '#'.
	cfg, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:         true,
		IgnoreInlineComment: true,
	}, data)
	if err != nil {
		return nil, nil, errors.Join(ErrLoad, err)
	}

	if !cfg.HasSection("apps") {
		return nil, nil, ErrNoApplications
	}

	apps := make(map[string]string)
	for _, key := range cfg.Section("apps").Keys() {
		apps[key.Name()] = key.String()
	}

	resources := make(map[string]string)
	if cfg.HasSection("resources") {
		for _, key := range cfg.Section("resources").Keys() {
			resources[key.Name()] = key.String()
		}
	}

	return apps, resources, nil
}

type yamlFile struct {
	Apps      map[string]string `yaml:"apps"`
	Resources map[string]string `yaml:"resources"`
}

func parseYAML(r io.Reader) (map[string]string, map[string]string, error) {
	var f yamlFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, errors.Join(ErrLoad, err)
	}
	return f.Apps, f.Resources, nil
}
