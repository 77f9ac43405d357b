package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
)

// Source identifies where a schema document originated so loaders can operate
// on files, fs.FS entries, or URLs without leaking implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Kind() SourceKind { return SourceKindFile }
func (s fileSource) Location() string { return s.path }

type fsSource struct {
	name string
}

func (s fsSource) Kind() SourceKind { return SourceKindFS }
func (s fsSource) Location() string { return s.name }

type urlSource struct {
	raw string
}

func (s urlSource) Kind() SourceKind { return SourceKindURL }
func (s urlSource) Location() string { return s.raw }

type inlineSource struct {
	label string
}

func (s inlineSource) Kind() SourceKind { return SourceKindInline }
func (s inlineSource) Location() string { return s.label }

// SourceFromFile builds a Source for an on-disk document.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// SourceFromFS builds a Source for an fs.FS entry.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

// SourceFromURL builds a Source for a remote document, validating the URL.
func SourceFromURL(raw string) (Source, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("schema: parse source url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("schema: unsupported source scheme %q", parsed.Scheme)
	}
	return urlSource{raw: raw}, nil
}

// SourceInline labels documents constructed in memory (reflection, tests).
func SourceInline(label string) Source {
	if label == "" {
		label = "inline"
	}
	return inlineSource{label: label}
}
