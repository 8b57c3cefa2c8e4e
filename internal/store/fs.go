// Package store persists parse outputs. The filesystem layout is part of
// the contract: one <stem>_parsed.json per source document plus a single
// combined_parsed_data.json, all under one output directory.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dvloznov/statement-insights/internal/aggregate"
	"github.com/dvloznov/statement-insights/internal/domain"
)

const combinedFilename = "combined_parsed_data.json"

// FS writes results under a single directory.
type FS struct {
	dir string
}

// NewFS creates the output directory if needed.
func NewFS(dir string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create output dir %q: %w", dir, err)
	}
	return &FS{dir: dir}, nil
}

// ResultPath returns where a source document's parse is written. The source
// extension is dropped, so statement1.txt becomes statement1_parsed.json.
func (s *FS) ResultPath(sourceFilename string) string {
	stem := strings.TrimSuffix(filepath.Base(sourceFilename), filepath.Ext(sourceFilename))
	return filepath.Join(s.dir, stem+"_parsed.json")
}

// CombinedPath returns where the combined report is written.
func (s *FS) CombinedPath() string {
	return filepath.Join(s.dir, combinedFilename)
}

// WriteResult persists one document's cleaned parse.
func (s *FS) WriteResult(sourceFilename string, result *domain.ParseResult) error {
	return writeJSON(s.ResultPath(sourceFilename), result)
}

// ReadResult loads one document's persisted parse.
func (s *FS) ReadResult(sourceFilename string) (*domain.ParseResult, error) {
	data, err := os.ReadFile(s.ResultPath(sourceFilename))
	if err != nil {
		return nil, fmt.Errorf("store: read result: %w", err)
	}
	var result domain.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("store: decode result: %w", err)
	}
	return &result, nil
}

// WriteCombined persists the combined report.
func (s *FS) WriteCombined(combined *aggregate.Combined) error {
	return writeJSON(s.CombinedPath(), combined)
}

// ReadCombined loads the combined report.
func (s *FS) ReadCombined() (*aggregate.Combined, error) {
	data, err := os.ReadFile(s.CombinedPath())
	if err != nil {
		return nil, fmt.Errorf("store: read combined: %w", err)
	}
	var combined aggregate.Combined
	if err := json.Unmarshal(data, &combined); err != nil {
		return nil, fmt.Errorf("store: decode combined: %w", err)
	}
	return &combined, nil
}

// ListResults returns the per-document result filenames in the output
// directory, sorted, with the combined report excluded.
func (s *FS) ListResults() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*_parsed.json"))
	if err != nil {
		return nil, fmt.Errorf("store: list results: %w", err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, filepath.Base(m))
	}
	sort.Strings(names)
	return names, nil
}

// LoadDocuments reads every persisted per-document result back as
// aggregation input, ordered by filename. The document filename is the
// result's stem, so statement1_parsed.json loads as statement1.
func (s *FS) LoadDocuments() ([]aggregate.StatementDocument, error) {
	names, err := s.ListResults()
	if err != nil {
		return nil, err
	}
	docs := make([]aggregate.StatementDocument, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("store: read result %s: %w", name, err)
		}
		var result domain.ParseResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("store: decode result %s: %w", name, err)
		}
		docs = append(docs, aggregate.StatementDocument{
			Filename: strings.TrimSuffix(name, "_parsed.json"),
			Result:   &result,
		})
	}
	return docs, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", filepath.Base(path), err)
	}
	return nil
}
