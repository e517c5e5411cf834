package evaluation

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lox/qjack/internal/fileutil"
)

// WriteReport encodes the report as TOML.
func WriteReport(w io.Writer, r *Report) error {
	if r == nil {
		return fmt.Errorf("evaluation: report is nil")
	}
	enc := toml.NewEncoder(w)
	enc.Indent = "\t"
	return enc.Encode(r)
}

// SaveReport writes the report to path, creating parent directories.
func SaveReport(path string, r *Report) error {
	var buf bytes.Buffer
	if err := WriteReport(&buf, r); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

// ReadReport decodes a report written by WriteReport.
func ReadReport(r io.Reader) (*Report, error) {
	var report Report
	if _, err := toml.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &report, nil
}
