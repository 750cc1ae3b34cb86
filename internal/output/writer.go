// Package output encodes schemas and writes them to disk, one file per root.
package output

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/jtdgen/internal/config"
	"github.com/reoring/jtdgen/jtd"
)

// Writer writes schemas into Dir.
type Writer struct {
	Dir    string
	Format string // config.FormatJSON or config.FormatYAML
	Indent int
}

// New returns a Writer configured from cfg.
func New(cfg config.Config) Writer {
	return Writer{Dir: cfg.Output, Format: cfg.Format, Indent: cfg.Indent}
}

// Encode renders s in the writer's format, with a trailing newline.
func (w Writer) Encode(s *jtd.Schema) ([]byte, error) {
	switch w.Format {
	case config.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(max(w.Indent, 2))
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case config.FormatJSON, "":
		var raw []byte
		var err error
		if w.Indent > 0 {
			raw, err = json.MarshalIndent(s, "", strings.Repeat(" ", w.Indent))
		} else {
			raw, err = json.Marshal(s)
		}
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	}
	return nil, fmt.Errorf("output: unknown format %q", w.Format)
}

// FileName returns the file a root named name is written to, e.g.
// Pair[int,string] -> Pair_int_string_.jtd.json.
func (w Writer) FileName(name string) string {
	ext := ".jtd.json"
	if w.Format == config.FormatYAML {
		ext = ".jtd.yaml"
	}
	return sanitize(name) + ext
}

// Write encodes s and writes it under Dir, creating Dir when needed. It
// returns the written path.
func (w Writer) Write(name string, s *jtd.Schema) (string, error) {
	raw, err := w.Encode(s)
	if err != nil {
		return "", fmt.Errorf("output: encoding %s: %w", name, err)
	}
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(w.Dir, w.FileName(name))
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
