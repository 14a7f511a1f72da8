package session

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ConfigSource interface {
	ListSessions(ctx context.Context) ([]SessionConfig, error)
}

// StaticSource serves a fixed list, used by tests and by embedded setups.
type StaticSource []SessionConfig

func (s StaticSource) ListSessions(context.Context) ([]SessionConfig, error) {
	out := make([]SessionConfig, len(s))
	copy(out, s)
	return out, nil
}

type fileSession struct {
	Name         string  `yaml:"name"`
	TimeIn       string  `yaml:"time_in"`
	TimeOut      *string `yaml:"time_out"`
	LateCutoff   *string `yaml:"late_cutoff"`
	BreakMinutes *int    `yaml:"break_minutes"`
}

type fileCatalog struct {
	Sessions []fileSession `yaml:"sessions"`
}

// FileSource reads a YAML catalog from disk on every call, so edits are
// picked up on the next evaluation.
//
//	sessions:
//	  - name: Morning
//	    time_in: "06:00-12:00"
//	    time_out: "12:00-13:00"
//	    late_cutoff: "08:00"
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) ListSessions(ctx context.Context) ([]SessionConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var doc fileCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse session file: %w", err)
	}

	rows := make([]SessionConfig, 0, len(doc.Sessions))
	for i, fs := range doc.Sessions {
		row := SessionConfig{
			Name:         fs.Name,
			Position:     i,
			LateCutoff:   fs.LateCutoff,
			BreakMinutes: fs.BreakMinutes,
		}
		row.TimeInStart, row.TimeInEnd, _ = strings.Cut(fs.TimeIn, "-")
		if fs.TimeOut != nil {
			start, end, _ := strings.Cut(*fs.TimeOut, "-")
			row.TimeOutStart, row.TimeOutEnd = &start, &end
		}
		rows = append(rows, row)
	}
	return rows, nil
}
