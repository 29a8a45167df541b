package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wuzhjian/compass/model"
)

// Bundle is the on-disk form of one job's detector results.
type Bundle struct {
	JobID   string                 `json:"jobId"`
	Results []model.DetectorResult `json:"results"`
}

type yamlResult struct {
	Category model.Category `yaml:"category"`
	Data     any            `yaml:"data"`
}

type yamlBundle struct {
	JobID   string       `yaml:"jobId"`
	Results []yamlResult `yaml:"results"`
}

// ReadBundle reads a JSON or YAML bundle. Files ending in .yaml or .yml are
// parsed as YAML; their payloads are re-encoded as JSON so decoding is the
// same for both formats.
func ReadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLBundle(path, data)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	return &b, nil
}

func parseYAMLBundle(path string, data []byte) (*Bundle, error) {
	var yb yamlBundle
	if err := yaml.Unmarshal(data, &yb); err != nil {
		return nil, fmt.Errorf("parse bundle %s: %w", path, err)
	}
	b := &Bundle{JobID: yb.JobID, Results: make([]model.DetectorResult, 0, len(yb.Results))}
	for i, r := range yb.Results {
		var raw json.RawMessage
		if r.Data != nil {
			enc, err := json.Marshal(r.Data)
			if err != nil {
				return nil, fmt.Errorf("bundle %s: results[%d].data: %w", path, i, err)
			}
			raw = enc
		}
		b.Results = append(b.Results, model.DetectorResult{Category: r.Category, Data: raw})
	}
	return b, nil
}

// FileCollector reads detector results from a bundle file.
type FileCollector struct {
	Path string
}

func (f *FileCollector) Name() string { return "file:" + f.Path }

// Collect returns the bundle's results. A bundle written for another job
// is rejected; an empty jobID accepts any bundle.
func (f *FileCollector) Collect(ctx context.Context, jobID string) ([]model.DetectorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := ReadBundle(f.Path)
	if err != nil {
		return nil, err
	}
	if jobID != "" && b.JobID != "" && b.JobID != jobID {
		return nil, fmt.Errorf("bundle %s is for job %q, not %q", f.Path, b.JobID, jobID)
	}
	return b.Results, nil
}
