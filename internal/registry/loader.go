package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"notifyd/internal/common/fsutil"
	"notifyd/pkg/types"
)

// seedFile is the on-disk shape of a seed file:
//
//	records:
//	  - name: temperature
//	    value: "21.5"
type seedFile struct {
	Records []types.RecordRequest `json:"records" yaml:"records"`
}

// LoadSeed reads initial records from a .json, .yaml or .yml file.
// A leading '~' in path is expanded to the user's home directory.
func LoadSeed(path string) ([]types.RecordRequest, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var sf seedFile
	switch ext := strings.ToLower(filepath.Ext(p)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &sf)
	case ".json":
		err = json.Unmarshal(b, &sf)
	default:
		return nil, fmt.Errorf("unsupported seed extension: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	return sf.Records, nil
}

// Seed adds each record in order. It stops at the first invalid entry and
// returns how many were added before it.
func (r *Registry) Seed(reqs []types.RecordRequest) (int, error) {
	for i, req := range reqs {
		if _, err := r.AddRecord(req.Name, req.Value); err != nil {
			return i, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return len(reqs), nil
}
