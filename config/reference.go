package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/olfat123/profile-creator/internal/models"
)

// ReferenceFile is the on-disk shape of REFERENCE_FILE: option lists for the
// forms plus the taxonomy used by the seed-taxonomy command.
type ReferenceFile struct {
	models.ReferenceLists `yaml:",inline"`

	Taxonomy struct {
		Services []models.TaxonomyTerm `yaml:"services"`
		Sectors  []models.TaxonomyTerm `yaml:"sectors"`
	} `yaml:"taxonomy"`
}

// LoadReferenceFile reads path; an empty path yields an empty file.
func LoadReferenceFile(path string) (*ReferenceFile, error) {
	out := &ReferenceFile{}
	if path == "" {
		return out, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("parse reference file %s: %w", path, err)
	}
	return out, nil
}
