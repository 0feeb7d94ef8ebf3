package models

// ReferenceLists are the flat option lists offered by the forms.
type ReferenceLists struct {
	Languages    []string `yaml:"languages" json:"languages"`
	Countries    []string `yaml:"countries" json:"countries"`
	Headquarters []string `yaml:"headquarters" json:"headquarters"`
	Categories   []string `yaml:"categories" json:"categories"`
}
