package models

type TaxonomyKind string

const (
	TaxonomyServices TaxonomyKind = "service"
	TaxonomySectors  TaxonomyKind = "sector"
)

// TaxonomyTerm is one row of reference data; ParentID 0 marks a root.
type TaxonomyTerm struct {
	Kind     TaxonomyKind `bson:"kind" json:"-" yaml:"-"`
	ID       int64        `bson:"id" json:"id" yaml:"id"`
	Label    string       `bson:"label" json:"label" yaml:"label"`
	ParentID int64        `bson:"parent_id" json:"parent_id" yaml:"parent_id"`
}

type TaxonomyNode struct {
	ID       int64          `json:"id"`
	Label    string         `json:"label"`
	ParentID int64          `json:"parent_id"`
	Children []TaxonomyNode `json:"children,omitempty"`
}

type Taxonomy struct {
	Services []TaxonomyNode `json:"services"`
	Sectors  []TaxonomyNode `json:"sectors"`
}
