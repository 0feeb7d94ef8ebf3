package mongo

import (
	"context"

	"github.com/olfat123/profile-creator/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const TaxonomyCollection = "taxonomy_terms"

type TaxonomyRepository interface {
	ListByKind(ctx context.Context, kind models.TaxonomyKind) ([]models.TaxonomyTerm, error)
	ReplaceKind(ctx context.Context, kind models.TaxonomyKind, terms []models.TaxonomyTerm) error
}

type taxonomyRepo struct {
	col *mongo.Collection
}

func NewTaxonomyRepo(db *mongo.Database) TaxonomyRepository {
	return &taxonomyRepo{col: db.Collection(TaxonomyCollection)}
}

func (r *taxonomyRepo) ListByKind(ctx context.Context, kind models.TaxonomyKind) ([]models.TaxonomyTerm, error) {
	opts := options.Find().SetSort(bson.D{{Key: "parent_id", Value: 1}, {Key: "label", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.TaxonomyTerm
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceKind swaps the whole term set of one kind. Not atomic: readers may
// briefly observe an empty tree.
func (r *taxonomyRepo) ReplaceKind(ctx context.Context, kind models.TaxonomyKind, terms []models.TaxonomyTerm) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"kind": kind}); err != nil {
		return err
	}
	if len(terms) == 0 {
		return nil
	}

	docs := make([]any, 0, len(terms))
	for _, t := range terms {
		t.Kind = kind
		docs = append(docs, t)
	}
	_, err := r.col.InsertMany(ctx, docs)
	return err
}
