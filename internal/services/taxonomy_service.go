package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/olfat123/profile-creator/internal/cache"
	"github.com/olfat123/profile-creator/internal/models"
	mongorepo "github.com/olfat123/profile-creator/internal/repositories/mongo"
	"github.com/olfat123/profile-creator/internal/utils"
	"github.com/sirupsen/logrus"
)

const taxonomyCacheTTL = 10 * time.Minute

var taxonomyCacheKey = cache.Key("taxonomy", "tree")

var defaultLanguages = []string{
	"English",
	"Mandarin Chinese",
	"Hindi",
	"Spanish",
	"French",
	"Arabic",
	"Bengali",
	"Russian",
	"Portuguese",
	"Indonesian",
	"Japanese",
	"German",
	"Turkish",
	"Korean",
}

type TaxonomyService interface {
	Tree(ctx context.Context) (*models.Taxonomy, error)
	Seed(ctx context.Context, services, sectors []models.TaxonomyTerm) error
	ReferenceLists() models.ReferenceLists
}

type taxonomyService struct {
	repo  mongorepo.TaxonomyRepository
	cache cache.Cache
	lists models.ReferenceLists
	log   *logrus.Logger
}

func NewTaxonomyService(repo mongorepo.TaxonomyRepository, c cache.Cache, lists models.ReferenceLists, log *logrus.Logger) TaxonomyService {
	return &taxonomyService{
		repo:  repo,
		cache: c,
		lists: NormalizeReferenceLists(lists),
		log:   log,
	}
}

func (s *taxonomyService) Tree(ctx context.Context) (*models.Taxonomy, error) {
	const op = "TaxonomyService.Tree"

	if s.cache != nil {
		var cached models.Taxonomy
		hit, err := s.cache.GetJSON(ctx, taxonomyCacheKey, &cached)
		if err != nil {
			s.log.WithError(err).Warn("taxonomy cache read failed")
		} else if hit {
			return &cached, nil
		}
	}

	if s.repo == nil {
		return &models.Taxonomy{Services: []models.TaxonomyNode{}, Sectors: []models.TaxonomyNode{}}, nil
	}

	services, err := s.repo.ListByKind(ctx, models.TaxonomyServices)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load services", err)
	}
	sectors, err := s.repo.ListByKind(ctx, models.TaxonomySectors)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to load sectors", err)
	}

	out := &models.Taxonomy{
		Services: BuildTree(services),
		Sectors:  BuildTree(sectors),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, taxonomyCacheKey, out, taxonomyCacheTTL); err != nil {
			s.log.WithError(err).Warn("taxonomy cache write failed")
		}
	}
	return out, nil
}

func (s *taxonomyService) Seed(ctx context.Context, services, sectors []models.TaxonomyTerm) error {
	const op = "TaxonomyService.Seed"

	if s.repo == nil {
		return utils.E(utils.CodeInternal, op, "taxonomy store is not configured", nil)
	}
	if err := s.repo.ReplaceKind(ctx, models.TaxonomyServices, services); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to store services", err)
	}
	if err := s.repo.ReplaceKind(ctx, models.TaxonomySectors, sectors); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to store sectors", err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, taxonomyCacheKey); err != nil {
			s.log.WithError(err).Warn("taxonomy cache invalidation failed")
		}
	}
	return nil
}

func (s *taxonomyService) ReferenceLists() models.ReferenceLists { return s.lists }

// BuildTree nests terms under their parents. Roots have ParentID 0; a term
// whose parent is missing is dropped. Siblings are ordered by label.
func BuildTree(terms []models.TaxonomyTerm) []models.TaxonomyNode {
	children := make(map[int64][]models.TaxonomyTerm, len(terms))
	known := make(map[int64]bool, len(terms))
	for _, t := range terms {
		known[t.ID] = true
	}
	for _, t := range terms {
		if t.ParentID != 0 && !known[t.ParentID] {
			continue
		}
		children[t.ParentID] = append(children[t.ParentID], t)
	}

	var build func(parent int64, seen map[int64]bool) []models.TaxonomyNode
	build = func(parent int64, seen map[int64]bool) []models.TaxonomyNode {
		list := children[parent]
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Label) < strings.ToLower(list[j].Label)
		})

		nodes := make([]models.TaxonomyNode, 0, len(list))
		for _, t := range list {
			if seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			nodes = append(nodes, models.TaxonomyNode{
				ID:       t.ID,
				Label:    t.Label,
				ParentID: t.ParentID,
				Children: build(t.ID, seen),
			})
		}
		if len(nodes) == 0 && parent != 0 {
			return nil
		}
		return nodes
	}
	return build(0, map[int64]bool{})
}

// NormalizeReferenceLists fills the language default and dedupes and sorts
// the configurable lists.
func NormalizeReferenceLists(in models.ReferenceLists) models.ReferenceLists {
	out := models.ReferenceLists{
		Languages:    in.Languages,
		Countries:    uniqueSorted(in.Countries),
		Headquarters: uniqueSorted(in.Headquarters),
		Categories:   uniqueSorted(in.Categories),
	}
	if len(out.Languages) == 0 {
		out.Languages = append([]string(nil), defaultLanguages...)
	}
	return out
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
