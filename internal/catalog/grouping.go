package catalog

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"catalogue_back_end/internal/guard"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// placedProduct associe un produit normalisé à l'identifiant de catégorie
// résolu sur le document brut, avant application des valeurs par défaut.
type placedProduct struct {
	product    models.Product
	categoryID string
}

// GroupByCategory range chaque produit sous sa catégorie. Une référence vers
// une catégorie inconnue crée une catégorie synthétique.
func (s *Service) GroupByCategory(ctx context.Context) models.CategoryGrouping {
	return s.groupByCategory(ctx).Get()
}

func (s *Service) groupByCategory(ctx context.Context) guard.Result[models.CategoryGrouping] {
	return guard.Read(ctx, "catalogue.group", s.timeouts.Group, s.fallbackGrouping(),
		func(ctx context.Context) (models.CategoryGrouping, error) {
			var (
				categories []models.Category
				placed     []placedProduct
			)
			var g errgroup.Group
			g.Go(func() error {
				categories = s.listCategories(ctx).Get()
				return nil
			})
			g.Go(func() error {
				placed = s.listPlacedProducts(ctx).Get()
				return nil
			})
			// chaque lecture a son propre repli : Wait ne retourne jamais d'erreur
			_ = g.Wait()
			return groupProducts(categories, placed), nil
		})
}

func (s *Service) listPlacedProducts(ctx context.Context) guard.Result[[]placedProduct] {
	return guard.Read(ctx, "products.listForGrouping", s.timeouts.List, s.fallbackPlaced(),
		func(ctx context.Context) ([]placedProduct, error) {
			docs, err := s.store.List(ctx, store.Products, store.Query{})
			if err != nil {
				return nil, err
			}
			placed := make([]placedProduct, 0, len(docs))
			for _, doc := range docs {
				id, ok := resolveCategoryID(doc.Data)
				if !ok {
					zap.S().Warnw("⚠️ Produit sans catégorie ni référence, ignoré", "product", doc.ID)
					continue
				}
				placed = append(placed, placedProduct{product: NormalizeProduct(doc), categoryID: id})
			}
			sort.SliceStable(placed, func(i, j int) bool { return placed[i].product.Name < placed[j].product.Name })
			return placed, nil
		})
}

func (s *Service) fallbackPlaced() []placedProduct {
	products := s.fallback.products()
	placed := make([]placedProduct, 0, len(products))
	for _, p := range products {
		placed = append(placed, placedProduct{product: p, categoryID: p.Category})
	}
	return placed
}

func (s *Service) fallbackGrouping() models.CategoryGrouping {
	return groupProducts(s.fallback.categories(), s.fallbackPlaced())
}

// groupProducts construit le regroupement. Les catégories lues sont toutes
// conservées, même vides ; les catégories synthétiques suivent, dans l'ordre
// de leur première apparition.
func groupProducts(categories []models.Category, placed []placedProduct) models.CategoryGrouping {
	grouping := models.CategoryGrouping{
		Categories:   make([]models.Category, 0, len(categories)),
		ByCategoryID: make(map[string]*models.CategoryGroup, len(categories)),
	}
	for _, c := range categories {
		if _, dup := grouping.ByCategoryID[c.ID]; dup {
			continue
		}
		grouping.Categories = append(grouping.Categories, c)
		grouping.ByCategoryID[c.ID] = &models.CategoryGroup{Category: c, Products: []models.Product{}}
	}

	for _, pp := range placed {
		if pp.categoryID == "" {
			zap.S().Warnw("⚠️ Produit sans catégorie ni référence, ignoré", "product", pp.product.ID)
			continue
		}
		group, ok := grouping.ByCategoryID[pp.categoryID]
		if !ok {
			synthesized := SynthesizeCategory(pp.categoryID)
			group = &models.CategoryGroup{Category: synthesized, Products: []models.Product{}}
			grouping.ByCategoryID[pp.categoryID] = group
			grouping.Categories = append(grouping.Categories, synthesized)
		}
		group.Products = append(group.Products, pp.product)
	}
	return grouping
}
