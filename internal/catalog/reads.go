package catalog

import (
	"context"
	"errors"
	"sort"

	"catalogue_back_end/internal/guard"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// GetAllCategories retourne les catégories triées par nom.
func (s *Service) GetAllCategories(ctx context.Context) []models.Category {
	return s.listCategories(ctx).Get()
}

func (s *Service) listCategories(ctx context.Context) guard.Result[[]models.Category] {
	return guard.Read(ctx, "categories.list", s.timeouts.List, s.fallback.categories(),
		func(ctx context.Context) ([]models.Category, error) {
			docs, err := s.store.List(ctx, store.Categories, store.Query{})
			if err != nil {
				return nil, err
			}
			categories := make([]models.Category, 0, len(docs))
			for _, doc := range docs {
				categories = append(categories, NormalizeCategory(doc))
			}
			sortCategoriesByName(categories)
			return categories, nil
		})
}

// GetCategoryByID retourne false quand la catégorie n'existe ni en base ni dans le repli.
func (s *Service) GetCategoryByID(ctx context.Context, id string) (models.Category, bool) {
	c := s.getCategory(ctx, id).Get()
	if c == nil {
		return models.Category{}, false
	}
	return *c, true
}

func (s *Service) getCategory(ctx context.Context, id string) guard.Result[*models.Category] {
	return guard.Read(ctx, "categories.get", s.timeouts.Document, s.fallback.category(id),
		func(ctx context.Context) (*models.Category, error) {
			doc, err := s.store.Get(ctx, store.Categories, id)
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			c := NormalizeCategory(doc)
			return &c, nil
		})
}

// GetAllProducts retourne les produits triés par nom.
func (s *Service) GetAllProducts(ctx context.Context) []models.Product {
	return s.listProducts(ctx).Get()
}

func (s *Service) listProducts(ctx context.Context) guard.Result[[]models.Product] {
	return guard.Read(ctx, "products.list", s.timeouts.List, s.fallback.products(),
		func(ctx context.Context) ([]models.Product, error) {
			docs, err := s.store.List(ctx, store.Products, store.Query{})
			if err != nil {
				return nil, err
			}
			products := normalizeProducts(docs)
			sortProductsByName(products)
			return products, nil
		})
}

func (s *Service) GetProductByID(ctx context.Context, id string) (models.Product, bool) {
	p := s.getProduct(ctx, id).Get()
	if p == nil {
		return models.Product{}, false
	}
	return *p, true
}

func (s *Service) getProduct(ctx context.Context, id string) guard.Result[*models.Product] {
	return guard.Read(ctx, "products.get", s.timeouts.Document, s.fallback.product(id),
		func(ctx context.Context) (*models.Product, error) {
			doc, err := s.store.Get(ctx, store.Products, id)
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			if err != nil {
				return nil, err
			}
			p := NormalizeProduct(doc)
			return &p, nil
		})
}

// GetProductsByCategory cherche d'abord les produits dont categoryRef pointe
// vers la catégorie, puis ceux dont le champ texte category vaut son identifiant.
// Un produit dont categoryRef désigne une autre catégorie n'est pas retenu par
// le champ texte.
func (s *Service) GetProductsByCategory(ctx context.Context, categoryID string) []models.Product {
	return s.productsByCategory(ctx, categoryID).Get()
}

func (s *Service) productsByCategory(ctx context.Context, categoryID string) guard.Result[[]models.Product] {
	return guard.Read(ctx, "products.byCategory", s.timeouts.List, s.fallback.productsIn(categoryID),
		func(ctx context.Context) ([]models.Product, error) {
			ref := store.Ref{Collection: store.Categories, ID: categoryID}
			docs, err := s.store.List(ctx, store.Products, store.Query{}.Where("categoryRef", ref))
			if err != nil {
				return nil, err
			}
			if len(docs) == 0 {
				docs, err = s.store.List(ctx, store.Products, store.Query{}.Where("category", categoryID))
				if err != nil {
					return nil, err
				}
				docs = placedIn(docs, categoryID)
			}
			// pas de tri côté base : Firestore exigerait un index composite
			products := normalizeProducts(docs)
			sortProductsByName(products)
			return products, nil
		})
}

func placedIn(docs []store.Document, categoryID string) []store.Document {
	out := docs[:0:0]
	for _, doc := range docs {
		if id, ok := resolveCategoryID(doc.Data); ok && id == categoryID {
			out = append(out, doc)
		}
	}
	return out
}

func normalizeProducts(docs []store.Document) []models.Product {
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, NormalizeProduct(doc))
	}
	return products
}

// Les listes sont triées ici et non par la base : Firestore écarte d'un
// OrderBy les documents qui n'ont pas le champ.
func sortCategoriesByName(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
}

func sortProductsByName(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
}
