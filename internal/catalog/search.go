package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"catalogue_back_end/internal/guard"
	"catalogue_back_end/internal/models"
)

// ErrSearchDisabled est retourné par ReindexProducts quand aucun index n'est configuré.
var ErrSearchDisabled = errors.New("recherche désactivée")

// SearchLimit borne le nombre de résultats d'une recherche.
const SearchLimit = 50

// SearchProducts interroge l'index de recherche dans le délai des listes. Sans
// index, ou si l'index échoue ou tarde, la liste des produits est filtrée en mémoire.
func (s *Service) SearchProducts(ctx context.Context, query string) []models.Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Product{}
	}
	if s.index != nil {
		res := guard.Read(ctx, "products.search", s.timeouts.List, nil,
			func(ctx context.Context) ([]models.Product, error) {
				return s.index.Search(ctx, query, SearchLimit)
			})
		if !res.FallbackUsed {
			if res.Value == nil {
				return []models.Product{}
			}
			return res.Value
		}
		zap.S().Warnw("⚠️ Recherche indexée échouée, filtrage local", "query", query, "timeout", res.TimedOut, "error", res.Err)
	}
	return filterProducts(s.GetAllProducts(ctx), query, SearchLimit)
}

func filterProducts(products []models.Product, query string, limit int) []models.Product {
	terms := strings.Fields(strings.ToLower(query))
	out := []models.Product{}
	for _, p := range products {
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.SerialNumber)
		match := true
		for _, t := range terms {
			if !strings.Contains(haystack, t) {
				match = false
				break
			}
		}
		if match {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// ReindexProducts pousse tous les produits dans l'index et retourne leur nombre.
// Rien n'est indexé si la base ne répond pas : les données de repli n'ont pas
// leur place dans l'index.
func (s *Service) ReindexProducts(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, ErrSearchDisabled
	}
	res := s.listProducts(ctx)
	if res.FallbackUsed {
		return 0, res.Err
	}
	if err := s.index.IndexProducts(ctx, res.Value); err != nil {
		return 0, err
	}
	zap.S().Infow("🔎 Index des produits reconstruit", "count", len(res.Value))
	return len(res.Value), nil
}
