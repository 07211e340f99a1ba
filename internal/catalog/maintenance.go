package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"catalogue_back_end/internal/guard"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// Champs d'horodatage des produits
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// AddProduct crée un produit. Un categoryRef passé sous forme d'identifiant
// ou de chemin devient une vraie référence vers la collection des catégories.
func (s *Service) AddProduct(ctx context.Context, fields map[string]any) (string, bool) {
	doc := productFields(fields)
	doc[FieldCreatedAt] = store.ServerTimestamp
	doc[FieldUpdatedAt] = store.ServerTimestamp

	res := guard.Read(ctx, "products.insert", s.timeouts.Write, "",
		func(ctx context.Context) (string, error) {
			return s.store.Insert(ctx, store.Products, doc)
		})
	if res.FallbackUsed {
		zap.S().Errorw("❌ Création du produit impossible", "error", res.Err)
		return "", false
	}
	zap.S().Infow("✅ Produit créé", "id", res.Value)
	s.refreshIndex(ctx, res.Value)
	return res.Value, true
}

// UpdateProduct retourne false si le produit n'existe pas ou si l'écriture échoue.
func (s *Service) UpdateProduct(ctx context.Context, id string, fields map[string]any) bool {
	doc := productFields(fields)
	delete(doc, FieldCreatedAt)
	doc[FieldUpdatedAt] = store.ServerTimestamp

	res := guard.Read(ctx, "products.update", s.timeouts.Write, false,
		func(ctx context.Context) (bool, error) {
			err := s.store.Update(ctx, store.Products, id, doc)
			if errors.Is(err, store.ErrNotFound) {
				return false, nil
			}
			return err == nil, err
		})
	if res.FallbackUsed {
		zap.S().Errorw("❌ Mise à jour du produit impossible", "id", id, "error", res.Err)
		return false
	}
	if res.Value {
		s.refreshIndex(ctx, id)
	}
	return res.Value
}

// DeleteProduct retourne false si le produit n'existait pas.
func (s *Service) DeleteProduct(ctx context.Context, id string) bool {
	res := guard.Read(ctx, "products.delete", s.timeouts.Write, false,
		func(ctx context.Context) (bool, error) {
			if _, err := s.store.Get(ctx, store.Products, id); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return false, nil
				}
				return false, err
			}
			return true, s.store.Delete(ctx, store.Products, id)
		})
	if res.FallbackUsed {
		zap.S().Errorw("❌ Suppression du produit impossible", "id", id, "error", res.Err)
		return false
	}
	if res.Value && s.index != nil {
		if err := s.index.DeleteProduct(ctx, id); err != nil {
			zap.S().Warnw("⚠️ Produit supprimé mais toujours indexé", "id", id, "error", err)
		}
	}
	return res.Value
}

func productFields(fields map[string]any) map[string]any {
	doc := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	delete(doc, "id")
	if raw, ok := doc["categoryRef"].(string); ok {
		raw = strings.TrimSpace(raw)
		if ref, ok := store.AsRef(raw); ok {
			doc["categoryRef"] = ref
		} else if raw != "" {
			doc["categoryRef"] = store.Ref{Collection: store.Categories, ID: raw}
		} else {
			delete(doc, "categoryRef")
		}
	}
	return doc
}

func (s *Service) refreshIndex(ctx context.Context, id string) {
	if s.index == nil {
		return
	}
	p, ok := s.GetProductByID(ctx, id)
	if !ok {
		return
	}
	if err := s.index.IndexProducts(ctx, []models.Product{p}); err != nil {
		zap.S().Warnw("⚠️ Indexation du produit échouée", "id", id, "error", err)
	}
}
