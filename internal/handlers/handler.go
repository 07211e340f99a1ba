// Package handlers expose le catalogue en HTTP (gin).
package handlers

import (
	"context"
	"io"

	"go.uber.org/zap"

	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/models"
)

// Catalogue regroupe les opérations utilisées par les handlers.
type Catalogue interface {
	GetAllCategories(ctx context.Context) []models.Category
	GetCategoryByID(ctx context.Context, id string) (models.Category, bool)
	GetAllProducts(ctx context.Context) []models.Product
	GetProductByID(ctx context.Context, id string) (models.Product, bool)
	GetProductsByCategory(ctx context.Context, categoryID string) []models.Product
	GroupByCategory(ctx context.Context) models.CategoryGrouping
	SearchProducts(ctx context.Context, query string) []models.Product

	AddLead(ctx context.Context, fields map[string]any) (string, bool)
	AddContactForm(ctx context.Context, fields map[string]any) (string, bool)
	AddCatalogueRequest(ctx context.Context, fields map[string]any) (string, bool)

	AddProduct(ctx context.Context, fields map[string]any) (string, bool)
	UpdateProduct(ctx context.Context, id string, fields map[string]any) bool
	DeleteProduct(ctx context.Context, id string) bool
	ReindexProducts(ctx context.Context) (int, error)
}

// Images signe les clés d'objet des images et reçoit les envois admin.
type Images interface {
	SignedURL(ctx context.Context, image string) (string, error)
	Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

type Handler struct {
	catalog Catalogue
	images  Images
	auth    config.AuthConfig
}

// New construit les handlers. images peut être nil : les images sont alors
// renvoyées telles quelles et l'envoi d'images est désactivé.
func New(catalog Catalogue, images Images, auth config.AuthConfig) *Handler {
	return &Handler{catalog: catalog, images: images, auth: auth}
}

func (h *Handler) signImage(ctx context.Context, image string) string {
	if h.images == nil {
		return image
	}
	signed, err := h.images.SignedURL(ctx, image)
	if err != nil {
		zap.S().Warnw("⚠️ Signature d'image impossible", "image", image, "error", err)
		return image
	}
	return signed
}

func (h *Handler) signProduct(ctx context.Context, p models.Product) models.Product {
	p.Image = h.signImage(ctx, p.Image)
	return p
}

func (h *Handler) signProducts(ctx context.Context, products []models.Product) []models.Product {
	for i := range products {
		products[i] = h.signProduct(ctx, products[i])
	}
	return products
}

func (h *Handler) signCategory(ctx context.Context, c models.Category) models.Category {
	c.Image = h.signImage(ctx, c.Image)
	return c
}

func (h *Handler) signCategories(ctx context.Context, categories []models.Category) []models.Category {
	for i := range categories {
		categories[i] = h.signCategory(ctx, categories[i])
	}
	return categories
}
