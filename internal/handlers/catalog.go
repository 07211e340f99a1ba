package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 🔵 Lister les catégories
func (h *Handler) GetAllCategories(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, h.signCategories(ctx, h.catalog.GetAllCategories(ctx)))
}

func (h *Handler) GetCategory(c *gin.Context) {
	ctx := c.Request.Context()
	cat, ok := h.catalog.GetCategoryByID(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}
	c.JSON(http.StatusOK, h.signCategory(ctx, cat))
}

// 🔵 Produits d'une catégorie
func (h *Handler) GetCategoryProducts(c *gin.Context) {
	ctx := c.Request.Context()
	products := h.catalog.GetProductsByCategory(ctx, c.Param("id"))
	c.JSON(http.StatusOK, h.signProducts(ctx, products))
}

// 📚 Catalogue complet regroupé par catégorie
func (h *Handler) GetCatalogue(c *gin.Context) {
	ctx := c.Request.Context()
	grouping := h.catalog.GroupByCategory(ctx)
	grouping.Categories = h.signCategories(ctx, grouping.Categories)
	for _, group := range grouping.ByCategoryID {
		group.Category = h.signCategory(ctx, group.Category)
		group.Products = h.signProducts(ctx, group.Products)
	}
	c.JSON(http.StatusOK, grouping)
}

// 🔵 Lister les produits
func (h *Handler) GetAllProducts(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, h.signProducts(ctx, h.catalog.GetAllProducts(ctx)))
}

func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	p, ok := h.catalog.GetProductByID(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}
	c.JSON(http.StatusOK, h.signProduct(ctx, p))
}

// 🔍 Recherche de produits
func (h *Handler) SearchProducts(c *gin.Context) {
	ctx := c.Request.Context()
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre 'q' manquant"})
		return
	}
	results := h.signProducts(ctx, h.catalog.SearchProducts(ctx, query))
	c.JSON(http.StatusOK, gin.H{"query": query, "count": len(results), "results": results})
}
