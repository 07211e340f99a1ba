package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/handlers"
	"catalogue_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, rdb *redis.Client, cfg config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Catalogue
	api.GET("/categories", h.GetAllCategories)
	api.GET("/categories/:id", h.GetCategory)
	api.GET("/categories/:id/products", h.GetCategoryProducts)
	api.GET("/catalogue", h.GetCatalogue)
	api.GET("/products", h.GetAllProducts)
	api.GET("/products/search", middleware.SearchRateLimit(rdb), h.SearchProducts)
	api.GET("/products/:id", h.GetProduct)

	// Formulaires
	forms := api.Group("", middleware.SubmissionRateLimit(rdb, cfg.Redis.SubmitMax, cfg.Redis.SubmitCooldown))
	forms.POST("/leads", h.CreateLead)
	forms.POST("/contact", h.CreateContactForm)
	forms.POST("/catalogue-requests", h.CreateCatalogueRequest)

	// Administration
	api.POST("/admin/login", middleware.LoginRateLimit(rdb), h.AdminLogin)
	admin := api.Group("/admin", middleware.AdminRequired(cfg.Auth.JWTSecret))
	admin.POST("/products", h.CreateProduct)
	admin.PUT("/products/:id", h.UpdateProduct)
	admin.DELETE("/products/:id", h.DeleteProduct)
	admin.POST("/images", h.UploadImage)
	admin.POST("/search/reindex", h.ReindexProducts)
}
