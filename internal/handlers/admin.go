package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalogue_back_end/internal/catalog"
	"catalogue_back_end/internal/utils"
)

// MaxImageSize borne la taille d'une image envoyée (10 MB).
const MaxImageSize = 10 << 20

// 🔐 Connexion administrateur
func (h *Handler) AdminLogin(c *gin.Context) {
	var input struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mot de passe requis"})
		return
	}
	if h.auth.AdminPasswordHash == "" || h.auth.JWTSecret == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Administration désactivée"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, h.auth.AdminPasswordHash)
	if err != nil {
		zap.S().Errorw("❌ Hash administrateur illisible", "error", err)
	}
	if !ok {
		zap.S().Warnw("❌ Mot de passe admin incorrect", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Identifiants invalides"})
		return
	}

	token, err := utils.GenerateAdminJWT(h.auth.JWTSecret, h.auth.TokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Génération du token impossible"})
		return
	}
	zap.S().Infow("✅ Connexion admin", "ip", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int(h.auth.TokenTTL.Seconds())})
}

// 🟢 Créer un produit
func (h *Handler) CreateProduct(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name, _ := fields["name"].(string)
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le champ 'name' est obligatoire"})
		return
	}

	id, ok := h.catalog.AddProduct(c.Request.Context(), fields)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Création impossible, réessayez plus tard"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// 🟠 Mettre à jour un produit
func (h *Handler) UpdateProduct(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucun champ à mettre à jour"})
		return
	}
	if !h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), fields) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable ou mise à jour impossible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit mis à jour"})
}

// 🔴 Supprimer un produit
func (h *Handler) DeleteProduct(c *gin.Context) {
	if !h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable ou suppression impossible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// 🔎 Reconstruire l'index de recherche
func (h *Handler) ReindexProducts(c *gin.Context) {
	n, err := h.catalog.ReindexProducts(c.Request.Context())
	if errors.Is(err, catalog.ErrSearchDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche non configurée"})
		return
	}
	if err != nil {
		zap.S().Errorw("❌ Réindexation échouée", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Réindexation échouée"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexed": n})
}

// 🖼️ Envoyer une image produit
func (h *Handler) UploadImage(c *gin.Context) {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Stockage d'images non configuré"})
		return
	}
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}
	if file.Size > MaxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image trop volumineuse"})
		return
	}
	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le fichier doit être une image"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	ctx := c.Request.Context()
	key, err := h.images.Upload(ctx, file.Filename, f, file.Size, contentType)
	if err != nil {
		zap.S().Errorw("❌ Envoi d'image échoué", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Envoi de l'image impossible"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key, "url": h.signImage(ctx, key)})
}
