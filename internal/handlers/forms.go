package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxFormFields borne le nombre de champs acceptés dans un formulaire.
const MaxFormFields = 50

type submitFunc func(ctx context.Context, fields map[string]any) (string, bool)

// submit lit un objet JSON libre et l'enregistre avec add.
func submit(c *gin.Context, add submitFunc) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Un objet JSON non vide est attendu"})
		return
	}
	if len(fields) > MaxFormFields {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Trop de champs"})
		return
	}

	id, ok := add(c.Request.Context(), fields)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Enregistrement impossible, réessayez plus tard"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// 📨 Demande commerciale
func (h *Handler) CreateLead(c *gin.Context) {
	submit(c, h.catalog.AddLead)
}

func (h *Handler) CreateContactForm(c *gin.Context) {
	submit(c, h.catalog.AddContactForm)
}

// 📨 Demande de catalogue
func (h *Handler) CreateCatalogueRequest(c *gin.Context) {
	submit(c, h.catalog.AddCatalogueRequest)
}
