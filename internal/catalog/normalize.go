package catalog

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// Valeurs par défaut des champs absents ou vides
const (
	DefaultProductName   = "Untitled product"
	DefaultCategoryName  = "Untitled category"
	DefaultDescription   = "No description available."
	DefaultImage         = "/images/placeholder-product.jpg"
	DefaultCategoryImage = "/images/placeholder-category.jpg"
	DefaultSerialNumber  = "N/A"
	DefaultCategory      = "uncategorized"

	synthesizedDescription = "Browse our selection of %s products."
)

// NormalizeProduct construit un produit complet à partir d'un document brut.
// La catégorie suit resolveCategoryID (categoryRef puis category), sinon DefaultCategory.
func NormalizeProduct(doc store.Document) models.Product {
	d := doc.Data
	p := models.Product{
		ID:           doc.ID,
		Name:         stringOr(d["name"], DefaultProductName),
		Description:  stringOr(d["description"], DefaultDescription),
		SerialNumber: stringOr(d["serialNumber"], DefaultSerialNumber),
		Image:        stringOr(d["image"], DefaultImage),
		Category:     DefaultCategory,
		Variations:   decodeVariations(doc.ID, d["variations"]),
	}
	if ref, ok := store.AsRef(d["categoryRef"]); ok {
		p.CategoryRef = ref.Path()
	}
	if id, ok := resolveCategoryID(d); ok {
		p.Category = id
	}
	return p
}

func NormalizeCategory(doc store.Document) models.Category {
	d := doc.Data
	return models.Category{
		ID:          doc.ID,
		Name:        stringOr(d["name"], DefaultCategoryName),
		Description: stringOr(d["description"], DefaultDescription),
		Image:       stringOr(d["image"], DefaultCategoryImage),
	}
}

func fillProductDefaults(p models.Product) models.Product {
	p.Name = stringOr(p.Name, DefaultProductName)
	p.Description = stringOr(p.Description, DefaultDescription)
	p.SerialNumber = stringOr(p.SerialNumber, DefaultSerialNumber)
	p.Image = stringOr(p.Image, DefaultImage)
	p.Category = stringOr(p.Category, DefaultCategory)
	if p.Variations == nil {
		p.Variations = []models.Variation{}
	}
	return p
}

func fillCategoryDefaults(c models.Category) models.Category {
	c.Name = stringOr(c.Name, DefaultCategoryName)
	c.Description = stringOr(c.Description, DefaultDescription)
	c.Image = stringOr(c.Image, DefaultCategoryImage)
	return c
}

// stringOr retourne v tel quel s'il n'est pas vide, def sinon.
func stringOr(v any, def string) string {
	s := cast.ToString(v)
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func decodeVariations(productID string, raw any) []models.Variation {
	vars := []models.Variation{}
	if raw == nil {
		return vars
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &vars,
		WeaklyTypedInput: true,
	})
	if err == nil {
		err = dec.Decode(raw)
	}
	if err != nil {
		zap.S().Debugw("variations illisibles, ignorées", "product", productID, "error", err)
		return []models.Variation{}
	}
	for i := range vars {
		if vars[i].Attributes == nil {
			vars[i].Attributes = []models.Attribute{}
		}
	}
	return vars
}

// resolveCategoryID lit l'identifiant de catégorie d'un document produit brut :
// dernier segment de categoryRef, sinon le champ category.
func resolveCategoryID(data map[string]any) (string, bool) {
	if ref, ok := store.AsRef(data["categoryRef"]); ok {
		return ref.ID, true
	}
	if s, ok := data["categoryRef"].(string); ok && strings.TrimSpace(s) != "" {
		return s, true
	}
	if s := strings.TrimSpace(cast.ToString(data["category"])); s != "" {
		return s, true
	}
	return "", false
}

// SynthesizeCategory fabrique une catégorie pour un identifiant absent de la collection.
func SynthesizeCategory(id string) models.Category {
	name := capitalize(id)
	return models.Category{
		ID:          id,
		Name:        name,
		Description: fmt.Sprintf(synthesizedDescription, name),
		Image:       DefaultCategoryImage,
		Synthesized: true,
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
