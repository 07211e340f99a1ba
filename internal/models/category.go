package models

type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image" yaml:"image"`
	// Synthesized marque une catégorie fabriquée à partir d'une référence
	// produit absente de la collection categories.
	Synthesized bool `json:"synthesized,omitempty" yaml:"-"`
}

type CategoryGroup struct {
	Category Category  `json:"category"`
	Products []Product `json:"products"`
}

// CategoryGrouping regroupe les produits par identifiant de catégorie.
type CategoryGrouping struct {
	Categories   []Category                `json:"categories"`
	ByCategoryID map[string]*CategoryGroup `json:"byCategoryId"`
}
