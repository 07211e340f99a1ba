package models

// Attribute est une paire titre/valeur d'une variation (ex. "Couleur" / "Rouge").
type Attribute struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
}

type Variation struct {
	Name       string      `json:"name" yaml:"name" mapstructure:"name"`
	Attributes []Attribute `json:"attributes" yaml:"attributes" mapstructure:"attributes"`
}

// Product est la vue normalisée d'un document de la collection products.
// Category contient l'identifiant de catégorie résolu, CategoryRef le chemin
// de la référence quand le document en porte une.
type Product struct {
	ID           string      `json:"id" yaml:"id"`
	Name         string      `json:"name" yaml:"name"`
	Description  string      `json:"description" yaml:"description"`
	SerialNumber string      `json:"serialNumber" yaml:"serialNumber"`
	Image        string      `json:"image" yaml:"image"`
	Category     string      `json:"category" yaml:"category"`
	CategoryRef  string      `json:"categoryRef,omitempty" yaml:"categoryRef,omitempty"`
	Variations   []Variation `json:"variations" yaml:"variations"`
}
