package catalog

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"catalogue_back_end/internal/models"
)

// Fallback contient les données statiques servies quand la base ne répond pas.
type Fallback struct {
	Categories []models.Category `yaml:"categories"`
	Products   []models.Product  `yaml:"products"`
}

// DefaultFallback retourne le catalogue de repli intégré.
func DefaultFallback() *Fallback {
	return &Fallback{
		Categories: []models.Category{
			{
				ID:          "machinery",
				Name:        "Machinery",
				Description: "Industrial machines and spare parts.",
				Image:       "/images/categories/machinery.jpg",
			},
			{
				ID:          "packaging",
				Name:        "Packaging",
				Description: "Boxes, films and packaging consumables.",
				Image:       "/images/categories/packaging.jpg",
			},
			{
				ID:          "textiles",
				Name:        "Textiles",
				Description: "Technical fabrics and workwear.",
				Image:       "/images/categories/textiles.jpg",
			},
		},
		Products: []models.Product{
			{
				ID:           "fallback-cnc-router",
				Name:         "CNC Router 1325",
				Description:  "Three-axis router for wood and composite panels.",
				SerialNumber: "MCH-1325",
				Image:        "/images/products/cnc-router.jpg",
				Category:     "machinery",
				Variations: []models.Variation{
					{Name: "Spindle", Attributes: []models.Attribute{{Title: "Power", Value: "3.2 kW"}, {Title: "Cooling", Value: "Water"}}},
				},
			},
			{
				ID:           "fallback-stretch-film",
				Name:         "Stretch Film 23µ",
				Description:  "Cast stretch film for manual pallet wrapping.",
				SerialNumber: "PKG-0023",
				Image:        "/images/products/stretch-film.jpg",
				Category:     "packaging",
				Variations:   []models.Variation{},
			},
			{
				ID:           "fallback-workwear-jacket",
				Name:         "Workwear Jacket",
				Description:  "Durable polycotton jacket with reflective strips.",
				SerialNumber: "TXT-0107",
				Image:        "/images/products/workwear-jacket.jpg",
				Category:     "textiles",
				Variations: []models.Variation{
					{Name: "Size", Attributes: []models.Attribute{{Title: "M", Value: "48-50"}, {Title: "L", Value: "52-54"}}},
				},
			},
		},
	}
}

// LoadFallback lit un catalogue de repli YAML. Les champs vides reçoivent
// les mêmes valeurs par défaut que les documents lus en base.
func LoadFallback(path string) (*Fallback, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lecture du catalogue de repli: %w", err)
	}
	var f Fallback
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("décodage du catalogue de repli: %w", err)
	}
	for i := range f.Categories {
		f.Categories[i] = fillCategoryDefaults(f.Categories[i])
	}
	for i := range f.Products {
		f.Products[i] = fillProductDefaults(f.Products[i])
	}
	sort.SliceStable(f.Categories, func(i, j int) bool { return f.Categories[i].Name < f.Categories[j].Name })
	return &f, nil
}

// Les accesseurs retournent des copies : la valeur de repli ne doit jamais
// être modifiée par un appelant.

func (f *Fallback) categories() []models.Category {
	return append([]models.Category{}, f.Categories...)
}

func (f *Fallback) products() []models.Product {
	out := make([]models.Product, len(f.Products))
	for i, p := range f.Products {
		out[i] = copyProduct(p)
	}
	return out
}

func (f *Fallback) category(id string) *models.Category {
	for _, c := range f.Categories {
		if c.ID == id {
			c := c
			return &c
		}
	}
	return nil
}

func (f *Fallback) product(id string) *models.Product {
	for _, p := range f.Products {
		if p.ID == id {
			p := copyProduct(p)
			return &p
		}
	}
	return nil
}

func (f *Fallback) productsIn(categoryID string) []models.Product {
	out := []models.Product{}
	for _, p := range f.Products {
		if p.Category == categoryID {
			out = append(out, copyProduct(p))
		}
	}
	return out
}

func copyProduct(p models.Product) models.Product {
	vars := make([]models.Variation, len(p.Variations))
	for i, v := range p.Variations {
		vars[i] = models.Variation{Name: v.Name, Attributes: append([]models.Attribute{}, v.Attributes...)}
	}
	p.Variations = vars
	return p
}
