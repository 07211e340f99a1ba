package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"

	"catalogue_back_end/internal/models"
)

//
// --- INDEX DE RECHERCHE DES PRODUITS ---
//

// ElasticIndex indexe les produits du catalogue dans Elasticsearch.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticIndex(client *elasticsearch.Client, index string) *ElasticIndex {
	if index == "" {
		index = "products"
	}
	return &ElasticIndex{client: client, index: index}
}

// IndexProducts envoie les produits en une seule requête bulk.
func (e *ElasticIndex) IndexProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, p := range products {
		meta := map[string]any{"index": map[string]any{"_index": e.index, "_id": p.ID}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("encodage bulk: %w", err)
		}
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encodage produit %s: %w", p.ID, err)
		}
	}

	req := esapi.BulkRequest{
		Body:    &buf,
		Refresh: "true", // rend les produits visibles immédiatement
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("requête bulk Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("Elastic a refusé l'indexation: %s", res.String())
	}

	var body struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return fmt.Errorf("décodage réponse bulk: %w", err)
	}
	if body.Errors {
		return errors.New("certains produits n'ont pas été indexés")
	}

	zap.S().Debugw("✅ Produits indexés dans Elasticsearch", "count", len(products))
	return nil
}

// DeleteProduct retire un produit de l'index. Un produit absent n'est pas une erreur.
func (e *ElasticIndex) DeleteProduct(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{
		Index:      e.index,
		DocumentID: id,
		Refresh:    "true",
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("requête suppression Elastic: %w", err)
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("Elastic a refusé la suppression de %s: %s", id, res.String())
	}
	return nil
}

//
// --- RECHERCHE ---
//

// Search cherche les produits par nom, description ou numéro de série.
func (e *ElasticIndex) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":    query,
				"fields":   []string{"name^3", "description", "serialNumber"},
				"operator": "and",
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("encodage requête: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{e.index},
		Body:  &buf,
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("requête Elastic: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("Elastic a renvoyé une erreur: %s", res.String())
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("décodage JSON: %w", err)
	}

	products := make([]models.Product, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
