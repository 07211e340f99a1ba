// Package catalog expose les lectures et écritures du catalogue. Toute lecture
// passe par guard : l'appelant reçoit toujours des données exploitables, au
// pire les données de repli statiques.
package catalog

import (
	"context"
	"time"

	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// SearchIndex est l'index de recherche plein texte des produits.
type SearchIndex interface {
	IndexProducts(ctx context.Context, products []models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// Notifier est prévenu après chaque soumission enregistrée.
type Notifier interface {
	SubmissionReceived(kind, id string, fields map[string]any)
}

type Service struct {
	store    store.DocumentStore
	timeouts config.Timeouts
	fallback *Fallback
	index    SearchIndex
	notifier Notifier
}

type Option func(*Service)

func WithTimeouts(t config.Timeouts) Option {
	return func(s *Service) {
		if t.Document > 0 {
			s.timeouts.Document = t.Document
		}
		if t.List > 0 {
			s.timeouts.List = t.List
		}
		if t.Group > 0 {
			s.timeouts.Group = t.Group
		}
		if t.Write > 0 {
			s.timeouts.Write = t.Write
		}
	}
}

func WithFallback(f *Fallback) Option {
	return func(s *Service) {
		if f != nil {
			s.fallback = f
		}
	}
}

func WithSearchIndex(i SearchIndex) Option {
	return func(s *Service) { s.index = i }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// DefaultTimeouts : les lectures unitaires sont plus courtes que les agrégations.
func DefaultTimeouts() config.Timeouts {
	return config.Timeouts{
		Document: 5 * time.Second,
		List:     10 * time.Second,
		Group:    15 * time.Second,
		Write:    10 * time.Second,
	}
}

func New(st store.DocumentStore, opts ...Option) *Service {
	s := &Service{
		store:    st,
		timeouts: DefaultTimeouts(),
		fallback: DefaultFallback(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
