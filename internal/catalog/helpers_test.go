package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalogue_back_end/internal/config"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

var errUnavailable = errors.New("base indisponible")

// brokenStore échoue sur toutes les opérations.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string, string) (store.Document, error) {
	return store.Document{}, errUnavailable
}
func (brokenStore) List(context.Context, string, store.Query) ([]store.Document, error) {
	return nil, errUnavailable
}
func (brokenStore) Insert(context.Context, string, map[string]any) (string, error) {
	return "", errUnavailable
}
func (brokenStore) Update(context.Context, string, string, map[string]any) error {
	return errUnavailable
}
func (brokenStore) Delete(context.Context, string, string) error { return errUnavailable }
func (brokenStore) Close() error                                 { return nil }

// hangingStore bloque jusqu'à l'annulation du contexte et compte les annulations.
type hangingStore struct {
	brokenStore
	mu        sync.Mutex
	cancelled int
}

func (h *hangingStore) wait(ctx context.Context) error {
	<-ctx.Done()
	h.mu.Lock()
	h.cancelled++
	h.mu.Unlock()
	return ctx.Err()
}

func (h *hangingStore) Get(ctx context.Context, _, _ string) (store.Document, error) {
	return store.Document{}, h.wait(ctx)
}
func (h *hangingStore) List(ctx context.Context, _ string, _ store.Query) ([]store.Document, error) {
	return nil, h.wait(ctx)
}
func (h *hangingStore) Insert(ctx context.Context, _ string, _ map[string]any) (string, error) {
	return "", h.wait(ctx)
}

func (h *hangingStore) cancellations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cancelled
}

func shortTimeouts() config.Timeouts {
	return config.Timeouts{
		Document: 50 * time.Millisecond,
		List:     50 * time.Millisecond,
		Group:    200 * time.Millisecond,
		Write:    50 * time.Millisecond,
	}
}

// fakeIndex enregistre les appels reçus. Avec hang, Search bloque jusqu'à l'annulation.
type fakeIndex struct {
	mu      sync.Mutex
	indexed []models.Product
	deleted []string
	hits    []models.Product
	err     error
	hang    bool
}

func (f *fakeIndex) IndexProducts(_ context.Context, products []models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, products...)
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeIndex) Search(ctx context.Context, _ string, _ int) ([]models.Product, error) {
	if f.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type sentSubmission struct {
	kind, id string
	fields   map[string]any
}

type fakeNotifier struct {
	sent []sentSubmission
}

func (f *fakeNotifier) SubmissionReceived(kind, id string, fields map[string]any) {
	f.sent = append(f.sent, sentSubmission{kind: kind, id: id, fields: fields})
}

func catRef(id string) store.Ref {
	return store.Ref{Collection: store.Categories, ID: id}
}
