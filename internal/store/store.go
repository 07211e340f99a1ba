// Package store définit le client de base documentaire utilisé par le catalogue.
// Une base est vue comme un ensemble de collections nommées contenant des
// documents semi-structurés, adressés par un identifiant opaque.
package store

import (
	"context"
	"errors"
	"strings"
)

// Collections du catalogue
const (
	Categories        = "categories"
	Products          = "products"
	Leads             = "leads"
	ContactForms      = "contactForms"
	CatalogueRequests = "catalogueRequests"
)

// MaxResults est le plafond appliqué à toute lecture de liste.
const MaxResults = 100

var (
	ErrNotFound   = errors.New("document introuvable")
	ErrInvalidRef = errors.New("référence de document invalide")
)

// Document est un enregistrement brut lu depuis une collection.
type Document struct {
	ID   string
	Data map[string]any
}

// Ref pointe vers un document par collection et identifiant.
type Ref struct {
	Collection string
	ID         string
}

// Path retourne la forme "collection/id" de la référence.
func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// ParseRef lit un chemin de document. Seuls les deux derniers segments
// comptent, ce qui accepte aussi les chemins complets Firestore
// ("projects/p/databases/(default)/documents/categories/a").
func ParseRef(path string) (Ref, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return Ref{}, ErrInvalidRef
	}
	ref := Ref{Collection: parts[len(parts)-2], ID: parts[len(parts)-1]}
	if ref.Collection == "" || ref.ID == "" {
		return Ref{}, ErrInvalidRef
	}
	return ref, nil
}

// AsRef reconnaît les différentes formes qu'une référence prend une fois
// lue depuis un backend : Ref, *Ref, DBRef ({"$ref", "$id"}), objet {"path"}
// ou chemin texte contenant un "/".
func AsRef(v any) (Ref, bool) {
	switch r := v.(type) {
	case Ref:
		return r, r.ID != ""
	case *Ref:
		if r == nil {
			return Ref{}, false
		}
		return *r, r.ID != ""
	case map[string]any:
		return refFromMap(r)
	case string:
		if !strings.Contains(r, "/") {
			return Ref{}, false
		}
		ref, err := ParseRef(r)
		return ref, err == nil
	}
	return Ref{}, false
}

func refFromMap(m map[string]any) (Ref, bool) {
	if coll, ok := m["$ref"].(string); ok {
		id, ok := m["$id"].(string)
		if !ok || id == "" {
			return Ref{}, false
		}
		return Ref{Collection: coll, ID: id}, true
	}
	if path, ok := m["path"].(string); ok {
		ref, err := ParseRef(path)
		return ref, err == nil
	}
	return Ref{}, false
}

type serverTimestamp struct{}

// ServerTimestamp est remplacé par l'heure d'écriture côté backend.
var ServerTimestamp = serverTimestamp{}

// Filter est un filtre d'égalité sur un champ.
type Filter struct {
	Field string
	Value any
}

// Query décrit une lecture de liste : filtres d'égalité, tri ascendant et plafond.
// Avec Firestore, OrderBy écarte les documents qui n'ont pas le champ.
type Query struct {
	Filters []Filter
	OrderBy string
	Limit   int
}

// Where ajoute un filtre d'égalité.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// MaxDocs retourne le nombre maximal de documents à renvoyer.
func (q Query) MaxDocs() int {
	if q.Limit <= 0 || q.Limit > MaxResults {
		return MaxResults
	}
	return q.Limit
}

// DocumentStore est l'accès à la base documentaire.
type DocumentStore interface {
	// Get retourne ErrNotFound si le document n'existe pas.
	Get(ctx context.Context, collection, id string) (Document, error)

	List(ctx context.Context, collection string, q Query) ([]Document, error)

	// Insert crée un document et retourne l'identifiant généré.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Update fusionne les champs dans un document existant (ErrNotFound sinon).
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Delete est idempotent.
	Delete(ctx context.Context, collection, id string) error

	Close() error
}
