// Package store abstracts the document database behind the services. The
// production implementation is backed by Firestore; tests inject the
// in-memory implementation.
package store

import (
	"context"

	"github.com/mitchellh/mapstructure"
)

// Document is one record of a collection.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// DataTo decodes the document's fields into out.
func (d *Document) DataTo(out interface{}) error {
	return mapstructure.Decode(d.Data, out)
}

// Filter is an equality constraint on a Query.
type Filter struct {
	Field string
	Value interface{}
}

// Update is a single-field patch entry.
type Update struct {
	Field string
	Value interface{}
}

// Precondition guards an Update: the named field must currently equal the
// given value, otherwise the update fails with apperrors.ErrConflict.
type Precondition struct {
	Field  string
	Equals interface{}
}

// Tx is the transactional view of the store. Every read and write issued
// through a Tx commits atomically or not at all.
type Tx interface {
	Get(collection, id string) (*Document, error)
	Query(collection string, filters ...Filter) ([]*Document, error)
	Create(collection string, data map[string]interface{}) (string, error)
	Set(collection, id string, data map[string]interface{}) error
	Update(collection, id string, updates []Update) error
}

// Store is the document database interface consumed by all services.
// Collection names may be slash-separated paths for subcollections
// (e.g. "lessons/{id}/pages"). Get returns apperrors.ErrNotFound for
// absent documents.
type Store interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error)
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	Update(ctx context.Context, collection, id string, updates []Update, preconditions ...Precondition) error
	Delete(ctx context.Context, collection, id string) error
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
