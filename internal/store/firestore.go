package store

import (
	"context"
	"fmt"
	"reflect"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/chaos156/elearning/internal/apperrors"
)

// Firestore implements Store on top of a Firestore client.
type Firestore struct {
	client *firestore.Client
}

func NewFirestore(client *firestore.Client) *Firestore {
	return &Firestore{client: client}
}

func (f *Firestore) Get(ctx context.Context, collection, id string) (*Document, error) {
	doc, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting document: %v", err)
	}
	return &Document{ID: doc.Ref.ID, Data: doc.Data()}, nil
}

func (f *Firestore) Query(ctx context.Context, collection string, filters ...Filter) ([]*Document, error) {
	q := f.client.Collection(collection).Query
	for _, filter := range filters {
		q = q.Where(filter.Field, "==", filter.Value)
	}

	var docs []*Document
	iter := q.Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error querying %v: %v", collection, err)
		}
		docs = append(docs, &Document{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return docs, nil
}

func (f *Firestore) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := f.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("error creating document: %v", err)
	}
	return ref.ID, nil
}

func (f *Firestore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	_, err := f.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (f *Firestore) Update(ctx context.Context, collection, id string, updates []Update, preconditions ...Precondition) error {
	if len(preconditions) == 0 {
		_, err := f.client.Collection(collection).Doc(id).Update(ctx, toFirestoreUpdates(updates))
		if status.Code(err) == codes.NotFound {
			return apperrors.ErrNotFound
		}
		return err
	}

	// Firestore has no field-equality write precondition, so compare-and-swap
	// is realized as a transactional read-modify-write.
	return f.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		doc, err := tx.Get(collection, id)
		if err != nil {
			return err
		}
		for _, pre := range preconditions {
			if !reflect.DeepEqual(doc.Data[pre.Field], pre.Equals) {
				return apperrors.ErrConflict
			}
		}
		return tx.Update(collection, id, updates)
	})
}

func (f *Firestore) Delete(ctx context.Context, collection, id string) error {
	_, err := f.client.Collection(collection).Doc(id).Delete(ctx)
	return err
}

func (f *Firestore) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return f.client.RunTransaction(ctx, func(ctx context.Context, t *firestore.Transaction) error {
		return fn(ctx, &firestoreTx{client: f.client, tx: t})
	})
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTx) Get(collection, id string) (*Document, error) {
	doc, err := t.tx.Get(t.client.Collection(collection).Doc(id))
	if status.Code(err) == codes.NotFound {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &Document{ID: doc.Ref.ID, Data: doc.Data()}, nil
}

func (t *firestoreTx) Query(collection string, filters ...Filter) ([]*Document, error) {
	q := t.client.Collection(collection).Query
	for _, filter := range filters {
		q = q.Where(filter.Field, "==", filter.Value)
	}

	var docs []*Document
	iter := t.tx.Documents(q)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error querying %v: %v", collection, err)
		}
		docs = append(docs, &Document{ID: doc.Ref.ID, Data: doc.Data()})
	}
	return docs, nil
}

func (t *firestoreTx) Create(collection string, data map[string]interface{}) (string, error) {
	ref := t.client.Collection(collection).NewDoc()
	if err := t.tx.Create(ref, data); err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (t *firestoreTx) Set(collection, id string, data map[string]interface{}) error {
	return t.tx.Set(t.client.Collection(collection).Doc(id), data)
}

func (t *firestoreTx) Update(collection, id string, updates []Update) error {
	return t.tx.Update(t.client.Collection(collection).Doc(id), toFirestoreUpdates(updates))
}

func toFirestoreUpdates(updates []Update) []firestore.Update {
	out := make([]firestore.Update, 0, len(updates))
	for _, u := range updates {
		out = append(out, firestore.Update{Path: u.Field, Value: u.Value})
	}
	return out
}
