package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos156/elearning/internal/apperrors"
)

func TestMemoryGetNotFound(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	_, err := mem.Get(ctx, "things", "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryDocumentsDoNotAlias(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	data := map[string]interface{}{"name": "original"}
	require.NoError(t, mem.Set(ctx, "things", "t1", data))

	// Mutating the caller's map after Set must not affect stored state.
	data["name"] = "mutated"
	doc, err := mem.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "original", doc.Data["name"])

	// Mutating a read result must not affect stored state either.
	doc.Data["name"] = "mutated again"
	doc, err = mem.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "original", doc.Data["name"])
}

func TestMemoryQueryFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "things", "b", map[string]interface{}{"kind": "x"}))
	require.NoError(t, mem.Set(ctx, "things", "a", map[string]interface{}{"kind": "x"}))
	require.NoError(t, mem.Set(ctx, "things", "c", map[string]interface{}{"kind": "y"}))

	docs, err := mem.Query(ctx, "things", Filter{Field: "kind", Value: "x"})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestMemoryUpdatePrecondition(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "things", "t1", map[string]interface{}{"status": "pending"}))

	err := mem.Update(ctx, "things", "t1",
		[]Update{{Field: "status", Value: "approved"}},
		Precondition{Field: "status", Equals: "pending"},
	)
	require.NoError(t, err)

	// The same guarded update now fails: the field moved on.
	err = mem.Update(ctx, "things", "t1",
		[]Update{{Field: "status", Value: "rejected"}},
		Precondition{Field: "status", Equals: "pending"},
	)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	doc, err := mem.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, "approved", doc.Data["status"])
}

func TestMemoryUpdateMissingDocument(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	err := mem.Update(ctx, "things", "missing", []Update{{Field: "x", Value: 1}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMemoryTransactionCommit(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "things", "t1", map[string]interface{}{"count": 0}))

	err := mem.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Update("things", "t1", []Update{{Field: "count", Value: 1}}); err != nil {
			return err
		}
		_, err := tx.Create("audit", map[string]interface{}{"action": "bump"})
		return err
	})
	require.NoError(t, err)

	doc, err := mem.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Data["count"])

	audit, err := mem.Query(ctx, "audit")
	require.NoError(t, err)
	assert.Len(t, audit, 1)
}

func TestMemoryTransactionQuery(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "things", "t1", map[string]interface{}{"kind": "x"}))
	require.NoError(t, mem.Set(ctx, "things", "t2", map[string]interface{}{"kind": "y"}))

	err := mem.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		docs, err := tx.Query("things", Filter{Field: "kind", Value: "x"})
		if err != nil {
			return err
		}
		require.Len(t, docs, 1)
		assert.Equal(t, "t1", docs[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "things", "t1", map[string]interface{}{"count": 0}))

	boom := errors.New("boom")
	err := mem.RunTransaction(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Update("things", "t1", []Update{{Field: "count", Value: 99}}); err != nil {
			return err
		}
		if _, err := tx.Create("audit", map[string]interface{}{"action": "bump"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Every write inside the failed callback is rolled back.
	doc, err := mem.Get(ctx, "things", "t1")
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Data["count"])

	audit, err := mem.Query(ctx, "audit")
	require.NoError(t, err)
	assert.Empty(t, audit)
}

func TestMemorySubcollectionPaths(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()

	require.NoError(t, mem.Set(ctx, "lessons/l1/pages", "Page 1", map[string]interface{}{"textContent": "intro"}))
	require.NoError(t, mem.Set(ctx, "lessons/l2/pages", "Page 1", map[string]interface{}{"textContent": "other"}))

	doc, err := mem.Get(ctx, "lessons/l1/pages", "Page 1")
	require.NoError(t, err)
	assert.Equal(t, "intro", doc.Data["textContent"])

	docs, err := mem.Query(ctx, "lessons/l1/pages")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}
