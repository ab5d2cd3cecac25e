package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDense(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   bool
	}{
		{name: "empty", values: nil, want: true},
		{name: "single", values: []int{0}, want: true},
		{name: "unsorted", values: []int{2, 0, 1}, want: true},
		{name: "gap", values: []int{0, 2}, want: false},
		{name: "duplicate", values: []int{0, 0}, want: false},
		{name: "negative", values: []int{-1, 0}, want: false},
		{name: "not zero based", values: []int{1, 2}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDense(tt.values))
		})
	}
}

// insertGapped writes rows with arbitrary positions, bypassing the engine.
func insertGapped(t *testing.T, db *gorm.DB, work, product string, order, reference int) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO work_to_products (work_id, product_id, order_index, reference_order) VALUES (?, ?, ?, ?)",
		work, product, order, reference,
	).Error)
}

// TestEngine_Compact tests renumbering of gapped owner and child groups.
func TestEngine_Compact(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, "works", "W1", "W2", "W3")
	seed(t, db, "products", "P1", "P2", "P3")
	e := NewEngine()
	ctx := context.Background()

	insertGapped(t, db, "W1", "P1", 3, 4)
	insertGapped(t, db, "W1", "P2", 7, 0)
	insertGapped(t, db, "W1", "P3", 10, 0)
	insertGapped(t, db, "W2", "P1", 0, 9)
	insertGapped(t, db, "W3", "P1", 0, 1)

	moved, err := e.Compact(ctx, db, workToProducts, ScopeOwner, Key{"W1"})
	require.NoError(t, err)
	assert.Equal(t, 3, moved)
	assert.Equal(t, map[string]int{"P1": 0, "P2": 1, "P3": 2}, ownerOrders(t, db, workToProducts, Key{"W1"}))

	moved, err = e.Compact(ctx, db, workToProducts, ScopeChild, Key{"P1"})
	require.NoError(t, err)
	assert.Equal(t, 3, moved)
	assert.Equal(t, map[string]int{"W3": 0, "W1": 1, "W2": 2}, referenceOrders(t, db, workToProducts, "P1"))

	moved, err = e.Compact(ctx, db, workToProducts, ScopeChild, Key{"P1"})
	require.NoError(t, err)
	assert.Zero(t, moved, "dense groups are left alone")

	_, err = e.Compact(ctx, db, workGenres, ScopeChild, Key{"G1"})
	assert.ErrorIs(t, err, ErrNotCrossReferencing)

	_, err = e.Compact(ctx, db, workToProducts, ScopeChild, Key{"P1", "x"})
	assert.ErrorIs(t, err, ErrKeyShape)
}
