package reconcile

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// TestSequence_NextReadsLatestTail tests that Next reads the existing row and the tail
// with locking reads, so a REPEATABLE READ snapshot older than the group lock is not used.
func TestSequence_NextReadsLatestTail(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM `work_to_products` WHERE .* LIMIT \\? FOR UPDATE").
		WillReturnRows(sqlmock.NewRows(workToProducts.Columns()))
	mock.ExpectQuery("SELECT MAX\\(reference_order\\) FROM `work_to_products` WHERE product_id = \\? FOR UPDATE").
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(4)))
	mock.ExpectCommit()

	var next int
	err := NewEngine().Run(context.Background(), db, func(s *Session) error {
		seq, err := s.Sequence(workToProducts, "P1")
		if err != nil {
			return err
		}
		next, err = seq.Next(Key{"W9"})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 5, next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequence_NextEmptyGroup(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT MAX\\(reference_order\\) FROM `work_to_products` WHERE product_id = \\? FOR UPDATE").
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectCommit()

	var max int
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		max, err = maxReferenceOrder(tx, workToProducts, "P1")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, -1, max)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCompact_LockingRead tests that both compaction scopes load their group with a
// locking read. Dense groups issue no writes.
func TestCompact_LockingRead(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		group Key
		query string
		rows  [][]driver.Value
	}{
		{
			name:  "Child",
			scope: ScopeChild,
			group: Key{"P1"},
			query: "FROM `work_to_products` WHERE product_id = \\? ORDER BY reference_order FOR UPDATE",
			rows: [][]driver.Value{
				{"W1", "P1", int64(0), nil, nil, int64(0)},
				{"W2", "P1", int64(0), nil, nil, int64(1)},
			},
		},
		{
			name:  "Owner",
			scope: ScopeOwner,
			group: Key{"W1"},
			query: "FROM `work_to_products` WHERE .* ORDER BY order_index FOR UPDATE",
			rows: [][]driver.Value{
				{"W1", "P1", int64(0), nil, nil, int64(0)},
				{"W1", "P2", int64(1), nil, nil, int64(0)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)

			rows := sqlmock.NewRows(workToProducts.Columns())
			for _, r := range tt.rows {
				rows.AddRow(r...)
			}

			mock.ExpectBegin()
			mock.ExpectQuery(tt.query).WillReturnRows(rows)
			mock.ExpectCommit()

			var moved int
			err := db.Transaction(func(tx *gorm.DB) error {
				var err error
				moved, err = Compact(tx, workToProducts, tt.scope, tt.group)
				return err
			})
			require.NoError(t, err)
			assert.Zero(t, moved)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
