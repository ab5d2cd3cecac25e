package reconcile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	workToProducts = &Kind{
		Name:             "work_to_products",
		Table:            "work_to_products",
		OwnerEntity:      "work",
		OwnerColumns:     []Column{{Name: "work_id"}},
		ChildColumn:      "product_id",
		ChildTable:       "products",
		Named:            true,
		CrossReferencing: true,
	}

	workGenres = &Kind{
		Name:         "work_genres",
		Table:        "work_genres",
		OwnerEntity:  "work",
		OwnerColumns: []Column{{Name: "work_id"}},
		ChildColumn:  "genre_id",
		ChildTable:   "genres",
	}

	trackToWorks = &Kind{
		Name:        "track_to_works",
		Table:       "track_to_works",
		OwnerEntity: "track",
		OwnerColumns: []Column{
			{Name: "release_id"},
			{Name: "media_number", Numeric: true},
			{Name: "track_number", Numeric: true},
		},
		ChildColumn:      "work_id",
		ChildTable:       "works",
		Named:            true,
		CrossReferencing: true,
	}
)

const testSchema = `
CREATE TABLE products (id TEXT PRIMARY KEY, name TEXT);
CREATE TABLE works (id TEXT PRIMARY KEY, title TEXT);
CREATE TABLE genres (id TEXT PRIMARY KEY);
CREATE TABLE tracks (
	release_id TEXT NOT NULL,
	media_number INTEGER NOT NULL,
	track_number INTEGER NOT NULL,
	PRIMARY KEY (release_id, media_number, track_number)
);
CREATE TABLE work_to_products (
	work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	order_index INTEGER NOT NULL,
	name TEXT,
	description TEXT,
	reference_order INTEGER NOT NULL,
	PRIMARY KEY (work_id, product_id),
	UNIQUE (work_id, order_index),
	UNIQUE (product_id, reference_order)
);
CREATE TABLE work_genres (
	work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
	genre_id TEXT NOT NULL REFERENCES genres(id) ON DELETE CASCADE,
	order_index INTEGER NOT NULL,
	PRIMARY KEY (work_id, genre_id),
	UNIQUE (work_id, order_index)
);
CREATE TABLE track_to_works (
	release_id TEXT NOT NULL,
	media_number INTEGER NOT NULL,
	track_number INTEGER NOT NULL,
	work_id TEXT NOT NULL REFERENCES works(id) ON DELETE CASCADE,
	order_index INTEGER NOT NULL,
	name TEXT,
	description TEXT,
	reference_order INTEGER NOT NULL,
	PRIMARY KEY (release_id, media_number, track_number, work_id),
	UNIQUE (release_id, media_number, track_number, order_index),
	UNIQUE (work_id, reference_order),
	FOREIGN KEY (release_id, media_number, track_number) REFERENCES tracks(release_id, media_number, track_number) ON DELETE CASCADE
);
`

// setupTestDB creates an isolated in-memory SQLite DB with the test schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return openTestDB(t, "main")
}

// openTestDB creates the in-memory DB name of the current test. Each DB has a single
// connection, so concurrency across sessions needs several DBs.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	name = strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + name
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	for _, stmt := range strings.Split(testSchema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seed(t *testing.T, db *gorm.DB, table string, ids ...string) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Exec("INSERT INTO "+table+" (id) VALUES (?)", id).Error)
	}
}

func seedTrack(t *testing.T, db *gorm.DB, release string, media, track int) {
	t.Helper()
	require.NoError(t, db.Exec(
		"INSERT INTO tracks (release_id, media_number, track_number) VALUES (?, ?, ?)",
		release, media, track,
	).Error)
}

// reconcileOnce runs a single reconciliation in its own session.
func reconcileOnce(t *testing.T, e *Engine, db *gorm.DB, kind *Kind, owner string, links ...Link) Result {
	t.Helper()
	var res Result
	err := e.Run(context.Background(), db, func(s *Session) error {
		var err error
		res, err = s.Reconcile(kind, ResolvedOwner(Key{owner}), links)
		return err
	})
	require.NoError(t, err)
	return res
}

func link(child string, order int) Link {
	return Link{Child: child, Order: order}
}

func text(s string) *string {
	return &s
}

// referenceOrders returns owner -> ReferenceOrder for one child.
func referenceOrders(t *testing.T, db *gorm.DB, kind *Kind, child string) map[string]int {
	t.Helper()
	rows, err := loadChildRows(db, kind, child)
	require.NoError(t, err)
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		require.NotNil(t, r.ReferenceOrder)
		out[r.Owner.String()] = *r.ReferenceOrder
	}
	return out
}

// ownerOrders returns child -> Order for one owner.
func ownerOrders(t *testing.T, db *gorm.DB, kind *Kind, owner Key) map[string]int {
	t.Helper()
	rows, err := loadOwnerRows(db, kind, owner)
	require.NoError(t, err)
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Child] = r.Order
	}
	return out
}

// assertInvariants checks that every owner group and every child group is dense.
func assertInvariants(t *testing.T, db *gorm.DB, kind *Kind) {
	t.Helper()

	var rows []map[string]any
	require.NoError(t, db.Table(kind.Table).Select(kind.Columns()).Find(&rows).Error)

	byOwner := make(map[string][]int)
	byChild := make(map[string][]int)
	for _, row := range rows {
		rec := kind.decode(row)
		byOwner[rec.Owner.String()] = append(byOwner[rec.Owner.String()], rec.Order)
		if kind.CrossReferencing {
			require.NotNil(t, rec.ReferenceOrder)
			byChild[rec.Child] = append(byChild[rec.Child], *rec.ReferenceOrder)
		}
	}
	for owner, orders := range byOwner {
		require.Truef(t, IsDense(orders), "owner %s has orders %v", owner, orders)
	}
	for child, orders := range byChild {
		require.Truef(t, IsDense(orders), "child %s has reference orders %v", child, orders)
	}
}

// recordingHook collects touch events per session.
type recordingHook struct {
	mu     sync.Mutex
	calls  int
	events []OwnerTouched
}

func (h *recordingHook) OwnersTouched(_ context.Context, _ *gorm.DB, events []OwnerTouched) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	h.events = append(h.events, events...)
	return nil
}
