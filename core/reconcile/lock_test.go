package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// TestLocalLocker_Timeout tests that a held group blocks until the timeout.
func TestLocalLocker_Timeout(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	release, err := l.Lock(ctx, nil, workToProducts, "P1")
	require.NoError(t, err)

	_, err = l.Lock(ctx, nil, workToProducts, "P1")
	assert.ErrorIs(t, err, ErrLockTimeout)

	// Other groups are independent.
	other, err := l.Lock(ctx, nil, workToProducts, "P2")
	require.NoError(t, err)
	other()

	release()
	release()

	again, err := l.Lock(ctx, nil, workToProducts, "P1")
	require.NoError(t, err)
	again()

	assert.Empty(t, l.slots)
}

func TestLocalLocker_ContextCanceled(t *testing.T) {
	l := NewLocalLocker(0)

	release, err := l.Lock(context.Background(), nil, workToProducts, "P1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Lock(ctx, nil, workToProducts, "P1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLocalLocker_HandOver(t *testing.T) {
	l := NewLocalLocker(time.Second)

	release, err := l.Lock(context.Background(), nil, workToProducts, "P1")
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		r, err := l.Lock(context.Background(), nil, workToProducts, "P1")
		if err == nil {
			r()
		}
		acquired <- err
	}()

	time.Sleep(10 * time.Millisecond)
	release()
	assert.NoError(t, <-acquired)
}

type stubLocker struct {
	name string
	log  *[]string
	err  error
}

func (s stubLocker) Lock(context.Context, *gorm.DB, *Kind, string) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	*s.log = append(*s.log, "lock "+s.name)
	return func() { *s.log = append(*s.log, "release "+s.name) }, nil
}

// TestChain tests acquisition order and reverse release.
func TestChain(t *testing.T) {
	var log []string
	c := Chain(stubLocker{name: "a", log: &log}, stubLocker{name: "b", log: &log})

	release, err := c.Lock(context.Background(), nil, workToProducts, "P1")
	require.NoError(t, err)
	release()
	assert.Equal(t, []string{"lock a", "lock b", "release b", "release a"}, log)

	log = nil
	failure := errors.New("busy")
	c = Chain(stubLocker{name: "a", log: &log}, stubLocker{name: "b", log: &log, err: failure})
	_, err = c.Lock(context.Background(), nil, workToProducts, "P1")
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []string{"lock a", "release a"}, log)
}

func TestNewLocker(t *testing.T) {
	tests := []struct {
		mode    string
		want    any
		wantErr bool
	}{
		{mode: LockModeLocal, want: &LocalLocker{}},
		{mode: LockModeRow, want: RowLocker{}},
		{mode: LockModeBoth, want: chain{}},
		{mode: "", want: chain{}},
		{mode: "advisory", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			l, err := NewLocker(tt.mode, time.Second)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}
}

// TestRowLocker tests that row locking runs inside a transaction on SQLite.
func TestRowLocker(t *testing.T) {
	db := setupTestDB(t)
	seed(t, db, "products", "P1")

	err := db.Transaction(func(tx *gorm.DB) error {
		release, err := RowLocker{}.Lock(context.Background(), tx, workToProducts, "P1")
		if err != nil {
			return err
		}
		release()
		return nil
	})
	assert.NoError(t, err)
}

// TestRowLocker_MySQL tests that the child row is selected FOR UPDATE inside the tx.
func TestRowLocker_MySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM `products` WHERE id = \\? FOR UPDATE").
		WithArgs("P1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("P1"))
	mock.ExpectCommit()

	err = db.Transaction(func(tx *gorm.DB) error {
		_, err := RowLocker{}.Lock(context.Background(), tx, workToProducts, "P1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewLockerFromConfig(t *testing.T) {
	l, err := NewLockerFromConfig(Config{LockMode: LockModeLocal, LockTimeoutSeconds: 3})
	require.NoError(t, err)
	require.IsType(t, &LocalLocker{}, l)
	assert.Equal(t, 3*time.Second, l.(*LocalLocker).timeout)

	assert.Equal(t, time.Minute, Config{IntegrityCacheSeconds: 60}.IntegrityCacheTTL())
}

// TestLocalLocker_SessionsShareGroup tests that a session appending to a child waits for
// another session holding the same group. The sessions write to separate databases, so
// only the locker orders them.
func TestLocalLocker_SessionsShareGroup(t *testing.T) {
	dbA, dbB := openTestDB(t, "a"), openTestDB(t, "b")
	for _, db := range []*gorm.DB{dbA, dbB} {
		seed(t, db, "works", "W1")
		seed(t, db, "products", "P")
	}
	e := NewEngine(WithLocker(NewLocalLocker(5 * time.Second)))
	appendP := func(s *Session) error {
		_, err := s.Reconcile(workToProducts, ResolvedOwner(Key{"W1"}), []Link{link("P", 0)})
		return err
	}

	held := make(chan struct{})
	finish := make(chan struct{})
	first := make(chan error, 1)
	go func() {
		first <- e.Run(context.Background(), dbA, func(s *Session) error {
			if err := appendP(s); err != nil {
				return err
			}
			close(held)
			<-finish
			return nil
		})
	}()
	select {
	case <-held:
	case err := <-first:
		t.Fatalf("first session ended early: %v", err)
	}

	second := make(chan error, 1)
	go func() {
		second <- e.Run(context.Background(), dbB, appendP)
	}()
	select {
	case err := <-second:
		t.Fatalf("second session did not wait for the group: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(finish)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
	assert.Equal(t, map[string]int{"W1": 0}, referenceOrders(t, dbA, workToProducts, "P"))
	assert.Equal(t, map[string]int{"W1": 0}, referenceOrders(t, dbB, workToProducts, "P"))
}

// TestLockGroups_OppositeOrder tests that two writes reconciling the same children in
// opposite orders complete when each locks its groups up front.
func TestLockGroups_OppositeOrder(t *testing.T) {
	dbA, dbB := openTestDB(t, "a"), openTestDB(t, "b")
	for _, db := range []*gorm.DB{dbA, dbB} {
		seed(t, db, "works", "W1", "W2")
		seedTrack(t, db, "R1", 1, 1)
		seedTrack(t, db, "R1", 1, 2)
	}
	e := NewEngine(WithLocker(NewLocalLocker(2 * time.Second)))

	// Both writes pause after their first track while the other may run.
	var arrived sync.WaitGroup
	arrived.Add(2)
	met := make(chan struct{})
	go func() {
		arrived.Wait()
		close(met)
	}()
	meet := func() {
		arrived.Done()
		select {
		case <-met:
		case <-time.After(100 * time.Millisecond):
		}
	}

	write := func(db *gorm.DB, works ...string) error {
		return e.Run(context.Background(), db, func(s *Session) error {
			if err := s.LockGroups(Groups(trackToWorks, works...)); err != nil {
				return err
			}
			for i, w := range works {
				owner := ResolvedOwner(Key{"R1", 1, i + 1})
				if _, err := s.Reconcile(trackToWorks, owner, []Link{link(w, 0)}); err != nil {
					return err
				}
				if i == 0 {
					meet()
				}
			}
			return nil
		})
	}

	errs := make(chan error, 2)
	go func() { errs <- write(dbA, "W1", "W2") }()
	go func() { errs <- write(dbB, "W2", "W1") }()
	require.NoError(t, <-errs)
	require.NoError(t, <-errs)

	for _, db := range []*gorm.DB{dbA, dbB} {
		assertInvariants(t, db, trackToWorks)
	}
	assert.Equal(t, map[string]int{"R1:1:1": 0}, referenceOrders(t, dbA, trackToWorks, "W1"))
	assert.Equal(t, map[string]int{"R1:1:2": 0}, referenceOrders(t, dbB, trackToWorks, "W1"))
}

func TestLockGroups_Order(t *testing.T) {
	rec := &orderRecorder{}
	e := NewEngine(WithLocker(rec))
	db := setupTestDB(t)

	err := e.Run(context.Background(), db, func(s *Session) error {
		return s.LockGroups(append(
			Groups(trackToWorks, "W2", "W1"),
			append(Groups(workToProducts, "P2", "P1"), Groups(workGenres, "G1")...)...,
		))
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"products|P1", "products|P2", "works|W1", "works|W2",
	}, rec.locked)
}

// orderRecorder records the groups it is asked to lock.
type orderRecorder struct {
	locked []string
}

func (r *orderRecorder) Lock(_ context.Context, _ *gorm.DB, kind *Kind, child string) (func(), error) {
	r.locked = append(r.locked, kind.ChildTable+"|"+child)
	return func() {}, nil
}

func TestNewEngine_DefaultLockTimeout(t *testing.T) {
	l, ok := NewEngine().locker.(*LocalLocker)
	require.True(t, ok)
	assert.Equal(t, DefaultLockTimeout, l.timeout)
}
