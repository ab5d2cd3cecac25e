package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lock modes accepted by NewLocker.
const (
	LockModeLocal = "local"
	LockModeRow   = "row"
	LockModeBoth  = "both"
)

// DefaultLockTimeout bounds waiting for a group when no locker is configured.
const DefaultLockTimeout = 30 * time.Second

// Locker guards the critical section of one ReferenceOrder group (kind, child).
// The returned release function is called after the transaction has ended.
type Locker interface {
	Lock(ctx context.Context, tx *gorm.DB, kind *Kind, child string) (release func(), err error)
}

// NewLocker builds the locker for a configured mode.
func NewLocker(mode string, timeout time.Duration) (Locker, error) {
	switch mode {
	case LockModeLocal:
		return NewLocalLocker(timeout), nil
	case LockModeRow:
		return RowLocker{}, nil
	case LockModeBoth, "":
		return Chain(NewLocalLocker(timeout), RowLocker{}), nil
	default:
		return nil, fmt.Errorf("unknown lock mode %q", mode)
	}
}

// RowLocker locks the child entity row with SELECT ... FOR UPDATE. The database releases
// the lock at commit or rollback. Dialects without row locks (SQLite) drop the clause.
type RowLocker struct{}

// Lock implements Locker.
func (RowLocker) Lock(ctx context.Context, tx *gorm.DB, kind *Kind, child string) (func(), error) {
	var ids []string
	err := tx.WithContext(ctx).
		Table(kind.ChildTable).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(kind.childKey()+" = ?", child).
		Pluck(kind.childKey(), &ids).Error
	if err != nil {
		return nil, fmt.Errorf("lock %s %s: %w", kind.ChildTable, child, err)
	}
	return func() {}, nil
}

// LocalLocker is an in-process keyed lock. Waiting is bounded by the context and the
// optional timeout.
type LocalLocker struct {
	timeout time.Duration

	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates a LocalLocker. A zero timeout waits until the context ends.
func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{
		timeout: timeout,
		slots:   make(map[string]*lockSlot),
	}
}

// Lock implements Locker.
func (l *LocalLocker) Lock(ctx context.Context, _ *gorm.DB, kind *Kind, child string) (func(), error) {
	key := kind.Name + "|" + child

	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = slot
	}
	slot.refs++
	l.mu.Unlock()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.unref(key, slot)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, slot)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s %s", ErrLockTimeout, kind.Name, child)
		}
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) unref(key string, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, key)
	}
}

type chain []Locker

// Chain acquires every locker in order and releases them in reverse.
func Chain(lockers ...Locker) Locker {
	return chain(lockers)
}

// Lock implements Locker.
func (c chain) Lock(ctx context.Context, tx *gorm.DB, kind *Kind, child string) (func(), error) {
	releases := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, l := range c {
		release, err := l.Lock(ctx, tx, kind, child)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}
