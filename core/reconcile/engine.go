package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine runs reconciliation sessions. It is safe for concurrent use; each Run gets its
// own transaction and Session.
type Engine struct {
	locker Locker
	hook   TouchHook
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker sets the locker guarding ReferenceOrder groups.
func WithLocker(l Locker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithTouchHook sets the consumer of OwnerTouched events.
func WithTouchHook(h TouchHook) Option {
	return func(e *Engine) {
		e.hook = h
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine creates an Engine. Without options it uses an in-process locker bounded by
// DefaultLockTimeout, no touch hook and a no-op logger.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		locker: NewLocalLocker(DefaultLockTimeout),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes fn inside one transaction. After fn returns without error, every dirty
// group is compacted and touch events are delivered, then the transaction commits. Any
// error rolls back the whole unit of work. Group locks are released once the
// transaction has ended.
func (e *Engine) Run(ctx context.Context, db *gorm.DB, fn func(s *Session) error) error {
	var session *Session
	defer func() {
		if session != nil {
			session.release()
		}
	}()

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session = newSession(ctx, tx, e)
		if err := fn(session); err != nil {
			return err
		}
		return session.finish()
	})
}

// Compact renumbers one group in its own transaction. Child groups are locked for the
// duration.
func (e *Engine) Compact(ctx context.Context, db *gorm.DB, kind *Kind, scope Scope, group Key) (int, error) {
	var moved int
	err := e.Run(ctx, db, func(s *Session) error {
		if scope == ScopeChild {
			if len(group) != 1 {
				return fmt.Errorf("%w: child group expects 1 component, got %d", ErrKeyShape, len(group))
			}
			if _, err := s.Sequence(kind, group.String()); err != nil {
				return err
			}
		}
		var err error
		moved, err = Compact(s.Tx(), kind, scope, group)
		return err
	})
	if err != nil {
		return 0, err
	}

	e.logger.Info("Compacted association group",
		zap.String("kind", kind.Name),
		zap.String("scope", scope.String()),
		zap.String("group", group.String()),
		zap.Int("moved", moved),
	)
	return moved, nil
}

// Reorder runs Session.Reorder in its own transaction.
func (e *Engine) Reorder(ctx context.Context, db *gorm.DB, kind *Kind, rows []Position, useReferenceOrder bool) (int, error) {
	var updated int
	err := e.Run(ctx, db, func(s *Session) error {
		var err error
		updated, err = s.Reorder(kind, rows, useReferenceOrder)
		return err
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}
