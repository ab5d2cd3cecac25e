package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Session is the unit of work of one owner write. It wraps the transaction, remembers
// the generated owner identifier, the locked and dirty groups and the touched owners.
// A Session is not safe for concurrent use.
type Session struct {
	ctx    context.Context
	tx     *gorm.DB
	engine *Engine

	generated any

	locks    map[string]struct{}
	releases []func()

	childGroups map[string]childGroup
	childOrder  []string
	ownerGroups map[string]ownerGroup
	ownerOrder  []string

	touched    map[string]OwnerTouched
	touchOrder []string

	results map[string]Result
}

type childGroup struct {
	kind  *Kind
	child string
}

type ownerGroup struct {
	kind  *Kind
	owner Key
}

func newSession(ctx context.Context, tx *gorm.DB, engine *Engine) *Session {
	return &Session{
		ctx:         ctx,
		tx:          tx,
		engine:      engine,
		locks:       make(map[string]struct{}),
		childGroups: make(map[string]childGroup),
		ownerGroups: make(map[string]ownerGroup),
		touched:     make(map[string]OwnerTouched),
		results:     make(map[string]Result),
	}
}

// Context returns the context of the session.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Tx returns the transaction handle. Owner rows must be written through it.
func (s *Session) Tx() *gorm.DB {
	return s.tx
}

// Bind records the identifier generated for the owner created by this session.
// Pending owner references resolve against it.
func (s *Session) Bind(id any) {
	s.generated = id
}

// Generated returns the bound identifier, or nil.
func (s *Session) Generated() any {
	return s.generated
}

// Results returns the accumulated per-kind results.
func (s *Session) Results() map[string]Result {
	out := make(map[string]Result, len(s.results))
	for k, v := range s.results {
		out[k] = v
	}
	return out
}

// Touch records that the association set of owner changed. Repeated calls for the
// same owner produce a single event.
func (s *Session) Touch(entity string, owner Key) {
	if entity == "" {
		return
	}
	id := entity + "|" + owner.String()
	if _, ok := s.touched[id]; ok {
		return
	}
	s.touched[id] = OwnerTouched{Entity: entity, Owner: owner}
	s.touchOrder = append(s.touchOrder, id)
}

// Reconcile makes the persisted rows of owner match desired.
//
// Rows present on both sides get Name, Description and Order updated, rows only in
// desired are inserted (cross-referencing kinds append to the child's ReferenceOrder
// sequence) and rows only persisted are deleted. Rows of other owners are never touched.
func (s *Session) Reconcile(kind *Kind, owner OwnerRef, desired []Link) (Result, error) {
	var res Result

	key, err := owner.Resolve(s.generated)
	if err != nil {
		return res, fmt.Errorf("reconcile %s: %w", kind.Name, err)
	}
	key, err = kind.NormalizeKey(key)
	if err != nil {
		return res, fmt.Errorf("reconcile %s: %w", kind.Name, err)
	}

	persisted, err := loadOwnerRows(s.tx, kind, key)
	if err != nil {
		return res, fmt.Errorf("load %s rows: %w", kind.Name, err)
	}

	current := make(map[string]Record, len(persisted))
	for _, rec := range persisted {
		current[rec.Child] = rec
	}

	var (
		inserts []Link
		moves   []positionWrite
		renames []Link
		seen    = make(map[string]struct{}, len(desired))
	)
	for _, link := range desired {
		existing, ok := current[link.Child]
		if _, dup := seen[link.Child]; dup || !ok {
			// A repeated child is an insert and fails on the primary key.
			inserts = append(inserts, link)
			seen[link.Child] = struct{}{}
			continue
		}
		seen[link.Child] = struct{}{}

		changed := false
		if existing.Order != link.Order {
			from := existing.Order
			moves = append(moves, positionWrite{owner: key, child: link.Child, from: &from, to: link.Order})
			changed = true
		}
		if kind.Named && (!sameText(existing.Name, link.Name) || !sameText(existing.Description, link.Description)) {
			renames = append(renames, link)
			changed = true
		}
		if changed {
			res.Updated++
		}
	}

	var deletes []string
	for _, rec := range persisted {
		if _, ok := seen[rec.Child]; !ok {
			deletes = append(deletes, rec.Child)
		}
	}

	if kind.CrossReferencing {
		if err := s.lockChildren(kind, inserts, deletes); err != nil {
			return res, err
		}
	}

	if len(deletes) > 0 {
		n, err := deleteRows(s.tx, kind, key, deletes)
		if err != nil {
			return res, fmt.Errorf("delete %s rows: %w", kind.Name, err)
		}
		res.Deleted = n
		if kind.CrossReferencing {
			for _, child := range deletes {
				s.markChild(kind, child)
			}
		}
	}

	if err := writePositions(s.tx, kind, OrderColumn, moves); err != nil {
		return res, fmt.Errorf("reorder %s rows: %w", kind.Name, err)
	}
	for _, link := range renames {
		if err := updateMetadata(s.tx, kind, key, link); err != nil {
			return res, fmt.Errorf("update %s row: %w", kind.Name, err)
		}
	}

	for _, link := range inserts {
		if kind.CrossReferencing {
			seq, err := s.Sequence(kind, link.Child)
			if err != nil {
				return res, err
			}
			if _, err := seq.Append(key, link); err != nil {
				return res, err
			}
		} else if err := insertRow(s.tx, kind, key, link, nil); err != nil {
			return res, fmt.Errorf("insert %s row: %w", kind.Name, err)
		}
		res.Inserted++
	}

	if res.Affected() > 0 {
		s.markOwner(kind, key)
		s.Touch(kind.OwnerEntity, key)
	}

	total := s.results[kind.Name]
	total.add(res)
	s.results[kind.Name] = total

	s.engine.logger.Debug("Reconciled associations",
		zap.String("kind", kind.Name),
		zap.String("owner", key.String()),
		zap.Int("inserted", res.Inserted),
		zap.Int("updated", res.Updated),
		zap.Int("deleted", res.Deleted),
	)

	return res, nil
}

// lockChildren locks the groups of every inserted or deleted child in the global order.
func (s *Session) lockChildren(kind *Kind, inserts []Link, deletes []string) error {
	children := make([]string, 0, len(inserts)+len(deletes))
	for _, l := range inserts {
		children = append(children, l.Child)
	}
	children = append(children, deletes...)
	return s.LockGroups(Groups(kind, children...))
}

// lock acquires the group lock of (kind, child) once per session.
func (s *Session) lock(kind *Kind, child string) error {
	id := kind.Name + "|" + child
	if _, held := s.locks[id]; held {
		return nil
	}
	release, err := s.engine.locker.Lock(s.ctx, s.tx, kind, child)
	if err != nil {
		return err
	}
	s.locks[id] = struct{}{}
	s.releases = append(s.releases, release)
	return nil
}

func (s *Session) markChild(kind *Kind, child string) {
	id := kind.Name + "|" + child
	if _, ok := s.childGroups[id]; ok {
		return
	}
	s.childGroups[id] = childGroup{kind: kind, child: child}
	s.childOrder = append(s.childOrder, id)
}

func (s *Session) markOwner(kind *Kind, owner Key) {
	id := kind.Name + "|" + owner.String()
	if _, ok := s.ownerGroups[id]; ok {
		return
	}
	s.ownerGroups[id] = ownerGroup{kind: kind, owner: owner}
	s.ownerOrder = append(s.ownerOrder, id)
}

// finish compacts every dirty group and delivers the touch events. It runs inside the
// transaction, after the caller's work and before commit.
func (s *Session) finish() error {
	for _, id := range s.childOrder {
		g := s.childGroups[id]
		moved, err := Compact(s.tx, g.kind, ScopeChild, Key{g.child})
		if err != nil {
			return err
		}
		if moved > 0 {
			s.engine.logger.Debug("Compacted reference order",
				zap.String("kind", g.kind.Name),
				zap.String("child", g.child),
				zap.Int("moved", moved),
			)
		}
	}

	for _, id := range s.ownerOrder {
		g := s.ownerGroups[id]
		if _, err := Compact(s.tx, g.kind, ScopeOwner, g.owner); err != nil {
			return err
		}
	}

	if len(s.touchOrder) == 0 || s.engine.hook == nil {
		return nil
	}
	events := make([]OwnerTouched, 0, len(s.touchOrder))
	for _, id := range s.touchOrder {
		events = append(events, s.touched[id])
	}
	if err := s.engine.hook.OwnersTouched(s.ctx, s.tx, events); err != nil {
		return fmt.Errorf("touch owners: %w", err)
	}
	return nil
}

// release frees every held group lock. Called after commit or rollback.
func (s *Session) release() {
	for i := len(s.releases) - 1; i >= 0; i-- {
		s.releases[i]()
	}
	s.releases = nil
	s.locks = make(map[string]struct{})
}

func sameText(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
