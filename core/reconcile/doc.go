// Package reconcile provides a generic engine for reconciling ordered association
// tables against a caller-supplied desired list.
//
// Every association table in the catalog links an owner entity to a child entity and
// carries an owner-scoped position (Order). Cross-referencing tables additionally carry
// a child-scoped position (ReferenceOrder), which is shared by every owner that points
// at the same child. The engine keeps both sequences dense (0..n-1) after every write.
//
// # Architecture
//
// The package consists of the following components:
//
// 1. Kind: a declarative descriptor of one association table (owner key columns, child
//    column, whether Name/Description exist, whether ReferenceOrder exists).
//
// 2. Engine and Session: the Engine opens one transaction per owner write and hands the
//    caller a Session. Session.Reconcile computes the difference between the persisted
//    rows of one owner and the desired list and applies inserts, updates and deletes.
//
// 3. ReferenceSequence: the per-child ordered collection used to append new referencers
//    at the tail, remove them and compact the sequence. All access happens inside a
//    critical section guarded by a Locker.
//
// 4. Compact and Reorder: renumbering of a group to 0..k-1 and explicit rewriting of
//    one position dimension for drag-and-drop style reordering.
//
// 5. TouchHook: receives one OwnerTouched event per changed owner before commit, so the
//    owning entity can refresh its modification timestamp.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(
//	    reconcile.WithLocker(reconcile.Chain(reconcile.RowLocker{}, reconcile.NewLocalLocker(5*time.Second))),
//	    reconcile.WithTouchHook(toucher),
//	    reconcile.WithLogger(log),
//	)
//
//	err := engine.Run(ctx, db, func(s *reconcile.Session) error {
//	    if err := tx.Create(&release).Error; err != nil {
//	        return err
//	    }
//	    s.Bind(release.ID)
//	    _, err := s.Reconcile(ReleaseToProducts, reconcile.PendingOwner(), links)
//	    return err
//	})
//
// # Positions
//
// Position changes are written in two phases (park at negative values, then assign the
// final value) whenever a move could collide with another row of the same group, so a
// permutation never violates the unique (group, position) index mid-transaction.
package reconcile
