package catalog

import (
	"context"
	"fmt"
	"time"

	"media-catalog/core/reconcile"

	"gorm.io/gorm"
)

var ownerTables = map[string]string{
	EntityArtist:  "artists",
	EntityWork:    "works",
	EntityRelease: "releases",
	EntityProduct: "products",
}

// toucher bumps updated_at of owners whose association set changed. A touched track
// also touches its release.
type toucher struct {
	now func() time.Time
}

func newToucher() *toucher {
	return &toucher{now: time.Now}
}

// OwnersTouched implements reconcile.TouchHook.
func (t *toucher) OwnersTouched(ctx context.Context, tx *gorm.DB, events []reconcile.OwnerTouched) error {
	now := t.now()
	releases := make(map[string]struct{})

	for _, ev := range events {
		switch ev.Entity {
		case EntityReleaseTrack:
			if len(ev.Owner) != 3 {
				return fmt.Errorf("%w: track owner %s", reconcile.ErrKeyShape, ev.Owner)
			}
			err := tx.WithContext(ctx).Table("release_tracks").
				Where("release_id = ? AND media_number = ? AND track_number = ?", ev.Owner[0], ev.Owner[1], ev.Owner[2]).
				Update("updated_at", now).Error
			if err != nil {
				return fmt.Errorf("touch track %s: %w", ev.Owner, err)
			}
			releases[fmt.Sprint(ev.Owner[0])] = struct{}{}

		case EntityRelease:
			releases[ev.Owner.String()] = struct{}{}

		default:
			table, ok := ownerTables[ev.Entity]
			if !ok {
				return fmt.Errorf("touch: unknown owner entity %q", ev.Entity)
			}
			if err := touchRow(ctx, tx, table, ev.Owner.String(), now); err != nil {
				return err
			}
		}
	}

	for id := range releases {
		if err := touchRow(ctx, tx, "releases", id, now); err != nil {
			return err
		}
	}
	return nil
}

func touchRow(ctx context.Context, tx *gorm.DB, table, id string, now time.Time) error {
	err := tx.WithContext(ctx).Table(table).
		Where("id = ?", id).
		Update("updated_at", now).Error
	if err != nil {
		return fmt.Errorf("touch %s %s: %w", table, id, err)
	}
	return nil
}
