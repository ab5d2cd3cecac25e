package catalog

import (
	"context"
	"errors"
	"fmt"

	"media-catalog/core/reconcile"
	"media-catalog/feature/catalog/models"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when an update or lookup names a missing entity.
	ErrNotFound = errors.New("entity not found")

	// ErrUnknownEntity is returned for an entity path Delete does not know.
	ErrUnknownEntity = errors.New("unknown entity")
)

// Affected counters for the rows of release media and tracks.
const (
	affectedMedia  = "release_media"
	affectedTracks = "release_tracks"
)

// Service writes catalog entities together with their ordered associations.
type Service struct {
	db       *gorm.DB
	engine   *reconcile.Engine
	registry *reconcile.Registry
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new catalog service.
func NewService(db *gorm.DB, locker reconcile.Locker, logger *zap.Logger) (*Service, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}
	if locker == nil {
		locker = reconcile.NewLocalLocker(reconcile.DefaultLockTimeout)
	}
	engine := reconcile.NewEngine(
		reconcile.WithLocker(locker),
		reconcile.WithTouchHook(newToucher()),
		reconcile.WithLogger(logger),
	)
	return &Service{
		db:       db,
		engine:   engine,
		registry: registry,
		validate: validator.New(),
		logger:   logger,
	}, nil
}

// Registry returns the association kinds.
func (s *Service) Registry() *reconcile.Registry {
	return s.registry
}

// Engine returns the reconciliation engine.
func (s *Service) Engine() *reconcile.Engine {
	return s.engine
}

type entityModel interface {
	Base() *models.Entity
}

// write is the state of one owner write inside a session.
type write struct {
	svc      *Service
	sess     *reconcile.Session
	id       string
	created  bool
	affected map[string]int
}

func (w *write) ref(suffix ...any) reconcile.OwnerRef {
	if w.created {
		return reconcile.PendingOwner(suffix...)
	}
	key := make(reconcile.Key, 0, len(suffix)+1)
	key = append(key, w.id)
	return reconcile.ResolvedOwner(append(key, suffix...))
}

// reconcile applies desired to one association. A nil list leaves it untouched.
func (w *write) reconcile(kindName string, desired []reconcile.Link, suffix ...any) error {
	if desired == nil {
		return nil
	}
	kind, err := w.svc.registry.Get(kindName)
	if err != nil {
		return err
	}
	res, err := w.sess.Reconcile(kind, w.ref(suffix...), desired)
	if err != nil {
		return err
	}
	w.affected[kindName] += res.Affected()
	return nil
}

func (w *write) detachOwner(kindName string, prefix reconcile.Key) error {
	kind, err := w.svc.registry.Get(kindName)
	if err != nil {
		return err
	}
	n, err := w.sess.DetachOwner(kind, prefix)
	if err != nil {
		return err
	}
	w.affected[kindName] += n
	return nil
}

// lockTarget is one association a write may change: the children it will link. For an
// existing owner the children it links today are added. A nil list is skipped.
type lockTarget struct {
	kind     string
	children []string
}

// lockGroups locks every ReferenceOrder group the write can reach in one ordered pass,
// ahead of the first reconcile. Owner writes touching several tracks or kinds would
// otherwise lock groups in input order.
func (w *write) lockGroups(targets ...lockTarget) error {
	var groups []reconcile.Group
	for _, t := range targets {
		if t.children == nil {
			continue
		}
		kind, err := w.svc.registry.Get(t.kind)
		if err != nil {
			return err
		}
		if !kind.CrossReferencing {
			continue
		}
		groups = append(groups, reconcile.Groups(kind, t.children...)...)
		if w.created {
			continue
		}
		owned, err := w.sess.OwnedGroups(kind, reconcile.Key{w.id})
		if err != nil {
			return err
		}
		groups = append(groups, owned...)
	}
	return w.sess.LockGroups(groups)
}

// save creates model when id is empty, otherwise loads it, applies the changes and
// saves it. Associations are never written through gorm.
func (s *Service) save(sess *reconcile.Session, id string, model entityModel, apply func()) (*write, error) {
	tx := sess.Tx()
	w := &write{svc: s, sess: sess, affected: make(map[string]int)}

	if id == "" {
		apply()
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return nil, fmt.Errorf("create: %w", err)
		}
		w.id = model.Base().ID
		w.created = true
		sess.Bind(w.id)
		return w, nil
	}

	if err := tx.Take(model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	apply()
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return nil, fmt.Errorf("update %s: %w", id, err)
	}
	w.id = id
	return w, nil
}

// run validates input, executes fn in one engine session and reports the result with
// timestamps as committed.
func (s *Service) run(ctx context.Context, entity string, input any, model entityModel, fn func(sess *reconcile.Session) (*write, error)) (*WriteResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, err
	}

	var w *write
	err := s.engine.Run(ctx, s.db, func(sess *reconcile.Session) error {
		var err error
		w, err = fn(sess)
		return err
	})
	if err != nil {
		return nil, err
	}

	// The touch hook may have moved updated_at after the entity row was written.
	if err := s.db.WithContext(ctx).Take(model, "id = ?", w.id).Error; err != nil {
		return nil, fmt.Errorf("reload %s: %w", w.id, err)
	}

	s.logger.Info("Saved "+entity,
		zap.String("id", w.id),
		zap.Bool("created", w.created),
		zap.Any("affected", w.affected),
	)

	base := model.Base()
	return &WriteResult{
		ID:        base.ID,
		CreatedAt: base.CreatedAt,
		UpdatedAt: base.UpdatedAt,
		Created:   w.created,
		Affected:  w.affected,
	}, nil
}

// SaveArtist creates or updates an artist and reconciles its relationships and genres.
func (s *Service) SaveArtist(ctx context.Context, in ArtistInput) (*WriteResult, error) {
	var artist models.Artist
	return s.run(ctx, EntityArtist, in, &artist, func(sess *reconcile.Session) (*write, error) {
		w, err := s.save(sess, in.ID, &artist, func() {
			artist.Name = in.Name
			artist.SortName = in.SortName
		})
		if err != nil {
			return nil, err
		}
		if err := w.reconcile(KindArtistRelationships, links(in.Relationships)); err != nil {
			return nil, err
		}
		return w, w.reconcile(KindArtistGenres, assignments(in.Genres))
	})
}

// SaveWork creates or updates a work and reconciles its relationships, genres,
// composers and products.
func (s *Service) SaveWork(ctx context.Context, in WorkInput) (*WriteResult, error) {
	var work models.Work
	return s.run(ctx, EntityWork, in, &work, func(sess *reconcile.Session) (*write, error) {
		w, err := s.save(sess, in.ID, &work, func() {
			work.Title = in.Title
			work.ISWC = in.ISWC
		})
		if err != nil {
			return nil, err
		}
		if err := w.lockGroups(lockTarget{KindWorkToProducts, linkIDs(in.Products)}); err != nil {
			return nil, err
		}
		steps := []struct {
			kind    string
			desired []reconcile.Link
		}{
			{KindWorkRelationships, links(in.Relationships)},
			{KindWorkGenres, assignments(in.Genres)},
			{KindWorkArtists, assignments(in.Composers)},
			{KindWorkToProducts, links(in.Products)},
		}
		for _, step := range steps {
			if err := w.reconcile(step.kind, step.desired); err != nil {
				return nil, err
			}
		}
		return w, nil
	})
}

// SaveRelease creates or updates a release, its media and tracks, and reconciles every
// association owned by the release or one of its tracks.
func (s *Service) SaveRelease(ctx context.Context, in ReleaseInput) (*WriteResult, error) {
	var release models.Release
	return s.run(ctx, EntityRelease, in, &release, func(sess *reconcile.Session) (*write, error) {
		w, err := s.save(sess, in.ID, &release, func() {
			release.Title = in.Title
			release.ReleaseDate = in.ReleaseDate
		})
		if err != nil {
			return nil, err
		}
		err = w.lockGroups(
			lockTarget{KindReleaseToProducts, linkIDs(in.Products)},
			lockTarget{KindReleaseToReleaseGroups, linkIDs(in.ReleaseGroups)},
			lockTarget{KindReleaseTrackToWorks, trackWorkIDs(in.Media)},
		)
		if err != nil {
			return nil, err
		}
		steps := []struct {
			kind    string
			desired []reconcile.Link
		}{
			{KindReleaseRelationships, links(in.Relationships)},
			{KindReleaseGenres, assignments(in.Genres)},
			{KindReleaseArtists, assignments(in.Artists)},
			{KindReleaseToProducts, links(in.Products)},
			{KindReleaseToReleaseGroups, links(in.ReleaseGroups)},
		}
		for _, step := range steps {
			if err := w.reconcile(step.kind, step.desired); err != nil {
				return nil, err
			}
		}
		if in.Media == nil {
			return w, nil
		}
		return w, w.syncMedia(in.Media)
	})
}

var trackKinds = []string{KindReleaseTrackArtists, KindReleaseTrackToWorks}

// syncMedia makes the media of the release match media. Media absent from the list
// are removed together with their tracks and track associations.
func (w *write) syncMedia(media []MediaInput) error {
	tx := w.sess.Tx()

	var existing []models.ReleaseMedia
	if err := tx.Where("release_id = ?", w.id).Find(&existing).Error; err != nil {
		return fmt.Errorf("load media: %w", err)
	}
	known := make(map[int]bool, len(existing))
	for _, m := range existing {
		known[m.MediaNumber] = true
	}

	wanted := make(map[int]bool, len(media))
	for _, m := range media {
		wanted[m.Number] = true
	}
	for _, m := range existing {
		if wanted[m.MediaNumber] {
			continue
		}
		if err := w.removeMedium(m.MediaNumber); err != nil {
			return err
		}
	}

	for _, m := range media {
		if known[m.Number] {
			err := tx.Model(&models.ReleaseMedia{}).
				Where("release_id = ? AND media_number = ?", w.id, m.Number).
				Updates(map[string]any{"format": m.Format, "name": m.Name}).Error
			if err != nil {
				return fmt.Errorf("update medium %d: %w", m.Number, err)
			}
		} else {
			row := models.ReleaseMedia{ReleaseID: w.id, MediaNumber: m.Number, Format: m.Format, Name: m.Name}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("create medium %d: %w", m.Number, err)
			}
		}
		w.affected[affectedMedia]++

		if m.Tracks == nil {
			continue
		}
		if err := w.syncTracks(m.Number, m.Tracks); err != nil {
			return err
		}
	}
	return nil
}

func (w *write) removeMedium(number int) error {
	for _, name := range trackKinds {
		if err := w.detachOwner(name, reconcile.Key{w.id, number}); err != nil {
			return err
		}
	}
	tx := w.sess.Tx()
	res := tx.Where("release_id = ? AND media_number = ?", w.id, number).Delete(&models.ReleaseTrack{})
	if res.Error != nil {
		return fmt.Errorf("delete tracks of medium %d: %w", number, res.Error)
	}
	w.affected[affectedTracks] += int(res.RowsAffected)

	res = tx.Where("release_id = ? AND media_number = ?", w.id, number).Delete(&models.ReleaseMedia{})
	if res.Error != nil {
		return fmt.Errorf("delete medium %d: %w", number, res.Error)
	}
	w.affected[affectedMedia] += int(res.RowsAffected)
	return nil
}

func (w *write) syncTracks(media int, tracks []TrackInput) error {
	tx := w.sess.Tx()

	var existing []models.ReleaseTrack
	err := tx.Where("release_id = ? AND media_number = ?", w.id, media).Find(&existing).Error
	if err != nil {
		return fmt.Errorf("load tracks of medium %d: %w", media, err)
	}
	known := make(map[int]bool, len(existing))
	for _, t := range existing {
		known[t.TrackNumber] = true
	}
	wanted := make(map[int]bool, len(tracks))
	for _, t := range tracks {
		wanted[t.Number] = true
	}

	for _, t := range existing {
		if wanted[t.TrackNumber] {
			continue
		}
		for _, name := range trackKinds {
			if err := w.detachOwner(name, reconcile.Key{w.id, media, t.TrackNumber}); err != nil {
				return err
			}
		}
		res := tx.Where("release_id = ? AND media_number = ? AND track_number = ?", w.id, media, t.TrackNumber).
			Delete(&models.ReleaseTrack{})
		if res.Error != nil {
			return fmt.Errorf("delete track %d/%d: %w", media, t.TrackNumber, res.Error)
		}
		w.affected[affectedTracks] += int(res.RowsAffected)
	}

	for _, t := range tracks {
		if known[t.Number] {
			err := tx.Model(&models.ReleaseTrack{}).
				Where("release_id = ? AND media_number = ? AND track_number = ?", w.id, media, t.Number).
				Updates(map[string]any{"title": t.Title, "length_seconds": t.LengthSeconds}).Error
			if err != nil {
				return fmt.Errorf("update track %d/%d: %w", media, t.Number, err)
			}
		} else {
			row := models.ReleaseTrack{
				ReleaseID:     w.id,
				MediaNumber:   media,
				TrackNumber:   t.Number,
				Title:         t.Title,
				LengthSeconds: t.LengthSeconds,
			}
			if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
				return fmt.Errorf("create track %d/%d: %w", media, t.Number, err)
			}
		}
		w.affected[affectedTracks]++

		if err := w.reconcile(KindReleaseTrackArtists, assignments(t.Artists), media, t.Number); err != nil {
			return err
		}
		if err := w.reconcile(KindReleaseTrackToWorks, links(t.Works), media, t.Number); err != nil {
			return err
		}
	}
	return nil
}

// SaveProduct creates or updates a product and reconciles its relationships.
func (s *Service) SaveProduct(ctx context.Context, in ProductInput) (*WriteResult, error) {
	var product models.Product
	return s.run(ctx, EntityProduct, in, &product, func(sess *reconcile.Session) (*write, error) {
		w, err := s.save(sess, in.ID, &product, func() {
			product.Title = in.Title
			product.Barcode = in.Barcode
		})
		if err != nil {
			return nil, err
		}
		return w, w.reconcile(KindProductRelationships, links(in.Relationships))
	})
}

// SaveReleaseGroup creates or updates a release group.
func (s *Service) SaveReleaseGroup(ctx context.Context, in ReleaseGroupInput) (*WriteResult, error) {
	var group models.ReleaseGroup
	return s.run(ctx, "release_group", in, &group, func(sess *reconcile.Session) (*write, error) {
		return s.save(sess, in.ID, &group, func() {
			group.Title = in.Title
		})
	})
}

// SaveGenre creates or updates a genre.
func (s *Service) SaveGenre(ctx context.Context, in GenreInput) (*WriteResult, error) {
	var genre models.Genre
	return s.run(ctx, "genre", in, &genre, func(sess *reconcile.Session) (*write, error) {
		return s.save(sess, in.ID, &genre, func() {
			genre.Name = in.Name
		})
	})
}

// GetRelease returns a release with its media and tracks.
func (s *Service) GetRelease(ctx context.Context, id string) (*models.Release, error) {
	var release models.Release
	err := s.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("media_number") }).
		Preload("Media.Tracks", func(db *gorm.DB) *gorm.DB { return db.Order("track_number") }).
		Take(&release, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &release, nil
}

// Delete removes an entity. Every association row naming it, as owner or as child, is
// detached through the engine first so the remaining positions stay dense. Deleting a
// missing entity returns 0.
func (s *Service) Delete(ctx context.Context, path, id string) (int64, error) {
	def, ok := entities[path]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownEntity, path)
	}

	var deleted int64
	err := s.engine.Run(ctx, s.db, func(sess *reconcile.Session) error {
		if err := s.lockDeleted(sess, def, id); err != nil {
			return err
		}
		for _, name := range def.owns {
			kind, err := s.registry.Get(name)
			if err != nil {
				return err
			}
			if _, err := sess.DetachOwner(kind, reconcile.Key{id}); err != nil {
				return err
			}
		}
		for _, name := range def.referenced {
			kind, err := s.registry.Get(name)
			if err != nil {
				return err
			}
			if _, err := sess.DetachChild(kind, id); err != nil {
				return err
			}
		}
		res := sess.Tx().Delete(def.model(), "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete %s %s: %w", path, id, res.Error)
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Deleted entity", zap.String("entity", path), zap.String("id", id), zap.Int64("rows", deleted))
	return deleted, nil
}

// lockDeleted locks every ReferenceOrder group a delete can reach in one ordered pass.
func (s *Service) lockDeleted(sess *reconcile.Session, def entity, id string) error {
	var groups []reconcile.Group
	for _, name := range def.owns {
		kind, err := s.registry.Get(name)
		if err != nil {
			return err
		}
		owned, err := sess.OwnedGroups(kind, reconcile.Key{id})
		if err != nil {
			return err
		}
		groups = append(groups, owned...)
	}
	for _, name := range def.referenced {
		kind, err := s.registry.Get(name)
		if err != nil {
			return err
		}
		groups = append(groups, reconcile.Groups(kind, id)...)
	}
	return sess.LockGroups(groups)
}

// Reorder sets explicit positions on existing association rows of one kind. It returns
// the number of rows whose value changed; a row already at its requested position
// counts 0, so a repeated request returns 0.
func (s *Service) Reorder(ctx context.Context, kindName string, in ReorderInput, useReferenceOrder bool) (int, error) {
	kind, err := s.registry.Get(kindName)
	if err != nil {
		return 0, err
	}
	if err := s.validate.Struct(in); err != nil {
		return 0, err
	}

	rows := make([]reconcile.Position, 0, len(in.Rows))
	for _, r := range in.Rows {
		owner, err := reconcile.ParseKey(kind, r.Owner)
		if err != nil {
			return 0, err
		}
		rows = append(rows, reconcile.Position{
			Owner:          owner,
			Child:          r.Child,
			Order:          r.Order,
			ReferenceOrder: r.ReferenceOrder,
		})
	}

	n, err := s.engine.Reorder(ctx, s.db, kind, rows, useReferenceOrder)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Reordered rows", zap.String("kind", kindName), zap.Int("rows", n), zap.Bool("reference_order", useReferenceOrder))
	return n, nil
}

// ListByOwner returns the rows of one owner ordered by position.
func (s *Service) ListByOwner(ctx context.Context, kindName, owner string) ([]reconcile.Record, error) {
	kind, err := s.registry.Get(kindName)
	if err != nil {
		return nil, err
	}
	key, err := reconcile.ParseKey(kind, owner)
	if err != nil {
		return nil, err
	}
	return reconcile.OwnerRecords(s.db.WithContext(ctx), kind, key)
}

// ListByChild returns the rows naming child, ordered by reference order on
// cross-referencing kinds.
func (s *Service) ListByChild(ctx context.Context, kindName, child string) ([]reconcile.Record, error) {
	kind, err := s.registry.Get(kindName)
	if err != nil {
		return nil, err
	}
	return reconcile.ChildRecords(s.db.WithContext(ctx), kind, child)
}
