package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/mangiaebasta/internal/database"
	"github.com/example/mangiaebasta/internal/models"
)

// ErrNotOpen is returned by every operation on a store that was never
// opened or has been closed.
var ErrNotOpen = errors.New("store not initialized")

const singletonRowID = 1

// Store is the local cache: session id, user id and menu images, each in
// its own table. Writes to different tables are not grouped.
type Store struct {
	mu  sync.RWMutex
	db  *gorm.DB
	log *logrus.Entry
}

// Open connects to dsn and makes sure the cache schema exists.
func Open(dsn, dbLogLevel string, logger *logrus.Logger) (*Store, error) {
	conn, err := database.Connect(dsn, dbLogLevel)
	if err != nil {
		return nil, err
	}
	store, err := New(conn, logger)
	if err != nil {
		_ = database.Close(conn)
		return nil, err
	}
	return store, nil
}

// New wraps an existing connection and migrates the cache tables.
func New(conn *gorm.DB, logger *logrus.Logger) (*Store, error) {
	if err := database.Migrate(conn, models.CacheTables()...); err != nil {
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return &Store{
		db:  conn,
		log: logger.WithField("component", "storage"),
	}, nil
}

func (s *Store) conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, ErrNotOpen
	}
	return s.db.WithContext(ctx), nil
}

func upsert(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

// SaveSID stores the session id, replacing any previous one.
func (s *Store) SaveSID(ctx context.Context, sid string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := upsert(db, &models.SessionRecord{ID: singletonRowID, SID: sid}); err != nil {
		return fmt.Errorf("save sid: %w", err)
	}
	s.log.Debug("session id saved")
	return nil
}

// SaveUID stores the user id, replacing any previous one.
func (s *Store) SaveUID(ctx context.Context, uid int) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := upsert(db, &models.UserIDRecord{ID: singletonRowID, UID: uid}); err != nil {
		return fmt.Errorf("save uid: %w", err)
	}
	s.log.WithField("uid", uid).Debug("user id saved")
	return nil
}

// SID returns the stored session id; ok is false if none was ever saved.
func (s *Store) SID(ctx context.Context) (string, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return "", false, err
	}
	var rec models.SessionRecord
	if err := db.Take(&rec, singletonRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load sid: %w", err)
	}
	return rec.SID, rec.SID != "", nil
}

// UID returns the stored user id; ok is false if none was ever saved.
func (s *Store) UID(ctx context.Context) (int, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return 0, false, err
	}
	var rec models.UserIDRecord
	if err := db.Take(&rec, singletonRowID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("load uid: %w", err)
	}
	return rec.UID, rec.UID != 0, nil
}

// SaveMenuImage overwrites the cached image of a menu.
func (s *Store) SaveMenuImage(ctx context.Context, mid int, version, base64 string) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	rec := models.MenuImageRecord{MID: mid, ImageVersion: version, ImageBase64: base64}
	if err := upsert(db, &rec); err != nil {
		return fmt.Errorf("save image of menu %d: %w", mid, err)
	}
	s.log.WithFields(logrus.Fields{"mid": mid, "version": version}).Debug("menu image saved")
	return nil
}

// IsImageUpToDate reports whether the cached image of mid has exactly the
// given version. Versions are compared as strings.
func (s *Store) IsImageUpToDate(ctx context.Context, mid int, version string) (bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return false, err
	}
	var rec models.MenuImageRecord
	err = db.Select("mid", "image_version").Take(&rec, "mid = ?", mid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check image of menu %d: %w", mid, err)
	}
	return rec.ImageVersion == version, nil
}

// MenuImage returns the cached base64 payload of mid.
func (s *Store) MenuImage(ctx context.Context, mid int) (string, bool, error) {
	db, err := s.conn(ctx)
	if err != nil {
		return "", false, err
	}
	var rec models.MenuImageRecord
	err = db.Take(&rec, "mid = ?", mid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load image of menu %d: %w", mid, err)
	}
	return rec.ImageBase64, true, nil
}

// DeleteMenuImage removes the cached image of mid, if any.
func (s *Store) DeleteMenuImage(ctx context.Context, mid int) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := db.Delete(&models.MenuImageRecord{}, "mid = ?", mid).Error; err != nil {
		return fmt.Errorf("delete image of menu %d: %w", mid, err)
	}
	return nil
}

// DeleteAll drops every cache table and recreates the empty schema.
func (s *Store) DeleteAll(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if err := database.Reset(db, models.CacheTables()...); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	s.log.Info("local cache wiped")
	return nil
}

// Close releases the handle. Further calls fail with ErrNotOpen.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := database.Close(s.db)
	s.db = nil
	return err
}
