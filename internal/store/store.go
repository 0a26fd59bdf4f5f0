// Package store persists console state: the authentication session and
// the selected tenant key. It is the single source of truth for "who is
// logged in, as whom, for which tenant", and survives console restarts.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ambutrack/console/internal/config"
	"github.com/ambutrack/console/internal/models"
)

const settingSelectedTenant = "selected_tenant_key"

// Store reads and writes durable console state.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database, migrates the schema, and
// returns a Store. Sqlite parent directories are created as needed.
func Open(cfg config.StorageConfig) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("store: create %s: %w", dir, err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	case "mysql":
		if _, err := mysqldriver.ParseDSN(cfg.DSN); err != nil {
			return nil, fmt.Errorf("store: invalid mysql dsn: %w", err)
		}
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", cfg.Driver, err)
	}
	return New(db)
}

// New wraps an existing GORM connection, migrating the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.SessionRecord{}, &models.Setting{}); err != nil {
		return nil, fmt.Errorf("store: auto-migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Session returns the cached session, or nil when no one is logged in.
func (s *Store) Session() (*models.Session, error) {
	var rec models.SessionRecord
	err := s.db.First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load session: %w", err)
	}
	return &models.Session{
		AccessToken:     rec.AccessToken,
		RefreshToken:    rec.RefreshToken,
		IDToken:         rec.IDToken,
		ExpiresAt:       rec.ExpiresAt,
		EmailVerified:   rec.EmailVerified,
		UserID:          rec.UserID,
		IsPlatformAdmin: rec.IsPlatformAdmin,
	}, nil
}

// SetSession replaces the cached session in full.
func (s *Store) SetSession(sess models.Session) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SessionRecord{}).Error; err != nil {
			return fmt.Errorf("store: clear prior session: %w", err)
		}
		rec := models.SessionRecord{
			AccessToken:     sess.AccessToken,
			RefreshToken:    sess.RefreshToken,
			IDToken:         sess.IDToken,
			ExpiresAt:       sess.ExpiresAt,
			EmailVerified:   sess.EmailVerified,
			UserID:          sess.UserID,
			IsPlatformAdmin: sess.IsPlatformAdmin,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("store: save session: %w", err)
		}
		return nil
	})
}

// ClearSession removes the session and the selected tenant. Used on
// logout and on unrecoverable auth failure.
func (s *Store) ClearSession() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SessionRecord{}).Error; err != nil {
			return fmt.Errorf("store: clear session: %w", err)
		}
		if err := tx.Where("`key` = ?", settingSelectedTenant).Delete(&models.Setting{}).Error; err != nil {
			return fmt.Errorf("store: clear selected tenant: %w", err)
		}
		return nil
	})
}

// SelectedTenant returns the active tenant key, or "" when none is set.
func (s *Store) SelectedTenant() (string, error) {
	var setting models.Setting
	err := s.db.Where("`key` = ?", settingSelectedTenant).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: load selected tenant: %w", err)
	}
	return setting.Value, nil
}

// SetSelectedTenant records the active tenant key. An empty key clears
// the selection, which disables all tenant-scoped calls.
func (s *Store) SetSelectedTenant(key string) error {
	if key == "" {
		if err := s.db.Where("`key` = ?", settingSelectedTenant).Delete(&models.Setting{}).Error; err != nil {
			return fmt.Errorf("store: clear selected tenant: %w", err)
		}
		return nil
	}
	setting := models.Setting{Key: settingSelectedTenant, Value: key}
	if err := s.db.Save(&setting).Error; err != nil {
		return fmt.Errorf("store: save selected tenant: %w", err)
	}
	return nil
}
