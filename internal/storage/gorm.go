package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"linkcut/internal/models"
)

type GormStore struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewGormStore(db *gorm.DB, log *slog.Logger) *GormStore {
	if log == nil {
		log = slog.Default()
	}
	return &GormStore{db: db, log: log.With("module", "storage")}
}

func (s *GormStore) Create(ctx context.Context, link *models.Link) error {
	if err := s.db.WithContext(ctx).Create(link).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("create link %s: %w", link.Code, ErrDuplicateKey)
		}
		s.log.Error("create link failed", "code", link.Code, "err", err)
		return fmt.Errorf("create link %s: %w", link.Code, ErrUnavailable)
	}
	return nil
}

func (s *GormStore) GetByCode(ctx context.Context, code string) (*models.Link, error) {
	var link models.Link
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get link %s: %w", code, ErrNotFound)
		}
		s.log.Error("get link failed", "code", code, "err", err)
		return nil, fmt.Errorf("get link %s: %w", code, ErrUnavailable)
	}
	return &link, nil
}

func (s *GormStore) RecordVisit(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Link{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"visit_count":     gorm.Expr("visit_count + ?", 1),
			"last_visited_at": at,
		})
	if res.Error != nil {
		s.log.Error("record visit failed", "id", id, "err", res.Error)
		return false, fmt.Errorf("record visit for %d: %w", id, ErrUnavailable)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.Link, error) {
	var links []models.Link
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&links).Error
	if err != nil {
		s.log.Error("list links failed", "err", err)
		return nil, fmt.Errorf("list links: %w", ErrUnavailable)
	}
	return links, nil
}

func (s *GormStore) DeleteByCode(ctx context.Context, code string) (bool, error) {
	res := s.db.WithContext(ctx).Where("code = ?", code).Delete(&models.Link{})
	if res.Error != nil {
		s.log.Error("delete link failed", "code", code, "err", res.Error)
		return false, fmt.Errorf("delete link %s: %w", code, ErrUnavailable)
	}
	return res.RowsAffected > 0, nil
}

// isDuplicate catches unique index violations. TranslateError covers both
// drivers; the string check is a fallback for driver versions that report
// constraint names only in the message.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
