package session

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock
type Repository interface {
	ConfigSource
	FindByID(ctx context.Context, id string) (*SessionConfig, error)
	Create(ctx context.Context, s *SessionConfig) error
	Update(ctx context.Context, s *SessionConfig) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListSessions(ctx context.Context) ([]SessionConfig, error) {
	var rows []SessionConfig
	err := r.db.WithContext(ctx).
		Order("position ASC, created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*SessionConfig, error) {
	var s SessionConfig
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	return &s, err
}

func (r *repository) Create(ctx context.Context, s *SessionConfig) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) Update(ctx context.Context, s *SessionConfig) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&SessionConfig{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
