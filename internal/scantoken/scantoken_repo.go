package scantoken

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type UseMark struct {
	UsedAt            time.Time
	DeviceFingerprint string
	IPAddress         string
}

//go:generate mockgen -source=scantoken_repo.go -destination=mock/scantoken_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, token *ScanToken) error
	// FindByToken returns nil, nil for an unknown token.
	FindByToken(ctx context.Context, token string) (*ScanToken, error)
	// MarkUsed flips used_at exactly once and reports whether this call did it.
	MarkUsed(ctx context.Context, token string, mark UseMark) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *ScanToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *repository) FindByToken(ctx context.Context, token string) (*ScanToken, error) {
	var t ScanToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) MarkUsed(ctx context.Context, token string, mark UseMark) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ScanToken{}).
		Where("token = ? AND used_at IS NULL", token).
		Updates(map[string]any{
			"used_at":            mark.UsedAt,
			"device_fingerprint": nullable(mark.DeviceFingerprint),
			"ip_address":         nullable(mark.IPAddress),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
