package funnels

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/funnel-builder-backend/internal/domain"
	"github.com/yungbote/funnel-builder-backend/internal/platform/dbctx"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type FunnelRepo interface {
	Create(dbc dbctx.Context, f *types.Funnel) (*types.Funnel, error)
	GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Funnel, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Funnel, error)
	UpdateLayout(dbc dbctx.Context, userID, id uuid.UUID, layout datatypes.JSON, published bool) (bool, error)
	Rename(dbc dbctx.Context, userID, id uuid.UUID, name, slug string) (bool, error)
	Delete(dbc dbctx.Context, userID, id uuid.UUID) (bool, error)
}

type funnelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFunnelRepo(db *gorm.DB, baseLog *logger.Logger) FunnelRepo {
	return &funnelRepo{
		db:  db,
		log: baseLog.With("repo", "FunnelRepo"),
	}
}

func (r *funnelRepo) Create(dbc dbctx.Context, f *types.Funnel) (*types.Funnel, error) {
	if f == nil {
		return nil, errors.New("funnel required")
	}
	if err := dbc.Handle(r.db).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// GetByIDForUser returns nil, nil when the funnel does not exist or belongs to
// someone else.
func (r *funnelRepo) GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.Funnel, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var f types.Funnel
	err := dbc.Handle(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *funnelRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Funnel, error) {
	out := []*types.Funnel{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := dbc.Handle(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *funnelRepo) UpdateLayout(dbc dbctx.Context, userID, id uuid.UUID, layout datatypes.JSON, published bool) (bool, error) {
	res := dbc.Handle(r.db).
		Model(&types.Funnel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"layout":    layout,
			"published": published,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *funnelRepo) Rename(dbc dbctx.Context, userID, id uuid.UUID, name, slug string) (bool, error) {
	res := dbc.Handle(r.db).
		Model(&types.Funnel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"name": name,
			"slug": slug,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *funnelRepo) Delete(dbc dbctx.Context, userID, id uuid.UUID) (bool, error) {
	res := dbc.Handle(r.db).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&types.Funnel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
