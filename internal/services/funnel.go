package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/funnel-builder-backend/internal/data/repos"
	types "github.com/yungbote/funnel-builder-backend/internal/domain"
	"github.com/yungbote/funnel-builder-backend/internal/modules/builder/layout"
	"github.com/yungbote/funnel-builder-backend/internal/normalization"
	"github.com/yungbote/funnel-builder-backend/internal/platform/apierr"
	"github.com/yungbote/funnel-builder-backend/internal/platform/ctxutil"
	"github.com/yungbote/funnel-builder-backend/internal/platform/dbctx"
	"github.com/yungbote/funnel-builder-backend/internal/platform/logger"
)

type FunnelUpdate struct {
	Name      *string          `json:"name,omitempty"`
	Layout    *json.RawMessage `json:"layout,omitempty"`
	Published *bool            `json:"published,omitempty"`
}

type FunnelService interface {
	Create(ctx context.Context, name string) (*types.Funnel, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Funnel, error)
	List(ctx context.Context) ([]*types.Funnel, error)
	Update(ctx context.Context, id uuid.UUID, in FunnelUpdate) (*types.Funnel, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// LoadLayout and SaveLayout take the owner explicitly: autosaves run
	// outside any request context.
	LoadLayout(ctx context.Context, userID, id uuid.UUID) (layout.Document, bool, error)
	SaveLayout(ctx context.Context, userID, id uuid.UUID, doc layout.Document, published bool) error
}

type funnelService struct {
	db         *gorm.DB
	log        *logger.Logger
	funnelRepo repos.FunnelRepo
}

func NewFunnelService(db *gorm.DB, log *logger.Logger, funnelRepo repos.FunnelRepo) FunnelService {
	return &funnelService{
		db:         db,
		log:        log.With("service", "FunnelService"),
		funnelRepo: funnelRepo,
	}
}

func errFunnelNotFound() error { return apierr.NotFound("funnel_not_found") }

func requireUser(ctx context.Context) (uuid.UUID, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return uuid.Nil, apierr.New(http.StatusUnauthorized, "unauthorized", apierr.ErrUnauthorized)
	}
	return userID, nil
}

func (s *funnelService) Create(ctx context.Context, name string) (*types.Funnel, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.BadRequest("name_required", fmt.Errorf("name is required"))
	}
	f := &types.Funnel{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Slug:   normalization.Slug(name),
		Layout: datatypes.JSON([]byte("[]")),
	}
	created, err := s.funnelRepo.Create(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, fmt.Errorf("create funnel: %w", err)
	}
	s.log.WithContext(ctx).Info("Funnel created", "funnel_id", created.ID)
	return created, nil
}

func (s *funnelService) Get(ctx context.Context, id uuid.UUID) (*types.Funnel, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	f, err := s.funnelRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load funnel: %w", err)
	}
	if f == nil {
		return nil, errFunnelNotFound()
	}
	return f, nil
}

func (s *funnelService) List(ctx context.Context) ([]*types.Funnel, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.funnelRepo.ListByUser(dbctx.Context{Ctx: ctx}, userID)
}

func (s *funnelService) Update(ctx context.Context, id uuid.UUID, in FunnelUpdate) (*types.Funnel, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Funnel
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		f, err := s.funnelRepo.GetByIDForUser(dbc, userID, id)
		if err != nil {
			return err
		}
		if f == nil {
			return errFunnelNotFound()
		}

		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return apierr.BadRequest("name_required", fmt.Errorf("name is required"))
			}
			if _, err := s.funnelRepo.Rename(dbc, userID, id, name, normalization.Slug(name)); err != nil {
				return err
			}
		}

		if in.Layout != nil || in.Published != nil {
			raw := []byte(f.Layout)
			if in.Layout != nil {
				doc, err := layout.Decode(*in.Layout)
				if err != nil {
					return apierr.BadRequest("invalid_layout", err)
				}
				if raw, err = layout.Encode(doc); err != nil {
					return err
				}
			}
			published := f.Published
			if in.Published != nil {
				published = *in.Published
			}
			if _, err := s.funnelRepo.UpdateLayout(dbc, userID, id, datatypes.JSON(raw), published); err != nil {
				return err
			}
		}

		out, err = s.funnelRepo.GetByIDForUser(dbc, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *funnelService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := requireUser(ctx)
	if err != nil {
		return err
	}
	ok, err := s.funnelRepo.Delete(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return fmt.Errorf("delete funnel: %w", err)
	}
	if !ok {
		return errFunnelNotFound()
	}
	return nil
}

func (s *funnelService) LoadLayout(ctx context.Context, userID, id uuid.UUID) (layout.Document, bool, error) {
	f, err := s.funnelRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, false, fmt.Errorf("load funnel: %w", err)
	}
	if f == nil {
		return nil, false, errFunnelNotFound()
	}
	doc, err := layout.Decode(f.Layout)
	if err != nil {
		// Unreadable layouts open as an empty page.
		s.log.Warn("Stored layout unreadable; starting empty", "funnel_id", id, "error", err)
		doc = layout.Document{}
	}
	return doc, f.Published, nil
}

func (s *funnelService) SaveLayout(ctx context.Context, userID, id uuid.UUID, doc layout.Document, published bool) error {
	raw, err := layout.Encode(doc)
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	ok, err := s.funnelRepo.UpdateLayout(dbctx.Context{Ctx: ctxutil.Default(ctx)}, userID, id, datatypes.JSON(raw), published)
	if err != nil {
		return fmt.Errorf("save layout: %w", err)
	}
	if !ok {
		return errFunnelNotFound()
	}
	return nil
}
