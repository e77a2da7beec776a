package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/funnel-builder-backend/internal/domain"
)

func SeedFunnel(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, name string) *types.Funnel {
	tb.Helper()
	f := &types.Funnel{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Slug:   name,
		Layout: datatypes.JSON([]byte("[]")),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed funnel: %v", err)
	}
	return f
}
