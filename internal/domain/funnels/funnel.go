package funnels

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Funnel is one builder page owned by a user. Layout holds the section tree
// exactly as the editor serializes it.
type Funnel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
	Name      string         `gorm:"not null;column:name" json:"name"`
	Slug      string         `gorm:"not null;index;column:slug" json:"slug"`
	Layout    datatypes.JSON `gorm:"column:layout" json:"layout"`
	Published bool           `gorm:"not null;default:false;column:published" json:"published"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Funnel) TableName() string { return "funnel" }

func (f *Funnel) BeforeCreate(*gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if len(f.Layout) == 0 {
		f.Layout = datatypes.JSON([]byte("[]"))
	}
	return nil
}
