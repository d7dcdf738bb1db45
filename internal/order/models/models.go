package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authmodels "github.com/Skotchmaster/storefront/internal/auth/models"
	catalogmodels "github.com/Skotchmaster/storefront/internal/catalog/models"
)

const MaxLineIDLen = 64

// OrderLine is one product in a user's cart. A row never holds quantity 0;
// the last decrement deletes it instead.
type OrderLine struct {
	ID        string    `gorm:"primaryKey;size:64"                               json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"-"`
	ProductID int       `gorm:"not null;uniqueIndex:idx_user_product"           json:"product_id"`
	Quantity  int       `gorm:"not null;check:quantity > 0"                     json:"quantity"`
	CreatedAt time.Time `                                                       json:"-"`
	UpdatedAt time.Time `                                                       json:"-"`

	Product *catalogmodels.Product `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"product,omitempty"`
	User    *authmodels.User       `gorm:"constraint:OnDelete:CASCADE"                   json:"-"`
}

func (o *OrderLine) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (OrderLine) TableName() string {
	return "order_lines"
}
