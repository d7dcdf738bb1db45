package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/order/models"
)

func (r *GormRepo) FindByUserAndProduct(ctx context.Context, userID uuid.UUID, productID int) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&line).Error
	if err != nil {
		return nil, classify("find by user and product", err)
	}
	return &line, nil
}

func (r *GormRepo) FindByID(ctx context.Context, id string) (*models.OrderLine, error) {
	var line models.OrderLine
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&line).Error; err != nil {
		return nil, classify("find by id", err)
	}
	return &line, nil
}

func (r *GormRepo) Create(ctx context.Context, line *models.OrderLine) error {
	return classify("create", r.DB.WithContext(ctx).Omit("Product", "User").Create(line).Error)
}

// UpdateQuantityDelta adds delta to the stored quantity in one statement.
// The update only applies while the result stays positive; a line that is
// missing or would drop to zero reports ErrNotFound and is left untouched.
func (r *GormRepo) UpdateQuantityDelta(ctx context.Context, id string, delta int) error {
	res := r.DB.WithContext(ctx).
		Model(&models.OrderLine{}).
		Where("id = ? AND quantity + ? > 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return classify("update quantity", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("update quantity", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderLine{})
	if res.Error != nil {
		return classify("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteAtQuantity deletes the line only while it still holds quantity. A
// line that is missing or was changed meanwhile reports ErrNotFound.
func (r *GormRepo) DeleteAtQuantity(ctx context.Context, id string, quantity int) error {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND quantity = ?", id, quantity).
		Delete(&models.OrderLine{})
	if res.Error != nil {
		return classify("delete at quantity", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete at quantity", gorm.ErrRecordNotFound)
	}
	return nil
}

// DeleteAllForUser removes every line of the user in one transaction and
// returns how many rows went away.
func (r *GormRepo) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", userID).Delete(&models.OrderLine{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, classify("delete all for user", err)
	}
	return deleted, nil
}

func (r *GormRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.OrderLine, error) {
	lines := make([]models.OrderLine, 0)
	err := r.DB.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, classify("list for user", err)
	}
	return lines, nil
}
