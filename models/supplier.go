package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
)

type Supplier struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RestaurantId string    `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Email        string    `gorm:"size:100" json:"email"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewSupplier) validate(ctx context.Context, restaurantId string, id int) error {
	// name is the natural key within a tenant
	if err := utils.ValidateUnique[Supplier](ctx, restaurantId, "name", input.Name, id); err != nil {
		return err
	}
	// phone (only validated on the API path; imported legacy data is accepted as-is)
	if len(strings.TrimSpace(input.Phone)) > 0 {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("invalid phone number")
		}
	}
	// email
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, 0); err != nil {
		return nil, err
	}

	supplier := Supplier{
		RestaurantId: restaurantId,
		Name:         input.Name,
		Phone:        input.Phone,
		Email:        input.Email,
		IsActive:     utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func UpdateSupplier(ctx context.Context, id int, input *NewSupplier) (*Supplier, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, id); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = input.Name
	supplier.Phone = input.Phone
	supplier.Email = input.Email

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func DeleteSupplier(ctx context.Context, id int) (*Supplier, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	supplier, err := utils.FetchModel[Supplier](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	// items referencing this supplier keep working: the reference is nullable
	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&Item{}).
		Where("restaurant_id = ? AND supplier_id = ?", restaurantId, id).
		Update("supplier_id", nil).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

func GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchModel[Supplier](ctx, restaurantId, id)
}

func ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchAllModels[Supplier](ctx, restaurantId)
}
