package models

import (
	"context"
	"errors"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
)

// Item is a catalog item: an ingredient or product the restaurant stocks.
type Item struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RestaurantId string    `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Unit         string    `gorm:"size:20" json:"unit"`
	SupplierId   *int      `gorm:"index" json:"supplier_id"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewItem struct {
	Name       string `json:"name" binding:"required"`
	Unit       string `json:"unit"`
	SupplierId *int   `json:"supplier_id"`
}

func (input *NewItem) validate(ctx context.Context, restaurantId string, id int) error {
	if err := utils.ValidateUnique[Item](ctx, restaurantId, "name", input.Name, id); err != nil {
		return err
	}
	if input.SupplierId != nil && *input.SupplierId != 0 {
		if err := utils.ValidateResourceId[Supplier](ctx, restaurantId, *input.SupplierId); err != nil {
			return errors.New("supplier not found")
		}
	}
	return nil
}

func CreateItem(ctx context.Context, input *NewItem) (*Item, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, 0); err != nil {
		return nil, err
	}

	item := Item{
		RestaurantId: restaurantId,
		Name:         input.Name,
		Unit:         input.Unit,
		SupplierId:   input.SupplierId,
		IsActive:     utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func UpdateItem(ctx context.Context, id int, input *NewItem) (*Item, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, id); err != nil {
		return nil, err
	}

	item, err := utils.FetchModel[Item](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	item.Name = input.Name
	item.Unit = input.Unit
	item.SupplierId = input.SupplierId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func DeleteItem(ctx context.Context, id int) (*Item, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	item, err := utils.FetchModel[Item](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Where("item_id = ?", id).Delete(&ListItem{}).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func GetItem(ctx context.Context, id int) (*Item, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchModel[Item](ctx, restaurantId, id)
}

func ListItems(ctx context.Context) ([]*Item, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchAllModels[Item](ctx, restaurantId)
}
