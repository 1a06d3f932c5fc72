package models

import (
	"context"
	"errors"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
)

type Area struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RestaurantId string    `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewArea struct {
	Name string `json:"name" binding:"required"`
}

func (input *NewArea) validate(ctx context.Context, restaurantId string, id int) error {
	return utils.ValidateUnique[Area](ctx, restaurantId, "name", input.Name, id)
}

func CreateArea(ctx context.Context, input *NewArea) (*Area, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, 0); err != nil {
		return nil, err
	}

	area := Area{
		RestaurantId: restaurantId,
		Name:         input.Name,
		IsActive:     utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&area).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func UpdateArea(ctx context.Context, id int, input *NewArea) (*Area, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, id); err != nil {
		return nil, err
	}

	area, err := utils.FetchModel[Area](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	area.Name = input.Name

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(area).Error; err != nil {
		return nil, err
	}
	return area, nil
}

func DeleteArea(ctx context.Context, id int) (*Area, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	area, err := utils.FetchModel[Area](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(area).Error; err != nil {
		return nil, err
	}
	return area, nil
}

func ListAreas(ctx context.Context) ([]*Area, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchAllModels[Area](ctx, restaurantId)
}
