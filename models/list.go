package models

import (
	"context"
	"errors"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
	"github.com/shopspring/decimal"
)

// List is a shopping/stock list. Lists are soft-deleted so historic imports
// keep their audit trail; name uniqueness only applies among non-deleted lists.
type List struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RestaurantId string    `gorm:"index;not null" json:"restaurant_id"`
	AreaId       *int      `gorm:"index" json:"area_id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	IsDeleted    *bool     `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type ListItem struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	ListId             int             `gorm:"index;not null;uniqueIndex:idx_list_item" json:"list_id"`
	ItemId             int             `gorm:"not null;uniqueIndex:idx_list_item" json:"item_id"`
	MinQuantity        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"min_quantity"`
	CurrentQuantity    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_quantity"`
	QuantityPerPackage decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity_per_package"`
	UsesThreshold      *bool           `gorm:"not null;default:false" json:"uses_threshold"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewList struct {
	Name   string `json:"name" binding:"required"`
	AreaId *int   `json:"area_id"`
}

type NewListItem struct {
	ItemId             int             `json:"item_id" binding:"required"`
	MinQuantity        decimal.Decimal `json:"min_quantity"`
	CurrentQuantity    decimal.Decimal `json:"current_quantity"`
	QuantityPerPackage decimal.Decimal `json:"quantity_per_package"`
	UsesThreshold      *bool           `json:"uses_threshold"`
}

func (input *NewList) validate(ctx context.Context, restaurantId string, id int) error {
	// unique among non-deleted lists only
	var count int64
	var err error
	if id == 0 {
		count, err = utils.ResourceCountWhere[List](ctx, restaurantId, "name = ? AND is_deleted = false", input.Name)
	} else {
		count, err = utils.ResourceCountWhere[List](ctx, restaurantId, "name = ? AND is_deleted = false AND NOT id = ?", input.Name, id)
	}
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate name")
	}
	if input.AreaId != nil && *input.AreaId != 0 {
		if err := utils.ValidateResourceId[Area](ctx, restaurantId, *input.AreaId); err != nil {
			return errors.New("area not found")
		}
	}
	return nil
}

func CreateList(ctx context.Context, input *NewList) (*List, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, 0); err != nil {
		return nil, err
	}

	list := List{
		RestaurantId: restaurantId,
		Name:         input.Name,
		AreaId:       input.AreaId,
		IsDeleted:    utils.NewFalse(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&list).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

func UpdateList(ctx context.Context, id int, input *NewList) (*List, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, id); err != nil {
		return nil, err
	}

	list, err := utils.FetchModel[List](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	list.Name = input.Name
	list.AreaId = input.AreaId

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// soft delete
func DeleteList(ctx context.Context, id int) (*List, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	list, err := utils.FetchModel[List](ctx, restaurantId, id)
	if err != nil {
		return nil, err
	}

	list.IsDeleted = utils.NewTrue()

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func GetList(ctx context.Context, id int) (*List, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchModel[List](ctx, restaurantId, id)
}

func ListLists(ctx context.Context) ([]*List, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	db := config.GetDB()
	var results []*List
	err := db.WithContext(ctx).
		Where("restaurant_id = ? AND is_deleted = false", restaurantId).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func AddListItem(ctx context.Context, listId int, input *NewListItem) (*ListItem, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if _, err := utils.FetchModel[List](ctx, restaurantId, listId); err != nil {
		return nil, errors.New("list not found")
	}
	if err := utils.ValidateResourceId[Item](ctx, restaurantId, input.ItemId); err != nil {
		return nil, errors.New("item not found")
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&ListItem{}).
		Where("list_id = ? AND item_id = ?", listId, input.ItemId).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("item already in list")
	}

	usesThreshold := input.UsesThreshold
	if usesThreshold == nil {
		v := input.MinQuantity.IsPositive()
		usesThreshold = &v
	}

	listItem := ListItem{
		ListId:             listId,
		ItemId:             input.ItemId,
		MinQuantity:        input.MinQuantity,
		CurrentQuantity:    input.CurrentQuantity,
		QuantityPerPackage: input.QuantityPerPackage,
		UsesThreshold:      usesThreshold,
	}

	if err := db.WithContext(ctx).Create(&listItem).Error; err != nil {
		return nil, err
	}
	return &listItem, nil
}

func ListListItems(ctx context.Context, listId int) ([]*ListItem, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	if _, err := utils.FetchModel[List](ctx, restaurantId, listId); err != nil {
		return nil, errors.New("list not found")
	}

	db := config.GetDB()
	var results []*ListItem
	if err := db.WithContext(ctx).Where("list_id = ?", listId).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func RemoveListItem(ctx context.Context, listId int, itemId int) error {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return errors.New("restaurant id is required")
	}
	if _, err := utils.FetchModel[List](ctx, restaurantId, listId); err != nil {
		return errors.New("list not found")
	}

	db := config.GetDB()
	return db.WithContext(ctx).
		Where("list_id = ? AND item_id = ?", listId, itemId).
		Delete(&ListItem{}).Error
}
