package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
	"gorm.io/gorm"
)

type Restaurant struct {
	ID        uuid.UUID `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Email     string    `gorm:"size:255" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:100" json:"city"`
	Country   string    `gorm:"size:100" json:"country"`
	Timezone  string    `gorm:"size:50" json:"timezone"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRestaurant struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Timezone string `json:"timezone"`
}

func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (input *NewRestaurant) validate(ctx context.Context) error {
	// restaurant name is the tenant natural key; it must be globally unique
	count, err := utils.ResourceCountWhere[Restaurant](ctx, "", "name = ?", input.Name)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate name")
	}
	return nil
}

func CreateRestaurant(ctx context.Context, input *NewRestaurant) (*Restaurant, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	restaurant := Restaurant{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
		City:     input.City,
		Country:  input.Country,
		Timezone: input.Timezone,
		IsActive: utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	err := db.WithContext(ctx).Create(&restaurant).Error
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

// may return RecordNotFound
func GetRestaurantById(ctx context.Context, id string) (*Restaurant, error) {
	db := config.GetDB()
	var restaurant Restaurant
	err := db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &restaurant, nil
}

// lookup by the tenant natural key (exact, case-sensitive match)
// may return RecordNotFound
func GetRestaurantByName(ctx context.Context, name string) (*Restaurant, error) {
	db := config.GetDB()
	var restaurant Restaurant
	err := db.WithContext(ctx).Where("name = ?", name).First(&restaurant).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &restaurant, nil
}

func UpdateRestaurant(ctx context.Context, id string, input *NewRestaurant) (*Restaurant, error) {

	restaurant, err := GetRestaurantById(ctx, id)
	if err != nil {
		return nil, err
	}

	if restaurant.Name != input.Name {
		if err := input.validate(ctx); err != nil {
			return nil, err
		}
	}

	restaurant.Name = input.Name
	restaurant.Email = input.Email
	restaurant.Phone = input.Phone
	restaurant.Address = input.Address
	restaurant.City = input.City
	restaurant.Country = input.Country
	restaurant.Timezone = input.Timezone

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(restaurant).Error; err != nil {
		return nil, err
	}
	return restaurant, nil
}
