package models

import (
	"context"
	"errors"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/utils"
)

type UserRole string

const (
	// RoleSuperAdmin is the platform operator role. It is reserved: restore
	// never replays super admin accounts into a tenant.
	RoleSuperAdmin UserRole = "superadmin"
	RoleManager    UserRole = "gerente"
	RoleStaff      UserRole = "funcionario"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	RestaurantId string    `gorm:"index;not null" json:"restaurant_id"`
	Name         string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email        string    `gorm:"size:255;not null" json:"email" binding:"required"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         UserRole  `gorm:"type:enum('superadmin','gerente','funcionario');not null;default:'funcionario'" json:"role"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required,email"`
	Password string   `json:"password" binding:"required,min=6"`
	Role     UserRole `json:"role"`
}

func (input *NewUser) validate(ctx context.Context, restaurantId string, id int) error {
	if !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	if err := utils.ValidateUnique[User](ctx, restaurantId, "email", input.Email, id); err != nil {
		return err
	}
	if input.Role == RoleSuperAdmin {
		return errors.New("role is reserved")
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {

	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}

	if err := input.validate(ctx, restaurantId, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = RoleStaff
	}

	user := User{
		RestaurantId: restaurantId,
		Name:         input.Name,
		Email:        input.Email,
		Password:     string(hashed),
		Role:         role,
		IsActive:     utils.NewTrue(),
	}

	// db action
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// login lookup: email is unique across tenants for credentialed access
// may return RecordNotFound
func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchModel[User](ctx, restaurantId, id)
}

func ListUsers(ctx context.Context) ([]*User, error) {
	restaurantId, ok := utils.GetRestaurantIdFromContext(ctx)
	if !ok || restaurantId == "" {
		return nil, errors.New("restaurant id is required")
	}
	return utils.FetchAllModels[User](ctx, restaurantId)
}
