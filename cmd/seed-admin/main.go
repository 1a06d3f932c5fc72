// seed-admin creates or updates the platform super admin user.
// Super admins belong to no restaurant; their token lets them act across
// tenants (restore into any tenant, inspect any tenant's data).
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail = "admin@kaizen.local"
	defaultAdminName  = "Kaizen Admin"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD is required.")
		os.Exit(1)
	}

	ctx = utils.SetSkipTenantScopeInContext(ctx, true)
	ctx = utils.SetIsSuperAdminInContext(ctx, true)

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Name:     defaultAdminName,
			Email:    email,
			Password: string(hashed),
			Role:     models.RoleSuperAdmin,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created super admin %s (id=%d)\n", email, u.ID)
		return
	}

	updates := map[string]interface{}{
		"password":  string(hashed),
		"role":      models.RoleSuperAdmin,
		"is_active": true,
	}
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated super admin %s (id=%d)\n", email, existing.ID)
}
