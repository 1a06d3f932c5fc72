package models

import (
	"log"

	"github.com/kaizenapp/kaizen_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Restaurant{}, &User{},
		&Supplier{}, &Area{},
		&Item{},
		&List{}, &ListItem{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
