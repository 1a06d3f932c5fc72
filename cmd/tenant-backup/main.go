// tenant-backup exports one tenant's snapshot to disk, or restores one from
// disk, without going through the HTTP API. Meant for ops runbooks and cron.
//
// Usage:
//
//	go run ./cmd/tenant-backup -restaurant "Cantina Azul" -out ./backups
//	go run ./cmd/tenant-backup -restore ./backups/Cantina_Azul_2025-03-14.kaizen
//	go run ./cmd/tenant-backup -restore snap.kaizen -restaurant-id <uuid>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/migration"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
)

func main() {
	restaurantName := flag.String("restaurant", "", "restaurant name to back up")
	restaurantId := flag.String("restaurant-id", "", "restaurant id (alternative to -restaurant; restore target)")
	outDir := flag.String("out", ".", "directory to write the snapshot to")
	restorePath := flag.String("restore", "", "snapshot file to restore instead of backing up")
	flag.Parse()

	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized. Set DB_* env vars.")
		os.Exit(1)
	}

	ctx := utils.SetSkipTenantScopeInContext(context.Background(), true)
	store := migration.NewGormStore()

	if *restorePath != "" {
		runRestore(ctx, store, *restorePath, *restaurantId)
		return
	}

	id := *restaurantId
	if id == "" {
		if *restaurantName == "" {
			fmt.Fprintln(os.Stderr, "one of -restaurant or -restaurant-id is required.")
			os.Exit(2)
		}
		restaurant, err := models.GetRestaurantByName(ctx, *restaurantName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "restaurant %q not found: %v\n", *restaurantName, err)
			os.Exit(1)
		}
		id = restaurant.ID.String()
	}

	export, err := store.LoadTenantExport(ctx, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to export tenant: %v\n", err)
		os.Exit(1)
	}

	data, filename, err := migration.EncodeSnapshot(export, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode snapshot: %v\n", err)
		os.Exit(1)
	}

	path := filepath.Join(*outDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s (%d bytes, %d lists, %d items)\n", path, len(data), len(export.Lists), len(export.Items))
}

func runRestore(ctx context.Context, store migration.Store, path string, restaurantId string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		os.Exit(1)
	}

	report, err := migration.NewRestorer(store).Restore(ctx, restaurantId, data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(out))
}
