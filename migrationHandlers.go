package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/migration"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
)

const (
	maxArchiveSize = 20 << 20
	maxListCSVSize = 5 << 20
)

// tenantMigrationLock serializes migrations per tenant. The lock is a
// best-effort optimization; the engine itself is idempotent, so losing Redis
// degrades to possible duplicate-key row errors, not corruption.
func tenantMigrationLock(ctx context.Context, restaurantId string) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	lock, err := locker.Obtain(ctx, "migracao:"+restaurantId, 5*time.Minute, nil)
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, err
		}
		// Redis unavailable: proceed without the lock.
		return nil, nil
	}
	return lock, nil
}

func readUpload(c *gin.Context, fieldName string, maxSize int64, wantExt string) ([]byte, bool) {
	fileHeader, err := c.FormFile(fieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo is required"})
		return nil, false
	}
	if fileHeader.Size > maxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return nil, false
	}
	if wantExt != "" && !strings.EqualFold(filepath.Ext(fileHeader.Filename), wantExt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unexpected file type"})
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil || int64(len(data)) > maxSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read upload"})
		return nil, false
	}
	return data, true
}

func importArchiveHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()
		restaurantId, _ := utils.GetRestaurantIdFromContext(ctx)
		if restaurantId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		data, ok := readUpload(c, "arquivo", maxArchiveSize, ".zip")
		if !ok {
			return
		}

		lock, err := tenantMigrationLock(ctx, restaurantId)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "another migration is already running"})
			return
		}
		if lock != nil {
			defer lock.Release(ctx)
		}

		importer := migration.NewImporter(migration.NewGormStore())
		report, err := importer.ImportArchive(ctx, restaurantId, data)
		if err != nil {
			config.LogError(logger, "migrationHandlers.go", "importArchiveHandler", "ImportArchive", nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func importListCSVHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()
		restaurantId, _ := utils.GetRestaurantIdFromContext(ctx)
		if restaurantId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		listId, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
			return
		}
		if _, err := models.GetList(ctx, listId); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return
		}

		data, ok := readUpload(c, "arquivo", maxListCSVSize, ".csv")
		if !ok {
			return
		}

		importer := migration.NewImporter(migration.NewGormStore())
		report, err := importer.ImportListCSV(ctx, restaurantId, listId, string(data))
		if err != nil {
			config.LogError(logger, "migrationHandlers.go", "importListCSVHandler", "ImportListCSV", nil, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func backupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()
		restaurantId, _ := utils.GetRestaurantIdFromContext(ctx)
		if restaurantId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		store := migration.NewGormStore()
		export, err := store.LoadTenantExport(ctx, restaurantId)
		if err != nil {
			config.LogError(logger, "migrationHandlers.go", "backupHandler", "LoadTenantExport", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not export tenant data"})
			return
		}

		data, filename, err := migration.EncodeSnapshot(export, time.Now())
		if err != nil {
			config.LogError(logger, "migrationHandlers.go", "backupHandler", "EncodeSnapshot", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not encode snapshot"})
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, "application/gzip", data)
	}
}

func restoreHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()
		ctx := c.Request.Context()

		// Non-admins always restore into their own tenant. Super admins may
		// target any tenant by id, or none at all to let the snapshot's own
		// tenant name find or create the restaurant.
		targetId, _ := utils.GetRestaurantIdFromContext(ctx)
		if isSuper, _ := utils.GetIsSuperAdminFromContext(ctx); isSuper {
			targetId = c.PostForm("restauranteId")
		} else if targetId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		data, ok := readUpload(c, "arquivo", maxArchiveSize, "")
		if !ok {
			return
		}

		lockKey := targetId
		if lockKey == "" {
			lockKey = "global"
		}
		lock, err := tenantMigrationLock(ctx, lockKey)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": "another migration is already running"})
			return
		}
		if lock != nil {
			defer lock.Release(ctx)
		}

		restorer := migration.NewRestorer(migration.NewGormStore())
		report, err := restorer.Restore(ctx, targetId, data)
		if err != nil {
			config.LogError(logger, "migrationHandlers.go", "restoreHandler", "Restore", nil, err)
			status := http.StatusBadRequest
			if errors.Is(err, migration.ErrTenantNotFound) {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
	}
}
