package migration

import (
	"context"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
)

// Store is the transactional entity store the engine writes through. Find
// methods look up by natural key and return the zero id when no row matches;
// Create methods persist and return the new id. The gorm-backed implementation
// is used in production; tests substitute an in-memory fake.
type Store interface {
	GetRestaurantName(ctx context.Context, id string) (string, error)
	FindRestaurantByName(ctx context.Context, name string) (string, error)
	CreateRestaurant(ctx context.Context, name string) (string, error)

	FindUserByEmail(ctx context.Context, restaurantId string, email string) (int, error)
	CreateUser(ctx context.Context, restaurantId string, user UserExport) (int, error)

	FindSupplierByName(ctx context.Context, restaurantId string, name string) (int, error)
	CreateSupplier(ctx context.Context, restaurantId string, supplier SupplierExport) (int, error)

	FindAreaByName(ctx context.Context, restaurantId string, name string) (int, error)
	CreateArea(ctx context.Context, restaurantId string, name string) (int, error)

	FindItemByName(ctx context.Context, restaurantId string, name string) (int, error)
	CreateItem(ctx context.Context, restaurantId string, name string, unit string, supplierId *int) (int, error)

	FindListByName(ctx context.Context, restaurantId string, name string) (int, error)
	CreateList(ctx context.Context, restaurantId string, name string) (int, error)

	FindListItem(ctx context.Context, listId int, itemId int) (int, error)
	CreateListItem(ctx context.Context, listId int, itemId int, link ListItemExport) (int, error)

	LoadTenantExport(ctx context.Context, restaurantId string) (*TenantExport, error)
}

// GormStore implements Store against the application database. All writes are
// direct row creates: legacy data is accepted as-is, so the API-level input
// validation (phone format etc.) deliberately does not run here.
type GormStore struct{}

func NewGormStore() *GormStore { return &GormStore{} }

func (s *GormStore) GetRestaurantName(ctx context.Context, id string) (string, error) {
	db := config.GetDB()
	var name string
	err := db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("id = ?", id).Select("name").Limit(1).Scan(&name).Error
	return name, err
}

func (s *GormStore) FindRestaurantByName(ctx context.Context, name string) (string, error) {
	db := config.GetDB()
	var id string
	err := db.WithContext(ctx).Model(&models.Restaurant{}).
		Where("name = ?", name).Select("id").Limit(1).Scan(&id).Error
	return id, err
}

func (s *GormStore) CreateRestaurant(ctx context.Context, name string) (string, error) {
	restaurant := models.Restaurant{
		Name:     name,
		IsActive: utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&restaurant).Error; err != nil {
		return "", err
	}
	return restaurant.ID.String(), nil
}

func (s *GormStore) FindUserByEmail(ctx context.Context, restaurantId string, email string) (int, error) {
	return s.findId(ctx, &models.User{}, restaurantId, "email", email)
}

func (s *GormStore) CreateUser(ctx context.Context, restaurantId string, user UserExport) (int, error) {
	role := models.UserRole(user.Role)
	if role != models.RoleManager && role != models.RoleStaff {
		role = models.RoleStaff
	}
	row := models.User{
		RestaurantId: restaurantId,
		Name:         user.Name,
		Email:        user.Email,
		Password:     user.PasswordHash,
		Role:         role,
		IsActive:     utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *GormStore) FindSupplierByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.findId(ctx, &models.Supplier{}, restaurantId, "name", name)
}

func (s *GormStore) CreateSupplier(ctx context.Context, restaurantId string, supplier SupplierExport) (int, error) {
	row := models.Supplier{
		RestaurantId: restaurantId,
		Name:         supplier.Name,
		Phone:        supplier.Phone,
		Email:        supplier.Email,
		IsActive:     utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *GormStore) FindAreaByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.findId(ctx, &models.Area{}, restaurantId, "name", name)
}

func (s *GormStore) CreateArea(ctx context.Context, restaurantId string, name string) (int, error) {
	row := models.Area{
		RestaurantId: restaurantId,
		Name:         name,
		IsActive:     utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *GormStore) FindItemByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.findId(ctx, &models.Item{}, restaurantId, "name", name)
}

func (s *GormStore) CreateItem(ctx context.Context, restaurantId string, name string, unit string, supplierId *int) (int, error) {
	row := models.Item{
		RestaurantId: restaurantId,
		Name:         name,
		Unit:         unit,
		SupplierId:   supplierId,
		IsActive:     utils.NewTrue(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// non-deleted lists only: the name is free for reuse once a list is soft-deleted
func (s *GormStore) FindListByName(ctx context.Context, restaurantId string, name string) (int, error) {
	db := config.GetDB()
	var id int
	err := db.WithContext(ctx).Model(&models.List{}).
		Where("restaurant_id = ? AND name = ? AND is_deleted = false", restaurantId, name).
		Select("id").Limit(1).Scan(&id).Error
	return id, err
}

func (s *GormStore) CreateList(ctx context.Context, restaurantId string, name string) (int, error) {
	row := models.List{
		RestaurantId: restaurantId,
		Name:         name,
		IsDeleted:    utils.NewFalse(),
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

func (s *GormStore) FindListItem(ctx context.Context, listId int, itemId int) (int, error) {
	db := config.GetDB()
	var id int
	err := db.WithContext(ctx).Model(&models.ListItem{}).
		Where("list_id = ? AND item_id = ?", listId, itemId).
		Select("id").Limit(1).Scan(&id).Error
	return id, err
}

func (s *GormStore) CreateListItem(ctx context.Context, listId int, itemId int, link ListItemExport) (int, error) {
	usesThreshold := link.UsesThreshold
	row := models.ListItem{
		ListId:             listId,
		ItemId:             itemId,
		MinQuantity:        link.MinQuantity,
		CurrentQuantity:    link.CurrentQuantity,
		QuantityPerPackage: link.QuantityPerPackage,
		UsesThreshold:      &usesThreshold,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, err
	}
	return row.ID, nil
}

// LoadTenantExport reads all of a tenant's exportable state for the snapshot
// encoder. Read-only: backup never mutates.
func (s *GormStore) LoadTenantExport(ctx context.Context, restaurantId string) (*TenantExport, error) {
	db := config.GetDB()

	var restaurant models.Restaurant
	if err := db.WithContext(ctx).Where("id = ?", restaurantId).First(&restaurant).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	export := TenantExport{TenantName: restaurant.Name}

	var users []*models.User
	if err := db.WithContext(ctx).Where("restaurant_id = ?", restaurantId).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		export.Users = append(export.Users, UserExport{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.Password,
			Role:         string(u.Role),
		})
	}

	var suppliers []*models.Supplier
	if err := db.WithContext(ctx).Where("restaurant_id = ?", restaurantId).Find(&suppliers).Error; err != nil {
		return nil, err
	}
	supplierNames := make(map[int]string, len(suppliers))
	for _, sup := range suppliers {
		supplierNames[sup.ID] = sup.Name
		export.Suppliers = append(export.Suppliers, SupplierExport{
			Name:  sup.Name,
			Phone: sup.Phone,
			Email: sup.Email,
		})
	}

	var items []*models.Item
	if err := db.WithContext(ctx).Where("restaurant_id = ?", restaurantId).Find(&items).Error; err != nil {
		return nil, err
	}
	itemNames := make(map[int]string, len(items))
	for _, item := range items {
		itemNames[item.ID] = item.Name
		supplierName := ""
		if item.SupplierId != nil {
			supplierName = supplierNames[*item.SupplierId]
		}
		export.Items = append(export.Items, ItemExport{
			Name:     item.Name,
			Unit:     item.Unit,
			Supplier: supplierName,
		})
	}

	var lists []*models.List
	if err := db.WithContext(ctx).
		Where("restaurant_id = ? AND is_deleted = false", restaurantId).
		Find(&lists).Error; err != nil {
		return nil, err
	}
	for _, list := range lists {
		listExport := ListExport{Name: list.Name}

		var links []*models.ListItem
		if err := db.WithContext(ctx).Where("list_id = ?", list.ID).Find(&links).Error; err != nil {
			return nil, err
		}
		for _, link := range links {
			itemName, ok := itemNames[link.ItemId]
			if !ok {
				continue
			}
			listExport.Items = append(listExport.Items, ListItemExport{
				Item:               itemName,
				MinQuantity:        link.MinQuantity,
				CurrentQuantity:    link.CurrentQuantity,
				QuantityPerPackage: link.QuantityPerPackage,
				UsesThreshold:      utils.DereferencePtr(link.UsesThreshold),
			})
		}
		export.Lists = append(export.Lists, listExport)
	}

	return &export, nil
}

func (s *GormStore) findId(ctx context.Context, model interface{}, restaurantId string, column string, value string) (int, error) {
	db := config.GetDB()
	var id int
	err := db.WithContext(ctx).Model(model).
		Where("restaurant_id = ? AND "+column+" = ?", restaurantId, value).
		Select("id").Limit(1).Scan(&id).Error
	return id, err
}
