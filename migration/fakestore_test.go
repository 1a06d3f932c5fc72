package migration

import (
	"context"
	"fmt"
)

// fakeStore is an in-memory Store for engine tests. It reproduces the lookup
// semantics of the gorm store (zero id on miss, name-scoped within a tenant)
// without a database.
type fakeStore struct {
	nextId     int
	nextTenant int

	restaurants map[string]string // id -> name
	users       map[string]fakeUser
	suppliers   map[string]fakeSupplier
	areas       map[string]int
	items       map[string]fakeItem
	lists       map[string]int
	links       map[string]fakeLink

	failCreateItemNamed string
}

type fakeUser struct {
	id   int
	user UserExport
}

type fakeSupplier struct {
	id       int
	supplier SupplierExport
}

type fakeItem struct {
	id         int
	unit       string
	supplierId *int
}

type fakeLink struct {
	id   int
	link ListItemExport
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		restaurants: map[string]string{},
		users:       map[string]fakeUser{},
		suppliers:   map[string]fakeSupplier{},
		areas:       map[string]int{},
		items:       map[string]fakeItem{},
		lists:       map[string]int{},
		links:       map[string]fakeLink{},
	}
}

func (s *fakeStore) id() int {
	s.nextId++
	return s.nextId
}

func scoped(restaurantId, name string) string {
	return restaurantId + "/" + name
}

func (s *fakeStore) GetRestaurantName(ctx context.Context, id string) (string, error) {
	return s.restaurants[id], nil
}

func (s *fakeStore) FindRestaurantByName(ctx context.Context, name string) (string, error) {
	for id, n := range s.restaurants {
		if n == name {
			return id, nil
		}
	}
	return "", nil
}

func (s *fakeStore) CreateRestaurant(ctx context.Context, name string) (string, error) {
	s.nextTenant++
	id := fmt.Sprintf("tenant-%d", s.nextTenant)
	s.restaurants[id] = name
	return id, nil
}

func (s *fakeStore) FindUserByEmail(ctx context.Context, restaurantId string, email string) (int, error) {
	return s.users[scoped(restaurantId, email)].id, nil
}

func (s *fakeStore) CreateUser(ctx context.Context, restaurantId string, user UserExport) (int, error) {
	id := s.id()
	s.users[scoped(restaurantId, user.Email)] = fakeUser{id: id, user: user}
	return id, nil
}

func (s *fakeStore) FindSupplierByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.suppliers[scoped(restaurantId, name)].id, nil
}

func (s *fakeStore) CreateSupplier(ctx context.Context, restaurantId string, supplier SupplierExport) (int, error) {
	id := s.id()
	s.suppliers[scoped(restaurantId, supplier.Name)] = fakeSupplier{id: id, supplier: supplier}
	return id, nil
}

func (s *fakeStore) FindAreaByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.areas[scoped(restaurantId, name)], nil
}

func (s *fakeStore) CreateArea(ctx context.Context, restaurantId string, name string) (int, error) {
	id := s.id()
	s.areas[scoped(restaurantId, name)] = id
	return id, nil
}

func (s *fakeStore) FindItemByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.items[scoped(restaurantId, name)].id, nil
}

func (s *fakeStore) CreateItem(ctx context.Context, restaurantId string, name string, unit string, supplierId *int) (int, error) {
	if name == s.failCreateItemNamed {
		return 0, fmt.Errorf("simulated storage failure")
	}
	id := s.id()
	s.items[scoped(restaurantId, name)] = fakeItem{id: id, unit: unit, supplierId: supplierId}
	return id, nil
}

func (s *fakeStore) FindListByName(ctx context.Context, restaurantId string, name string) (int, error) {
	return s.lists[scoped(restaurantId, name)], nil
}

func (s *fakeStore) CreateList(ctx context.Context, restaurantId string, name string) (int, error) {
	id := s.id()
	s.lists[scoped(restaurantId, name)] = id
	return id, nil
}

func (s *fakeStore) FindListItem(ctx context.Context, listId int, itemId int) (int, error) {
	return s.links[fmt.Sprintf("%d/%d", listId, itemId)].id, nil
}

func (s *fakeStore) CreateListItem(ctx context.Context, listId int, itemId int, link ListItemExport) (int, error) {
	id := s.id()
	s.links[fmt.Sprintf("%d/%d", listId, itemId)] = fakeLink{id: id, link: link}
	return id, nil
}

func (s *fakeStore) LoadTenantExport(ctx context.Context, restaurantId string) (*TenantExport, error) {
	return nil, fmt.Errorf("not implemented in fake")
}
