package migration

import "context"

// Restorer replays a decoded snapshot into a tenant. The same find-or-create
// machinery the importer uses makes restores idempotent: restoring a snapshot
// twice creates nothing on the second run.
type Restorer struct {
	store Store
}

func NewRestorer(store Store) *Restorer {
	return &Restorer{store: store}
}

// Restore decodes the snapshot and replays it. When restaurantId is non-empty
// the data is grafted onto that existing tenant, which must exist; when empty
// the snapshot's own tenant name is looked up and a restaurant is created for
// it if none matches.
//
// Decode failures and a missing explicit target are fatal. Row-level failures
// go to the report.
func (r *Restorer) Restore(ctx context.Context, restaurantId string, data []byte) (*Report, error) {

	export, _, err := DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	resolver := NewResolver(report)

	tenantName := ""
	if restaurantId != "" {
		tenantName, err = r.store.GetRestaurantName(ctx, restaurantId)
		if err != nil {
			return nil, err
		}
		if tenantName == "" {
			return nil, ErrTenantNotFound
		}
	} else {
		tenantName = export.TenantName
		restaurantId, err = r.resolveTenant(ctx, tenantName)
		if err != nil {
			return nil, err
		}
	}
	report.TenantName = tenantName

	r.restoreUsers(ctx, export, restaurantId, resolver, report)
	r.restoreSuppliers(ctx, export, restaurantId, resolver, report)
	r.restoreItems(ctx, export, restaurantId, resolver, report)
	r.restoreLists(ctx, export, restaurantId, resolver, report)

	return report, nil
}

func (r *Restorer) resolveTenant(ctx context.Context, name string) (string, error) {
	id, err := r.store.FindRestaurantByName(ctx, name)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return r.store.CreateRestaurant(ctx, name)
}

func (r *Restorer) restoreUsers(ctx context.Context, export *TenantExport, restaurantId string, resolver *Resolver, report *Report) {
	for _, user := range export.Users {
		if user.Email == "" {
			continue
		}
		// The reserved cross-tenant role never travels in a snapshot and is
		// never recreated from one.
		if user.Role == "superadmin" {
			continue
		}

		_, err := resolver.ResolveOrCreate(ctx, KindUser, restaurantId, user.Email,
			func(ctx context.Context) (int, error) {
				return r.store.FindUserByEmail(ctx, restaurantId, user.Email)
			},
			func(ctx context.Context) (int, error) {
				return r.store.CreateUser(ctx, restaurantId, user)
			})
		if err != nil {
			report.AddError(KindUser, user.Email, err)
		}
	}
}

func (r *Restorer) restoreSuppliers(ctx context.Context, export *TenantExport, restaurantId string, resolver *Resolver, report *Report) {
	for _, supplier := range export.Suppliers {
		if supplier.Name == "" {
			continue
		}

		_, err := resolver.ResolveOrCreate(ctx, KindSupplier, restaurantId, supplier.Name,
			func(ctx context.Context) (int, error) {
				return r.store.FindSupplierByName(ctx, restaurantId, supplier.Name)
			},
			func(ctx context.Context) (int, error) {
				return r.store.CreateSupplier(ctx, restaurantId, supplier)
			})
		if err != nil {
			report.AddError(KindSupplier, supplier.Name, err)
		}
	}
}

func (r *Restorer) restoreItems(ctx context.Context, export *TenantExport, restaurantId string, resolver *Resolver, report *Report) {
	for _, item := range export.Items {
		if item.Name == "" {
			continue
		}

		var supplierId *int
		if item.Supplier != "" {
			if id, ok := resolver.Lookup(KindSupplier, restaurantId, item.Supplier); ok {
				supplierId = &id
			}
		}

		_, err := resolver.ResolveOrCreate(ctx, KindItem, restaurantId, item.Name,
			func(ctx context.Context) (int, error) {
				return r.store.FindItemByName(ctx, restaurantId, item.Name)
			},
			func(ctx context.Context) (int, error) {
				return r.store.CreateItem(ctx, restaurantId, item.Name, item.Unit, supplierId)
			})
		if err != nil {
			report.AddError(KindItem, item.Name, err)
		}
	}
}

func (r *Restorer) restoreLists(ctx context.Context, export *TenantExport, restaurantId string, resolver *Resolver, report *Report) {
	for _, list := range export.Lists {
		if list.Name == "" {
			continue
		}

		listId, err := resolver.ResolveOrCreate(ctx, KindList, restaurantId, list.Name,
			func(ctx context.Context) (int, error) {
				return r.store.FindListByName(ctx, restaurantId, list.Name)
			},
			func(ctx context.Context) (int, error) {
				return r.store.CreateList(ctx, restaurantId, list.Name)
			})
		if err != nil {
			report.AddError(KindList, list.Name, err)
			continue
		}

		for _, link := range list.Items {
			// Links to items the snapshot never declared are dropped without
			// a trace, matching the exporter's own referential guarantees.
			itemId, ok := resolver.Lookup(KindItem, restaurantId, link.Item)
			if !ok {
				continue
			}

			_, err := resolver.ResolveOrCreate(ctx, KindListItem, restaurantId, linkKey(listId, itemId),
				func(ctx context.Context) (int, error) {
					return r.store.FindListItem(ctx, listId, itemId)
				},
				func(ctx context.Context) (int, error) {
					return r.store.CreateListItem(ctx, listId, itemId, link)
				})
			if err != nil {
				report.AddError(KindListItem, link.Item, err)
			}
		}
	}
}
