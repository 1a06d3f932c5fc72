package migration

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// Expected ZIP entry names. Each one is optional: operators may export a
// subset of entity types, so a missing file skips its phase silently.
const (
	entrySuppliers = "fornecedores.csv"
	entryAreas     = "areas.csv"
	entryItems     = "itens.csv"
	entryLists     = "listas.csv"
)

// Importer drives the bulk ZIP import ("phase 1") and the per-list CSV import
// ("phase 2"). All writes go through the Store; a fresh Resolver per run keeps
// the natural-key cache invocation-scoped.
type Importer struct {
	store Store
}

func NewImporter(store Store) *Importer {
	return &Importer{store: store}
}

// ImportArchive runs the four ordered bulk-import phases against the target
// tenant. The order is fixed by foreign-key dependencies: suppliers before
// catalog items (items reference suppliers by name), everything before lists.
// Linking items into lists is deferred to the per-list import.
//
// Only an unreadable archive is fatal. Row-level failures are recorded in the
// report and never abort the run.
func (imp *Importer) ImportArchive(ctx context.Context, restaurantId string, data []byte) (*Report, error) {

	archive, err := OpenArchive(data)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	resolver := NewResolver(report)

	imp.importSuppliers(ctx, archive, restaurantId, resolver, report)
	imp.importAreas(ctx, archive, restaurantId, resolver, report)
	imp.importItems(ctx, archive, restaurantId, resolver, report)
	imp.importLists(ctx, archive, restaurantId, resolver, report)

	return report, nil
}

func (imp *Importer) importSuppliers(ctx context.Context, archive *Archive, restaurantId string, resolver *Resolver, report *Report) {
	for _, row := range entryRows(archive, entrySuppliers) {
		name := field(row, 1)
		if name == "" {
			continue
		}
		phone := field(row, 2)
		email := field(row, 3)

		_, err := resolver.ResolveOrCreate(ctx, KindSupplier, restaurantId, name,
			func(ctx context.Context) (int, error) {
				return imp.store.FindSupplierByName(ctx, restaurantId, name)
			},
			func(ctx context.Context) (int, error) {
				return imp.store.CreateSupplier(ctx, restaurantId, SupplierExport{Name: name, Phone: phone, Email: email})
			})
		if err != nil {
			report.AddError(KindSupplier, name, err)
		}
	}
}

func (imp *Importer) importAreas(ctx context.Context, archive *Archive, restaurantId string, resolver *Resolver, report *Report) {
	for _, row := range entryRows(archive, entryAreas) {
		name := field(row, 1)
		if name == "" {
			continue
		}

		_, err := resolver.ResolveOrCreate(ctx, KindArea, restaurantId, name,
			func(ctx context.Context) (int, error) {
				return imp.store.FindAreaByName(ctx, restaurantId, name)
			},
			func(ctx context.Context) (int, error) {
				return imp.store.CreateArea(ctx, restaurantId, name)
			})
		if err != nil {
			report.AddError(KindArea, name, err)
		}
	}
}

func (imp *Importer) importItems(ctx context.Context, archive *Archive, restaurantId string, resolver *Resolver, report *Report) {
	for _, row := range entryRows(archive, entryItems) {
		name := field(row, 1)
		if name == "" {
			continue
		}
		unit := field(row, 2)

		// Supplier is resolved against the map built in the suppliers phase.
		// An unresolved name leaves the item's supplier unset; it is not an error.
		var supplierId *int
		if supplierName := field(row, 3); supplierName != "" {
			if id, ok := resolver.Lookup(KindSupplier, restaurantId, supplierName); ok {
				supplierId = &id
			}
		}

		_, err := resolver.ResolveOrCreate(ctx, KindItem, restaurantId, name,
			func(ctx context.Context) (int, error) {
				return imp.store.FindItemByName(ctx, restaurantId, name)
			},
			func(ctx context.Context) (int, error) {
				return imp.store.CreateItem(ctx, restaurantId, name, unit, supplierId)
			})
		if err != nil {
			report.AddError(KindItem, name, err)
		}
	}
}

func (imp *Importer) importLists(ctx context.Context, archive *Archive, restaurantId string, resolver *Resolver, report *Report) {
	for _, row := range entryRows(archive, entryLists) {
		name := field(row, 1)
		if name == "" {
			continue
		}

		_, err := resolver.ResolveOrCreate(ctx, KindList, restaurantId, name,
			func(ctx context.Context) (int, error) {
				return imp.store.FindListByName(ctx, restaurantId, name)
			},
			func(ctx context.Context) (int, error) {
				return imp.store.CreateList(ctx, restaurantId, name)
			})
		if err != nil {
			report.AddError(KindList, name, err)
		}
	}
}

// ImportListCSV links catalog items into an existing list by item name
// ("phase 2"). Columns: nome, unidade, quantidade_atual, quantidade_minima.
// Item names absent from the catalog go to the report's naoEncontrados list;
// they are not errors and nothing is created for them.
func (imp *Importer) ImportListCSV(ctx context.Context, restaurantId string, listId int, text string) (*Report, error) {

	report := NewReport()
	resolver := NewResolver(report)

	rows := ParseDelimited(text)
	if len(rows) > 0 {
		rows = rows[1:] // header
	}

	for _, row := range rows {
		name := field(row, 0)
		if name == "" {
			continue
		}

		itemId, err := imp.store.FindItemByName(ctx, restaurantId, name)
		if err != nil {
			report.AddError(KindItem, name, err)
			continue
		}
		if itemId == 0 {
			report.NotFound = append(report.NotFound, name)
			continue
		}

		current, err := parseQuantity(field(row, 2))
		if err != nil {
			report.AddError(KindItem, name, err)
			continue
		}
		minimum, err := parseQuantity(field(row, 3))
		if err != nil {
			report.AddError(KindItem, name, err)
			continue
		}

		link := ListItemExport{
			Item:            name,
			MinQuantity:     minimum,
			CurrentQuantity: current,
			UsesThreshold:   minimum.IsPositive(),
		}

		_, err = resolver.ResolveOrCreate(ctx, KindListItem, restaurantId, linkKey(listId, itemId),
			func(ctx context.Context) (int, error) {
				return imp.store.FindListItem(ctx, listId, itemId)
			},
			func(ctx context.Context) (int, error) {
				return imp.store.CreateListItem(ctx, listId, itemId, link)
			})
		if err != nil {
			report.AddError(KindListItem, name, err)
		}
	}

	return report, nil
}

// entryRows extracts and tokenizes one CSV entry, dropping the header row.
// A missing entry yields no rows.
func entryRows(archive *Archive, name string) [][]string {
	text, ok := archive.Text(name)
	if !ok {
		return nil
	}
	rows := ParseDelimited(text)
	if len(rows) > 0 {
		rows = rows[1:] // header
	}
	return rows
}

func parseQuantity(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid quantity %q", s)
	}
	return d, nil
}

// linkKey is the synthetic natural key of a (list, item) pair.
func linkKey(listId, itemId int) string {
	return fmt.Sprintf("%d/%d", listId, itemId)
}
