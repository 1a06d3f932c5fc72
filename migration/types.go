// Package migration implements the tenant data migration engine: bulk CSV/ZIP
// import of legacy single-tenant exports, per-list CSV import, and the
// compressed full-tenant snapshot used by backup/restore.
//
// Entities are cross-referenced by natural key (name within a tenant), never
// by numeric id: ids are not portable across export/import boundaries.
package migration

import "github.com/shopspring/decimal"

// TenantExport is the normalized, format-independent record set for one
// tenant. The snapshot codec produces it on decode (from either the legacy or
// the v1 wire shape) and consumes it on encode; the restore orchestrator only
// ever sees this shape.
type TenantExport struct {
	TenantName string
	Users      []UserExport
	Suppliers  []SupplierExport
	Items      []ItemExport
	Lists      []ListExport
}

type UserExport struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
}

type SupplierExport struct {
	Name  string
	Phone string
	Email string
}

// ItemExport references its supplier by name (may be blank).
type ItemExport struct {
	Name     string
	Unit     string
	Supplier string
}

type ListExport struct {
	Name  string
	Items []ListItemExport
}

// ListItemExport references its catalog item by name.
type ListItemExport struct {
	Item               string
	MinQuantity        decimal.Decimal
	CurrentQuantity    decimal.Decimal
	QuantityPerPackage decimal.Decimal
	UsesThreshold      bool
}
