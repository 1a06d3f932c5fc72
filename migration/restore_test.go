package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func sampleExport() *TenantExport {
	return &TenantExport{
		TenantName: "Cantina Azul",
		Users: []UserExport{
			{Name: "Ana", Email: "ana@cantina.test", PasswordHash: "$2a$10$abc", Role: "gerente"},
			{Name: "Root", Email: "root@kaizen.test", PasswordHash: "$2a$10$zzz", Role: "superadmin"},
		},
		Suppliers: []SupplierExport{
			{Name: "Distribuidora Sul", Phone: "11988880000"},
		},
		Items: []ItemExport{
			{Name: "Arroz", Unit: "kg", Supplier: "Distribuidora Sul"},
			{Name: "Sal", Unit: "kg"},
		},
		Lists: []ListExport{
			{Name: "Compras Semanais", Items: []ListItemExport{
				{Item: "Arroz", MinQuantity: decimal.NewFromInt(5), CurrentQuantity: decimal.NewFromInt(2), UsesThreshold: true},
				{Item: "Inexistente", MinQuantity: decimal.NewFromInt(1)},
			}},
		},
	}
}

func encodeSample(t *testing.T) []byte {
	t.Helper()
	data, _, err := EncodeSnapshot(sampleExport(), time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	return data
}

func TestRestore_CreatesTenantFromSnapshotName(t *testing.T) {
	store := newFakeStore()
	r := NewRestorer(store)

	report, err := r.Restore(context.Background(), "", encodeSample(t))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if report.TenantName != "Cantina Azul" {
		t.Fatalf("expected report to name the tenant, got %q", report.TenantName)
	}
	if len(store.restaurants) != 1 {
		t.Fatalf("expected one restaurant created, got %v", store.restaurants)
	}

	// The reserved cross-tenant role never comes back from a snapshot.
	if report.Users.Created != 1 {
		t.Fatalf("expected 1 user created, got %+v", report.Users)
	}
	if report.Suppliers.Created != 1 || report.Items.Created != 2 || report.Lists.Created != 1 {
		t.Fatalf("unexpected counters: %+v", report)
	}

	// Links to items the snapshot never declared are dropped silently.
	if report.ListItems.Created != 1 || len(report.Errors) != 0 {
		t.Fatalf("expected 1 link and no errors, got %+v %v", report.ListItems, report.Errors)
	}
}

func TestRestore_IntoExistingTenantById(t *testing.T) {
	store := newFakeStore()
	ctx := context.Background()
	tenantId, _ := store.CreateRestaurant(ctx, "Filial Centro")
	r := NewRestorer(store)

	report, err := r.Restore(ctx, tenantId, encodeSample(t))
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	// Data grafts onto the chosen tenant, not the one named in the snapshot.
	if report.TenantName != "Filial Centro" {
		t.Fatalf("expected receiving tenant in report, got %q", report.TenantName)
	}
	if len(store.restaurants) != 1 {
		t.Fatalf("explicit target must not create a tenant, got %v", store.restaurants)
	}
	if _, err := store.FindSupplierByName(ctx, tenantId, "Distribuidora Sul"); err != nil {
		t.Fatalf("FindSupplierByName: %v", err)
	}
	if store.suppliers[scoped(tenantId, "Distribuidora Sul")].id == 0 {
		t.Fatal("expected supplier under the receiving tenant")
	}
}

func TestRestore_UnknownExplicitTenantIsFatal(t *testing.T) {
	r := NewRestorer(newFakeStore())
	_, err := r.Restore(context.Background(), "tenant-missing", encodeSample(t))
	if !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestRestore_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	r := NewRestorer(store)
	ctx := context.Background()

	if _, err := r.Restore(ctx, "", encodeSample(t)); err != nil {
		t.Fatalf("first Restore: %v", err)
	}
	report, err := r.Restore(ctx, "", encodeSample(t))
	if err != nil {
		t.Fatalf("second Restore: %v", err)
	}
	if report.Users.Created != 0 || report.Suppliers.Created != 0 || report.Items.Created != 0 ||
		report.Lists.Created != 0 || report.ListItems.Created != 0 {
		t.Fatalf("second restore must create nothing: %+v", report)
	}
	if report.Items.Skipped != 2 || report.ListItems.Skipped != 1 {
		t.Fatalf("second restore must skip existing rows: %+v", report)
	}
	if len(store.restaurants) != 1 {
		t.Fatalf("second restore must reuse the tenant, got %v", store.restaurants)
	}
}

func TestRestore_ItemSupplierResolvedWithinRun(t *testing.T) {
	store := newFakeStore()
	r := NewRestorer(store)

	if _, err := r.Restore(context.Background(), "", encodeSample(t)); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	var tenantId string
	for id := range store.restaurants {
		tenantId = id
	}
	arroz := store.items[scoped(tenantId, "Arroz")]
	if arroz.supplierId == nil {
		t.Fatal("expected restored item to link to its supplier")
	}
	if *arroz.supplierId != store.suppliers[scoped(tenantId, "Distribuidora Sul")].id {
		t.Fatalf("item linked to wrong supplier id %d", *arroz.supplierId)
	}
	sal := store.items[scoped(tenantId, "Sal")]
	if sal.supplierId != nil {
		t.Fatal("item without supplier reference must stay unlinked")
	}
}

func TestRestore_CorruptSnapshotIsFatal(t *testing.T) {
	r := NewRestorer(newFakeStore())
	_, err := r.Restore(context.Background(), "", []byte("garbage"))
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot, got %v", err)
	}
}
