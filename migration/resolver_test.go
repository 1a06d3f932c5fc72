package migration

import (
	"context"
	"errors"
	"testing"
)

func TestResolver_CreatesOnMissAndCachesId(t *testing.T) {
	report := NewReport()
	r := NewResolver(report)
	ctx := context.Background()

	finds, creates := 0, 0
	find := func(ctx context.Context) (int, error) { finds++; return 0, nil }
	create := func(ctx context.Context) (int, error) { creates++; return 42, nil }

	id, err := r.ResolveOrCreate(ctx, KindSupplier, "t1", "Distribuidora Sul", find, create)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
	if report.Suppliers.Created != 1 || report.Suppliers.Skipped != 0 {
		t.Fatalf("expected 1 created, got %+v", report.Suppliers)
	}

	// Second resolution hits the in-run map: no store traffic, no counting.
	id, err = r.ResolveOrCreate(ctx, KindSupplier, "t1", "Distribuidora Sul", find, create)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if id != 42 || finds != 1 || creates != 1 {
		t.Fatalf("expected cached hit, got id=%d finds=%d creates=%d", id, finds, creates)
	}
	if report.Suppliers.Created != 1 || report.Suppliers.Skipped != 0 {
		t.Fatalf("cached hit must not count, got %+v", report.Suppliers)
	}
}

func TestResolver_ExistingRowCountsAsSkipped(t *testing.T) {
	report := NewReport()
	r := NewResolver(report)

	id, err := r.ResolveOrCreate(context.Background(), KindItem, "t1", "Arroz",
		func(ctx context.Context) (int, error) { return 7, nil },
		func(ctx context.Context) (int, error) { t.Fatal("create must not run"); return 0, nil })
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected id 7, got %d", id)
	}
	if report.Items.Skipped != 1 || report.Items.Created != 0 {
		t.Fatalf("expected 1 skipped, got %+v", report.Items)
	}
}

func TestResolver_KeysAreScopedByKindAndTenant(t *testing.T) {
	report := NewReport()
	r := NewResolver(report)
	ctx := context.Background()

	resolve := func(kind EntityKind, tenant string, id int) {
		_, err := r.ResolveOrCreate(ctx, kind, tenant, "Cozinha",
			func(ctx context.Context) (int, error) { return 0, nil },
			func(ctx context.Context) (int, error) { return id, nil })
		if err != nil {
			t.Fatalf("ResolveOrCreate: %v", err)
		}
	}
	resolve(KindArea, "t1", 1)
	resolve(KindArea, "t2", 2)
	resolve(KindList, "t1", 3)

	if id, ok := r.Lookup(KindArea, "t1", "Cozinha"); !ok || id != 1 {
		t.Fatalf("expected (1,true), got (%d,%v)", id, ok)
	}
	if id, ok := r.Lookup(KindArea, "t2", "Cozinha"); !ok || id != 2 {
		t.Fatalf("expected (2,true), got (%d,%v)", id, ok)
	}
	if id, ok := r.Lookup(KindList, "t1", "Cozinha"); !ok || id != 3 {
		t.Fatalf("expected (3,true), got (%d,%v)", id, ok)
	}
	if _, ok := r.Lookup(KindSupplier, "t1", "Cozinha"); ok {
		t.Fatal("expected miss for unresolved kind")
	}
}

func TestResolver_PropagatesErrorsWithoutCaching(t *testing.T) {
	report := NewReport()
	r := NewResolver(report)
	boom := errors.New("boom")

	_, err := r.ResolveOrCreate(context.Background(), KindList, "t1", "Compras",
		func(ctx context.Context) (int, error) { return 0, nil },
		func(ctx context.Context) (int, error) { return 0, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, ok := r.Lookup(KindList, "t1", "Compras"); ok {
		t.Fatal("failed create must not be cached")
	}
	if report.Lists.Created != 0 || report.Lists.Skipped != 0 {
		t.Fatalf("failed create must not count, got %+v", report.Lists)
	}
}
