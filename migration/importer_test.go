package migration

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func fullArchive(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"fornecedores.csv": "id,nome,telefone,email\n" +
			"1,Distribuidora Sul,11988880000,vendas@sul.test\n" +
			"2,Hortifruti Leste,,\n",
		"areas.csv": "id,nome\n1,Cozinha\n2,Bar\n",
		"itens.csv": "id,nome,unidade,fornecedor\n" +
			"1,Arroz,kg,Distribuidora Sul\n" +
			"2,Tomate,kg,Hortifruti Leste\n" +
			"3,Sal,kg,\n" +
			"4,Azeite,l,Fornecedor Fantasma\n",
		"listas.csv": "id,nome\n1,Compras Semanais\n",
	})
}

func TestImportArchive_CreatesEntitiesInDependencyOrder(t *testing.T) {
	store := newFakeStore()
	imp := NewImporter(store)

	report, err := imp.ImportArchive(context.Background(), "t1", fullArchive(t))
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}

	if report.Suppliers.Created != 2 || report.Areas.Created != 2 || report.Items.Created != 4 || report.Lists.Created != 1 {
		t.Fatalf("unexpected counters: %+v", report)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}

	// Items resolve their supplier against the map built in the first phase.
	arroz := store.items[scoped("t1", "Arroz")]
	if arroz.supplierId == nil {
		t.Fatal("expected Arroz to link to its supplier")
	}
	if store.suppliers[scoped("t1", "Distribuidora Sul")].id != *arroz.supplierId {
		t.Fatalf("Arroz linked to wrong supplier id %d", *arroz.supplierId)
	}

	// An unknown supplier name leaves the item unlinked; it is not an error.
	azeite := store.items[scoped("t1", "Azeite")]
	if azeite.supplierId != nil {
		t.Fatalf("expected Azeite to have no supplier, got %d", *azeite.supplierId)
	}

	// Bulk import creates lists empty; links arrive via the per-list CSV.
	if report.ListItems.Created != 0 || len(store.links) != 0 {
		t.Fatalf("bulk import must not create links, got %+v", store.links)
	}
}

func TestImportArchive_SecondRunSkipsEverything(t *testing.T) {
	store := newFakeStore()
	imp := NewImporter(store)
	ctx := context.Background()

	if _, err := imp.ImportArchive(ctx, "t1", fullArchive(t)); err != nil {
		t.Fatalf("first ImportArchive: %v", err)
	}
	created := len(store.suppliers) + len(store.areas) + len(store.items) + len(store.lists)

	report, err := imp.ImportArchive(ctx, "t1", fullArchive(t))
	if err != nil {
		t.Fatalf("second ImportArchive: %v", err)
	}
	if report.Suppliers.Created != 0 || report.Items.Created != 0 || report.Areas.Created != 0 || report.Lists.Created != 0 {
		t.Fatalf("second run must create nothing: %+v", report)
	}
	if report.Suppliers.Skipped != 2 || report.Items.Skipped != 4 {
		t.Fatalf("second run must skip existing rows: %+v", report)
	}
	after := len(store.suppliers) + len(store.areas) + len(store.items) + len(store.lists)
	if after != created {
		t.Fatalf("store grew from %d to %d rows", created, after)
	}
}

func TestImportArchive_RejectsNonZipData(t *testing.T) {
	imp := NewImporter(newFakeStore())
	_, err := imp.ImportArchive(context.Background(), "t1", []byte("plain text, not a zip"))
	if !errors.Is(err, ErrCorruptArchive) {
		t.Fatalf("expected ErrCorruptArchive, got %v", err)
	}
}

func TestImportArchive_RowFailureDoesNotAbortTheRun(t *testing.T) {
	store := newFakeStore()
	store.failCreateItemNamed = "Item 5"
	imp := NewImporter(store)

	var rows strings.Builder
	rows.WriteString("id,nome,unidade,fornecedor\n")
	for i := 1; i <= 10; i++ {
		fmt.Fprintf(&rows, "%d,Item %d,kg,\n", i, i)
	}
	data := buildZip(t, map[string]string{"itens.csv": rows.String()})

	report, err := imp.ImportArchive(context.Background(), "t1", data)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if report.Items.Created != 9 {
		t.Fatalf("expected 9 created, got %+v", report.Items)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], `Item "Item 5"`) {
		t.Fatalf("expected one row error naming the item, got %v", report.Errors)
	}
}

func TestImportArchive_MissingEntriesSkipTheirPhase(t *testing.T) {
	imp := NewImporter(newFakeStore())
	data := buildZip(t, map[string]string{"areas.csv": "id,nome\n1,Cozinha\n"})

	report, err := imp.ImportArchive(context.Background(), "t1", data)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if report.Areas.Created != 1 || report.Suppliers.Created != 0 || report.Items.Created != 0 {
		t.Fatalf("unexpected counters: %+v", report)
	}
}

func TestImportListCSV_LinksExistingItemsAndReportsMisses(t *testing.T) {
	store := newFakeStore()
	imp := NewImporter(store)
	ctx := context.Background()

	itemId, _ := store.CreateItem(ctx, "t1", "Arroz", "kg", nil)
	store.CreateItem(ctx, "t1", "Sal", "kg", nil)
	listId, _ := store.CreateList(ctx, "t1", "Compras Semanais")

	csv := "nome,unidade,quantidade_atual,quantidade_minima\n" +
		"Arroz,kg,2,5\n" +
		"Sal,kg,1,0\n" +
		"Cogumelo Raro,kg,1,1\n" +
		"Arroz,kg,9,9\n"

	report, err := imp.ImportListCSV(ctx, "t1", listId, csv)
	if err != nil {
		t.Fatalf("ImportListCSV: %v", err)
	}
	if report.ListItems.Created != 2 {
		t.Fatalf("expected 2 links created, got %+v", report.ListItems)
	}
	if len(report.NotFound) != 1 || report.NotFound[0] != "Cogumelo Raro" {
		t.Fatalf("expected Cogumelo Raro in naoEncontrados, got %v", report.NotFound)
	}
	if len(report.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}

	link := store.links[fmt.Sprintf("%d/%d", listId, itemId)].link
	if !link.UsesThreshold {
		t.Fatal("positive minimum must enable the threshold")
	}
	sal := store.links[fmt.Sprintf("%d/%d", listId, store.items[scoped("t1", "Sal")].id)].link
	if sal.UsesThreshold {
		t.Fatal("zero minimum must leave the threshold disabled")
	}
}

func TestImportListCSV_BadQuantityIsARowError(t *testing.T) {
	store := newFakeStore()
	imp := NewImporter(store)
	ctx := context.Background()

	store.CreateItem(ctx, "t1", "Arroz", "kg", nil)
	store.CreateItem(ctx, "t1", "Sal", "kg", nil)
	listId, _ := store.CreateList(ctx, "t1", "Compras")

	csv := "nome,unidade,quantidade_atual,quantidade_minima\n" +
		"Arroz,kg,muitos,5\n" +
		"Sal,kg,1,2\n"

	report, err := imp.ImportListCSV(ctx, "t1", listId, csv)
	if err != nil {
		t.Fatalf("ImportListCSV: %v", err)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "muitos") {
		t.Fatalf("expected one quantity error, got %v", report.Errors)
	}
	if report.ListItems.Created != 1 {
		t.Fatalf("good row must still be linked, got %+v", report.ListItems)
	}
}

func TestImportListCSV_IsIdempotent(t *testing.T) {
	store := newFakeStore()
	imp := NewImporter(store)
	ctx := context.Background()

	store.CreateItem(ctx, "t1", "Arroz", "kg", nil)
	listId, _ := store.CreateList(ctx, "t1", "Compras")

	csv := "nome,unidade,quantidade_atual,quantidade_minima\nArroz,kg,2,5\n"
	if _, err := imp.ImportListCSV(ctx, "t1", listId, csv); err != nil {
		t.Fatalf("first ImportListCSV: %v", err)
	}
	report, err := imp.ImportListCSV(ctx, "t1", listId, csv)
	if err != nil {
		t.Fatalf("second ImportListCSV: %v", err)
	}
	if report.ListItems.Created != 0 || report.ListItems.Skipped != 1 {
		t.Fatalf("second run must skip the existing link, got %+v", report.ListItems)
	}
	if len(store.links) != 1 {
		t.Fatalf("expected a single link row, got %d", len(store.links))
	}
}
