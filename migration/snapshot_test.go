package migration

import (
	"bytes"
	"compress/gzip"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func gzipJSON(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(body)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestSnapshotRoundTrip(t *testing.T) {
	export := &TenantExport{
		TenantName: "Cantina Azul",
		Users: []UserExport{
			{Name: "Ana", Email: "ana@cantina.test", PasswordHash: "$2a$10$abc", Role: "gerente"},
		},
		Suppliers: []SupplierExport{
			{Name: "Distribuidora Sul", Phone: "+55 11 98888-0000", Email: "vendas@sul.test"},
		},
		Items: []ItemExport{
			{Name: "Arroz", Unit: "kg", Supplier: "Distribuidora Sul"},
			{Name: "Sal", Unit: "kg"},
		},
		Lists: []ListExport{
			{Name: "Compras Semanais", Items: []ListItemExport{
				{
					Item:            "Arroz",
					MinQuantity:     decimal.NewFromInt(5),
					CurrentQuantity: decimal.NewFromInt(2),
					UsesThreshold:   true,
				},
			}},
		},
	}

	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	data, filename, err := EncodeSnapshot(export, now)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if filename != "Cantina_Azul_2025-03-14.kaizen" {
		t.Fatalf("unexpected filename %q", filename)
	}

	decoded, format, err := DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if format != FormatV1 {
		t.Fatalf("expected v1 format, got %s", format)
	}
	if decoded.TenantName != "Cantina Azul" {
		t.Fatalf("expected tenant name to survive, got %q", decoded.TenantName)
	}
	if len(decoded.Users) != 1 || decoded.Users[0].PasswordHash != "$2a$10$abc" {
		t.Fatalf("users did not survive: %+v", decoded.Users)
	}
	if len(decoded.Items) != 2 || decoded.Items[0].Supplier != "Distribuidora Sul" {
		t.Fatalf("items did not survive: %+v", decoded.Items)
	}
	if len(decoded.Lists) != 1 || len(decoded.Lists[0].Items) != 1 {
		t.Fatalf("lists did not survive: %+v", decoded.Lists)
	}
	link := decoded.Lists[0].Items[0]
	if !link.MinQuantity.Equal(decimal.NewFromInt(5)) || !link.UsesThreshold {
		t.Fatalf("link fields did not survive: %+v", link)
	}
}

func TestDecodeSnapshot_LegacyFormat(t *testing.T) {
	body := `{
		"_meta": {"version": "1.0", "geradoEm": "2021-06-01T00:00:00Z"},
		"restaurante": {"nome": "Bar do Centro"},
		"usuarios": [
			{"nome": "Jo", "email": "jo@bar.test", "senhaHash": "$2a$10$xyz", "papel": "funcionario"}
		],
		"fornecedores": [
			{"nome": "Hortifruti Leste", "telefone": "", "email": "", "itens": [
				{"nome": "Tomate", "unidade": "kg"},
				{"nome": "Arroz", "unidade": "kg"}
			]}
		],
		"itensListaMestre": [
			{"nome": "Arroz", "unidade": "kg"},
			{"nome": "Feijao", "unidade": "kg"}
		],
		"listas": [
			{"nome": "Estoque Seco", "itens": [
				{"nome": "Arroz", "quantidadeMinima": "10", "quantidadeAtual": "3", "usaLimite": true}
			]}
		]
	}`

	export, format, err := DecodeSnapshot(gzipJSON(t, body))
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if format != FormatLegacy {
		t.Fatalf("expected legacy format, got %s", format)
	}
	if export.TenantName != "Bar do Centro" {
		t.Fatalf("expected tenant from restaurante.nome, got %q", export.TenantName)
	}
	if len(export.Users) != 1 || export.Users[0].PasswordHash != "$2a$10$xyz" {
		t.Fatalf("legacy user hash not mapped: %+v", export.Users)
	}

	// Master items and supplier items merge into one set, deduplicated by
	// name. Arroz appears in both; the supplier occurrence only contributes
	// the supplier reference.
	if len(export.Items) != 3 {
		t.Fatalf("expected 3 merged items, got %+v", export.Items)
	}
	byName := map[string]ItemExport{}
	for _, i := range export.Items {
		byName[i.Name] = i
	}
	if byName["Arroz"].Supplier != "Hortifruti Leste" {
		t.Fatalf("duplicate must backfill supplier, got %+v", byName["Arroz"])
	}
	if byName["Feijao"].Supplier != "" {
		t.Fatalf("master-only item must have no supplier, got %+v", byName["Feijao"])
	}
	if byName["Tomate"].Supplier != "Hortifruti Leste" {
		t.Fatalf("supplier-only item must carry its supplier, got %+v", byName["Tomate"])
	}

	if len(export.Lists) != 1 || export.Lists[0].Items[0].Item != "Arroz" {
		t.Fatalf("legacy link not normalized: %+v", export.Lists)
	}
	if !export.Lists[0].Items[0].MinQuantity.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("legacy quantity not parsed: %+v", export.Lists[0].Items[0])
	}
}

func TestDecodeSnapshot_RejectsUnknownVersion(t *testing.T) {
	body := `{"_meta": {"version": "2.0", "formato": "kaizen-multitenant-v1"}}`
	_, _, err := DecodeSnapshot(gzipJSON(t, body))
	if !errors.Is(err, ErrUnsupportedSnapshotFormat) {
		t.Fatalf("expected ErrUnsupportedSnapshotFormat, got %v", err)
	}
}

func TestDecodeSnapshot_RejectsCorruptPayloads(t *testing.T) {
	if _, _, err := DecodeSnapshot([]byte("not gzip at all")); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot for non-gzip input, got %v", err)
	}
	if _, _, err := DecodeSnapshot(gzipJSON(t, "{not json")); !errors.Is(err, ErrCorruptSnapshot) {
		t.Fatalf("expected ErrCorruptSnapshot for invalid json, got %v", err)
	}
}
