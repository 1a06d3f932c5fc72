package migration

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/kaizenapp/kaizen_backend/utils"
	"github.com/shopspring/decimal"
)

const (
	// SnapshotVersion is the single supported envelope version. Any other
	// value rejects the whole restore before any write.
	SnapshotVersion = "1.0"

	// SnapshotFormatV1 is the _meta.formato tag of the multi-tenant schema.
	// Absence of the tag, or any other value, means legacy.
	SnapshotFormatV1 = "kaizen-multitenant-v1"

	// SnapshotExtension is the conventional snapshot file extension.
	SnapshotExtension = ".kaizen"
)

var (
	ErrCorruptSnapshot           = errors.New("corrupt snapshot")
	ErrUnsupportedSnapshotFormat = errors.New("unsupported snapshot version")
	ErrTenantNotFound            = errors.New("restaurant not found")
)

type SnapshotFormat int

const (
	FormatLegacy SnapshotFormat = iota
	FormatV1
)

func (f SnapshotFormat) String() string {
	if f == FormatV1 {
		return "v1"
	}
	return "legacy"
}

type snapshotMeta struct {
	Version     string    `json:"version"`
	Format      string    `json:"formato,omitempty"`
	GeneratedAt time.Time `json:"geradoEm"`
	TenantName  string    `json:"restaurante,omitempty"`
}

// v1 wire shape: snake_case fields, one catalog-item array with explicit
// supplier-name references.

type v1Snapshot struct {
	Meta      snapshotMeta `json:"_meta"`
	Tenant    v1Tenant     `json:"restaurante"`
	Users     []v1User     `json:"usuarios,omitempty"`
	Suppliers []v1Supplier `json:"fornecedores"`
	Items     []v1Item     `json:"itens"`
	Lists     []v1List     `json:"listas"`
}

type v1Tenant struct {
	Name string `json:"nome"`
}

type v1User struct {
	Name         string `json:"nome"`
	Email        string `json:"email"`
	PasswordHash string `json:"senha_hash"`
	Role         string `json:"papel"`
}

type v1Supplier struct {
	Name  string `json:"nome"`
	Phone string `json:"telefone"`
	Email string `json:"email"`
}

type v1Item struct {
	Name     string `json:"nome"`
	Unit     string `json:"unidade"`
	Supplier string `json:"fornecedor,omitempty"`
}

type v1List struct {
	Name  string   `json:"nome"`
	Items []v1Link `json:"itens"`
}

type v1Link struct {
	Item               string          `json:"item"`
	MinQuantity        decimal.Decimal `json:"quantidade_minima"`
	CurrentQuantity    decimal.Decimal `json:"quantidade_atual"`
	QuantityPerPackage decimal.Decimal `json:"quantidade_por_pacote"`
	UsesThreshold      bool            `json:"usa_limite"`
}

// legacy wire shape: camelCase fields, item definitions duplicated between a
// flat master-list array and per-supplier arrays.

type legacySnapshot struct {
	Meta        snapshotMeta     `json:"_meta"`
	Tenant      legacyTenant     `json:"restaurante"`
	Users       []legacyUser     `json:"usuarios,omitempty"`
	Suppliers   []legacySupplier `json:"fornecedores"`
	MasterItems []legacyItem     `json:"itensListaMestre"`
	Lists       []legacyList     `json:"listas"`
}

type legacyTenant struct {
	Name string `json:"nome"`
}

type legacyUser struct {
	Name         string `json:"nome"`
	Email        string `json:"email"`
	PasswordHash string `json:"senhaHash"`
	Role         string `json:"papel"`
}

type legacySupplier struct {
	Name  string       `json:"nome"`
	Phone string       `json:"telefone"`
	Email string       `json:"email"`
	Items []legacyItem `json:"itens"`
}

type legacyItem struct {
	Name string `json:"nome"`
	Unit string `json:"unidade"`
}

type legacyList struct {
	Name  string       `json:"nome"`
	Items []legacyLink `json:"itens"`
}

type legacyLink struct {
	Name               string          `json:"nome"`
	MinQuantity        decimal.Decimal `json:"quantidadeMinima"`
	CurrentQuantity    decimal.Decimal `json:"quantidadeAtual"`
	QuantityPerPackage decimal.Decimal `json:"quantidadePorPacote"`
	UsesThreshold      bool            `json:"usaLimite"`
}

// EncodeSnapshot serializes a tenant's exportable state to the compressed v1
// snapshot payload, returning the bytes and a suggested download filename.
func EncodeSnapshot(export *TenantExport, now time.Time) ([]byte, string, error) {

	payload := v1Snapshot{
		Meta: snapshotMeta{
			Version:     SnapshotVersion,
			Format:      SnapshotFormatV1,
			GeneratedAt: now.UTC(),
			TenantName:  export.TenantName,
		},
		Tenant:    v1Tenant{Name: export.TenantName},
		Suppliers: []v1Supplier{},
		Items:     []v1Item{},
		Lists:     []v1List{},
	}

	for _, u := range export.Users {
		payload.Users = append(payload.Users, v1User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}
	for _, s := range export.Suppliers {
		payload.Suppliers = append(payload.Suppliers, v1Supplier{
			Name:  s.Name,
			Phone: s.Phone,
			Email: s.Email,
		})
	}
	for _, i := range export.Items {
		payload.Items = append(payload.Items, v1Item{
			Name:     i.Name,
			Unit:     i.Unit,
			Supplier: i.Supplier,
		})
	}
	for _, l := range export.Lists {
		list := v1List{Name: l.Name, Items: []v1Link{}}
		for _, link := range l.Items {
			list.Items = append(list.Items, v1Link{
				Item:               link.Item,
				MinQuantity:        link.MinQuantity,
				CurrentQuantity:    link.CurrentQuantity,
				QuantityPerPackage: link.QuantityPerPackage,
				UsesThreshold:      link.UsesThreshold,
			})
		}
		payload.Lists = append(payload.Lists, list)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, "", err
	}
	if err := zw.Close(); err != nil {
		return nil, "", err
	}

	filename := utils.SanitizeFilename(export.TenantName) + "_" + now.Format("2006-01-02") + SnapshotExtension
	return buf.Bytes(), filename, nil
}

// DecodeSnapshot decompresses and parses a snapshot payload, validates its
// envelope, classifies it as legacy or v1 and normalizes either shape into a
// TenantExport. Format knowledge lives entirely here: the restore
// orchestrator never sees wire field names.
func DecodeSnapshot(data []byte) (*TenantExport, SnapshotFormat, error) {

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, FormatLegacy, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, FormatLegacy, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	var envelope struct {
		Meta snapshotMeta `json:"_meta"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, FormatLegacy, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	if envelope.Meta.Version != SnapshotVersion {
		return nil, FormatLegacy, fmt.Errorf("%w: %q", ErrUnsupportedSnapshotFormat, envelope.Meta.Version)
	}

	if envelope.Meta.Format == SnapshotFormatV1 {
		export, err := decodeV1(raw)
		return export, FormatV1, err
	}
	export, err := decodeLegacy(raw)
	return export, FormatLegacy, err
}

func decodeV1(raw []byte) (*TenantExport, error) {
	var payload v1Snapshot
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	export := TenantExport{TenantName: payload.Tenant.Name}
	if export.TenantName == "" {
		export.TenantName = payload.Meta.TenantName
	}

	for _, u := range payload.Users {
		export.Users = append(export.Users, UserExport{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}
	for _, s := range payload.Suppliers {
		export.Suppliers = append(export.Suppliers, SupplierExport{
			Name:  s.Name,
			Phone: s.Phone,
			Email: s.Email,
		})
	}
	for _, i := range payload.Items {
		export.Items = append(export.Items, ItemExport{
			Name:     i.Name,
			Unit:     i.Unit,
			Supplier: i.Supplier,
		})
	}
	for _, l := range payload.Lists {
		list := ListExport{Name: l.Name}
		for _, link := range l.Items {
			list.Items = append(list.Items, ListItemExport{
				Item:               link.Item,
				MinQuantity:        link.MinQuantity,
				CurrentQuantity:    link.CurrentQuantity,
				QuantityPerPackage: link.QuantityPerPackage,
				UsesThreshold:      link.UsesThreshold,
			})
		}
		export.Lists = append(export.Lists, list)
	}
	return &export, nil
}

func decodeLegacy(raw []byte) (*TenantExport, error) {
	var payload legacySnapshot
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	export := TenantExport{TenantName: payload.Tenant.Name}
	if export.TenantName == "" {
		export.TenantName = payload.Meta.TenantName
	}

	for _, u := range payload.Users {
		export.Users = append(export.Users, UserExport{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: u.PasswordHash,
			Role:         u.Role,
		})
	}
	for _, s := range payload.Suppliers {
		export.Suppliers = append(export.Suppliers, SupplierExport{
			Name:  s.Name,
			Phone: s.Phone,
			Email: s.Email,
		})
	}

	// The legacy export duplicated item definitions between the flat
	// master-list array and the per-supplier arrays; merge both sources into
	// one set deduplicated by name. Master items come first; a duplicate from
	// a supplier array only contributes its supplier reference.
	seen := make(map[string]int)
	for _, i := range payload.MasterItems {
		if i.Name == "" {
			continue
		}
		if _, dup := seen[i.Name]; dup {
			continue
		}
		seen[i.Name] = len(export.Items)
		export.Items = append(export.Items, ItemExport{Name: i.Name, Unit: i.Unit})
	}
	for _, s := range payload.Suppliers {
		for _, i := range s.Items {
			if i.Name == "" {
				continue
			}
			if idx, dup := seen[i.Name]; dup {
				if export.Items[idx].Supplier == "" {
					export.Items[idx].Supplier = s.Name
				}
				continue
			}
			seen[i.Name] = len(export.Items)
			export.Items = append(export.Items, ItemExport{
				Name:     i.Name,
				Unit:     i.Unit,
				Supplier: s.Name,
			})
		}
	}

	for _, l := range payload.Lists {
		list := ListExport{Name: l.Name}
		for _, link := range l.Items {
			list.Items = append(list.Items, ListItemExport{
				Item:               link.Name,
				MinQuantity:        link.MinQuantity,
				CurrentQuantity:    link.CurrentQuantity,
				QuantityPerPackage: link.QuantityPerPackage,
				UsesThreshold:      link.UsesThreshold,
			})
		}
		export.Lists = append(export.Lists, list)
	}
	return &export, nil
}
