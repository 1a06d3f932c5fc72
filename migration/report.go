package migration

import "fmt"

type EntityKind int

const (
	KindUser EntityKind = iota
	KindSupplier
	KindArea
	KindItem
	KindList
	KindListItem
)

// Label returns the entity label used in row-level error strings,
// matching the labels operators see in the report JSON.
func (k EntityKind) Label() string {
	switch k {
	case KindUser:
		return "Usuario"
	case KindSupplier:
		return "Fornecedor"
	case KindArea:
		return "Area"
	case KindItem:
		return "Item"
	case KindList:
		return "Lista"
	case KindListItem:
		return "ItemDeLista"
	}
	return "Registro"
}

type Counter struct {
	Created int `json:"criados"`
	Skipped int `json:"ignorados"`
}

// Report is the reconciliation summary returned by every import/restore
// operation. It is never persisted. Import and restore share the same shape;
// restore additionally names the tenant that received the data.
type Report struct {
	Users     Counter `json:"usuarios"`
	Suppliers Counter `json:"fornecedores"`
	Areas     Counter `json:"areas"`
	Items     Counter `json:"itens"`
	Lists     Counter `json:"listas"`
	ListItems Counter `json:"itensDeLista"`

	// NotFound collects item names a per-list CSV referenced but the catalog
	// does not contain. These are not errors.
	NotFound []string `json:"naoEncontrados,omitempty"`

	Errors []string `json:"erros"`

	TenantName string `json:"restaurante,omitempty"`
}

func NewReport() *Report {
	return &Report{Errors: []string{}}
}

func (r *Report) counter(k EntityKind) *Counter {
	switch k {
	case KindUser:
		return &r.Users
	case KindSupplier:
		return &r.Suppliers
	case KindArea:
		return &r.Areas
	case KindItem:
		return &r.Items
	case KindList:
		return &r.Lists
	case KindListItem:
		return &r.ListItems
	}
	return &Counter{}
}

// AddError records a row-level failure. Row failures never abort the run.
func (r *Report) AddError(kind EntityKind, name string, err error) {
	r.Errors = append(r.Errors, fmt.Sprintf("%s \"%s\": %s", kind.Label(), name, err.Error()))
}
