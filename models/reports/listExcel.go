package reports

import (
	"context"
	"fmt"

	"github.com/kaizenapp/kaizen_backend/config"
	"github.com/kaizenapp/kaizen_backend/models"
	"github.com/kaizenapp/kaizen_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ListItemRow struct {
	ItemName           string          `json:"item_name"`
	Unit               string          `json:"unit"`
	CurrentQuantity    decimal.Decimal `json:"current_quantity"`
	MinQuantity        decimal.Decimal `json:"min_quantity"`
	QuantityPerPackage decimal.Decimal `json:"quantity_per_package"`
	SupplierName       *string         `json:"supplier_name"`
}

func getListItemRows(ctx context.Context, listId int) ([]*ListItemRow, error) {

	sql := `
SELECT
    items.name AS item_name,
    items.unit,
    list_items.current_quantity,
    list_items.min_quantity,
    list_items.quantity_per_package,
    suppliers.name AS supplier_name
FROM
    list_items
    JOIN items ON items.id = list_items.item_id
    LEFT JOIN suppliers ON suppliers.id = items.supplier_id
WHERE
    list_items.list_id = ?
ORDER BY
    items.name;
`

	var records []*ListItemRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, listId).Scan(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ExportListExcel renders one list's items as a spreadsheet and returns the
// file plus a download filename derived from the list name.
func ExportListExcel(ctx context.Context, listId int) (*excelize.File, string, error) {

	list, err := models.GetList(ctx, listId)
	if err != nil {
		return nil, "", err
	}
	data, err := getListItemRows(ctx, listId)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	_, err = f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}

	// Add headers
	f.SetCellValue(sheetName, "A1", "Item")
	f.SetCellValue(sheetName, "B1", "Unidade")
	f.SetCellValue(sheetName, "C1", "Quantidade Atual")
	f.SetCellValue(sheetName, "D1", "Quantidade Minima")
	f.SetCellValue(sheetName, "E1", "Quantidade por Pacote")
	f.SetCellValue(sheetName, "F1", "Fornecedor")

	// Add data
	for i, d := range data {
		row := fmt.Sprint(i + 2)
		f.SetCellValue(sheetName, "A"+row, d.ItemName)
		f.SetCellValue(sheetName, "B"+row, d.Unit)
		f.SetCellValue(sheetName, "C"+row, d.CurrentQuantity.String())
		f.SetCellValue(sheetName, "D"+row, d.MinQuantity.String())
		f.SetCellValue(sheetName, "E"+row, d.QuantityPerPackage.String())
		f.SetCellValue(sheetName, "F"+row, utils.DereferencePtr(d.SupplierName, ""))
	}

	filename := utils.SanitizeFilename(list.Name) + ".xlsx"
	return f, filename, nil
}
