package entity

import (
	"encoding/json"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"

	"github.com/shopspring/decimal"
)

type createStockRequest struct {
	ItemID *dto.FlexID `json:"item_id" validate:"required"`
	Stock  *string     `json:"stock" validate:"omitempty,decimal2"`
}

type updateStockRequest struct {
	ItemID *dto.FlexID `json:"item_id"`
	Stock  *string     `json:"stock" validate:"omitempty,decimal2"`
}

type stockSchema struct{}

func (stockSchema) ValidateCreate(raw json.RawMessage) (map[string]any, error) {
	var req createStockRequest
	if err := bind(raw, &req); err != nil {
		return nil, err
	}
	qty := decimal.Zero
	if req.Stock != nil {
		qty, _ = decimal.NewFromString(*req.Stock)
	}
	return map[string]any{
		"item_id":    req.ItemID.Int64(),
		"stock":      qty,
		"created_at": time.Now(),
	}, nil
}

func (stockSchema) ValidateUpdate(raw json.RawMessage) (map[string]any, error) {
	var req updateStockRequest
	if err := bind(raw, &req); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.ItemID != nil {
		fields["item_id"] = req.ItemID.Int64()
	}
	if req.Stock != nil {
		qty, _ := decimal.NewFromString(*req.Stock)
		fields["stock"] = qty
	}
	return fields, nil
}

// Stock defines the stock_item entity. Listings drive from item so every
// stock-tracked item appears even before its stock row exists; mutations
// target stock_item. The static filter hides rows once the item stops being
// stock-tracked or the item or its category is soft-deleted.
func Stock() Definition {
	return Definition{
		Name:       "stock_item",
		BasePath:   "/api/stock-item",
		Table:      "item",
		WriteTable: "stock_item",
		IDColumn:   "stock_item.id",
		Select: "stock_item.id, item.id as item_id, item.category_item_id, stock_item.stock, " +
			"stock_item.created_at, stock_item.updated_at, stock_item.deleted_at, " +
			"item.id as item__id, item.code as item__code, item.name as item__name, " +
			"item.created_date as item__created_date, item.category_item_id as item__category_item_id, " +
			"item.unit as item__unit, item.is_stock as item__is_stock, " +
			"category_item.id as category_item__id, category_item.code as category_item__code, " +
			"category_item.name as category_item__name, category_item.description as category_item__description",
		Joins: []Join{
			{Table: "stock_item", On: "stock_item.item_id = item.id AND item.is_stock is true"},
			{Table: "category_item", On: "item.category_item_id = category_item.id"},
		},
		DefaultOrderBy:   "stock_item.created_at",
		DefaultOrderType: "DESC",
		Columns: []string{
			"stock_item.id", "stock_item.stock", "stock_item.created_at",
			"stock_item.updated_at", "stock_item.deleted_at",
			"item.id", "item.code", "item.name", "item.created_date",
			"item.category_item_id", "item.unit", "item.is_stock",
			"item.created_at", "item.updated_at", "item.deleted_at",
			"category_item.id", "category_item.code", "category_item.name",
			"category_item.description",
		},
		OrderExprs: []string{
			"coalesce(stock_item.updated_at,stock_item.created_at,item.updated_at,item.created_at)",
		},
		RawExprs: []filter.Expr{
			filter.IsNull("stock_item.deleted_at"),
			filter.NotNull("stock_item.deleted_at"),
			filter.NotNull("stock_item.updated_at"),
			filter.Raw("true"),
			filter.Raw("false"),
		},
		DefaultRaw: filter.IsNull("stock_item.deleted_at"),
		Static: filter.And(
			filter.IsTrue("item.is_stock"),
			filter.IsNull("item.deleted_at"),
			filter.IsNull("category_item.deleted_at"),
		),
		Schema: stockSchema{},
	}
}
