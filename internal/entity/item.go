package entity

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
)

type createItemRequest struct {
	Code           string     `json:"code" validate:"required"`
	Name           string     `json:"name" validate:"required"`
	CreatedDate    *string    `json:"created_date"`
	CategoryItemID *dto.FlexID `json:"category_item_id" validate:"required"`
	Unit           string     `json:"unit" validate:"required"`
	IsStock        *bool      `json:"is_stock"`
}

type updateItemRequest struct {
	Code           *string     `json:"code" validate:"omitempty,min=1"`
	Name           *string     `json:"name" validate:"omitempty,min=1"`
	CreatedDate    *string     `json:"created_date"`
	CategoryItemID *dto.FlexID `json:"category_item_id"`
	Unit           *string     `json:"unit" validate:"omitempty,min=1"`
	IsStock        *bool       `json:"is_stock"`
}

type itemSchema struct{}

func (itemSchema) ValidateCreate(raw json.RawMessage) (map[string]any, error) {
	var req createItemRequest
	if err := bind(raw, &req); err != nil {
		return nil, err
	}
	var createdDate *time.Time
	if req.CreatedDate != nil && *req.CreatedDate != "" {
		t, err := parseDate(*req.CreatedDate)
		if err != nil {
			return nil, apierror.NewValidation([]apierror.FieldError{
				{Field: "created_date", Message: "created_date harus berupa tanggal"},
			})
		}
		createdDate = &t
	}
	isStock := true
	if req.IsStock != nil {
		isStock = *req.IsStock
	}
	return map[string]any{
		"code":             req.Code,
		"name":             req.Name,
		"created_date":     createdDate,
		"category_item_id": req.CategoryItemID.Int64(),
		"unit":             req.Unit,
		"is_stock":         isStock,
		"created_at":       time.Now(),
	}, nil
}

func (itemSchema) ValidateUpdate(raw json.RawMessage) (map[string]any, error) {
	var req updateItemRequest
	if err := bind(raw, &req); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Code != nil {
		fields["code"] = *req.Code
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.CreatedDate != nil {
		if *req.CreatedDate == "" {
			fields["created_date"] = nil
		} else {
			t, err := parseDate(*req.CreatedDate)
			if err != nil {
				return nil, apierror.New(http.StatusBadRequest, "created_date harus berupa tanggal")
			}
			fields["created_date"] = t
		}
	}
	if req.CategoryItemID != nil {
		fields["category_item_id"] = req.CategoryItemID.Int64()
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.IsStock != nil {
		fields["is_stock"] = *req.IsStock
	}
	return fields, nil
}

// Item defines the item entity: left-joined to its category, with the
// category exposed as a nested object in the select shape. The static
// filter keeps items of soft-deleted categories out of default listings.
func Item() Definition {
	return Definition{
		Name:       "item",
		BasePath:   "/api/item",
		Table:      "item",
		WriteTable: "item",
		IDColumn:   "item.id",
		Select: "item.id, item.code, item.name, item.created_date, item.category_item_id, " +
			"item.unit, item.is_stock, item.created_at, item.updated_at, item.deleted_at, " +
			"category_item.id as category_item__id, category_item.code as category_item__code, " +
			"category_item.name as category_item__name, category_item.description as category_item__description",
		Joins: []Join{
			{Table: "category_item", On: "item.category_item_id = category_item.id"},
		},
		DefaultOrderBy:   "item.created_at",
		DefaultOrderType: "DESC",
		Columns: []string{
			"item.id", "item.code", "item.name", "item.created_date",
			"item.category_item_id", "item.unit", "item.is_stock",
			"item.created_at", "item.updated_at", "item.deleted_at",
			"category_item.id", "category_item.code", "category_item.name",
			"category_item.description",
		},
		OrderExprs: []string{
			"coalesce(item.updated_at,item.created_at)",
		},
		RawExprs: []filter.Expr{
			filter.IsNull("item.deleted_at"),
			filter.NotNull("item.deleted_at"),
			filter.NotNull("item.updated_at"),
			filter.IsTrue("item.is_stock"),
			filter.Raw("true"),
			filter.Raw("false"),
		},
		DefaultRaw: filter.IsNull("item.deleted_at"),
		Static:     filter.IsNull("category_item.deleted_at"),
		Schema:     itemSchema{},
	}
}
