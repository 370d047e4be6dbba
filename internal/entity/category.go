package entity

import (
	"encoding/json"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
)

type createCategoryRequest struct {
	Code        string  `json:"code" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

type updateCategoryRequest struct {
	Code        *string `json:"code" validate:"omitempty,min=1"`
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

type categorySchema struct{}

func (categorySchema) ValidateCreate(raw json.RawMessage) (map[string]any, error) {
	var req createCategoryRequest
	if err := bind(raw, &req); err != nil {
		return nil, err
	}
	return map[string]any{
		"code":        req.Code,
		"name":        req.Name,
		"description": req.Description,
		"created_at":  time.Now(),
	}, nil
}

func (categorySchema) ValidateUpdate(raw json.RawMessage) (map[string]any, error) {
	var req updateCategoryRequest
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
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	return fields, nil
}

// Category defines the category_item entity. No joins; default listing hides
// soft-deleted rows and orders by creation time.
func Category() Definition {
	return Definition{
		Name:       "category_item",
		BasePath:   "/api/category-item",
		Table:      "category_item",
		WriteTable: "category_item",
		IDColumn:   "category_item.id",
		Select: "category_item.id, category_item.code, category_item.name, category_item.description, " +
			"category_item.created_at, category_item.updated_at, category_item.deleted_at",
		DefaultOrderBy:   "category_item.created_at",
		DefaultOrderType: "DESC",
		Columns: []string{
			"category_item.id", "category_item.code", "category_item.name",
			"category_item.description", "category_item.created_at",
			"category_item.updated_at", "category_item.deleted_at",
		},
		OrderExprs: []string{
			"coalesce(category_item.updated_at,category_item.created_at)",
		},
		RawExprs: []filter.Expr{
			filter.IsNull("category_item.deleted_at"),
			filter.NotNull("category_item.deleted_at"),
			filter.NotNull("category_item.updated_at"),
			filter.Raw("true"),
			filter.Raw("false"),
		},
		DefaultRaw: filter.IsNull("category_item.deleted_at"),
		Schema:     categorySchema{},
	}
}
