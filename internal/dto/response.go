// Package dto holds the wire types shared by handlers and the data-table
// client: the response envelope, pagination metadata, and the bulk request
// bodies.
package dto

import "encoding/json"

// Pagination describes the page window of a list response.
type Pagination struct {
	Page     int   `json:"page"`
	Paginate int   `json:"paginate"`
	IsPrev   bool  `json:"is_prev"`
	IsNext   bool  `json:"is_next"`
	Total    int64 `json:"total"`
}

// Envelope is the uniform success response body. Status mirrors the HTTP
// status code; Pagination is only present on list responses.
type Envelope struct {
	Status     int             `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// CreatedID is the generated-identifier payload of create responses.
type CreatedID struct {
	ID FlexID `json:"id"`
}

// BulkCreateRequest wraps the bulk create body; each element is validated
// independently against the entity schema before any row is inserted.
type BulkCreateRequest struct {
	Data []json.RawMessage `json:"data"`
}

// BulkDeleteRequest wraps the bulk delete body.
type BulkDeleteRequest struct {
	ID []FlexID `json:"id"`
}
