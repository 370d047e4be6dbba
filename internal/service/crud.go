// Package service implements the business logic of the generic CRUD
// pipeline: list orchestration with pagination metadata, single-record
// reads, validated writes, and the soft/permanent delete state machine.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/entity"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/repository"
)

// ErrNotFound signals that no row matched the identifier, or that recovery
// was attempted on a row that is not soft-deleted.
var ErrNotFound = errors.New("record not found")

// ListParams carries the pagination, ordering, and filter inputs of a list
// request. Zero values fall back to the entity defaults.
type ListParams struct {
	Page      int
	Paginate  int
	OrderBy   string
	OrderType string
	Filter    filter.Params
}

// DeleteResult reports how a delete batch was partitioned.
type DeleteResult struct {
	Soft     int
	Purged   int
	Affected int64
}

// CRUD is the generic service behind every entity's endpoints.
type CRUD[R any] struct {
	def         entity.Definition
	store       repository.Store[R]
	pageSize    int
	maxPageSize int
}

func NewCRUD[R any](def entity.Definition, store repository.Store[R], pageSize, maxPageSize int) *CRUD[R] {
	if pageSize <= 0 {
		pageSize = 10
	}
	if maxPageSize <= 0 {
		maxPageSize = 500
	}
	return &CRUD[R]{def: def, store: store, pageSize: pageSize, maxPageSize: maxPageSize}
}

func (s *CRUD[R]) Definition() entity.Definition { return s.def }

// order validates the requested sort column against the entity whitelist and
// appends the identifier as a tie-break so page boundaries stay stable under
// equal sort-key rows.
func (s *CRUD[R]) order(orderBy, orderType string) (string, error) {
	col := s.def.DefaultOrderBy
	if orderBy != "" {
		found := false
		for _, c := range s.def.Columns {
			if c == orderBy {
				found = true
				break
			}
		}
		for _, e := range s.def.OrderExprs {
			if e == orderBy {
				found = true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("%w: unknown order column %q", filter.ErrInvalid, orderBy)
		}
		col = orderBy
	}

	dir := s.def.DefaultOrderType
	switch strings.ToUpper(orderType) {
	case "ASC":
		dir = "ASC"
	case "DESC":
		dir = "DESC"
	}

	clause := col + " " + dir
	if col != s.def.IDColumn {
		clause += ", " + s.def.IDColumn + " " + dir
	}
	return clause, nil
}

// List returns one page of rows plus pagination metadata. The count query
// shares the assembled filter and joins with the data query.
func (s *CRUD[R]) List(ctx context.Context, p ListParams) ([]R, dto.Pagination, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	paginate := p.Paginate
	if paginate < 1 {
		paginate = s.pageSize
	}
	if paginate > s.maxPageSize {
		paginate = s.maxPageSize
	}
	offset := (page - 1) * paginate

	where, args, err := filter.Assemble(p.Filter, s.def.Rules())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	order, err := s.order(p.OrderBy, p.OrderType)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	total, err := s.store.Count(ctx, where, args)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	rows, err := s.store.Select(ctx, where, args, order, paginate, offset)
	if err != nil {
		return nil, dto.Pagination{}, err
	}

	return rows, dto.Pagination{
		Page:     page,
		Paginate: paginate,
		IsPrev:   page > 1,
		IsNext:   int64(offset+paginate) < total,
		Total:    total,
	}, nil
}

// Get reads a single record through the same select and joins as List,
// narrowed to the identifier. Filter fragments still apply, so callers can
// opt into seeing soft-deleted rows via a raw override.
func (s *CRUD[R]) Get(ctx context.Context, id int64, fp filter.Params) (*R, error) {
	fp.ID = &id
	where, args, err := filter.Assemble(fp, s.def.Rules())
	if err != nil {
		return nil, err
	}
	rows, err := s.store.Select(ctx, where, args, "", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

// Create validates and inserts a single record, returning its generated id.
func (s *CRUD[R]) Create(ctx context.Context, raw []byte) (int64, error) {
	fields, err := s.def.Schema.ValidateCreate(raw)
	if err != nil {
		return 0, err
	}
	ids, err := s.store.Insert(ctx, []map[string]any{fields})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CreateBulk validates every element independently and rejects the whole
// batch if any element is invalid; valid batches are inserted with a single
// statement.
func (s *CRUD[R]) CreateBulk(ctx context.Context, raws [][]byte) ([]int64, error) {
	rows := make([]map[string]any, 0, len(raws))
	for i, raw := range raws {
		fields, err := s.def.Schema.ValidateCreate(raw)
		if err != nil {
			var verr *apierror.ValidationError
			if errors.As(err, &verr) {
				prefixed := make([]apierror.FieldError, len(verr.Errors))
				for j, fe := range verr.Errors {
					prefixed[j] = apierror.FieldError{
						Field:   fmt.Sprintf("data[%d].%s", i, fe.Field),
						Message: fe.Message,
					}
				}
				return nil, apierror.NewValidation(prefixed)
			}
			return nil, err
		}
		rows = append(rows, fields)
	}
	return s.store.Insert(ctx, rows)
}

// Update applies a partial update and always refreshes updated_at.
func (s *CRUD[R]) Update(ctx context.Context, id int64, raw []byte) error {
	fields, err := s.def.Schema.ValidateUpdate(raw)
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now()
	affected, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Recover reverses a soft delete. Only valid while the row is currently
// soft-deleted; anything else reports not-found without mutating state.
func (s *CRUD[R]) Recover(ctx context.Context, id int64) error {
	states, err := s.store.States(ctx, []int64{id})
	if err != nil {
		return err
	}
	if len(states) == 0 || states[0].DeletedAt == nil {
		return ErrNotFound
	}
	_, err = s.store.Update(ctx, id, map[string]any{
		"deleted_at": nil,
		"updated_at": time.Now(),
	})
	return err
}

// Delete walks the per-record state machine for a batch of identifiers:
// active rows are soft-deleted, already soft-deleted rows are permanently
// removed. One batched statement per partition, both in one transaction.
func (s *CRUD[R]) Delete(ctx context.Context, ids []int64) (DeleteResult, error) {
	states, err := s.store.States(ctx, ids)
	if err != nil {
		return DeleteResult{}, err
	}
	if len(states) == 0 {
		return DeleteResult{}, ErrNotFound
	}

	var soft, purge []int64
	for _, st := range states {
		if st.DeletedAt != nil {
			purge = append(purge, st.ID)
		} else {
			soft = append(soft, st.ID)
		}
	}

	affected, err := s.store.ApplyDelete(ctx, soft, purge, time.Now())
	if err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Soft: len(soft), Purged: len(purge), Affected: affected}, nil
}
