// Package repository implements the data access layer: one generic store
// parameterized by the entity definition and its row type. Services depend
// on the Store interface, not on the concrete GORM implementation, enabling
// clean unit testing via stubs.
package repository

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/entity"

	"gorm.io/gorm"
)

// State is the minimal row view the delete/recovery flow needs.
type State struct {
	ID        int64
	DeletedAt *time.Time
}

// Store is the data access contract consumed by the generic CRUD service.
// Where clauses arrive pre-assembled and parameterized from the filter
// package; order clauses are validated column references.
type Store[R any] interface {
	Select(ctx context.Context, where string, args []any, order string, limit, offset int) ([]R, error)
	Count(ctx context.Context, where string, args []any) (int64, error)
	Insert(ctx context.Context, rows []map[string]any) ([]int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (int64, error)
	States(ctx context.Context, ids []int64) ([]State, error)
	// ApplyDelete soft-deletes one partition and permanently removes the
	// other inside a single transaction, returning total rows affected.
	ApplyDelete(ctx context.Context, soft, purge []int64, at time.Time) (int64, error)
}

type gormStore[R any] struct {
	db  *gorm.DB
	def entity.Definition
}

func NewStore[R any](db *gorm.DB, def entity.Definition) Store[R] {
	return &gormStore[R]{db: db, def: def}
}

// read returns the driving table with the configured left joins applied,
// shared by the data and count queries.
func (s *gormStore[R]) read(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Table(s.def.Table)
	for _, j := range s.def.Joins {
		q = q.Joins("LEFT JOIN " + j.Table + " ON " + j.On)
	}
	return q
}

func (s *gormStore[R]) Select(ctx context.Context, where string, args []any, order string, limit, offset int) ([]R, error) {
	var rows []R
	q := s.read(ctx).Select(s.def.Select).Where(where, args...)
	if order != "" {
		q = q.Order(order)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore[R]) Count(ctx context.Context, where string, args []any) (int64, error) {
	var total int64
	err := s.read(ctx).Where(where, args...).Count(&total).Error
	return total, err
}

func (s *gormStore[R]) Insert(ctx context.Context, rows []map[string]any) ([]int64, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	// Column names come from the entity schema, never from request input.
	// Deterministic order keeps the statement stable across elements.
	cols := make([]string, 0, len(rows[0]))
	for c := range rows[0] {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	var (
		values []string
		args   []any
	)
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")"
	for _, row := range rows {
		values = append(values, placeholder)
		for _, c := range cols {
			args = append(args, row[c])
		}
	}

	sql := "INSERT INTO " + s.def.WriteTable + " (" + strings.Join(cols, ", ") + ") VALUES " +
		strings.Join(values, ", ") + " RETURNING id"

	var ids []int64
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *gormStore[R]) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	tx := s.db.WithContext(ctx).Table(s.def.WriteTable).Where("id = ?", id).Updates(fields)
	return tx.RowsAffected, tx.Error
}

func (s *gormStore[R]) States(ctx context.Context, ids []int64) ([]State, error) {
	var states []State
	err := s.db.WithContext(ctx).Table(s.def.WriteTable).
		Select("id, deleted_at").Where("id IN ?", ids).Scan(&states).Error
	return states, err
}

func (s *gormStore[R]) ApplyDelete(ctx context.Context, soft, purge []int64, at time.Time) (int64, error) {
	var affected int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(soft) > 0 {
			res := tx.Table(s.def.WriteTable).Where("id IN ?", soft).Updates(map[string]any{"deleted_at": at})
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		if len(purge) > 0 {
			res := tx.Exec("DELETE FROM "+s.def.WriteTable+" WHERE id IN ?", purge)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	return affected, err
}
