// Package handler exposes the generic CRUD endpoints over gin. One handler
// serves every entity; the per-entity behavior lives entirely in the entity
// definition wired through the service.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// listQuery binds the list endpoint's query parameters.
type listQuery struct {
	Page        int    `form:"page"`
	Paginate    int    `form:"paginate"`
	OrderBy     string `form:"order_by"`
	OrderType   string `form:"order_type"`
	SearchKey   string `form:"search_key"`
	SearchValue string `form:"search_value"`
	EqualKey    string `form:"equal_key"`
	EqualValue  string `form:"equal_value"`
	RawQuery    string `form:"raw_query"`
	NotInKey    string `form:"notin_key"`
	NotInValue  string `form:"notin_value"`
}

func (q listQuery) filterParams() filter.Params {
	return filter.Params{
		SearchKey:   q.SearchKey,
		SearchValue: q.SearchValue,
		EqualKey:    q.EqualKey,
		EqualValue:  q.EqualValue,
		NotInKey:    q.NotInKey,
		NotInValue:  q.NotInValue,
		RawQuery:    q.RawQuery,
	}
}

// CRUDHandler serves the read and write endpoints of one entity.
type CRUDHandler[R any] struct {
	svc *service.CRUD[R]
	rdb *redis.Client
	ttl time.Duration
}

func NewCRUDHandler[R any](svc *service.CRUD[R], rdb *redis.Client, ttl time.Duration) *CRUDHandler[R] {
	return &CRUDHandler[R]{svc: svc, rdb: rdb, ttl: ttl}
}

func (h *CRUDHandler[R]) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, err.Error()))
		return
	}

	rows, pg, err := h.svc.List(c.Request.Context(), service.ListParams{
		Page:      q.Page,
		Paginate:  q.Paginate,
		OrderBy:   q.OrderBy,
		OrderType: q.OrderType,
		Filter:    q.filterParams(),
	})
	if err != nil {
		fail(c, err, "Data tidak ditemukan", http.StatusBadRequest, "Terjadi kesalahan saat mengambil data")
		return
	}
	if rows == nil {
		rows = []R{}
	}
	ok(c, http.StatusOK, "Data berhasil diambil", rows, &pg)
}

func (h *CRUDHandler[R]) Get(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, err.Error()))
		return
	}

	// Default single reads are cache-friendly: no query fragments means the
	// response only changes when the record itself changes.
	cacheable := h.rdb != nil && len(c.Request.URL.RawQuery) == 0
	if cacheable {
		if cached, err := h.rdb.Get(c.Request.Context(), h.cacheKey(id)).Bytes(); err == nil {
			var row json.RawMessage = cached
			ok(c, http.StatusOK, "Data berhasil diambil", row, nil)
			return
		}
	}

	row, err := h.svc.Get(c.Request.Context(), id, q.filterParams())
	if err != nil {
		fail(c, err, "Data tidak ditemukan", http.StatusBadRequest, "Terjadi kesalahan saat mengambil data")
		return
	}

	if cacheable {
		if buf, err := json.Marshal(row); err == nil {
			h.rdb.Set(c.Request.Context(), h.cacheKey(id), buf, h.ttl)
		}
	}
	ok(c, http.StatusOK, "Data berhasil diambil", row, nil)
}

func (h *CRUDHandler[R]) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Gagal membuat data"))
		return
	}
	id, err := h.svc.Create(c.Request.Context(), raw)
	if err != nil {
		fail(c, err, "Data tidak ditemukan", http.StatusBadRequest, "Gagal membuat data")
		return
	}
	ok(c, http.StatusCreated, "Data berhasil dibuat", dto.CreatedID{ID: dto.FlexID(id)}, nil)
}

func (h *CRUDHandler[R]) CreateBulk(c *gin.Context) {
	var req dto.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Data) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Gagal membuat data"))
		return
	}
	raws := make([][]byte, len(req.Data))
	for i, r := range req.Data {
		raws[i] = r
	}
	ids, err := h.svc.CreateBulk(c.Request.Context(), raws)
	if err != nil {
		fail(c, err, "Data tidak ditemukan", http.StatusBadRequest, "Gagal membuat data")
		return
	}
	created := make([]dto.CreatedID, len(ids))
	for i, id := range ids {
		created[i] = dto.CreatedID{ID: dto.FlexID(id)}
	}
	ok(c, http.StatusCreated, fmt.Sprintf("%d Data berhasil dibuat", len(created)), created, nil)
}

func (h *CRUDHandler[R]) Update(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "Gagal memperbarui data"))
		return
	}
	if err := h.svc.Update(c.Request.Context(), id, raw); err != nil {
		fail(c, err, "Data tidak ditemukan", http.StatusInternalServerError, "Gagal memperbarui data")
		return
	}
	h.invalidate(c.Request.Context(), id)
	ok(c, http.StatusOK, "Data berhasil diperbarui", nil, nil)
}

func (h *CRUDHandler[R]) Recover(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	if err := h.svc.Recover(c.Request.Context(), id); err != nil {
		fail(c, err, "Data tidak ditemukan atau tidak dihapus", http.StatusInternalServerError, "Gagal memperbarui data")
		return
	}
	h.invalidate(c.Request.Context(), id)
	ok(c, http.StatusOK, "Data berhasil dipulihkan", nil, nil)
}

func (h *CRUDHandler[R]) Delete(c *gin.Context) {
	id, valid := parseID(c)
	if !valid {
		return
	}
	_, err := h.svc.Delete(c.Request.Context(), []int64{id})
	if err != nil {
		fail(c, err, "Data tidak ditemukan atau sudah dihapus", http.StatusInternalServerError, "Gagal menghapus data")
		return
	}
	h.invalidate(c.Request.Context(), id)
	ok(c, http.StatusOK, "Data berhasil dihapus", nil, nil)
}

func (h *CRUDHandler[R]) DeleteBulk(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ID) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest, "ID harus dikirim dan harus berupa array"))
		return
	}
	ids := make([]int64, len(req.ID))
	for i, id := range req.ID {
		ids[i] = id.Int64()
	}
	res, err := h.svc.Delete(c.Request.Context(), ids)
	if err != nil {
		fail(c, err, "Data tidak ditemukan atau sudah dihapus", http.StatusInternalServerError, "Gagal menghapus data")
		return
	}
	for _, id := range ids {
		h.invalidate(c.Request.Context(), id)
	}
	ok(c, http.StatusOK, fmt.Sprintf("%d Data berhasil dihapus", res.Soft+res.Purged), nil, nil)
}

func (h *CRUDHandler[R]) cacheKey(id int64) string {
	return h.svc.Definition().Name + ":" + strconv.FormatInt(id, 10)
}

func (h *CRUDHandler[R]) invalidate(ctx context.Context, id int64) {
	if h.rdb != nil {
		h.rdb.Del(ctx, h.cacheKey(id))
	}
}
