package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/apierror"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/entity"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/repository"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stub store ───────────────────────────────────────────────────────────────

type testRow struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

type memStore struct {
	rows   map[int64]*repository.State
	names  map[int64]string
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{rows: map[int64]*repository.State{}, names: map[int64]string{}, nextID: 1}
}

func (s *memStore) Select(_ context.Context, _ string, _ []any, _ string, limit, offset int) ([]testRow, error) {
	var out []testRow
	for id := int64(1); id < s.nextID; id++ {
		if st, ok := s.rows[id]; ok && st.DeletedAt == nil {
			out = append(out, testRow{ID: id, Name: s.names[id]})
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) Count(context.Context, string, []any) (int64, error) {
	var n int64
	for _, st := range s.rows {
		if st.DeletedAt == nil {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Insert(_ context.Context, rows []map[string]any) ([]int64, error) {
	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = s.nextID
		s.rows[s.nextID] = &repository.State{ID: s.nextID}
		if name, ok := row["name"].(string); ok {
			s.names[s.nextID] = name
		}
		s.nextID++
	}
	return ids, nil
}

func (s *memStore) Update(_ context.Context, id int64, fields map[string]any) (int64, error) {
	st, ok := s.rows[id]
	if !ok {
		return 0, nil
	}
	if name, present := fields["name"].(string); present {
		s.names[id] = name
	}
	if del, present := fields["deleted_at"]; present && del == nil {
		st.DeletedAt = nil
	}
	return 1, nil
}

func (s *memStore) States(_ context.Context, ids []int64) ([]repository.State, error) {
	var states []repository.State
	for _, id := range ids {
		if st, ok := s.rows[id]; ok {
			states = append(states, *st)
		}
	}
	return states, nil
}

func (s *memStore) ApplyDelete(_ context.Context, soft, purge []int64, at time.Time) (int64, error) {
	var n int64
	for _, id := range soft {
		t := at
		s.rows[id].DeletedAt = &t
		n++
	}
	for _, id := range purge {
		delete(s.rows, id)
		n++
	}
	return n, nil
}

// ── Test wiring ──────────────────────────────────────────────────────────────

type testSchema struct{}

func (testSchema) ValidateCreate(raw json.RawMessage) (map[string]any, error) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, apierror.New(http.StatusBadRequest, "JSON tidak valid")
	}
	if req.Name == "" {
		return nil, apierror.NewValidation([]apierror.FieldError{
			{Field: "name", Message: "name wajib diisi"},
		})
	}
	return map[string]any{"name": req.Name, "created_at": time.Now()}, nil
}

func (testSchema) ValidateUpdate(raw json.RawMessage) (map[string]any, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apierror.New(http.StatusBadRequest, "JSON tidak valid")
	}
	return fields, nil
}

func newTestRouter(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	def := entity.Definition{
		Name:             "widget",
		BasePath:         "/api/widget",
		Table:            "widget",
		WriteTable:       "widget",
		IDColumn:         "widget.id",
		Select:           "widget.id, widget.name",
		DefaultOrderBy:   "widget.created_at",
		DefaultOrderType: "DESC",
		Columns:          []string{"widget.id", "widget.name", "widget.created_at"},
		RawExprs:         []filter.Expr{filter.IsNull("widget.deleted_at"), filter.NotNull("widget.deleted_at")},
		DefaultRaw:       filter.IsNull("widget.deleted_at"),
		Schema:           testSchema{},
	}
	svc := service.NewCRUD[testRow](def, store, 10, 500)
	h := NewCRUDHandler[testRow](svc, nil, 0)

	r := gin.New()
	g := r.Group(def.BasePath)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.POST("/bulk", h.CreateBulk)
	g.DELETE("/bulk", h.DeleteBulk)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/recovery", h.Recover)
	g.DELETE("/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var payload *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(buf)
	} else {
		payload = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w, decoded
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestCreateAndGetRoundTrip(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	w, body := doJSON(t, r, http.MethodPost, "/api/widget", gin.H{"name": "Hammer"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Data berhasil dibuat", body["message"])
	created := body["data"].(map[string]any)
	assert.Equal(t, "1", created["id"], "ids serialize as strings")

	w, body = doJSON(t, r, http.MethodGet, "/api/widget/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data berhasil diambil", body["message"])
	row := body["data"].(map[string]any)
	assert.Equal(t, "Hammer", row["name"])
}

func TestListEnvelope(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	for i := 0; i < 25; i++ {
		doJSON(t, r, http.MethodPost, "/api/widget", gin.H{"name": "w"})
	}

	w, body := doJSON(t, r, http.MethodGet, "/api/widget?page=2&paginate=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data berhasil diambil", body["message"])
	assert.Len(t, body["data"], 10)

	pg := body["pagination"].(map[string]any)
	assert.Equal(t, float64(2), pg["page"])
	assert.Equal(t, true, pg["is_prev"])
	assert.Equal(t, true, pg["is_next"])
	assert.Equal(t, float64(25), pg["total"])
}

func TestListRejectsNonWhitelistedOrder(t *testing.T) {
	r := newTestRouter(newMemStore())

	w, _ := doJSON(t, r, http.MethodGet, "/api/widget?order_by=pg_sleep(1)", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMissingRowIs404(t *testing.T) {
	r := newTestRouter(newMemStore())

	w, body := doJSON(t, r, http.MethodGet, "/api/widget/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data tidak ditemukan", body["message"])
}

func TestGetInvalidIDIs400(t *testing.T) {
	r := newTestRouter(newMemStore())

	w, body := doJSON(t, r, http.MethodGet, "/api/widget/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID tidak valid", body["message"])
}

func TestCreateValidationEnvelope(t *testing.T) {
	r := newTestRouter(newMemStore())

	w, body := doJSON(t, r, http.MethodPost, "/api/widget", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Beberapa bidang tidak valid", body["message"])
	errs := body["errors"].([]any)
	first := errs[0].(map[string]any)
	assert.Equal(t, "name", first["field"])
	assert.Equal(t, "name wajib diisi", first["message"])
}

func TestCreateBulk(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)

	w, body := doJSON(t, r, http.MethodPost, "/api/widget/bulk", gin.H{
		"data": []gin.H{{"name": "a"}, {"name": "b"}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2 Data berhasil dibuat", body["message"])
	assert.Len(t, body["data"], 2)

	// One invalid element rejects the whole batch.
	w, _ = doJSON(t, r, http.MethodPost, "/api/widget/bulk", gin.H{
		"data": []gin.H{{"name": "c"}, {}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, store.rows, 2)
}

func TestCreateBulkEmptyBodyIs400(t *testing.T) {
	r := newTestRouter(newMemStore())

	w, body := doJSON(t, r, http.MethodPost, "/api/widget/bulk", gin.H{"data": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Gagal membuat data", body["message"])
}

func TestUpdate(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	doJSON(t, r, http.MethodPost, "/api/widget", gin.H{"name": "old"})

	w, body := doJSON(t, r, http.MethodPut, "/api/widget/1", gin.H{"name": "new"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data berhasil diperbarui", body["message"])
	assert.Equal(t, "new", store.names[1])

	w, body = doJSON(t, r, http.MethodPut, "/api/widget/9", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data tidak ditemukan", body["message"])
}

func TestDeleteLifecycle(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	doJSON(t, r, http.MethodPost, "/api/widget", gin.H{"name": "w"})

	// First delete: soft.
	w, body := doJSON(t, r, http.MethodDelete, "/api/widget/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data berhasil dihapus", body["message"])
	require.NotNil(t, store.rows[1])
	assert.NotNil(t, store.rows[1].DeletedAt)

	// Recovery brings it back.
	w, body = doJSON(t, r, http.MethodPut, "/api/widget/1/recovery", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Data berhasil dipulihkan", body["message"])
	assert.Nil(t, store.rows[1].DeletedAt)

	// Recovery on an active row is refused.
	w, body = doJSON(t, r, http.MethodPut, "/api/widget/1/recovery", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data tidak ditemukan atau tidak dihapus", body["message"])

	// Delete twice: second one is permanent.
	doJSON(t, r, http.MethodDelete, "/api/widget/1", nil)
	w, _ = doJSON(t, r, http.MethodDelete, "/api/widget/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, store.rows[1])

	// Gone for good.
	w, body = doJSON(t, r, http.MethodDelete, "/api/widget/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Data tidak ditemukan atau sudah dihapus", body["message"])
}

func TestDeleteBulk(t *testing.T) {
	store := newMemStore()
	r := newTestRouter(store)
	for i := 0; i < 3; i++ {
		doJSON(t, r, http.MethodPost, "/api/widget", gin.H{"name": "w"})
	}

	w, body := doJSON(t, r, http.MethodDelete, "/api/widget/bulk", gin.H{"id": []string{"1", "2", "3"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3 Data berhasil dihapus", body["message"])

	w, body = doJSON(t, r, http.MethodDelete, "/api/widget/bulk", gin.H{"id": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID harus dikirim dan harus berupa array", body["message"])
}
