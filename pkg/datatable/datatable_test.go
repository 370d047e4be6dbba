package datatable

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Raw filter composition ───────────────────────────────────────────────────

func testFilterOptions() []FilterOption {
	return []FilterOption{
		{Label: "Dilacak stok", Value: "item.is_stock is true", Operator: FilterOr},
		{Label: "Aktif", Value: "item.deleted_at is null", Operator: FilterAnd},
		{Label: "Terhapus", Value: "item.deleted_at is not null", Operator: FilterAnd},
	}
}

func TestBuildRawFilterGroups(t *testing.T) {
	opts := testFilterOptions()

	// AND-group members are or'd together.
	got := BuildRawFilter(opts, []string{"item.deleted_at is null", "item.deleted_at is not null"}, "")
	assert.Equal(t, "(item.deleted_at is null or item.deleted_at is not null)", got)

	// OR-group is prefixed and ANDed with the AND-group.
	got = BuildRawFilter(opts, []string{"item.is_stock is true", "item.deleted_at is null"}, "")
	assert.Equal(t, "(item.is_stock is true) and (item.deleted_at is null)", got)
}

func TestBuildRawFilterEmptySelection(t *testing.T) {
	opts := testFilterOptions()

	// Nothing selected falls back to a never-true filter.
	assert.Equal(t, "false", BuildRawFilter(opts, nil, ""))
	assert.Equal(t, "true", BuildRawFilter(opts, nil, "true"))

	// Only the OR-group selected: the AND slot still needs its fallback.
	got := BuildRawFilter(opts, []string{"item.is_stock is true"}, "")
	assert.Equal(t, "(item.is_stock is true) and false", got)
}

func TestBuildRawFilterIgnoresUnknownSelections(t *testing.T) {
	got := BuildRawFilter(testFilterOptions(), []string{"1=1; drop table item"}, "")
	assert.Equal(t, "false", got)
}

// ── Row normalization ────────────────────────────────────────────────────────

func TestNormalizeDerivesDatetimeAndLastAction(t *testing.T) {
	rows := Normalize([]Row{
		{"created_at": "c1"},
		{"created_at": "c2", "updated_at": "u2"},
		{"created_at": "c3", "updated_at": "u3", "deleted_at": "d3"},
		{"created_at": "c4", "updated_at": nil, "deleted_at": nil},
	})

	assert.Equal(t, "c1", rows[0]["datetime"])
	assert.Equal(t, ActionCreated, rows[0]["last_action"])
	assert.Equal(t, "u2", rows[1]["datetime"])
	assert.Equal(t, ActionUpdated, rows[1]["last_action"])
	assert.Equal(t, "d3", rows[2]["datetime"])
	assert.Equal(t, ActionDeleted, rows[2]["last_action"])
	// JSON nulls decode to nil values and count as absent.
	assert.Equal(t, "c4", rows[3]["datetime"])
	assert.Equal(t, ActionCreated, rows[3]["last_action"])
}

// ── Controller ───────────────────────────────────────────────────────────────

// fakeServer serves a fixed 25-row data set with real pagination math and
// records every request's query parameters.
func fakeServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		paginate, _ := strconv.Atoi(r.URL.Query().Get("paginate"))
		if paginate < 1 {
			paginate = 10
		}

		const total = 25
		start := (page - 1) * paginate
		var rows []map[string]any
		for i := start; i < start+paginate && i < total; i++ {
			rows = append(rows, map[string]any{
				"id":         strconv.Itoa(i + 1),
				"created_at": "2026-01-01T00:00:00Z",
			})
		}
		data, _ := json.Marshal(rows)

		_ = json.NewEncoder(w).Encode(dto.Envelope{
			Status:  http.StatusOK,
			Message: "Data berhasil diambil",
			Data:    data,
			Pagination: &dto.Pagination{
				Page:     page,
				Paginate: paginate,
				IsPrev:   page > 1,
				IsNext:   start+paginate < total,
				Total:    total,
			},
		})
	}))
}

func testOptions() Options {
	return Options{
		QueryKey:  "widget",
		BasePath:  "/api/widget",
		SearchKey: "widget.name",
		Paginate:  []PageSize{{Label: "10", Value: 10, Default: true}},
		OrderBy: []OrderOption{
			{Label: "Tanggal", Value: "order_by=widget.created_at&order_type=desc", Default: true},
		},
	}
}

func TestControllerLoadMoreFollowsIsNext(t *testing.T) {
	var hits atomic.Int64
	srv := fakeServer(t, &hits)
	defer srv.Close()

	ctrl := NewController(testOptions(), NewClient(srv.URL))
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	assert.Len(t, ctrl.Rows(), 10)
	assert.True(t, ctrl.HasNext())
	assert.Equal(t, int64(25), ctrl.Total())

	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Len(t, ctrl.Rows(), 20)

	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Len(t, ctrl.Rows(), 25)
	assert.False(t, ctrl.HasNext())

	// Exhausted: LoadMore is a no-op, no extra request.
	before := hits.Load()
	require.NoError(t, ctrl.LoadMore(ctx))
	assert.Equal(t, before, hits.Load())
}

func TestControllerCachesPagesPerVersion(t *testing.T) {
	var hits atomic.Int64
	srv := fakeServer(t, &hits)
	defer srv.Close()

	ctrl := NewController(testOptions(), NewClient(srv.URL))
	ctx := context.Background()

	require.NoError(t, ctrl.Refresh(ctx))
	require.NoError(t, ctrl.Refresh(ctx))
	assert.Equal(t, int64(1), hits.Load(), "same version and page served from cache")

	ctrl.SetPageSize(25)
	require.NoError(t, ctrl.Refresh(ctx))
	assert.Equal(t, int64(2), hits.Load(), "version bump invalidates the cached page")
}

func TestControllerInputChangesBumpVersion(t *testing.T) {
	ctrl := NewController(testOptions(), NewClient("http://unused"))

	v := ctrl.Version()
	ctrl.SetOrder("order_by=widget.name&order_type=asc")
	assert.Equal(t, v+1, ctrl.Version())

	ctrl.SetFilter([]string{"widget.deleted_at is null"})
	assert.Equal(t, v+2, ctrl.Version())

	ctrl.SetPageSize(50)
	assert.Equal(t, v+3, ctrl.Version())
}

func TestControllerSearchDebounce(t *testing.T) {
	ctrl := NewController(testOptions(), NewClient("http://unused"))

	v := ctrl.Version()
	ctrl.SetSearch("h")
	ctrl.SetSearch("ha")
	ctrl.SetSearch("ham")
	assert.Equal(t, v, ctrl.Version(), "version unchanged while the debounce runs")

	// Confirm applies the pending search without waiting out the delay.
	ctrl.Confirm()
	assert.Equal(t, v+1, ctrl.Version())

	// The canceled timer must not fire a second bump afterwards.
	time.Sleep(DebounceDelay + 100*time.Millisecond)
	assert.Equal(t, v+1, ctrl.Version())
}

func TestControllerSendsQueryParameters(t *testing.T) {
	var captured atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Store(r.URL.Query())
		_ = json.NewEncoder(w).Encode(dto.Envelope{
			Status:     http.StatusOK,
			Data:       json.RawMessage(`[]`),
			Pagination: &dto.Pagination{Page: 1, Paginate: 10},
		})
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Filter = testFilterOptions()
	ctrl := NewController(opts, NewClient(srv.URL))
	ctrl.SetSearch("hammer")
	ctrl.Confirm()
	ctrl.SetFilter([]string{"item.deleted_at is null"})

	require.NoError(t, ctrl.Refresh(context.Background()))

	q := captured.Load().(url.Values)
	assert.Equal(t, "widget.name", q.Get("search_key"))
	assert.Equal(t, "hammer", q.Get("search_value"))
	assert.Equal(t, "(item.deleted_at is null)", q.Get("raw_query"))
	assert.Equal(t, "widget.created_at", q.Get("order_by"))
	assert.Equal(t, "desc", q.Get("order_type"))
}
