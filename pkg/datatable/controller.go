package datatable

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DebounceDelay is how long a search edit waits before it takes effect.
// Confirm (the Enter key in the original UI) skips the wait.
const DebounceDelay = time.Second

// Controller holds the table state of one entity: search term, sort, selected
// filters, and page size. Any input change bumps a monotonically increasing
// query version; fetched pages are cached per (entity, version, page), so a
// bump implicitly invalidates every previously fetched page without touching
// the cache entries themselves.
type Controller struct {
	opts   Options
	client *Client

	mu          sync.Mutex
	search      string
	orderQuery  string
	filter      []string
	paginate    int
	version     int
	page        int
	hasNext     bool
	total       int64
	rows        []Row
	cache       map[string]*ListResult
	searchTimer *time.Timer
}

func NewController(opts Options, client *Client) *Controller {
	return &Controller{
		opts:       opts,
		client:     client,
		orderQuery: opts.DefaultOrder(),
		filter:     opts.DefaultFilter(),
		paginate:   opts.DefaultPageSize(),
		cache:      make(map[string]*ListResult),
	}
}

// SetSearch records the term and schedules the version bump after the
// debounce delay. Rapid edits keep pushing the deadline forward.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(DebounceDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.bump()
	})
}

// Confirm applies a pending search immediately.
func (c *Controller) Confirm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
		c.searchTimer = nil
	}
	c.bump()
}

// SetOrder selects a sort fragment ("order_by=...&order_type=...").
func (c *Controller) SetOrder(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.orderQuery = value
	c.bump()
}

// SetFilter replaces the selected filter values.
func (c *Controller) SetFilter(values []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = append([]string(nil), values...)
	c.bump()
}

// SetPageSize changes the page size.
func (c *Controller) SetPageSize(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paginate = n
	c.bump()
}

// Version returns the current query version.
func (c *Controller) Version() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Rows returns the rows accumulated for the current version.
func (c *Controller) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Total returns the matching-row count reported by the last fetch.
func (c *Controller) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// HasNext reports whether another page exists after the last fetched one.
func (c *Controller) HasNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasNext
}

// Refresh fetches page 1 of the current version, replacing accumulated rows.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.fetch(ctx, 1)
}

// LoadMore appends the next page. It is a no-op once is_next is false.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	next, has := c.page+1, c.hasNext
	c.mu.Unlock()
	if !has {
		return nil
	}
	return c.fetch(ctx, next)
}

// bump invalidates cached pages. Callers hold c.mu.
func (c *Controller) bump() {
	c.version++
	c.page = 0
	c.hasNext = false
	c.rows = nil
}

func (c *Controller) fetch(ctx context.Context, page int) error {
	c.mu.Lock()
	version := c.version
	key := fmt.Sprintf("%s:%d:%d", c.opts.QueryKey, version, page)
	cached := c.cache[key]
	query := c.buildQuery(page)
	c.mu.Unlock()

	res := cached
	if res == nil {
		fetched, err := c.client.List(ctx, c.opts.BasePath, query)
		if err != nil {
			return err
		}
		res = fetched
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// A bump during the round trip makes this response stale; drop it.
	if c.version != version {
		return nil
	}
	c.cache[key] = res
	if page == 1 {
		c.rows = append([]Row(nil), res.Rows...)
	} else {
		c.rows = append(c.rows, res.Rows...)
	}
	c.page = page
	c.hasNext = res.Pagination.IsNext
	c.total = res.Pagination.Total
	return nil
}

// buildQuery assembles the request parameters. Callers hold c.mu.
func (c *Controller) buildQuery(page int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("paginate", strconv.Itoa(c.paginate))
	if c.opts.SearchKey != "" && c.search != "" {
		q.Set("search_key", c.opts.SearchKey)
		q.Set("search_value", c.search)
	}
	if c.opts.Filter != nil {
		q.Set("raw_query", BuildRawFilter(c.opts.Filter, c.filter, ""))
	}
	if c.orderQuery != "" {
		if parsed, err := url.ParseQuery(strings.TrimPrefix(c.orderQuery, "?")); err == nil {
			for k, vs := range parsed {
				for _, v := range vs {
					q.Set(k, v)
				}
			}
		}
	}
	return q
}
