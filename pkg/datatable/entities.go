package datatable

// Per-entity table configurations. Search keys, sort options, and page sizes
// mirror the admin UI; filter values must stay in step with the server's
// trusted expression whitelist for each entity.

var pageSizes = []PageSize{
	{Label: "10", Value: 10, Default: true},
	{Label: "25", Value: 25},
	{Label: "50", Value: 50},
	{Label: "100", Value: 100},
	{Label: "250", Value: 250},
	{Label: "500", Value: 500},
}

// CategoryTable configures the item-category listing.
func CategoryTable() Options {
	return Options{
		QueryKey:  "category_item",
		BasePath:  "/api/category-item",
		SearchKey: "category_item.code,category_item.name,category_item.description",
		Paginate:  pageSizes,
		OrderBy: []OrderOption{
			{Label: "Kode", Tooltip: "A - Z", Value: "order_by=category_item.code&order_type=asc"},
			{Label: "Kode", Tooltip: "Z - A", Value: "order_by=category_item.code&order_type=desc"},
			{Label: "Nama", Tooltip: "A - Z", Value: "order_by=category_item.name&order_type=asc"},
			{Label: "Nama", Tooltip: "Z - A", Value: "order_by=category_item.name&order_type=desc"},
			{Label: "Keterangan", Tooltip: "A - Z", Value: "order_by=category_item.description&order_type=asc"},
			{Label: "Keterangan", Tooltip: "Z - A", Value: "order_by=category_item.description&order_type=desc"},
			{Label: "Tanggal", Tooltip: "Terlama", Value: "order_by=coalesce(category_item.updated_at,category_item.created_at)&order_type=asc"},
			{Label: "Tanggal", Tooltip: "Terbaru", Value: "order_by=coalesce(category_item.updated_at,category_item.created_at)&order_type=desc", Default: true},
		},
		Filter: []FilterOption{
			{Label: "Aktif", Value: "category_item.deleted_at is null", Operator: FilterAnd, Default: true},
			{Label: "Terhapus", Value: "category_item.deleted_at is not null", Operator: FilterAnd},
		},
	}
}

// ItemTable configures the item listing.
func ItemTable() Options {
	return Options{
		QueryKey:  "item",
		BasePath:  "/api/item",
		SearchKey: "item.code,item.name,category_item.code,category_item.name,item.unit",
		Paginate:  pageSizes,
		OrderBy: []OrderOption{
			{Label: "Kode", Tooltip: "A - Z", Value: "order_by=item.code&order_type=asc"},
			{Label: "Kode", Tooltip: "Z - A", Value: "order_by=item.code&order_type=desc"},
			{Label: "Nama", Tooltip: "A - Z", Value: "order_by=item.name&order_type=asc"},
			{Label: "Nama", Tooltip: "Z - A", Value: "order_by=item.name&order_type=desc"},
			{Label: "Kategori", Tooltip: "A - Z", Value: "order_by=category_item.name&order_type=asc"},
			{Label: "Kategori", Tooltip: "Z - A", Value: "order_by=category_item.name&order_type=desc"},
			{Label: "Tanggal", Tooltip: "Terlama", Value: "order_by=coalesce(item.updated_at,item.created_at)&order_type=asc"},
			{Label: "Tanggal", Tooltip: "Terbaru", Value: "order_by=coalesce(item.updated_at,item.created_at)&order_type=desc", Default: true},
		},
		Filter: []FilterOption{
			{Label: "Dilacak stok", Value: "item.is_stock is true", Operator: FilterOr},
			{Label: "Aktif", Value: "item.deleted_at is null", Operator: FilterAnd, Default: true},
			{Label: "Terhapus", Value: "item.deleted_at is not null", Operator: FilterAnd},
		},
	}
}

// StockTable configures the stock listing. Writes other than update are
// disabled in the original admin table; the client still exposes them for
// programmatic use.
func StockTable() Options {
	return Options{
		QueryKey:  "stock_item",
		BasePath:  "/api/stock-item",
		SearchKey: "item.code,item.name,category_item.code,category_item.name,item.unit,stock_item.stock",
		Paginate:  pageSizes,
		OrderBy: []OrderOption{
			{Label: "Barang", Tooltip: "A - Z", Value: "order_by=item.name&order_type=asc"},
			{Label: "Barang", Tooltip: "Z - A", Value: "order_by=item.name&order_type=desc"},
			{Label: "Kategori Barang", Tooltip: "A - Z", Value: "order_by=category_item.name&order_type=asc"},
			{Label: "Kategori Barang", Tooltip: "Z - A", Value: "order_by=category_item.name&order_type=desc"},
			{Label: "Stok", Tooltip: "0 - 9", Value: "order_by=stock_item.stock&order_type=asc"},
			{Label: "Stok", Tooltip: "9 - 0", Value: "order_by=stock_item.stock&order_type=desc"},
			{Label: "Tanggal", Tooltip: "Terlama", Value: "order_by=coalesce(stock_item.updated_at,stock_item.created_at,item.updated_at,item.created_at)&order_type=asc"},
			{Label: "Tanggal", Tooltip: "Terbaru", Value: "order_by=coalesce(stock_item.updated_at,stock_item.created_at,item.updated_at,item.created_at)&order_type=desc", Default: true},
		},
		Filter: []FilterOption{
			{Label: "Aktif", Value: "stock_item.deleted_at is null", Operator: FilterAnd, Default: true},
			{Label: "Terhapus", Value: "stock_item.deleted_at is not null", Operator: FilterAnd},
		},
	}
}

// Tables returns every entity configuration keyed by query key.
func Tables() map[string]Options {
	return map[string]Options{
		"category_item": CategoryTable(),
		"item":          ItemTable(),
		"stock_item":    StockTable(),
	}
}
