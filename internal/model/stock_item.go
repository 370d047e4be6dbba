package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockItem holds the stock level for a stock-tracked item. Logically
// one-to-one per item; rows are only meaningful while the item has
// IsStock set, which listings enforce through their join filter.
type StockItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id,string"`
	ItemID    int64           `gorm:"not null;index" json:"item_id,string"`
	Stock     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"stock"`
	CreatedAt time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at"`
	DeletedAt *time.Time      `json:"deleted_at"`

	Item *Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (StockItem) TableName() string { return "stock_item" }

// StockRow is the select shape for stock listings. The listing drives from
// item and left-joins stock_item, so every stock_item column can be null:
// a stock-tracked item without a stock row still appears, with a null id
// and stock.
type StockRow struct {
	ID             *int64              `gorm:"column:id" json:"id,string"`
	ItemID         *int64              `gorm:"column:item_id" json:"item_id,string"`
	CategoryItemID *int64              `gorm:"column:category_item_id" json:"category_item_id,string"`
	Stock          decimal.NullDecimal `gorm:"column:stock" json:"stock"`
	CreatedAt      *time.Time          `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      *time.Time          `gorm:"column:updated_at" json:"updated_at"`
	DeletedAt      *time.Time          `gorm:"column:deleted_at" json:"deleted_at"`
	Item           ItemRef             `gorm:"embedded" json:"item"`
	CategoryItem   CategoryRef         `gorm:"embedded" json:"category_item"`
}
