package model

import "time"

// Item is an inventory item belonging to a category. CreatedDate is a
// business date supplied by the user, distinct from the CreatedAt audit
// timestamp. IsStock marks whether stock levels are tracked for the item.
type Item struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Code           string     `gorm:"not null" json:"code"`
	Name           string     `gorm:"not null" json:"name"`
	CreatedDate    *time.Time `json:"created_date"`
	CategoryItemID int64      `gorm:"not null;index" json:"category_item_id,string"`
	Unit           string     `gorm:"not null" json:"unit"`
	IsStock        bool       `gorm:"not null;default:true" json:"is_stock"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at"`

	Category *CategoryItem `gorm:"foreignKey:CategoryItemID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Item) TableName() string { return "item" }

// ItemRow is the select shape for item listings: the item columns plus the
// joined category as a nested object.
type ItemRow struct {
	Item         `gorm:"embedded"`
	CategoryItem CategoryRef `gorm:"embedded" json:"category_item"`
}

// ItemRef is the joined item shape embedded in stock rows.
type ItemRef struct {
	ID             *int64     `gorm:"column:item__id" json:"id,string"`
	Code           *string    `gorm:"column:item__code" json:"code"`
	Name           *string    `gorm:"column:item__name" json:"name"`
	CreatedDate    *time.Time `gorm:"column:item__created_date" json:"created_date"`
	CategoryItemID *int64     `gorm:"column:item__category_item_id" json:"category_item_id,string"`
	Unit           *string    `gorm:"column:item__unit" json:"unit"`
	IsStock        *bool      `gorm:"column:item__is_stock" json:"is_stock"`
}
