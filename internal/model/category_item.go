package model

import "time"

// CategoryItem classifies items. Soft deletion is tracked through DeletedAt:
// a row with a non-null DeletedAt is hidden from default listings but remains
// recoverable until a second delete removes it permanently.
type CategoryItem struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Code        string     `gorm:"not null" json:"code"`
	Name        string     `gorm:"not null" json:"name"`
	Description *string    `json:"description"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// TableName keeps the singular table names of the original schema.
func (CategoryItem) TableName() string { return "category_item" }

// CategoryRef is the joined category shape embedded in item and stock rows.
// Fields are pointers because a left join may produce no match.
type CategoryRef struct {
	ID          *int64  `gorm:"column:category_item__id" json:"id,string"`
	Code        *string `gorm:"column:category_item__code" json:"code"`
	Name        *string `gorm:"column:category_item__name" json:"name"`
	Description *string `gorm:"column:category_item__description" json:"description"`
}
