package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemModel mirrors the 'items' table. The 'item_principals' join table is
// the allowed-principals relation; rows are only ever written in the same
// transaction as the item itself or through an explicit grant.
type ItemModel struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Name         string       `gorm:"type:varchar(255);not null"`
	Description  string       `gorm:"type:text"`
	Tags         string       `gorm:"type:varchar(255)"`
	CategoryID   *uuid.UUID   `gorm:"type:uuid"`
	Category     *CategoryModel
	AllowedUsers []*UserModel `gorm:"many2many:item_principals"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ItemModel) TableName() string {
	return "items"
}

// ServiceModel mirrors the 'services' table, one secret entry under an item,
// with its own principal join table.
type ServiceModel struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ItemID       uuid.UUID    `gorm:"type:uuid;not null;index"`
	Name         string       `gorm:"type:varchar(255);not null"`
	URL          string       `gorm:"type:varchar(500)"`
	Username     string       `gorm:"type:varchar(255)"`
	Secret       string       `gorm:"type:text"`
	AllowedUsers []*UserModel `gorm:"many2many:service_principals"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (ServiceModel) TableName() string {
	return "services"
}

// CategoryModel mirrors the 'categories' table.
type CategoryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	Name      string    `gorm:"type:varchar(255);unique;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}
