package models

type Category struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"size:50;not null;uniqueIndex" json:"name"`
	Description *string `json:"description"`
}

func (Category) TableName() string { return "categories" }

type MenuItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CategoryID  uint      `gorm:"not null;index" json:"category_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description *string   `json:"description"`
	Price       Money     `gorm:"column:price_cents;not null" json:"price"`
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	ImageURL    *string   `gorm:"size:255" json:"image_url"`
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category,omitempty"`
}

func (MenuItem) TableName() string { return "menu_items" }
