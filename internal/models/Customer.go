package models

type Customer struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          *string `gorm:"size:100" json:"name"`
	ContactNumber *string `gorm:"size:20;uniqueIndex" json:"contact_number"`
}

func (Customer) TableName() string { return "customers" }
