package models

const TableAvailable = "available"

type Table struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Number   string `gorm:"column:table_number;size:10;not null;uniqueIndex" json:"table_number"`
	Capacity int    `gorm:"not null" json:"capacity"`
	Status   string `gorm:"size:20;not null" json:"status"`
}

func (Table) TableName() string { return "tables" }
