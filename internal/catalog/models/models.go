package models

type Product struct {
	ID          int     `gorm:"primaryKey"   json:"id"`
	Name        string  `gorm:"not null"     json:"name"`
	URL         string  `                    json:"url"`
	Price       float64 `gorm:"not null"     json:"price"`
	Description string  `                    json:"description"`
	Category    string  `gorm:"index"        json:"category"`
}

func (Product) TableName() string {
	return "products"
}
