package entity

import "time"

// Supplier proveedor de insumos. Name es único.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category agrupa insumos del catálogo. Name es único.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
