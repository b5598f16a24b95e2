package entity

import "time"

// Warehouse representa un almacén físico (bodega, cámara, cocina, sucursal).
type Warehouse struct {
	ID            string
	Name          string
	Location      string
	ResponsibleID *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
