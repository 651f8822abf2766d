package entity

import "time"

// Branch sucursal (local) de la cadena.
type Branch struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
