package entity

import "time"

// User representa un usuario del sistema. El núcleo solo lo consume como
// referencia: el creador de una venta o compra debe existir y estar activo.
type User struct {
	ID             int64
	Identification string
	Name           string
	Email          string
	Active         bool
	CreatedAt      time.Time
}
