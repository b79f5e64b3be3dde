package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es la ficha de catálogo; su existencia es requisito para vender o trasladar.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio de lista
	ImageURL  string
	Active    bool // los inactivos no se pueden vender
	CreatedAt time.Time
	UpdatedAt time.Time
}
