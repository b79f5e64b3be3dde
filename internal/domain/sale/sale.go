// Package sale contiene las reglas puras de una venta: clave de idempotencia,
// agrupación de líneas por producto canónico y totales.
package sale

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/Ventas-api/internal/domain"
)

// KeySeparator separa vendedor y venta local en la clave; también separa el ID canónico
// de un producto de su sufijo desambiguador.
const KeySeparator = "_"

// NormalizeID lleva un identificador a NFC y le quita espacios en los extremos.
// El cliente móvil debe aplicar la misma normalización.
func NormalizeID(id string) string {
	return strings.TrimSpace(norm.NFC.String(id))
}

// Key deriva la clave determinística de la venta: vendedor + "_" + venta local.
func Key(sellerID, localSaleID string) string {
	return NormalizeID(sellerID) + KeySeparator + NormalizeID(localSaleID)
}

// CanonicalProductID devuelve la parte del ID anterior al primer "_".
func CanonicalProductID(raw string) string {
	id := NormalizeID(raw)
	if i := strings.Index(id, KeySeparator); i >= 0 {
		return id[:i]
	}
	return id
}

// Line es una línea de venta tal como llega del cliente o ya agrupada.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int64
	ImageURL  string
}

// GroupLines agrupa por ID canónico sumando cantidades; conserva precio, nombre e imagen
// de la primera aparición y el orden de llegada.
// Ni la suma por producto ni el total de unidades pueden desbordar int64.
func GroupLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, domain.Invalid("productos no puede estar vacío")
	}
	out := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))
	var units int64
	for i, l := range lines {
		id := CanonicalProductID(l.ProductID)
		if id == "" {
			return nil, domain.Invalid("productos[%d].id es obligatorio", i)
		}
		if l.Quantity <= 0 {
			return nil, domain.Invalid("cantidad inválida para el producto %s: debe ser mayor que cero", id)
		}
		if l.UnitPrice.IsNegative() {
			return nil, domain.Invalid("precio inválido para el producto %s: no puede ser negativo", id)
		}
		if units > math.MaxInt64-l.Quantity {
			return nil, domain.Invalid("cantidad inválida para el producto %s: excede el máximo permitido", id)
		}
		units += l.Quantity
		if pos, ok := index[id]; ok {
			out[pos].Quantity += l.Quantity
			continue
		}
		l.ProductID = id
		index[id] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// Totals devuelve Σ precio×cantidad y Σ cantidad. Espera líneas ya pasadas por GroupLines.
func Totals(lines []Line) (decimal.Decimal, int64) {
	total := decimal.Zero
	var units int64
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)))
		units += l.Quantity
	}
	return total, units
}
