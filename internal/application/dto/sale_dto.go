package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

// FlexString acepta un string o un número JSON y lo guarda como texto sin espacios.
// Las versiones viejas de la app envían los IDs numéricos.
type FlexString string

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("se esperaba texto o número: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// String devuelve el valor como string.
func (f FlexString) String() string { return string(f) }

// FlexInt acepta un entero JSON o un string con un entero.
type FlexInt int64

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("cantidad debe ser un entero: %w", err)
	}
	*f = FlexInt(n)
	return nil
}

// RegisterSaleRequest body para POST /api/ventas.
type RegisterSaleRequest struct {
	LocalSaleID       FlexString        `json:"localSaleId" validate:"required"`
	ClienteID         FlexString        `json:"clienteId" validate:"required"`
	ClienteNombre     FlexString        `json:"clienteNombre" validate:"required"`
	Productos         []SaleItemRequest `json:"productos" validate:"required,min=1,dive"`
	MetodoPago        FlexString        `json:"metodoPago" validate:"required"`
	VendedorID        FlexString        `json:"vendedorId" validate:"required"`
	AlmacenVendedorID FlexString        `json:"almacenVendedorId" validate:"required"`
	Comentarios       string            `json:"comentarios,omitempty"`
}

// SaleItemRequest línea de producto tal como la envía la app.
// Precio es puntero para distinguir un precio omitido de un precio 0.
type SaleItemRequest struct {
	ID        FlexString       `json:"id"`
	Nombre    string           `json:"nombre"`
	Precio    *decimal.Decimal `json:"precio" validate:"required"`
	Cantidad  FlexInt          `json:"cantidad"`
	ImagenURL string           `json:"imagenUrl,omitempty"`
}

// ErrProductosNotList se devuelve cuando "productos" no es un arreglo JSON.
var ErrProductosNotList = errors.New("productos debe ser una lista")

// ErrInvalidJSON se devuelve cuando el cuerpo no es JSON válido.
var ErrInvalidJSON = errors.New("cuerpo JSON inválido")

// ParseRegisterSaleRequest decodifica el cuerpo distinguiendo "productos" mal tipado del resto de errores.
func ParseRegisterSaleRequest(body []byte) (RegisterSaleRequest, error) {
	var in RegisterSaleRequest
	if err := json.Unmarshal(body, &in); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "productos" {
			return in, ErrProductosNotList
		}
		return in, ErrInvalidJSON
	}
	return in, nil
}

// Lines convierte los productos del request en líneas de venta (sin agrupar).
func (r RegisterSaleRequest) Lines() []sale.Line {
	lines := make([]sale.Line, 0, len(r.Productos))
	for _, p := range r.Productos {
		price := decimal.Zero
		if p.Precio != nil {
			price = *p.Precio
		}
		lines = append(lines, sale.Line{
			ProductID: p.ID.String(),
			Name:      strings.TrimSpace(p.Nombre),
			UnitPrice: price,
			Quantity:  int64(p.Cantidad),
			ImageURL:  strings.TrimSpace(p.ImagenURL),
		})
	}
	return lines
}

// SaleResponse respuesta de POST /api/ventas (éxito o error).
type SaleResponse struct {
	Success bool   `json:"success"`
	VentaID string `json:"ventaId,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SaleItemResponse línea de una venta consultada.
type SaleItemResponse struct {
	ID        string          `json:"id"`
	Nombre    string          `json:"nombre"`
	Precio    decimal.Decimal `json:"precio"`
	Cantidad  int64           `json:"cantidad"`
	ImagenURL string          `json:"imagenUrl,omitempty"`
}

// SaleDetailResponse respuesta de GET /api/ventas/:id.
type SaleDetailResponse struct {
	ID            string             `json:"id"`
	LocalID       string             `json:"localId"`
	ClienteID     string             `json:"clienteId"`
	ClienteNombre string             `json:"clienteNombre"`
	VendedorID    string             `json:"vendedorId"`
	AlmacenID     string             `json:"almacenId"`
	MetodoPago    string             `json:"metodoPago"`
	Comentarios   string             `json:"comentarios,omitempty"`
	Total         decimal.Decimal    `json:"total"`
	TotalUnidades int64              `json:"totalUnidades"`
	Estado        string             `json:"estado"`
	Sincronizado  bool               `json:"sincronizado"`
	FechaCreacion time.Time          `json:"fechaCreacion"`
	Productos     []SaleItemResponse `json:"productos"`
}

// SaleToResponse mapea la entidad a la respuesta HTTP.
func SaleToResponse(s *entity.Sale) SaleDetailResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ID:        it.ProductID,
			Nombre:    it.Name,
			Precio:    it.UnitPrice,
			Cantidad:  it.Quantity,
			ImagenURL: it.ImageURL,
		})
	}
	return SaleDetailResponse{
		ID:            s.ID,
		LocalID:       s.LocalID,
		ClienteID:     s.ClientID,
		ClienteNombre: s.ClientName,
		VendedorID:    s.SellerID,
		AlmacenID:     s.WarehouseID,
		MetodoPago:    s.PaymentMethod,
		Comentarios:   s.Comments,
		Total:         s.Total,
		TotalUnidades: s.TotalUnits,
		Estado:        s.Status,
		Sincronizado:  s.Synchronized,
		FechaCreacion: s.CreatedAt,
		Productos:     items,
	}
}

// SaleRegisteredEvent se publica en Kafka después de confirmar una venta nueva.
type SaleRegisteredEvent struct {
	VentaID       string             `json:"ventaId"`
	LocalSaleID   string             `json:"localSaleId"`
	VendedorID    string             `json:"vendedorId"`
	AlmacenID     string             `json:"almacenId"`
	ClienteID     string             `json:"clienteId"`
	MetodoPago    string             `json:"metodoPago"`
	Total         decimal.Decimal    `json:"total"`
	TotalUnidades int64              `json:"totalUnidades"`
	Productos     []SaleItemResponse `json:"productos"`
	Fecha         time.Time          `json:"fecha"`
}

// NewSaleRegisteredEvent construye el evento a partir de la venta confirmada.
func NewSaleRegisteredEvent(s *entity.Sale) SaleRegisteredEvent {
	detail := SaleToResponse(s)
	return SaleRegisteredEvent{
		VentaID:       s.ID,
		LocalSaleID:   s.LocalID,
		VendedorID:    s.SellerID,
		AlmacenID:     s.WarehouseID,
		ClienteID:     s.ClientID,
		MetodoPago:    s.PaymentMethod,
		Total:         s.Total,
		TotalUnidades: s.TotalUnits,
		Productos:     detail.Productos,
		Fecha:         s.CreatedAt,
	}
}
