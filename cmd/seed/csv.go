package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Ventas-api/internal/application/stock"
)

// Columnas reconocidas (encabezado, sin distinguir mayúsculas). imagenUrl y almacenNombre son opcionales.
var columnAliases = map[string]string{
	"id":            "id",
	"productoid":    "id",
	"nombre":        "nombre",
	"precio":        "precio",
	"imagenurl":     "imagenUrl",
	"almacenid":     "almacenId",
	"almacen":       "almacenId",
	"almacennombre": "almacenNombre",
	"cantidad":      "cantidad",
}

var requiredColumns = []string{"id", "nombre", "precio", "almacenId", "cantidad"}

// parseRows lee el CSV (separado por ';' o ',', con encabezado) y devuelve las filas de carga.
// Con latin1 el contenido se decodifica desde ISO-8859-1 (exportaciones de Excel en Windows).
func parseRows(r io.Reader, latin1 bool) ([]stock.LoadRow, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf")) // BOM

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if col, ok := columnAliases[key]; ok {
			index[col] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []stock.LoadRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if get(rec, "id") == "" && get(rec, "cantidad") == "" {
			continue
		}
		price, err := parsePrice(get(rec, "precio"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: precio: %w", line, err)
		}
		qty, err := strconv.ParseInt(get(rec, "cantidad"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("línea %d: cantidad: %w", line, err)
		}
		rows = append(rows, stock.LoadRow{
			ProductID:     get(rec, "id"),
			Name:          get(rec, "nombre"),
			Price:         price,
			ImageURL:      get(rec, "imagenUrl"),
			WarehouseID:   get(rec, "almacenId"),
			WarehouseName: get(rec, "almacenNombre"),
			Quantity:      qty,
		})
	}
	return rows, nil
}

func detectDelimiter(raw []byte) rune {
	first := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		first = raw[:i]
	}
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

// parsePrice acepta "1500", "1500.50" y la coma decimal "1500,50" de las hojas en español.
func parsePrice(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
