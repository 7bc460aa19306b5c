package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

var csvColumns = []string{"nombre", "marca", "tipo", "descripcion", "precio", "precioAnterior", "stock", "imagenUrl"}

type csvRow struct {
	Line int
	Form productForm
}

// parseCSV reads product rows by header name, so column order is free and unknown
// columns are ignored. nombre, precio and stock are required headers.
func parseCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"nombre", "precio", "stock"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []csvRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		rows = append(rows, csvRow{Line: line, Form: productForm{
			Name:          field(record, "nombre"),
			Brand:         field(record, "marca"),
			Category:      field(record, "tipo"),
			Description:   field(record, "descripcion"),
			Price:         field(record, "precio"),
			PreviousPrice: field(record, "precioAnterior"),
			Stock:         field(record, "stock"),
			ImageURL:      field(record, "imagenUrl"),
		}})
	}
	return rows, nil
}

type ImportProductsResult struct {
	Mode    string            `json:"mode"`
	Created int               `json:"created"`
	Updated int               `json:"updated"`
	Errors  []ValidationError `json:"errors"`
}

type importPage struct {
	viewBase
	Result *ImportProductsResult
}

func (s *Server) AdminImportForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "admin_import.html", importPage{viewBase: s.base(r, "Importar productos")})
}

// AdminImportProducts creates one product per CSV row. Rows naming an existing product
// are skipped, or update it when mode=update.
func (s *Server) AdminImportProducts(w http.ResponseWriter, r *http.Request) {
	data := importPage{viewBase: s.base(r, "Importar productos")}

	mode := strings.ToLower(r.FormValue("mode"))
	if mode != "update" {
		mode = "skip"
	}

	file, _, err := r.FormFile("archivo")
	if err != nil {
		data.Error = "Selecciona un archivo CSV"
		s.render(w, http.StatusBadRequest, "admin_import.html", data)
		return
	}
	defer file.Close()

	rows, err := parseCSV(file)
	if err != nil {
		data.Error = err.Error()
		s.render(w, http.StatusBadRequest, "admin_import.html", data)
		return
	}

	existing, err := s.loader.Load(r.Context())
	if err != nil {
		data.Error = gateway.UserMessage(err)
		s.render(w, http.StatusBadGateway, "admin_import.html", data)
		return
	}
	byName := make(map[string]models.Product, len(existing))
	for _, p := range existing {
		byName[strings.ToLower(p.Name)] = p
	}

	res := &ImportProductsResult{Mode: mode, Errors: []ValidationError{}}
	rowError := func(line int, msg string) {
		res.Errors = append(res.Errors, ValidationError{Field: "fila " + strconv.Itoa(line), Description: msg})
	}

	for _, row := range rows {
		p, errs := row.Form.product()
		if len(errs) > 0 {
			rowError(row.Line, joinErrors(errs))
			continue
		}

		if current, ok := byName[strings.ToLower(p.Name)]; ok {
			if mode == "skip" {
				rowError(row.Line, fmt.Sprintf("el producto '%s' ya existe", p.Name))
				continue
			}
			p.ID = current.ID
			if _, err := s.products.Update(r.Context(), p); err != nil {
				rowError(row.Line, gateway.UserMessage(err))
				continue
			}
			res.Updated++
			continue
		}

		created, err := s.products.Create(r.Context(), p)
		if err != nil {
			rowError(row.Line, gateway.UserMessage(err))
			continue
		}
		byName[strings.ToLower(p.Name)] = created
		res.Created++
	}

	s.log.Infof("product import: %d created, %d updated, %d rejected", res.Created, res.Updated, len(res.Errors))
	data.Result = res
	s.render(w, http.StatusOK, "admin_import.html", data)
}

// AdminExportProducts downloads the full catalog as CSV (default) or JSON (?format=json).
// The CSV uses the same columns the importer reads.
func (s *Server) AdminExportProducts(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" {
		http.Error(w, "format must be 'csv' or 'json'", http.StatusBadRequest)
		return
	}

	products, err := s.loader.Load(r.Context())
	if err != nil {
		http.Error(w, gateway.UserMessage(err), apiStatus(err))
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="productos.json"`)
		if err := json.NewEncoder(w).Encode(products); err != nil {
			s.log.WithError(err).Warn("failed to write export")
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="productos.csv"`)

		csvWriter := csv.NewWriter(w)
		_ = csvWriter.Write(csvColumns)
		for _, p := range products {
			prev := ""
			if p.PreviousPrice != nil {
				prev = p.PreviousPrice.String()
			}
			_ = csvWriter.Write([]string{
				p.Name,
				p.Brand,
				p.Category,
				p.Description,
				p.Price.String(),
				prev,
				strconv.Itoa(p.Stock),
				p.ImageURL,
			})
		}
		csvWriter.Flush()
		if err := csvWriter.Error(); err != nil {
			s.log.WithError(err).Warn("failed to write export")
		}
	}
}
