package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/db"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/http/middleware"
	"github.com/muhammadzayanali/solar-system-information-booklet-web-app/internal/models"
)

// EntitySchema describes one catalog table. Identifiers are compiled-in
// constants; request values only ever travel as bound parameters.
type EntitySchema struct {
	Table   string
	Columns []string
}

var (
	Planets = EntitySchema{
		Table:   "planets",
		Columns: []string{"name", "distance_from_sun", "diameter", "orbital_period", "details"},
	}
	Asteroids = EntitySchema{
		Table:   "asteroids",
		Columns: []string{"name", "discovery_year", "diameter", "distance_from_sun", "details"},
	}
	Comets = EntitySchema{
		Table:   "comets",
		Columns: []string{"name", "distance_from_sun", "orbital_period", "last_observed", "details"},
	}
)

// CatalogHandler implements list/create/update/delete for one catalog
// table. The three solar-system entities share this handler, instantiated
// with their column sets.
type CatalogHandler struct {
	db     *db.DB
	schema EntitySchema
}

func NewCatalogHandler(database *db.DB, schema EntitySchema) *CatalogHandler {
	return &CatalogHandler{db: database, schema: schema}
}

// List handles GET /{table}. Public; returns every row as a flat field map.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	query := "SELECT id, " + strings.Join(h.schema.Columns, ", ") + " FROM " + h.schema.Table

	rows, err := h.db.Query(query)
	if err != nil {
		middleware.StorageError(w, "failed to list "+h.schema.Table, err)
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var id int
		values := make([]string, len(h.schema.Columns))
		dest := make([]any, 0, len(values)+1)
		dest = append(dest, &id)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			middleware.StorageError(w, "failed to scan "+h.schema.Table, err)
			return
		}

		item := map[string]any{"id": id}
		for i, col := range h.schema.Columns {
			item[col] = values[i]
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		middleware.StorageError(w, "failed to list "+h.schema.Table, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, items)
}

// Create handles POST /{table}. Admin only; every column is required.
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	values, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	query := "INSERT INTO " + h.schema.Table +
		" (" + strings.Join(h.schema.Columns, ", ") + ") VALUES (" + placeholders(len(values)) + ")"

	id, err := h.db.InsertID(query, values...)
	if err != nil {
		middleware.StorageError(w, "failed to insert into "+h.schema.Table, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CreatedResponse{Success: true, ID: id})
}

// Update handles PUT /{table}/{id}: a full-row replace. Updating an absent
// id succeeds without touching any row.
func (h *CatalogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	values, ok := h.parseFields(w, r)
	if !ok {
		return
	}

	assignments := make([]string, len(h.schema.Columns))
	for i, col := range h.schema.Columns {
		assignments[i] = col + " = ?"
	}
	query := "UPDATE " + h.schema.Table + " SET " + strings.Join(assignments, ", ") + " WHERE id = ?"

	if _, err := h.db.Exec(query, append(values, id)...); err != nil {
		middleware.StorageError(w, "failed to update "+h.schema.Table, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Delete handles DELETE /{table}/{id}. Deleting an absent id succeeds.
func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := h.db.Exec("DELETE FROM "+h.schema.Table+" WHERE id = ?", id); err != nil {
		middleware.StorageError(w, "failed to delete from "+h.schema.Table, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// parseFields decodes the body and pulls out every schema column in
// declaration order. Scalars are stored as their literal text, so numeric
// payloads round-trip unchanged across drivers.
func (h *CatalogHandler) parseFields(w http.ResponseWriter, r *http.Request) ([]any, bool) {
	var body map[string]any
	if err := middleware.ParseJSONBody(r, &body); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}

	values := make([]any, 0, len(h.schema.Columns))
	for _, col := range h.schema.Columns {
		raw, present := body[col]
		if !present {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
			return nil, false
		}
		text, ok := fieldText(raw)
		if !ok {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Missing required fields")
			return nil, false
		}
		values = append(values, text)
	}

	return values, true
}

func fieldText(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	default:
		return "", false
	}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
