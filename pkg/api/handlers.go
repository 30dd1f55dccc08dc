package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ssargent/pstruct/pkg/query"
)

// writeJSON encodes v as the JSON response body with status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// parseFieldQuery builds a query.FieldQuery from the ?field=&op=&value=
// query-string parameters GET /journal accepts. value is parsed as a
// float64 when possible (covering "counter"/"slot" comparisons), a bool
// when it's exactly "true"/"false" (covering "success"), and left as a
// string otherwise.
func parseFieldQuery(r *http.Request) (query.FieldQuery, error) {
	field := r.URL.Query().Get("field")
	op := r.URL.Query().Get("op")
	if op == "" {
		op = "="
	}
	raw := r.URL.Query().Get("value")

	fq := query.FieldQuery{Field: field, Operator: op, Value: parseQueryValue(raw)}
	if err := fq.Validate(); err != nil {
		return query.FieldQuery{}, fmt.Errorf("pstruct: invalid /journal query: %w", err)
	}
	return fq, nil
}

func parseQueryValue(raw string) interface{} {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
