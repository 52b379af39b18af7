// openapi.go — отдача документа OpenAPI.
package handlers

import (
	"net/http"

	"github.com/bigkaa/postgram/internal/api/contract"
)

// GetOpenAPISpec — GET /openapi.yaml.
func (h *APIHandler) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(contract.RawSpec())
}
