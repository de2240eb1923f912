package api

import "net/http"

// GetEmployers returns the employer directory.
func (h *Handler) GetEmployers(w http.ResponseWriter, r *http.Request) {
	companies := h.dir.Companies()
	JSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}
