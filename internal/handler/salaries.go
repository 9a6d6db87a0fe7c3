package handler

import (
	"net/http"

	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

type SalaryHandler struct {
	salaries *service.SalaryService
}

func NewSalaryHandler(salaries *service.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaries: salaries}
}

// ListSalaries returns the settled calculations for a YYYY-MM period.
func (h *SalaryHandler) ListSalaries(w http.ResponseWriter, r *http.Request) {
	calcs, err := h.salaries.ListForPeriod(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"salaries": calcs,
		"count":    len(calcs),
	})
}
