package handler

import (
	"net/http"

	"github.com/lookman/lending-engine/internal/service"
	"github.com/lookman/lending-engine/pkg/response"
)

// AutomationHandler exposes the maintenance jobs that normally run on the
// scheduler, so an admin can trigger them on demand.
type AutomationHandler struct {
	status *service.StatusService
	salary *service.SalaryService
}

func NewAutomationHandler(status *service.StatusService, salary *service.SalaryService) *AutomationHandler {
	return &AutomationHandler{status: status, salary: salary}
}

func (h *AutomationHandler) TriggerOverdueCheck(w http.ResponseWriter, r *http.Request) {
	marked, err := h.status.Sweep(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message":      "Overdue check completed",
		"loans_marked": marked,
	})
}

// TriggerSalaryCalculation settles officer salaries for the period in the
// query string, defaulting to the previous month.
func (h *AutomationHandler) TriggerSalaryCalculation(w http.ResponseWriter, r *http.Request) {
	var settled int
	var err error

	if period := r.URL.Query().Get("period"); period != "" {
		settled, err = h.salary.SettlePeriod(r.Context(), period)
	} else {
		settled, err = h.salary.SettlePreviousMonth(r.Context())
	}
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"message":          "Salary calculation completed",
		"officers_settled": settled,
	})
}
