package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/payroll-engine-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-engine-go/internal/pkg/validator"
)

type PayrollHandler interface {
	GeneratePayroll(w http.ResponseWriter, r *http.Request)
	GetPayrollRecord(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	report, err := h.payrollService.GeneratePayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := payroll.NewGeneratePayrollResponse(report)
	message := fmt.Sprintf("Payroll generated for %d employee(s) for %02d/%d", result.Count, result.Month, result.Year)
	if len(result.Failures) > 0 {
		message = fmt.Sprintf("%s, %d failed", message, len(result.Failures))
		response.SuccessWithFailures(w, message, result.Results, result.Failures)
		return
	}

	response.SuccessWithMessage(w, message, result.Results)
}

func (h *payrollHandlerImpl) GetPayrollRecord(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var errs validator.ValidationErrors
	month, verr := validator.ParseInt("month", query.Get("month"))
	if verr != nil {
		errs = append(errs, *verr)
	}
	year, verr := validator.ParseInt("year", query.Get("year"))
	if verr != nil {
		errs = append(errs, *verr)
	}
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	record, err := h.payrollService.GetPayrollRecord(r.Context(), payroll.GetPayrollRecordRequest{
		EmployeeID: query.Get("employee_id"),
		Month:      month,
		Year:       year,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, payroll.NewPayrollRecordResponse(record))
}
