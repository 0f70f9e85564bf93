package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/movement-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/movement-ledger/src/internal/adapter/http/models"
	"github.com/api-sage/movement-ledger/src/internal/commons"
	"github.com/api-sage/movement-ledger/src/internal/domain"
	"github.com/api-sage/movement-ledger/src/internal/logger"
	"github.com/api-sage/movement-ledger/src/internal/usecase/service_interfaces"
	"github.com/go-chi/chi/v5"
)

type MovementController struct {
	service service_interfaces.MovementService
}

func NewMovementController(service service_interfaces.MovementService) *MovementController {
	return &MovementController{service: service}
}

func (c *MovementController) RegisterRoutes(r chi.Router) {
	r.Post("/direct-debits", c.createDirectDebit)
	r.Post("/payroll-deposits", c.createPayrollDeposit)
	r.Post("/card-payments", c.createCardPayment)
	r.Post("/transfers", c.createTransfer)
	r.Post("/transfers/{id}/revoke", c.revokeTransfer)
	r.Get("/movements", c.listMovements)
}

func (c *MovementController) createDirectDebit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateDirectDebitRequest
	if !decodeBody[domain.Movement](w, r, &req, start) {
		return
	}

	movement, err := c.service.CreateDirectDebit(r.Context(), middleware.CallerID(r.Context()), req.ToDomain())
	respond(w, r, http.StatusCreated, "direct debit created", movement, err, start)
}

func (c *MovementController) createPayrollDeposit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreatePayrollDepositRequest
	if !decodeBody[domain.Movement](w, r, &req, start) {
		return
	}

	movement, err := c.service.CreatePayrollDeposit(r.Context(), middleware.CallerID(r.Context()), req.ToDomain())
	respond(w, r, http.StatusCreated, "payroll deposit created", movement, err, start)
}

func (c *MovementController) createCardPayment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateCardPaymentRequest
	if !decodeBody[domain.Movement](w, r, &req, start) {
		return
	}

	movement, err := c.service.CreateCardPayment(r.Context(), middleware.CallerID(r.Context()), req.ToDomain())
	respond(w, r, http.StatusCreated, "card payment created", movement, err, start)
}

func (c *MovementController) createTransfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.CreateTransferRequest
	if !decodeBody[domain.TransferResult](w, r, &req, start) {
		return
	}

	result, err := c.service.CreateTransfer(r.Context(), middleware.CallerID(r.Context()), req.ToDomain())
	respond(w, r, http.StatusCreated, "transfer created", result, err, start)
}

func (c *MovementController) revokeTransfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	id := chi.URLParam(r, "id")
	result, err := c.service.RevokeTransfer(r.Context(), middleware.CallerID(r.Context()), id)
	respond(w, r, http.StatusOK, "transfer revoked", result, err, start)
}

func (c *MovementController) listMovements(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	movements, err := c.service.ListMovements(r.Context(), middleware.CallerID(r.Context()))
	respond(w, r, http.StatusOK, "movements retrieved", movements, err, start)
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request, dst any, start time.Time) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[T]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return false
	}
	logRequest(r, dst)
	return true
}

func respond[T any](w http.ResponseWriter, r *http.Request, status int, message string, data T, err error, start time.Time) {
	if err != nil {
		status = statusFor(err)
		logError(r, err, logger.Fields{"status": status})
		response := errorResponse[T](err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	response := commons.SuccessResponse(message, data)
	writeJSON(w, status, response)
	logResponse(r, status, response, start)
}
