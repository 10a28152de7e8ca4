package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/http/auth"
	"github.com/mvillard/immogest/internal/transaction"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Handler struct {
	svc *transaction.Service
	dir transaction.Directory
}

func NewHandler(svc *transaction.Service, dir transaction.Directory) *Handler {
	return &Handler{svc: svc, dir: dir}
}

// Routes mounts the transaction endpoints. Reads are open, writes go through
// the authed middleware.
func (h *Handler) Routes(r chi.Router, authed func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Get("/{id}/rental-agreement", h.getAgreement)
	r.Get("/property/{propertyID}", h.listByProperty)
	r.Get("/client/{clientID}", h.listByClient)

	r.Group(func(r chi.Router) {
		r.Use(authed)

		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
		r.Put("/{id}/status", h.updateStatus)
		r.Post("/{id}/rental-agreement", h.createAgreement)
		r.Put("/{id}/rental-agreement", h.updateAgreement)
	})
}

type agreementRequest struct {
	StartDate         string          `json:"start_date" validate:"required"`
	EndDate           string          `json:"end_date" validate:"required"`
	IsRenewable       *bool           `json:"is_renewable,omitempty"`
	RentAmount        decimal.Decimal `json:"rent_amount"`
	RentFrequency     string          `json:"rent_frequency" validate:"required"`
	DepositAmount     decimal.Decimal `json:"deposit_amount"`
	PaymentDay        int             `json:"payment_day" validate:"required"`
	SpecialConditions string          `json:"special_conditions,omitempty"`
}

func (req agreementRequest) params() (transaction.AgreementParams, error) {
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		return transaction.AgreementParams{}, errors.New("start_date must be formatted as YYYY-MM-DD")
	}

	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		return transaction.AgreementParams{}, errors.New("end_date must be formatted as YYYY-MM-DD")
	}

	return transaction.AgreementParams{
		StartDate:         start,
		EndDate:           end,
		IsRenewable:       req.IsRenewable,
		RentAmount:        req.RentAmount,
		RentFrequency:     transaction.RentFrequency(req.RentFrequency),
		DepositAmount:     req.DepositAmount,
		PaymentDay:        req.PaymentDay,
		SpecialConditions: req.SpecialConditions,
	}, nil
}

type createTransactionRequest struct {
	Type                 transaction.Type   `json:"transaction_type" validate:"required"`
	PropertyID           int64              `json:"property_id" validate:"required"`
	ClientID             int64              `json:"client_id" validate:"required"`
	Date                 string             `json:"transaction_date" validate:"required"`
	Amount               decimal.Decimal    `json:"amount"`
	CommissionAmount     *decimal.Decimal   `json:"commission_amount,omitempty"`
	CommissionPercentage *decimal.Decimal   `json:"commission_percentage,omitempty"`
	Status               transaction.Status `json:"status" validate:"required"`
	PaymentMethod        string             `json:"payment_method,omitempty"`
	Notes                string             `json:"notes,omitempty"`
	RentalAgreement      *agreementRequest  `json:"rental_agreement,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "transaction_date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing authenticated user", http.StatusUnauthorized)
		return
	}

	params := transaction.CreateParams{
		Type:                 req.Type,
		PropertyID:           req.PropertyID,
		ClientID:             req.ClientID,
		Date:                 date,
		Amount:               req.Amount,
		CommissionAmount:     req.CommissionAmount,
		CommissionPercentage: req.CommissionPercentage,
		Status:               req.Status,
		PaymentMethod:        req.PaymentMethod,
		Notes:                req.Notes,
		HandledBy:            userID,
	}

	if req.RentalAgreement != nil {
		agreement, err := req.RentalAgreement.params()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params.Agreement = &agreement
	}

	tx, err := h.svc.Create(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	h.listFiltered(w, r, listFilterFromQuery(r))
}

func (h *Handler) listByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid property id", http.StatusBadRequest)
		return
	}

	filter := listFilterFromQuery(r)
	filter.PropertyID = &propertyID

	h.listFiltered(w, r, filter)
}

func (h *Handler) listByClient(w http.ResponseWriter, r *http.Request) {
	clientID, err := strconv.ParseInt(chi.URLParam(r, "clientID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid client id", http.StatusBadRequest)
		return
	}

	filter := listFilterFromQuery(r)
	filter.ClientID = &clientID

	h.listFiltered(w, r, filter)
}

func (h *Handler) listFiltered(w http.ResponseWriter, r *http.Request, filter transaction.ListFilter) {
	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toPageResponse(page)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// listFilterFromQuery builds the filter from query parameters. Unparsable
// values are skipped rather than rejected.
func listFilterFromQuery(r *http.Request) transaction.ListFilter {
	q := r.URL.Query()
	filter := transaction.ListFilter{}

	if s := q.Get("transaction_type"); s != "" {
		filter.Type = new(transaction.Type(s))
	}

	if s := q.Get("status"); s != "" {
		filter.Status = new(transaction.Status(s))
	}

	if s := q.Get("property_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.PropertyID = new(id)
		}
	}

	if s := q.Get("client_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.ClientID = new(id)
		}
	}

	if s := q.Get("handled_by"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.HandledBy = new(id)
		}
	}

	if s := q.Get("min_amount"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			filter.MinAmount = new(d)
		}
	}

	if s := q.Get("max_amount"); s != "" {
		if d, err := decimal.NewFromString(s); err == nil {
			filter.MaxAmount = new(d)
		}
	}

	if s := q.Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := q.Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := q.Get("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.Page = n
		}
	}

	if s := q.Get("per_page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			filter.PerPage = n
		}
	}

	return filter
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toResponse(tx)

	// Display names are best effort; a missing directory row never
	// blocks the detail response.
	if p, err := h.dir.GetProperty(r.Context(), tx.PropertyID); err == nil {
		resp.PropertyTitle = p.Title
	}
	if c, err := h.dir.GetClient(r.Context(), tx.ClientID); err == nil {
		resp.ClientName = c.FullName()
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type agreementUpdateRequest struct {
	StartDate         *string          `json:"start_date,omitempty"`
	EndDate           *string          `json:"end_date,omitempty"`
	IsRenewable       *bool            `json:"is_renewable,omitempty"`
	RentAmount        *decimal.Decimal `json:"rent_amount,omitempty"`
	RentFrequency     *string          `json:"rent_frequency,omitempty"`
	DepositAmount     *decimal.Decimal `json:"deposit_amount,omitempty"`
	PaymentDay        *int             `json:"payment_day,omitempty"`
	SpecialConditions *string          `json:"special_conditions,omitempty"`
}

func (req agreementUpdateRequest) params() (transaction.AgreementUpdateParams, error) {
	params := transaction.AgreementUpdateParams{
		IsRenewable:       req.IsRenewable,
		RentAmount:        req.RentAmount,
		DepositAmount:     req.DepositAmount,
		PaymentDay:        req.PaymentDay,
		SpecialConditions: req.SpecialConditions,
	}

	if req.StartDate != nil {
		start, err := time.Parse(time.DateOnly, *req.StartDate)
		if err != nil {
			return params, errors.New("start_date must be formatted as YYYY-MM-DD")
		}

		params.StartDate = new(start)
	}

	if req.EndDate != nil {
		end, err := time.Parse(time.DateOnly, *req.EndDate)
		if err != nil {
			return params, errors.New("end_date must be formatted as YYYY-MM-DD")
		}

		params.EndDate = new(end)
	}

	if req.RentFrequency != nil {
		params.RentFrequency = new(transaction.RentFrequency(*req.RentFrequency))
	}

	return params, nil
}

type updateTransactionRequest struct {
	Type                 *transaction.Type       `json:"transaction_type,omitempty"`
	PropertyID           *int64                  `json:"property_id,omitempty"`
	ClientID             *int64                  `json:"client_id,omitempty"`
	Date                 *string                 `json:"transaction_date,omitempty"`
	Amount               *decimal.Decimal        `json:"amount,omitempty"`
	CommissionAmount     *decimal.Decimal        `json:"commission_amount,omitempty"`
	CommissionPercentage *decimal.Decimal        `json:"commission_percentage,omitempty"`
	Status               *transaction.Status     `json:"status,omitempty"`
	PaymentMethod        *string                 `json:"payment_method,omitempty"`
	Notes                *string                 `json:"notes,omitempty"`
	RentalAgreement      *agreementUpdateRequest `json:"rental_agreement,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateTransactionRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := transaction.UpdateParams{
		Type:                 req.Type,
		PropertyID:           req.PropertyID,
		ClientID:             req.ClientID,
		Amount:               req.Amount,
		CommissionAmount:     req.CommissionAmount,
		CommissionPercentage: req.CommissionPercentage,
		Status:               req.Status,
		PaymentMethod:        req.PaymentMethod,
		Notes:                req.Notes,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "transaction_date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params.Date = new(date)
	}

	if req.RentalAgreement != nil {
		agreement, err := req.RentalAgreement.params()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params.Agreement = &agreement
	}

	tx, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	Status transaction.Status `json:"status" validate:"required"`
	Notes  string             `json:"notes,omitempty"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateStatusRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx, err := h.svc.ChangeStatus(r.Context(), id, req.Status, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) getAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	ra, err := h.svc.GetAgreement(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if ra == nil {
		http.Error(w, "rental agreement not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toAgreementResponse(ra)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) createAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req agreementRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ra, err := h.svc.CreateAgreement(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toAgreementResponse(ra)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) updateAgreement(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req agreementUpdateRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ra, err := h.svc.UpdateAgreement(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toAgreementResponse(ra)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and hidden behind a 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *transaction.ValidationError

	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Reason, http.StatusBadRequest)
	case errors.Is(err, transaction.ErrNotFound),
		errors.Is(err, transaction.ErrAgreementNotFound),
		errors.Is(err, transaction.ErrPropertyNotFound),
		errors.Is(err, transaction.ErrClientNotFound),
		errors.Is(err, transaction.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, transaction.ErrTransactionCompleted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("transaction request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
