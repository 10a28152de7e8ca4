package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/directory"
	"github.com/mvillard/immogest/internal/ledger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Directory resolves the entities a journal entry may reference.
type Directory interface {
	GetProperty(ctx context.Context, id int64) (*directory.Property, error)
	GetOwner(ctx context.Context, id int64) (*directory.Owner, error)
	GetClient(ctx context.Context, id int64) (*directory.Client, error)
}

type Handler struct {
	svc *ledger.Service
	dir Directory
}

func NewHandler(svc *ledger.Service, dir Directory) *Handler {
	return &Handler{svc: svc, dir: dir}
}

// Routes mounts the financial journal endpoints. Reads are open, writes go
// through the authed middleware.
func (h *Handler) Routes(r chi.Router, authed func(http.Handler) http.Handler) {
	r.Get("/", h.list)
	r.Get("/{id}", h.get)

	r.Group(func(r chi.Router) {
		r.Use(authed)

		r.Post("/", h.record)
		r.Put("/{id}", h.update)
		r.Delete("/{id}", h.delete)
	})
}

type recordEntryRequest struct {
	PropertyID         *int64                    `json:"property_id,omitempty"`
	TransactionID      *int64                    `json:"transaction_id,omitempty"`
	OwnerID            *int64                    `json:"owner_id,omitempty"`
	ClientID           *int64                    `json:"client_id,omitempty"`
	Type               ledger.EntryType          `json:"transaction_type" validate:"required"`
	Category           string                    `json:"category" validate:"required"`
	Amount             decimal.Decimal           `json:"amount"`
	Currency           string                    `json:"currency,omitempty"`
	Date               string                    `json:"transaction_date" validate:"required"`
	PaymentMethod      string                    `json:"payment_method,omitempty"`
	ReferenceNumber    string                    `json:"reference_number,omitempty"`
	Description        string                    `json:"description,omitempty"`
	IsRecurring        bool                      `json:"is_recurring,omitempty"`
	RecurringFrequency ledger.RecurringFrequency `json:"recurring_frequency,omitempty"`
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req recordEntryRequest

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

	entry, err := h.svc.Record(r.Context(), ledger.RecordParams{
		PropertyID:         req.PropertyID,
		TransactionID:      req.TransactionID,
		OwnerID:            req.OwnerID,
		ClientID:           req.ClientID,
		Type:               req.Type,
		Category:           req.Category,
		Amount:             req.Amount,
		Currency:           req.Currency,
		Date:               date,
		PaymentMethod:      req.PaymentMethod,
		ReferenceNumber:    req.ReferenceNumber,
		Description:        req.Description,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.List(r.Context(), listFilterFromQuery(r))
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
func listFilterFromQuery(r *http.Request) ledger.ListFilter {
	q := r.URL.Query()
	filter := ledger.ListFilter{}

	if s := q.Get("property_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.PropertyID = new(id)
		}
	}

	if s := q.Get("transaction_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.TransactionID = new(id)
		}
	}

	if s := q.Get("owner_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.OwnerID = new(id)
		}
	}

	if s := q.Get("client_id"); s != "" {
		if id, err := strconv.ParseInt(s, 10, 64); err == nil {
			filter.ClientID = new(id)
		}
	}

	if s := q.Get("transaction_type"); s != "" {
		filter.Type = new(ledger.EntryType(s))
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(s)
	}

	if s := q.Get("direction"); s != "" {
		filter.Direction = new(ledger.Direction(s))
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

	entry, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := toResponse(entry)

	// Display names are best effort; a missing directory row never
	// blocks the detail response.
	if entry.PropertyID != nil {
		if p, err := h.dir.GetProperty(r.Context(), *entry.PropertyID); err == nil {
			resp.PropertyTitle = p.Title
		}
	}
	if entry.OwnerID != nil {
		if o, err := h.dir.GetOwner(r.Context(), *entry.OwnerID); err == nil {
			resp.OwnerName = o.FullName()
		}
	}
	if entry.ClientID != nil {
		if c, err := h.dir.GetClient(r.Context(), *entry.ClientID); err == nil {
			resp.ClientName = c.FullName()
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type updateEntryRequest struct {
	Type               *ledger.EntryType          `json:"transaction_type,omitempty"`
	Category           *string                    `json:"category,omitempty"`
	Amount             *decimal.Decimal           `json:"amount,omitempty"`
	Currency           *string                    `json:"currency,omitempty"`
	Date               *string                    `json:"transaction_date,omitempty"`
	PaymentMethod      *string                    `json:"payment_method,omitempty"`
	ReferenceNumber    *string                    `json:"reference_number,omitempty"`
	Description        *string                    `json:"description,omitempty"`
	IsRecurring        *bool                      `json:"is_recurring,omitempty"`
	RecurringFrequency *ledger.RecurringFrequency `json:"recurring_frequency,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateEntryRequest

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := ledger.UpdateParams{
		Type:               req.Type,
		Category:           req.Category,
		Amount:             req.Amount,
		Currency:           req.Currency,
		PaymentMethod:      req.PaymentMethod,
		ReferenceNumber:    req.ReferenceNumber,
		Description:        req.Description,
		IsRecurring:        req.IsRecurring,
		RecurringFrequency: req.RecurringFrequency,
	}

	if req.Date != nil {
		date, err := time.Parse(time.DateOnly, *req.Date)
		if err != nil {
			http.Error(w, "transaction_date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params.Date = new(date)
	}

	entry, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(entry)); err != nil {
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

// writeError maps domain errors to HTTP statuses. Unknown errors are logged
// and hidden behind a 500.
func writeError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError

	switch {
	case errors.As(err, &verr):
		http.Error(w, verr.Reason, http.StatusBadRequest)
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Error("ledger request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
