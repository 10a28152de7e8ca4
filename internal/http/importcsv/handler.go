package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mvillard/immogest/internal/categorize"
	"github.com/mvillard/immogest/internal/importer"
	"github.com/mvillard/immogest/internal/ledger"
)

type Handler struct {
	importSvc *importer.Service
	ledgerSvc *ledger.Service
	catSvc    *categorize.Service
}

func NewHandler(importSvc *importer.Service, ledgerSvc *ledger.Service, catSvc *categorize.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		ledgerSvc: ledgerSvc,
		catSvc:    catSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importStatement)
	r.Post("/confirm", h.confirmImport)
}

type entryParamsDTO struct {
	Type            ledger.EntryType `json:"transaction_type"`
	Category        string           `json:"category"`
	Amount          decimal.Decimal  `json:"amount"`
	Currency        string           `json:"currency"`
	Date            string           `json:"transaction_date"`
	PaymentMethod   string           `json:"payment_method"`
	ReferenceNumber string           `json:"reference_number,omitempty"`
	Description     string           `json:"description"`
}

type importPreviewResponse struct {
	Parsed  int              `json:"parsed"`
	Entries []entryParamsDTO `json:"entries"`
}

type confirmRequest struct {
	Entries []entryParamsDTO `json:"entries"`
}

type entryResponse struct {
	ID              int64            `json:"id"`
	Type            ledger.EntryType `json:"transaction_type"`
	Category        string           `json:"category"`
	Amount          decimal.Decimal  `json:"amount"`
	Date            string           `json:"transaction_date"`
	ReferenceNumber string           `json:"reference_number"`
	Description     string           `json:"description"`
}

type importSuccessResponse struct {
	Imported int             `json:"imported"`
	Entries  []entryResponse `json:"entries"`
}

// importStatement parses an uploaded bank statement and returns the entries
// it would record, with categories suggested from past imports. Nothing is
// persisted until the batch is confirmed.
func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		http.Error(w, "format field is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	for i, p := range params {
		if p.Category != "" {
			continue
		}

		suggested, err := h.catSvc.Suggest(r.Context(), p.Description)
		if err != nil || suggested == "" {
			continue
		}

		params[i].Category = suggested
	}

	resp := importPreviewResponse{
		Parsed:  len(params),
		Entries: make([]entryParamsDTO, 0, len(params)),
	}

	for _, p := range params {
		resp.Entries = append(resp.Entries, toParamsDTO(p))
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]ledger.RecordParams, 0, len(req.Entries))

	for _, dto := range req.Entries {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			http.Error(w, "transaction_date must be formatted as YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		params = append(params, ledger.RecordParams{
			Type:            dto.Type,
			Category:        dto.Category,
			Amount:          dto.Amount,
			Currency:        dto.Currency,
			Date:            date,
			PaymentMethod:   dto.PaymentMethod,
			ReferenceNumber: dto.ReferenceNumber,
			Description:     dto.Description,
		})
	}

	entries, err := h.ledgerSvc.RecordBatch(r.Context(), params)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Reason, http.StatusBadRequest)
			return
		}

		slog.Error("import confirmation failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := importSuccessResponse{
		Imported: len(entries),
		Entries:  make([]entryResponse, 0, len(entries)),
	}

	for _, e := range entries {
		resp.Entries = append(resp.Entries, entryResponse{
			ID:              e.ID,
			Type:            e.Type,
			Category:        e.Category,
			Amount:          e.Amount,
			Date:            e.Date.Format(time.DateOnly),
			ReferenceNumber: e.ReferenceNumber,
			Description:     e.Description,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toParamsDTO(p ledger.RecordParams) entryParamsDTO {
	return entryParamsDTO{
		Type:            p.Type,
		Category:        p.Category,
		Amount:          p.Amount,
		Currency:        p.Currency,
		Date:            p.Date.Format(time.DateOnly),
		PaymentMethod:   p.PaymentMethod,
		ReferenceNumber: p.ReferenceNumber,
		Description:     p.Description,
	}
}
