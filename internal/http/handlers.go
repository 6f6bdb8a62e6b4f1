package http

import (
	"errors"
	"net/http"

	"roundup/internal/core"
	applog "roundup/internal/log"
	"roundup/internal/metrics"
	"roundup/internal/perf"
)

// handlePerformance reports process introspection data.
func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, perf.Snapshot())
}

// handleParse enriches raw transactions with their remanent and ceiling.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var inputs []parseInput
	if err := decodeJSON(r, &inputs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := make([]core.Transaction, 0, len(inputs))
	for _, in := range inputs {
		if in.Amount.IsNegative() {
			writeError(w, http.StatusUnprocessableEntity, "amount must be non-negative: "+in.Amount.String())
			return
		}
		result = append(result, core.Enrich(in.Date, in.Amount))
	}

	metrics.TransactionsProcessed.WithLabelValues(applog.OpParse, "enriched").Add(float64(len(result)))
	writeJSON(w, http.StatusOK, result)
}

// handleValidator partitions a transaction stream into valid and invalid
// sets with per-row rejection reasons.
func (s *Server) handleValidator(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req validatorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, invalid := core.Partition(req.Transactions)

	metrics.TransactionsProcessed.WithLabelValues(applog.OpValidate, "valid").Add(float64(len(valid)))
	metrics.TransactionsProcessed.WithLabelValues(applog.OpValidate, "invalid").Add(float64(len(invalid)))

	s.log.DebugContext(r.Context(), "Transactions validated",
		applog.FieldTransactionCount, len(req.Transactions),
		applog.FieldValidCount, len(valid),
		applog.FieldInvalidCount, len(invalid))

	writeJSON(w, http.StatusOK, partitionResponse{Valid: valid, Invalid: invalid})
}

// handleFilter validates like the validator and additionally resolves the
// Q/P rules and K-window membership for every accepted transaction.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req filterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	valid, invalid, err := core.Filter(req.Q, req.P, req.K, req.Transactions)
	if err != nil {
		s.writeCoreError(w, r, applog.OpFilter, err)
		return
	}

	metrics.TransactionsProcessed.WithLabelValues(applog.OpFilter, "valid").Add(float64(len(valid)))
	metrics.TransactionsProcessed.WithLabelValues(applog.OpFilter, "invalid").Add(float64(len(invalid)))

	writeJSON(w, http.StatusOK, partitionResponse{Valid: valid, Invalid: invalid})
}

func (s *Server) handleReturnsNPS(w http.ResponseWriter, r *http.Request) {
	s.handleReturns(w, r, core.PresetNPS)
}

func (s *Server) handleReturnsIndex(w http.ResponseWriter, r *http.Request) {
	s.handleReturns(w, r, core.PresetIndex)
}

// handleReturns runs the full returns pipeline for one preset. The preset
// is the only difference between the two returns routes.
func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request, preset core.Preset) {
	if !requirePost(w, r) {
		return
	}

	var req returnsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	result, err := core.ComputeReturns(req.toInput(), preset)
	if err != nil {
		s.writeCoreError(w, r, applog.OpReturns, err)
		return
	}

	s.log.DebugContext(r.Context(), "Returns computed",
		applog.FieldPreset, preset.Name,
		applog.FieldWindowCount, len(result.SavingsByDates))

	writeJSON(w, http.StatusOK, result)
}

// writeCoreError maps engine errors to HTTP responses: malformed
// timestamps are input errors, anything else is an internal failure.
func (s *Server) writeCoreError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	if errors.Is(err, core.ErrBadDate) {
		metrics.CalculationErrors.WithLabelValues(operation, "bad_date").Inc()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	metrics.CalculationErrors.WithLabelValues(operation, "internal").Inc()
	s.log.ErrorContext(r.Context(), "Calculation failed",
		applog.FieldOperation, operation,
		applog.FieldError, err)
	writeError(w, http.StatusInternalServerError, "internal calculation error")
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
