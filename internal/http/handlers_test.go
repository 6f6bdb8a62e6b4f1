package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"roundup/internal/core"
	applog "roundup/internal/log"
)

func newTestServer() *Server {
	logger := applog.New(applog.Config{
		Handler:   slog.NewTextHandler(io.Discard, nil),
		Component: applog.ComponentHTTP,
	})
	return NewServer(":0", logger, Options{})
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer()

	body := `[
		{"date": "2023-01-16 10:00:00", "amount": 10.50},
		{"date": "2023-01-17 10:00:00", "amount": 100.00}
	]`
	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:parse", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got []core.Transaction
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(got))
	}
	if got[0].Ceiling.String() != "100" || got[0].Remanent.String() != "89.5" {
		t.Fatalf("10.50 must enrich to ceiling 100 / remanent 89.50, got %s / %s", got[0].Ceiling, got[0].Remanent)
	}
	if !got[1].Remanent.IsZero() {
		t.Fatalf("exact multiple of 100 must have zero remanent, got %s", got[1].Remanent)
	}

	// Monetary values serialize as JSON numbers, not strings
	if strings.Contains(rec.Body.String(), `"89.5"`) {
		t.Fatalf("amounts must be JSON numbers: %s", rec.Body.String())
	}
}

func TestParseEndpoint_NegativeAmount(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:parse",
		`[{"date": "2023-01-16 10:00:00", "amount": -1}]`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestParseEndpoint_MalformedBody(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:parse", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseEndpoint_MethodNotAllowed(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodGet, BasePath+"/transactions:parse", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "POST" {
		t.Fatalf("expected Allow: POST, got %q", allow)
	}
}

func TestValidatorEndpoint(t *testing.T) {
	s := newTestServer()

	body := `{
		"wage": 50000,
		"transactions": [
			{"date": "2023-01-01 10:00:00", "amount": 10.50, "ceiling": 100.00, "remanent": 89.50},
			{"date": "2023-01-02 10:00:00", "amount": -5, "ceiling": 0, "remanent": 0},
			{"date": "2023-01-01 10:00:00", "amount": 20, "ceiling": 100, "remanent": 80}
		]
	}`
	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:validator", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got partitionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if len(got.Valid) != 1 || len(got.Invalid) != 2 {
		t.Fatalf("expected 1 valid / 2 invalid, got %d / %d", len(got.Valid), len(got.Invalid))
	}
	if got.Invalid[0].Message != core.MsgNegativeAmount {
		t.Fatalf("expected negative message, got %q", got.Invalid[0].Message)
	}
	if got.Invalid[1].Message != core.MsgDuplicate {
		t.Fatalf("expected duplicate message, got %q", got.Invalid[1].Message)
	}
}

func TestValidatorEndpoint_EmptyTransactions(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:validator",
		`{"wage": 50000, "transactions": []}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"valid":[]`) || !strings.Contains(body, `"invalid":[]`) {
		t.Fatalf("empty partitions must serialize as empty arrays: %s", body)
	}
}

func TestFilterEndpoint(t *testing.T) {
	s := newTestServer()

	body := `{
		"q": [{"fixed": 100, "start": "2023-01-01 00:00:00", "end": "2023-01-31 23:59:59"}],
		"p": [{"extra": 20, "start": "2023-01-01 00:00:00", "end": "2023-01-31 23:59:59"}],
		"k": [{"start": "2023-01-15 00:00:00", "end": "2023-01-20 23:59:59"}],
		"wage": 50000,
		"transactions": [
			{"date": "2023-01-16 10:00:00", "amount": 150, "ceiling": 200, "remanent": 50}
		]
	}`
	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:filter", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got partitionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if len(got.Valid) != 1 {
		t.Fatalf("expected 1 valid, got %d", len(got.Valid))
	}
	if got.Valid[0].Remanent.String() != "120" {
		t.Fatalf("resolved remanent = %s, want 120", got.Valid[0].Remanent)
	}
	if got.Valid[0].InKPeriod == nil || !*got.Valid[0].InKPeriod {
		t.Fatal("expected inkPeriod true")
	}
}

func TestFilterEndpoint_BadRuleDate(t *testing.T) {
	s := newTestServer()

	body := `{
		"q": [{"fixed": 100, "start": "2023-01-01", "end": "2023-01-31 23:59:59"}],
		"wage": 50000,
		"transactions": []
	}`
	rec := doRequest(s, http.MethodPost, BasePath+"/transactions:filter", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "2023-01-01") {
		t.Fatalf("error must reference the offending value: %s", rec.Body.String())
	}
}

func returnsBody() string {
	return `{
		"age": 30,
		"wage": 100000,
		"inflation": 5,
		"q": [],
		"p": [],
		"k": [{"start": "2023-01-01 00:00:00", "end": "2023-01-31 23:59:59"}],
		"transactions": [
			{"date": "2023-01-16 10:00:00", "amount": 150, "ceiling": 200, "remanent": 50}
		]
	}`
}

func TestReturnsNPSEndpoint(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodPost, BasePath+"/returns:nps", returnsBody())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var got core.ReturnsResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if got.TotalTransactionAmount.String() != "150" {
		t.Fatalf("totalTransactionAmount = %s, want 150", got.TotalTransactionAmount)
	}
	if got.TotalCeiling.String() != "200" {
		t.Fatalf("totalCeiling = %s, want 200", got.TotalCeiling)
	}
	if len(got.SavingsByDates) != 1 {
		t.Fatalf("expected one savings entry, got %d", len(got.SavingsByDates))
	}
	if got.SavingsByDates[0].TaxBenefit == nil {
		t.Fatal("NPS response must carry taxBenefit")
	}
}

func TestReturnsIndexEndpoint_OmitsTaxBenefit(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodPost, BasePath+"/returns:index", returnsBody())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "taxBenefit") {
		t.Fatalf("Index response must omit taxBenefit: %s", rec.Body.String())
	}
}

func TestReturnsEndpoint_InvalidAge(t *testing.T) {
	s := newTestServer()

	body := strings.Replace(returnsBody(), `"age": 30`, `"age": 17`, 1)
	rec := doRequest(s, http.MethodPost, BasePath+"/returns:nps", body)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestReturnsEndpoint_BadTransactionDate(t *testing.T) {
	s := newTestServer()

	body := strings.Replace(returnsBody(), "2023-01-16 10:00:00", "16.01.2023", 1)
	rec := doRequest(s, http.MethodPost, BasePath+"/returns:nps", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	s := newTestServer()

	rec := doRequest(s, http.MethodGet, BasePath+"/performance", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got struct {
		Time    string `json:"time"`
		Memory  string `json:"memory"`
		Threads int    `json:"threads"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad response JSON: %v", err)
	}
	if got.Time == "" || got.Memory == "" || got.Threads < 1 {
		t.Fatalf("incomplete performance report: %+v", got)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(s, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatal("fourth request should be rejected")
	}
	if !rl.allow("5.6.7.8") {
		t.Fatal("other clients must not be affected")
	}
}
