package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tally/internal/core"
	"tally/internal/flashcard"
	"tally/internal/log"
	"tally/internal/services"
	"tally/internal/storage"
)

var testToday = core.NewDate(2024, 3, 20)

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: io.Discard})
}

type testServer struct {
	*Server
	repo *storage.MemoryRepository
}

func newTestServer(t *testing.T, deck *flashcard.Deck) testServer {
	t.Helper()
	repo := storage.NewMemoryRepository()
	svc := services.NewExpenseService(repo, nil, quietLogger())
	srv, err := NewServer(Options{
		Addr:    ":0",
		Service: svc,
		Store:   repo,
		Deck:    deck,
		Logger:  quietLogger(),
		Today:   func() core.Date { return testToday },
	})
	require.NoError(t, err)
	return testServer{Server: srv, repo: repo}
}

func (ts testServer) seed(t *testing.T) {
	t.Helper()
	rows := []core.Transaction{
		{Date: core.NewDate(2024, 3, 5), Description: "Rent", Type: "Expense", Category: core.Need, Normal: true, Amount: decimal.NewFromInt(1000)},
		{Date: core.NewDate(2024, 3, 10), Description: "Movie", Type: "Expense", Category: core.Want, Normal: false, Amount: decimal.NewFromInt(250)},
		{Date: core.NewDate(2024, 2, 10), Description: "Power", Type: "Utilities", Category: core.Need, Normal: true, Amount: decimal.NewFromInt(99)},
	}
	_, err := ts.repo.InsertBatch(context.Background(), rows)
	require.NoError(t, err)
}

func (ts testServer) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	ts.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func (ts testServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ts.Handler.ServeHTTP(rr, req)
	return rr
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthAndReady(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.get("/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	rr = ts.get("/readyz")
	assert.Equal(t, http.StatusOK, rr.Code)

	ts.store = failingPinger{}
	rr = ts.get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestRootRedirects(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.get("/")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/expenses", rr.Header().Get("Location"))
}

func TestExpensesPage(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)

	rr := ts.get("/expenses")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Current Month")
	assert.Contains(t, body, "2024-03-01 to 2024-03-20")
	assert.Contains(t, body, "80.00%")
	assert.Contains(t, body, "20.00%")
	assert.Contains(t, body, "$1,250.00")
	assert.Contains(t, body, "Movie")
	assert.NotContains(t, body, "Power", "February rows are out of range")
	assert.Contains(t, body, `value="2024-03-20"`, "date defaults to today")
	assert.Contains(t, body, "Utilities", "stored types are offered")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	rr = ts.get("/expenses?normal=1")
	require.Equal(t, http.StatusOK, rr.Code)
	body = rr.Body.String()
	assert.Contains(t, body, "100.00%")
	assert.NotContains(t, body, "Movie")
}

func TestExpensesPageEmptyPeriod(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.get("/expenses")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No entries for this period.")
}

func TestCreateExpense(t *testing.T) {
	ts := newTestServer(t, nil)
	form := url.Values{
		"date":        {"2024-03-18"},
		"description": {"Groceries"},
		"type_mode":   {"new"},
		"new_type":    {"Food"},
		"category":    {"Need"},
		"normal":      {"1"},
		"amount":      {"$42.10"},
	}

	rr := ts.post("/expenses", form)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	loc := rr.Header().Get("Location")
	assert.Equal(t, "/expenses?logged_amount=42.10&logged_date=2024-03-18&logged_type=Food&status=logged", loc)

	rng, _ := core.NewDateRange(core.NewDate(2024, 3, 1), testToday)
	txs, err := ts.repo.Transactions(context.Background(), rng)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Food", txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(decimal.RequireFromString("42.10")))

	rr = ts.get(loc)
	assert.Contains(t, rr.Body.String(), "Logged Food of $42.10 on 2024-03-18")

	rr = ts.get("/expenses?status=logged")
	assert.Contains(t, rr.Body.String(), "Expense logged.")
	assert.Contains(t, rr.Body.String(), "$42.10")
}

func TestLoggedNotice(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"full", url.Values{"logged_type": {"Rent"}, "logged_amount": {"1000.00"}, "logged_date": {"2024-03-01"}}, "Logged Rent of $1,000.00 on 2024-03-01"},
		{"missing type", url.Values{"logged_amount": {"5"}, "logged_date": {"2024-03-01"}}, "Expense logged."},
		{"bad amount", url.Values{"logged_type": {"Rent"}, "logged_amount": {"lots"}, "logged_date": {"2024-03-01"}}, "Expense logged."},
		{"bad date", url.Values{"logged_type": {"Rent"}, "logged_amount": {"5"}, "logged_date": {"yesterday"}}, "Expense logged."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, loggedNotice(tt.query))
		})
	}
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, "0.00", barWidth(-3))
	assert.Equal(t, "42.50", barWidth(42.5))
	assert.Equal(t, "100.00", barWidth(120))
}

func TestCreateExpenseKeepsNormalOnlyView(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.post("/expenses", url.Values{
		"date": {"2024-03-18"}, "type": {"Expense"}, "category": {"Want"},
		"amount": {"3"}, "normal_only": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/expenses?logged_amount=3.00&logged_date=2024-03-18&logged_type=Expense&normal=1&status=logged", rr.Header().Get("Location"))
}

func TestCreateExpenseValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{
			name: "bad amount",
			form: url.Values{"date": {"2024-03-18"}, "description": {"Lunch"}, "type": {"Expense"}, "category": {"Want"}, "amount": {"abc"}},
			want: "invalid amount",
		},
		{
			name: "empty new type",
			form: url.Values{"date": {"2024-03-18"}, "type_mode": {"new"}, "category": {"Want"}, "amount": {"1"}},
			want: "empty type",
		},
		{
			name: "description too long",
			form: url.Values{"date": {"2024-03-18"}, "description": {strings.Repeat("x", 201)}, "type": {"Expense"}, "category": {"Want"}, "amount": {"1"}},
			want: "description too long",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.post("/expenses", tt.form)
			assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.want)
		})
	}

	rr := ts.post("/expenses", tests[0].form)
	assert.Contains(t, rr.Body.String(), `value="Lunch"`, "submitted values are echoed back")

	rng, _ := core.NewDateRange(core.NewDate(2024, 1, 1), testToday)
	txs, err := ts.repo.Transactions(context.Background(), rng)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestSelectPeriod(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)

	rr := ts.post("/expenses/period", url.Values{"period": {"last_month"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/expenses", rr.Header().Get("Location"))

	rr = ts.get("/expenses")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "2024-02-01 to 2024-02-29")
	assert.Contains(t, rr.Body.String(), "Power")

	rr = ts.post("/expenses/period", url.Values{"period": {"custom"}, "start": {"2024-03-10"}, "end": {"2024-03-01"}})
	require.Equal(t, http.StatusSeeOther, rr.Code)

	rr = ts.get("/expenses")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Start date must be on or before the end date.")
	assert.NotContains(t, rr.Body.String(), `class="summary"`)

	rr = ts.post("/expenses/period", url.Values{"period": {"fortnight"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown reporting period")
}

type summaryBody struct {
	Period string `json:"period"`
	Range  struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"range"`
	Total   decimal.Decimal `json:"total"`
	Summary []struct {
		Category string          `json:"category"`
		Total    decimal.Decimal `json:"total"`
		Percent  float64         `json:"percent"`
	} `json:"summary"`
	Detail []core.DisplayRow `json:"detail"`
}

func TestSummaryAPI(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.seed(t)

	rr := ts.get("/api/summary?period=current_month")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body summaryBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "current_month", body.Period)
	assert.Equal(t, "2024-03-01", body.Range.Start)
	assert.Equal(t, "2024-03-20", body.Range.End)
	assert.True(t, body.Total.Equal(decimal.NewFromInt(1250)))
	require.Len(t, body.Summary, 2)
	assert.Equal(t, "Need", body.Summary[0].Category)
	assert.InDelta(t, 80.0, body.Summary[0].Percent, 1e-9)
	assert.Equal(t, "Want", body.Summary[1].Category)
	require.Len(t, body.Detail, 2)
	assert.Equal(t, "Movie", body.Detail[0].Description, "newest first")
	assert.Equal(t, "$1,000.00", body.Detail[1].Amount)

	rr = ts.get("/api/summary?period=past-year&normal=1")
	require.Equal(t, http.StatusOK, rr.Code)
	body = summaryBody{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "2023-03-20", body.Range.Start)
	require.Len(t, body.Summary, 1)
	assert.True(t, body.Total.Equal(decimal.NewFromInt(1099)))
}

func TestSummaryAPIErrors(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, path := range []string{
		"/api/summary?period=custom&start=2024-03-10&end=2024-03-01",
		"/api/summary?period=custom&start=2024-03-10",
		"/api/summary?period=fortnight",
	} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)

		var body errorBody
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.NotEmpty(t, body.Error)
	}
}

func TestSummaryAPIEmptyRangeIsEmptyList(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.get("/api/summary?period=custom&start=2024-03-10&end=2024-03-10")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"summary":[]`)
	assert.Contains(t, rr.Body.String(), `"detail":[]`)
}

func TestFlashcardsWithoutDeck(t *testing.T) {
	ts := newTestServer(t, nil)
	rr := ts.get("/flashcards")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "No deck loaded")

	rr = ts.post("/flashcards/next", nil)
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestFlashcards(t *testing.T) {
	cards := []flashcard.Card{
		{Front: "hablo", Back: "I speak", Tense: "Present", Person: "yo"},
		{Front: "hablaste", Back: "you spoke", Tense: "Preterite", Person: "tu"},
		{Front: "habla", Back: "he speaks", Tense: "Present", Person: "el"},
	}
	deck := flashcard.NewDeck(cards, rand.New(rand.NewPCG(1, 2)))
	ts := newTestServer(t, deck)

	rr := ts.get("/flashcards")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "1 / 3")
	assert.Contains(t, rr.Body.String(), "Preterite")

	require.Equal(t, http.StatusSeeOther, ts.post("/flashcards/next", nil).Code)
	assert.Contains(t, ts.get("/flashcards").Body.String(), "2 / 3")

	require.Equal(t, http.StatusSeeOther, ts.post("/flashcards/prev", nil).Code)
	assert.Contains(t, ts.get("/flashcards").Body.String(), "1 / 3")

	rr = ts.get("/flashcards?tense=Preterite&person=All")
	body := rr.Body.String()
	assert.Contains(t, body, "1 / 1")
	assert.Contains(t, body, "hablaste")

	require.Equal(t, http.StatusSeeOther, ts.post("/flashcards/flip", nil).Code)
	assert.Contains(t, ts.get("/flashcards").Body.String(), "you spoke")

	require.Equal(t, http.StatusSeeOther, ts.post("/flashcards/shuffle", nil).Code)
	body = ts.get("/flashcards").Body.String()
	assert.Contains(t, body, "hablaste", "shuffle shows the front again")
	assert.NotContains(t, body, "you spoke")

	rr = ts.get("/flashcards?tense=Future")
	assert.Contains(t, rr.Body.String(), "No matching cards.")

	rr = ts.post("/flashcards/dance", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

type brokenService struct{}

func (brokenService) Record(context.Context, core.NewEntry) (int64, error) {
	return 0, errors.New("database is locked")
}

func (brokenService) Report(context.Context, core.ReportingPeriod, core.Date, bool) (services.Report, error) {
	return services.Report{}, errors.New("database is locked")
}

func (brokenService) Types(context.Context) ([]string, error) { return services.DefaultTypes, nil }

func TestStorageFailuresAreShown(t *testing.T) {
	srv, err := NewServer(Options{Service: brokenService{}, Logger: quietLogger(), Today: func() core.Date { return testToday }})
	require.NoError(t, err)
	ts := testServer{Server: srv}

	rr := ts.get("/expenses")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "database is locked")

	rr = ts.post("/expenses", url.Values{"date": {"2024-03-18"}, "type": {"Expense"}, "category": {"Want"}, "amount": {"1"}})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "database is locked")

	rr = ts.get("/api/summary")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "database is locked")

	rr = ts.get("/readyz")
	assert.Equal(t, http.StatusOK, rr.Code, "no store configured means nothing to ping")
}
