package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"tally/internal/core"
	"tally/internal/log"
	"tally/internal/services"
)

// fieldNormalOnly carries the summary's normal-only toggle through the form posts.
const fieldNormalOnly = "normal_only"

const statusLogged = "logged"

// Query keys describing the entry just logged.
const (
	fieldLoggedType   = "logged_type"
	fieldLoggedAmount = "logged_amount"
	fieldLoggedDate   = "logged_date"
)

type periodOption struct {
	Kind   core.PeriodKind
	Label  string
	Active bool
}

// entryForm echoes the submitted values back when a post is rejected.
type entryForm struct {
	Date        string
	Description string
	Type        string
	NewType     string
	UseNew      bool
	Category    string
	Normal      bool
	Amount      string
}

type expensesPage struct {
	Types      []string
	Categories []core.Category
	Periods    []periodOption
	Custom     bool
	Start      string
	End        string
	NormalOnly bool
	Notice     string
	Form       entryForm
	FormError  string
	RangeError string
	Report     *services.Report
}

type rangeJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type summaryResponse struct {
	Period     core.PeriodKind      `json:"period"`
	Label      string               `json:"label"`
	Range      rangeJSON            `json:"range"`
	NormalOnly bool                 `json:"normal_only"`
	Total      decimal.Decimal      `json:"total"`
	Summary    core.CategorySummary `json:"summary"`
	Detail     []core.DisplayRow    `json:"detail"`
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := s.newExpensesPage(ParseNormalOnly(q))
	if q.Get("status") == statusLogged {
		page.Notice = loggedNotice(q)
	}
	if !s.loadPage(w, r, &page) {
		return
	}
	s.render(w, r, http.StatusOK, "expenses.html", page)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	normalOnly := isChecked(r.PostForm.Get(fieldNormalOnly))

	var t core.Transaction
	entry, err := ParseEntryForm(r.PostForm)
	if err == nil {
		t, err = entry.Transaction()
	}
	if err == nil {
		_, err = s.svc.Record(ctx, entry)
	}
	if err != nil {
		if !services.IsValidation(err) {
			logger.ErrorContext(ctx, "Failed to record expense", log.FieldError, err, log.FieldOperation, log.OpCreate)
			http.Error(w, "could not save the expense: "+err.Error(), http.StatusInternalServerError)
			return
		}
		logger.InfoContext(ctx, "Expense rejected", log.FieldError, err, log.FieldOperation, log.OpValidate)

		page := s.newExpensesPage(normalOnly)
		page.Form = formFromValues(r.PostForm)
		page.FormError = err.Error()
		if !s.loadPage(w, r, &page) {
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, "expenses.html", page)
		return
	}

	q := loggedQuery(normalOnly)
	q.Set(fieldLoggedType, t.Type)
	q.Set(fieldLoggedAmount, t.Amount.StringFixed(2))
	q.Set(fieldLoggedDate, t.Date.String())
	seeOther(w, r, "/expenses?"+q.Encode())
}

func (s *Server) handleSelectPeriod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	normalOnly := isChecked(r.PostForm.Get(fieldNormalOnly))

	p, err := ParsePeriod(r.PostForm, s.period.Get())
	if err != nil {
		page := s.newExpensesPage(normalOnly)
		page.RangeError = err.Error()
		page.Custom = r.PostForm.Get(fieldPeriod) == string(core.Custom)
		page.Start, page.End = r.PostForm.Get(fieldStart), r.PostForm.Get(fieldEnd)
		s.render(w, r, http.StatusUnprocessableEntity, "expenses.html", page)
		return
	}

	s.period.Set(p)
	log.FromContext(ctx).InfoContext(ctx, "Reporting period selected", log.FieldPeriod, string(p.Kind))
	seeOther(w, r, expensesURL(normalOnly))
}

func (s *Server) handleSummaryAPI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	p, err := ParsePeriod(q, s.period.Get())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	report, err := s.svc.Report(ctx, p, s.today(), ParseNormalOnly(q))
	if err != nil {
		if services.IsValidation(err) {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.FromContext(ctx).ErrorContext(ctx, "Failed to build report", log.FieldError, err, log.FieldOperation, log.OpReport)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		Period:     report.Period.Kind,
		Label:      report.Period.Kind.Label(),
		Range:      rangeJSON{Start: report.Range.Start.String(), End: report.Range.End.String()},
		NormalOnly: report.NormalOnly,
		Total:      report.Summary.Total(),
		Summary:    report.Summary,
		Detail:     report.Detail,
	})
}

func (s *Server) newExpensesPage(normalOnly bool) expensesPage {
	selected := s.period.Get()
	periods := make([]periodOption, 0, len(core.PeriodKinds()))
	for _, k := range core.PeriodKinds() {
		periods = append(periods, periodOption{Kind: k, Label: k.Label(), Active: k == selected.Kind})
	}
	page := expensesPage{
		Categories: core.Categories(),
		Periods:    periods,
		Custom:     selected.Kind == core.Custom,
		NormalOnly: normalOnly,
		Form:       entryForm{Date: s.today().String(), Normal: true},
	}
	if page.Custom {
		page.Start, page.End = selected.Start.String(), selected.End.String()
	}
	return page
}

// loadPage fills in the type list and the report. An invalid custom range
// leaves the report empty and sets RangeError. On a storage failure it writes
// a 500 carrying the error text and returns false.
func (s *Server) loadPage(w http.ResponseWriter, r *http.Request, page *expensesPage) bool {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	types, err := s.svc.Types(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list types", log.FieldError, err, log.FieldOperation, log.OpList)
		http.Error(w, "could not load the page: "+err.Error(), http.StatusInternalServerError)
		return false
	}
	page.Types = types

	report, err := s.svc.Report(ctx, s.period.Get(), s.today(), page.NormalOnly)
	switch {
	case errors.Is(err, core.ErrInvalidRange):
		page.RangeError = "Start date must be on or before the end date."
	case err != nil:
		logger.ErrorContext(ctx, "Failed to build report", log.FieldError, err, log.FieldOperation, log.OpReport)
		http.Error(w, "could not load the summary: "+err.Error(), http.StatusInternalServerError)
		return false
	default:
		page.Report = &report
		if !page.Custom {
			page.Start, page.End = report.Range.Start.String(), report.Range.End.String()
		}
	}
	return true
}

func formFromValues(v url.Values) entryForm {
	return entryForm{
		Date:        v.Get(fieldDate),
		Description: v.Get(fieldDescription),
		Type:        v.Get(fieldType),
		NewType:     v.Get(fieldNewType),
		UseNew:      v.Get(fieldTypeMode) == typeModeNew,
		Category:    v.Get(fieldCategory),
		Normal:      isChecked(v.Get(fieldNormal)),
		Amount:      v.Get(fieldAmount),
	}
}

func expensesURL(normalOnly bool) string {
	if normalOnly {
		return "/expenses?" + fieldNormal + "=1"
	}
	return "/expenses"
}

func loggedQuery(normalOnly bool) url.Values {
	q := url.Values{"status": {statusLogged}}
	if normalOnly {
		q.Set(fieldNormal, "1")
	}
	return q
}

// loggedNotice confirms the last entry, e.g. "Logged Food of $42.10 on
// 2024-03-18". Missing or malformed details give the plain message.
func loggedNotice(q url.Values) string {
	typ := sanitizeInput(q.Get(fieldLoggedType))
	amount, aerr := core.ParseAmount(q.Get(fieldLoggedAmount))
	date, derr := core.ParseDate(q.Get(fieldLoggedDate))
	if typ == "" || aerr != nil || derr != nil {
		return "Expense logged."
	}
	return fmt.Sprintf("Logged %s of %s on %s", typ, core.FormatUSD(amount), date)
}
