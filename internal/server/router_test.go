package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setup(t *testing.T) (*App, *testutil.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app := New(Deps{Store: testutil.OpenStore(t)})
	rec := &testutil.Recorder{}
	app.Bus.Subscribe(rec.Publish)
	return app, rec
}

func call(t *testing.T, h http.Handler, method, path string, body any, wantStatus int, out any) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, wantStatus, rr.Code, rr.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

func TestHealth(t *testing.T) {
	app, _ := setup(t)
	env := call(t, app.Engine, http.MethodGet, "/api/v1/health", nil, http.StatusOK, nil)
	assert.True(t, env.Success)
}

func TestQuoteToPaidFlow(t *testing.T) {
	app, rec := setup(t)
	h := app.Engine

	var client domain.Client
	call(t, h, http.MethodPost, "/api/v1/clients", map[string]any{"name": "Ann", "address": "1 Elm St"}, http.StatusCreated, &client)

	var q domain.Quote
	call(t, h, http.MethodPost, "/api/v1/quotes", map[string]any{
		"client_id":       client.ID,
		"description":     "Spring cleanup",
		"estimated_hours": 4,
		"estimated_cost":  150,
	}, http.StatusCreated, &q)
	assert.Equal(t, domain.QuoteDraft, q.Status)

	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/quotes/%d/send", q.ID), nil, http.StatusOK, nil)

	var acc struct {
		Job     domain.Job `json:"job"`
		Created bool       `json:"created"`
	}
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/quotes/%d/accept", q.ID), nil, http.StatusCreated, &acc)
	require.True(t, acc.Created)
	jobID := acc.Job.ID
	assert.Equal(t, domain.JobScheduled, acc.Job.Status)

	// accepting again returns the same job
	var again struct {
		Job     domain.Job `json:"job"`
		Created bool       `json:"created"`
	}
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/quotes/%d/accept", q.ID), nil, http.StatusOK, &again)
	assert.False(t, again.Created)
	assert.Equal(t, jobID, again.Job.ID)

	// invoice before completion is a precondition failure
	env := call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/invoice/sent", jobID), nil, http.StatusPreconditionFailed, nil)
	assert.Equal(t, "PRECONDITION_FAILED", env.Error.Code)

	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/status", jobID), map[string]any{"status": "In progress"}, http.StatusOK, nil)
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/complete", jobID), map[string]any{"actual_hours": 5, "actual_cost": 150}, http.StatusOK, nil)

	var sent domain.Job
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/invoice/sent", jobID), nil, http.StatusOK, &sent)
	require.NotNil(t, sent.InvoiceStatus)
	assert.Equal(t, domain.InvoiceSent, *sent.InvoiceStatus)

	var r1 struct {
		Paid      bool    `json:"paid"`
		TotalPaid float64 `json:"total_paid"`
	}
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/payments", jobID), map[string]any{"amount": 100, "method": "Cash"}, http.StatusCreated, &r1)
	assert.False(t, r1.Paid)
	assert.Equal(t, 100.0, r1.TotalPaid)

	var r2 struct {
		Paid bool       `json:"paid"`
		Job  domain.Job `json:"job"`
	}
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/payments", jobID), map[string]any{"amount": 50, "method": "Check"}, http.StatusCreated, &r2)
	assert.True(t, r2.Paid)
	require.NotNil(t, r2.Job.InvoiceStatus)
	assert.Equal(t, domain.InvoicePaid, *r2.Job.InvoiceStatus)
	assert.NotNil(t, r2.Job.PaidAt)

	var inv struct {
		Total      float64 `json:"total"`
		BalanceDue float64 `json:"balance_due"`
		Payments   []any   `json:"payments"`
	}
	call(t, h, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d/invoice", jobID), nil, http.StatusOK, &inv)
	assert.Equal(t, 150.0, inv.Total)
	assert.Zero(t, inv.BalanceDue)
	assert.Len(t, inv.Payments, 2)

	var dash struct {
		Completed      int64   `json:"completed"`
		UnpaidCount    int64   `json:"unpaid_count"`
		QuotesAccepted int64   `json:"quotes_accepted"`
		YearToDate     float64 `json:"year_to_date"`
	}
	call(t, h, http.MethodGet, "/api/v1/reports/dashboard", nil, http.StatusOK, &dash)
	assert.Equal(t, int64(1), dash.Completed)
	assert.Zero(t, dash.UnpaidCount)
	assert.Equal(t, int64(1), dash.QuotesAccepted)
	assert.Equal(t, 150.0, dash.YearToDate)

	assert.Equal(t, []string{
		activity.ClientCreated,
		activity.QuoteCreated,
		activity.QuoteSent,
		activity.JobCreated,
		activity.QuoteAccepted,
		activity.JobStatusChanged,
		activity.JobCompleted,
		activity.InvoiceSent,
		activity.PaymentRecorded,
		activity.PaymentRecorded,
		activity.InvoicePaid,
	}, rec.Types())
}

func TestClientWithJobsCannotBeDeleted(t *testing.T) {
	app, _ := setup(t)
	var client domain.Client
	call(t, app.Engine, http.MethodPost, "/api/v1/clients", map[string]any{"name": "Ann"}, http.StatusCreated, &client)
	call(t, app.Engine, http.MethodPost, "/api/v1/jobs", map[string]any{
		"client_id":      client.ID,
		"description":    "Mow",
		"scheduled_date": "2024-05-01",
	}, http.StatusCreated, nil)

	env := call(t, app.Engine, http.MethodDelete, fmt.Sprintf("/api/v1/clients/%d", client.ID), nil, http.StatusConflict, nil)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestCompleteWithoutActualsIsRejected(t *testing.T) {
	app, _ := setup(t)
	h := app.Engine

	var client domain.Client
	call(t, h, http.MethodPost, "/api/v1/clients", map[string]any{"name": "Ann"}, http.StatusCreated, &client)
	var j domain.Job
	call(t, h, http.MethodPost, "/api/v1/jobs", map[string]any{
		"client_id":      client.ID,
		"description":    "Mow",
		"scheduled_date": "2024-05-01",
	}, http.StatusCreated, &j)

	path := fmt.Sprintf("/api/v1/jobs/%d/complete", j.ID)
	env := call(t, h, http.MethodPost, path, map[string]any{}, http.StatusBadRequest, nil)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	call(t, h, http.MethodPost, path, map[string]any{"actual_hours": 2}, http.StatusBadRequest, nil)

	var got domain.Job
	call(t, h, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", j.ID), nil, http.StatusOK, &got)
	assert.Equal(t, domain.JobScheduled, got.Status)
	assert.Nil(t, got.ActualCost)

	// a job that was never completed cannot be paid off
	call(t, h, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/payments", j.ID), map[string]any{"amount": 0.01, "method": "Cash"}, http.StatusPreconditionFailed, nil)
}
