package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "subs_dashboard/internal/config"
	"subs_dashboard/internal/currency"
	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/gateways/llm"
	"subs_dashboard/internal/notify"
	"subs_dashboard/internal/reminder"
	"subs_dashboard/internal/repository/subscription"
	"subs_dashboard/internal/repository/subscription/memory"
	"subs_dashboard/internal/usecase"
)

var now = time.Date(2025, time.August, 17, 10, 0, 0, 0, time.UTC)

type testApp struct {
	router    *gin.Engine
	dashboard *usecase.Dashboard
}

func newTestApp(t *testing.T, load bool) testApp {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return now }

	conv, err := currency.New(entity.CurrencyUSD, entity.CurrencyINR, decimal.RequireFromString("83.50"))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	engine := reminder.NewEngine(llm.NewTemplate(), reminder.NewMemoryIssued(),
		reminder.WithLogger(log),
		reminder.WithMetrics(reminder.NewMetrics("subs_dashboard", reg)))
	feed := notify.NewFeed(log, notify.WithClock(clock))
	store := subscription.NewStore(memory.New(), log, subscription.WithClock(clock))

	d := usecase.NewDashboard(store, engine, conv, feed, log, usecase.WithClock(clock))
	if load {
		d.Load(context.Background())
	}

	r := SetupGin(cfg.Config{Env: "local"}, UseCases{
		Dashboard: d,
		Feed:      feed,
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}, log)
	return testApp{router: r, dashboard: d}
}

func (a testApp) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req, err := http.NewRequest(method, path, rdr)
	require.NoError(t, err)
	req.Header.Set("Accept", "application/json")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// Unknown paths answer 404.
func TestUnknownRoute(t *testing.T) {
	app := newTestApp(t, true)
	for _, m := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodHead, http.MethodOptions, http.MethodPatch, http.MethodTrace,
	} {
		t.Run(m, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(m, "/unknown", nil)
			app.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestPingAndMetrics(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodGet, "/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())

	app.do(t, http.MethodPost, "/api/v1/reminders/scan", "")
	w = app.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "subs_dashboard_reminder_scans_total 1")
	assert.Contains(t, w.Body.String(), "subs_dashboard_reminder_issued_total 1")
}

func TestLoading(t *testing.T) {
	app := newTestApp(t, false)

	for _, p := range []string{"/api/v1/subscriptions", "/api/v1/summary", "/api/v1/reminders", "/api/v1/settings"} {
		w := app.do(t, http.MethodGet, p, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, p)
	}
	w := app.do(t, http.MethodPost, "/api/v1/subscriptions",
		`{"name":"Test","cost":1,"renewal_date":"2025-08-17","delivery_method":"email"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	app.dashboard.Load(context.Background())
	w = app.do(t, http.MethodGet, "/api/v1/subscriptions", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

// /api/v1/subscriptions
func TestSubscriptionsRoutes(t *testing.T) {
	base := "/api/v1/subscriptions"

	t.Run("GET_subscriptions", func(t *testing.T) {
		app := newTestApp(t, true)

		t.Run("success_200", func(t *testing.T) {
			w := app.do(t, http.MethodGet, base, "")
			assert.Equal(t, http.StatusOK, w.Code)
			subs := decode[[]map[string]any](t, w)
			require.Len(t, subs, 4)
			assert.Equal(t, "1", subs[0]["id"])
			assert.Equal(t, "Netflix Premium", subs[0]["name"])
			assert.Equal(t, 19.99, subs[0]["cost"])
			assert.Equal(t, "email", subs[0]["delivery_method"])
			assert.Equal(t, now.AddDate(0, 0, 2).Format(time.RFC3339), subs[0]["renewal_date"])
		})

		t.Run("requested_unsupported_body_format_406", func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, base, nil)
			req.Header.Add("Accept", "application/xml")
			app.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusNotAcceptable, w.Code)
		})
	})

	t.Run("POST_subscriptions", func(t *testing.T) {
		app := newTestApp(t, true)

		t.Run("valid_request_201", func(t *testing.T) {
			w := app.do(t, http.MethodPost, base,
				`{"name":"Yandex Plus","cost":4.5,"renewal_date":"2025-08-18","delivery_method":"sms"}`)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			got := decode[map[string]any](t, w)
			id, _ := got["id"].(string)
			assert.NotEmpty(t, id)
			assert.Equal(t, "/api/v1/subscriptions/"+id, w.Header().Get("Location"))
			assert.Equal(t, "2025-08-18T00:00:00Z", got["renewal_date"])
			assert.Len(t, app.dashboard.List(), 5)
		})

		t.Run("rfc3339_date_201", func(t *testing.T) {
			w := app.do(t, http.MethodPost, base,
				`{"name":"Dated","cost":0,"renewal_date":"2025-08-18T09:30:00+05:30","delivery_method":"email"}`)
			assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		})

		t.Run("request_body_has_syntax_error_400", func(t *testing.T) {
			w := app.do(t, http.MethodPost, base, "{ bad json }")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})

		t.Run("wrong_content_type_415", func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, base, bytes.NewBufferString("name=x"))
			req.Header.Set("Content-Type", "text/plain")
			w := httptest.NewRecorder()
			app.router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		})

		invalid := map[string]string{
			"short name":      `{"name":"A","cost":1,"renewal_date":"2025-08-18","delivery_method":"email"}`,
			"blank name":      `{"name":"   ","cost":1,"renewal_date":"2025-08-18","delivery_method":"email"}`,
			"negative cost":   `{"name":"Test","cost":-1,"renewal_date":"2025-08-18","delivery_method":"email"}`,
			"missing cost":    `{"name":"Test","renewal_date":"2025-08-18","delivery_method":"email"}`,
			"unknown channel": `{"name":"Test","cost":1,"renewal_date":"2025-08-18","delivery_method":"fax"}`,
			"bad date":        `{"name":"Test","cost":1,"renewal_date":"18.08.2025","delivery_method":"email"}`,
		}
		for name, body := range invalid {
			t.Run("invalid_422_"+name, func(t *testing.T) {
				before := len(app.dashboard.List())
				w := app.do(t, http.MethodPost, base, body)
				assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
				assert.Len(t, app.dashboard.List(), before)
			})
		}
	})
}

// /api/v1/subscriptions/:id
func TestSubscriptionsIdRoutes(t *testing.T) {
	app := newTestApp(t, true)
	base := "/api/v1/subscriptions/"

	t.Run("GET_200", func(t *testing.T) {
		w := app.do(t, http.MethodGet, base+"3", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Gym Membership", decode[map[string]any](t, w)["name"])
	})

	t.Run("GET_404", func(t *testing.T) {
		w := app.do(t, http.MethodGet, base+"nope", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("PUT_200", func(t *testing.T) {
		w := app.do(t, http.MethodPut, base+"2",
			`{"name":"Spotify Family","cost":16.99,"renewal_date":"2025-09-01","delivery_method":"email"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decode[map[string]any](t, w)
		assert.Equal(t, "2", got["id"])
		assert.Equal(t, "Spotify Family", got["name"])
	})

	t.Run("PUT_404", func(t *testing.T) {
		w := app.do(t, http.MethodPut, base+"nope",
			`{"name":"Ghost","cost":1,"renewal_date":"2025-09-01","delivery_method":"email"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("DELETE_200_then_404", func(t *testing.T) {
		w := app.do(t, http.MethodDelete, base+"4", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Amazon Prime", decode[map[string]any](t, w)["name"])

		w = app.do(t, http.MethodDelete, base+"4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = app.do(t, http.MethodGet, base+"4", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("OPTIONS_204", func(t *testing.T) {
		w := app.do(t, http.MethodOptions, base+"1", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "PUT,OPTIONS,GET,DELETE", w.Header().Get("Allow"))
	})

	t.Run("PATCH_405", func(t *testing.T) {
		w := app.do(t, http.MethodPatch, base+"1", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})
}

func TestSummaryRoute(t *testing.T) {
	app := newTestApp(t, true)

	t.Run("base_currency", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/summary", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[summaryResponse](t, w)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, "92.97", got.MonthlyTotal)
		assert.Equal(t, "1115.64", got.YearlyTotal)
		assert.Equal(t, "$92.97", got.MonthlyFormatted)
		require.Len(t, got.Breakdown, 4)
		assert.Equal(t, []string{"3", "1", "4", "2"}, []string{got.Breakdown[0].ID, got.Breakdown[1].ID, got.Breakdown[2].ID, got.Breakdown[3].ID})
	})

	t.Run("secondary_currency", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/summary?currency=inr", "")
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[summaryResponse](t, w)
		assert.Equal(t, "INR", got.Currency)
		assert.Equal(t, "7763.00", got.MonthlyTotal)
		assert.Contains(t, got.MonthlyFormatted, "₹")
	})

	t.Run("unsupported_currency_422", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/v1/summary?currency=EUR", "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("long_names_truncated", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/v1/subscriptions",
			`{"name":"Adobe Creative Cloud","cost":54.99,"renewal_date":"2025-09-10","delivery_method":"email"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		got := decode[summaryResponse](t, app.do(t, http.MethodGet, "/api/v1/summary", ""))
		assert.Equal(t, "Adobe Creati...", got.Breakdown[0].Name)
	})
}

func TestRemindersRoutes(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodGet, "/api/v1/reminders", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = app.do(t, http.MethodPost, "/api/v1/reminders/scan", "")
	require.Equal(t, http.StatusOK, w.Code)
	scan := decode[scanResponse](t, w)
	require.Len(t, scan.Issued, 1)
	assert.Equal(t, "1", scan.Issued[0].SubscriptionID)
	assert.Contains(t, scan.Issued[0].Message, "Netflix Premium")
	assert.Empty(t, scan.Failed)

	w = app.do(t, http.MethodPost, "/api/v1/reminders/scan", "")
	assert.Empty(t, decode[scanResponse](t, w).Issued)

	w = app.do(t, http.MethodGet, "/api/v1/reminders", "")
	rs := decode[[]reminderResponse](t, w)
	require.Len(t, rs, 1)
	assert.Equal(t, "Netflix Premium", rs[0].SubscriptionName)

	w = app.do(t, http.MethodGet, "/api/v1/notifications?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	ns := decode[[]notificationResponse](t, w)
	require.Len(t, ns, 1)
	assert.Equal(t, "reminder", ns[0].Kind)
	assert.Equal(t, "Reminder for Netflix Premium", ns[0].Title)

	w = app.do(t, http.MethodGet, "/api/v1/notifications?limit=zero", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// deleting the subscription drops its reminder
	app.do(t, http.MethodDelete, "/api/v1/subscriptions/1", "")
	w = app.do(t, http.MethodGet, "/api/v1/reminders", "")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestSettingsRoutes(t *testing.T) {
	app := newTestApp(t, true)

	w := app.do(t, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, settingsResponse{
		Currency:     "USD",
		BaseCurrency: "USD",
		Currencies:   []string{"USD", "INR"},
		ExchangeRate: "83.5",
	}, decode[settingsResponse](t, w))

	w = app.do(t, http.MethodPut, "/api/v1/settings", `{"currency":"INR","exchange_rate":80}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[settingsResponse](t, w)
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "80", got.ExchangeRate)

	sum := decode[summaryResponse](t, app.do(t, http.MethodGet, "/api/v1/summary", ""))
	assert.Equal(t, "INR", sum.Currency)
	assert.Equal(t, "7437.60", sum.MonthlyTotal)

	for name, body := range map[string]string{
		"zero rate":        `{"exchange_rate":0}`,
		"unknown currency": `{"currency":"XYZ"}`,
		"long code":        `{"currency":"RUPEE"}`,
	} {
		t.Run("invalid_422_"+name, func(t *testing.T) {
			w := app.do(t, http.MethodPut, "/api/v1/settings", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
		})
	}

	t.Run("rejected_body_changes_nothing", func(t *testing.T) {
		for _, body := range []string{
			`{"exchange_rate":90,"currency":"EUR"}`,
			`{"exchange_rate":0,"currency":"USD"}`,
		} {
			w := app.do(t, http.MethodPut, "/api/v1/settings", body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
		}
		got := decode[settingsResponse](t, app.do(t, http.MethodGet, "/api/v1/settings", ""))
		assert.Equal(t, "INR", got.Currency)
		assert.Equal(t, "80", got.ExchangeRate)
	})
}

func TestParseRenewalDate(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	got, err := parseRenewalDate("2025-08-19", ist)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 19, 0, 0, 0, 0, ist), got)

	got, err = parseRenewalDate(" 2025-08-19T10:00:00Z ", ist)
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2025, 8, 19, 10, 0, 0, 0, time.UTC)))

	_, err = parseRenewalDate("", nil)
	assert.Error(t, err)
	_, err = parseRenewalDate("08/19/2025", nil)
	assert.Error(t, err)
}

func TestAcceptsJSON(t *testing.T) {
	for h, want := range map[string]bool{
		"":                                  true,
		"*/*":                               true,
		"application/json":                  true,
		"text/html, application/json;q=0.9": true,
		"application/xml":                   false,
		"text/plain":                        false,
	} {
		assert.Equal(t, want, acceptsJSON(h), h)
	}
}
