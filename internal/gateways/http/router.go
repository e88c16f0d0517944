package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/shopspring/decimal"

	"subs_dashboard/internal/entity"
	"subs_dashboard/internal/entity/generated"
	"subs_dashboard/internal/notify"
	"subs_dashboard/internal/usecase"
)

const maxNotifications = 100

// parseRenewalDate accepts a full RFC 3339 timestamp or a bare date, which is
// read as midnight in loc
func parseRenewalDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date value")
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}

func setupRouter(r *gin.Engine, u UseCases) {
	r.HandleMethodNotAllowed = true

	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	if u.Metrics != nil {
		r.GET("/metrics", gin.WrapH(u.Metrics))
	}

	{
		v1 := r.Group("api/v1/")
		v1.Use(requireReady(u.Dashboard))
		setupSubscription(v1, u)
		setupSubscriptionsId(v1, u)
		setupSummary(v1, u)
		setupReminders(v1, u)
		setupNotifications(v1, u)
		setupSettings(v1, u)
	}
}

// requireReady answers 503 until the dashboard finished loading
func requireReady(d *usecase.Dashboard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions && d.State() != usecase.StateReady {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard is loading"})
			return
		}
		c.Next()
	}
}

// writeError maps use case errors to status codes
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard is loading"})
	case errors.Is(err, usecase.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, usecase.ErrInvalidSubscription),
		errors.Is(err, usecase.ErrInvalidRate),
		errors.Is(err, entity.ErrUnsupportedCurrency):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func requireJSONBody(c *gin.Context) bool {
	if c.ContentType() != "" && c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Use application/json"})
		return false
	}
	return true
}

// bindSubscriptionInput decodes and validates the request body
func bindSubscriptionInput(c *gin.Context, loc *time.Location) (usecase.SubscriptionInput, bool) {
	var input *generated.SubscriptionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return usecase.SubscriptionInput{}, false
	}
	if input == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty body"})
		return usecase.SubscriptionInput{}, false
	}
	if err := input.Validate(strfmt.Default); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return usecase.SubscriptionInput{}, false
	}
	renewal, err := parseRenewalDate(*input.RenewalDate, loc)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid renewal_date"})
		return usecase.SubscriptionInput{}, false
	}
	return usecase.SubscriptionInput{
		Name:           *input.Name,
		Cost:           decimal.NewFromFloat(*input.Cost),
		RenewalDate:    renewal,
		DeliveryMethod: entity.DeliveryMethod(*input.DeliveryMethod),
	}, true
}

func toSubscription(s entity.Subscription) generated.Subscription {
	name := s.Name
	cost := s.Cost.InexactFloat64()
	renewal := s.RenewalDate.Format(time.RFC3339)
	method := string(s.DeliveryMethod)
	return generated.Subscription{
		SubscriptionInput: generated.SubscriptionInput{
			Name:           &name,
			Cost:           &cost,
			RenewalDate:    &renewal,
			DeliveryMethod: &method,
		},
		SubscriptionID: generated.SubscriptionID{ID: s.ID},
	}
}

func setupSubscription(r *gin.RouterGroup, u UseCases) {
	r.GET("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		subs := u.Dashboard.List()
		resp := make([]generated.Subscription, 0, len(subs))
		for _, s := range subs {
			resp = append(resp, toSubscription(s))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/subscriptions", func(c *gin.Context) {
		if !requireAcceptJSON(c) || !requireJSONBody(c) {
			return
		}
		in, ok := bindSubscriptionInput(c, u.Location)
		if !ok {
			return
		}
		created, err := u.Dashboard.Add(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", "/api/v1/subscriptions/"+created.ID)
		c.JSON(http.StatusCreated, toSubscription(created))
	})

	r.OPTIONS("/subscriptions", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "POST,OPTIONS,GET")
		c.Status(http.StatusNoContent)
	})
}

func setupSubscriptionsId(r *gin.RouterGroup, u UseCases) {
	r.GET("/subscriptions/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		sub, err := u.Dashboard.Get(c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSubscription(sub))
	})

	r.PUT("/subscriptions/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) || !requireJSONBody(c) {
			return
		}
		in, ok := bindSubscriptionInput(c, u.Location)
		if !ok {
			return
		}
		updated, err := u.Dashboard.Edit(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSubscription(updated))
	})

	r.DELETE("/subscriptions/:id", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		deleted, err := u.Dashboard.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSubscription(deleted))
	})

	r.OPTIONS("/subscriptions/:id", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "PUT,OPTIONS,GET,DELETE")
		c.Status(http.StatusNoContent)
	})
}

type barResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Cost      string `json:"cost"`
	Formatted string `json:"formatted"`
}

type summaryResponse struct {
	Currency         string        `json:"currency"`
	MonthlyTotal     string        `json:"monthly_total"`
	YearlyTotal      string        `json:"yearly_total"`
	MonthlyFormatted string        `json:"monthly_formatted"`
	YearlyFormatted  string        `json:"yearly_formatted"`
	Breakdown        []barResponse `json:"breakdown"`
}

func setupSummary(r *gin.RouterGroup, u UseCases) {
	r.GET("/summary", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		sum, err := u.Dashboard.Summary(c.Query("currency"))
		if err != nil {
			writeError(c, err)
			return
		}

		v := sum.View
		bars := make([]barResponse, 0, len(v.Breakdown))
		for _, b := range v.Breakdown {
			bars = append(bars, barResponse{
				ID:        b.ID,
				Name:      b.DisplayName,
				Cost:      b.DisplayCost.StringFixed(2),
				Formatted: b.Formatted,
			})
		}
		c.JSON(http.StatusOK, summaryResponse{
			Currency:         string(v.Currency),
			MonthlyTotal:     v.MonthlyTotal.StringFixed(2),
			YearlyTotal:      v.YearlyTotal.StringFixed(2),
			MonthlyFormatted: v.Monthly,
			YearlyFormatted:  v.Yearly,
			Breakdown:        bars,
		})
	})

	r.OPTIONS("/summary", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "GET,OPTIONS")
		c.Status(http.StatusNoContent)
	})
}

type reminderResponse struct {
	SubscriptionID   string `json:"subscription_id"`
	SubscriptionName string `json:"subscription_name"`
	RenewalDate      string `json:"renewal_date"`
	DeliveryMethod   string `json:"delivery_method"`
	Message          string `json:"message"`
}

type failureResponse struct {
	SubscriptionID   string `json:"subscription_id"`
	SubscriptionName string `json:"subscription_name"`
	Error            string `json:"error"`
}

type scanResponse struct {
	Issued []reminderResponse `json:"issued"`
	Failed []failureResponse  `json:"failed"`
}

func toReminder(r entity.Reminder) reminderResponse {
	return reminderResponse{
		SubscriptionID:   r.Subscription.ID,
		SubscriptionName: r.Subscription.Name,
		RenewalDate:      r.Subscription.RenewalDate.Format(time.RFC3339),
		DeliveryMethod:   string(r.Subscription.DeliveryMethod),
		Message:          r.Message,
	}
}

func setupReminders(r *gin.RouterGroup, u UseCases) {
	r.GET("/reminders", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		rs := u.Dashboard.Reminders()
		resp := make([]reminderResponse, 0, len(rs))
		for _, rem := range rs {
			resp = append(resp, toReminder(rem))
		}
		c.JSON(http.StatusOK, resp)
	})

	r.POST("/reminders/scan", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		res := u.Dashboard.Scan(c.Request.Context())
		resp := scanResponse{
			Issued: make([]reminderResponse, 0, len(res.Issued)),
			Failed: make([]failureResponse, 0, len(res.Failed)),
		}
		for _, rem := range res.Issued {
			resp.Issued = append(resp.Issued, toReminder(rem))
		}
		for _, f := range res.Failed {
			resp.Failed = append(resp.Failed, failureResponse{
				SubscriptionID:   f.Subscription.ID,
				SubscriptionName: f.Subscription.Name,
				Error:            f.Err.Error(),
			})
		}
		c.JSON(http.StatusOK, resp)
	})
}

type notificationResponse struct {
	ID             string `json:"id"`
	Kind           string `json:"kind"`
	SubscriptionID string `json:"subscription_id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	RenewalDate    string `json:"renewal_date"`
	Cost           string `json:"cost"`
	CreatedAt      string `json:"created_at"`
}

func setupNotifications(r *gin.RouterGroup, u UseCases) {
	r.GET("/notifications", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		limit := 20
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > maxNotifications {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		var items []notify.Notification
		if u.Feed != nil {
			items = u.Feed.Recent(limit)
		}
		resp := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			resp = append(resp, notificationResponse{
				ID:             n.ID,
				Kind:           string(n.Kind),
				SubscriptionID: n.SubscriptionID,
				Title:          n.Title,
				Message:        n.Message,
				RenewalDate:    n.RenewalDate.Format(time.RFC3339),
				Cost:           n.Cost,
				CreatedAt:      n.CreatedAt.Format(time.RFC3339),
			})
		}
		c.JSON(http.StatusOK, resp)
	})
}

type settingsResponse struct {
	Currency     string   `json:"currency"`
	BaseCurrency string   `json:"base_currency"`
	Currencies   []string `json:"currencies"`
	ExchangeRate string   `json:"exchange_rate"`
}

func toSettings(s usecase.Settings) settingsResponse {
	codes := make([]string, 0, len(s.Currencies))
	for _, c := range s.Currencies {
		codes = append(codes, string(c))
	}
	return settingsResponse{
		Currency:     string(s.Currency),
		BaseCurrency: string(s.BaseCurrency),
		Currencies:   codes,
		ExchangeRate: s.ExchangeRate.String(),
	}
}

func setupSettings(r *gin.RouterGroup, u UseCases) {
	r.GET("/settings", func(c *gin.Context) {
		if !requireAcceptJSON(c) {
			return
		}
		c.JSON(http.StatusOK, toSettings(u.Dashboard.Settings()))
	})

	r.PUT("/settings", func(c *gin.Context) {
		if !requireAcceptJSON(c) || !requireJSONBody(c) {
			return
		}
		var input generated.SettingsInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.Validate(strfmt.Default); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		update := usecase.SettingsUpdate{Currency: input.Currency}
		if input.ExchangeRate != nil {
			rate := decimal.NewFromFloat(*input.ExchangeRate)
			update.ExchangeRate = &rate
		}
		settings, err := u.Dashboard.UpdateSettings(update)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, toSettings(settings))
	})

	r.OPTIONS("/settings", func(c *gin.Context) {
		c.Writer.Header().Set("Allow", "GET,PUT,OPTIONS")
		c.Status(http.StatusNoContent)
	})
}

func acceptsJSON(h string) bool {
	if h == "" || h == "*/*" {
		return true
	}
	parts := strings.Split(h, ",")
	for _, p := range parts {
		mt := strings.TrimSpace(strings.SplitN(p, ";", 2)[0])
		if mt == "application/json" || mt == "*/*" {
			return true
		}
	}
	return false
}

func requireAcceptJSON(c *gin.Context) bool {
	if acceptsJSON(c.GetHeader("Accept")) {
		return true
	}
	c.JSON(http.StatusNotAcceptable, gin.H{"error": "Accept application/json only"})
	return false
}
