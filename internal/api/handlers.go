package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/apperrors"
	"github.com/omerorhan/hedging-calculator/internal/country"
	"github.com/omerorhan/hedging-calculator/internal/service"
)

type hedgeHandler struct {
	calc *service.HedgeCalculator
}

type countryResponse struct {
	Country  country.Country `json:"country"`
	Currency string          `json:"currency"`
}

type resolveResponse struct {
	Input string `json:"input"`
	countryResponse
}

type payableResponse struct {
	Rates   service.KeyRates      `json:"rates"`
	Payable service.PayableResult `json:"payable"`
}

type receivableResponse struct {
	Rates      service.KeyRates         `json:"rates"`
	Receivable service.ReceivableResult `json:"receivable"`
}

// NewRouter builds the HTTP API around calc. Every request runs in its own calculator session.
func NewRouter(calc *service.HedgeCalculator, lg *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogging(lg))

	h := &hedgeHandler{calc: calc}

	r.GET("/healthz", h.health)

	v1 := r.Group("/api/v1")
	{
		countries := v1.Group("/countries")
		countries.GET("", h.listCountries)
		countries.GET("/resolve", h.resolveCountry)

		hedges := v1.Group("/hedges")
		hedges.POST("/payable", h.payable)
		hedges.POST("/receivable", h.receivable)
		hedges.POST("/report", h.report)
	}
	return r
}

func (h *hedgeHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *hedgeHandler) listCountries(c *gin.Context) {
	resolver := h.calc.Resolver()
	out := make([]countryResponse, 0, len(resolver.Supported()))
	for _, ct := range resolver.Supported() {
		code, err := resolver.Currency(ct)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, countryResponse{Country: ct, Currency: code})
	}
	c.JSON(http.StatusOK, out)
}

func (h *hedgeHandler) resolveCountry(c *gin.Context) {
	name := c.Query("name")
	ct, err := h.calc.ResolveCountry(name)
	if err != nil {
		respondError(c, err)
		return
	}
	code, err := h.calc.Resolver().Currency(ct)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolveResponse{Input: name, countryResponse: countryResponse{Country: ct, Currency: code}})
}

func bindHedgeRequest(c *gin.Context) (service.HedgeRequest, bool) {
	var req service.HedgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: invalid request format: %v", apperrors.ErrInvalidInput, err))
		return req, false
	}
	loggerFrom(c).Info("hedge requested",
		zap.String("amount", req.Amount.String()),
		zap.String("domestic", req.Domestic),
		zap.String("foreign", req.Foreign),
	)
	return req, true
}

func (h *hedgeHandler) payable(c *gin.Context) {
	req, ok := bindHedgeRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	calc := h.calc.NewSession()

	result, err := calc.CalculatePayable(ctx, req.Amount, req.Domestic, req.Foreign)
	if err != nil {
		respondError(c, err)
		return
	}
	// Served from the session cache filled by the calculation.
	rates, err := calc.KeyRates(ctx, req.Domestic, req.Foreign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payableResponse{Rates: rates, Payable: result})
}

func (h *hedgeHandler) receivable(c *gin.Context) {
	req, ok := bindHedgeRequest(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	calc := h.calc.NewSession()

	result, err := calc.CalculateReceivable(ctx, req.Amount, req.Domestic, req.Foreign)
	if err != nil {
		respondError(c, err)
		return
	}
	rates, err := calc.KeyRates(ctx, req.Domestic, req.Foreign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receivableResponse{Rates: rates, Receivable: result})
}

func (h *hedgeHandler) report(c *gin.Context) {
	req, ok := bindHedgeRequest(c)
	if !ok {
		return
	}
	report, err := h.calc.NewSession().GenerateCombinedReport(c.Request.Context(), req.Amount, req.Domestic, req.Foreign)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, report)
}
