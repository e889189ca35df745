package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/scafi/integration-backend/internal/domain/relay"
	"github.com/scafi/integration-backend/internal/interfaces/http/dto"
)

// PartySubmitter relays a counterparty record to the ERP.
type PartySubmitter interface {
	Submit(ctx context.Context, rec *relay.PartyRecord) relay.ServiceResult
}

// InvoiceSubmitter relays an invoice to the ERP.
type InvoiceSubmitter interface {
	Submit(ctx context.Context, inv *relay.Invoice) relay.ServiceResult
}

// IntegrationHandler exposes the two document submission operations.
// Submission outcomes always travel in the response body as a
// ServiceResult; HTTP status stays 200 for any outcome the workflow
// produced, since the workflow itself never raises.
type IntegrationHandler struct {
	parties  PartySubmitter
	invoices InvoiceSubmitter
	logger   *zap.Logger
}

func NewIntegrationHandler(parties PartySubmitter, invoices InvoiceSubmitter, logger *zap.Logger) *IntegrationHandler {
	return &IntegrationHandler{parties: parties, invoices: invoices, logger: logger}
}

// RegisterRoutes registers the submission endpoints on the given group.
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	integration := rg.Group("/integration")
	{
		integration.POST("/anagrafiche", h.SubmitParty)
		integration.POST("/fatture", h.SubmitInvoice)
	}
}

// SubmitParty handles POST /integration/anagrafiche.
func (h *IntegrationHandler) SubmitParty(c *gin.Context) {
	var req dto.PartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
		return
	}

	result := h.parties.Submit(c.Request.Context(), req.ToDomain())
	c.JSON(http.StatusOK, result)
}

// SubmitInvoice handles POST /integration/fatture.
func (h *IntegrationHandler) SubmitInvoice(c *gin.Context) {
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
		return
	}

	result := h.invoices.Submit(c.Request.Context(), req.ToDomain())
	c.JSON(http.StatusOK, result)
}
