package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nexusprep/assessd/internal/bank"
	"github.com/nexusprep/assessd/internal/builder"
	"github.com/nexusprep/assessd/internal/response"
	"github.com/nexusprep/assessd/internal/validator"
)

// CatalogHandler serves the operator-facing catalog surface: bank statistics
// and configuration previews for the recruiting side.
type CatalogHandler struct {
	bank *bank.Bank
	log  zerolog.Logger
}

// NewCatalogHandler wires the handler.
func NewCatalogHandler(b *bank.Bank, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		bank: b,
		log:  log.With().Str("component", "catalog_handler").Logger(),
	}
}

// Stats handles GET /api/v1/catalog/stats.
func (h *CatalogHandler) Stats(c *gin.Context) {
	response.Success(c, http.StatusOK, h.bank.Stats())
}

// PreviewConfiguration handles POST /api/v1/configurations/preview: it shows
// what assessment a candidate profile would produce without creating a
// session.
func (h *CatalogHandler) PreviewConfiguration(c *gin.Context) {
	var profile builder.Profile
	if fields := validator.Bind(c, &profile); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	cfg := builder.Build(profile)
	response.Success(c, http.StatusOK, gin.H{
		"configuration":     cfg,
		"programming_focus": builder.HasProgrammingFocus(profile.RequiredSkills),
	})
}
