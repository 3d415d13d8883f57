package v1

import (
	"net/http"

	"github.com/facturalo/facturalo/internal/api/dto"
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/service"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/gin-gonic/gin"
)

type SequenceHandler struct {
	sequenceService service.SequenceService
	logger          *logger.Logger
}

func NewSequenceHandler(sequenceService service.SequenceService, logger *logger.Logger) *SequenceHandler {
	return &SequenceHandler{
		sequenceService: sequenceService,
		logger:          logger,
	}
}

// CreateSequence godoc
// @Summary Register a numbering series
// @Description Register a new document numbering series
// @Tags Sequences
// @Accept json
// @Produce json
// @Param sequence body dto.CreateSequenceRequest true "Sequence details"
// @Success 201 {object} dto.SequenceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Router /sequences [post]
func (h *SequenceHandler) CreateSequence(c *gin.Context) {
	var req dto.CreateSequenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	seq, err := h.sequenceService.CreateSequence(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, seq)
}

// GetSequence godoc
// @Summary Get a numbering series
// @Description Get a numbering series by document type and series code
// @Tags Sequences
// @Accept json
// @Produce json
// @Param document_type path string true "Document type"
// @Param series path string true "Series"
// @Success 200 {object} dto.SequenceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /sequences/{document_type}/{series} [get]
func (h *SequenceHandler) GetSequence(c *gin.Context) {
	docType := types.DocumentType(c.Param("document_type"))
	series := c.Param("series")

	seq, err := h.sequenceService.GetSequence(c.Request.Context(), docType, series)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, seq)
}

// UpdateSequenceStatus godoc
// @Summary Activate or deactivate a numbering series
// @Description Toggle whether a series accepts new issuances
// @Tags Sequences
// @Accept json
// @Produce json
// @Param document_type path string true "Document type"
// @Param series path string true "Series"
// @Param status body dto.UpdateSequenceStatusRequest true "Status"
// @Success 200 {object} dto.SequenceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /sequences/{document_type}/{series}/status [put]
func (h *SequenceHandler) UpdateSequenceStatus(c *gin.Context) {
	docType := types.DocumentType(c.Param("document_type"))
	series := c.Param("series")

	var req dto.UpdateSequenceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}
	if err := req.Validate(); err != nil {
		c.Error(err)
		return
	}

	if err := h.sequenceService.SetSequenceActive(c.Request.Context(), docType, series, *req.IsActive); err != nil {
		c.Error(err)
		return
	}

	seq, err := h.sequenceService.GetSequence(c.Request.Context(), docType, series)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, seq)
}

// ListSequences godoc
// @Summary List numbering series
// @Description List numbering series with optional filtering
// @Tags Sequences
// @Accept json
// @Produce json
// @Param filter query types.SequenceFilter false "Filter"
// @Success 200 {object} dto.ListSequencesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /sequences [get]
func (h *SequenceHandler) ListSequences(c *gin.Context) {
	var filter types.SequenceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.Errorw("failed to bind query parameters", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid query parameters").Mark(ierr.ErrValidation))
		return
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}

	response, err := h.sequenceService.ListSequences(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response)
}
