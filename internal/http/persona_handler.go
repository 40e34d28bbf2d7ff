package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-engine/internal/domain"
	"persona-engine/internal/service"
)

// PersonaHandler mantiene dependencias para los endpoints de personas.
type PersonaHandler struct {
	logger   *zap.Logger
	personas *service.PersonaService
}

func NewPersonaHandler(logger *zap.Logger, personas *service.PersonaService) *PersonaHandler {
	return &PersonaHandler{
		logger:   logger,
		personas: personas,
	}
}

// Envelope de respuesta del API:
// exito {"status":"success","data":...}, error {"status":"error","message":...}.
func successBody(data any, message string) gin.H {
	body := gin.H{"status": "success", "data": data}
	if message != "" {
		body["message"] = message
	}
	return body
}

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "message": message}
}

// respondError mapea la taxonomia de errores del dominio a codigos HTTP.
func (h *PersonaHandler) respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrPersonaNotFound):
		c.JSON(http.StatusNotFound, errorBody("persona not found"))
	default:
		h.logger.Error("persona request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("internal server error"))
	}
}

// GetPersona maneja GET /api/personas/:user_id.
func (h *PersonaHandler) GetPersona(c *gin.Context) {
	userID := c.Param("user_id")

	persona, err := h.personas.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successBody(persona, ""))
}

// CreatePersona maneja POST /api/personas/ (create-or-fetch idempotente).
func (h *PersonaHandler) CreatePersona(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create persona request", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody("user_id is required"))
		return
	}

	persona, err := h.personas.GetOrCreate(c.Request.Context(), req.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successBody(persona, "persona created"))
}

// UpdateTrait maneja PUT /api/personas/:user_id.
func (h *PersonaHandler) UpdateTrait(c *gin.Context) {
	userID := c.Param("user_id")

	var req struct {
		Trait string   `json:"trait" binding:"required"`
		Value *float64 `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update trait request", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody("trait and value are required"))
		return
	}

	persona, err := h.personas.UpdateTrait(c.Request.Context(), userID, req.Trait, *req.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, successBody(persona, "trait '"+req.Trait+"' updated"))
}

// ListPersonas maneja GET /api/personas/ con paginacion limit/offset.
func (h *PersonaHandler) ListPersonas(c *gin.Context) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("limit must be an integer"))
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("offset must be an integer"))
		return
	}

	personas, err := h.personas.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if personas == nil {
		personas = []domain.Persona{}
	}

	c.JSON(http.StatusOK, successBody(personas, ""))
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
