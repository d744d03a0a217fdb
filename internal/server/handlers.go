package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/martinkhristi/sambanova-product-recomodation/internal/catalog"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/recommend"
	"github.com/martinkhristi/sambanova-product-recomodation/internal/session"
)

// RecommendService is the operation behind POST /api/recommendations.
// Implemented by recommend.Recommender.
type RecommendService interface {
	Recommend(ctx context.Context, prefs catalog.Preferences) (session.Session, error)
	Configured() bool
}

// SessionReader is the read side of the session store.
type SessionReader interface {
	Get(id string) (session.Session, error)
	List() ([]session.Session, error)
}

// RecommendHandler handles the recommendation endpoints.
type RecommendHandler struct {
	svc    RecommendService
	logger *zap.Logger
}

func NewRecommendHandler(svc RecommendService, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{svc: svc, logger: logger}
}

// Recommend handles POST /api/recommendations.
func (h *RecommendHandler) Recommend(c *gin.Context) {
	var prefs catalog.Preferences
	if !BindJSON(c, &prefs) {
		return
	}
	sess, err := h.svc.Recommend(c.Request.Context(), prefs)
	if err != nil {
		switch {
		case errors.Is(err, recommend.ErrNotConfigured):
			RespondError(c, http.StatusServiceUnavailable, err)
		case errors.Is(err, recommend.ErrInvalidPreferences):
			RespondError(c, http.StatusBadRequest, err)
		default:
			h.logger.Error("recommendation failed", zap.Error(err))
			RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	c.JSON(http.StatusOK, sess)
}

// CategoriesHandler serves the catalog so the UI can build its pickers.
type CategoriesHandler struct{}

func NewCategoriesHandler() *CategoriesHandler {
	return &CategoriesHandler{}
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": catalog.All(),
		"names":      catalog.Names(),
		"max_budget": catalog.MaxBudget,
	})
}

// SessionHandler serves past recommendation runs.
type SessionHandler struct {
	store SessionReader
}

func NewSessionHandler(store SessionReader) *SessionHandler {
	return &SessionHandler{store: store}
}

// Get handles GET /api/sessions/:id.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

// List handles GET /api/sessions.
func (h *SessionHandler) List(c *gin.Context) {
	sessions, err := h.store.List()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
