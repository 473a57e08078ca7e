// Package handler exposes patient onboarding and queries over HTTP. All
// routes require an authenticated session; onboarding additionally requires
// the caller to be a provider.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/patient/domain"
	patientrepo "clinic-portal/backend/internal/patient/repository"
	"clinic-portal/backend/internal/patient/service"
	"clinic-portal/backend/internal/repository"
	"clinic-portal/backend/internal/security"
	"clinic-portal/backend/internal/server/middleware"
)

type createPatientRequest struct {
	Email      string    `json:"email" binding:"required,email"`
	Password   string    `json:"password" binding:"required"`
	ProviderID uuid.UUID `json:"provider_id" binding:"required"`
}

type patientResponse struct {
	ID         uuid.UUID `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	UserID     uuid.UUID `json:"user_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Email      string    `json:"email,omitempty"`
}

func toResponse(p domain.Patient, email string) patientResponse {
	return patientResponse{
		ID:         p.ID,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		UserID:     p.UserID,
		ProviderID: p.ProviderID,
		Email:      email,
	}
}

// Handler serves patient onboarding, lookup, and the paginated patient list.
type Handler struct {
	patients     *service.Service
	patientsRepo *patientrepo.PostgresRepository
	logger       *zap.Logger
}

func New(patients *service.Service, patientsRepo *patientrepo.PostgresRepository, logger *zap.Logger) *Handler {
	return &Handler{patients: patients, patientsRepo: patientsRepo, logger: logger}
}

// requireProvider resolves the authenticated user and checks the provider
// role. It writes the error response itself and returns false on failure.
func (h *Handler) requireProvider(c *gin.Context) bool {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
		return false
	}
	isProvider, err := h.patients.IsProvider(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Error("resolve provider", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "provider lookup failed"})
		return false
	}
	if !isProvider {
		c.JSON(http.StatusForbidden, gin.H{"detail": "provider account required"})
		return false
	}
	return true
}

// Create handles POST /patients. Only providers can onboard patients.
func (h *Handler) Create(c *gin.Context) {
	if !h.requireProvider(c) {
		return
	}

	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	account, err := h.patients.Register(c.Request.Context(), req.Email, req.Password, req.ProviderID)
	switch {
	case errors.Is(err, security.ErrWeakPassword):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrEmailAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"detail": "Patient with that email already registered."})
	case errors.Is(err, service.ErrProviderNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Provider not found."})
	case err != nil:
		h.logger.Error("create patient", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "patient registration failed"})
	default:
		c.JSON(http.StatusCreated, toResponse(account.Patient, account.Email))
	}
}

// Get handles GET /patients/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid patient id"})
		return
	}

	account, err := h.patients.Get(c.Request.Context(), id)
	switch {
	case errors.Is(err, service.ErrPatientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Patient not found."})
	case err != nil:
		h.logger.Error("get patient", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "patient lookup failed"})
	default:
		c.JSON(http.StatusOK, toResponse(account.Patient, account.Email))
	}
}

// List handles GET /patients?provider_id=&page=&page_size=. Only providers
// can list patients.
func (h *Handler) List(c *gin.Context) {
	if !h.requireProvider(c) {
		return
	}

	pageNum, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page must be an integer"})
		return
	}
	pageSize, err := intQuery(c, "page_size", repository.DefaultPageSize)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "page_size must be an integer"})
		return
	}
	p := repository.PaginationCriteria{Page: pageNum, PageSize: pageSize}

	var filters []repository.Criteria
	if raw := c.Query("provider_id"); raw != "" {
		providerID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "provider_id must be a UUID"})
			return
		}
		filters = append(filters, domain.ProviderIDFilter{ProviderID: providerID})
	}

	page, err := repository.Paginate[domain.Patient, domain.CreatePatient, domain.UpdatePatient](c.Request.Context(), h.patientsRepo, p, filters...)
	switch {
	case errors.Is(err, repository.ErrInvalidCriteria):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case err != nil:
		h.logger.Error("list patients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "listing patients failed"})
	default:
		items := make([]patientResponse, len(page.Items))
		for i, patient := range page.Items {
			items[i] = toResponse(patient, "")
		}
		c.JSON(http.StatusOK, gin.H{
			"data":        items,
			"page":        page.Page,
			"page_size":   page.PageSize,
			"total":       page.Total,
			"total_pages": page.TotalPages,
		})
	}
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
