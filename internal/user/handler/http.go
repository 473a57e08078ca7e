// Package handler exposes user queries over HTTP.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"clinic-portal/backend/internal/repository"
	"clinic-portal/backend/internal/server/middleware"
	"clinic-portal/backend/internal/user/domain"
	userrepo "clinic-portal/backend/internal/user/repository"
)

// userResponse is the public user shape; the password hash never leaves the
// service.
type userResponse struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `json:"email"`
}

func toResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		Email:     u.Email,
	}
}

// Handler serves the current user and the paginated user list.
type Handler struct {
	users  *userrepo.PostgresRepository
	logger *zap.Logger
}

func New(users *userrepo.PostgresRepository, logger *zap.Logger) *Handler {
	return &Handler{users: users, logger: logger}
}

// Me handles GET /users/me for the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, toResponse(*user))
}

// List handles GET /users?page=&page_size=&order_by=&order=.
func (h *Handler) List(c *gin.Context) {
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
	if col := c.Query("order_by"); col != "" {
		dir := repository.Asc
		if c.Query("order") == "desc" {
			dir = repository.Desc
		}
		filters = append(filters, repository.OrderCriteria{Column: col, Direction: dir})
	}

	page, err := repository.Paginate[domain.User, domain.CreateUser, domain.UpdateUser](c.Request.Context(), h.users, p, filters...)
	switch {
	case errors.Is(err, repository.ErrInvalidCriteria):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
	case err != nil:
		h.logger.Error("list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "listing users failed"})
	default:
		items := make([]userResponse, len(page.Items))
		for i, u := range page.Items {
			items[i] = toResponse(u)
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
