package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
)

func paginatorFromQuery(c *gin.Context) *repository.Paginator {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	return repository.NewPaginator(limit, page)
}

func listResponse(c *gin.Context, records []domain.Record, pg *repository.Paginator) {
	c.JSON(http.StatusOK, gin.H{"data": records, "pagination": pg})
}

func fieldErrorsResponse(c *gin.Context, ferrs domain.FieldErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": ferrs})
}

// errorResponse maps the repository's error taxonomy onto HTTP statuses.
// Unexpected errors surface as a generic message, never internal detail.
func errorResponse(c *gin.Context, err error) {
	var notBookable *repository.NotBookableError
	switch {
	case errors.As(err, &notBookable):
		c.JSON(http.StatusConflict, gin.H{"error": notBookable.Reason})
	case errors.Is(err, repository.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, domain.ErrUnknownKind):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrInputOutOfRange), errors.Is(err, domain.ErrBadKindInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
