package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orenshv/flightsdb/internal/domain"
	"github.com/orenshv/flightsdb/internal/repository"
)

// EntityStore is the generic CRUD surface of the repository exposed to the
// administrative entity endpoints.
type EntityStore interface {
	GetByID(ctx context.Context, kind domain.Kind, id int64) (domain.Record, error)
	ListAll(ctx context.Context, kind domain.Kind, pg *repository.Paginator) ([]domain.Record, error)
	Create(ctx context.Context, kind domain.Kind, fields domain.Record) (domain.Record, domain.FieldErrors, error)
	Update(ctx context.Context, kind domain.Kind, id int64, fields domain.Record) (domain.Record, domain.FieldErrors, error)
	Delete(ctx context.Context, kind domain.Kind, id int64) (bool, error)
	BulkCreate(ctx context.Context, kind domain.Kind, elements []domain.Record) ([]domain.Record, []repository.FailedCreate, error)
}

// EntityHandler exposes the repository's uniform CRUD across every entity
// kind. The kind segment accepts a kind name or its index.
type EntityHandler struct {
	store EntityStore
}

func NewEntityHandler(store EntityStore) *EntityHandler {
	return &EntityHandler{store: store}
}

func (h *EntityHandler) Register(router *gin.RouterGroup) {
	router.GET("/:kind", h.list)
	router.GET("/:kind/:id", h.get)
	router.POST("/:kind", h.create)
	router.POST("/:kind/bulk", h.bulkCreate)
	router.PATCH("/:kind/:id", h.update)
	router.DELETE("/:kind/:id", h.remove)
}

func (h *EntityHandler) kindParam(c *gin.Context) (domain.Kind, bool) {
	kind, err := domain.ParseKind(c.Param("kind"))
	if err != nil {
		errorResponse(c, err)
		return 0, false
	}
	return kind, true
}

func (h *EntityHandler) list(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	pg := paginatorFromQuery(c)
	records, err := h.store.ListAll(c.Request.Context(), kind, pg)
	if err != nil {
		errorResponse(c, err)
		return
	}
	listResponse(c, records, pg)
}

func (h *EntityHandler) get(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	record, err := h.store.GetByID(c.Request.Context(), kind, id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if len(record) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "instance not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *EntityHandler) create(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	var fields domain.Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, ferrs, err := h.store.Create(c.Request.Context(), kind, fields)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if ferrs != nil {
		fieldErrorsResponse(c, ferrs)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *EntityHandler) bulkCreate(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	var elements []domain.Record
	if err := c.ShouldBindJSON(&elements); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, failed, err := h.store.BulkCreate(c.Request.Context(), kind, elements)
	if err != nil {
		errorResponse(c, err)
		return
	}
	status := http.StatusCreated
	if len(failed) > 0 {
		status = http.StatusMultiStatus
	}
	c.JSON(status, gin.H{"created": created, "failed": failed})
}

func (h *EntityHandler) update(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var fields domain.Record
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	record, ferrs, err := h.store.Update(c.Request.Context(), kind, id, fields)
	if err != nil {
		errorResponse(c, err)
		return
	}
	if ferrs != nil {
		fieldErrorsResponse(c, ferrs)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (h *EntityHandler) remove(c *gin.Context) {
	kind, ok := h.kindParam(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	removed, err := h.store.Delete(c.Request.Context(), kind, id)
	if err != nil {
		errorResponse(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": removed})
}
