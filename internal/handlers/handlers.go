// Package handlers exposes the persistence operations as HTTP commands,
// one route per user action. All errors cross this boundary as
// human-readable strings in an {"error": ...} body.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/SrClauss/balanco-silvanateodoro/internal/cache"
	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
	"github.com/SrClauss/balanco-silvanateodoro/internal/metrics"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
	"github.com/SrClauss/balanco-silvanateodoro/internal/repository"
)

const (
	defaultPage    = int64(1)
	defaultPerPage = int64(20)
)

// resource ties the persistence capability set to the ability to
// produce a copy carrying an assigned identifier.
type resource[T any] interface {
	repository.Entity
	WithID(primitive.ObjectID) T
}

// Resource serves the CRUD, list and search commands for one entity
// type. Product gets a thin wrapper on top for its derived queries.
type Resource[T resource[T]] struct {
	store database.Store
	cache *cache.Cache
	log   *zap.Logger

	// name is the collection name; doubles as the cache key prefix.
	name string

	// beforeSave runs ahead of create and update writes (product uses
	// it for the duplicate-code pre-check).
	beforeSave func(ctx context.Context, store database.Store, e T) error
}

func NewResource[T resource[T]](store database.Store, cch *cache.Cache, log *zap.Logger) *Resource[T] {
	var zero T
	name := zero.CollectionName()
	return &Resource[T]{
		store: store,
		cache: cch,
		log:   log.With(zap.String("entity", name)),
		name:  name,
	}
}

// Create inserts a new entity and returns it with the assigned id.
func (h *Resource[T]) Create(c *gin.Context) {
	var e T
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.beforeSave != nil {
		if err := h.beforeSave(ctx, h.store, e); err != nil {
			h.writeError(c, err)
			return
		}
	}

	defer metrics.TrackStoreOperation("create")(time.Now())
	id, err := repository.Create(ctx, h.store, e)
	if err != nil {
		h.logger(c).Error("create failed", zap.Error(err))
		h.writeError(c, err)
		return
	}

	h.invalidate()
	c.JSON(http.StatusCreated, e.WithID(id))
}

// Update replaces the stored document and fans the change out to
// dependent products. The response message reports both steps.
func (h *Resource[T]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var e T
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	e = e.WithID(id)

	ctx := c.Request.Context()
	if h.beforeSave != nil {
		if err := h.beforeSave(ctx, h.store, e); err != nil {
			h.writeError(c, err)
			return
		}
	}

	defer metrics.TrackStoreOperation("update")(time.Now())
	msg, err := repository.Update(ctx, h.store, e)
	if err != nil {
		h.logger(c).Error("update failed", zap.String("id", id.Hex()), zap.Error(err))
		h.writeError(c, err)
		return
	}
	// products have no dependents; counting their no-op syncs would
	// only pad the metric
	productsName := models.Product{}.CollectionName()
	if h.name != productsName {
		metrics.RecordProductSync(h.name)
	}

	h.invalidate()
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// Delete removes the entity. Embedded copies in products are left in
// place and go stale.
func (h *Resource[T]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	e, err := repository.GetByID[T](ctx, h.store, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	defer metrics.TrackStoreOperation("delete")(time.Now())
	if _, err := repository.Delete(ctx, h.store, *e); err != nil {
		h.logger(c).Error("delete failed", zap.String("id", id.Hex()), zap.Error(err))
		h.writeError(c, err)
		return
	}

	h.invalidate()
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetByID returns a single entity, served from cache when fresh.
func (h *Resource[T]) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	key := h.name + ":id:" + id.Hex()
	if cached, found := h.cache.GetValue(key); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	e, err := repository.GetByID[T](c.Request.Context(), h.store, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if e == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.cache.Set(key, e)
	c.JSON(http.StatusOK, e)
}

// List returns one page plus the total collection count.
func (h *Resource[T]) List(c *gin.Context) {
	page, perPage := pageParams(c)

	key := fmt.Sprintf("%s:list:p%d_s%d", h.name, page, perPage)
	if cached, found := h.cache.GetValue(key); found {
		c.JSON(http.StatusOK, cached)
		return
	}

	items, total, err := repository.ListPaginated[T](c.Request.Context(), h.store, page, perPage)
	if err != nil {
		h.logger(c).Error("list failed", zap.Error(err))
		h.writeError(c, err)
		return
	}

	envelope := gin.H{"items": items, "total": total}
	h.cache.Set(key, envelope)
	c.JSON(http.StatusOK, envelope)
}

type searchRequest struct {
	Attribute string      `json:"attribute" binding:"required"`
	Value     interface{} `json:"value"`
	Page      int64       `json:"page"`
	PerPage   int64       `json:"per_page"`
}

// Search filters on a single caller-supplied attribute path. Nested
// paths (supplier._id, tags._id) are part of the contract.
func (h *Resource[T]) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: " + err.Error()})
		return
	}
	if req.Page < 1 {
		req.Page = defaultPage
	}
	if req.PerPage < 1 {
		req.PerPage = defaultPerPage
	}

	items, total, err := repository.FilterByAttribute[T](c.Request.Context(), h.store, req.Attribute, req.Value, req.Page, req.PerPage)
	if err != nil {
		h.logger(c).Error("search failed", zap.String("attribute", req.Attribute), zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// invalidate drops this entity's cached pages and the product pages,
// since dependent syncs rewrite product documents.
func (h *Resource[T]) invalidate() {
	h.cache.DeleteByPrefix(h.name + ":")
	h.cache.DeleteByPrefix(models.Product{}.CollectionName() + ":")
}

// logger returns the entity logger enriched with the request id set by
// the middleware, so log lines correlate with the X-Request-ID header.
func (h *Resource[T]) logger(c *gin.Context) *zap.Logger {
	if id := c.GetString("request_id"); id != "" {
		return h.log.With(zap.String("request_id", id))
	}
	return h.log
}

func (h *Resource[T]) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, repository.ErrMissingID), errors.Is(err, repository.ErrSerialize):
		status = http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateCode):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id: " + c.Param("id")})
		return primitive.NilObjectID, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int64, int64) {
	page, err := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	if err != nil || page < 1 {
		page = defaultPage
	}
	perPage, err := strconv.ParseInt(c.DefaultQuery("per_page", "20"), 10, 64)
	if err != nil || perPage < 1 {
		perPage = defaultPerPage
	}
	return page, perPage
}
