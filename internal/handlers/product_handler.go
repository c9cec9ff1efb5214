package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/SrClauss/balanco-silvanateodoro/internal/cache"
	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
	"github.com/SrClauss/balanco-silvanateodoro/internal/repository"
)

// ProductHandler adds the product-only commands (code allocation and
// the derived queries) on top of the shared resource handler. Create
// and update go through the duplicate-code pre-check.
type ProductHandler struct {
	*Resource[models.Product]
}

func NewProductHandler(store database.Store, cch *cache.Cache, log *zap.Logger) *ProductHandler {
	r := NewResource[models.Product](store, cch, log)
	r.beforeSave = func(ctx context.Context, store database.Store, p models.Product) error {
		return p.EnsureUniqueCode(ctx, store)
	}
	return &ProductHandler{Resource: r}
}

// NextCode returns the next free numeric internal code. The value is
// not reserved; the duplicate check on save is the backstop.
func (h *ProductHandler) NextCode(c *gin.Context) {
	code, err := models.NextInternalCode(c.Request.Context(), h.store)
	if err != nil {
		h.logger(c).Error("next code failed", zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

// ByDescription pages products whose description contains the query,
// case-insensitively.
func (h *ProductHandler) ByDescription(c *gin.Context) {
	page, perPage := pageParams(c)
	value := primitive.Regex{Pattern: c.Query("q"), Options: "i"}
	h.filtered(c, "description", value, page, perPage)
}

// ByBrand pages products holding the exact brand name.
func (h *ProductHandler) ByBrand(c *gin.Context) {
	page, perPage := pageParams(c)
	h.filtered(c, "brand", c.Query("name"), page, perPage)
}

// BySupplier pages products embedding the given supplier.
func (h *ProductHandler) BySupplier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, perPage := pageParams(c)
	h.filtered(c, "supplier._id", id, page, perPage)
}

type byTagsRequest struct {
	TagIDs  []string `json:"tag_ids" binding:"required"`
	Page    int64    `json:"page"`
	PerPage int64    `json:"per_page"`
}

// ByTags pages products whose tags array contains every requested tag.
func (h *ProductHandler) ByTags(c *gin.Context) {
	var req byTagsRequest
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

	ids := make(bson.A, 0, len(req.TagIDs))
	for _, raw := range req.TagIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	h.filtered(c, "tags._id", bson.M{"$all": ids}, req.Page, req.PerPage)
}

func (h *ProductHandler) filtered(c *gin.Context, attribute string, value interface{}, page, perPage int64) {
	items, total, err := repository.FilterByAttribute[models.Product](c.Request.Context(), h.store, attribute, value, page, perPage)
	if err != nil {
		h.logger(c).Error("product filter failed", zap.String("attribute", attribute), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}
