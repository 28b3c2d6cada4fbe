package city

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/cityinfo/internal/logging"
	"github.com/mbd888/cityinfo/internal/metrics"
	"github.com/mbd888/cityinfo/internal/notify"
	"github.com/mbd888/cityinfo/internal/traces"
	"github.com/mbd888/cityinfo/internal/validation"
)

const defaultPageSize = 10

// Handler provides the HTTP endpoints for cities and their points of
// interest. Each request gets its own Repository over the shared store;
// nothing request-scoped outlives the handler call.
type Handler struct {
	store  Store
	mailer notify.Mailer
}

// NewHandler creates a city handler.
func NewHandler(store Store, mailer notify.Mailer) *Handler {
	return &Handler{store: store, mailer: mailer}
}

// RegisterCityRoutes sets up the unversioned city routes.
func (h *Handler) RegisterCityRoutes(r *gin.RouterGroup) {
	r.GET("/cities", h.ListCities)
	r.GET("/cities/:cityId", h.GetCity)
}

// RegisterPointOfInterestRoutes sets up the tenant-guarded point-of-interest
// routes. Called once per API version group.
func (h *Handler) RegisterPointOfInterestRoutes(r *gin.RouterGroup) {
	poi := r.Group("/cities/:cityId/pointsofinterest", RequireTenant(h.store))
	poi.GET("", h.ListPointsOfInterest)
	poi.GET("/:poiId", h.GetPointOfInterest)
	poi.POST("", h.CreatePointOfInterest)
	poi.PUT("/:poiId", h.UpdatePointOfInterest)
	poi.PATCH("/:poiId", h.PartiallyUpdatePointOfInterest)
	poi.DELETE("/:poiId", h.DeletePointOfInterest)
}

// ---------- City endpoints ----------

// ListCities handles GET /cities with optional name and searchQuery filters
// plus pageNum/pageSize. Pagination metadata travels in the X-Pagination
// header to keep the body a plain list.
func (h *Handler) ListCities(c *gin.Context) {
	pageNum := intQuery(c, "pageNum", 1)
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := intQuery(c, "pageSize", defaultPageSize)
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	f := Filter{
		Name:        validation.SanitizeString(c.Query("name"), MaxNameLength),
		SearchQuery: validation.SanitizeString(c.Query("searchQuery"), MaxDescriptionLength),
	}

	repo := NewRepository(h.store)
	cities, meta, err := repo.ListCities(c.Request.Context(), f, pageNum, pageSize)
	if err != nil {
		logging.L(c.Request.Context()).Error("list cities failed", "error", err)
		internalError(c)
		return
	}

	header, err := json.Marshal(meta)
	if err != nil {
		internalError(c)
		return
	}
	c.Header("X-Pagination", string(header))

	c.JSON(http.StatusOK, NewCityListResponse(cities))
}

// GetCity handles GET /cities/:cityId. includePoi controls whether the
// response carries the owned points of interest.
func (h *Handler) GetCity(c *gin.Context) {
	cityID, ok := cityIDParam(c)
	if !ok {
		return
	}
	includePoi, _ := strconv.ParseBool(c.DefaultQuery("includePoi", "false"))

	repo := NewRepository(h.store)
	city, err := repo.GetCity(c.Request.Context(), cityID, includePoi)
	if err != nil {
		logging.L(c.Request.Context()).Error("get city failed", "error", err, "city_id", cityID)
		internalError(c)
		return
	}
	if city == nil {
		notFound(c, "city not found")
		return
	}

	if includePoi {
		c.JSON(http.StatusOK, NewCityDetailResponse(*city))
		return
	}
	c.JSON(http.StatusOK, NewCityResponse(*city))
}

// ---------- Point-of-interest endpoints ----------
// All of these run behind RequireTenant; the guard has already returned 403
// for callers whose city claim does not match. The existence checks below
// cover the remaining 404 cases.

// ListPointsOfInterest handles GET .../pointsofinterest.
func (h *Handler) ListPointsOfInterest(c *gin.Context) {
	cityID, ok := cityIDParam(c)
	if !ok {
		return
	}

	repo := NewRepository(h.store)
	exists, err := repo.CityExists(c.Request.Context(), cityID)
	if err != nil {
		internalError(c)
		return
	}
	if !exists {
		logging.L(c.Request.Context()).Info("city not found when listing points of interest", "city_id", cityID)
		notFound(c, "city not found")
		return
	}

	pois, err := repo.ListPointsOfInterest(c.Request.Context(), cityID)
	if err != nil {
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, NewPointOfInterestListResponse(pois))
}

// GetPointOfInterest handles GET .../pointsofinterest/:poiId.
func (h *Handler) GetPointOfInterest(c *gin.Context) {
	_, _, _, poi, ok := h.fetchPointOfInterest(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, NewPointOfInterestResponse(*poi))
}

// CreatePointOfInterest handles POST .../pointsofinterest.
func (h *Handler) CreatePointOfInterest(c *gin.Context) {
	cityID, ok := cityIDParam(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "malformed request body"})
		return
	}

	candidate := PointOfInterestUpdate{Name: req.Name, Description: req.Description}
	if errs := candidate.Validate(); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "city.CreatePointOfInterest", traces.CityID(cityID))
	defer span.End()

	repo := NewRepository(h.store)
	exists, err := repo.CityExists(ctx, cityID)
	if err != nil {
		internalError(c)
		return
	}
	if !exists {
		notFound(c, "city not found")
		return
	}

	poi := &PointOfInterest{Name: req.Name, Description: req.Description}
	if err := repo.AddPointOfInterest(ctx, cityID, poi); err != nil {
		if err == ErrCityNotFound {
			notFound(c, "city not found")
			return
		}
		internalError(c)
		return
	}
	if _, err := repo.Commit(ctx); err != nil {
		logging.L(ctx).Error("commit failed creating point of interest", "error", err, "city_id", cityID)
		internalError(c)
		return
	}

	metrics.PointOfInterestOpsTotal.WithLabelValues("create").Inc()

	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, poi.ID))
	c.JSON(http.StatusCreated, NewPointOfInterestResponse(*poi))
}

// UpdatePointOfInterest handles PUT .../pointsofinterest/:poiId, a full
// replace of the writable fields.
func (h *Handler) UpdatePointOfInterest(c *gin.Context) {
	cityID, poiID, repo, poi, ok := h.fetchPointOfInterest(c)
	if !ok {
		return
	}

	var req PointOfInterestUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "malformed request body"})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "city.UpdatePointOfInterest",
		traces.CityID(cityID), traces.PointOfInterestID(poiID))
	defer span.End()

	req.ApplyTo(poi)
	repo.UpdatePointOfInterest(*poi)
	if _, err := repo.Commit(ctx); err != nil {
		logging.L(ctx).Error("commit failed updating point of interest", "error", err, "poi_id", poiID)
		internalError(c)
		return
	}

	metrics.PointOfInterestOpsTotal.WithLabelValues("update").Inc()
	c.Status(http.StatusNoContent)
}

// PartiallyUpdatePointOfInterest handles PATCH .../pointsofinterest/:poiId.
// The body is an ordered sequence of field operations applied to a
// projection of the stored entity; the result is validated as a whole
// before anything is staged, so a rejected patch changes nothing.
func (h *Handler) PartiallyUpdatePointOfInterest(c *gin.Context) {
	cityID, poiID, repo, poi, ok := h.fetchPointOfInterest(c)
	if !ok {
		return
	}

	var ops []PatchOperation
	if err := c.ShouldBindJSON(&ops); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "malformed patch document"})
		return
	}

	candidate, err := ApplyPatch(UpdateOf(*poi), ops)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_patch", "message": err.Error()})
		return
	}
	if errs := candidate.Validate(); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "city.PatchPointOfInterest",
		traces.CityID(cityID), traces.PointOfInterestID(poiID))
	defer span.End()

	candidate.ApplyTo(poi)
	repo.UpdatePointOfInterest(*poi)
	if _, err := repo.Commit(ctx); err != nil {
		logging.L(ctx).Error("commit failed patching point of interest", "error", err, "poi_id", poiID)
		internalError(c)
		return
	}

	metrics.PointOfInterestOpsTotal.WithLabelValues("patch").Inc()
	c.Status(http.StatusNoContent)
}

// DeletePointOfInterest handles DELETE .../pointsofinterest/:poiId and
// dispatches a mail notification after the delete is durable.
func (h *Handler) DeletePointOfInterest(c *gin.Context) {
	cityID, poiID, repo, poi, ok := h.fetchPointOfInterest(c)
	if !ok {
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "city.DeletePointOfInterest",
		traces.CityID(cityID), traces.PointOfInterestID(poiID))
	defer span.End()

	repo.DeletePointOfInterest(*poi)
	if _, err := repo.Commit(ctx); err != nil {
		logging.L(ctx).Error("commit failed deleting point of interest", "error", err, "poi_id", poiID)
		internalError(c)
		return
	}

	metrics.PointOfInterestOpsTotal.WithLabelValues("delete").Inc()

	// Best-effort notification; never blocks or fails the request.
	subject := "Point of interest deleted."
	body := fmt.Sprintf("Point of interest %q with id %d has been deleted.", poi.Name, poi.ID)
	logger := logging.L(ctx)
	go func() {
		if err := h.mailer.Send(context.Background(), subject, body); err != nil {
			metrics.NotificationsTotal.WithLabelValues("error").Inc()
			logger.Warn("delete notification failed", "error", err)
			return
		}
		metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	}()

	c.Status(http.StatusNoContent)
}

// ---------- Shared plumbing ----------

// fetchPointOfInterest runs the common prologue of the single-POI
// endpoints: parse IDs, check the city exists, fetch the entity scoped to
// that city. When ok is false a response has already been written.
func (h *Handler) fetchPointOfInterest(c *gin.Context) (cityID, poiID int64, repo *Repository, poi *PointOfInterest, ok bool) {
	cityID, idOK := cityIDParam(c)
	if !idOK {
		return 0, 0, nil, nil, false
	}
	poiID, err := strconv.ParseInt(c.Param("poiId"), 10, 64)
	if err != nil {
		notFound(c, "point of interest not found")
		return 0, 0, nil, nil, false
	}

	repo = NewRepository(h.store)
	exists, err := repo.CityExists(c.Request.Context(), cityID)
	if err != nil {
		internalError(c)
		return 0, 0, nil, nil, false
	}
	if !exists {
		notFound(c, "city not found")
		return 0, 0, nil, nil, false
	}

	poi, err = repo.GetPointOfInterest(c.Request.Context(), cityID, poiID)
	if err != nil {
		internalError(c)
		return 0, 0, nil, nil, false
	}
	if poi == nil {
		notFound(c, "point of interest not found")
		return 0, 0, nil, nil, false
	}

	return cityID, poiID, repo, poi, true
}

func cityIDParam(c *gin.Context) (int64, bool) {
	cityID, err := strconv.ParseInt(c.Param("cityId"), 10, 64)
	if err != nil {
		notFound(c, "city not found")
		return 0, false
	}
	return cityID, true
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not_found", "message": msg})
}

func internalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": "internal_error", "message": "An unexpected error occurred",
	})
}

func validationFailed(c *gin.Context, errs validation.ValidationErrors) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": errs})
}
