package city

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbd888/cityinfo/internal/auth"
	"github.com/mbd888/cityinfo/internal/logging"
	"github.com/mbd888/cityinfo/internal/metrics"
)

// RequireTenant returns middleware enforcing tenant isolation on
// point-of-interest routes: the caller's city claim must equal the target
// city's name. The guard runs before any existence check, uniformly across
// all guarded routes, so non-tenants always see 403 and never learn whether
// the city exists. A nonexistent city also yields 403 here, since no claim
// can match its name.
func RequireTenant(store Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cityID, err := strconv.ParseInt(c.Param("cityId"), 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error": "not_found", "message": "city not found",
			})
			return
		}

		claim := auth.CityClaim(c)
		repo := NewRepository(store)
		ok, err := repo.CityNameMatchesCityID(c.Request.Context(), claim, cityID)
		if err != nil {
			logging.L(c.Request.Context()).Error("tenant guard lookup failed", "error", err, "city_id", cityID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal_error", "message": "An unexpected error occurred",
			})
			return
		}
		if !ok {
			metrics.TenantDenialsTotal.Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "forbidden", "message": "you are not authorized for this city",
			})
			return
		}

		c.Next()
	}
}
