package handlers

import (
	"github.com/gin-gonic/gin"

	"medicos-platform-server/internal/store"
	"medicos-platform-server/internal/utils"
)

// SpecialtyHandler handles medical specialty reference data requests.
type SpecialtyHandler struct {
	Cache *store.SpecialtyCache
}

// NewSpecialtyHandler creates a new SpecialtyHandler.
func NewSpecialtyHandler(cache *store.SpecialtyCache) *SpecialtyHandler {
	return &SpecialtyHandler{Cache: cache}
}

// GetSpecialties handles fetching the active specialties for selection
// controls. Served from cache after the first fetch.
func (h *SpecialtyHandler) GetSpecialties(c *gin.Context) {
	specialties, err := h.Cache.List(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch specialties: "+err.Error())
		return
	}

	utils.Success(c, "Specialties fetched successfully", specialties)
}

// RefreshSpecialties handles an explicit reference-data reload.
func (h *SpecialtyHandler) RefreshSpecialties(c *gin.Context) {
	specialties, err := h.Cache.Reload(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to refresh specialties: "+err.Error())
		return
	}

	utils.Success(c, "Specialties refreshed successfully", specialties)
}
