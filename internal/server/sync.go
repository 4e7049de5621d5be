package server

import (
	reconcilerdomain "github.com/billforgelabs/billforge/internal/reconciler/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Sync Package Tiers
// @Description  Reconcile local package tiers with the external billing system
// @Tags         package_tiers
// @Accept       json
// @Produce      json
// @Param        request body reconcilerdomain.SyncRequest false "Tier selection; empty syncs all active tiers"
// @Success      200  {object}  DataResponse
// @Router       /package_tiers/sync [post]
func (s *Server) SyncPackageTiers(c *gin.Context) {
	var req reconcilerdomain.SyncRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	result, err := s.reconcilerSvc.Sync(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, result)
}
