package server

import (
	"net/http"
	"strings"

	tierdomain "github.com/billforgelabs/billforge/internal/packagetier/domain"
	"github.com/billforgelabs/billforge/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

// @Summary      List Package Tiers
// @Description  List package tiers with cursor pagination
// @Tags         package_tiers
// @Accept       json
// @Produce      json
// @Param        page_token query string false "Page Token"
// @Param        page_size query int false "Page Size"
// @Success      200  {object}  ListResponse
// @Router       /package_tiers [get]
func (s *Server) ListPackageTiers(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tierSvc.List(c.Request.Context(), tierdomain.ListRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	respondList(c, resp.Tiers, &resp.PageInfo)
}

// @Summary      Get Package Tier
// @Tags         package_tiers
// @Produce      json
// @Param        id   path      string  true  "Package Tier ID"
// @Success      200  {object}  DataResponse
// @Router       /package_tiers/{id} [get]
func (s *Server) GetPackageTierByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.tierSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Create Package Tier
// @Description  Create a package tier; rejected when it overlaps an active tier
// @Tags         package_tiers
// @Accept       json
// @Produce      json
// @Param        request body tierdomain.CreateRequest true "Create Package Tier Request"
// @Success      200  {object}  DataResponse
// @Router       /package_tiers [post]
func (s *Server) CreatePackageTier(c *gin.Context) {
	var req tierdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tierSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Update Package Tier
// @Tags         package_tiers
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Package Tier ID"
// @Param        request body tierdomain.UpdateRequest true "Update Package Tier Request"
// @Success      200  {object}  DataResponse
// @Router       /package_tiers/{id} [patch]
func (s *Server) UpdatePackageTier(c *gin.Context) {
	var req tierdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tierSvc.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Package Tier
// @Description  Soft-delete a package tier locally; the external system keeps its copy
// @Tags         package_tiers
// @Param        id   path      string  true  "Package Tier ID"
// @Success      204
// @Router       /package_tiers/{id} [delete]
func (s *Server) DeletePackageTier(c *gin.Context) {
	if err := s.tierSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Import Package Tiers
// @Description  Bulk import tiers from a CSV body
// @Tags         package_tiers
// @Accept       text/csv
// @Produce      json
// @Success      200  {object}  DataResponse
// @Router       /package_tiers/import [post]
func (s *Server) ImportPackageTiers(c *gin.Context) {
	result, err := s.tierSvc.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	respondData(c, result)
}
