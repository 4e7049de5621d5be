package server

import (
	"net/http"
	"strings"

	ruledomain "github.com/billforgelabs/billforge/internal/revenuerule/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Get Revenue Rule
// @Description  Fetch the revenue rule document for an account-service relationship
// @Tags         revenue_rules
// @Accept       json
// @Produce      json
// @Param        account_id  path  string  true  "Account ID"
// @Param        service_id  path  string  true  "Account Service ID"
// @Success      200  {object}  DataResponse
// @Router       /accounts/{account_id}/services/{service_id}/revenue_rule [get]
func (s *Server) GetRevenueRule(c *gin.Context) {
	resp, err := s.ruleSvc.Get(c.Request.Context(), c.Param("account_id"), c.Param("service_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Save Revenue Rule
// @Description  Validate and persist a revenue rule document
// @Tags         revenue_rules
// @Accept       json
// @Produce      json
// @Param        account_id  path  string  true  "Account ID"
// @Param        service_id  path  string  true  "Account Service ID"
// @Param        request body ruledomain.RawRevenueRule true "Rule document"
// @Success      200  {object}  DataResponse
// @Router       /accounts/{account_id}/services/{service_id}/revenue_rule [put]
func (s *Server) SaveRevenueRule(c *gin.Context) {
	var doc ruledomain.RawRevenueRule
	if err := c.ShouldBindJSON(&doc); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.ruleSvc.Save(c.Request.Context(), ruledomain.SaveRequest{
		AccountID:        strings.TrimSpace(c.Param("account_id")),
		AccountServiceID: strings.TrimSpace(c.Param("service_id")),
		Document:         doc,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Delete Revenue Rule
// @Tags         revenue_rules
// @Param        account_id  path  string  true  "Account ID"
// @Param        service_id  path  string  true  "Account Service ID"
// @Success      204
// @Router       /accounts/{account_id}/services/{service_id}/revenue_rule [delete]
func (s *Server) DeleteRevenueRule(c *gin.Context) {
	if err := s.ruleSvc.Delete(c.Request.Context(), c.Param("account_id"), c.Param("service_id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Validate Revenue Rule
// @Description  Dry-run validation of a candidate rule document
// @Tags         revenue_rules
// @Accept       json
// @Produce      json
// @Param        request body ruledomain.RawRevenueRule true "Rule document"
// @Success      200  {object}  DataResponse
// @Router       /revenue_rules/validate [post]
func (s *Server) ValidateRevenueRule(c *gin.Context) {
	var doc ruledomain.RawRevenueRule
	if err := c.ShouldBindJSON(&doc); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	fields := s.ruleSvc.Validate(doc)
	respondData(c, gin.H{
		"valid":  len(fields) == 0,
		"fields": fields,
	})
}
