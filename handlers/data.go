package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/susradar/susradar-server/internal/userdata"
	"github.com/susradar/susradar-server/pkg/logger"
	"github.com/susradar/susradar-server/pkg/metrics"
	"github.com/susradar/susradar-server/pkg/middleware"
)

// DataHandler exposes the per-user document operations. All routes require
// the auth middleware to have set the username.
type DataHandler struct {
	dataSvc *userdata.Service
}

func NewDataHandler(d *userdata.Service) *DataHandler {
	return &DataHandler{dataSvc: d}
}

// Register routes on a group already wrapped with the auth middleware.
func (h *DataHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/data", h.GetData)
	rg.POST("/data", h.SaveData)
	rg.POST("/data/sync", h.SyncData)
	rg.DELETE("/companies/:companyId", h.DeleteCompany)
}

type documentRequest struct {
	Companies map[string]json.RawMessage `json:"companies"`
	Mappings  map[string]string          `json:"mappings"`
}

// GetData returns the caller's full document.
func (h *DataHandler) GetData(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	doc := h.dataSvc.Load(c.Request.Context(), username)
	c.JSON(http.StatusOK, doc)
}

// SaveData overwrites the caller's document. Both top-level keys must be
// present, matching the client's full-state uploads.
func (h *DataHandler) SaveData(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}
	// a missing key decodes to a nil map; an explicit empty object does not
	if req.Companies == nil || req.Mappings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data structure"})
		return
	}

	doc := &userdata.Document{Companies: req.Companies, Mappings: req.Mappings}
	if err := h.dataSvc.Save(c.Request.Context(), username, doc); err != nil {
		logger.Errorf("save for %s failed: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Data saved successfully"})
}

// SyncData merges the client document into server state; the client wins on
// conflicting keys.
func (h *DataHandler) SyncData(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	client := &userdata.Document{Companies: req.Companies, Mappings: req.Mappings}
	merged, err := h.dataSvc.Sync(c.Request.Context(), username, client)
	if err != nil {
		logger.Errorf("sync for %s failed: %v", username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sync data"})
		return
	}
	metrics.Syncs.Inc()
	c.JSON(http.StatusOK, gin.H{
		"message": "Data synchronized successfully",
		"data":    merged,
	})
}

// DeleteCompany removes one company and every mapping referencing it.
// Idempotent: deleting an absent company still returns 200.
func (h *DataHandler) DeleteCompany(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	companyID := c.Param("companyId")

	if err := h.dataSvc.DeleteCompany(c.Request.Context(), username, companyID); err != nil {
		logger.Errorf("delete company %s for %s failed: %v", companyID, username, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete company"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
