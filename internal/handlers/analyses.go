package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"feasibility_analysis/internal/climate"
	"feasibility_analysis/internal/models"
	"feasibility_analysis/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK = "ok"

	errSubmitAnalysis  = "failed to queue analysis"
	errEvaluate        = "analysis failed"
	errLoadRun         = "failed to load analysis"
	errListRuns        = "failed to list analyses"
	errInvalidBodyPref = "invalid body: "
	errInvalidLimit    = "invalid 'limit'; use a positive integer"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError maps request problems to 400, degenerate psychrometric
// constructions to 422 and everything else to 500.
func (h *Handler) respondServiceError(c *gin.Context, userMsg, logKey string, err error, kv ...interface{}) {
	switch {
	case errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case service.IsInvalidInput(err):
		if h.log != nil {
			h.log.Infow(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.IsUnprocessable(err):
		if h.log != nil {
			h.log.Warnw(logKey, append([]interface{}{"err", err}, kv...)...)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, userMsg, logKey, err, kv...)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Queue an analysis
// @Description  Stores the request as a PENDING run; the background runner executes it. Poll GET /api/v1/analyses/{id} or follow /ws?run_id={id}.
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        body  body      models.AnalysisRequest  true  "Analysis request"
// @Success      202   {object}  models.Run
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/analyses [post]
// @Security     BearerAuth
func (h *Handler) submitAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	run, err := h.services.Submit(c.Request.Context(), req, userID(c))
	if err != nil {
		h.respondServiceError(c, errSubmitAnalysis, "analysis_submit_failed", err)
		return
	}
	c.JSON(http.StatusAccepted, run)
}

// @Summary      Run an analysis synchronously
// @Tags         analyses
// @Accept       json
// @Produce      json
// @Param        body  body      models.AnalysisRequest  true  "Analysis request"
// @Success      200   {object}  models.Report
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/analyses/evaluate [post]
// @Security     BearerAuth
func (h *Handler) evaluateAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	report, err := h.services.Evaluate(c.Request.Context(), req)
	if err != nil {
		h.respondServiceError(c, errEvaluate, "analysis_failed", err, "zone", req.Climate.Zone)
		return
	}
	c.JSON(http.StatusOK, report)
}

// @Summary      Get an analysis run
// @Tags         analyses
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  models.Run
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/analyses/{id} [get]
// @Security     BearerAuth
func (h *Handler) getAnalysis(c *gin.Context) {
	id := c.Param("id")
	run, err := h.services.GetRun(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, errLoadRun, "analysis_get_failed", err, "run_id", id)
		return
	}
	c.JSON(http.StatusOK, run)
}

// @Summary      List analysis runs
// @Description  Newest first.
// @Tags         analyses
// @Produce      json
// @Param        status  query     string  false  "Run status"  Enums(PENDING,RUNNING,COMPLETED,FAILED)
// @Param        limit   query     int     false  "Maximum number of runs (default 100, max 500)"
// @Success      200     {object}  map[string]interface{}  "count, runs"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/analyses [get]
// @Security     BearerAuth
func (h *Handler) listAnalyses(c *gin.Context) {
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		limit = v
	}
	status := c.Query("status")
	runs, err := h.services.ListRuns(c.Request.Context(), status, limit)
	if err != nil {
		h.respondServiceError(c, errListRuns, "analysis_list_failed", err, "status", status)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      List climate zones
// @Description  Catalogue of TMY datasets usable as climate.zone / climate.period.
// @Tags         climates
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "zones, periods"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/climates [get]
// @Security     BearerAuth
func (h *Handler) listClimates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"zones":   climate.Zones(),
		"periods": climate.Periods(),
	})
}
