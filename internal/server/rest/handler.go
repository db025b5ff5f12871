package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/logkeeper/internal/api"
	"github.com/dmitrijs2005/logkeeper/internal/common"
	"github.com/dmitrijs2005/logkeeper/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	msgCreated       = "Log created successfully"
	msgUpdated       = "Log updated successfully"
	msgDeleted       = "Log deleted successfully"
	msgExported      = "Logs exported successfully"
	msgRunning       = "Server is running"
	errRequired      = "Owner and logText are required"
	errNotFound      = "Log not found"
	errFetch         = "Failed to fetch logs"
	errCreate        = "Failed to create log"
	errUpdate        = "Failed to update log"
	errDelete        = "Failed to delete log"
	errExport        = "Failed to export logs"
	errExportOff     = "Export is disabled"
	errInternalPanic = "Internal server error"
)

func toRecord(l *models.Log) api.Record {
	return api.Record{
		ID:        l.ID,
		Owner:     l.Owner,
		LogText:   l.LogText,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, api.Response{Success: false, Error: msg})
}

// bindLogRequest decodes the body. A missing or malformed body yields empty
// fields, which the store then rejects as a validation error.
func bindLogRequest(c *gin.Context) api.LogRequest {
	var req api.LogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return api.LogRequest{}
	}
	return req
}

func (s *RESTServer) listLogs(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := s.logs.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "list logs", "error", err)
		fail(c, http.StatusInternalServerError, errFetch)
		return
	}

	records := make([]api.Record, 0, len(items))
	for _, l := range items {
		records = append(records, toRecord(l))
	}
	count := len(records)

	c.JSON(http.StatusOK, api.Response{Success: true, Data: records, Count: &count})
}

func (s *RESTServer) createLog(c *gin.Context) {
	ctx := c.Request.Context()
	req := bindLogRequest(c)

	created, err := s.logs.Create(ctx, req.Owner, req.LogText)
	switch {
	case errors.Is(err, common.ErrorValidation):
		fail(c, http.StatusBadRequest, errRequired)
		return
	case err != nil:
		s.logger.Error(ctx, "create log", "error", err)
		fail(c, http.StatusInternalServerError, errCreate)
		return
	}

	s.logger.Debug(ctx, "log created", "id", created.ID)
	c.JSON(http.StatusCreated, api.Response{Success: true, Data: toRecord(created), Message: msgCreated})
}

func (s *RESTServer) updateLog(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	req := bindLogRequest(c)

	updated, err := s.logs.Update(ctx, id, req.Owner, req.LogText)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, errNotFound)
		return
	case errors.Is(err, common.ErrorValidation):
		fail(c, http.StatusBadRequest, errRequired)
		return
	case err != nil:
		s.logger.Error(ctx, "update log", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, errUpdate)
		return
	}

	c.JSON(http.StatusOK, api.Response{Success: true, Data: toRecord(updated), Message: msgUpdated})
}

func (s *RESTServer) deleteLog(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	removed, err := s.logs.Delete(ctx, id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fail(c, http.StatusNotFound, errNotFound)
		return
	case err != nil:
		s.logger.Error(ctx, "delete log", "id", id, "error", err)
		fail(c, http.StatusInternalServerError, errDelete)
		return
	}

	c.JSON(http.StatusOK, api.Response{Success: true, Data: toRecord(removed), Message: msgDeleted})
}

func (s *RESTServer) health(c *gin.Context) {
	now := s.now()
	c.JSON(http.StatusOK, api.Response{Success: true, Message: msgRunning, Timestamp: &now})
}

func (s *RESTServer) export(c *gin.Context) {
	ctx := c.Request.Context()

	if s.exporter == nil {
		fail(c, http.StatusServiceUnavailable, errExportOff)
		return
	}

	res, err := s.exporter.Export(ctx)
	switch {
	case errors.Is(err, common.ErrExportDisabled):
		fail(c, http.StatusServiceUnavailable, errExportOff)
		return
	case err != nil:
		s.logger.Error(ctx, "export logs", "error", err)
		fail(c, http.StatusInternalServerError, errExport)
		return
	}

	c.JSON(http.StatusCreated, api.Response{
		Success: true,
		Data:    api.Export{Key: res.Key, URL: res.URL, Count: res.Count},
		Message: msgExported,
	})
}
