package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/apperror"
	"github.com/maxviazov/poster-api/internal/model"
	"github.com/maxviazov/poster-api/internal/openapi"
	"github.com/maxviazov/poster-api/internal/pagination"
	"github.com/maxviazov/poster-api/internal/request"
	"github.com/maxviazov/poster-api/pkg/response"
)

// RoutesMaxLimit caps a page of the route listing.
const RoutesMaxLimit = 50

var routesPager = pagination.PagerSchema(RoutesMaxLimit)

// OperationLister is satisfied by *openapi.Generator.
type OperationLister interface {
	Operations() []openapi.Operation
}

type routesQuery struct {
	Method string `form:"method" binding:"omitempty,oneof=GET POST PUT PATCH DELETE" doc:"Only list routes with this HTTP method"`
}

// MetaHandler describes the running service.
type MetaHandler struct {
	info model.VersionInfo
	ops  OperationLister
}

func NewMetaHandler(info model.VersionInfo, ops OperationLister) *MetaHandler {
	return &MetaHandler{info: info, ops: ops}
}

func (h *MetaHandler) Version(c *gin.Context) {
	response.WriteData(c, http.StatusOK, h.info)
}

// Routes lists documented operations, one page at a time.
func (h *MetaHandler) Routes(c *gin.Context) {
	pager, pagerErr := routesPager.Bind(c)
	var q routesQuery
	queryErr := request.Query(c, &q)
	if err := apperror.MergeValidation(pagerErr, queryErr); err != nil {
		_ = c.Error(err)
		return
	}

	var routes []model.RouteInfo
	for _, op := range h.ops.Operations() {
		if q.Method != "" && op.Method != q.Method {
			continue
		}
		routes = append(routes, model.RouteInfo{
			Method:  op.Method,
			Path:    op.Path,
			ID:      op.ID,
			Summary: op.Summary,
			Tags:    op.Tags,
		})
	}

	response.WriteData(c, http.StatusOK, pagination.MapPage(pager, pagination.Window(routes, pager), int64(len(routes))))
}
