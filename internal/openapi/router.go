package openapi

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// Router mounts gin handlers and documents each route in the generator.
// Paths in the document are relative to the generator's base path, which is
// where the root Router is expected to be mounted.
type Router struct {
	group  *gin.RouterGroup
	docs   *Generator
	prefix string
}

// NewRouter wraps group. group must be mounted at the document's base path.
func NewRouter(group *gin.RouterGroup, docs *Generator) *Router {
	return &Router{group: group, docs: docs}
}

// Group derives a sub-router. Tags set on the sub-router's operations are kept as is.
func (r *Router) Group(relativePath string, handlers ...gin.HandlerFunc) *Router {
	return &Router{
		group:  r.group.Group(relativePath, handlers...),
		docs:   r.docs,
		prefix: joinPaths(r.prefix, relativePath),
	}
}

// Gin exposes the underlying group for routes that must stay out of the document.
func (r *Router) Gin() *gin.RouterGroup { return r.group }

// Handle registers handlers for op.Method at op.Path (relative to r) and documents op.
func (r *Router) Handle(op Operation, handlers ...gin.HandlerFunc) {
	r.group.Handle(strings.ToUpper(op.Method), op.Path, handlers...)
	op.Path = joinPaths(r.prefix, op.Path)
	r.docs.Add(op)
}

func (r *Router) GET(relativePath string, op Operation, handlers ...gin.HandlerFunc) {
	op.Method, op.Path = http.MethodGet, relativePath
	r.Handle(op, handlers...)
}

func (r *Router) POST(relativePath string, op Operation, handlers ...gin.HandlerFunc) {
	op.Method, op.Path = http.MethodPost, relativePath
	r.Handle(op, handlers...)
}

func (r *Router) PUT(relativePath string, op Operation, handlers ...gin.HandlerFunc) {
	op.Method, op.Path = http.MethodPut, relativePath
	r.Handle(op, handlers...)
}

func (r *Router) PATCH(relativePath string, op Operation, handlers ...gin.HandlerFunc) {
	op.Method, op.Path = http.MethodPatch, relativePath
	r.Handle(op, handlers...)
}

func (r *Router) DELETE(relativePath string, op Operation, handlers ...gin.HandlerFunc) {
	op.Method, op.Path = http.MethodDelete, relativePath
	r.Handle(op, handlers...)
}

func joinPaths(base, rel string) string {
	if rel == "" {
		if base == "" {
			return "/"
		}
		return base
	}
	joined := path.Join("/", base, rel)
	if strings.HasSuffix(rel, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}
