// Package openapi generates the service's OpenAPI (Swagger 2.0) document from the
// routes registered through Router, and exposes it to swag so Swagger UI can load it.
package openapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-openapi/spec"
	"github.com/maxviazov/poster-api/internal/pagination"
	"github.com/maxviazov/poster-api/pkg/response"
	"github.com/swaggo/swag"
)

// Server is a base URL clients can reach the API on.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// Info is the service metadata the document is bound to.
type Info struct {
	Title       string
	Description string
	Version     string
	BasePath    string
	Servers     []Server
}

// Operation describes one route. Query, Body and Response hold sample values (or
// reflect.Type) whose shape is reflected into the document.
type Operation struct {
	Method      string
	Path        string
	ID          string
	Summary     string
	Description string
	Tags        []string
	Query       any
	Body        any
	Response    any
	Status      int
	Pager       *pagination.Schema
}

var instanceSeq atomic.Int64

// Generator collects operations and renders the document on demand.
type Generator struct {
	info Info
	name string

	mu  sync.RWMutex
	ops []Operation
}

// New creates a generator for info. Call Register to make it visible to swag.
func New(info Info) *Generator {
	return &Generator{
		info: info,
		name: fmt.Sprintf("%s-%d", swag.Name, instanceSeq.Add(1)),
	}
}

// Register publishes the generator in swag's registry under its instance name.
func (g *Generator) Register() {
	if swag.GetSwagger(g.name) == nil {
		swag.Register(g.name, g)
	}
}

// InstanceName is the key the generator is registered under in swag.
func (g *Generator) InstanceName() string { return g.name }

// Info returns the metadata the document is bound to.
func (g *Generator) Info() Info { return g.info }

// Add registers op. Method is upper-cased and Status defaults to 200.
func (g *Generator) Add(op Operation) {
	op.Method = strings.ToUpper(op.Method)
	if op.Status == 0 {
		op.Status = http.StatusOK
	}
	if op.ID == "" {
		op.ID = operationID(op.Method, op.Path)
	}
	g.mu.Lock()
	g.ops = append(g.ops, op)
	g.mu.Unlock()
}

// Operations lists registered operations sorted by path, then method.
func (g *Generator) Operations() []Operation {
	g.mu.RLock()
	out := make([]Operation, len(g.ops))
	copy(out, g.ops)
	g.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Document builds the swagger document for the operations registered so far.
func (g *Generator) Document() *spec.Swagger {
	defs := spec.Definitions{}
	sb := newSchemaBuilder(defs)

	doc := &spec.Swagger{SwaggerProps: spec.SwaggerProps{
		Swagger: "2.0",
		Info: &spec.Info{InfoProps: spec.InfoProps{
			Title:       g.info.Title,
			Description: g.info.Description,
			Version:     g.info.Version,
		}},
		BasePath:    basePath(g.info.BasePath),
		Consumes:    []string{"application/json"},
		Produces:    []string{"application/json"},
		Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
		Definitions: defs,
	}}
	if len(g.info.Servers) > 0 {
		if u, err := url.Parse(g.info.Servers[0].URL); err == nil && u.Host != "" {
			doc.Host = u.Host
			doc.Schemes = []string{u.Scheme}
		}
		doc.AddExtension("x-servers", g.info.Servers)
	}

	errorSchema := sb.schemaOf(response.ErrorPayload{})
	for _, op := range g.Operations() {
		path := swaggerPath(op.Path)
		item := doc.Paths.Paths[path]
		setOperation(&item, op.Method, buildOperation(sb, op, errorSchema))
		doc.Paths.Paths[path] = item
	}
	return doc
}

// JSON renders the document.
func (g *Generator) JSON() ([]byte, error) {
	return json.Marshal(g.Document())
}

// ReadDoc implements swag.Swagger.
func (g *Generator) ReadDoc() string {
	b, err := g.JSON()
	if err != nil {
		return "{}"
	}
	return string(b)
}

var _ swag.Swagger = (*Generator)(nil)

func buildOperation(sb *schemaBuilder, op Operation, errorSchema *spec.Schema) *spec.Operation {
	o := spec.NewOperation(op.ID).
		WithSummary(op.Summary).
		WithDescription(op.Description).
		WithTags(op.Tags...)

	for _, name := range pathParams(op.Path) {
		o.AddParam(spec.PathParam(name).Typed("string", "").AsRequired())
	}
	if op.Pager != nil {
		for _, p := range pagerParams(*op.Pager) {
			o.AddParam(p)
		}
	}
	for _, p := range queryParams(op.Query) {
		o.AddParam(p)
	}
	if op.Body != nil {
		o.AddParam(spec.BodyParam("body", sb.schemaOf(op.Body)).AsRequired())
	}

	ok := spec.NewResponse().WithDescription(http.StatusText(op.Status))
	if op.Response != nil {
		ok.WithSchema(sb.schemaOf(op.Response))
	}
	o.RespondsWith(op.Status, ok)
	if op.Query != nil || op.Body != nil || op.Pager != nil {
		o.RespondsWith(http.StatusBadRequest,
			spec.NewResponse().WithDescription("Validation error").WithSchema(errorSchema))
	}
	o.RespondsWith(http.StatusInternalServerError,
		spec.NewResponse().WithDescription("Internal server error").WithSchema(errorSchema))
	return o
}

func pagerParams(s pagination.Schema) []*spec.Parameter {
	limit := spec.QueryParam(pagination.LimitParam).
		Typed("integer", "int64").
		WithMinimum(1, false).
		WithMaximum(float64(s.MaxLimit()), false).
		WithDefault(s.DefaultLimit()).
		WithDescription("Maximum number of items to return")
	offset := spec.QueryParam(pagination.OffsetParam).
		Typed("integer", "int64").
		WithMinimum(0, false).
		WithDefault(0).
		WithDescription("Number of items to skip")
	return []*spec.Parameter{limit, offset}
}

// queryParams documents the form-tagged fields of a query struct.
func queryParams(v any) []*spec.Parameter {
	if v == nil {
		return nil
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var params []*spec.Parameter
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" || !f.IsExported() {
			continue
		}
		p := spec.QueryParam(name)
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		switch ft.Kind() {
		case reflect.Bool:
			p.Typed("boolean", "")
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			p.Typed("integer", "int64")
		case reflect.Float32, reflect.Float64:
			p.Typed("number", "double")
		case reflect.Slice:
			p.Typed("array", "").CollectionOf(spec.NewItems().Typed("string", ""), "multi")
		default:
			p.Typed("string", "")
		}
		r := parseRules(f)
		if r.required {
			p.AsRequired()
		}
		if r.min != nil {
			p.WithMinimum(*r.min, false)
		}
		if r.max != nil {
			p.WithMaximum(*r.max, false)
		}
		if len(r.enum) > 0 {
			vals := make([]any, len(r.enum))
			for i, e := range r.enum {
				vals[i] = e
			}
			p.WithEnum(vals...)
		}
		if desc := f.Tag.Get("doc"); desc != "" {
			p.WithDescription(desc)
		}
		params = append(params, p)
	}
	return params
}

func setOperation(item *spec.PathItem, method string, op *spec.Operation) {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodDelete:
		item.Delete = op
	case http.MethodHead:
		item.Head = op
	case http.MethodOptions:
		item.Options = op
	}
}

func basePath(p string) string {
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// swaggerPath converts gin path syntax (:id, *rest) into swagger templates ({id}).
func swaggerPath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			segs[i] = "{" + s[1:] + "}"
		}
	}
	out := strings.Join(segs, "/")
	if out == "" {
		return "/"
	}
	return out
}

func pathParams(p string) []string {
	var names []string
	for _, s := range strings.Split(p, "/") {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			names = append(names, s[1:])
		}
	}
	return names
}

// operationID derives a camel-cased id, e.g. GET /health/live -> getHealthLive.
func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, s := range strings.Split(path, "/") {
		s = strings.TrimLeft(s, ":*")
		for _, w := range nonWordChar.Split(s, -1) {
			if w == "" {
				continue
			}
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	return b.String()
}
