package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts its routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts bounded-context route groups under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a Router for engine
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, apiVersion: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a registrar for Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// BasePath returns the prefix every registrar is mounted under
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registered group
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Routes lists the endpoints of every registered DomainGroup with full paths
func (r *Router) Routes() []Route {
	var out []Route
	for _, registrar := range r.registrars {
		dg, ok := registrar.(*DomainGroup)
		if !ok {
			continue
		}
		for _, route := range dg.Routes() {
			route.Path = r.BasePath() + route.Path
			out = append(out, route)
		}
	}
	return out
}

// Route describes one endpoint of a DomainGroup
type Route struct {
	Method   string
	Path     string
	handlers []gin.HandlerFunc
}

// DomainGroup holds the endpoints of one bounded context, such as lending
// or partner, under a shared prefix
type DomainGroup struct {
	name       string
	prefix     string
	routes     []Route
	middleware []gin.HandlerFunc
}

// NewDomainGroup creates an empty group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware applied to every route of the group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) add(method, relPath string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, Route{Method: method, Path: relPath, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(relPath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodGet, relPath, handlers)
}

func (dg *DomainGroup) POST(relPath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPost, relPath, handlers)
}

func (dg *DomainGroup) PATCH(relPath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodPatch, relPath, handlers)
}

func (dg *DomainGroup) DELETE(relPath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.add(http.MethodDelete, relPath, handlers)
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix, dg.middleware...)
	for _, route := range dg.routes {
		group.Handle(route.Method, route.Path, route.handlers...)
	}
}

// Routes lists the group's endpoints with paths relative to the API base
func (dg *DomainGroup) Routes() []Route {
	out := make([]Route, len(dg.routes))
	for i, route := range dg.routes {
		out[i] = Route{Method: route.Method, Path: joinPath(dg.prefix, route.Path)}
	}
	return out
}

// Name returns the bounded context name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

// joinPath joins like gin does, keeping "" routes at the prefix itself
func joinPath(prefix, rel string) string {
	if rel == "" {
		return prefix
	}
	return path.Join(prefix, rel)
}
