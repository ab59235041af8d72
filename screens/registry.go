package screens

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "catalog-admin/errors"
)

// Factory builds a screen for one activation.
type Factory func(ctx context.Context, host Host, params Params) (Screen, error)

// Route maps a page id to a screen tag.
type Route struct {
	Page string `json:"page"`
	Tag  string `json:"tagname"`
}

// Registry holds the screen factories of the application and its route table.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	routes    map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		routes:    make(map[string]string),
	}
}

// Define registers the factory of a tag. A tag can only be defined once.
func (r *Registry) Define(tag string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[tag]; exists {
		return fmt.Errorf("screen %q already defined", tag)
	}
	r.factories[tag] = f
	return nil
}

// AddRoute maps a page id to a defined tag.
func (r *Registry) AddRoute(page, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[tag]; !ok {
		return fmt.Errorf("route %q targets undefined screen %q", page, tag)
	}
	r.routes[page] = tag
	return nil
}

// Routes returns the route table sorted by page id.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Route, 0, len(r.routes))
	for page, tag := range r.routes {
		out = append(out, Route{Page: page, Tag: tag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out
}

// Load resolves a page id and builds its screen.
func (r *Registry) Load(ctx context.Context, page string, host Host, params Params) (Screen, error) {
	r.mu.RLock()
	tag, ok := r.routes[page]
	var f Factory
	if ok {
		f = r.factories[tag]
	}
	r.mu.RUnlock()

	if !ok || f == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("unknown page: %s", page))
	}
	if params == nil {
		params = Params{}
	}
	return f(ctx, host, params)
}

// Page ids of the catalog screens.
const (
	PageProducts            = "products"
	PageProductOptionList   = "product_option_list"
	PageProductOptionValues = "product_option_values"
	PageProductSetList      = "product_set_list"
	PageProductSetOption    = "product_set_option"
)

// NewCatalogRegistry defines every catalog screen and its route.
func NewCatalogRegistry() (*Registry, error) {
	r := NewRegistry()

	defs := []struct {
		page string
		tag  string
		f    Factory
	}{
		{PageProducts, TagProductList, func(ctx context.Context, host Host, params Params) (Screen, error) {
			return NewProductList(ctx, host, ProductRowHandlers()), nil
		}},
		{PageProductOptionList, TagProductOptionList, func(ctx context.Context, host Host, params Params) (Screen, error) {
			return NewProductOptionList(ctx, host), nil
		}},
		{PageProductOptionValues, TagProductOptionValues, func(ctx context.Context, host Host, params Params) (Screen, error) {
			id := params[ParamProductOptionID]
			if id == "" {
				return nil, apperrors.Validation(ParamProductOptionID+" is required", nil)
			}
			return NewProductOptionValues(ctx, host, id), nil
		}},
		{PageProductSetList, TagProductSetList, func(ctx context.Context, host Host, params Params) (Screen, error) {
			return NewProductSetList(ctx, host, ProductSetRowHandlers(), params[ParamProductID]), nil
		}},
		{PageProductSetOption, TagProductSetOption, func(ctx context.Context, host Host, params Params) (Screen, error) {
			id := params[ParamProductSetID]
			if id == "" {
				return nil, apperrors.Validation(ParamProductSetID+" is required", nil)
			}
			return NewProductSetOption(ctx, host, id), nil
		}},
	}

	for _, d := range defs {
		if err := r.Define(d.tag, d.f); err != nil {
			return nil, err
		}
		if err := r.AddRoute(d.page, d.tag); err != nil {
			return nil, err
		}
	}
	return r, nil
}
