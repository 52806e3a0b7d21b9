package hapi

import (
	"context"
	"net/http"
)

// Gateway walks the API from its entry point along named relations.
type Gateway interface {
	EntryPoint(ctx context.Context) (*Resource, error)
	Follow(ctx context.Context, from *Resource, f Follow) (*Resource, error)
}

// Follow describes one hop: GET with query values or POST with a JSON body.
type Follow struct {
	Rel    string
	Method string
	Query  map[string]string
	Body   any
}

func Get(rel string, query map[string]string) Follow {
	return Follow{Rel: rel, Method: http.MethodGet, Query: query}
}

func Post(rel string, body any) Follow {
	return Follow{Rel: rel, Method: http.MethodPost, Body: body}
}
