package hapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	// AlpsNamespace prefixes every custom relation exposed by the API.
	AlpsNamespace = "https://api.slimpay.net/alps#"
	ProfileURL    = "https://api.slimpay.net/alps/v1"

	ProductionURL = "https://api.slimpay.net"
	SandboxURL    = "https://api-sandbox.slimpay.net"
	TokenPath     = "/oauth/token"
)

var ErrMalformedResource = errors.New("hapi: malformed resource")

type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Resource is a HAL document split into its state and its links.
type Resource struct {
	State map[string]any
	Links map[string]Link
}

// NewResource builds a resource from plain state and rel -> href pairs.
func NewResource(state map[string]any, links map[string]string) *Resource {
	if state == nil {
		state = map[string]any{}
	}
	r := &Resource{State: state, Links: make(map[string]Link, len(links))}
	for rel, href := range links {
		r.Links[rel] = Link{Href: href, Templated: strings.Contains(href, "{")}
	}
	return r
}

// Link finds a relation by its short name or its fully qualified ALPS name.
func (r *Resource) Link(rel string) (Link, bool) {
	if r == nil {
		return Link{}, false
	}
	short := strings.TrimPrefix(rel, AlpsNamespace)
	for _, name := range []string{rel, short, AlpsNamespace + short} {
		if l, ok := r.Links[name]; ok {
			return l, true
		}
	}
	return Link{}, false
}

// String returns a state field as text; numbers keep their wire representation.
func (r *Resource) String(key string) string {
	if r == nil {
		return ""
	}
	switch v := r.State[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func (r *Resource) Has(key string) bool {
	if r == nil {
		return false
	}
	_, ok := r.State[key]
	return ok
}

// ParseResource decodes a HAL+JSON body. _links may hold a single link or an array
// per relation; only the first entry of an array is kept.
func ParseResource(data []byte) (*Resource, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Join(ErrMalformedResource, err)
	}

	res := &Resource{State: raw, Links: map[string]Link{}}
	links, _ := raw["_links"].(map[string]any)
	delete(raw, "_links")
	delete(raw, "_embedded")

	for rel, v := range links {
		switch lv := v.(type) {
		case map[string]any:
			res.Links[rel] = linkFromMap(lv)
		case []any:
			if len(lv) == 0 {
				continue
			}
			if m, ok := lv[0].(map[string]any); ok {
				res.Links[rel] = linkFromMap(m)
			}
		}
	}
	return res, nil
}

func linkFromMap(m map[string]any) Link {
	l := Link{}
	l.Href, _ = m["href"].(string)
	l.Templated, _ = m["templated"].(bool)
	return l
}
