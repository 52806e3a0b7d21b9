package hapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yosida95/uritemplate/v3"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const maxBodyBytes = 1 << 20

type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
	// HTTPClient is the transport used for both token and API calls. Optional.
	HTTPClient *http.Client
}

// HTTPGateway talks HAL+JSON to the API, authenticated with OAuth2 client credentials.
type HTTPGateway struct {
	base   *url.URL
	client *http.Client
}

func NewHTTPGateway(cfg ClientConfig) (*HTTPGateway, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("hapi: invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	baseClient := cfg.HTTPClient
	if baseClient == nil {
		baseClient = &http.Client{Timeout: cfg.Timeout}
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base.String() + TokenPath,
		Scopes:       []string{"api"},
		AuthStyle:    oauth2.AuthStyleInHeader,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, baseClient)
	client := cc.Client(tokenCtx)
	client.Timeout = cfg.Timeout

	return &HTTPGateway{base: base, client: client}, nil
}

func (g *HTTPGateway) EntryPoint(ctx context.Context) (*Resource, error) {
	return g.do(ctx, http.MethodGet, g.base.String()+"/", nil)
}

func (g *HTTPGateway) Follow(ctx context.Context, from *Resource, f Follow) (*Resource, error) {
	link, ok := from.Link(f.Rel)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLinkNotFound, f.Rel)
	}
	target, err := g.resolve(link, f.Query)
	if err != nil {
		return nil, err
	}
	method := f.Method
	if method == "" {
		method = http.MethodGet
	}
	return g.do(ctx, method, target, f.Body)
}

func (g *HTTPGateway) resolve(link Link, query map[string]string) (string, error) {
	href := link.Href
	if link.Templated {
		tmpl, err := uritemplate.New(href)
		if err != nil {
			return "", errors.Join(ErrMalformedResource, err)
		}
		vals := uritemplate.Values{}
		for k, v := range query {
			vals.Set(k, uritemplate.String(v))
		}
		if href, err = tmpl.Expand(vals); err != nil {
			return "", errors.Join(ErrMalformedResource, err)
		}
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Join(ErrMalformedResource, err)
	}
	u = g.base.ResolveReference(u)
	if !link.Templated && len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (g *HTTPGateway) do(ctx context.Context, method, target string, body any) (*Resource, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("hapi: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", fmt.Sprintf(`application/hal+json; profile="%s"`, ProfileURL))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Printf("layer=kit component=hapi method=%s url=%s err=%v", method, target, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(data)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return NewResource(nil, nil), nil
	}
	return ParseResource(data)
}
