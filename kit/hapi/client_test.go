package hapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var tokenCalls atomic.Int32
	mux := http.NewServeMux()

	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls.Add(1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "app" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/hal+json")
		switch r.URL.Path {
		case "/":
			_, _ = io.WriteString(w, `{"_links":{
				"https://api.slimpay.net/alps#get-mandates":{"href":"/mandates{?creditorReference,rum}","templated":true},
				"https://api.slimpay.net/alps#create-orders":{"href":"/orders"},
				"https://api.slimpay.net/alps#get-direct-debits":{"href":"/direct-debits"}
			}}`)
		case "/mandates":
			q := r.URL.Query()
			_, _ = io.WriteString(w, `{"rum":"`+q.Get("rum")+`","state":"active","creditor":"`+q.Get("creditorReference")+`"}`)
		case "/orders":
			if r.Method != http.MethodPost || r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["creditor"] == nil {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"message":"invalid creditor","code":"E42"}`)
				return
			}
			_, _ = io.WriteString(w, `{"reference":"ref-1","state":"open.running","_links":{"https://api.slimpay.net/alps#user-approval":{"href":"https://checkout.example/1"}}}`)
		case "/direct-debits":
			_, _ = io.WriteString(w, `{"id":"`+r.URL.Query().Get("id")+`"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &tokenCalls
}

func TestHTTPGateway_Traversal(t *testing.T) {
	t.Parallel()
	srv, tokenCalls := newTestAPI(t)

	gw, err := NewHTTPGateway(ClientConfig{BaseURL: srv.URL, ClientID: "app", ClientSecret: "secret"})
	require.NoError(t, err)
	ctx := context.Background()

	root, err := gw.EntryPoint(ctx)
	require.NoError(t, err)

	mandate, err := gw.Follow(ctx, root, Get("get-mandates", map[string]string{"creditorReference": "shop", "rum": "R1"}))
	require.NoError(t, err)
	require.Equal(t, "R1", mandate.String("rum"))
	require.Equal(t, "shop", mandate.String("creditor"))

	session, err := gw.Follow(ctx, root, Post("create-orders", map[string]any{"creditor": map[string]string{"reference": "shop"}}))
	require.NoError(t, err)
	approval, ok := session.Link("user-approval")
	require.True(t, ok)
	require.Equal(t, "https://checkout.example/1", approval.Href)

	dd, err := gw.Follow(ctx, root, Get("get-direct-debits", map[string]string{"id": "dd-9"}))
	require.NoError(t, err)
	require.Equal(t, "dd-9", dd.String("id"))

	require.Equal(t, int32(1), tokenCalls.Load())
}

func TestHTTPGateway_APIError(t *testing.T) {
	t.Parallel()
	srv, _ := newTestAPI(t)

	gw, err := NewHTTPGateway(ClientConfig{BaseURL: srv.URL, ClientID: "app", ClientSecret: "secret"})
	require.NoError(t, err)
	ctx := context.Background()

	root, err := gw.EntryPoint(ctx)
	require.NoError(t, err)

	_, err = gw.Follow(ctx, root, Post("create-orders", map[string]any{}))
	he, ok := AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadRequest, he.StatusCode)
	msg, code, ok := he.APIMessage()
	require.True(t, ok)
	require.Equal(t, "invalid creditor", msg)
	require.Equal(t, "E42", code)
}

func TestHTTPGateway_MissingLink(t *testing.T) {
	t.Parallel()
	srv, _ := newTestAPI(t)

	gw, err := NewHTTPGateway(ClientConfig{BaseURL: srv.URL, ClientID: "app", ClientSecret: "secret"})
	require.NoError(t, err)
	root, err := gw.EntryPoint(context.Background())
	require.NoError(t, err)

	_, err = gw.Follow(context.Background(), root, Get("get-orders", nil))
	require.ErrorIs(t, err, ErrLinkNotFound)
}

func TestHTTPGateway_BadCredentials(t *testing.T) {
	t.Parallel()
	srv, _ := newTestAPI(t)

	gw, err := NewHTTPGateway(ClientConfig{BaseURL: srv.URL, ClientID: "app", ClientSecret: "wrong"})
	require.NoError(t, err)
	_, err = gw.EntryPoint(context.Background())
	require.Error(t, err)
}

func TestNewHTTPGateway_InvalidURL(t *testing.T) {
	t.Parallel()
	_, err := NewHTTPGateway(ClientConfig{BaseURL: "not a url"})
	require.Error(t, err)
}
