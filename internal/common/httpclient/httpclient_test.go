package httpclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	serverURL string
}

func (c *testConfig) GetServerURL() string {
	return c.serverURL
}

func TestDoRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/favorites":
			assert.Equal(t, "abc", r.URL.Query().Get("session_id"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"favorites":["Paris"]}`))
		case "/plan":
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "hola", body["pregunta"])
			w.Write([]byte(`{"respuesta":"ok"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})

	body, err := client.DoRequest(context.Background(), RequestOptions{
		Method:      http.MethodGet,
		Path:        "favorites",
		QueryParams: map[string]string{"session_id": "abc"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"favorites":["Paris"]}`, string(body))

	body, err = client.DoRequest(context.Background(), RequestOptions{
		Method: http.MethodPost,
		Path:   "plan",
		Body:   []byte(`{"pregunta":"hola"}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"respuesta":"ok"}`, string(body))
}

func TestDoRequestServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"session_id y destino son obligatorios."}`))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.DoRequest(context.Background(), RequestOptions{
		Method: http.MethodPost,
		Path:   "favorites",
	})
	require.Error(t, err)

	httpErr, ok := err.(*HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Equal(t, "session_id y destino son obligatorios.", httpErr.Message)
}

func TestDoRequestNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.DoRequest(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "plan",
	})
	require.Error(t, err)

	httpErr, ok := err.(*HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, "boom", httpErr.Message)
}

func TestStreamRequest(t *testing.T) {
	payload := []byte("%PDF-1.4 fake document body")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	reader, err := client.StreamRequest(context.Background(), RequestOptions{
		Method:      http.MethodGet,
		Path:        "itinerary/pdf",
		QueryParams: map[string]string{"session_id": "abc"},
	})
	require.NoError(t, err)
	defer reader.Close()

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStreamRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"No encontramos una conversación activa para generar el PDF."}`))
	}))
	defer srv.Close()

	client := NewClient(&testConfig{serverURL: srv.URL})
	_, err := client.StreamRequest(context.Background(), RequestOptions{
		Method: http.MethodGet,
		Path:   "itinerary/pdf",
	})
	require.Error(t, err)

	httpErr, ok := err.(*HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}
