package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestOllamaEmbed(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/embed" {
				http.NotFound(w, r)
				return
			}
			var req ollamaEmbedRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Model != "nomic-embed-text" {
				t.Errorf("model = %q", req.Model)
			}
			if len(req.Input) != 2 {
				t.Errorf("inputs = %d, want 2", len(req.Input))
			}
			_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{
				Model:      req.Model,
				Embeddings: [][]float64{{0.1, 0.2}, {0.3, 0.4}},
			})
		}))
		defer srv.Close()

		c := NewOllamaClient(OllamaConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})
		res, err := c.Embed(context.Background(), &EmbedRequest{Input: []string{"BGP", "OSPF"}})
		if err != nil {
			t.Fatalf("Embed error: %v", err)
		}
		want := [][]float64{{0.1, 0.2}, {0.3, 0.4}}
		if !reflect.DeepEqual(res.Embeddings, want) {
			t.Errorf("embeddings = %v, want %v", res.Embeddings, want)
		}
	})

	t.Run("vector count mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{
				Embeddings: [][]float64{{0.1}},
			})
		}))
		defer srv.Close()

		c := NewOllamaClient(OllamaConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})
		_, err := c.Embed(context.Background(), &EmbedRequest{Input: []string{"a", "b"}})
		var terr *TransportError
		if !errors.As(err, &terr) {
			t.Fatalf("error %T, want *TransportError", err)
		}
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewOllamaClient(OllamaConfig{BaseURL: srv.URL, Model: "nomic-embed-text"})
		_, err := c.Embed(context.Background(), &EmbedRequest{Input: []string{"a"}})
		if !IsTransport(err) {
			t.Fatalf("error %T (%v), want transport error", err, err)
		}
	})
}
