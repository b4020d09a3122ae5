package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbedBatchOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text-v1.5" || len(req.Input) != 2 {
			t.Errorf("request = %+v", req)
		}
		// Answer out of order; the client must restore input order.
		resp := map[string]any{
			"data": []map[string]any{
				{"index": 1, "embedding": []float64{0.3, 0.4}},
				{"index": 0, "embedding": []float64{0.1, 0.2}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "nomic-embed-text-v1.5"})
	vectors, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors", len(vectors))
	}
	if vectors[0][0] != 0.1 || vectors[1][0] != 0.3 {
		t.Fatalf("vectors out of order: %v", vectors)
	}
}

func TestEmbedLengthMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"index": 0, "embedding": []float64{0.1}}},
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatal("Embed accepted a short vector batch")
	}
}

func TestEmbedHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if _, err := client.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("Embed swallowed an HTTP error")
	}
}

func TestEmbedEmptyBatch(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:0"})
	if _, err := client.Embed(context.Background(), nil); err == nil {
		t.Fatal("Embed accepted an empty batch")
	}
}
