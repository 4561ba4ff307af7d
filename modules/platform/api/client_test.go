package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	levels   []string
}

func (n *recordingNotifier) Notify(message, level string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	n.levels = append(n.levels, level)
}

func (n *recordingNotifier) last() (string, string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.messages) == 0 {
		return "", ""
	}
	return n.messages[len(n.messages)-1], n.levels[len(n.levels)-1]
}

func TestListProductsQueryParams(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"products": []map[string]interface{}{{"id": "1", "name": "Widget", "currentPrice": 10.0}},
			"total":    1,
			"pages":    1,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	result := client.ListProducts(context.Background(), ListQuery{
		Page: 2, PageSize: 25, SortField: "currentPrice", SortOrder: "asc",
		Search: "widget", Site: "amazon",
	})

	want := map[string]string{
		"page": "2", "limit": "25", "sort": "currentPrice", "order": "asc",
		"search": "widget", "site": "amazon",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
	if len(result.Products) != 1 || result.Products[0].Name != "Widget" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestListProductsFailureSafeDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 5*time.Second, notifier)
	result := client.ListProducts(context.Background(), ListQuery{Page: 1, PageSize: 25})

	if len(result.Products) != 0 || result.Total != 0 || result.Pages != 1 {
		t.Errorf("expected empty safe default, got %+v", result)
	}
	msg, level := notifier.last()
	if msg != "Failed to load products" || level != "error" {
		t.Errorf("unexpected notification: %q / %q", msg, level)
	}
}

func TestListProductsUnreachableServer(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second, nil)
	result := client.ListProducts(context.Background(), ListQuery{Page: 1, PageSize: 25})
	if result.Pages != 1 {
		t.Errorf("expected Pages=1 on connection failure, got %d", result.Pages)
	}
}

func TestListProductsClampsPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"products": nil, "total": 0, "pages": 0})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	if result := client.ListProducts(context.Background(), ListQuery{Page: 1}); result.Pages != 1 {
		t.Errorf("expected Pages clamped to 1, got %d", result.Pages)
	}
}

func TestFetchMetricsNilOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	if snapshot := client.FetchMetrics(context.Background()); snapshot != nil {
		t.Errorf("expected nil snapshot on failure, got %+v", snapshot)
	}
}

func TestFetchMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"totalProducts": 42, "activeAlerts": 3, "successRate": 97.5, "averageInterval": "5m",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	snapshot := client.FetchMetrics(context.Background())
	if snapshot == nil {
		t.Fatal("expected snapshot")
	}
	if snapshot.TotalProducts != 42 || snapshot.ActiveAlerts != 3 {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
}

func TestFetchPriceHistoryDefaultInterval(t *testing.T) {
	var gotInterval string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotInterval = r.URL.Query().Get("interval")
		json.NewEncoder(w).Encode([]map[string]interface{}{{"timestamp": "2025-03-01T00:00:00Z", "price": 9.99}})
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second, nil)
	points := client.FetchPriceHistory(context.Background(), "p1", "")
	if gotInterval != "24h" {
		t.Errorf("expected default interval 24h, got %q", gotInterval)
	}
	if len(points) != 1 || points[0].Price != 9.99 {
		t.Errorf("unexpected points: %+v", points)
	}
}

func TestAddProductPropagatesError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid url", http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 5*time.Second, notifier)
	if _, err := client.AddProduct(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error from AddProduct")
	}
	msg, level := notifier.last()
	if msg != "Failed to add product" || level != "error" {
		t.Errorf("unexpected notification: %q / %q", msg, level)
	}
}

func TestAddProductSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["url"] != "https://example.com/item" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "p9", "name": "Item"})
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 5*time.Second, notifier)
	product, err := client.AddProduct(context.Background(), "https://example.com/item")
	if err != nil {
		t.Fatalf("AddProduct() error: %v", err)
	}
	if product.ID != "p9" {
		t.Errorf("unexpected product: %+v", product)
	}
	msg, level := notifier.last()
	if msg != "Product added successfully" || level != "success" {
		t.Errorf("unexpected notification: %q / %q", msg, level)
	}
}

func TestDeleteProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		if r.URL.Path == "/products/gone" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := &recordingNotifier{}
	client := NewClient(server.URL, 5*time.Second, notifier)

	if !client.DeleteProduct(context.Background(), "p1") {
		t.Error("expected delete to succeed")
	}
	if client.DeleteProduct(context.Background(), "gone") {
		t.Error("expected delete of missing product to fail")
	}
	msg, level := notifier.last()
	if msg != "Failed to delete product" || level != "error" {
		t.Errorf("unexpected notification: %q / %q", msg, level)
	}
}
