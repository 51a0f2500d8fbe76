package imagelookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLookupImage_Found(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Crème Fraîche Dairy", r.URL.Query().Get("dish"))
		_, _ = w.Write([]byte(`{"image_url":"https://img.example.com/creme.jpg"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, time.Second, nil)
	assert.Equal(t, "https://img.example.com/creme.jpg", c.LookupImage(context.Background(), "Crème Fraîche", "Dairy"))
}

func TestLookupImage_Fallbacks(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }},
		{"empty", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`{"image_url":""}`)) }},
		{"garbage", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) }},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"image_url":"https://late"}`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			c := NewClient(server.URL, 50*time.Millisecond, nil)
			assert.Equal(t, PlaceholderImage, c.LookupImage(context.Background(), "Milk", "Dairy"))
		})
	}
}

func TestLookupImage_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 50*time.Millisecond, nil)
	assert.Equal(t, PlaceholderImage, c.LookupImage(context.Background(), "Milk", "Dairy"))

	assert.Equal(t, PlaceholderImage, NewClient("", time.Second, nil).LookupImage(context.Background(), "Milk", "Dairy"))
}
