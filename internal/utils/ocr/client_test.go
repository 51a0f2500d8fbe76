package ocr

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecognize_SendsImageAndReturnsText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()

		content, _ := io.ReadAll(file)
		assert.Equal(t, "png-bytes", string(content))
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"  MILK 2 3.98\nEGGS 1 2.49  "}`))
	}))
	defer server.Close()

	text, err := NewClient(server.URL, time.Second).Recognize(context.Background(), []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "MILK 2 3.98\nEGGS 1 2.49", text)
}

func TestRecognize_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Recognize(context.Background(), []byte("x"), "image/jpeg")
	assert.Error(t, err)
}

func TestRecognize_NotConfigured(t *testing.T) {
	_, err := NewClient("", time.Second).Recognize(context.Background(), []byte("x"), "image/jpeg")
	assert.Error(t, err)
}
