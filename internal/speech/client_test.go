package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/transcribe", r.URL.Path)

		err := r.ParseMultipartForm(1 << 20)
		require.NoError(t, err)
		file, _, err := r.FormFile("audio")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"transcript": "Met with donor about engineering fund"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	text, err := client.Transcribe(context.Background(), []byte("fake-wav-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "Met with donor about engineering fund", text)
}

func TestTranscribe_EmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transcript": ""}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Transcribe(context.Background(), []byte("fake"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "empty transcript")
}

func TestTranscribe_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transcript": "", "error": "unsupported codec"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Transcribe(context.Background(), []byte("fake"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported codec")
}

func TestTranscribe_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Transcribe(context.Background(), []byte("fake"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "returned 500")
}

func TestTranscribe_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Transcribe(context.Background(), []byte("fake"))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode")
}

func TestTranscribe_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(srv.URL)
	_, err := client.Transcribe(ctx, []byte("fake"))

	assert.Error(t, err)
}
