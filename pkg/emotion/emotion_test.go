package emotion

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"SafeDrive/pkg/log"
	"SafeDrive/pkg/wellness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyFallsBackToNextModel(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "Bearer hf-key", r.Header.Get("Authorization"))
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "jpeg-bytes", string(body))

		if strings.HasSuffix(r.URL.Path, "/loading-model") {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
			return
		}
		_, _ = w.Write([]byte(`[{"label":"angry","score":0.7},{"label":"neutral","score":0.2},{"score":0.1}]`))
	}))
	defer srv.Close()

	c, err := New(Config{
		APIKey:  "hf-key",
		BaseURL: srv.URL,
		Models:  []string{"org/loading-model", "org/good-model"},
	}, log.NewTestLogger())
	require.NoError(t, err)

	emotions, err := c.Classify(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, []wellness.Emotion{{Label: "angry", Score: 0.7}, {Label: "neutral", Score: 0.2}}, emotions)
	assert.Equal(t, []string{"/org/loading-model", "/org/good-model"}, paths)
}

func TestClassifyAllModelsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "k", BaseURL: srv.URL, Models: []string{"a"}}, log.NewTestLogger())
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currently loading")
}

func TestClassifyEmptyPrediction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := New(Config{APIKey: "k", BaseURL: srv.URL, Models: []string{"a"}}, log.NewTestLogger())
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, ErrNoPrediction)
}

func TestNewRequiresKey(t *testing.T) {
	_, err := New(Config{}, log.NewTestLogger())
	assert.Error(t, err)
}
