package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchStatusHandling(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "no content", status: http.StatusNoContent},
		{name: "not found", status: http.StatusNotFound, wantErr: true},
		{name: "not modified", status: http.StatusNotModified, wantErr: true},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.status != http.StatusNoContent && tt.status != http.StatusNotModified {
					io.WriteString(w, "body")
				}
			}))
			defer srv.Close()

			f := NewFetcher(Options{Timeout: time.Second})
			rc, err := f.Fetch(context.Background(), entity.RoleBackground, srv.URL)

			if !tt.wantErr {
				require.NoError(t, err)
				rc.Close()
				return
			}

			var dl *entity.DownloadFailedError
			require.True(t, errors.As(err, &dl))
			assert.Equal(t, tt.status, dl.StatusCode)
			assert.Equal(t, entity.RoleBackground, dl.Role)
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewFetcher(Options{Timeout: time.Second})
	_, err := f.Fetch(context.Background(), entity.RoleLogo, url)

	var te *entity.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "logo", te.Role)
	assert.Equal(t, "error downloading logo", err.Error())
}

func TestFetchInvalidURL(t *testing.T) {
	f := NewFetcher(Options{})
	_, err := f.Fetch(context.Background(), entity.RoleOverlay, "://nope")

	var te *entity.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, entity.RoleOverlay, te.Role)
}

func TestFetchSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
	}))
	defer srv.Close()

	f := NewFetcher(Options{UserAgent: "composer-test"})
	rc, err := f.Fetch(context.Background(), entity.RoleLogo, srv.URL)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "composer-test", got)
}

func TestFetchEnforcesMaxBytes(t *testing.T) {
	payload := strings.Repeat("x", 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// chunked, no content length
		w.(http.Flusher).Flush()
		io.WriteString(w, payload)
	}))
	defer srv.Close()

	t.Run("within limit", func(t *testing.T) {
		f := NewFetcher(Options{MaxBytes: 64})
		rc, err := f.Fetch(context.Background(), entity.RoleBackground, srv.URL)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, payload, string(data))
	})

	t.Run("over limit", func(t *testing.T) {
		f := NewFetcher(Options{MaxBytes: 10})
		rc, err := f.Fetch(context.Background(), entity.RoleBackground, srv.URL)
		require.NoError(t, err)
		defer rc.Close()

		_, err = io.ReadAll(rc)
		var te *entity.TransportError
		require.True(t, errors.As(err, &te))
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	f := NewFetcher(Options{})
	start := time.Now()
	_, err := f.Fetch(ctx, entity.RoleBackground, srv.URL)

	var te *entity.TransportError
	require.True(t, errors.As(err, &te))
	assert.Less(t, time.Since(start), 5*time.Second)
}
