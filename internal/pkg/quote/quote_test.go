package quote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomParsesKnownShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want entity.Quote
	}{
		{
			name: "quotable object",
			body: `{"_id":"x","content":"Stay hungry.","author":"Steve Jobs"}`,
			want: entity.Quote{Content: "Stay hungry.", Author: "Steve Jobs"},
		},
		{
			name: "quote field",
			body: `{"quote":"Less is more.","author":"Mies"}`,
			want: entity.Quote{Content: "Less is more.", Author: "Mies"},
		},
		{
			name: "zenquotes array",
			body: ` [{"q":"Be water.","a":"Bruce Lee","h":"<b>"}] `,
			want: entity.Quote{Content: "Be water.", Author: "Bruce Lee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			q, err := NewClient(srv.URL, time.Second).Random(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, *q)
		})
	}
}

func TestRandomFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, body: `{}`},
		{name: "invalid json", status: http.StatusOK, body: `not json`},
		{name: "empty array", status: http.StatusOK, body: `[]`},
		{name: "no content", status: http.StatusOK, body: `{"author":"nobody"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).Random(context.Background())
			var qe *entity.QuoteFetchFailedError
			assert.True(t, errors.As(err, &qe))
		})
	}
}

func TestRandomUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Random(context.Background())
	var qe *entity.QuoteFetchFailedError
	assert.True(t, errors.As(err, &qe))
}
