package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ds124wfegd/imagecomposer/internal/entity"
)

var ErrEmptyQuote = errors.New("quote service returned no quote")

type Client interface {
	Random(ctx context.Context) (*entity.Quote, error)
}

type httpClient struct {
	client *http.Client
	url    string
}

func NewClient(url string, timeout time.Duration) Client {
	return &httpClient{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

// Random fetches one quotation. Any failure is a *entity.QuoteFetchFailedError.
func (c *httpClient) Random(ctx context.Context) (*entity.Quote, error) {
	q, err := c.random(ctx)
	if err != nil {
		return nil, &entity.QuoteFetchFailedError{Err: err}
	}
	return q, nil
}

func (c *httpClient) random(ctx context.Context) (*entity.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// payload covers the common quote API shapes: {content, author},
// {quote, author} and zenquotes' {q, a}.
type payload struct {
	Content string `json:"content"`
	Quote   string `json:"quote"`
	Q       string `json:"q"`
	Author  string `json:"author"`
	A       string `json:"a"`
}

func parse(data []byte) (*entity.Quote, error) {
	data = bytes.TrimSpace(data)

	var p payload
	if len(data) > 0 && data[0] == '[' {
		var list []payload
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, ErrEmptyQuote
		}
		p = list[0]
	} else if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}

	q := &entity.Quote{
		Content: strings.TrimSpace(firstNonEmpty(p.Content, p.Quote, p.Q)),
		Author:  strings.TrimSpace(firstNonEmpty(p.Author, p.A)),
	}
	if q.Content == "" {
		return nil, ErrEmptyQuote
	}
	return q, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
