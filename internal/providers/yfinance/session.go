package yfinance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/seenimoa/dcfvalue/internal/infra"
)

const crumbTTL = 1 * time.Hour

// session holds the cookie-backed crumb that Yahoo requires on API calls.
// Obtaining it takes two steps: visit the seed page so the jar receives
// session cookies, then read the crumb with those cookies.
type session struct {
	client  *http.Client
	baseURL string
	seedURL string
	logger  *slog.Logger

	mu       sync.Mutex
	crumb    string
	crumbExp time.Time
}

// getCrumb returns the cached crumb, fetching a fresh one when expired.
func (s *session) getCrumb(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.crumb != "" && time.Now().Before(s.crumbExp) {
		return s.crumb, nil
	}

	// The seed page often answers 404; only its cookies matter.
	if body, _, err := infra.DoGet(ctx, s.client, s.seedURL, nil); err == nil {
		body.Close()
	} else {
		var httpErr *infra.ErrHTTP
		if !errors.As(err, &httpErr) {
			return "", fmt.Errorf("seed request: %w", err)
		}
	}

	body, _, err := infra.DoGet(ctx, s.client, s.baseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", fmt.Errorf("crumb request: %w", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read crumb: %w", err)
	}
	crumb := strings.TrimSpace(string(raw))
	if crumb == "" {
		return "", fmt.Errorf("empty crumb returned")
	}

	s.crumb = crumb
	s.crumbExp = time.Now().Add(crumbTTL)
	s.logger.Debug("crumb obtained", "crumb", crumb[:min(4, len(crumb))]+"...")
	return crumb, nil
}

// invalidate drops the cached crumb so the next call refreshes it.
func (s *session) invalidate() {
	s.mu.Lock()
	s.crumb = ""
	s.crumbExp = time.Time{}
	s.mu.Unlock()
}

// getJSON fetches path (relative to baseURL) with the crumb appended and
// decodes the response into dest. A 401 is retried once with a fresh crumb.
func (s *session) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	err := s.tryGetJSON(ctx, path, query, dest)
	var httpErr *infra.ErrHTTP
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
		s.logger.Debug("crumb rejected, refreshing", "path", path)
		s.invalidate()
		err = s.tryGetJSON(ctx, path, query, dest)
	}
	return err
}

func (s *session) tryGetJSON(ctx context.Context, path string, query url.Values, dest any) error {
	crumb, err := s.getCrumb(ctx)
	if err != nil {
		return fmt.Errorf("obtaining crumb: %w", err)
	}

	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("crumb", crumb)

	body, _, err := infra.DoGet(ctx, s.client, s.baseURL+path+"?"+q.Encode(), jsonHeaders())
	if err != nil {
		return err
	}
	defer body.Close()
	return decodeJSON(body, dest)
}
