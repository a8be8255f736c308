package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// Page holds a fetched document
type Page struct {
	URL         string
	Title       string
	Status      int
	ContentType string
}

// fetchPage retrieves a page and extracts its title
func fetchPage(ctx context.Context, client *resty.Client, target string) (*Page, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(target)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s (url: %s)", status, resp.Status(), target)
	}

	page := &Page{
		URL:         target,
		Status:      status,
		ContentType: resp.Header().Get("Content-Type"),
	}
	// Redirects land on a different document.
	if final := resp.RawResponse; final != nil && final.Request != nil && final.Request.URL != nil {
		page.URL = final.Request.URL.String()
	}

	page.Title, err = parseTitle(resp.String(), page.URL)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// parseTitle returns the document title, falling back to the host
func parseTitle(html, base string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		if u, err := url.Parse(base); err == nil {
			title = u.Host
		}
	}
	return title, nil
}

// sameDocument reports whether next only changes the fragment of current
func sameDocument(current, next string) bool {
	if current == "" {
		return false
	}
	a, err := url.Parse(current)
	if err != nil {
		return false
	}
	b, err := url.Parse(next)
	if err != nil {
		return false
	}
	if b.Fragment == "" && a.Fragment == "" {
		return false
	}
	a.Fragment, b.Fragment = "", ""
	a.RawFragment, b.RawFragment = "", ""
	return a.String() == b.String()
}

// validateURL accepts absolute http and https locations
func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}
