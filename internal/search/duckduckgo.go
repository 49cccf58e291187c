package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/factlens/factlens/internal/model"
	"github.com/factlens/factlens/internal/util"
	"github.com/factlens/factlens/internal/worker"
)

const liteEndpoint = "https://lite.duckduckgo.com/lite/"

// DuckDuckGoClient is a Provider backed by the DuckDuckGo Lite HTML
// endpoint. It rate-limits itself per domain and honors robots.txt.
type DuckDuckGoClient struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	endpoint   string
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
}

// NewDuckDuckGoClient creates a search client from the search config.
func NewDuckDuckGoClient(cfg model.SearchConfig) *DuckDuckGoClient {
	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	return &DuckDuckGoClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		endpoint:  liteEndpoint,
		limiter:   worker.NewLimiter(cfg.RatePerSecond, cfg.RateBurst),
		robots:    robots,
	}
}

// Search performs one text search. Region uses the provider's kl codes
// (e.g. "in-en").
func (c *DuckDuckGoClient) Search(ctx context.Context, query, region string, maxResults int) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	if region != "" {
		params.Set("kl", region)
	}
	searchURL := c.endpoint + "?" + params.Encode()

	if c.robots != nil && !c.robots.IsAllowed(ctx, searchURL) {
		return nil, fmt.Errorf("search endpoint disallowed by robots.txt")
	}
	if err := c.limiter.Wait(ctx, searchURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	results, err := parseLiteResults(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results, nil
}

// parseLiteResults extracts {href,title,body} triples from the Lite
// result page. Result links carry class "result-link"; the snippet for
// a link is the next "result-snippet" cell.
func parseLiteResults(r io.Reader) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var results []Result
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case n.Data == "a" && hasClass(n, "result-link"):
				results = append(results, Result{
					Href:  resolveRedirect(attr(n, "href")),
					Title: strings.TrimSpace(textContent(n)),
				})
			case n.Data == "td" && hasClass(n, "result-snippet"):
				if len(results) > 0 && results[len(results)-1].Body == "" {
					results[len(results)-1].Body = strings.TrimSpace(textContent(n))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return results, nil
}

// resolveRedirect unwraps the provider's /l/?uddg= redirect links to
// the destination URL.
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if strings.Contains(parsed.Path, "/l/") {
		if target := parsed.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
