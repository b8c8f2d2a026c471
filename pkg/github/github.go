// Package github talks to the GitHub repository search API and turns its
// responses into a plain list of repository URLs.
package github

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/remvze/gitscovery/pkg/whttp"
)

const (
	DefaultEndpoint = "https://api.github.com/search/repositories"

	PerPage    = 100
	MaxPage    = 10
	StarWindow = 10000

	RATE_LIMIT_HTTP_STATUS = 429
)

// MinStarsChoices are the star floors the query picks from. Each floor spans
// a StarWindow-wide band so no single mega-popular slice dominates results.
var MinStarsChoices = []int{500, 1000, 2000, 5000}

// ErrRateLimited marks a 403/429 answer from the search API. Callers decide
// whether stale cached data can stand in.
var ErrRateLimited = errors.New("search API rate limited")

// Query holds the parameters of one repository search. Rebuilt fresh on
// every fetch attempt, never persisted.
type Query struct {
	MinStars    int
	MaxStars    int
	Page        int
	PushedAfter string
}

// NewQuery builds a randomized query: a random star band, a random page in
// [1, MaxPage], and a freshness cutoff of six months before now. pick must
// return a uniform integer in [0, n).
func NewQuery(pick func(n int) int, now time.Time) Query {
	return NewQueryFrom(MinStarsChoices, pick, now)
}

// NewQueryFrom is NewQuery with a caller-supplied set of star floors. An
// empty set falls back to MinStarsChoices.
func NewQueryFrom(choices []int, pick func(n int) int, now time.Time) Query {
	if len(choices) == 0 {
		choices = MinStarsChoices
	}
	minStars := choices[pick(len(choices))]
	return Query{
		MinStars:    minStars,
		MaxStars:    minStars + StarWindow,
		Page:        pick(MaxPage) + 1,
		PushedAfter: now.AddDate(0, -6, 0).Format("2006-01-02"),
	}
}

// Clauses returns the space-joined search expression for the q parameter.
func (q Query) Clauses() string {
	return fmt.Sprintf("stars:%d..%d pushed:>%s archived:false is:public", q.MinStars, q.MaxStars, q.PushedAfter)
}

// Encode returns the full URL-encoded query string.
func (q Query) Encode() string {
	v := url.Values{}
	v.Set("q", q.Clauses())
	v.Set("sort", "updated")
	v.Set("order", "desc")
	v.Set("per_page", strconv.Itoa(PerPage))
	v.Set("page", strconv.Itoa(q.Page))
	return v.Encode()
}

// Client queries a repository search endpoint.
type Client struct {
	Endpoint string                // defaults to DefaultEndpoint
	Token    string                // optional, raises the unauthenticated quota
	HTTP     *retryablehttp.Client // nil means the shared default client
}

// Search issues one GET for the given query and returns the filtered URL
// list. 403/429 come back as ErrRateLimited; any other non-2xx status is a
// plain error.
func (c *Client) Search(q Query) ([]string, error) {
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	headers := []whttp.WHTTPHeader{
		{Name: "Accept", Value: "application/vnd.github+json"},
	}
	if c.Token != "" {
		headers = append(headers, whttp.WHTTPHeader{Name: "Authorization", Value: "Bearer " + c.Token})
	}

	res, err := whttp.SendHTTPRequest(
		&whttp.WHTTPReq{
			Method:  "GET",
			URL:     endpoint + "?" + q.Encode(),
			Headers: headers,
		}, c.HTTP)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == 403 || res.StatusCode == RATE_LIMIT_HTTP_STATUS {
		return nil, fmt.Errorf("%w (status %d)", ErrRateLimited, res.StatusCode)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		if res.HTTPTitle != "" {
			return nil, fmt.Errorf("search failed with status %d (%s)", res.StatusCode, res.HTTPTitle)
		}
		return nil, fmt.Errorf("search failed with status %d", res.StatusCode)
	}

	if !gjson.Valid(res.BodyString) {
		return nil, errors.New("search returned a non-JSON body")
	}

	return FilterActive(res.BodyString), nil
}

// FilterActive extracts html_url from every item with at least one open
// issue, preserving the API's order. Zero open issues is the heuristic for
// dead mirrors and backup repos, which are no fun to discover.
func FilterActive(body string) []string {
	var urls []string
	l := int(gjson.Get(body, "items.#").Int())
	for i := 0; i < l; i++ {
		item := "items." + strconv.Itoa(i)
		if gjson.Get(body, item+".open_issues_count").Int() > 0 {
			urls = append(urls, gjson.Get(body, item+".html_url").Str)
		}
	}
	return urls
}
