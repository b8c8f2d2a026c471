package whttp

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html"
)

type WHTTPHeader struct {
	Name  string
	Value string
}

type WHTTPReq struct {
	URL     string
	Method  string
	Headers []WHTTPHeader
}

type WHTTPRes struct {
	StatusCode     int
	ResponseLength int
	HTTPTitle      string
	BodyString     string
}

var (
	defaultClient     *retryablehttp.Client
	defaultClientOnce sync.Once
)

// GetDefaultClient returns the shared retryable client used for outbound
// requests unless a caller supplies its own.
func GetDefaultClient() *retryablehttp.Client {
	defaultClientOnce.Do(func() {
		defaultClient = NewClient(3)
	})
	return defaultClient
}

// NewClient builds a retryable client that retries transport errors and 5xx
// responses only. Client errors (403/429 included) go back to the caller
// untouched, so rate-limit decisions stay with the caller.
func NewClient(retryMax int) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = log.New(io.Discard, "", 0)
	c.RetryMax = retryMax
	c.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, nil
		}
		if resp != nil && resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
	return c
}

// SetupProxy routes the default client through the given HTTP proxy.
func SetupProxy(proxy string) error {
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}
	GetDefaultClient().HTTPClient.Transport = &http.Transport{
		Proxy: http.ProxyURL(proxyURL),
	}
	return nil
}

func SendHTTPRequest(wReq *WHTTPReq, client *retryablehttp.Client) (wRes *WHTTPRes, err error) {
	if client == nil {
		client = GetDefaultClient()
	}

	req, err := retryablehttp.NewRequest(wReq.Method, wReq.URL, nil)
	if err != nil {
		return nil, err
	}

	// Set common headers
	req.Header.Set("User-Agent", "gitscovery")
	req.Header.Set("Accept-Language", "en")

	// Set custom headers
	for _, h := range wReq.Headers {
		req.Header.Set(h.Name, h.Value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	wRes = &WHTTPRes{}
	wRes.BodyString = string(bodyBytes)
	wRes.StatusCode = resp.StatusCode

	// The API answers JSON, but proxies and abuse-detection layers answer
	// HTML. Keep the page title around so failures are diagnosable from logs.
	if title, ok := getHTMLTitle(wRes.BodyString); ok {
		wRes.HTTPTitle = strings.ToValidUTF8(strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(title, "\n", ""), "\r", "")), "")
	}

	wRes.ResponseLength = utf8.RuneCountInString(wRes.BodyString)
	return wRes, nil
}

func isTitleElement(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "title"
}

func traverse(n *html.Node) (string, bool) {
	if isTitleElement(n) {
		if n.FirstChild != nil {
			return n.FirstChild.Data, true
		}
		return "", true
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		result, ok := traverse(c)
		if ok {
			return result, ok
		}
	}

	return "", false
}

func getHTMLTitle(requestBody string) (string, bool) {
	if !strings.Contains(requestBody, "<title") {
		return "", false
	}
	doc, err := html.Parse(strings.NewReader(requestBody))
	if err != nil {
		return "", false
	}
	return traverse(doc)
}
