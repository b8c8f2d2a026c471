package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/remvze/gitscovery/internal/utils"
	"github.com/remvze/gitscovery/pkg/whttp"
)

// pickSeq returns a picker that replays fixed values.
func pickSeq(values ...int) func(n int) int {
	i := 0
	return func(n int) int {
		v := values[i%len(values)]
		i++
		return v % n
	}
}

func TestNewQuery_StarWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	for choice := range MinStarsChoices {
		q := NewQuery(pickSeq(choice, 0), now)
		if q.MinStars != MinStarsChoices[choice] {
			t.Fatalf("expected minStars %d, got %d", MinStarsChoices[choice], q.MinStars)
		}
		if q.MaxStars != q.MinStars+StarWindow {
			t.Fatalf("expected maxStars %d, got %d", q.MinStars+StarWindow, q.MaxStars)
		}
	}
}

func TestNewQuery_PushedAfter(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC), "2023-09-15"},
		{time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "2023-07-02"},
		{time.Date(2023, 8, 31, 23, 59, 0, 0, time.UTC), "2023-03-03"},
	}
	for _, tt := range tests {
		q := NewQuery(pickSeq(0), tt.now)
		if q.PushedAfter != tt.want {
			t.Fatalf("for now=%s expected cutoff %s, got %s", tt.now, tt.want, q.PushedAfter)
		}
	}
}

func TestNewQueryFrom_CustomChoices(t *testing.T) {
	now := time.Now()
	choices := []int{42, 7000}

	for i := range choices {
		q := NewQueryFrom(choices, pickSeq(i, 0), now)
		if q.MinStars != choices[i] {
			t.Fatalf("expected configured floor %d, got %d", choices[i], q.MinStars)
		}
		if q.MaxStars != choices[i]+StarWindow {
			t.Fatalf("expected maxStars %d, got %d", choices[i]+StarWindow, q.MaxStars)
		}
	}
}

func TestNewQueryFrom_EmptyChoicesFallsBack(t *testing.T) {
	q := NewQueryFrom(nil, pickSeq(0), time.Now())
	if q.MinStars != MinStarsChoices[0] {
		t.Fatalf("expected default floor %d, got %d", MinStarsChoices[0], q.MinStars)
	}
}

func TestNewQuery_PageRange(t *testing.T) {
	now := time.Now()
	for i := 0; i < 50; i++ {
		q := NewQuery(pickSeq(i, i*7), now)
		if q.Page < 1 || q.Page > MaxPage {
			t.Fatalf("page %d out of [1,%d]", q.Page, MaxPage)
		}
	}
}

func TestQuery_Encode(t *testing.T) {
	q := Query{MinStars: 2000, MaxStars: 12000, Page: 7, PushedAfter: "2023-09-15"}

	values, err := url.ParseQuery(q.Encode())
	if err != nil {
		t.Fatalf("encode produced an unparsable query: %v", err)
	}

	if got := values.Get("q"); got != "stars:2000..12000 pushed:>2023-09-15 archived:false is:public" {
		t.Fatalf("unexpected q clause: %q", got)
	}
	if values.Get("sort") != "updated" || values.Get("order") != "desc" {
		t.Fatalf("expected sort=updated order=desc, got sort=%s order=%s", values.Get("sort"), values.Get("order"))
	}
	if values.Get("per_page") != "100" || values.Get("page") != "7" {
		t.Fatalf("expected per_page=100 page=7, got per_page=%s page=%s", values.Get("per_page"), values.Get("page"))
	}
}

func TestFilterActive(t *testing.T) {
	body := `{"items":[
		{"open_issues_count":0,"html_url":"u1"},
		{"open_issues_count":3,"html_url":"u2"},
		{"open_issues_count":1,"html_url":"u3"},
		{"open_issues_count":0,"html_url":"u4"}
	]}`

	got := FilterActive(body)
	if !utils.AreSlicesEqual(got, []string{"u2", "u3"}) {
		t.Fatalf("expected [u2 u3], got %v", got)
	}
}

func TestFilterActive_Empty(t *testing.T) {
	if got := FilterActive(`{"items":[]}`); len(got) != 0 {
		t.Fatalf("expected no URLs, got %v", got)
	}
	if got := FilterActive(`{"items":[{"open_issues_count":0,"html_url":"u1"}]}`); len(got) != 0 {
		t.Fatalf("expected no URLs for zero open issues, got %v", got)
	}
}

func TestSearch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("expected per_page=100, got %s", got)
		}
		fmt.Fprint(w, `{"items":[{"open_issues_count":0,"html_url":"u1"},{"open_issues_count":3,"html_url":"u2"}]}`)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: whttp.NewClient(0)}
	got, err := c.Search(Query{MinStars: 500, MaxStars: 10500, Page: 1, PushedAfter: "2023-09-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utils.AreSlicesEqual(got, []string{"u2"}) {
		t.Fatalf("expected [u2], got %v", got)
	}
}

func TestSearch_SendsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("expected bearer token header, got %q", got)
		}
		fmt.Fprint(w, `{"items":[]}`)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, Token: "sekrit", HTTP: whttp.NewClient(0)}
	if _, err := c.Search(Query{Page: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSearch_RateLimited(t *testing.T) {
	for _, status := range []int{403, 429} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		c := &Client{Endpoint: srv.URL, HTTP: whttp.NewClient(0)}
		_, err := c.Search(Query{Page: 1})
		if !errors.Is(err, ErrRateLimited) {
			t.Fatalf("status %d: expected ErrRateLimited, got %v", status, err)
		}
		srv.Close()
	}
}

func TestSearch_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><title>oops</title></html>")
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: whttp.NewClient(0)}
	if _, err := c.Search(Query{Page: 1}); err == nil {
		t.Fatal("expected an error for a non-JSON body")
	}
}
