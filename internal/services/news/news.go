// Package news fetches recent feminicide cases from public news sources. It
// is a best-effort enrichment provider: callers must tolerate an empty result
// and must never let a failure here fail their own response.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nem-uma-a-menos/counter-api/internal/config"
)

// MaxCases bounds the list returned by RecentCases.
const MaxCases = 12

// ErrAllSourcesFailed reports that every configured search failed.
var ErrAllSourcesFailed = errors.New("news: all sources failed")

// Case is one incident record extracted from a news article.
type Case struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	Location      string    `json:"location"`
	Age           int       `json:"age,omitempty"`
	Circumstances string    `json:"circumstances,omitempty"`
	Source        string    `json:"source"`
	URL           string    `json:"url,omitempty"`
}

// defaultSearchTerms are the Portuguese queries sent to the news API.
var defaultSearchTerms = []string{
	"feminicídio",
	"mulher assassinada",
	"violência doméstica",
}

// Service queries a NewsAPI-compatible endpoint and turns relevant articles
// into case records.
type Service struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	terms      []string
	classifier Classifier
}

// NewService creates a new news service
func NewService(cfg *config.Config) *Service {
	timeout := 10 * time.Second
	if cfg.NewsTimeout > 0 {
		timeout = cfg.NewsTimeout
	}
	return &Service{
		client:     &http.Client{Timeout: timeout},
		baseURL:    cfg.NewsAPIURL,
		apiKey:     cfg.NewsAPIKey,
		terms:      defaultSearchTerms,
		classifier: NewKeywordClassifier(),
	}
}

// SetClassifier swaps the article relevance heuristic.
func (s *Service) SetClassifier(c Classifier) {
	if c != nil {
		s.classifier = c
	}
}

type apiResponse struct {
	Status   string    `json:"status"`
	Articles []article `json:"articles"`
}

type article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

// RecentCases returns up to MaxCases records, newest first. Without an API
// key it returns an empty list. It errors only when every search term failed;
// partial failures degrade silently to whatever was fetched.
func (s *Service) RecentCases(ctx context.Context) ([]Case, error) {
	if s.apiKey == "" {
		return []Case{}, nil
	}

	var (
		cases   []Case
		lastErr error
		failed  int
	)
	for _, term := range s.terms {
		fetched, err := s.search(ctx, term)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		cases = append(cases, fetched...)
	}
	if failed == len(s.terms) {
		return nil, fmt.Errorf("%w: %w", ErrAllSourcesFailed, lastErr)
	}

	cases = dedupe(cases)
	sort.SliceStable(cases, func(i, j int) bool {
		return cases[i].Date > cases[j].Date
	})
	if len(cases) > MaxCases {
		cases = cases[:MaxCases]
	}
	if cases == nil {
		cases = []Case{}
	}
	return cases, nil
}

func (s *Service) search(ctx context.Context, term string) ([]Case, error) {
	q := url.Values{}
	q.Set("q", term)
	q.Set("language", "pt")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news: %q returned status %d", term, resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("news: decoding %q response: %w", term, err)
	}

	var cases []Case
	for _, a := range payload.Articles {
		if !s.classifier.Relevant(a.Title, a.Description) {
			continue
		}
		cases = append(cases, extractCase(a))
	}
	return cases, nil
}

func extractCase(a article) Case {
	text := a.Title + " " + a.Description
	c := Case{
		ID:            uuid.New(),
		Date:          a.PublishedAt,
		Location:      extractLocation(text),
		Age:           extractAge(text),
		Circumstances: extractCircumstances(text),
		Source:        a.Source.Name,
		URL:           a.URL,
	}
	if c.Location == "" {
		c.Location = "Local não informado"
	}
	return c
}

func dedupe(cases []Case) []Case {
	seen := make(map[string]bool, len(cases))
	out := cases[:0]
	for _, c := range cases {
		key := c.URL
		if key == "" {
			key = c.Date + c.Location
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
