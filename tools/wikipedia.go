package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bniladridas/snapenhanceai/providers"
)

const wikipediaAPIURL = "https://en.wikipedia.org/w/api.php"

const (
	wikipediaMaxRetries = 3
	wikipediaRetryDelay = time.Second
)

// WikipediaTool searches the live Wikipedia API and fetches article intros.
type WikipediaTool struct {
	cfg Config

	// baseURL overrides the live endpoint in tests.
	baseURL string
}

func (t *WikipediaTool) Name() string { return "search_wikipedia" }

func (t *WikipediaTool) Definition() providers.ToolFunction {
	return providers.ToolFunction{
		Name:        t.Name(),
		Description: "Search Wikipedia for information on a topic",
		Parameters: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "The search query or topic to look up on Wikipedia",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (default: 1)",
					"default":     1,
				},
			},
			"required": []string{"query"},
		},
	}
}

func (t *WikipediaTool) endpoint() string {
	if t.baseURL != "" {
		return t.baseURL
	}
	return wikipediaAPIURL
}

// get performs a request with retries and linear backoff. Wikipedia
// occasionally serves transient 5xx responses under load.
func (t *WikipediaTool) get(ctx context.Context, params url.Values) (*http.Response, error) {
	var lastErr error
	for retry := 0; retry < wikipediaMaxRetries; retry++ {
		if retry > 0 {
			select {
			case <-time.After(wikipediaRetryDelay * time.Duration(retry)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", t.endpoint()+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := t.cfg.httpClient().Do(req)
		if err != nil {
			log.Printf("[tools] wikipedia request error (attempt %d/%d): %v", retry+1, wikipediaMaxRetries, err)
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}
		resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)
		log.Printf("[tools] wikipedia retry %d/%d after error: %d", retry+1, wikipediaMaxRetries, resp.StatusCode)
	}
	return nil, fmt.Errorf("wikipedia request failed after %d attempts: %w", wikipediaMaxRetries, lastErr)
}

type wikiSearchResult struct {
	Title     string `json:"title"`
	Snippet   string `json:"snippet"`
	WordCount int    `json:"wordcount"`
	Timestamp string `json:"timestamp"`
}

func (t *WikipediaTool) Invoke(ctx context.Context, args map[string]interface{}) Result {
	query := argString(args, "query", "")
	limit := argInt(args, "limit", 1)
	return t.search(ctx, query, limit, true)
}

func (t *WikipediaTool) search(ctx context.Context, query string, limit int, followSuggestion bool) Result {
	log.Printf("[tools] searching Wikipedia for %q", query)

	if limit > 5 {
		limit = 5
	}
	if limit < 1 {
		limit = 1
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("list", "search")
	params.Set("srsearch", query)
	params.Set("srlimit", fmt.Sprintf("%d", limit))
	params.Set("srprop", "snippet|size|wordcount|timestamp")
	params.Set("srinfo", "totalhits|suggestion")
	params.Set("srwhat", "text")

	resp, err := t.get(ctx, params)
	if err != nil {
		return Result{
			"error":       "Wikipedia search failed: " + err.Error(),
			"query":       query,
			"data_source": "Wikipedia API (real-time data)",
			"timestamp":   timestamp(),
		}
	}
	defer resp.Body.Close()

	var searchData struct {
		Query struct {
			Search     []wikiSearchResult `json:"search"`
			SearchInfo struct {
				Suggestion string `json:"suggestion"`
			} `json:"searchinfo"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchData); err != nil {
		return Result{
			"error":       "Wikipedia search failed: " + err.Error(),
			"query":       query,
			"data_source": "Wikipedia API (real-time data)",
			"timestamp":   timestamp(),
		}
	}

	searchResults := searchData.Query.Search

	// No hits but a spelling suggestion: retry once with the suggestion.
	if len(searchResults) == 0 && followSuggestion && searchData.Query.SearchInfo.Suggestion != "" {
		suggestion := searchData.Query.SearchInfo.Suggestion
		log.Printf("[tools] no results for %q, retrying with suggestion %q", query, suggestion)
		return t.search(ctx, suggestion, limit, false)
	}

	if len(searchResults) == 0 {
		return Result{
			"query":         query,
			"results_count": 0,
			"message":       fmt.Sprintf("No Wikipedia articles found for '%s'", query),
			"results":       []Result{},
			"data_source":   "Wikipedia API (real-time data)",
			"timestamp":     timestamp(),
		}
	}

	results := make([]Result, 0, len(searchResults))
	for _, sr := range searchResults {
		article, err := t.fetchArticle(ctx, sr.Title)
		if err != nil {
			log.Printf("[tools] failed to get content for %q: %v", sr.Title, err)
			continue
		}
		article["word_count"] = sr.WordCount
		article["last_modified"] = sr.Timestamp
		results = append(results, article)
	}

	return Result{
		"query":         query,
		"results_count": len(results),
		"results":       results,
		"data_source":   "Wikipedia API (real-time data)",
		"timestamp":     timestamp(),
	}
}

// fetchArticle retrieves the intro extract and metadata for one page.
func (t *WikipediaTool) fetchArticle(ctx context.Context, title string) (Result, error) {
	log.Printf("[tools] getting content for Wikipedia article: %s", title)

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts|info|pageimages|description")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("inprop", "url|displaytitle")
	params.Set("pithumbsize", "500")
	params.Set("titles", title)
	params.Set("redirects", "1")

	resp, err := t.get(ctx, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var contentData struct {
		Query struct {
			Pages map[string]struct {
				Extract     string `json:"extract"`
				FullURL     string `json:"fullurl"`
				Description string `json:"description"`
				Thumbnail   *struct {
					Source string `json:"source"`
				} `json:"thumbnail"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&contentData); err != nil {
		return nil, err
	}

	for _, page := range contentData.Query.Pages {
		extract := page.Extract
		if extract == "" {
			extract = "No content available"
		}
		pageURL := page.FullURL
		if pageURL == "" {
			pageURL = "https://en.wikipedia.org/wiki/" + strings.ReplaceAll(title, " ", "_")
		}

		article := Result{
			"title":       title,
			"extract":     extract,
			"url":         pageURL,
			"description": page.Description,
		}
		if page.Thumbnail != nil {
			article["thumbnail"] = page.Thumbnail.Source
		}
		return article, nil
	}

	return nil, fmt.Errorf("no pages in response")
}
