package audible

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/wishlistapp/wishlist-server/internal/ratelimit"
)

const (
	// Rate limit: 1 request per second per region, burst of 3
	defaultRPS   = 1.0
	defaultBurst = 3

	defaultTimeout = 30 * time.Second

	userAgent = "Wishlist/1.0"
)

// Client is a rate-limited Audible catalog client.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	// baseURL overrides the per-region host when set (tests).
	baseURL string
}

// New creates a new Audible client.
func New(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: ratelimit.New(defaultRPS, defaultBurst),
		logger:  logger,
	}
}

// Lookup resolves an Audible product URL to full book metadata.
func (c *Client) Lookup(ctx context.Context, productURL string) (*Book, error) {
	region, asin, err := ParseProductURL(productURL)
	if err != nil {
		return nil, wrapError("lookup", region, asin, err)
	}

	book, err := c.GetBook(ctx, region, asin)
	if err != nil {
		return nil, err
	}
	book.ProductURL = productURL
	return book, nil
}

// GetBook retrieves metadata for a single audiobook by ASIN.
func (c *Client) GetBook(ctx context.Context, region Region, asin string) (*Book, error) {
	if !region.Valid() {
		return nil, wrapError("getBook", region, asin, ErrBadRequest)
	}
	if !ValidateASIN(asin) {
		return nil, wrapError("getBook", region, asin, ErrInvalidASIN)
	}

	query := url.Values{}
	query.Set("response_groups", "contributors,product_desc,product_attrs,product_extended_attrs,media,rating")
	query.Set("image_sizes", "500,1024")

	path := fmt.Sprintf("/1.0/catalog/products/%s", asin)
	body, err := c.doRequest(ctx, region, path, query)
	if err != nil {
		return nil, wrapError("getBook", region, asin, err)
	}

	var resp struct {
		Product rawProduct `json:"product"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("getBook", region, asin, fmt.Errorf("parse response: %w", err))
	}

	return rawProductToBook(&resp.Product), nil
}

// doRequest executes a GET against the regional catalog API with rate limiting.
func (c *Client) doRequest(ctx context.Context, region Region, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx, string(region)); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var fullURL string
	if c.baseURL != "" {
		fullURL = c.baseURL + path + "?" + query.Encode()
	} else {
		u := url.URL{
			Scheme:   "https",
			Host:     region.Host(),
			Path:     path,
			RawQuery: query.Encode(),
		}
		fullURL = u.String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("audible request",
		"region", region,
		"path", path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}

// rawProductToBook converts a raw API response to a Book.
func rawProductToBook(p *rawProduct) *Book {
	var releaseDate time.Time
	if p.ReleaseDate != "" {
		releaseDate, _ = time.Parse("2006-01-02", p.ReleaseDate)
	}

	var rating float32
	var ratingCount int
	if p.Rating != nil {
		rating = p.Rating.OverallDistribution.DisplayAverageRating
		ratingCount = p.Rating.OverallDistribution.NumReviews
	}

	return &Book{
		ASIN:           p.ASIN,
		Title:          p.Title,
		Subtitle:       p.Subtitle,
		Authors:        contributorNames(p.Authors),
		Narrators:      contributorNames(p.Narrators),
		Description:    htmlToMarkdown(p.PublisherSummary),
		Summary:        stripHTML(p.MerchandisingSummary),
		CoverURL:       selectCoverURL(p.ProductImages),
		ReleaseDate:    releaseDate,
		RuntimeMinutes: p.RuntimeLengthMin,
		Rating:         rating,
		RatingCount:    ratingCount,
	}
}

// contributorNames flattens contributor records to their display names.
func contributorNames(raw []rawContributor) []string {
	var names []string
	for _, c := range raw {
		if c.Name != "" {
			names = append(names, c.Name)
		}
	}
	return names
}

// selectCoverURL picks the best available cover URL (prefer 1024px).
func selectCoverURL(images map[string]string) string {
	for _, size := range []string{"1024", "500", "image_url"} {
		if url, ok := images[size]; ok && url != "" {
			return url
		}
	}
	return ""
}

// Raw API response types (internal)

type rawProduct struct {
	ASIN                 string            `json:"asin"`
	Title                string            `json:"title"`
	Subtitle             string            `json:"subtitle"`
	ReleaseDate          string            `json:"release_date"`
	RuntimeLengthMin     int               `json:"runtime_length_min"`
	PublisherSummary     string            `json:"publisher_summary"`
	MerchandisingSummary string            `json:"merchandising_summary"`
	ProductImages        map[string]string `json:"product_images"`
	Authors              []rawContributor  `json:"authors"`
	Narrators            []rawContributor  `json:"narrators"`
	Rating               *rawRating        `json:"rating"`
}

type rawContributor struct {
	ASIN string `json:"asin"`
	Name string `json:"name"`
}

type rawRating struct {
	OverallDistribution struct {
		DisplayAverageRating float32 `json:"display_average_rating"`
		NumReviews           int     `json:"num_reviews"`
	} `json:"overall_distribution"`
}
