package imagelookup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"zesto-backend/internal/utils"
)

const (
	PlaceholderImage = "https://via.placeholder.com/150"
	defaultTimeout   = 5 * time.Second
)

// Client fetches a representative product image. It never returns an error;
// every failure collapses to PlaceholderImage.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func NewClientFromConfig(logger *zap.Logger) *Client {
	return NewClient(
		utils.GetConfig("IMAGE_LOOKUP_URL"),
		utils.GetDurationConfig("IMAGE_LOOKUP_TIMEOUT", defaultTimeout),
		logger,
	)
}

func (c *Client) LookupImage(ctx context.Context, name, category string) string {
	dish := strings.TrimSpace(strings.TrimSpace(name) + " " + strings.TrimSpace(category))
	if c.baseURL == "" || dish == "" {
		return PlaceholderImage
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		c.logger.Warn("invalid image lookup url", zap.String("url", c.baseURL), zap.Error(err))
		return PlaceholderImage
	}
	query := endpoint.Query()
	query.Set("dish", dish)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return PlaceholderImage
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("image lookup failed", zap.String("dish", dish), zap.Error(err))
		return PlaceholderImage
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("image lookup returned non-200", zap.String("dish", dish), zap.Int("status", resp.StatusCode))
		return PlaceholderImage
	}

	var body struct {
		ImageURL string `json:"image_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || strings.TrimSpace(body.ImageURL) == "" {
		return PlaceholderImage
	}

	return strings.TrimSpace(body.ImageURL)
}
