package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"aquatrack/internal/model"
)

// Client fetches current conditions from the weather API. Failures yield
// an error the caller degrades to a nil sample; the recommendation engine
// is total over missing weather.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	redis    *redis.Client
	cacheTTL time.Duration
}

// currentResponse is the wire shape of the current-conditions endpoint.
type currentResponse struct {
	TemperatureC float64 `json:"temperature_c"`
	Icon         string  `json:"icon"`
	Description  string  `json:"description"`
	City         string  `json:"city"`
	ObservedAt   string  `json:"observed_at"`
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// UseRedisCache configures optional Redis caching for current conditions.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// Current fetches conditions for a city name.
func (c *Client) Current(ctx context.Context, city string) (*model.WeatherSample, error) {
	endpoint := fmt.Sprintf("%s/v1/current?city=%s", c.baseURL, url.QueryEscape(city))
	return c.fetch(ctx, endpoint, fmt.Sprintf("weather:city:%s", city))
}

// CurrentByCoords fetches conditions for coordinates.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*model.WeatherSample, error) {
	endpoint := fmt.Sprintf("%s/v1/current?lat=%f&lon=%f", c.baseURL, lat, lon)
	return c.fetch(ctx, endpoint, fmt.Sprintf("weather:coords:%.3f:%.3f", lat, lon))
}

func (c *Client) fetch(ctx context.Context, endpoint, cacheKey string) (*model.WeatherSample, error) {
	var resp currentResponse

	if c.readCache(ctx, cacheKey, &resp) {
		return toSample(resp), nil
	}

	if err := c.doGet(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	c.writeCache(ctx, cacheKey, resp)
	return toSample(resp), nil
}

func toSample(r currentResponse) *model.WeatherSample {
	observed, err := time.Parse(time.RFC3339, r.ObservedAt)
	if err != nil {
		observed = time.Now()
	}
	return &model.WeatherSample{
		TemperatureC: r.TemperatureC,
		Icon:         r.Icon,
		Description:  r.Description,
		City:         r.City,
		ObservedAt:   observed,
	}
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}
