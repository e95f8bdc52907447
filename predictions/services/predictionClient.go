package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/predictions/models"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Messages shown to the user for the two generic failure kinds.
const (
	FetchFailedMessage     = "Failed to fetch predictions"
	InvalidResponseMessage = "Invalid response from server"
)

var (
	// ErrFetchFailed covers non-2xx statuses and network faults.
	ErrFetchFailed = errors.New(FetchFailedMessage)
	// ErrInvalidResponse covers bodies that do not follow the success contract
	// and carry no error message of their own.
	ErrInvalidResponse = errors.New(InvalidResponseMessage)
)

// PredictionError is a failure reported by the prediction service in its body.
type PredictionError struct {
	Message string
}

func (e *PredictionError) Error() string { return e.Message }

// Predictor fetches doctor recommendations for a time of day.
type Predictor interface {
	Predict(ctx context.Context, timeOfDay string) ([]models.DoctorRecommendation, error)
}

// predictResponse is the body of GET /predict. Members stay raw so that
// truthiness can be judged on whatever the service sends.
type predictResponse struct {
	Success json.RawMessage `json:"success"`
	Doctors json.RawMessage `json:"doctors"`
	Error   json.RawMessage `json:"error"`
}

// PredictionClient calls the external prediction service.
type PredictionClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// ClientOption customizes a PredictionClient.
type ClientOption func(*PredictionClient)

// WithTimeout bounds each request. Zero keeps the default of no timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *PredictionClient) {
		c.httpClient.Timeout = d
	}
}

// WithRatePerMinute throttles outbound requests. Zero or less means unlimited.
func WithRatePerMinute(n int) ClientOption {
	return func(c *PredictionClient) {
		if n <= 0 {
			c.rateLimiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.rateLimiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *PredictionClient) {
		c.httpClient = hc
	}
}

// NewPredictionClient creates a client for the service rooted at baseURL.
func NewPredictionClient(baseURL string, opts ...ClientOption) *PredictionClient {
	c := &PredictionClient{
		baseURL:     baseURL,
		httpClient:  &http.Client{},
		rateLimiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Predict issues GET <base>/predict?time=<time> and decodes the doctor list.
//
// Errors are ErrFetchFailed, ErrInvalidResponse or a *PredictionError carrying
// the service's own message; each reads as the text shown to the user.
func (c *PredictionClient) Predict(ctx context.Context, timeOfDay string) ([]models.DoctorRecommendation, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %v", ErrFetchFailed, err)
	}

	// The value goes out as typed ("14:30"); only characters that would break
	// the query string are escaped.
	endpoint := c.baseURL + "/predict?time=" + strings.ReplaceAll(url.QueryEscape(timeOfDay), "%3A", ":")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		config.Logger.Warn("Prediction request failed", zap.String("time", timeOfDay), zap.Error(err))
		return nil, ErrFetchFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		config.Logger.Warn("Prediction service returned an error status",
			zap.String("time", timeOfDay), zap.Int("status", resp.StatusCode))
		return nil, ErrFetchFailed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		config.Logger.Warn("Reading prediction response failed", zap.Error(err))
		return nil, ErrFetchFailed
	}

	var data predictResponse
	if err := json.Unmarshal(body, &data); err != nil {
		config.Logger.Warn("Prediction response is not valid JSON", zap.Error(err))
		return nil, ErrInvalidResponse
	}
	config.Logger.Debug("Prediction response received", zap.ByteString("body", body))

	if models.Truthy(data.Success) && models.Truthy(data.Doctors) {
		var doctors []models.DoctorRecommendation
		if err := json.Unmarshal(data.Doctors, &doctors); err != nil {
			config.Logger.Warn("Prediction response has malformed doctors", zap.Error(err))
			return nil, ErrInvalidResponse
		}
		if doctors == nil {
			doctors = []models.DoctorRecommendation{}
		}
		return doctors, nil
	}
	if models.Truthy(data.Error) {
		return nil, &PredictionError{Message: models.Text(data.Error)}
	}
	return nil, ErrInvalidResponse
}
