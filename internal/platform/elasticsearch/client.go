// File: internal/platform/elasticsearch/client.go
package elasticsearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/elastic-transport-go/v8/elastictransport"
	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"estatehub_backend/internal/config"
)

// ESClientWrapper wraps the elasticsearch.Client so Wire can disambiguate
// the type. A nil wrapper means search is served from SQL instead.
type ESClientWrapper struct {
	*elasticsearch.Client
}

// Enabled reports whether an Elasticsearch backend is available.
func (w *ESClientWrapper) Enabled() bool {
	return w != nil && w.Client != nil
}

// ZapLogger adapts zap.Logger to elastictransport.Logger.
type ZapLogger struct {
	logger *zap.Logger
}

var _ elastictransport.Logger = (*ZapLogger)(nil)

// LogRoundTrip records request-response metrics for each transport call.
func (l *ZapLogger) LogRoundTrip(req *http.Request, res *http.Response, err error, start time.Time, dur time.Duration) error {
	var statusCode int
	if res != nil {
		statusCode = res.StatusCode
	}

	l.logger.Debug("Elasticsearch RoundTrip",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", statusCode),
		zap.Duration("duration", dur),
		zap.Error(err),
	)
	return nil
}

// RequestBodyEnabled makes the client pass a copy of request body to the logger.
func (l *ZapLogger) RequestBodyEnabled() bool { return true }

// ResponseBodyEnabled makes the client pass a copy of response body to the logger.
func (l *ZapLogger) ResponseBodyEnabled() bool { return true }

// NewClient creates and returns a new Elasticsearch client wrapper.
// When no URL is configured the wrapper is nil and callers fall back to
// SQL-based search.
func NewClient(cfg *config.Config, logger *zap.Logger) (*ESClientWrapper, error) {
	if cfg.ElasticsearchURL == "" {
		logger.Info("ElasticsearchURL is not configured. Property search will use the database.")
		return nil, nil
	}

	retryBackoff := func(i int) time.Duration {
		return time.Duration(i) * 100 * time.Millisecond
	}

	esCfg := elasticsearch.Config{
		Addresses:     []string{cfg.ElasticsearchURL},
		Logger:        &ZapLogger{logger: logger.Named("elasticsearch_client")},
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff:  retryBackoff,
		MaxRetries:    5,
	}

	esClient, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		logger.Error("Error creating Elasticsearch client", zap.Error(err))
		return nil, fmt.Errorf("elasticsearch.NewClient: %w", err)
	}

	res, err := esClient.Info()
	if err != nil {
		logger.Error("Error pinging Elasticsearch", zap.Error(err))
		return nil, fmt.Errorf("esClient.Info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			logger.Error("Error decoding Elasticsearch error response", zap.Error(err), zap.String("status", res.Status()))
			return nil, fmt.Errorf("error decoding Elasticsearch error response: %s", res.Status())
		}
		logger.Error("Elasticsearch client initialization error", zap.String("status", res.Status()), zap.Any("error_details", e))
		return nil, fmt.Errorf("elasticsearch client initialization error: %s", res.Status())
	}

	logger.Info("Elasticsearch client initialized and connected successfully",
		zap.String("url", cfg.ElasticsearchURL),
		zap.String("es_version", elasticsearch.Version),
	)
	return &ESClientWrapper{Client: esClient}, nil
}
