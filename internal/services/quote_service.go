package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/syedhamza2135/Portfolio-Pulse/internal/config"
	apperrors "github.com/syedhamza2135/Portfolio-Pulse/internal/errors"
	"github.com/syedhamza2135/Portfolio-Pulse/internal/logger"
)

const quoteCacheTTL = 5 * time.Minute

// globalQuoteResponse mirrors the provider's GLOBAL_QUOTE payload.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
}

// quoteService fetches market quotes over HTTP with an optional Redis cache
// in front. A nil cache client disables caching.
type quoteService struct {
	cache   *redis.Client
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewQuoteService creates a new QuoteServicer from application configuration.
func NewQuoteService(cfg *config.Config, cache *redis.Client) QuoteServicer {
	return &quoteService{
		cache:   cache,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: cfg.QuoteBaseURL,
		apiKey:  cfg.QuoteAPIKey,
	}
}

func quoteCacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s:price", symbol)
}

// GetQuote returns the current price for a symbol, serving from cache when a
// fresh entry exists. Provider transport failures surface as
// QUOTE_UNAVAILABLE; an empty quote as QUOTE_NOT_FOUND.
func (s *quoteService) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, quoteCacheKey(symbol)).Result()
		if err == nil {
			price, parseErr := decimal.NewFromString(cached)
			if parseErr == nil {
				return &Quote{Symbol: symbol, Price: price, RetrievedAt: time.Now()}, nil
			}
		}
	}

	reqURL := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		s.baseURL, url.QueryEscape(symbol), url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, fmt.Errorf("provider returned status %d", resp.StatusCode))
	}

	var result globalQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}

	if result.GlobalQuote.Price == "" {
		return nil, apperrors.ErrQuoteNotFound
	}

	price, err := decimal.NewFromString(result.GlobalQuote.Price)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, quoteCacheKey(symbol), price.String(), quoteCacheTTL).Err(); err != nil {
			// Cache failures degrade to uncached quotes.
			logger.Get().Warnf("failed to cache quote for %s: %v", symbol, err)
		}
	}

	return &Quote{Symbol: symbol, Price: price, RetrievedAt: time.Now()}, nil
}
