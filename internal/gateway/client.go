package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker/v2"
)

// DefaultBaseURL тестовое окружение Switch Payments
const DefaultBaseURL = "https://api-test.switchpayments.com/v2/"

// Config параметры клиента платёжного шлюза.
type Config struct {
	BaseURL    string
	AccountID  string
	PrivateKey string
	PublicKey  string
	Timeout    time.Duration

	// FailureThreshold - сколько подряд ошибок шлюза открывают предохранитель, 0 - значение по умолчанию.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// Client обращается к API шлюза с ключами мерчанта (Basic auth accountID:privateKey).
type Client struct {
	log        *slog.Logger
	baseURL    *url.URL
	accountID  string
	privateKey string
	publicKey  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient создаёт клиента. httpClient может быть nil.
func NewClient(log *slog.Logger, cfg Config, httpClient *http.Client) (*Client, error) {
	const op = "gateway.NewClient"

	rawURL := cfg.BaseURL
	if rawURL == "" {
		rawURL = DefaultBaseURL
	}
	base, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base url: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, rawURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	c := &Client{
		log:        log.With(slog.String("component", "gateway")),
		baseURL:    base,
		accountID:  cfg.AccountID,
		privateKey: cfg.PrivateKey,
		publicKey:  cfg.PublicKey,
		httpClient: httpClient,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "switch-api",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// 4xx - ошибка запроса, а не недоступность шлюза
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := AsAPIError(err)
			return ok && apiErr.StatusCode < http.StatusInternalServerError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return c, nil
}

// CreateCharge создаёт платёж (POST charges).
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	const op = "gateway.CreateCharge"

	var charge Charge
	if err := c.do(ctx, http.MethodPost, c.baseURL.JoinPath("charges"), req, &charge); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &charge, nil
}

// GetEvent получает событие вебхука по идентификатору (GET events/{id}).
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	const op = "gateway.GetEvent"

	if id == "" {
		return nil, fmt.Errorf("%s: empty event id", op)
	}
	var event Event
	if err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath("events", id), nil, &event); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &event, nil
}

// GetInstrument получает платёжный инструмент (GET instruments/{id}).
func (c *Client) GetInstrument(ctx context.Context, id string) (*Instrument, error) {
	const op = "gateway.GetInstrument"

	if id == "" {
		return nil, fmt.Errorf("%s: empty instrument id", op)
	}
	var instrument Instrument
	if err := c.do(ctx, http.MethodGet, c.baseURL.JoinPath("instruments", id), nil, &instrument); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &instrument, nil
}

// PublicAuthorization значение Basic-авторизации с публичным ключом для запросов из браузера.
func (c *Client) PublicAuthorization() string {
	return base64.StdEncoding.EncodeToString([]byte(c.publicKey + ":"))
}

// InstrumentsURL адрес, на который браузер отправляет данные карты.
func (c *Client) InstrumentsURL() string {
	return c.baseURL.JoinPath("instruments").String()
}

func (c *Client) do(ctx context.Context, method string, endpoint *url.URL, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
	}

	respBody, err := c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.accountID, c.privateKey)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: data}
		}
		return data, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.log.Warn("gateway call rejected", slog.String("url", endpoint.Path), slog.Any("error", err))
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}

	c.log.Debug("gateway call completed", slog.String("method", method), slog.String("url", endpoint.Path))

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
