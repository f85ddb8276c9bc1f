package tunnel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultAgentAPI адрес локального API агента ngrok
const DefaultAgentAPI = "http://127.0.0.1:4040"

// Config настройка публичного туннеля.
type Config struct {
	Enabled   bool
	AgentAPI  string
	Name      string
	PublicURL string // если задан, туннель не запрашивается
}

// Tunnel опубликованный туннель.
type Tunnel struct {
	Name      string `json:"name"`
	PublicURL string `json:"public_url"`
	Proto     string `json:"proto"`
}

// AgentClient открывает туннели через API агента ngrok.
type AgentClient struct {
	baseURL    *url.URL
	name       string
	httpClient *http.Client
}

// NewAgentClient создаёт клиента API агента.
func NewAgentClient(agentAPI, name string, httpClient *http.Client) (*AgentClient, error) {
	if agentAPI == "" {
		agentAPI = DefaultAgentAPI
	}
	base, err := url.Parse(agentAPI)
	if err != nil {
		return nil, errors.Wrap(err, "invalid agent api url")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if name == "" {
		name = "switch-merchant"
	}
	return &AgentClient{baseURL: base, name: name, httpClient: httpClient}, nil
}

type startTunnelRequest struct {
	Addr  string `json:"addr"`
	Proto string `json:"proto"`
	Name  string `json:"name"`
}

// Open просит агента пробросить локальный порт наружу и возвращает публичный адрес.
func (a *AgentClient) Open(ctx context.Context, port int) (*Tunnel, error) {
	payload, err := json.Marshal(startTunnelRequest{
		Addr:  strconv.Itoa(port),
		Proto: "http",
		Name:  a.name,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode tunnel request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL.JoinPath("api", "tunnels").String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build tunnel request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tunnel agent unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read tunnel response")
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tunnel agent responded %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var t Tunnel
	if err := json.Unmarshal(body, &t); err != nil {
		return nil, errors.Wrap(err, "decode tunnel response")
	}
	if t.PublicURL == "" {
		return nil, errors.New("tunnel agent returned no public url")
	}
	if t.Name == "" {
		t.Name = a.name
	}
	return &t, nil
}

// Close останавливает туннель.
func (a *AgentClient) Close(ctx context.Context, t *Tunnel) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, a.baseURL.JoinPath("api", "tunnels", t.Name).String(), nil)
	if err != nil {
		return errors.Wrap(err, "build tunnel close request")
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "tunnel agent unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tunnel agent responded %d on close", resp.StatusCode)
	}
	return nil
}

// Bootstrap результат запуска туннеля при старте процесса.
type Bootstrap struct {
	PublicURL string // пусто, если туннель недоступен

	agent  *AgentClient
	tunnel *Tunnel
}

// Start получает публичный адрес для локального порта. Ошибки не фатальны:
// сервер всё равно должен подняться, поэтому они только логируются.
func Start(ctx context.Context, log *slog.Logger, cfg Config, port int, httpClient *http.Client) *Bootstrap {
	const op = "tunnel.Start"
	logger := log.With(slog.String("op", op), slog.Int("port", port))

	if cfg.PublicURL != "" {
		logger.Info("using configured public url", slog.String("url", cfg.PublicURL))
		return &Bootstrap{PublicURL: strings.TrimRight(cfg.PublicURL, "/")}
	}
	if !cfg.Enabled {
		logger.Info("tunnel disabled")
		return &Bootstrap{}
	}

	agent, err := NewAgentClient(cfg.AgentAPI, cfg.Name, httpClient)
	if err != nil {
		logger.Error("tunnel unavailable", slog.Any("error", err))
		return &Bootstrap{}
	}

	t, err := agent.Open(ctx, port)
	if err != nil {
		logger.Error("tunnel unavailable", slog.Any("error", err))
		return &Bootstrap{}
	}

	logger.Info("tunnel opened", slog.String("url", t.PublicURL), slog.String("name", t.Name))
	return &Bootstrap{
		PublicURL: strings.TrimRight(t.PublicURL, "/"),
		agent:     agent,
		tunnel:    t,
	}
}

// BaseURL адрес, который отдаётся шлюзу для вебхуков и редиректа.
// Без туннеля это локальный адрес, снаружи он недоступен.
func (b *Bootstrap) BaseURL(port int) string {
	if b.PublicURL != "" {
		return b.PublicURL
	}
	return "http://localhost:" + strconv.Itoa(port)
}

// Available сообщает, есть ли публичный адрес.
func (b *Bootstrap) Available() bool {
	return b.PublicURL != ""
}

// Close закрывает туннель, если он был открыт этим процессом.
func (b *Bootstrap) Close(ctx context.Context) error {
	if b.agent == nil || b.tunnel == nil {
		return nil
	}
	return b.agent.Close(ctx, b.tunnel)
}
