package labapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestedWith = "X-Requested-With"
	headerRequestID     = "X-Request-ID"
	headerCSRF          = "X-CSRFToken"

	maxErrorBody = 2048
)

// Options параметры клиента сервера лабораторий
type Options struct {
	BaseURL       string
	HTTPClient    *http.Client
	Location      *time.Location
	SessionCookie string // значение заголовка Cookie сохранённой сессии
	CSRFToken     string
	Logger        *zap.Logger
}

// Client REST клиент сервера лабораторий, один на сессию пользователя.
// Не кэширует ответы и не повторяет запросы.
type Client struct {
	base   *url.URL
	http   *http.Client
	jar    *cookiejar.Jar
	loc    *time.Location
	logger *zap.Logger

	mu   sync.RWMutex
	csrf string
}

// NewClient создаёт клиента и восстанавливает cookie сохранённой сессии
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if opts.SessionCookie != "" {
		jar.SetCookies(base, parseCookieHeader(opts.SessionCookie))
	}

	var hc http.Client
	if opts.HTTPClient != nil {
		hc = *opts.HTTPClient
	} else {
		hc.Timeout = 15 * time.Second
	}
	hc.Jar = jar
	// Редиректы обрабатываем сами: 302 на /login - истёкшая сессия, 302 после формы - успех
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:   base,
		http:   &hc,
		jar:    jar,
		loc:    loc,
		csrf:   opts.CSRFToken,
		logger: logger,
	}, nil
}

// Session сериализует текущие cookie для сохранения в БД
func (c *Client) Session() string {
	cookies := c.jar.Cookies(c.base)
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; ")
}

// CSRFToken токен, полученный при входе
func (c *Client) CSRFToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.csrf
}

func (c *Client) setCSRF(token string) {
	c.mu.Lock()
	c.csrf = token
	c.mu.Unlock()
}

// Location часовой пояс, в котором интерпретируются время без зоны
func (c *Client) Location() *time.Location {
	return c.loc
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// newRequest проставляет общие заголовки всех запросов к серверу
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(headerRequestedWith, "XMLHttpRequest")
	req.Header.Set(headerRequestID, uuid.NewString())
	if token := c.CSRFToken(); method != http.MethodGet && token != "" {
		req.Header.Set(headerCSRF, token)
	}
	return req, nil
}

// do выполняет запрос и отсекает неавторизованные и неуспешные ответы.
// 3xx не на /login возвращаются вызывающему как есть.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	c.logger.Debug("Lab API request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", req.Header.Get(headerRequestID)),
		zap.Duration("took", time.Since(started)))

	if resp.StatusCode == http.StatusUnauthorized || isLoginRedirect(resp) {
		resp.Body.Close()
		return nil, ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Status: resp.StatusCode,
			Body:   string(body),
		}
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Method: req.Method, Path: req.URL.Path, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// action вызывает эндпоинт, отвечающий {success, message}
func (c *Client) action(ctx context.Context, method, path string) error {
	req, err := c.newRequest(ctx, method, path, nil, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var result actionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if !result.Success {
		return &ActionError{Message: result.Message}
	}
	return nil
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func isLoginRedirect(resp *http.Response) bool {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return false
	}
	loc, err := resp.Location()
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.TrimRight(loc.Path, "/"), "/login")
}

func parseCookieHeader(header string) []*http.Cookie {
	req := http.Request{Header: http.Header{"Cookie": {header}}}
	return req.Cookies()
}
