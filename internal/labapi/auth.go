package labapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const maxPageBody = 512 * 1024

// Login входит на сервер формой /login и запоминает cookie сессии и CSRF токен
func (c *Client) Login(ctx context.Context, username, password string) error {
	token, err := c.fetchCSRF(ctx, "/login")
	if err != nil {
		return fmt.Errorf("load login page: %w", err)
	}
	c.setCSRF(token)

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("remember_me", "y")
	if token != "" {
		form.Set("csrf_token", token)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/login", nil, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.do(req)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			// повторный редирект на /login означает неверные учётные данные
			return ErrLoginFailed
		}
		return fmt.Errorf("submit login form: %w", err)
	}
	defer resp.Body.Close()

	// Успешный вход всегда редиректит на дашборд, повторная форма - ошибка
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return ErrLoginFailed
	}
	return nil
}

// Logout завершает сессию на сервере
func (c *Client) Logout(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/logout", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil && !errors.Is(err, ErrUnauthorized) {
		return fmt.Errorf("logout: %w", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	return nil
}

// fetchCSRF загружает HTML страницу формы и извлекает CSRF токен (пусто если защиты нет)
func (c *Client) fetchCSRF(ctx context.Context, path string) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	req.Header.Del(headerRequestedWith)
	req.Header.Set("Accept", "text/html")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return extractCSRF(page), nil
}
