// Package authclient talks to the third-party user API that issues and
// validates bearer tokens.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UpstreamError carries the provider's status and message.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("auth provider returned %d: %s", e.Status, e.Message)
}

type LoginRequest struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	ExpiresInMins int    `json:"expiresInMins"`
}

type RefreshRequest struct {
	RefreshToken  string `json:"refreshToken"`
	ExpiresInMins int    `json:"expiresInMins"`
}

// Session is the provider's login/refresh response. Raw keeps the full body
// so it can be relayed unchanged.
type Session struct {
	Token        string
	RefreshToken string
	Raw          json.RawMessage
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	return c.session(ctx, "/auth/login", req)
}

func (c *Client) Refresh(ctx context.Context, req RefreshRequest) (*Session, error) {
	return c.session(ctx, "/auth/refresh", req)
}

// Me returns the profile of the token's owner.
func (c *Client) Me(ctx context.Context, accessToken string) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/auth/me", accessToken, nil, &raw)
	return raw, err
}

// Users lists every user except the one named exclude.
func (c *Client) Users(ctx context.Context, exclude string) ([]json.RawMessage, error) {
	var body struct {
		Users []json.RawMessage `json:"users"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", "", nil, &body); err != nil {
		return nil, err
	}

	users := make([]json.RawMessage, 0, len(body.Users))
	for _, u := range body.Users {
		var named struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(u, &named); err == nil && exclude != "" && named.Username == exclude {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) session(ctx context.Context, path string, payload interface{}) (*Session, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, path, "", payload, &raw); err != nil {
		return nil, err
	}

	var tokens struct {
		Token        string `json:"token"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s := &Session{Token: tokens.Token, RefreshToken: tokens.RefreshToken, Raw: raw}
	if s.Token == "" {
		s.Token = tokens.AccessToken
	}
	return s, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(data, &msg)
		return &UpstreamError{Status: resp.StatusCode, Message: msg.Message}
	}
	return json.Unmarshal(data, out)
}
