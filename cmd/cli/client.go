package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

type tokenData struct {
	Token     string `json:"token"`
	ProfileID string `json:"profile_id"`
}

type apiClient struct {
	http      *http.Client
	baseURL   string
	tokenPath string
}

func (a *apiClient) do(ctx context.Context, method, path string, payload, out any) error {
	return a.doJSON(ctx, method, path, "", payload, out)
}

// doAuth sends the stored session token.
func (a *apiClient) doAuth(ctx context.Context, method, path string, payload, out any) error {
	td, err := readToken(a.tokenPath)
	if err != nil {
		return fmt.Errorf("no active session, run `session activate` first: %w", err)
	}
	return a.doJSON(ctx, method, path, td.Token, payload, out)
}

func (a *apiClient) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	endpoint := strings.TrimRight(a.baseURL, "/") + path

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.WithField("method", method).WithField("url", endpoint).Debug("request")
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed (%d): %s", method, path, resp.StatusCode, apiError(data))
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// apiError pulls the message out of a {"error": "..."} body.
func apiError(data []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func defaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.animeverse-token.json"
	}
	return filepath.Join(home, ".animeverse", "token.json")
}

func saveToken(path string, td tokenData) error {
	if td.Token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(td, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func readToken(path string) (tokenData, error) {
	var td tokenData
	data, err := os.ReadFile(path)
	if err != nil {
		return td, err
	}
	if err := json.Unmarshal(data, &td); err != nil {
		return td, err
	}
	td.Token = strings.TrimSpace(td.Token)
	if td.Token == "" {
		return td, errors.New("token empty")
	}
	return td, nil
}

func clearToken(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func websocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	scheme := "ws"
	if u.Scheme == "https" {
		scheme = "wss"
	}
	return (&url.URL{Scheme: scheme, Host: u.Host, Path: path}).String(), nil
}
