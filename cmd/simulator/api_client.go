package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIClient handles HTTP communication with the backend
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL + "/api/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Response types matching backend

type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type SleepSession struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds *float64   `json:"durationSeconds"`
}

type FeedItem struct {
	SleepSession
	User User `json:"user"`
}

type Feed struct {
	Since time.Time  `json:"since"`
	Items []FeedItem `json:"items"`
}

// RegisterUser creates a new user account with a unique display name
func (c *APIClient) RegisterUser(baseName, password string) (*User, string, error) {
	displayName := fmt.Sprintf("%s_%d", baseName, time.Now().UnixNano()%100000)

	body := map[string]string{
		"displayName": displayName,
		"password":    password,
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/register", body, "", http.StatusOK, &result); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	return &result.User, result.AccessToken, nil
}

// Login authenticates an existing user
func (c *APIClient) Login(displayName, password string) (*User, string, error) {
	body := map[string]string{
		"displayName": displayName,
		"password":    password,
	}

	var result AuthResponse
	if err := c.do(http.MethodPost, "/auth/login", body, "", http.StatusOK, &result); err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	return &result.User, result.AccessToken, nil
}

// RecordSleep clocks in at start and clocks out at end
func (c *APIClient) RecordSleep(token string, start, end time.Time) (*SleepSession, error) {
	if err := c.do(http.MethodPost, "/sleep-sessions/clock-in", map[string]time.Time{"startTime": start}, token, http.StatusCreated, nil); err != nil {
		return nil, fmt.Errorf("clock in: %w", err)
	}

	var session SleepSession
	if err := c.do(http.MethodPost, "/sleep-sessions/clock-out", map[string]time.Time{"endTime": end}, token, http.StatusOK, &session); err != nil {
		return nil, fmt.Errorf("clock out: %w", err)
	}
	return &session, nil
}

// Follow makes the token's user follow userID
func (c *APIClient) Follow(token, userID string) error {
	if err := c.do(http.MethodPost, "/follows/"+userID, nil, token, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

// GetFeed fetches the following feed; a zero since uses the server default
func (c *APIClient) GetFeed(token string, since time.Time) (*Feed, error) {
	path := "/feed"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.Format(time.RFC3339))
	}

	var feed Feed
	if err := c.do(http.MethodGet, path, nil, token, http.StatusOK, &feed); err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	return &feed, nil
}

func (c *APIClient) do(method, path string, body interface{}, token string, wantStatus int, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
