package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nhle/venuedesk/internal/source"
)

// Client reads tables through the Supabase PostgREST endpoint.
type Client struct {
	projectURL  string
	anonKey     string
	accessToken string
	httpClient  *http.Client
}

// Error is the PostgREST error body.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Hint       string `json:"hint"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("supabase error (status %d, %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Message)
}

// NewClient creates a client for the project at projectURL. The anon key
// goes in the apikey header; accessToken, when set, is sent as the Bearer
// token so row-level security applies to the signed-in user.
func NewClient(projectURL, anonKey, accessToken string) *Client {
	return &Client{
		projectURL:  strings.TrimRight(projectURL, "/"),
		anonKey:     anonKey,
		accessToken: accessToken,
		httpClient:  &http.Client{},
	}
}

// Select reads all rows of table matching the PostgREST select expression.
func (c *Client) Select(ctx context.Context, table, columns string, result interface{}) error {
	params := url.Values{}
	params.Set("select", columns)
	path := "/rest/v1/" + url.PathEscape(table) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.projectURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("apikey", c.anonKey)
	bearer := c.accessToken
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request GET %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &source.AuthError{
			Backend: "supabase",
			Message: "check the anon key and access token for " + c.projectURL,
		}
	}

	if resp.StatusCode != http.StatusOK {
		pgErr := &Error{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, pgErr) != nil || pgErr.Message == "" {
			pgErr.Message = string(body)
		}
		return fmt.Errorf("select %s: %w", table, &source.StatusError{
			StatusCode: resp.StatusCode,
			Method:     http.MethodGet,
			Path:       table,
			Body:       pgErr.Error(),
		})
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshaling %s rows: %w", table, err)
	}

	return nil
}
