// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RemoteFetchError covers an unreachable API or a malformed response.
// Poll cycles log it and skip; commands surface it to the caller.
type RemoteFetchError struct {
	Op  string
	Err error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("wiki %s: %v", e.Op, e.Err)
}

func (e *RemoteFetchError) Unwrap() error { return e.Err }

// AuthError means the login handshake failed. Writes abort immediately;
// nothing retries silently on bad credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wiki login failed: %s", e.Reason)
}

const readRetryMaxElapsed = 20 * time.Second

// newReadBackoff returns the retry policy for read calls.
// BackOff implementations are stateful; always return a fresh instance.
func newReadBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = readRetryMaxElapsed
	return bo
}

// Client speaks the MediaWiki action API. Reads go through a plain
// pooled HTTP client with retry; each write builds a fresh cookie-jar
// session and performs the login-token -> login -> csrf-token handshake
// before the mutating POST. No credentials outlive a single write.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) apiURL() string {
	return c.baseURL + "/w/api.php"
}

// PageURL derives the canonical read URL for a title. MediaWiki keeps
// slashes and colons literal and renders spaces as underscores.
func (c *Client) PageURL(title string) string {
	return c.baseURL + "/wiki/" + strings.ReplaceAll(title, " ", "_")
}

// CategoryMember is one page in a category listing.
type CategoryMember struct {
	Title string `json:"title"`
}

// ListCategoryMembers returns members of a category, capped at limit.
// A single paginated call; an empty category is a valid empty result.
func (c *Client) ListCategoryMembers(ctx context.Context, category string, limit int) ([]CategoryMember, error) {
	params := url.Values{
		"action":  {"query"},
		"list":    {"categorymembers"},
		"cmtitle": {"Category:" + category},
		"cmlimit": {strconv.Itoa(limit)},
		"format":  {"json"},
	}

	var payload struct {
		Query struct {
			CategoryMembers []CategoryMember `json:"categorymembers"`
		} `json:"query"`
	}
	if err := c.get(ctx, "list category members", params, &payload); err != nil {
		return nil, err
	}
	return payload.Query.CategoryMembers, nil
}

// PageContent fetches the latest revision text of a page.
func (c *Client) PageContent(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":        {"query"},
		"prop":          {"revisions"},
		"titles":        {title},
		"rvprop":        {"content"},
		"rvslots":       {"main"},
		"formatversion": {"2"},
		"format":        {"json"},
	}

	var payload struct {
		Query struct {
			Pages []struct {
				Missing   bool `json:"missing"`
				Revisions []struct {
					Slots struct {
						Main struct {
							Content string `json:"content"`
						} `json:"main"`
					} `json:"slots"`
				} `json:"revisions"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, "fetch page content", params, &payload); err != nil {
		return "", err
	}

	for _, page := range payload.Query.Pages {
		if page.Missing {
			continue
		}
		for _, rev := range page.Revisions {
			return rev.Slots.Main.Content, nil
		}
	}
	return "", &RemoteFetchError{Op: "fetch page content", Err: fmt.Errorf("no revision for %q", title)}
}

// ResolveUsers maps usernames to their wiki-side numeric ids. Unknown
// usernames are simply absent from the result.
func (c *Client) ResolveUsers(ctx context.Context, usernames []string) (map[string]string, error) {
	params := url.Values{
		"action":  {"query"},
		"list":    {"users"},
		"ususers": {strings.Join(usernames, "|")},
		"format":  {"json"},
	}

	var payload struct {
		Query struct {
			Users []struct {
				Name    string `json:"name"`
				UserID  int64  `json:"userid"`
				Missing bool   `json:"missing"`
			} `json:"users"`
		} `json:"query"`
	}
	if err := c.get(ctx, "resolve users", params, &payload); err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(payload.Query.Users))
	for _, u := range payload.Query.Users {
		if u.Missing || u.UserID == 0 {
			continue
		}
		ids[u.Name] = strconv.FormatInt(u.UserID, 10)
	}
	return ids, nil
}

// Redirects lists pages that redirect to the given title.
func (c *Client) Redirects(ctx context.Context, title string) ([]string, error) {
	params := url.Values{
		"action":        {"query"},
		"prop":          {"redirects"},
		"titles":        {title},
		"formatversion": {"2"},
		"format":        {"json"},
	}

	var payload struct {
		Query struct {
			Pages []struct {
				Redirects []struct {
					Title string `json:"title"`
				} `json:"redirects"`
			} `json:"pages"`
		} `json:"query"`
	}
	if err := c.get(ctx, "list redirects", params, &payload); err != nil {
		return nil, err
	}

	var titles []string
	for _, page := range payload.Query.Pages {
		for _, r := range page.Redirects {
			titles = append(titles, r.Title)
		}
	}
	return titles, nil
}

// EditPage replaces a page's text in one edit.
func (c *Client) EditPage(ctx context.Context, title, text, summary string) error {
	return c.write(ctx, "edit page", func(token string) url.Values {
		return url.Values{
			"action":  {"edit"},
			"title":   {title},
			"text":    {text},
			"summary": {summary},
			"bot":     {"1"},
			"token":   {token},
			"format":  {"json"},
		}
	})
}

// MovePage renames a page, moving its talk page along. leaveRedirect
// false suppresses the redirect stub at the old title.
func (c *Client) MovePage(ctx context.Context, from, to, reason string, leaveRedirect bool) error {
	return c.write(ctx, "move page", func(token string) url.Values {
		params := url.Values{
			"action":   {"move"},
			"from":     {from},
			"to":       {to},
			"reason":   {reason},
			"movetalk": {"1"},
			"token":    {token},
			"format":   {"json"},
		}
		if !leaveRedirect {
			params.Set("noredirect", "1")
		}
		return params
	})
}

// DeletePage removes a page outright (used for stale redirects).
func (c *Client) DeletePage(ctx context.Context, title, reason string) error {
	return c.write(ctx, "delete page", func(token string) url.Values {
		return url.Values{
			"action": {"delete"},
			"title":  {title},
			"reason": {reason},
			"token":  {token},
			"format": {"json"},
		}
	})
}

// get performs a retried read call and decodes the JSON payload into out.
func (c *Client) get(ctx context.Context, op string, params url.Values, out interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL()+"?"+params.Encode(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err // transport errors are retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := checkAPIError(body); err != nil {
			return backoff.Permanent(err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("malformed response: %w", err))
		}
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(newReadBackoff(), ctx)); err != nil {
		return &RemoteFetchError{Op: op, Err: err}
	}
	return nil
}

// write runs the full authenticated write sequence: fresh session,
// login-token -> login -> csrf-token, then the mutating POST.
func (c *Client) write(ctx context.Context, op string, buildParams func(token string) url.Values) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return &RemoteFetchError{Op: op, Err: err}
	}
	session := &http.Client{Jar: jar, Timeout: 30 * time.Second}

	csrf, err := c.login(ctx, session)
	if err != nil {
		return err
	}

	body, err := c.post(ctx, session, buildParams(csrf))
	if err != nil {
		return &RemoteFetchError{Op: op, Err: err}
	}
	if err := checkAPIError(body); err != nil {
		return &RemoteFetchError{Op: op, Err: err}
	}
	return nil
}

// login performs the token handshake and returns a csrf token bound to
// the session's cookies.
func (c *Client) login(ctx context.Context, session *http.Client) (string, error) {
	// Step 1: retrieve a login token
	body, err := c.sessionGet(ctx, session, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"type":   {"login"},
		"format": {"json"},
	})
	if err != nil {
		return "", &RemoteFetchError{Op: "fetch login token", Err: err}
	}

	var loginTokenPayload struct {
		Query struct {
			Tokens struct {
				LoginToken string `json:"logintoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &loginTokenPayload); err != nil {
		return "", &RemoteFetchError{Op: "fetch login token", Err: err}
	}
	if loginTokenPayload.Query.Tokens.LoginToken == "" {
		return "", &AuthError{Reason: "empty login token"}
	}

	// Step 2: POST credentials. Bot-password credentials only; main
	// account login is not supported by the API.
	body, err = c.post(ctx, session, url.Values{
		"action":     {"login"},
		"lgname":     {c.username},
		"lgpassword": {c.password},
		"lgtoken":    {loginTokenPayload.Query.Tokens.LoginToken},
		"format":     {"json"},
	})
	if err != nil {
		return "", &RemoteFetchError{Op: "login", Err: err}
	}

	var loginPayload struct {
		Login struct {
			Result string `json:"result"`
			Reason string `json:"reason"`
		} `json:"login"`
	}
	if err := json.Unmarshal(body, &loginPayload); err != nil {
		return "", &RemoteFetchError{Op: "login", Err: err}
	}
	if loginPayload.Login.Result != "Success" {
		reason := loginPayload.Login.Reason
		if reason == "" {
			reason = loginPayload.Login.Result
		}
		return "", &AuthError{Reason: reason}
	}

	// Step 3: while logged in, retrieve a csrf token
	body, err = c.sessionGet(ctx, session, url.Values{
		"action": {"query"},
		"meta":   {"tokens"},
		"format": {"json"},
	})
	if err != nil {
		return "", &RemoteFetchError{Op: "fetch csrf token", Err: err}
	}

	var csrfPayload struct {
		Query struct {
			Tokens struct {
				CSRFToken string `json:"csrftoken"`
			} `json:"tokens"`
		} `json:"query"`
	}
	if err := json.Unmarshal(body, &csrfPayload); err != nil {
		return "", &RemoteFetchError{Op: "fetch csrf token", Err: err}
	}
	if csrfPayload.Query.Tokens.CSRFToken == "" || csrfPayload.Query.Tokens.CSRFToken == "+\\" {
		return "", &AuthError{Reason: "no csrf token issued"}
	}
	return csrfPayload.Query.Tokens.CSRFToken, nil
}

func (c *Client) sessionGet(ctx context.Context, session *http.Client, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL()+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, session *http.Client, params url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(), strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := session.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// checkAPIError surfaces a MediaWiki error payload as a Go error.
func checkAPIError(body []byte) error {
	var payload struct {
		Error *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		// Not JSON at all; let the caller fail on its own decode.
		return nil
	}
	if payload.Error != nil {
		return fmt.Errorf("api error %s: %s", payload.Error.Code, payload.Error.Info)
	}
	return nil
}
