package primo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	// loansPageSize caps the active-loans request; the endpoint is not
	// paginated further by the account UI either.
	loansPageSize = "50"

	defaultCoverBaseURL = "https://covers.openlibrary.org"
)

// Client represents one authenticated session against a Primo catalog
// instance. A Client is bound to a single account and is not safe for
// concurrent use across accounts; create one Client per account.
type Client struct {
	baseURL      string
	coverBaseURL string
	httpClient   *http.Client
	logger       zerolog.Logger
	ownsClient   bool

	token       string
	institution string
	view        string
}

// NewClient creates a new catalog client for the given base URL
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	options := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	client := &Client{
		baseURL:      baseURL,
		coverBaseURL: defaultCoverBaseURL,
		logger:       logger,
	}

	if options.httpClient != nil {
		client.httpClient = options.httpClient
	} else {
		// The login flow relies on session cookies set by the bootstrap
		// request, so an owned transport always carries a jar.
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		client.httpClient = &http.Client{
			Timeout: options.timeout,
			Jar:     jar,
		}
		client.ownsClient = true
	}

	return client, nil
}

// Close releases the underlying transport if the Client created it itself.
// An externally supplied transport is never closed here.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// get performs an authenticated or public GET against the catalog API
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, authed bool) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Login establishes a session and exchanges the credentials for a bearer
// token. The token is stored for subsequent authenticated calls and also
// returned for inspection.
func (c *Client) Login(ctx context.Context, username, password, institution, view string) (string, error) {
	c.institution = institution
	c.view = view

	// Bootstrap request; the response body is irrelevant, only the session
	// cookies matter.
	bootstrapURL := fmt.Sprintf("%s/discovery/search?vid=%s", c.baseURL, url.QueryEscape(view))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, bootstrapURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create bootstrap request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bootstrap request failed: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	form := url.Values{
		"authenticationProfile": {"Alma"},
		"username":              {username},
		"password":              {password},
		"institution":           {institution},
		"view":                  {view},
		"targetUrl":             {bootstrapURL},
	}

	loginURL := c.baseURL + "/primaws/suprimaLogin?lang=pl"
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Origin", c.baseURL)
	req.Header.Set("Referer", bootstrapURL)

	resp, err = c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read login response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result struct {
		JWTData string `json:"jwtData"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", &MalformedResponseError{Field: "jwtData", Reason: "login response is not valid JSON", Err: err}
	}

	token := strings.Trim(result.JWTData, `"`)
	if token == "" {
		return "", ErrMissingToken
	}

	c.token = token
	c.logger.Debug().Str("institution", institution).Str("view", view).Msg("Logged in to catalog")
	return token, nil
}

// FetchUserSummary returns the account summary derived from the bearer
// token claims and the counters endpoint. Absent counters default to zero.
func (c *Client) FetchUserSummary(ctx context.Context) (*UserSummary, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	claims, err := decodeTokenClaims(c.token)
	if err != nil {
		return nil, err
	}

	params := url.Values{"lang": {"pl"}}
	body, err := c.get(ctx, "/primaws/rest/priv/myaccount/counters", params, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get counters: %w", err)
	}

	var response struct {
		Data struct {
			ListOfActions struct {
				Action []struct {
					Type  string `json:"type"`
					Value any    `json:"value"`
				} `json:"action"`
			} `json:"listofactions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &MalformedResponseError{Field: "listofactions", Reason: "counters response is not valid JSON", Err: err}
	}

	summary := &UserSummary{
		DisplayName:   claims.DisplayName,
		UserName:      claims.UserName,
		FinesCurrency: "PLN",
	}

	for _, action := range response.Data.ListOfActions.Action {
		switch action.Type {
		case "Loans":
			summary.LoanCount, err = counterInt(action.Value)
		case "Requests":
			summary.RequestCount, err = counterInt(action.Value)
		case "Fines":
			summary.FinesAmount, err = counterAmount(action.Value)
		}
		if err != nil {
			return nil, &MalformedResponseError{Field: action.Type, Reason: "counter value is not numeric", Err: err}
		}
	}

	return summary, nil
}

// FetchLoans returns the account's active loans in the order the catalog
// reports them. An empty result is valid.
func (c *Client) FetchLoans(ctx context.Context) ([]Loan, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	params := url.Values{
		"bulk":   {loansPageSize},
		"lang":   {"pl"},
		"offset": {"1"},
		"type":   {"active"},
	}
	body, err := c.get(ctx, "/primaws/rest/priv/myaccount/loans", params, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get loans: %w", err)
	}

	var response struct {
		Data struct {
			Loans struct {
				Loan []rawLoan `json:"loan"`
			} `json:"loans"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &MalformedResponseError{Field: "loans", Reason: "loans response is not valid JSON", Err: err}
	}

	loans := make([]Loan, 0, len(response.Data.Loans.Loan))
	for _, raw := range response.Data.Loans.Loan {
		loan, err := mapLoan(raw)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}

	c.logger.Debug().Int("count", len(loans)).Msg("Retrieved active loans")
	return loans, nil
}

// FetchRecordDetail fetches the public bibliographic record for an MMS ID
// and attempts a best-effort cover lookup. It does not require login, but
// the view must have been set by a prior Login on this client.
func (c *Client) FetchRecordDetail(ctx context.Context, mmsid string) (*BookDetail, error) {
	if c.view == "" {
		return nil, ErrViewNotSet
	}

	params := url.Values{"vid": {c.view}, "lang": {"pl"}}
	body, err := c.get(ctx, "/primaws/rest/pub/pnxs/L/alma"+mmsid, params, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", mmsid, err)
	}

	var record pnxRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, &MalformedResponseError{Field: "pnx", Reason: "record response is not valid JSON", Err: err}
	}

	detail := mapBookDetail(mmsid, record)
	detail.CoverURL = c.FetchCoverURL(ctx, detail.ISBNs)
	return &detail, nil
}

// FetchCoverURL probes the OpenLibrary cover service for each ISBN in order
// and returns the first resolved URL that embeds that ISBN. The service
// redirects to a generic placeholder for unknown ISBNs, which the embed
// check rejects. Per-ISBN network errors are swallowed; exhausting all
// ISBNs returns the empty string.
func (c *Client) FetchCoverURL(ctx context.Context, isbns []string) string {
	for _, isbn := range isbns {
		probeURL := fmt.Sprintf("%s/b/isbn/%s-M.jpg", c.coverBaseURL, url.PathEscape(isbn))
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, probeURL, nil)
		if err != nil {
			continue
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug().Err(err).Str("isbn", isbn).Msg("Cover probe failed")
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		resolved := resp.Request.URL.String()
		if resp.StatusCode == http.StatusOK && strings.Contains(resolved, isbn) {
			return resolved
		}
	}
	return ""
}

// RenewLoan asks the catalog to renew a single loan by its loan ID
func (c *Client) RenewLoan(ctx context.Context, loanID string) error {
	if c.token == "" {
		return ErrNotAuthenticated
	}

	payload, err := json.Marshal(map[string]string{"id": loanID})
	if err != nil {
		return fmt.Errorf("failed to encode renew request: %w", err)
	}

	renewURL := c.baseURL + "/primaws/rest/priv/myaccount/renew_loans?lang=pl"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, renewURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create renew request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("renew request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read renew response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug().Str("loan_id", loanID).Msg("Renewed loan")
	return nil
}
