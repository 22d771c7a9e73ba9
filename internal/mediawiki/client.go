// Package mediawiki is a small MediaWiki action API client covering the
// operations the page builder needs: existence checks, reading wikitext and
// bot edits. Requests share one cookie jar so the login session carries over.
package mediawiki

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/wikimedia-sverige/project-start/internal/logging"
	"github.com/wikimedia-sverige/project-start/pkg/interfaces"
)

// Config carries the connection settings for one wiki.
type Config struct {
	// APIURL is the endpoint URL, e.g. https://se.wikimedia.org/w/api.php.
	APIURL    string
	Username  string
	Password  string
	UserAgent string
}

// Option configures optional client collaborators.
type Option func(*Client)

// WithLogger wires a logger for request tracing.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying resty client.
func WithHTTPClient(http *resty.Client) Option {
	return func(c *Client) {
		if http != nil {
			c.http = http
		}
	}
}

// Client talks to one wiki. It is not safe for concurrent use; the tool
// writes pages sequentially.
type Client struct {
	cfg    Config
	http   *resty.Client
	logger interfaces.Logger

	csrfToken string
}

// NewClient returns a client for the configured wiki.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.APIURL == "" {
		return nil, ErrAPIURLRequired
	}

	c := &Client{
		cfg:    cfg,
		http:   resty.New(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.UserAgent != "" {
		c.http.SetHeader("User-Agent", cfg.UserAgent)
	}
	return c, nil
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type tokenResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Tokens map[string]string `json:"tokens"`
	} `json:"query"`
}

type loginResponse struct {
	Error *apiError `json:"error"`
	Login struct {
		Result string `json:"result"`
		Reason string `json:"reason"`
	} `json:"login"`
}

type queryResponse struct {
	Error *apiError `json:"error"`
	Query struct {
		Pages []struct {
			Title     string `json:"title"`
			Missing   bool   `json:"missing"`
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

type editResponse struct {
	Error *apiError `json:"error"`
	Edit  struct {
		Result string `json:"result"`
	} `json:"edit"`
}

// Login starts a bot session. Must be called before Write when the wiki does
// not allow anonymous edits.
func (c *Client) Login(ctx context.Context) error {
	token, err := c.fetchToken(ctx, "login")
	if err != nil {
		return err
	}

	var result loginResponse
	if err := c.post(ctx, map[string]string{
		"action":     "login",
		"lgname":     c.cfg.Username,
		"lgpassword": c.cfg.Password,
		"lgtoken":    token,
	}, &result); err != nil {
		return err
	}
	if result.Error != nil {
		return &APIError{Code: result.Error.Code, Info: result.Error.Info}
	}
	if result.Login.Result != "Success" {
		return fmt.Errorf("%w: %s %s", ErrLoginFailed, result.Login.Result, result.Login.Reason)
	}
	c.logger.Debug("Logged in.", "username", c.cfg.Username)
	return nil
}

// Exists reports whether a page exists.
func (c *Client) Exists(ctx context.Context, title string) (bool, error) {
	result, err := c.queryPage(ctx, title, false)
	if err != nil {
		return false, err
	}
	return !result.Missing, nil
}

// Read returns the page's current wikitext.
func (c *Client) Read(ctx context.Context, title string) (string, error) {
	result, err := c.queryPage(ctx, title, true)
	if err != nil {
		return "", err
	}
	if result.Missing || len(result.Revisions) == 0 {
		return "", fmt.Errorf("%w: %q", ErrRevisionMissing, title)
	}
	return result.Revisions[0].Slots.Main.Content, nil
}

// Write replaces the page content, creating the page when needed. Edits are
// flagged as bot edits.
func (c *Client) Write(ctx context.Context, title, text, summary string) error {
	token, err := c.csrf(ctx)
	if err != nil {
		return err
	}

	var result editResponse
	if err := c.post(ctx, map[string]string{
		"action":  "edit",
		"title":   title,
		"text":    text,
		"summary": summary,
		"bot":     "1",
		"token":   token,
	}, &result); err != nil {
		return err
	}
	if result.Error != nil {
		return &APIError{Code: result.Error.Code, Info: result.Error.Info}
	}
	if result.Edit.Result != "Success" {
		return fmt.Errorf("%w: edit of %q ended with %q", ErrAPI, title, result.Edit.Result)
	}
	c.logger.Debug("Wrote page.", "title", title)
	return nil
}

type pageResult struct {
	Missing   bool
	Revisions []struct {
		Slots struct {
			Main struct {
				Content string `json:"content"`
			} `json:"main"`
		} `json:"slots"`
	}
}

func (c *Client) queryPage(ctx context.Context, title string, withContent bool) (*pageResult, error) {
	params := map[string]string{
		"action": "query",
		"titles": title,
	}
	if withContent {
		params["prop"] = "revisions"
		params["rvprop"] = "content"
		params["rvslots"] = "main"
	}

	var result queryResponse
	if err := c.post(ctx, params, &result); err != nil {
		return nil, err
	}
	if result.Error != nil {
		return nil, &APIError{Code: result.Error.Code, Info: result.Error.Info}
	}
	if len(result.Query.Pages) == 0 {
		return nil, fmt.Errorf("%w: query for %q returned no pages", ErrAPI, title)
	}
	page := result.Query.Pages[0]
	return &pageResult{Missing: page.Missing, Revisions: page.Revisions}, nil
}

// csrf returns the session's edit token, fetching it on first use.
func (c *Client) csrf(ctx context.Context) (string, error) {
	if c.csrfToken != "" {
		return c.csrfToken, nil
	}
	token, err := c.fetchToken(ctx, "csrf")
	if err != nil {
		return "", err
	}
	c.csrfToken = token
	return token, nil
}

func (c *Client) fetchToken(ctx context.Context, kind string) (string, error) {
	var result tokenResponse
	if err := c.post(ctx, map[string]string{
		"action": "query",
		"meta":   "tokens",
		"type":   kind,
	}, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", &APIError{Code: result.Error.Code, Info: result.Error.Info}
	}
	token, ok := result.Query.Tokens[kind+"token"]
	if !ok || token == "" {
		return "", fmt.Errorf("%w: no %s token in response", ErrAPI, kind)
	}
	return token, nil
}

func (c *Client) post(ctx context.Context, params map[string]string, result any) error {
	form := map[string]string{
		"format":        "json",
		"formatversion": "2",
	}
	for key, value := range params {
		form[key] = value
	}

	response, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		Post(c.cfg.APIURL)
	if err != nil {
		return fmt.Errorf("mediawiki: %s request: %w", params["action"], err)
	}
	if response.IsError() {
		return &APIError{
			Code: fmt.Sprintf("http-%d", response.StatusCode()),
			Info: strings.TrimSpace(response.String()),
		}
	}
	return nil
}
