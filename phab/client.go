// Package phab mirrors projects into Phabricator through the Conduit API.
package phab

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-resty/resty/v2"

	"github.com/wikimedia-sverige/project-start/internal/logging"
	"github.com/wikimedia-sverige/project-start/pkg/interfaces"
)

// Config captures the Conduit connection settings.
type Config struct {
	// APIURL is the Conduit root, e.g. "https://phabricator.wikimedia.org/api".
	APIURL string
	// Token authenticates every request. It is never logged.
	Token string
	// ParentProjectID is the numeric id of the project new projects are
	// created under.
	ParentProjectID int
	// RequestDelay is the minimum spacing between Conduit requests.
	RequestDelay time.Duration
	// DryRun skips the mutating project.edit call.
	DryRun bool
}

// Client talks to the Conduit API. Requests are spaced by the configured
// throttle; the client performs no automatic retries.
type Client struct {
	cfg      Config
	http     *resty.Client
	throttle *Throttle
	logger   interfaces.Logger
}

// Option customises a Client during construction.
type Option func(*Client)

// WithLogger attaches a logger to the client.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithHTTPClient overrides the underlying resty client, for tests.
func WithHTTPClient(http *resty.Client) Option {
	return func(c *Client) { c.http = http }
}

// WithThrottle overrides the request throttle, for tests.
func WithThrottle(throttle *Throttle) Option {
	return func(c *Client) { c.throttle = throttle }
}

// NewClient returns a Conduit client for the configured Phabricator host.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIURL) == "" {
		return nil, ErrAPIURLRequired
	}
	c := &Client{
		cfg:      cfg,
		logger:   logging.NoOp(),
		throttle: NewThrottle(cfg.RequestDelay),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = resty.New()
	}
	c.http.SetBaseURL(strings.TrimRight(cfg.APIURL, "/"))
	return c, nil
}

// ProjectName converts a project name to the Phabricator convention: spaces
// replaced by dashes and the parent project name as prefix. See
// https://www.mediawiki.org/wiki/Phabricator/Creating_and_renaming_projects#Good_practices_for_name_and_description
func ProjectName(name, parentName string) string {
	return fmt.Sprintf("%s-%s", parentName, strings.ReplaceAll(name, " ", "-"))
}

// AddProject creates a Phabricator project under the configured parent and
// returns its id and conventional name. When a project with that name
// already exists it is left untouched and the existing id is returned.
func (c *Client) AddProject(ctx context.Context, name, description string) (int, string, error) {
	err := validation.Errors{
		"name": validation.Validate(name, validation.Required),
	}.Filter()
	if err != nil {
		return 0, "", err
	}

	parentPHID, parentName, err := c.projectPHIDAndName(ctx, c.cfg.ParentProjectID)
	if err != nil {
		return 0, "", err
	}
	phabName := ProjectName(name, parentName)

	id, found, err := c.projectID(ctx, phabName)
	if err != nil {
		return 0, "", err
	}
	if found {
		c.logger.Warn("Project already exists. It will not be created.", "project", phabName)
		return id, phabName, nil
	}

	if c.cfg.DryRun {
		return 1, phabName, nil
	}

	parameters := map[string]any{
		"transactions": map[string]any{
			"0": map[string]any{"type": "name", "value": phabName},
			"1": map[string]any{"type": "description", "value": description},
			"2": map[string]any{"type": "parent", "value": parentPHID},
		},
	}
	response, err := c.request(ctx, "project.edit", parameters)
	if err != nil {
		return 0, "", err
	}
	if response.Result.Object == nil {
		return 0, "", &APIError{Info: "project.edit response carries no object"}
	}
	return response.Result.Object.ID, phabName, nil
}

// projectPHIDAndName resolves a project id to its PHID and display name via
// project.search. PHIDs have the form "PHID-PROJ-..." and are distinct from
// the numeric project id.
func (c *Client) projectPHIDAndName(ctx context.Context, id int) (string, string, error) {
	parameters := map[string]any{
		"constraints": map[string]any{"ids": []any{id}},
	}
	response, err := c.request(ctx, "project.search", parameters)
	if err != nil {
		return "", "", err
	}
	if len(response.Result.Data) == 0 {
		return "", "", &APIError{Info: fmt.Sprintf("no project with id %d", id)}
	}
	return response.Result.Data[0].PHID, response.Result.Data[0].Fields.Name, nil
}

// projectID looks up the numeric id of a project by name.
func (c *Client) projectID(ctx context.Context, name string) (int, bool, error) {
	parameters := map[string]any{
		"constraints": map[string]any{"query": name},
	}
	response, err := c.request(ctx, "project.search", parameters)
	if err != nil {
		return 0, false, err
	}
	if len(response.Result.Data) == 0 {
		return 0, false, nil
	}
	return response.Result.Data[0].ID, true, nil
}

type conduitResponse struct {
	Result    conduitResult `json:"result"`
	ErrorCode string        `json:"error_code"`
	ErrorInfo string        `json:"error_info"`
}

type conduitResult struct {
	Data   []conduitProject `json:"data"`
	Object *conduitObject   `json:"object"`
}

type conduitProject struct {
	ID     int    `json:"id"`
	PHID   string `json:"phid"`
	Fields struct {
		Name string `json:"name"`
	} `json:"fields"`
}

type conduitObject struct {
	ID int `json:"id"`
}

// request POSTs flattened form parameters to a Conduit endpoint, honouring
// the configured minimum request spacing. A non-empty error_info in the
// response surfaces as an APIError.
func (c *Client) request(ctx context.Context, endpoint string, parameters map[string]any) (*conduitResponse, error) {
	if waited := c.throttle.Wait(); waited > 0 {
		c.logger.Debug("Waited before making the next request to Conduit.", "wait", waited)
	}

	form := FlattenParameters(parameters)
	// Log with a placeholder token to keep the real one out of the logs.
	logged := make(map[string]string, len(form)+1)
	for k, v := range form {
		logged[k] = v
	}
	logged["api.token"] = "api-..."
	c.logger.Debug("POST to Conduit.", "endpoint", endpoint, "parameters", logged)
	form["api.token"] = c.cfg.Token

	result := &conduitResponse{}
	response, err := c.http.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		Post("/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("phab: request to %s failed: %w", endpoint, err)
	}
	if response.IsError() {
		return nil, &APIError{Info: fmt.Sprintf("%s returned status %s", endpoint, response.Status())}
	}
	if result.ErrorInfo != "" {
		return nil, &APIError{Code: result.ErrorCode, Info: result.ErrorInfo}
	}
	c.logger.Debug("Conduit response received.", "endpoint", endpoint)
	return result, nil
}
