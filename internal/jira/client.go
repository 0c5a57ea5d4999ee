// Package jira fetches issues from a JIRA server through saved filters.
package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	jira "github.com/andygrunwald/go-jira"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/logging"
	"github.com/danielolaszy/relnotes/pkg/models"
)

const defaultPageSize = 50

// AuthMethod names how requests are authenticated.
type AuthMethod string

const (
	AuthCookie AuthMethod = "cookie"
	AuthBasic  AuthMethod = "basic"
	AuthBearer AuthMethod = "bearer"
	AuthNone   AuthMethod = "none"
)

// Client handles interactions with the JIRA API
type Client struct {
	client     *jira.Client
	auth       AuthMethod
	fields     []string
	pageSize   int
	maxResults int
}

type searchResponse struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Issues     []models.Issue `json:"issues"`
}

// NewClient creates a new JIRA client. A cookie takes precedence over a
// username and token pair, which takes precedence over a bare token.
func NewClient(cfg config.JiraConfig, creds config.Credentials) (*Client, error) {
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("JIRA server URL not configured")
	}

	base := &headerTransport{headers: cfg.RequestHeaders, cookie: creds.JiraCookie}

	var (
		transport http.RoundTripper
		auth      AuthMethod
	)
	switch {
	case creds.JiraCookie != "":
		transport, auth = base, AuthCookie
	case creds.JiraUsername != "" && creds.JiraToken != "":
		transport = &jira.BasicAuthTransport{Username: creds.JiraUsername, Password: creds.JiraToken, Transport: base}
		auth = AuthBasic
	case creds.JiraToken != "":
		transport = &jira.BearerAuthTransport{Token: creds.JiraToken, Transport: base}
		auth = AuthBearer
	default:
		logging.Warn("no JIRA credentials provided, requests are unauthenticated")
		transport, auth = base, AuthNone
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client, err := jira.NewClient(&http.Client{Transport: transport, Timeout: timeout}, cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create JIRA client: %w", err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	logging.Info("jira client initialized",
		"server_url", cfg.ServerURL,
		"auth", string(auth),
		"cookie", logging.MaskSensitive(creds.JiraCookie))

	return &Client{
		client:     client,
		auth:       auth,
		fields:     cfg.IssueFieldsToRequest,
		pageSize:   pageSize,
		maxResults: cfg.MaxResultsPerRequest,
	}, nil
}

// Auth returns the authentication method in use.
func (c *Client) Auth() AuthMethod {
	return c.auth
}

// CheckConnection verifies the session and returns the current user's name.
func (c *Client) CheckConnection(ctx context.Context) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("JIRA client not initialized")
	}

	user, resp, err := c.client.User.GetSelfWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to check JIRA connection: %w (status: %d)", err, statusCode(resp))
	}

	name := user.DisplayName
	if name == "" {
		name = user.Name
	}
	logging.Info("jira connection verified", "user", name)
	return name, nil
}

// FilterJQL returns the JQL of a saved filter.
func (c *Client) FilterJQL(ctx context.Context, filterID string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("JIRA client not initialized")
	}

	id, err := strconv.Atoi(strings.TrimSpace(filterID))
	if err != nil {
		return "", fmt.Errorf("invalid filter id %q: %w", filterID, err)
	}

	filter, resp, err := c.client.Filter.GetWithContext(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to get JIRA filter %d: %w (status: %d)", id, err, statusCode(resp))
	}
	if strings.TrimSpace(filter.Jql) == "" {
		return "", fmt.Errorf("JIRA filter %d has no JQL", id)
	}

	logging.Debug("filter jql fetched", "filter_id", id, "jql", filter.Jql)
	return filter.Jql, nil
}

// SearchIssues pages through the issues matching jql. Paging stops once
// total is reached, on an empty page, or once limit issues are collected.
// The server may cap maxResults below the page size, so a short page only
// ends paging when the response carries no total. A limit of zero or less
// means no limit.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, limit int) ([]models.Issue, error) {
	if c.client == nil {
		return nil, fmt.Errorf("JIRA client not initialized")
	}

	params := url.Values{}
	params.Set("jql", jql)
	params.Set("fields", fieldList(fields))
	params.Set("validateQuery", "strict")
	params.Set("maxResults", strconv.Itoa(c.pageSize))

	var issues []models.Issue
	startAt := 0
	for {
		params.Set("startAt", strconv.Itoa(startAt))

		req, err := c.client.NewRequestWithContext(ctx, http.MethodGet, "rest/api/2/search?"+params.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build search request: %w", err)
		}

		var page searchResponse
		resp, err := c.client.Do(req, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to search JIRA issues: %w (status: %d)", jira.NewJiraError(resp, err), statusCode(resp))
		}

		issues = append(issues, page.Issues...)
		startAt += len(page.Issues)

		logging.Debug("search page fetched",
			"start_at", page.StartAt,
			"page_count", len(page.Issues),
			"total", page.Total,
			"fetched", len(issues))

		if limit > 0 && len(issues) >= limit {
			issues = issues[:limit]
			break
		}
		if len(page.Issues) == 0 {
			break
		}
		if page.Total > 0 {
			if startAt >= page.Total {
				break
			}
			continue
		}
		if len(page.Issues) < c.pageSize {
			break
		}
	}

	logging.Info("jira search finished", "issue_count", len(issues))
	return issues, nil
}

// FetchFilterIssues resolves a filter to its JQL and fetches the matching
// issues with the configured fields and limit.
func (c *Client) FetchFilterIssues(ctx context.Context, filterID string) (string, []models.Issue, error) {
	jql, err := c.FilterJQL(ctx, filterID)
	if err != nil {
		return "", nil, err
	}

	issues, err := c.SearchIssues(ctx, jql, c.fields, c.maxResults)
	if err != nil {
		return jql, nil, err
	}
	return jql, issues, nil
}

// fieldList returns the sorted, distinct field ids including key.
func fieldList(fields []string) string {
	if len(fields) == 0 {
		return "key,summary"
	}
	set := map[string]bool{"key": true}
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			set[f] = true
		}
	}
	out := make([]string, 0, len(set))
	for f := range set {
		out = append(out, f)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

func statusCode(resp *jira.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
