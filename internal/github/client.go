// Package github publishes rendered release notes as GitHub releases.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v41/github"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/relnotes/internal/config"
	"github.com/danielolaszy/relnotes/internal/logging"
)

const defaultAPIURL = "https://api.github.com/"

// Client encapsulates the GitHub API client.
type Client struct {
	client *github.Client
}

// ReleaseInput describes the release to create or update.
type ReleaseInput struct {
	Tag        string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// APIURL returns the REST endpoint for a GitHub domain. Any domain other
// than github.com is treated as GitHub Enterprise.
func APIURL(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" || domain == config.DefaultGitHubDomain {
		return defaultAPIURL
	}
	return fmt.Sprintf("https://%s/api/v3/", domain)
}

// NewClient creates a GitHub client for the given domain and verifies the
// token by fetching the authenticated user.
func NewClient(ctx context.Context, token, domain string) (*Client, error) {
	return newClient(ctx, token, APIURL(domain))
}

func newClient(ctx context.Context, token, apiURL string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("github token not found in configuration")
	}

	logging.Info("github configuration",
		"api_url", apiURL,
		"token", logging.MaskSensitive(token))

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	if apiURL != defaultAPIURL {
		parsedURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("invalid github api url: %w", err)
		}
		client.BaseURL = parsedURL
		client.UploadURL = parsedURL
	}

	testCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	user, resp, err := client.Users.Get(testCtx, "")
	if err != nil {
		logging.Error("failed to test github token",
			"error", err,
			"status_code", statusCode(resp))
		return nil, fmt.Errorf("error testing github token: %w", err)
	}

	logging.Info("github authentication successful", "username", user.GetLogin())
	return &Client{client: client}, nil
}

// PublishRelease updates the release carrying in.Tag, or creates it when no
// such release exists. Draft releases are found too. It returns the release
// page URL.
func (c *Client) PublishRelease(ctx context.Context, repository string, in ReleaseInput) (string, error) {
	owner, repo, err := splitRepository(repository)
	if err != nil {
		return "", err
	}
	if in.Tag == "" {
		return "", fmt.Errorf("release tag is required")
	}
	if in.Name == "" {
		in.Name = in.Tag
	}

	existing, err := c.findRelease(ctx, owner, repo, in.Tag)
	if err != nil {
		return "", err
	}

	if existing != nil {
		existing.Name = github.String(in.Name)
		existing.Body = github.String(in.Body)
		existing.Draft = github.Bool(in.Draft)
		existing.Prerelease = github.Bool(in.Prerelease)

		updated, resp, err := c.client.Repositories.EditRelease(ctx, owner, repo, existing.GetID(), existing)
		if err != nil {
			return "", fmt.Errorf("failed to update release %s: %w (status: %d)", in.Tag, err, statusCode(resp))
		}
		logging.Info("github release updated", "repository", repository, "tag", in.Tag, "release_id", updated.GetID())
		return updated.GetHTMLURL(), nil
	}

	created, resp, err := c.client.Repositories.CreateRelease(ctx, owner, repo, &github.RepositoryRelease{
		TagName:    github.String(in.Tag),
		Name:       github.String(in.Name),
		Body:       github.String(in.Body),
		Draft:      github.Bool(in.Draft),
		Prerelease: github.Bool(in.Prerelease),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w (status: %d)", in.Tag, err, statusCode(resp))
	}
	logging.Info("github release created", "repository", repository, "tag", in.Tag, "release_id", created.GetID())
	return created.GetHTMLURL(), nil
}

// findRelease returns the release carrying tag, or nil when there is none.
// The tag lookup only sees published releases, so drafts are searched for in
// the release list.
func (c *Client) findRelease(ctx context.Context, owner, repo, tag string) (*github.RepositoryRelease, error) {
	release, resp, err := c.client.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err == nil {
		return release, nil
	}
	if statusCode(resp) != http.StatusNotFound {
		return nil, fmt.Errorf("failed to look up release %s: %w (status: %d)", tag, err, statusCode(resp))
	}

	opts := &github.ListOptions{PerPage: 100}
	for {
		releases, resp, err := c.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list releases: %w (status: %d)", err, statusCode(resp))
		}
		for _, r := range releases {
			if r.GetTagName() == tag {
				logging.Debug("found release in release list", "tag", tag, "release_id", r.GetID(), "draft", r.GetDraft())
				return r, nil
			}
		}
		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(strings.TrimSpace(repository), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s, expected format: owner/repo", repository)
	}
	return parts[0], parts[1], nil
}

func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
