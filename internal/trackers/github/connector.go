// Package github provides a bug-tracking backend over the GitHub issues
// API. Generic filter fields are translated into GitHub search qualifiers
// and returned issues are flattened into the shared issue shape.
package github

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"

	"github.com/buglens/buglens/internal/models"
)

// DefaultPageSize is the number of issues fetched per search request.
const DefaultPageSize = 100

// Config holds the settings for the GitHub backend.
type Config struct {
	Token string
	Owner string
	Repo  string
}

// Connector implements trackers.Tracker over the GitHub issues API.
type Connector struct {
	client   *gogithub.Client
	owner    string
	repo     string
	logger   arbor.ILogger
	pageSize int
}

// NewConnector creates a GitHub backend. An empty token yields an
// unauthenticated client subject to GitHub's anonymous rate limits.
func NewConnector(config Config, logger arbor.ILogger) (*Connector, error) {
	if config.Owner == "" || config.Repo == "" {
		return nil, fmt.Errorf("github backend requires owner and repo")
	}

	var client *gogithub.Client
	if config.Token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: config.Token},
		)
		tc := oauth2.NewClient(context.Background(), ts)
		client = gogithub.NewClient(tc)
	} else {
		client = gogithub.NewClient(nil)
	}

	return &Connector{
		client:   client,
		owner:    config.Owner,
		repo:     config.Repo,
		logger:   logger,
		pageSize: DefaultPageSize,
	}, nil
}

// Name identifies the backend.
func (c *Connector) Name() string {
	return "github"
}

// Ping verifies the repository is reachable.
func (c *Connector) Ping(ctx context.Context) error {
	_, _, err := c.client.Repositories.Get(ctx, c.owner, c.repo)
	if err != nil {
		return fmt.Errorf("github connection test failed: %w", err)
	}
	return nil
}

// Search executes one query definition via the GitHub search API. Each
// filter field maps onto a search qualifier; the backend accepts a single
// value per field because repeated GitHub qualifiers intersect rather
// than union.
func (c *Connector) Search(ctx context.Context, query models.QueryDefinition) ([]models.Issue, error) {
	q, err := c.buildSearchQuery(query)
	if err != nil {
		return nil, err
	}

	opts := &gogithub.SearchOptions{
		ListOptions: gogithub.ListOptions{PerPage: c.pageSize},
	}

	var issues []models.Issue
	for {
		result, resp, err := c.client.Search.Issues(ctx, q, opts)
		if err != nil {
			return nil, fmt.Errorf("github search failed: %w", err)
		}

		for _, item := range result.Issues {
			issues = append(issues, flattenIssue(item, query.IncludeFields))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Info().
		Str("query", q).
		Int("issues", len(issues)).
		Msg("Completed GitHub search")

	return issues, nil
}

// qualifierForField maps generic filter field names onto GitHub search
// qualifiers. Unmapped fields are rejected rather than silently dropped.
func qualifierForField(field string) (string, bool) {
	switch field {
	case "status":
		return "state", true
	case "creator", "reporter":
		return "author", true
	case "assigned_to":
		return "assignee", true
	case "component":
		return "label", true
	default:
		return "", false
	}
}

func (c *Connector) buildSearchQuery(query models.QueryDefinition) (string, error) {
	parts := []string{
		fmt.Sprintf("repo:%s/%s", c.owner, c.repo),
		"is:issue",
	}

	fields := make([]string, 0, len(query.Filters))
	for field := range query.Filters {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		values := query.Filters[field]
		if field == "product" {
			// The repository is the product; config already pins it.
			continue
		}
		qualifier, ok := qualifierForField(field)
		if !ok {
			return "", fmt.Errorf("github backend does not support filter field %q", field)
		}
		if len(values) != 1 {
			return "", fmt.Errorf("github backend supports a single value per filter, field %q has %d", field, len(values))
		}
		value := values[0]
		if qualifier == "state" {
			value = normalizeState(value)
		}
		if strings.ContainsAny(value, " \t") {
			value = fmt.Sprintf("%q", value)
		}
		parts = append(parts, qualifier+":"+value)
	}

	return strings.Join(parts, " "), nil
}

// normalizeState folds Bugzilla-style statuses onto GitHub's open/closed.
func normalizeState(status string) string {
	switch strings.ToUpper(status) {
	case "NEW", "ASSIGNED", "REOPENED", "ON_DEV", "ON_QA", "POST", "OPEN":
		return "open"
	case "RESOLVED", "VERIFIED", "CLOSED":
		return "closed"
	default:
		return strings.ToLower(status)
	}
}

// flattenIssue maps a GitHub issue onto the shared issue shape using the
// same attribute names the aggregator groups by.
func flattenIssue(issue *gogithub.Issue, includeFields []string) models.Issue {
	fields := map[string]interface{}{
		"id":          float64(issue.GetNumber()),
		"summary":     issue.GetTitle(),
		"status":      issue.GetState(),
		"creator":     issue.GetUser().GetLogin(),
		"assigned_to": issue.GetAssignee().GetLogin(),
	}
	if len(issue.Labels) > 0 {
		fields["component"] = issue.Labels[0].GetName()
	}

	if len(includeFields) > 0 {
		kept := make(map[string]interface{}, len(includeFields))
		for _, name := range includeFields {
			if v, ok := fields[name]; ok {
				kept[name] = v
			}
		}
		fields = kept
	}

	return models.Issue{
		ID:     issue.GetNumber(),
		Fields: fields,
	}
}
