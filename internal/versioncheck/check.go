// Package versioncheck asks a release endpoint for the latest published
// version and reports whether the running binary is behind. The result is
// advisory and never blocks a command.
package versioncheck

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"resty.dev/v3"
)

// DefaultEndpoint serves the latest release in the GitHub releases format.
const DefaultEndpoint = "https://api.github.com/repos/StephaneRenouard/virtual-dataframe/releases/latest"

// DefaultTimeout bounds the whole check.
const DefaultTimeout = 3 * time.Second

// release is the subset of the release payload the check reads.
type release struct {
	TagName string `json:"tag_name"`
}

// Result describes the outcome of a successful check.
type Result struct {
	Current         string
	Latest          string
	UpdateAvailable bool
}

// Checker queries a release endpoint.
type Checker struct {
	client   *resty.Client
	endpoint string
}

// New creates a Checker for endpoint with the given request timeout.
func New(endpoint string, timeout time.Duration) *Checker {
	return &Checker{
		client:   resty.New().SetTimeout(timeout),
		endpoint: endpoint,
	}
}

// Close releases the HTTP client's resources.
func (c *Checker) Close() error {
	return c.client.Close()
}

// Check compares current against the latest release. A current version that
// is not semver (e.g. a dev build) is never reported as outdated.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	var rel release
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetResult(&rel).
		Get(c.endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("query %s: %w", c.endpoint, err)
	}
	if !resp.IsSuccess() {
		return Result{}, fmt.Errorf("query %s: status %d", c.endpoint, resp.StatusCode())
	}

	latest, err := semver.NewVersion(rel.TagName)
	if err != nil {
		return Result{}, fmt.Errorf("parse latest version %q: %w", rel.TagName, err)
	}

	res := Result{Current: current, Latest: latest.Original()}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return res, nil
	}
	res.UpdateAvailable = cur.LessThan(latest)
	return res, nil
}
