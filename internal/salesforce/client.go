// Package salesforce wraps the Salesforce query API behind a small
// interface so the pipeline can be exercised against fakes.
package salesforce

import (
	"context"
	"fmt"

	"github.com/simpleforce/simpleforce"

	"go-sf-exporter/internal/retry"
)

// QueryPage is one page of a paged query result
type QueryPage struct {
	Records        []map[string]interface{}
	Done           bool
	NextRecordsURL string
}

// API is the paged-query surface the pipeline depends on. All calls are
// fallible, retryable, and safe to reissue.
type API interface {
	Query(ctx context.Context, soql string) (*QueryPage, error)
	QueryMore(ctx context.Context, next string) (*QueryPage, error)
}

// Credentials holds the password-flow login inputs
type Credentials struct {
	Username string
	Password string
	Token    string
	Domain   string // "login" or "test"
}

// Client is the live simpleforce-backed API implementation
type Client struct {
	sf *simpleforce.Client
}

// Connect logs in with the password flow, retrying with backoff. Login
// exhaustion is fatal for the run: nothing can proceed unauthenticated.
func Connect(ctx context.Context, creds Credentials, rc retry.Config) (*Client, error) {
	domain := creds.Domain
	if domain == "" {
		domain = "login"
	}
	loginURL := fmt.Sprintf("https://%s.salesforce.com", domain)

	sf, err := retry.Do(ctx, rc, "salesforce login", func() (*simpleforce.Client, error) {
		c := simpleforce.NewClient(loginURL, simpleforce.DefaultClientID, simpleforce.DefaultAPIVersion)
		if c == nil {
			return nil, fmt.Errorf("failed to create salesforce client for %s", loginURL)
		}
		if err := c.LoginPassword(creds.Username, creds.Password, creds.Token); err != nil {
			return nil, err
		}
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return &Client{sf: sf}, nil
}

// Query issues a SOQL query and returns the first page
func (c *Client) Query(_ context.Context, soql string) (*QueryPage, error) {
	return c.runQuery(soql)
}

// QueryMore follows a next-records URL returned by a previous page
func (c *Client) QueryMore(_ context.Context, next string) (*QueryPage, error) {
	return c.runQuery(next)
}

func (c *Client) runQuery(q string) (*QueryPage, error) {
	result, err := c.sf.Query(q)
	if err != nil {
		return nil, err
	}
	records := make([]map[string]interface{}, 0, len(result.Records))
	for _, rec := range result.Records {
		records = append(records, map[string]interface{}(rec))
	}
	return &QueryPage{
		Records:        records,
		Done:           result.Done,
		NextRecordsURL: result.NextRecordsURL,
	}, nil
}
