package salesforce

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sf-exporter/internal/retry"
)

// fakeAPI serves scripted pages and can fail a configured number of times
// per request before succeeding.
type fakeAPI struct {
	pages        []*QueryPage
	failuresLeft int
	queryCalls   int
	moreCalls    int
	lastSOQL     string
}

func (f *fakeAPI) Query(_ context.Context, soql string) (*QueryPage, error) {
	f.queryCalls++
	f.lastSOQL = soql
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("temporary failure")
	}
	return f.pages[0], nil
}

func (f *fakeAPI) QueryMore(_ context.Context, next string) (*QueryPage, error) {
	f.moreCalls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("temporary failure")
	}
	for i, p := range f.pages {
		if p.NextRecordsURL == next && i+1 < len(f.pages) {
			return f.pages[i+1], nil
		}
	}
	return nil, fmt.Errorf("unknown cursor %q", next)
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, BaseDelay: time.Microsecond, Jitter: func() float64 { return 0 }}
}

func rows(ids ...string) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(ids))
	for _, id := range ids {
		out = append(out, map[string]interface{}{"Id": id})
	}
	return out
}

func TestFetchAllThreePagesInOrder(t *testing.T) {
	api := &fakeAPI{pages: []*QueryPage{
		{Records: rows("a", "b"), Done: false, NextRecordsURL: "cursor-1"},
		{Records: rows("c", "d"), Done: false, NextRecordsURL: "cursor-2"},
		{Records: rows("e"), Done: true},
	}}
	f := NewFetcher(api, fastRetry(), nil)

	records, err := f.FetchAll(context.Background(), "Account", []string{"Id", "Name"})
	require.NoError(t, err)

	require.Len(t, records, 5)
	var ids []string
	for _, rec := range records {
		ids = append(ids, rec["Id"].(string))
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
	assert.Equal(t, 1, api.queryCalls)
	assert.Equal(t, 2, api.moreCalls)
}

func TestFetchAllBuildsSelectQuery(t *testing.T) {
	api := &fakeAPI{pages: []*QueryPage{{Records: rows("a"), Done: true}}}
	f := NewFetcher(api, fastRetry(), nil)

	_, err := f.FetchAll(context.Background(), "Contact", []string{"Id", "Email"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT Id, Email FROM Contact", api.lastSOQL)
}

func TestFetchAllRetriesEachPage(t *testing.T) {
	api := &fakeAPI{
		pages: []*QueryPage{
			{Records: rows("a"), Done: false, NextRecordsURL: "cursor-1"},
			{Records: rows("b"), Done: true},
		},
		failuresLeft: 2, // first page fails twice, succeeds on third attempt
	}
	f := NewFetcher(api, fastRetry(), nil)

	records, err := f.FetchAll(context.Background(), "Account", []string{"Id"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
	assert.Equal(t, 3, api.queryCalls)
}

func TestFetchAllExhaustionSurfaces(t *testing.T) {
	api := &fakeAPI{
		pages:        []*QueryPage{{Records: rows("a"), Done: true}},
		failuresLeft: 100,
	}
	f := NewFetcher(api, fastRetry(), nil)

	_, err := f.FetchAll(context.Background(), "Account", []string{"Id"})
	require.Error(t, err)

	var exhausted *retry.ExhaustedError
	assert.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, api.queryCalls)
}

func TestFieldMetadata(t *testing.T) {
	api := &fakeAPI{pages: []*QueryPage{{
		Records: []map[string]interface{}{
			{"QualifiedApiName": "Id", "Label": "Record ID"},
			{"QualifiedApiName": "Foo__c", "Label": "Foo"},
			{"attributes": map[string]interface{}{"type": "FieldDefinition"}}, // no name, skipped
		},
		Done: true,
	}}}
	f := NewFetcher(api, fastRetry(), nil)

	defs, err := f.FieldMetadata(context.Background(), "Account")
	require.NoError(t, err)

	assert.Equal(t, []FieldDef{
		{APIName: "Id", Label: "Record ID"},
		{APIName: "Foo__c", Label: "Foo"},
	}, defs)
	assert.True(t, strings.Contains(api.lastSOQL, "FROM FieldDefinition"))
	assert.True(t, strings.Contains(api.lastSOQL, "'Account'"))
}
