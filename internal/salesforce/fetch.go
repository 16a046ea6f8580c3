package salesforce

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-sf-exporter/internal/retry"
)

// FieldDef is one field from an object's metadata, in query order
type FieldDef struct {
	APIName string
	Label   string
}

// Fetcher drains paged queries. Each page request is wrapped individually
// in the retry executor; page order is preserved as received.
type Fetcher struct {
	API    API
	Retry  retry.Config
	Logger *zap.Logger
}

func NewFetcher(api API, rc retry.Config, log *zap.Logger) *Fetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{API: api, Retry: rc, Logger: log}
}

// FetchAll queries all records of an object for the given fields, following
// pagination until the provider reports completion.
func (f *Fetcher) FetchAll(ctx context.Context, objectName string, fields []string) ([]map[string]interface{}, error) {
	soql := fmt.Sprintf("SELECT %s FROM %s", strings.Join(fields, ", "), objectName)
	f.Logger.Info("executing query", zap.String("object", objectName), zap.String("soql", soql))
	return f.drain(ctx, fmt.Sprintf("query %s", objectName), soql)
}

// FieldMetadata returns the object's field definitions in query order
func (f *Fetcher) FieldMetadata(ctx context.Context, objectName string) ([]FieldDef, error) {
	soql := fmt.Sprintf(
		"SELECT QualifiedApiName, Label FROM FieldDefinition WHERE EntityDefinition.QualifiedApiName = '%s'",
		objectName)

	records, err := f.drain(ctx, fmt.Sprintf("field metadata %s", objectName), soql)
	if err != nil {
		return nil, err
	}

	defs := make([]FieldDef, 0, len(records))
	for _, rec := range records {
		name := stringField(rec, "QualifiedApiName")
		if name == "" {
			continue
		}
		defs = append(defs, FieldDef{APIName: name, Label: stringField(rec, "Label")})
	}
	return defs, nil
}

// drain issues the query and follows next-records URLs, concatenating page
// record lists in page order.
func (f *Fetcher) drain(ctx context.Context, op, soql string) ([]map[string]interface{}, error) {
	page, err := retry.Do(ctx, f.Retry, op, func() (*QueryPage, error) {
		return f.API.Query(ctx, soql)
	})
	if err != nil {
		return nil, err
	}

	all := make([]map[string]interface{}, 0, len(page.Records))
	all = append(all, page.Records...)

	for !page.Done {
		next := page.NextRecordsURL
		page, err = retry.Do(ctx, f.Retry, op, func() (*QueryPage, error) {
			return f.API.QueryMore(ctx, next)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
	}
	return all, nil
}

func stringField(rec map[string]interface{}, key string) string {
	if v, ok := rec[key].(string); ok {
		return v
	}
	return ""
}
