package proxy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/datacatalog/apiv1/datacatalogpb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
)

var (
	// ErrUnsupportedSystem is reported when a search hit carries an
	// integrated-system code outside the known set.  The enumeration
	// is deliberately closed: extend it rather than guess.
	ErrUnsupportedSystem = errors.New("integrated system is not supported")

	errSearch       = errors.New("failed to search catalog")
	errResourceName = errors.New("unexpected resource name structure")
)

// basicSearch runs one bounded catalog search.  Consumption stops as
// soon as limit results have been collected, regardless of how many
// more the catalog would return; there is no further pagination.
func (p *Proxy) basicSearch(ctx context.Context, entryType string, limit int, orderBy string) ([]*datacatalogpb.SearchCatalogResult, error) {
	query := "*"
	if entryType != "" {
		query = "type=" + entryType
	}
	verbose("searching for %q, limit %v, order by %q", query, limit, orderBy)

	results := []*datacatalogpb.SearchCatalogResult{}
	it := p.client.SearchCatalog(ctx, query, orderBy)
	for len(results) < limit {
		result, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%v: %w", errSearch, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// projectTableResult projects one raw table search hit into a partial
// table record by decomposing its linked-resource and resource-name
// paths.  The system discriminator is resolved once here: a free-text
// connector name wins; otherwise only the BigQuery integrated-system
// code is accepted.
func projectTableResult(result *datacatalogpb.SearchCatalogResult) (api.PopularTable, error) {
	linked := strings.Split(result.GetLinkedResource(), "/")
	relative := strings.Split(result.GetRelativeResourceName(), "/")
	if len(relative) < 4 {
		return api.PopularTable{}, fmt.Errorf("%q: %w", result.GetRelativeResourceName(), errResourceName)
	}
	name := linked[len(linked)-1]

	var database, schema string
	if system := result.GetUserSpecifiedSystem(); system != "" {
		database = system
		// Connector entry names are <db>_<table> (or <db>__<table>
		// for hive); stripping the table name and the surrounding
		// separators leaves the schema.
		schema = strings.Trim(strings.ReplaceAll(relative[len(relative)-1], name, ""), "_")
	} else {
		switch result.GetIntegratedSystem() {
		case datacatalogpb.IntegratedSystem_BIGQUERY:
			database = bigqueryEntity
		default:
			return api.PopularTable{}, fmt.Errorf("integrated system %v: %w",
				result.GetIntegratedSystem(), ErrUnsupportedSystem)
		}
		if len(linked) < 3 {
			return api.PopularTable{}, fmt.Errorf("%q: %w", result.GetLinkedResource(), errResourceName)
		}
		// //bigquery.googleapis.com/projects/<p>/datasets/<schema>/tables/<name>
		schema = linked[len(linked)-3]
	}

	return api.PopularTable{
		Database: database,
		Cluster:  relative[1] + "__" + relative[3],
		Schema:   schema,
		Name:     name,
	}, nil
}

// GetPopularTables returns up to numEntries table summaries, in the
// order the catalog returned them.  Non-positive limits fall back to
// the proxy's configured page size.
func (p *Proxy) GetPopularTables(ctx context.Context, numEntries int) ([]api.PopularTable, error) {
	if numEntries <= 0 {
		numEntries = p.pageSize
	}
	results, err := p.basicSearch(ctx, "table", numEntries, "")
	if err != nil {
		return nil, err
	}
	tables := make([]api.PopularTable, 0, len(results))
	for _, result := range results {
		table, err := projectTableResult(result)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}

// GetLatestUpdatedTs returns the update timestamp, in whole seconds,
// of the most recently modified entry in the catalog.  The winning
// search hit is re-resolved by its full path; if that lookup fails
// because the entry cannot be found, zero is returned instead.  Any
// other failure propagates: this degradation is deliberately narrow.
func (p *Proxy) GetLatestUpdatedTs(ctx context.Context) (int64, error) {
	results, err := p.basicSearch(ctx, "", 1, "last_modified_timestamp desc")
	if err != nil {
		return 0, err
	}
	for _, result := range results {
		entry, err := p.client.GetEntry(ctx, result.GetRelativeResourceName())
		if err != nil {
			switch status.Code(err) {
			case codes.NotFound, codes.InvalidArgument:
				verbose("failed to re-resolve %v: %v", result.GetRelativeResourceName(), err)
				return 0, nil
			}
			return 0, fmt.Errorf("%v: %w", errResolveEntry, err)
		}
		return entry.GetSourceSystemTimestamps().GetUpdateTime().GetSeconds(), nil
	}
	return 0, nil
}
