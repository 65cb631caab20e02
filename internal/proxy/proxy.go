// Package proxy resolves the opaque resource identifiers the frontend
// sends against Google Cloud Data Catalog and canonicalizes the
// catalog's heterogeneous entry representations into the Amundsen
// record shapes in the api package.
//
// Entries reach the catalog through two ingestion paths that disagree
// on naming: the native BigQuery integration and the generic RDBMS
// connectors.  The resolver, the tag extractors and the canonicalizers
// in this package absorb those differences.  Every operation issues
// its own catalog round trips and returns synchronously; nothing is
// cached between calls.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"cloud.google.com/go/datacatalog/apiv1/datacatalogpb"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/catalog"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/uri"
)

// Proxy serves metadata requests against one Data Catalog project.
// It holds no mutable state: the catalog client and the search page
// size are fixed at construction and identical calls always re-query
// the catalog.
type Proxy struct {
	client   catalog.Client
	pageSize int
}

const (
	// bigqueryEntity is the entity name of BigQuery table URIs; such
	// entries are resolved by linked resource rather than by path.
	bigqueryEntity = "bigquery"
	// hiveEntity names the connector whose entries join database and
	// table names with a double underscore instead of a single one.
	hiveEntity = "hive"

	defaultPageSize = 10
)

var (
	// ErrNotSupported is reported by the operations the metadata
	// service expects but Data Catalog has no implementation for.
	ErrNotSupported = errors.New("operation is not supported by the data catalog proxy")

	errResolveEntry = errors.New("failed to resolve entry")
	errUpdateEntry  = errors.New("failed to update entry")

	// viewSourcePattern extracts the backtick-quoted table path a view
	// selects from out of the view's query text.
	viewSourcePattern = regexp.MustCompile("FROM\\s`([A-Za-z0-9\\-\\_\\.]+)`")

	// Testing and debugging support.
	verbose = func(fmt string, args ...interface{}) {}
)

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

// New returns a proxy backed by the given catalog client.  pageSize
// bounds searches that do not carry their own limit; non-positive
// values fall back to the default of 10.
func New(client catalog.Client, pageSize int) *Proxy {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Proxy{client: client, pageSize: pageSize}
}

// resolveTableEntry resolves a table URI to its catalog entry and
// returns the entry together with the parsed URI fields.  The URL
// field of the returned TableURI holds the identifier the entry was
// resolved by, for callers that need the resource link again.
//
// BigQuery entry names are opaque hashes, so the catalog-native path
// cannot be rendered; those entries are looked up by linked resource.
// Entries ingested through the generic connectors are the opposite:
// the entry path is deterministic while the linked resource is not
// sufficient to pinpoint the entry.
func (p *Proxy) resolveTableEntry(ctx context.Context, tableURI string) (*datacatalogpb.Entry, uri.TableURI, error) {
	parsed, err := uri.ParseTableURI(tableURI)
	if err != nil {
		return nil, uri.TableURI{}, err
	}
	projectID, location, err := uri.SplitCluster(parsed.Cluster)
	if err != nil {
		return nil, uri.TableURI{}, err
	}

	var entry *datacatalogpb.Entry
	if parsed.Entity == bigqueryEntity {
		parsed.URL = fmt.Sprintf("//bigquery.googleapis.com/projects/%s/datasets/%s/tables/%s",
			projectID, parsed.DB, parsed.Name)
		entry, err = p.client.LookupEntry(ctx, parsed.URL)
	} else {
		// Hive entries join database and table names with two
		// underscores instead of one.
		separator := "_"
		if parsed.Entity == hiveEntity {
			separator = "__"
		}
		parsed.URL = catalog.EntryPath(projectID, location, parsed.Entity, parsed.DB+separator+parsed.Name)
		entry, err = p.client.GetEntry(ctx, parsed.URL)
	}
	if err != nil {
		return nil, uri.TableURI{}, fmt.Errorf("%v: %w", errResolveEntry, err)
	}
	verbose("resolved %v to entry %v", tableURI, entry.GetName())
	return entry, parsed, nil
}

// GetTable returns the canonical table record for the given table URI.
func (p *Proxy) GetTable(ctx context.Context, tableURI string) (*api.Table, error) {
	entry, parsed, err := p.resolveTableEntry(ctx, tableURI)
	if err != nil {
		return nil, err
	}

	schemaColumns := entry.GetSchema().GetColumns()
	columns := make([]api.Column, 0, len(schemaColumns))
	for _, c := range schemaColumns {
		columns = append(columns, api.Column{
			Name:        c.GetColumn(),
			Description: c.GetDescription(),
			ColType:     c.GetType(),
			SortOrder:   0,
		})
	}

	isView, source := viewSource(entry, parsed.Entity)

	// BigQuery lookups return the entry's own (hashed) name, which is
	// the resource its tags are attached to.  Connector entries use
	// the constructed path.
	resourceLink := parsed.URL
	if parsed.Entity == bigqueryEntity {
		resourceLink = entry.GetName()
	}

	metadata, err := p.extractMetadata(ctx, resourceLink, metadataTemplatePattern)
	if err != nil {
		return nil, err
	}
	descriptions := make([]api.ProgrammaticDescription, 0, len(metadata))
	for _, k := range sortMapKeys(metadata) {
		// Connector-generated field names use underscores; replace
		// them with spaces for display.
		descriptions = append(descriptions, api.ProgrammaticDescription{
			Source: strings.ReplaceAll(k, "_", " "),
			Text:   strings.ReplaceAll(metadata[k], "_", " "),
		})
	}

	owners, err := p.extractOwners(ctx, resourceLink)
	if err != nil {
		return nil, err
	}

	return &api.Table{
		Database:                 parsed.Entity,
		Cluster:                  parsed.Cluster,
		Schema:                   parsed.DB,
		Name:                     parsed.Name,
		Description:              entry.GetDescription(),
		Tags:                     []api.Tag{},
		Badges:                   []api.Tag{},
		Columns:                  columns,
		IsView:                   isView,
		LastUpdatedTimestamp:     entry.GetSourceSystemTimestamps().GetUpdateTime().GetSeconds(),
		Source:                   source,
		Owners:                   owners,
		ProgrammaticDescriptions: descriptions,
	}, nil
}

// viewSource reports whether the entry is a view and, for views, the
// short name of the table the view selects from.  Only the BigQuery
// integration distinguishes views; entries ingested through the
// connectors never do, regardless of their field values.
func viewSource(entry *datacatalogpb.Entry, entity string) (bool, *api.Source) {
	if entity != bigqueryEntity {
		return false, nil
	}
	spec := entry.GetBigqueryTableSpec()
	if spec.GetTableSourceType() != datacatalogpb.TableSourceType_BIGQUERY_VIEW {
		return false, nil
	}
	m := viewSourcePattern.FindStringSubmatch(spec.GetViewSpec().GetViewQuery())
	if m == nil {
		// A view whose query carries no recognizable source is still
		// a view; its source is simply unknown.
		return true, nil
	}
	parts := strings.Split(m[1], ".")
	return true, &api.Source{
		SourceType: strings.ToUpper(entity[:1]) + entity[1:],
		Source:     parts[len(parts)-1],
	}
}

// GetTableDescription returns the free-text description of the table.
func (p *Proxy) GetTableDescription(ctx context.Context, tableURI string) (string, error) {
	entry, _, err := p.resolveTableEntry(ctx, tableURI)
	if err != nil {
		return "", err
	}
	return entry.GetDescription(), nil
}

// PutTableDescription overwrites the free-text description of the
// table and forwards the change to the catalog.
func (p *Proxy) PutTableDescription(ctx context.Context, tableURI, description string) error {
	entry, _, err := p.resolveTableEntry(ctx, tableURI)
	if err != nil {
		return err
	}
	entry.Description = description
	if _, err := p.client.UpdateEntry(ctx, entry); err != nil {
		return fmt.Errorf("%v: %w", errUpdateEntry, err)
	}
	return nil
}

// sortMapKeys returns a sorted slice of all keys in the given map.
func sortMapKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
