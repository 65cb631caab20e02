package proxy

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/uri"
)

// Dashboard-Metadata field names populated by the dashboard connector.
const (
	workbookNameField   = "workbook_name"
	siteNameField       = "site_name"
	upstreamTablesField = "upstream_tables"
)

// GetDashboard returns the canonical dashboard record for the given
// catalog-native entry name.  Dashboard identifiers are already
// catalog paths, so no URI grammar is involved.
//
// The connector attaches two tag templates to dashboard entries: the
// "... Dashboard Metadata" template carries identity and grouping,
// and the "... Workbook Metadata" template carries the workbook
// details, including the upstream-table references.  Run history,
// charts, queries and usage have no data source in the catalog and
// stay at their zero values.
func (p *Proxy) GetDashboard(ctx context.Context, id string) (*api.DashboardDetail, error) {
	entry, err := p.client.GetEntry(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", errResolveEntry, err)
	}

	dashboardMeta, err := p.extractMetadata(ctx, entry.GetName(), dashboardTemplatePattern)
	if err != nil {
		return nil, err
	}
	workbookMeta, err := p.extractMetadata(ctx, entry.GetName(), workbookTemplatePattern)
	if err != nil {
		return nil, err
	}

	cluster := clusterFromResourceName(entry.GetName())

	owners, err := p.extractOwners(ctx, entry.GetName())
	if err != nil {
		return nil, err
	}

	return &api.DashboardDetail{
		URI:              id,
		Cluster:          cluster,
		GroupName:        dashboardMeta[siteNameField],
		Product:          entry.GetUserSpecifiedSystem(),
		Name:             dashboardMeta[workbookNameField],
		Description:      entry.GetDescription(),
		CreatedTimestamp: entry.GetSourceSystemTimestamps().GetCreateTime().GetSeconds(),
		UpdatedTimestamp: entry.GetSourceSystemTimestamps().GetUpdateTime().GetSeconds(),
		Owners:           owners,
		FrequentUsers:    []api.User{},
		ChartNames:       []string{},
		QueryNames:       []string{},
		Tables:           upstreamTables(workbookMeta[upstreamTablesField], cluster),
		Tags:             []api.Tag{},
		Badges:           []api.Tag{},
	}, nil
}

// clusterFromResourceName splices the project and location segments of
// a catalog resource name into the <project>__<location> cluster
// encoding.  This is a structural convention of catalog paths
// (projects/<p>/locations/<l>/...), not a parsed grammar.
func clusterFromResourceName(name string) string {
	parts := strings.Split(name, "/")
	if len(parts) < 4 {
		return ""
	}
	return parts[1] + "__" + parts[3]
}

// upstreamTables parses a comma-separated upstream_tables metadata
// value into table references.  Tokens that do not match the
// reference grammar are dropped; the dashboard's cluster is attached
// to every reference that parses.
func upstreamTables(value, cluster string) []api.PopularTable {
	tables := []api.PopularTable{}
	if value == "" {
		return tables
	}
	for _, token := range strings.Split(value, ",") {
		ref, err := uri.ParseTableRef(token)
		if err != nil {
			verbose("skipping upstream table token %q: %v", token, err)
			continue
		}
		tables = append(tables, api.PopularTable{
			Database: ref.Database,
			Cluster:  cluster,
			Schema:   ref.Schema,
			Name:     ref.Name,
		})
	}
	return tables
}
