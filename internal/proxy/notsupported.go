package proxy

import (
	"context"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
)

// The operations below are part of the proxy surface the surrounding
// metadata service dispatches to, but Data Catalog offers no backing
// capability for them.  They are kept present-but-inert for interface
// compatibility and report ErrNotSupported instead of silently
// succeeding.

// GetUsers is not supported by Data Catalog.
func (p *Proxy) GetUsers(ctx context.Context) ([]api.User, error) {
	return nil, ErrNotSupported
}

// GetUser is not supported by Data Catalog.
func (p *Proxy) GetUser(ctx context.Context, id string) (*api.User, error) {
	return nil, ErrNotSupported
}

// AddOwner is not supported by Data Catalog.
func (p *Proxy) AddOwner(ctx context.Context, tableURI, owner string) error {
	return ErrNotSupported
}

// DeleteOwner is not supported by Data Catalog.
func (p *Proxy) DeleteOwner(ctx context.Context, tableURI, owner string) error {
	return ErrNotSupported
}

// AddTag is not supported by Data Catalog.
func (p *Proxy) AddTag(ctx context.Context, id, tag, tagType, resourceType string) error {
	return ErrNotSupported
}

// DeleteTag is not supported by Data Catalog.
func (p *Proxy) DeleteTag(ctx context.Context, id, tag, tagType, resourceType string) error {
	return ErrNotSupported
}

// GetTags is not supported by Data Catalog.
func (p *Proxy) GetTags(ctx context.Context) ([]api.Tag, error) {
	return nil, ErrNotSupported
}

// GetColumnDescription is not supported by Data Catalog.
func (p *Proxy) GetColumnDescription(ctx context.Context, tableURI, columnName string) (string, error) {
	return "", ErrNotSupported
}

// PutColumnDescription is not supported by Data Catalog.
func (p *Proxy) PutColumnDescription(ctx context.Context, tableURI, columnName, description string) error {
	return ErrNotSupported
}

// GetDashboardDescription is not supported by Data Catalog.
func (p *Proxy) GetDashboardDescription(ctx context.Context, id string) (string, error) {
	return "", ErrNotSupported
}

// PutDashboardDescription is not supported by Data Catalog.
func (p *Proxy) PutDashboardDescription(ctx context.Context, id, description string) error {
	return ErrNotSupported
}

// GetDashboardByUserRelation is not supported by Data Catalog.
func (p *Proxy) GetDashboardByUserRelation(ctx context.Context, userEmail, relationType string) (map[string][]api.DashboardSummary, error) {
	return nil, ErrNotSupported
}

// GetTableByUserRelation is not supported by Data Catalog.
func (p *Proxy) GetTableByUserRelation(ctx context.Context, userEmail, relationType string) (map[string][]api.PopularTable, error) {
	return nil, ErrNotSupported
}

// GetFrequentlyUsedTables is not supported by Data Catalog.
func (p *Proxy) GetFrequentlyUsedTables(ctx context.Context, userEmail string) (map[string][]api.PopularTable, error) {
	return nil, ErrNotSupported
}

// AddResourceRelationByUser is not supported by Data Catalog.
func (p *Proxy) AddResourceRelationByUser(ctx context.Context, id, userID, relationType, resourceType string) error {
	return ErrNotSupported
}

// DeleteResourceRelationByUser is not supported by Data Catalog.
func (p *Proxy) DeleteResourceRelationByUser(ctx context.Context, id, userID, relationType, resourceType string) error {
	return ErrNotSupported
}

// GetResourcesUsingTable is not supported by Data Catalog.
func (p *Proxy) GetResourcesUsingTable(ctx context.Context, id, resourceType string) (map[string][]api.DashboardSummary, error) {
	return nil, ErrNotSupported
}
