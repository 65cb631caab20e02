// Package catalog wraps the Google Cloud Data Catalog client behind a
// narrow interface so the proxy can be tested against a fake catalog.
//
// The client uses default application credentials unless a service
// account credentials file is given.
package catalog

import (
	"context"
	"errors"
	"fmt"

	datacatalog "cloud.google.com/go/datacatalog/apiv1"
	"cloud.google.com/go/datacatalog/apiv1/datacatalogpb"
	"google.golang.org/api/option"
)

// TagIterator yields the tags attached to one catalog resource.  Next
// returns iterator.Done after the last tag.
type TagIterator interface {
	Next() (*datacatalogpb.Tag, error)
}

// ResultIterator yields catalog search results.  Next returns
// iterator.Done after the last result.
type ResultIterator interface {
	Next() (*datacatalogpb.SearchCatalogResult, error)
}

// Client is the subset of the Data Catalog surface the proxy uses.
// The interface exists to facilitate testing.
type Client interface {
	LookupEntry(ctx context.Context, linkedResource string) (*datacatalogpb.Entry, error)
	GetEntry(ctx context.Context, name string) (*datacatalogpb.Entry, error)
	UpdateEntry(ctx context.Context, entry *datacatalogpb.Entry) (*datacatalogpb.Entry, error)
	ListTags(ctx context.Context, resource string) TagIterator
	SearchCatalog(ctx context.Context, query, orderBy string) ResultIterator
}

// catalogClient implements Client on top of the real Data Catalog
// client.  All searches are scoped to the project the client was
// created for.
type catalogClient struct {
	client *datacatalog.Client
	scope  *datacatalogpb.SearchCatalogRequest_Scope
}

var (
	errCreateClient = errors.New("failed to create data catalog client")

	// Testing and debugging support.
	datacatalogNewClient = datacatalog.NewClient
	verbose              = func(fmt string, args ...interface{}) {}
)

// Verbose provides a convenient way for the caller to enable verbose
// printing and control its format (mostly for debugging).
func Verbose(v func(string, ...interface{})) {
	verbose = v
}

// NewClient returns a new Data Catalog client whose searches are
// scoped to the given project.  If credentialsFile is non-empty it is
// used instead of default application credentials.
// The return value is an interface to facilitate testing.
func NewClient(ctx context.Context, projectID, credentialsFile string) (Client, error) { //nolint:ireturn
	verbose("creating new data catalog client scoped to %v", projectID)
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := datacatalogNewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errCreateClient, err)
	}
	scope := &datacatalogpb.SearchCatalogRequest_Scope{
		IncludeProjectIds: []string{projectID},
	}
	return &catalogClient{client: client, scope: scope}, nil
}

// EntryPath returns the catalog-native resource name of an entry.
func EntryPath(projectID, location, entryGroupID, entryID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/entryGroups/%s/entries/%s",
		projectID, location, entryGroupID, entryID)
}

// LookupEntry resolves an entry by the identifier of the underlying
// warehouse object.  This is the only way to reach entries whose
// catalog-native names are opaque hashes (BigQuery).
func (c *catalogClient) LookupEntry(ctx context.Context, linkedResource string) (*datacatalogpb.Entry, error) {
	verbose("looking up entry by linked resource %v", linkedResource)
	req := &datacatalogpb.LookupEntryRequest{
		TargetName: &datacatalogpb.LookupEntryRequest_LinkedResource{
			LinkedResource: linkedResource,
		},
	}
	return c.client.LookupEntry(ctx, req) //nolint:wrapcheck
}

// GetEntry retrieves an entry by its catalog-native resource name.
func (c *catalogClient) GetEntry(ctx context.Context, name string) (*datacatalogpb.Entry, error) {
	verbose("getting entry %v", name)
	return c.client.GetEntry(ctx, &datacatalogpb.GetEntryRequest{Name: name}) //nolint:wrapcheck
}

// UpdateEntry overwrites the given entry in the catalog.
func (c *catalogClient) UpdateEntry(ctx context.Context, entry *datacatalogpb.Entry) (*datacatalogpb.Entry, error) {
	verbose("updating entry %v", entry.GetName())
	return c.client.UpdateEntry(ctx, &datacatalogpb.UpdateEntryRequest{Entry: entry}) //nolint:wrapcheck
}

// ListTags lists all tags attached to the given resource.
func (c *catalogClient) ListTags(ctx context.Context, resource string) TagIterator { //nolint:ireturn
	verbose("listing tags of %v", resource)
	return c.client.ListTags(ctx, &datacatalogpb.ListTagsRequest{Parent: resource})
}

// SearchCatalog runs a catalog search within the client's project
// scope.  Results are consumed lazily through the returned iterator.
func (c *catalogClient) SearchCatalog(ctx context.Context, query, orderBy string) ResultIterator { //nolint:ireturn
	verbose("searching catalog for %q order by %q", query, orderBy)
	req := &datacatalogpb.SearchCatalogRequest{
		Query:   query,
		Scope:   c.scope,
		OrderBy: orderBy,
	}
	return c.client.SearchCatalog(ctx, req)
}
