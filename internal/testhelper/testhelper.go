// Package testhelper implements code that helps in unit and
// integration testing.  The helpers in this package include verbose
// logging (with colored details) and an in-memory catalog client that
// mimics Data Catalog lookups, tag listings and searches.
package testhelper

import (
	"context"
	"log"
	"path/filepath"
	"runtime"
	"strings"

	"cloud.google.com/go/datacatalog/apiv1/datacatalogpb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mgorsk1/amundsenmetadatalibrary/internal/catalog"
)

const (
	ANSIGreen  = "\033[00;32m"
	ANSIBlue   = "\033[00;34m"
	ANSIPurple = "\033[00;35m"
	ANSIEnd    = "\033[0m"
)

// VLogf logs messages in verbose mode (mostly for debugging).  Messages
// are prefixed by "filename:line-number function()" printed in green and
// the message printed in blue for easier visual inspection.
func VLogf(format string, args ...interface{}) {
	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Printf(format, args...)
		return
	}
	details := runtime.FuncForPC(pc)
	if details == nil {
		log.Printf(format, args...)
		return
	}
	file = filepath.Base(file)
	idx := strings.LastIndex(details.Name(), "/")
	if idx == -1 {
		idx = 0
	} else {
		idx++
	}
	a := []interface{}{ANSIGreen, file, line, details.Name()[idx:], ANSIBlue}
	a = append(a, args...)
	log.Printf("%s%s:%d: %s(): %s"+format+"%s", append(a, ANSIEnd)...)
}

// FakeCatalog is an in-memory catalog.Client.  Entries are keyed by
// their catalog-native names, LinkedResources maps linked-resource
// identifiers to entry names, and Tags holds the tags attached to each
// resource.  Unknown names and identifiers yield gRPC NotFound, like
// the real catalog.
type FakeCatalog struct {
	Entries         map[string]*datacatalogpb.Entry
	LinkedResources map[string]string
	Tags            map[string][]*datacatalogpb.Tag
	SearchResults   []*datacatalogpb.SearchCatalogResult

	// Forced failures, returned instead of the seeded data.
	EntryErr  error
	TagsErr   error
	SearchErr error

	// Call recording for assertions.
	Updated     []*datacatalogpb.Entry
	LastQuery   string
	LastOrderBy string
	Consumed    int
}

// NewFakeCatalog returns an empty fake catalog.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Entries:         map[string]*datacatalogpb.Entry{},
		LinkedResources: map[string]string{},
		Tags:            map[string][]*datacatalogpb.Tag{},
	}
}

// AddEntry seeds an entry and, when the entry carries a linked
// resource, makes it reachable by lookup as well.
func (f *FakeCatalog) AddEntry(entry *datacatalogpb.Entry) {
	f.Entries[entry.GetName()] = entry
	if entry.GetLinkedResource() != "" {
		f.LinkedResources[entry.GetLinkedResource()] = entry.GetName()
	}
}

func (f *FakeCatalog) LookupEntry(ctx context.Context, linkedResource string) (*datacatalogpb.Entry, error) {
	name, ok := f.LinkedResources[linkedResource]
	if !ok {
		return nil, status.Error(codes.NotFound, linkedResource)
	}
	return f.Entries[name], nil
}

func (f *FakeCatalog) GetEntry(ctx context.Context, name string) (*datacatalogpb.Entry, error) {
	if f.EntryErr != nil {
		return nil, f.EntryErr
	}
	entry, ok := f.Entries[name]
	if !ok {
		return nil, status.Error(codes.NotFound, name)
	}
	return entry, nil
}

func (f *FakeCatalog) UpdateEntry(ctx context.Context, entry *datacatalogpb.Entry) (*datacatalogpb.Entry, error) {
	f.Updated = append(f.Updated, entry)
	return entry, nil
}

func (f *FakeCatalog) ListTags(ctx context.Context, resource string) catalog.TagIterator { //nolint:ireturn
	return &fakeTagIterator{tags: f.Tags[resource], err: f.TagsErr}
}

func (f *FakeCatalog) SearchCatalog(ctx context.Context, query, orderBy string) catalog.ResultIterator { //nolint:ireturn
	f.LastQuery = query
	f.LastOrderBy = orderBy
	return &fakeResultIterator{catalog: f, err: f.SearchErr}
}

type fakeTagIterator struct {
	tags []*datacatalogpb.Tag
	err  error
	i    int
}

func (it *fakeTagIterator) Next() (*datacatalogpb.Tag, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.i >= len(it.tags) {
		return nil, iterator.Done
	}
	tag := it.tags[it.i]
	it.i++
	return tag, nil
}

// fakeResultIterator counts consumed results on the catalog so tests
// can assert that bounded searches do not advance the stream further.
type fakeResultIterator struct {
	catalog *FakeCatalog
	err     error
	i       int
}

func (it *fakeResultIterator) Next() (*datacatalogpb.SearchCatalogResult, error) {
	if it.err != nil {
		return nil, it.err
	}
	if it.i >= len(it.catalog.SearchResults) {
		return nil, iterator.Done
	}
	result := it.catalog.SearchResults[it.i]
	it.i++
	it.catalog.Consumed = it.i
	return result, nil
}
