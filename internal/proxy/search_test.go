package proxy_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/datacatalog/apiv1/datacatalogpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mgorsk1/amundsenmetadatalibrary/api"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/proxy"
	"github.com/mgorsk1/amundsenmetadatalibrary/internal/testhelper"
)

// bigqueryHit builds a search hit for the n-th BigQuery table.
func bigqueryHit(n int) *datacatalogpb.SearchCatalogResult {
	return &datacatalogpb.SearchCatalogResult{
		RelativeResourceName: fmt.Sprintf("projects/proj/locations/us/entryGroups/@bigquery/entries/hash%d", n),
		LinkedResource:       fmt.Sprintf("//bigquery.googleapis.com/projects/proj/datasets/ds1/tables/t%d", n),
		System: &datacatalogpb.SearchCatalogResult_IntegratedSystem{
			IntegratedSystem: datacatalogpb.IntegratedSystem_BIGQUERY,
		},
	}
}

func TestGetPopularTablesBounded(t *testing.T) {
	fake := testhelper.NewFakeCatalog()
	for n := 1; n <= 10; n++ {
		fake.SearchResults = append(fake.SearchResults, bigqueryHit(n))
	}

	p := proxy.New(fake, 0)
	tables, err := p.GetPopularTables(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetPopularTables() = %v, want nil", err)
	}
	if len(tables) != 3 {
		t.Fatalf("GetPopularTables() returned %v tables, want 3", len(tables))
	}
	// Results come back in stream order and the stream is not
	// advanced past the limit.
	for n, table := range tables {
		want := api.PopularTable{
			Database: "bigquery",
			Cluster:  "proj__us",
			Schema:   "ds1",
			Name:     fmt.Sprintf("t%d", n+1),
		}
		if table != want {
			t.Fatalf("GetPopularTables()[%d] = %+v, want %+v", n, table, want)
		}
	}
	if fake.Consumed != 3 {
		t.Fatalf("search stream consumed %v results, want 3", fake.Consumed)
	}
	if fake.LastQuery != "type=table" {
		t.Fatalf("search query = %q, want %q", fake.LastQuery, "type=table")
	}
}

func TestGetPopularTablesDefaultLimit(t *testing.T) {
	// A non-positive limit falls back to the page size the proxy was
	// constructed with, and the stream is not consumed past it.
	fake := testhelper.NewFakeCatalog()
	for n := 1; n <= 20; n++ {
		fake.SearchResults = append(fake.SearchResults, bigqueryHit(n))
	}

	p := proxy.New(fake, 3)
	tables, err := p.GetPopularTables(context.Background(), 0)
	if err != nil {
		t.Fatalf("GetPopularTables() = %v, want nil", err)
	}
	if len(tables) != 3 {
		t.Fatalf("GetPopularTables() returned %v tables, want 3", len(tables))
	}
	if fake.Consumed != 3 {
		t.Fatalf("search stream consumed %v results, want 3", fake.Consumed)
	}
}

func TestGetPopularTablesConnectorHit(t *testing.T) {
	fake := testhelper.NewFakeCatalog()
	fake.SearchResults = []*datacatalogpb.SearchCatalogResult{
		{
			RelativeResourceName: "projects/proj/locations/us/entryGroups/mysql/entries/sales_orders",
			LinkedResource:       "//mysql.host/orders",
			System: &datacatalogpb.SearchCatalogResult_UserSpecifiedSystem{
				UserSpecifiedSystem: "mysql",
			},
		},
	}

	p := proxy.New(fake, 0)
	tables, err := p.GetPopularTables(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetPopularTables() = %v, want nil", err)
	}
	want := api.PopularTable{
		Database: "mysql",
		Cluster:  "proj__us",
		Schema:   "sales",
		Name:     "orders",
	}
	if len(tables) != 1 || tables[0] != want {
		t.Fatalf("GetPopularTables() = %+v, want %+v", tables, want)
	}
}

func TestGetPopularTablesUnsupportedSystem(t *testing.T) {
	fake := testhelper.NewFakeCatalog()
	fake.SearchResults = []*datacatalogpb.SearchCatalogResult{
		{
			RelativeResourceName: "projects/proj/locations/us/entryGroups/@pubsub/entries/topic1",
			LinkedResource:       "//pubsub.googleapis.com/projects/proj/topics/topic1",
			System: &datacatalogpb.SearchCatalogResult_IntegratedSystem{
				IntegratedSystem: datacatalogpb.IntegratedSystem_CLOUD_PUBSUB,
			},
		},
	}

	p := proxy.New(fake, 0)
	_, err := p.GetPopularTables(context.Background(), 5)
	if !errors.Is(err, proxy.ErrUnsupportedSystem) {
		t.Fatalf("GetPopularTables() = %v, want %v", err, proxy.ErrUnsupportedSystem)
	}
}

func TestGetLatestUpdatedTs(t *testing.T) {
	fake := testhelper.NewFakeCatalog()
	fake.SearchResults = []*datacatalogpb.SearchCatalogResult{bigqueryHit(1)}
	fake.AddEntry(&datacatalogpb.Entry{
		Name: "projects/proj/locations/us/entryGroups/@bigquery/entries/hash1",
		SourceSystemTimestamps: &datacatalogpb.SystemTimestamps{
			UpdateTime: timestamppb.New(time.Unix(testUpdateSeconds, 0)),
		},
	})

	p := proxy.New(fake, 0)
	ts, err := p.GetLatestUpdatedTs(context.Background())
	if err != nil {
		t.Fatalf("GetLatestUpdatedTs() = %v, want nil", err)
	}
	if ts != testUpdateSeconds {
		t.Fatalf("GetLatestUpdatedTs() = %v, want %v", ts, testUpdateSeconds)
	}
	if fake.LastQuery != "*" || fake.LastOrderBy != "last_modified_timestamp desc" {
		t.Fatalf("search query = %q order by %q", fake.LastQuery, fake.LastOrderBy)
	}
}

func TestGetLatestUpdatedTsDegradesToZero(t *testing.T) {
	// The winning hit points at an entry the catalog can no longer
	// resolve: the NotFound is absorbed and zero is reported.
	fake := testhelper.NewFakeCatalog()
	fake.SearchResults = []*datacatalogpb.SearchCatalogResult{bigqueryHit(1)}

	p := proxy.New(fake, 0)
	ts, err := p.GetLatestUpdatedTs(context.Background())
	if err != nil {
		t.Fatalf("GetLatestUpdatedTs() = %v, want nil", err)
	}
	if ts != 0 {
		t.Fatalf("GetLatestUpdatedTs() = %v, want 0", ts)
	}
}

func TestGetLatestUpdatedTsDegradesOnInvalidArgument(t *testing.T) {
	// A malformed resolved name makes the catalog answer
	// InvalidArgument; like NotFound, it is absorbed and zero is
	// reported.
	fake := testhelper.NewFakeCatalog()
	fake.SearchResults = []*datacatalogpb.SearchCatalogResult{bigqueryHit(1)}
	fake.EntryErr = status.Error(codes.InvalidArgument, "malformed entry name")

	p := proxy.New(fake, 0)
	ts, err := p.GetLatestUpdatedTs(context.Background())
	if err != nil {
		t.Fatalf("GetLatestUpdatedTs() = %v, want nil", err)
	}
	if ts != 0 {
		t.Fatalf("GetLatestUpdatedTs() = %v, want 0", ts)
	}
}

func TestGetLatestUpdatedTsEmptyCatalog(t *testing.T) {
	p := proxy.New(testhelper.NewFakeCatalog(), 0)
	ts, err := p.GetLatestUpdatedTs(context.Background())
	if err != nil {
		t.Fatalf("GetLatestUpdatedTs() = %v, want nil", err)
	}
	if ts != 0 {
		t.Fatalf("GetLatestUpdatedTs() = %v, want 0", ts)
	}
}

func TestGetLatestUpdatedTsSearchFailure(t *testing.T) {
	// Only the re-resolution step degrades to zero; a failing search
	// propagates.
	fake := testhelper.NewFakeCatalog()
	fake.SearchErr = status.Error(codes.Unavailable, "catalog down")

	p := proxy.New(fake, 0)
	if _, err := p.GetLatestUpdatedTs(context.Background()); err == nil {
		t.Fatal("GetLatestUpdatedTs() = nil, want error")
	}
}
