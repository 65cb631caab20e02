// Package uri implements the parsers for the resource identifiers the
// frontend hands to the metadata service: table URIs of the form
// <entity>://<cluster>.<db>/<name> and the bracketed upstream-table
// references embedded in dashboard workbook metadata.
//
// Both grammars come from the ingestion conventions of the catalog and
// must be matched exactly; no case or whitespace normalization is
// performed.
package uri

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// TableURI holds the fields of a parsed table URI.  Entity is the
// source system name (e.g. "bigquery", "hive"), Cluster encodes
// "<project>__<location>", DB is the database (or dataset) name and
// Name is the table name.  URL is filled in by the entry resolver with
// the identifier it resolved the entry by.
type TableURI struct {
	Entity  string
	Cluster string
	DB      string
	Name    string
	URL     string
}

// TableRef identifies one upstream table of a dashboard.  The
// connection name of the token grammar is matched but discarded, and
// Cluster is not part of the grammar at all; callers attach it after a
// successful parse.
type TableRef struct {
	Database string
	Schema   string
	Name     string
	Cluster  string
}

var (
	ErrNoMatch       = errors.New("does not match the grammar")
	ErrClusterFormat = errors.New("cluster is not in <project>__<location> format")

	// tableURIPattern matches <entity>://<cluster>.<db>/<name>.
	// Cluster is greedy up to the last '.' before db; the other
	// captures are non-greedy.
	tableURIPattern = regexp.MustCompile(`^(?P<entity>.*?)://(?P<cluster>.*)\.(?P<db>.*?)/(?P<name>.*?)$`)

	// tableRefPattern matches one <Database>(<Conn>)/[<Schema>].[<Name>]
	// token of an upstream_tables metadata value.
	tableRefPattern = regexp.MustCompile(`^(?P<database>[A-Za-z0-9 ]+)\((?P<conn>.*)\)/\[(?P<schema>[A-Za-z ]+)\]\.\[(?P<name>[A-Za-z ]+)\]$`)
)

// ParseTableURI parses a table URI into its structured fields.
// Strings that do not match the grammar yield ErrNoMatch.
func ParseTableURI(s string) (TableURI, error) {
	m := tableURIPattern.FindStringSubmatch(s)
	if m == nil {
		return TableURI{}, fmt.Errorf("table uri %q: %w", s, ErrNoMatch)
	}
	return TableURI{
		Entity:  m[tableURIPattern.SubexpIndex("entity")],
		Cluster: m[tableURIPattern.SubexpIndex("cluster")],
		DB:      m[tableURIPattern.SubexpIndex("db")],
		Name:    m[tableURIPattern.SubexpIndex("name")],
	}, nil
}

// SplitCluster splits a cluster field into the project id and project
// location it encodes.
func SplitCluster(cluster string) (string, string, error) {
	parts := strings.Split(cluster, "__")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%q: %w", cluster, ErrClusterFormat)
	}
	return parts[0], parts[1], nil
}

// ParseTableRef parses one upstream-table token.  Tokens that do not
// match the grammar yield ErrNoMatch.
func ParseTableRef(token string) (TableRef, error) {
	m := tableRefPattern.FindStringSubmatch(token)
	if m == nil {
		return TableRef{}, fmt.Errorf("table reference %q: %w", token, ErrNoMatch)
	}
	return TableRef{
		Database: m[tableRefPattern.SubexpIndex("database")],
		Schema:   m[tableRefPattern.SubexpIndex("schema")],
		Name:     m[tableRefPattern.SubexpIndex("name")],
	}, nil
}
