// Package api defines the Amundsen-compatible record shapes served by
// the metadata proxy.  The shapes mirror the amundsen-common models
// used by the surrounding metadata service; the proxy populates them
// but never interprets them.
package api

// Column describes one column of a table.
type Column struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ColType     string `json:"col_type"`
	SortOrder   int    `json:"sort_order"`
}

// Source identifies the table a view selects from.
type Source struct {
	SourceType string `json:"source_type"`
	Source     string `json:"source"`
}

// ProgrammaticDescription is one free-text description attached by an
// ingestion path rather than a human.
type ProgrammaticDescription struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Tag is a human-assigned label on a resource.
type Tag struct {
	TagType string `json:"tag_type"`
	TagName string `json:"tag_name"`
}

// Table is the canonical table record.
type Table struct {
	Database                 string                    `json:"database"`
	Cluster                  string                    `json:"cluster"`
	Schema                   string                    `json:"schema"`
	Name                     string                    `json:"name"`
	Description              string                    `json:"description"`
	Tags                     []Tag                     `json:"tags"`
	Badges                   []Tag                     `json:"badges"`
	Columns                  []Column                  `json:"columns"`
	IsView                   bool                      `json:"is_view"`
	LastUpdatedTimestamp     int64                     `json:"last_updated_timestamp"`
	Source                   *Source                   `json:"source,omitempty"`
	Owners                   []User                    `json:"owners"`
	ProgrammaticDescriptions []ProgrammaticDescription `json:"programmatic_descriptions"`
}

// PopularTable is a partial table record: the projection of a search
// hit or an upstream-table reference of a dashboard.
type PopularTable struct {
	Database    string `json:"database"`
	Cluster     string `json:"cluster"`
	Schema      string `json:"schema"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
