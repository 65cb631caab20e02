package api

// DashboardSummary is the short dashboard record used in listings.
type DashboardSummary struct {
	URI                        string `json:"uri"`
	Cluster                    string `json:"cluster"`
	GroupName                  string `json:"group_name"`
	GroupURL                   string `json:"group_url"`
	Product                    string `json:"product"`
	Name                       string `json:"name"`
	URL                        string `json:"url"`
	Description                string `json:"description"`
	LastSuccessfulRunTimestamp int64  `json:"last_successful_run_timestamp"`
}

// DashboardDetail is the canonical dashboard record.  The catalog
// carries no run history, charts, queries or usage for dashboards, so
// the corresponding fields always hold their zero values.
type DashboardDetail struct {
	URI                        string         `json:"uri"`
	Cluster                    string         `json:"cluster"`
	GroupName                  string         `json:"group_name"`
	GroupURL                   string         `json:"group_url"`
	Product                    string         `json:"product"`
	Name                       string         `json:"name"`
	URL                        string         `json:"url"`
	Description                string         `json:"description"`
	CreatedTimestamp           int64          `json:"created_timestamp"`
	UpdatedTimestamp           int64          `json:"updated_timestamp"`
	LastSuccessfulRunTimestamp int64          `json:"last_successful_run_timestamp"`
	LastRunTimestamp           int64          `json:"last_run_timestamp"`
	LastRunState               string         `json:"last_run_state"`
	RecentViewCount            int            `json:"recent_view_count"`
	Owners                     []User         `json:"owners"`
	FrequentUsers              []User         `json:"frequent_users"`
	ChartNames                 []string       `json:"chart_names"`
	QueryNames                 []string       `json:"query_names"`
	Tables                     []PopularTable `json:"tables"`
	Tags                       []Tag          `json:"tags"`
	Badges                     []Tag          `json:"badges"`
}
