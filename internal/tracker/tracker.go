// Package tracker is a thin client for the issue tracker's REST API
// (Jira-compatible). It exposes exactly the operations issuedash needs:
// project lookup, two flavors of issue search, and avatar image fetching.
package tracker

// Project is the issue tracker's project metadata.
type Project struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	// AvatarURLs maps a size (e.g. "48x48") to an image URL.
	AvatarURLs map[string]string `json:"avatarUrls"`
}

// Issue is a single work item returned by the tracker. Only the fields shown
// on the dashboard are decoded; everything else is left on the wire.
type Issue struct {
	ID     string      `json:"id,omitempty"`
	Key    string      `json:"key"`
	Fields IssueFields `json:"fields"`
}

type IssueFields struct {
	Summary  string `json:"summary"`
	Status   Status `json:"status"`
	Assignee *User  `json:"assignee,omitempty"`
	Updated  string `json:"updated,omitempty"`
}

type Status struct {
	Name string `json:"name"`
}

type User struct {
	DisplayName string `json:"displayName"`
}

// searchResponse is the top-level structure of the tracker's search API.
type searchResponse struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	Total      int     `json:"total"`
	Issues     []Issue `json:"issues"`
}
