package feeds

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// githubEventsURL lists a user's recent public activity.
const githubEventsURL = "https://api.github.com/users/%s/events/public?per_page=%d"

// githubEventLimit bounds how many events a widget shows.
const githubEventLimit = 10

// GitHubEvent is one row of a user's public activity stream.
type GitHubEvent struct {
	Type      string
	Repo      string
	CreatedAt time.Time
}

// Summary renders the event as a short "verb repo" line, e.g.
// "pushed torvalds/linux".
func (e GitHubEvent) Summary() string {
	verb := map[string]string{
		"PushEvent":              "pushed",
		"CreateEvent":            "created",
		"DeleteEvent":            "deleted",
		"ForkEvent":              "forked",
		"WatchEvent":             "starred",
		"IssuesEvent":            "issue",
		"IssueCommentEvent":      "commented",
		"PullRequestEvent":       "PR",
		"PullRequestReviewEvent": "reviewed",
		"ReleaseEvent":           "released",
	}[e.Type]
	if verb == "" {
		verb = strings.ToLower(strings.TrimSuffix(e.Type, "Event"))
	}
	return verb + " " + e.Repo
}

// FetchGitHubEvents fetches a user's recent public events, newest first.
func (c *Client) FetchGitHubEvents(ctx context.Context, username string) ([]GitHubEvent, error) {
	u := fmt.Sprintf(githubEventsURL, url.PathEscape(username), githubEventLimit)

	var raw []struct {
		Type string `json:"type"`
		Repo struct {
			Name string `json:"name"`
		} `json:"repo"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}

	events := make([]GitHubEvent, 0, len(raw))
	for _, r := range raw {
		events = append(events, GitHubEvent{
			Type:      r.Type,
			Repo:      r.Repo.Name,
			CreatedAt: r.CreatedAt,
		})
	}
	return events, nil
}
