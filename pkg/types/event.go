package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// User is the GitHub account attached to an event or review.
type User struct {
	Login string `json:"login"`
	Type  string `json:"type"` // "User", "Bot" or "Organization"
}

// Repository identifies the repository an event belongs to.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Owner    User   `json:"owner"`
}

// GitRef is one side of a pull request (head or base).
type GitRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// Label is a repository or issue label.
type Label struct {
	Name string `json:"name"`
}

// PullRequest is the pull request slice of a webhook payload.
type PullRequest struct {
	Number int     `json:"number"`
	Title  string  `json:"title"`
	Body   string  `json:"body"`
	Draft  bool    `json:"draft"`
	Merged bool    `json:"merged"`
	Head   GitRef  `json:"head"`
	Base   GitRef  `json:"base"`
	Labels []Label `json:"labels"`
}

// Review is a single pull request review, as delivered in review events
// and by the reviews listing API.
type Review struct {
	User        User        `json:"user"`
	CommitID    string      `json:"commit_id"`
	State       ReviewState `json:"state"`
	SubmittedAt time.Time   `json:"submitted_at"`
}

// GitIdentity is the name/email pair recorded on a commit.
type GitIdentity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommitDetail is the git-level portion of a listed commit.
type CommitDetail struct {
	Message   string      `json:"message"`
	Author    GitIdentity `json:"author"`
	Committer GitIdentity `json:"committer"`
}

// RepoCommit is one commit as returned by the pull request commits API.
type RepoCommit struct {
	SHA     string       `json:"sha"`
	HTMLURL string       `json:"html_url"`
	Commit  CommitDetail `json:"commit"`
}

// Event is one normalized webhook delivery. Type and Delivery come from the
// request headers, everything else from the JSON body. An Event is immutable
// for the duration of a dispatch.
type Event struct {
	Type        string       `json:"-"`
	Delivery    string       `json:"-"`
	Action      string       `json:"action"`
	Repo        Repository   `json:"repository"`
	Sender      User         `json:"sender"`
	PullRequest *PullRequest `json:"pull_request"`
	Review      *Review      `json:"review"`
}

// ParseEvent decodes a webhook payload into an Event.
func ParseEvent(eventType, delivery string, payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("decoding %s payload: %w", eventType, err)
	}
	ev.Type = eventType
	ev.Delivery = delivery
	if ev.Repo.FullName == "" {
		return nil, fmt.Errorf("%s payload has no repository", eventType)
	}
	return &ev, nil
}

// CheckRunOutput is the report attached to a completed check run.
type CheckRunOutput struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Text    string `json:"text,omitempty"`
}

// CheckRunCreate is the payload for opening a check run in progress.
type CheckRunCreate struct {
	HeadSHA    string      `json:"head_sha"`
	Name       string      `json:"name"`
	DetailsURL string      `json:"details_url"`
	StartedAt  time.Time   `json:"started_at"`
	Status     CheckStatus `json:"status"`
}

// CheckRunUpdate is the payload completing a previously created check run.
type CheckRunUpdate struct {
	Name        string          `json:"name"`
	DetailsURL  string          `json:"details_url"`
	StartedAt   time.Time       `json:"started_at"`
	Status      CheckStatus     `json:"status"`
	Conclusion  CheckConclusion `json:"conclusion"`
	CompletedAt time.Time       `json:"completed_at"`
	Output      CheckRunOutput  `json:"output"`
}
