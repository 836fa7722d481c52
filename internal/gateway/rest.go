package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

// HTTPClient is the HTTP surface the REST client needs; *http.Client
// satisfies it, tests substitute their own.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RESTClient implements Gateway against the GitHub REST API. Token minting
// (installation tokens, app JWTs) is the deployment's concern; the client
// just sends whatever bearer token it was given.
type RESTClient struct {
	baseURL    string
	token      string
	httpClient HTTPClient
}

// NewRESTClient creates a RESTClient. An empty baseURL targets the public
// API; a nil httpClient uses a default client with a request timeout.
func NewRESTClient(baseURL, token string, httpClient HTTPClient) *RESTClient {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &RESTClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (c *RESTClient) CreateCheckRun(ctx context.Context, repo types.Repository, create types.CheckRunCreate) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	path := fmt.Sprintf("/repos/%s/%s/check-runs", repo.Owner.Login, repo.Name)
	if err := c.do(ctx, http.MethodPost, path, create, &resp); err != nil {
		return 0, fmt.Errorf("creating check run: %w", err)
	}
	return resp.ID, nil
}

func (c *RESTClient) UpdateCheckRun(ctx context.Context, repo types.Repository, id int64, update types.CheckRunUpdate) error {
	path := fmt.Sprintf("/repos/%s/%s/check-runs/%d", repo.Owner.Login, repo.Name, id)
	if err := c.do(ctx, http.MethodPatch, path, update, nil); err != nil {
		return fmt.Errorf("updating check run %d: %w", id, err)
	}
	return nil
}

func (c *RESTClient) ListPullRequestCommits(ctx context.Context, repo types.Repository, number int) ([]types.RepoCommit, error) {
	var commits []types.RepoCommit
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/commits?per_page=100", repo.Owner.Login, repo.Name, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &commits); err != nil {
		return nil, fmt.Errorf("listing commits for #%d: %w", number, err)
	}
	return commits, nil
}

func (c *RESTClient) ListPullRequestReviews(ctx context.Context, repo types.Repository, number int) ([]types.Review, error) {
	var reviews []types.Review
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews?per_page=100", repo.Owner.Login, repo.Name, number)
	if err := c.do(ctx, http.MethodGet, path, nil, &reviews); err != nil {
		return nil, fmt.Errorf("listing reviews for #%d: %w", number, err)
	}
	return reviews, nil
}

func (c *RESTClient) ApprovePullRequest(ctx context.Context, repo types.Repository, number int) error {
	body := map[string]string{"event": "APPROVE"}
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", repo.Owner.Login, repo.Name, number)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("approving #%d: %w", number, err)
	}
	return nil
}

func (c *RESTClient) ListRepoLabels(ctx context.Context, repo types.Repository) ([]types.Label, error) {
	var labels []types.Label
	path := fmt.Sprintf("/repos/%s/%s/labels?per_page=100", repo.Owner.Login, repo.Name)
	if err := c.do(ctx, http.MethodGet, path, nil, &labels); err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	return labels, nil
}

func (c *RESTClient) AddLabels(ctx context.Context, repo types.Repository, number int, labels []string) error {
	body := map[string][]string{"labels": labels}
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels", repo.Owner.Login, repo.Name, number)
	if err := c.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("adding labels to #%d: %w", number, err)
	}
	return nil
}

func (c *RESTClient) RemoveLabel(ctx context.Context, repo types.Repository, number int, label string) error {
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/labels/%s",
		repo.Owner.Login, repo.Name, number, url.PathEscape(label))
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("removing label %q from #%d: %w", label, number, err)
	}
	return nil
}

func (c *RESTClient) RequiredApprovals(ctx context.Context, repo types.Repository, branch string) (int, error) {
	var protection struct {
		RequiredPullRequestReviews struct {
			RequiredApprovingReviewCount int `json:"required_approving_review_count"`
		} `json:"required_pull_request_reviews"`
	}
	path := fmt.Sprintf("/repos/%s/%s/branches/%s/protection",
		repo.Owner.Login, repo.Name, url.PathEscape(branch))
	if err := c.do(ctx, http.MethodGet, path, nil, &protection); err != nil {
		return 0, fmt.Errorf("fetching branch protection for %s: %w", branch, err)
	}
	return protection.RequiredPullRequestReviews.RequiredApprovingReviewCount, nil
}

func (c *RESTClient) FileContent(ctx context.Context, repo types.Repository, path string) ([]byte, error) {
	var file struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s", repo.Owner.Login, repo.Name, path)
	if err := c.do(ctx, http.MethodGet, reqPath, nil, &file); err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	if file.Encoding != "base64" {
		return []byte(file.Content), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return decoded, nil
}

// do performs one API request. Non-2xx responses become *APIError.
func (c *RESTClient) do(ctx context.Context, method, path string, body, result any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
