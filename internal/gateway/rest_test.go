package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmate-dev/checkmate/pkg/types"
)

func testRepo() types.Repository {
	return types.Repository{
		Name:     "widgets",
		FullName: "acme/widgets",
		Owner:    types.User{Login: "acme"},
	}
}

func TestCreateCheckRun(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok-123", nil)
	id, err := client.CreateCheckRun(context.Background(), testRepo(), types.CheckRunCreate{
		HeadSHA: "abc123",
		Name:    "CheckMate Commits Conventional",
		Status:  types.CheckInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "POST /repos/acme/widgets/check-runs", gotPath)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "abc123", gotBody["head_sha"])
}

func TestUpdateCheckRun(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	err := client.UpdateCheckRun(context.Background(), testRepo(), 42, types.CheckRunUpdate{
		Status:     types.CheckCompleted,
		Conclusion: types.ConclusionSuccess,
	})
	require.NoError(t, err)
	assert.Equal(t, "PATCH /repos/acme/widgets/check-runs/42", gotPath)
}

func TestListPullRequestCommits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/pulls/7/commits", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"sha": "aaa", "html_url": "https://example.com/aaa", "commit": {"message": "feat: one"}},
			{"sha": "bbb", "html_url": "https://example.com/bbb", "commit": {"message": "fix: two"}}
		]`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	commits, err := client.ListPullRequestCommits(context.Background(), testRepo(), 7)
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Equal(t, "feat: one", commits[0].Commit.Message)
	assert.Equal(t, "bbb", commits[1].SHA)
}

func TestApprovePullRequest(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/acme/widgets/pulls/7/reviews", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	require.NoError(t, client.ApprovePullRequest(context.Background(), testRepo(), 7))
	assert.Equal(t, "APPROVE", gotBody["event"])
}

func TestRemoveLabelEscapesName(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	require.NoError(t, client.RemoveLabel(context.Background(), testRepo(), 7, "status: wip"))
	assert.Equal(t, "/repos/acme/widgets/issues/7/labels/status:%20wip", gotPath)
}

func TestRequiredApprovals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/branches/main/protection", r.URL.Path)
		_, _ = w.Write([]byte(`{"required_pull_request_reviews": {"required_approving_review_count": 2}}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	count, err := client.RequiredApprovals(context.Background(), testRepo(), "main")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFileContentDecodesBase64(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("pr:\n  tasks-list:\n"))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/contents/.github/checkmate.yml", r.URL.Path)
		resp := map[string]string{"content": content, "encoding": "base64"}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	data, err := client.FileContent(context.Background(), testRepo(), ".github/checkmate.yml")
	require.NoError(t, err)
	assert.Equal(t, "pr:\n  tasks-list:\n", string(data))
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	_, err := client.FileContent(context.Background(), testRepo(), ".github/checkmate.yml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client := NewRESTClient(srv.URL, "tok", nil)
	_, err := client.ListRepoLabels(context.Background(), testRepo())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "upstream unavailable")
}
