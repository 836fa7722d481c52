package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/checkmate-dev/checkmate/internal/testutil"
	"github.com/checkmate-dev/checkmate/pkg/types"
)

func repo() types.Repository {
	return types.Repository{
		Name:     "widgets",
		FullName: "acme/widgets",
		Owner:    types.User{Login: "acme"},
	}
}

func TestLoadFromEventRepo(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Files["acme/widgets/.github/checkmate.yml"] = []byte("pr:\n  tasksList:\n  signedCommits:\n")

	cfg, err := NewLoader(gw, nil).Load(context.Background(), repo())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Policies, 2)
	assert.Equal(t, "tasksList", cfg.Policies[0].Name)
	assert.Equal(t, "signedCommits", cfg.Policies[1].Name)
}

func TestLoadFallsBackToOwnerRepo(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Files["acme/.github/.github/checkmate.yml"] = []byte("pr:\n  autoApprove:\n    allBots: true\n")

	cfg, err := NewLoader(gw, nil).Load(context.Background(), repo())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Len(t, cfg.Policies, 1)
	assert.Equal(t, "autoApprove", cfg.Policies[0].Name)
	require.NotNil(t, cfg.Policies[0].Options)
}

func TestLoadPrefersEventRepoOverFallback(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Files["acme/widgets/.github/checkmate.yml"] = []byte("pr:\n  tasksList:\n")
	gw.Files["acme/.github/.github/checkmate.yml"] = []byte("pr:\n  autoApprove:\n")

	cfg, err := NewLoader(gw, nil).Load(context.Background(), repo())
	require.NoError(t, err)
	require.Len(t, cfg.Policies, 1)
	assert.Equal(t, "tasksList", cfg.Policies[0].Name)
}

func TestLoadMissingEverywhere(t *testing.T) {
	gw := testutil.NewMockGateway()

	cfg, err := NewLoader(gw, nil).Load(context.Background(), repo())
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Equal(t, int64(2), gw.FileCalls.Load())
}

func TestLoadMalformedYAML(t *testing.T) {
	gw := testutil.NewMockGateway()
	gw.Files["acme/widgets/.github/checkmate.yml"] = []byte("pr: [this is: not a mapping\n")

	_, err := NewLoader(gw, nil).Load(context.Background(), repo())
	require.Error(t, err)
}
