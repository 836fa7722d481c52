package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/checkmate-dev/checkmate/internal/webhook"
)

// NewSmokeCmd creates the smoke command, which signs and posts a sample
// pull_request event to a running webhook endpoint.
func NewSmokeCmd() *cobra.Command {
	var (
		url    string
		secret string
		repo   string
	)

	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Send a signed sample pull_request event to a webhook endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(url, secret, repo)
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:3000/api/v1/webhook", "Webhook endpoint URL")
	cmd.Flags().StringVar(&secret, "secret", "", "Webhook shared secret (required)")
	cmd.Flags().StringVar(&repo, "repo", "checkmate-dev/sandbox", "Repository full name for the sample event")
	_ = cmd.MarkFlagRequired("secret")
	return cmd
}

func runSmoke(url, secret, repoFullName string) error {
	payload, err := samplePullRequestPayload(repoFullName)
	if err != nil {
		return fmt.Errorf("building sample payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(webhook.HeaderEvent, "pull_request")
	req.Header.Set(webhook.HeaderDelivery, fmt.Sprintf("smoke-%d", time.Now().UnixNano()))
	req.Header.Set(webhook.HeaderSignature, webhook.Signature([]byte(secret), payload))

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting sample event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	if resp.StatusCode != http.StatusOK {
		color.Red("✗ endpoint returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
		return fmt.Errorf("smoke test failed with status %d", resp.StatusCode)
	}
	color.Green("✓ delivery accepted (%d): %s", resp.StatusCode, bytes.TrimSpace(body))
	return nil
}

func samplePullRequestPayload(repoFullName string) ([]byte, error) {
	owner, name := splitFullName(repoFullName)
	return json.Marshal(map[string]any{
		"action": "opened",
		"repository": map[string]any{
			"name":      name,
			"full_name": repoFullName,
			"owner":     map[string]any{"login": owner},
		},
		"sender": map[string]any{"login": "smoke-tester", "type": "User"},
		"pull_request": map[string]any{
			"number": 1,
			"title":  "feat: smoke test",
			"body":   "- [x] wire the webhook\n- [ ] watch the checks",
			"head":   map[string]any{"ref": "smoke", "sha": "0000000000000000000000000000000000000000"},
			"base":   map[string]any{"ref": "main"},
		},
	})
}

func splitFullName(fullName string) (owner, name string) {
	for i := 0; i < len(fullName); i++ {
		if fullName[i] == '/' {
			return fullName[:i], fullName[i+1:]
		}
	}
	return fullName, fullName
}
