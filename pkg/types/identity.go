package types

import "strings"

const botLoginSuffix = "[bot]"

// IsBot reports whether the account is an automation account, either by its
// declared type or by the "[bot]" login suffix GitHub appends to app logins.
func (u User) IsBot() bool {
	return u.Type == "Bot" || strings.HasSuffix(u.Login, botLoginSuffix)
}

// NormalizeLogin lowercases a login and strips the "[bot]" suffix so
// configured user lists match regardless of formatting.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSuffix(login, botLoginSuffix))
}

// IsBot reports whether a commit identity belongs to an automation account,
// recognized by the "[bot]" marker in the email local part or display name
// (e.g. "dependabot[bot]@users.noreply.github.com").
func (id GitIdentity) IsBot() bool {
	return strings.Contains(id.Email, botLoginSuffix) || strings.HasSuffix(id.Name, botLoginSuffix)
}
