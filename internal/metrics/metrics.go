// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	DispatchesTotal     = expvar.NewInt("dispatches_total")
	ConfigsMissing      = expvar.NewInt("configs_missing")
	PolicyRunsTotal     = expvar.NewInt("policy_runs_total")
	PolicyRunsFailed    = expvar.NewInt("policy_runs_failed")
	ChecksCompleted     = expvar.NewInt("checks_completed")
	ApprovalsIssued     = expvar.NewInt("approvals_issued")
	LabelMutations      = expvar.NewInt("label_mutations")
	WebhooksReceived    = expvar.NewInt("webhooks_received")
	WebhooksRejected    = expvar.NewInt("webhooks_rejected")
	EmailVerifyFailures = expvar.NewInt("email_verify_failures")
)
