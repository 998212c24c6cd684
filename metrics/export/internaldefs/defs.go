package internaldefs

import (
	goCognito "github.com/MrEthical07/goCognito"
)

// CounterDef binds one engine counter to its stable exported metric name.
type CounterDef struct {
	ID   goCognito.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Exporters iterate this slice so
// all of them agree on names and coverage.
var CounterDefs = []CounterDef{
	{ID: goCognito.MetricAdminCreateUser, Name: "gocognito_admin_create_user_total", Help: "Successful administrative account creations."},
	{ID: goCognito.MetricAdminCreateUserDuplicate, Name: "gocognito_admin_create_user_duplicate_total", Help: "Account creations rejected as duplicate."},
	{ID: goCognito.MetricAdminResetByCode, Name: "gocognito_admin_reset_by_code_total", Help: "Administrative resets delivering a confirmation code."},
	{ID: goCognito.MetricAdminResetByTemporaryPassword, Name: "gocognito_admin_reset_by_temporary_password_total", Help: "Administrative resets delivering a temporary password."},
	{ID: goCognito.MetricAuthSuccess, Name: "gocognito_auth_success_total", Help: "Sign-ins that issued tokens directly."},
	{ID: goCognito.MetricAuthChallengeIssued, Name: "gocognito_auth_challenge_issued_total", Help: "Sign-ins answered with a challenge."},
	{ID: goCognito.MetricAuthFailure, Name: "gocognito_auth_failure_total", Help: "Rejected sign-in attempts."},
	{ID: goCognito.MetricChallengeSuccess, Name: "gocognito_challenge_success_total", Help: "Resolved auth challenges."},
	{ID: goCognito.MetricChallengeFailure, Name: "gocognito_challenge_failure_total", Help: "Failed challenge responses."},
	{ID: goCognito.MetricCodeMismatch, Name: "gocognito_code_mismatch_total", Help: "Challenge responses carrying a wrong code."},
	{ID: goCognito.MetricListUsers, Name: "gocognito_list_users_total", Help: "ListUsers operations."},
	{ID: goCognito.MetricMessageSent, Name: "gocognito_message_sent_total", Help: "Delivered out-of-band messages."},
	{ID: goCognito.MetricTriggerInvoked, Name: "gocognito_trigger_invoked_total", Help: "Awaited lifecycle trigger invocations."},
}
