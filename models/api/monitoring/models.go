package monitoringapimodels

// CheckResult is the outcome of one independent monitoring check over the
// whole subscription population.
type CheckResult struct {
	Notifications int      `json:"notifications"`
	Errors        []string `json:"errors,omitempty"`
}

type Summary struct {
	Checks             map[string]CheckResult `json:"checks"`
	TotalNotifications int                    `json:"total_notifications"`
	TotalErrors        int                    `json:"total_errors"`
}
