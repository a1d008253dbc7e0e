package monitor

import (
	"context"
	"fmt"
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/notification"
	preferencestore "intavia-backend/lib/notification/preference-store"
	subscriptionstore "intavia-backend/lib/subscription/store"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/lib/utils/lock"
	"intavia-backend/models"
	monitoringapimodels "intavia-backend/models/api/monitoring"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
)

const (
	checkTrialEnding       = "trial_ending"
	checkPaymentFailed     = "payment_failed"
	checkExpiringSoon      = "expiring_soon"
	checkPastDueEscalation = "past_due_escalation"
)

type Provider interface {
	// RunAllChecks sweeps the whole subscription population. Checks run
	// independently, a failing check never blocks the others.
	RunAllChecks(ctx context.Context) monitoringapimodels.Summary
}

var Instance Provider

func NewMonitor(trialEndingDays, expiringDays, pastDueGraceDays int) {
	Instance = &impl{
		store:            subscriptionstore.NewInstance(db.DB),
		preferences:      preferencestore.NewInstance(db.DB),
		dispatcher:       notification.Instance,
		trialEndingDays:  trialEndingDays,
		expiringDays:     expiringDays,
		pastDueGraceDays: pastDueGraceDays,
	}
}

type impl struct {
	store            subscriptionstore.Provider
	preferences      preferencestore.Provider
	dispatcher       notification.Provider
	trialEndingDays  int
	expiringDays     int
	pastDueGraceDays int
}

// the on-demand endpoint and the periodic worker share one sweep at a time
const sweepLockKey = "subscription_sweep"

func (i impl) RunAllChecks(ctx context.Context) monitoringapimodels.Summary {
	summary := monitoringapimodels.Summary{
		Checks: map[string]monitoringapimodels.CheckResult{},
	}
	acquired, _ := lock.WithDelay(ctx, sweepLockKey, time.Second, func() error {
		i.runChecks(ctx, &summary)
		return nil
	})
	if !acquired {
		summary.Checks["sweep"] = monitoringapimodels.CheckResult{
			Errors: []string{"a sweep is already running"},
		}
		summary.TotalErrors = 1
	}
	return summary
}

func (i impl) runChecks(ctx context.Context, summary *monitoringapimodels.Summary) {
	checks := []struct {
		name string
		run  func(ctx context.Context) monitoringapimodels.CheckResult
	}{
		{checkTrialEnding, i.checkTrialEnding},
		{checkPaymentFailed, i.checkPaymentFailed},
		{checkExpiringSoon, i.checkExpiringSoon},
		{checkPastDueEscalation, i.checkPastDueEscalation},
	}
	for _, check := range checks {
		if helpers.IsContextDone(ctx) {
			break
		}
		result := check.run(ctx)
		summary.Checks[check.name] = result
		summary.TotalNotifications += result.Notifications
		summary.TotalErrors += len(result.Errors)
	}
}

func (i impl) checkTrialEnding(ctx context.Context) monitoringapimodels.CheckResult {
	result := monitoringapimodels.CheckResult{}
	now := time.Now()
	horizon := now.Add(time.Duration(i.trialEndingDays) * 24 * time.Hour)
	list, err := i.store.ListTrialEnding(horizon)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("trial query failed: %v", err))
		return result
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		daysLeft := 0
		if rec.TrialEnd != nil && rec.TrialEnd.After(now) {
			daysLeft = int(rec.TrialEnd.Sub(now).Hours()/24) + 1
		}
		i.notify(&result, rec, models.NotificationTrialEnding, "TrialNotifiedAt", notification.TemplateData{
			RecipientName: rec.AdminName,
			CompanyName:   rec.CompanyName,
			PlanName:      rec.PlanID,
			DaysLeft:      daysLeft,
		})
	}
	return result
}

func (i impl) checkPaymentFailed(ctx context.Context) monitoringapimodels.CheckResult {
	result := monitoringapimodels.CheckResult{}
	list, err := i.store.ListPaymentFailed()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("past due query failed: %v", err))
		return result
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		i.notify(&result, rec, models.NotificationPaymentFailed, "PaymentFailedNotifiedAt", notification.TemplateData{
			RecipientName: rec.AdminName,
			CompanyName:   rec.CompanyName,
			PlanName:      rec.PlanID,
		})
	}
	return result
}

func (i impl) checkExpiringSoon(ctx context.Context) monitoringapimodels.CheckResult {
	result := monitoringapimodels.CheckResult{}
	now := time.Now()
	horizon := now.Add(time.Duration(i.expiringDays) * 24 * time.Hour)
	list, err := i.store.ListExpiring(horizon)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("expiring query failed: %v", err))
		return result
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		daysLeft := 0
		if rec.CurrentPeriodEnd != nil && rec.CurrentPeriodEnd.After(now) {
			daysLeft = int(rec.CurrentPeriodEnd.Sub(now).Hours()/24) + 1
		}
		i.notify(&result, rec, models.NotificationSubscriptionExpiring, "ExpiryNotifiedAt", notification.TemplateData{
			RecipientName: rec.AdminName,
			CompanyName:   rec.CompanyName,
			PlanName:      rec.PlanID,
			DaysLeft:      daysLeft,
		})
	}
	return result
}

// checkPastDueEscalation expires subscriptions that sat past due beyond the
// grace window. No mail here, the state flip is the action.
func (i impl) checkPastDueEscalation(ctx context.Context) monitoringapimodels.CheckResult {
	result := monitoringapimodels.CheckResult{}
	cutoff := time.Now().Add(-time.Duration(i.pastDueGraceDays) * 24 * time.Hour)
	list, err := i.store.ListPastDueOlderThan(cutoff)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("escalation query failed: %v", err))
		return result
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		updated, err := i.store.UpdateStatusIf(rec.ID, models.SubscriptionStatusPastDue, models.SubscriptionStatusExpired, nil)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("subscription %v escalation failed: %v", rec.ID, err))
			continue
		}
		if updated {
			result.Notifications++
			log.WithField("subscription_id", rec.ID).Warn("past due subscription expired")
		}
	}
	return result
}

// notify sends one de-duplicated mail to the company admin and advances the
// per-check cursor. Preference opt-outs advance the cursor too so disabled
// rows stop matching; quiet hours leave it untouched for a later sweep.
func (i impl) notify(result *monitoringapimodels.CheckResult, rec dbmodels.SubscriptionExt, kind models.NotificationKind, cursorField string, data notification.TemplateData) {
	if rec.AdminEmail == "" {
		result.Errors = append(result.Errors, fmt.Sprintf("subscription %v has no admin to notify", rec.ID))
		return
	}
	pref, err := i.preferences.GetByUser(rec.AdminUserID)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("subscription %v preference lookup failed: %v", rec.ID, err))
		return
	}
	if pref != nil {
		if !pref.IsCategoryEnabled(kind.Category()) {
			if err = i.store.Update(rec.ID, map[string]interface{}{cursorField: time.Now()}); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("subscription %v cursor update failed: %v", rec.ID, err))
			}
			return
		}
		if pref.IsQuietHour(helpers.LocalHour(time.Now(), pref.TimezoneID)) {
			return
		}
	}
	sendResult := i.dispatcher.Send(kind, rec.AdminEmail, data)
	if !sendResult.Success {
		result.Errors = append(result.Errors, fmt.Sprintf("subscription %v notification failed: %v", rec.ID, sendResult.Err))
		return
	}
	if err = i.store.Update(rec.ID, map[string]interface{}{cursorField: time.Now()}); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("subscription %v cursor update failed: %v", rec.ID, err))
		return
	}
	result.Notifications++
}
