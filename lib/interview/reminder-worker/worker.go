package reminderworker

import (
	"context"
	"time"

	"intavia-backend/db"
	interviewstore "intavia-backend/lib/interview/store"
	"intavia-backend/lib/notification"
	baseworker "intavia-backend/lib/utils/base-worker"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/models"
)

// reminders go out for interviews starting within this window
const reminderWindow = 24 * time.Hour

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl:   *baseworker.NewInstance("InterviewReminderWorker", 20*time.Second, 15*time.Minute),
		store:      interviewstore.NewInstance(db.DB),
		dispatcher: notification.Instance,
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store      interviewstore.Provider
	dispatcher notification.Provider
}

func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	now := time.Now()
	list, err := i.store.ListDueForReminder(now, now.Add(reminderWindow))
	if err != nil {
		logger.WithError(err).Error("due interview query failed")
		return
	}
	for _, rec := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		if rec.OrganizerEmail == "" {
			continue
		}
		// claim before sending so a crashed send costs one reminder, not a
		// duplicate
		claimed, err := i.store.MarkReminderSent(rec.ID, now)
		if err != nil {
			logger.
				WithError(err).
				WithField("interview_id", rec.ID).
				Error("reminder claim failed")
			continue
		}
		if !claimed {
			continue
		}
		result := i.dispatcher.Send(models.NotificationInterviewReminder, rec.OrganizerEmail, notification.TemplateData{
			RecipientName: rec.OrganizerName,
			CandidateName: rec.CandidateName,
			JobTitle:      rec.JobTitle,
			InterviewDate: rec.Date.Format(time.RFC1123),
			MeetLink:      rec.MeetLink,
		})
		if !result.Success {
			logger.
				WithError(result.Err).
				WithField("interview_id", rec.ID).
				Error("reminder send failed")
			continue
		}
		logger.WithField("interview_id", rec.ID).Info("interview reminder sent")
	}
}
