package initializers

import (
	"context"
	"time"

	"intavia-backend/config"
	"intavia-backend/fiberlog"
	"intavia-backend/lib/auth"
	"intavia-backend/lib/candidate"
	"intavia-backend/lib/contractoffer"
	offerexpiryworker "intavia-backend/lib/contractoffer/expiry-worker"
	filestorage "intavia-backend/lib/file-storage"
	"intavia-backend/lib/integration"
	"intavia-backend/lib/integration/googlecalendar"
	"intavia-backend/lib/interview"
	interviewreminderworker "intavia-backend/lib/interview/reminder-worker"
	"intavia-backend/lib/invite"
	"intavia-backend/lib/job"
	"intavia-backend/lib/notification"
	"intavia-backend/lib/subscription"
	"intavia-backend/lib/subscription/monitor"
	"intavia-backend/lib/subscription/paymentretry"
	"intavia-backend/lib/subscription/stripeclient"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	InitSmtp()
	filestorage.NewHandler()
	notification.NewHandler(config.Conf.Smtp.FromEmail)
	notification.NewPreferencesHandler()
	googlecalendar.NewProvider()
	integration.NewHandler(config.Conf.Google.ClientID, config.Conf.Google.ClientSecret, config.Conf.Google.RedirectURL)
	stripeclient.NewClient(config.Conf.Stripe.SecretKey, config.Conf.Stripe.WebhookSecret)
	auth.NewHandler()
	invite.NewHandler(config.Conf.App.PublicURL)
	job.NewHandler()
	candidate.NewHandler()
	interview.NewHandler()
	contractoffer.NewHandler(config.Conf.S3.ContractsBucket, config.Conf.App.PublicURL)
	subscription.NewHandler(config.Conf.Stripe.PortalReturnURL)
	paymentretry.NewCoordinator()
	monitor.NewMonitor(config.Conf.Monitoring.TrialEndingDays, config.Conf.Monitoring.ExpiringDays, config.Conf.Monitoring.PastDueGraceDays)
	go initWorkers(ctx)
}

// workers start with a gap to spread the load after boot
func initWorkers(ctx context.Context) {
	// interview reminders, at most one per interview
	interviewreminderworker.StartWorker(ctx)

	time.Sleep(10 * time.Second)
	// overdue offers flip to expired
	offerexpiryworker.StartWorker(ctx)

	time.Sleep(10 * time.Second)
	// periodic subscription sweep, same checks as the monitoring endpoint
	monitor.StartWorker(ctx)
}
