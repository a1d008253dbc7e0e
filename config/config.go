package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
		PublicURL  string `default:"http://localhost:8080" env:"APP_PUBLIC_URL"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"intavia" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	Auth struct {
		JWTSecret             string `default:"" env:"JWT_SECRET"`
		JWTExpireInSec        int    `default:"3600" env:"JWT_EXPIRE_IN_SEC"`
		JWTRefreshExpireInSec int    `default:"604800" env:"JWT_REFRESH_EXPIRE_IN_SEC"`
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		FromEmail  string `default:"no-reply@intavia.app" env:"SMTP_FROM_EMAIL"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		ContractsBucket string `default:"signed-contracts" env:"S3_CONTRACTS_BUCKET"`
		ResumesBucket   string `default:"resumes" env:"S3_RESUMES_BUCKET"`
	}
	Stripe struct {
		SecretKey       string `default:"" env:"STRIPE_SECRET_KEY"`
		WebhookSecret   string `default:"" env:"STRIPE_WEBHOOK_SECRET"`
		PortalReturnURL string `default:"http://localhost:3000/billing" env:"STRIPE_PORTAL_RETURN_URL"`
	}
	Google struct {
		ClientID     string `default:"" env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `default:"" env:"GOOGLE_CLIENT_SECRET"`
		RedirectURL  string `default:"" env:"GOOGLE_REDIRECT_URL"`
	}
	Monitoring struct {
		// pre-shared bearer key for the on-demand sweep trigger
		Key string `default:"" env:"MONITORING_KEY"`
		// days before trial end / period end that notifications fire
		TrialEndingDays int `default:"3" env:"MONITORING_TRIAL_ENDING_DAYS"`
		ExpiringDays    int `default:"7" env:"MONITORING_EXPIRING_DAYS"`
		// days a subscription may stay past due before escalating to expired
		PastDueGraceDays int `default:"14" env:"MONITORING_PAST_DUE_GRACE_DAYS"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
