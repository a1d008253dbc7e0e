package initializers

import (
	"intavia-backend/config"
	"intavia-backend/lib/smtp"

	log "github.com/sirupsen/logrus"
)

func InitSmtp() {
	conf := config.Conf.Smtp
	err := smtp.Connect(conf.User, conf.Password, conf.Host, conf.Port, *conf.TLSEnabled)
	if err != nil {
		// mail is best effort everywhere, a dead relay must not block startup
		log.WithError(err).Error("smtp init failed, mail sending disabled")
	}
}
