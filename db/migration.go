package db

import (
	dbmodels "intavia-backend/models/db"

	"github.com/pkg/errors"
)

func AutoMigrateDB() error {
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return errors.Wrap(err, "uuid extension creation failed")
	}
	err := DB.AutoMigrate(
		&dbmodels.Company{},
		&dbmodels.CompanyUser{},
		&dbmodels.Job{},
		&dbmodels.JobPermission{},
		&dbmodels.Candidate{},
		&dbmodels.Evaluation{},
		&dbmodels.Interview{},
		&dbmodels.Contract{},
		&dbmodels.ContractOffer{},
		&dbmodels.Subscription{},
		&dbmodels.NotificationPreference{},
		&dbmodels.Integration{},
		&dbmodels.Invite{},
		&dbmodels.OtpCode{},
	)
	if err != nil {
		return errors.Wrap(err, "migration failed")
	}
	return nil
}
