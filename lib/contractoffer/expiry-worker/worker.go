package expiryworker

import (
	"context"
	"time"

	"intavia-backend/db"
	contractofferstore "intavia-backend/lib/contractoffer/store"
	baseworker "intavia-backend/lib/utils/base-worker"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/models"
)

func StartWorker(ctx context.Context) {
	i := &impl{
		BaseImpl: *baseworker.NewInstance("ContractOfferExpiryWorker", 30*time.Second, 60*time.Minute),
		store:    contractofferstore.NewInstance(db.DB),
	}
	go i.Run(ctx, i.handle)
}

type impl struct {
	baseworker.BaseImpl
	store contractofferstore.Provider
}

// flip overdue SENT offers to EXPIRED; CancelledBy stays empty to mark
// time-based expiry
func (i impl) handle(ctx context.Context) {
	logger := i.GetLogger()
	list, err := i.store.ListOverdue(time.Now())
	if err != nil {
		logger.WithError(err).Error("overdue offer query failed")
		return
	}
	for _, offer := range list {
		if helpers.IsContextDone(ctx) {
			break
		}
		updated, err := i.store.UpdateStatusIf(offer.ID, models.ContractOfferStatusSent, models.ContractOfferStatusExpired, nil)
		if err != nil {
			logger.
				WithError(err).
				WithField("offer_id", offer.ID).
				Error("offer expiry update failed")
			continue
		}
		if updated {
			logger.WithField("offer_id", offer.ID).Info("contract offer expired")
		}
	}
}
