package contractoffer

import (
	"context"
	"strings"
	"time"

	"intavia-backend/db"
	"intavia-backend/lib/apperrors"
	candidatestore "intavia-backend/lib/candidate/store"
	contractofferstore "intavia-backend/lib/contractoffer/store"
	filestorage "intavia-backend/lib/file-storage"
	"intavia-backend/lib/notification"
	"intavia-backend/lib/utils/helpers"
	"intavia-backend/models"
	contractapimodels "intavia-backend/models/api/contract"
	dbmodels "intavia-backend/models/db"

	log "github.com/sirupsen/logrus"
)

const (
	signedDocumentTTL = 15 * time.Minute
	// marker used by legacy rows storing a full public URL instead of a path
	legacyPathMarker = "signed-contracts"
)

type SendOfferResult struct {
	Offer    contractapimodels.OfferView
	Warnings []string
}

type Provider interface {
	SendOffer(ctx context.Context, companyID string, req contractapimodels.SendOfferRequest, actorID string) (SendOfferResult, error)
	Cancel(companyID, offerID, actorID string) (contractapimodels.OfferView, error)
	Sign(ctx context.Context, offerID, signingToken string, req contractapimodels.SignRequest) (contractapimodels.OfferView, error)
	Reject(offerID, signingToken, reason string) (contractapimodels.OfferView, error)
	GetForSigner(offerID, signingToken string) (contractapimodels.OfferView, error)
	ListByCandidate(companyID, candidateID string) ([]contractapimodels.OfferView, error)
	GetSignedDocumentURL(ctx context.Context, companyID, offerID string) (contractapimodels.SignedDocumentView, error)
}

var Instance Provider

func NewHandler(contractsBucket, publicURL string) {
	Instance = &impl{
		store:           contractofferstore.NewInstance(db.DB),
		candidateStore:  candidatestore.NewInstance(db.DB),
		storage:         filestorage.Instance,
		dispatcher:      notification.Instance,
		contractsBucket: contractsBucket,
		publicURL:       publicURL,
	}
}

type impl struct {
	store           contractofferstore.Provider
	candidateStore  candidatestore.Provider
	storage         filestorage.Provider
	dispatcher      notification.Provider
	contractsBucket string
	publicURL       string
}

func (i impl) SendOffer(ctx context.Context, companyID string, req contractapimodels.SendOfferRequest, actorID string) (SendOfferResult, error) {
	candidate, err := i.candidateStore.GetByID(companyID, req.CandidateID)
	if err != nil {
		return SendOfferResult{}, err
	}
	if candidate == nil {
		return SendOfferResult{}, apperrors.NotFound("candidate not found")
	}
	contract, err := i.store.GetContract(companyID, req.ContractID)
	if err != nil {
		return SendOfferResult{}, err
	}
	if contract == nil {
		return SendOfferResult{}, apperrors.NotFound("contract not found")
	}
	now := time.Now()
	rec := dbmodels.ContractOffer{
		BaseCompanyModel: dbmodels.BaseCompanyModel{CompanyID: companyID},
		CandidateID:      req.CandidateID,
		ContractID:       req.ContractID,
		Status:           models.ContractOfferStatusSent,
		SalaryAmount:     req.SalaryAmount,
		SalaryCurrency:   req.SalaryCurrency,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		SentAt:           &now,
		SigningToken:     helpers.GenerateSecret(24),
	}
	if req.ExpiresInDays > 0 {
		expiresAt := now.Add(time.Hour * 24 * time.Duration(req.ExpiresInDays))
		rec.ExpiresAt = &expiresAt
	}
	id, err := i.store.Create(rec)
	if err != nil {
		return SendOfferResult{}, err
	}
	rec.ID = id

	// the offer row is committed; everything below is best effort
	var warnings []string
	document, err := renderOfferPDF(rec, *contract, *candidate)
	if err != nil {
		warnings = append(warnings, "offer document rendering failed")
		log.WithError(err).WithField("offer_id", id).Error("offer pdf render failed")
	} else {
		err = i.storage.Upload(ctx, i.contractsBucket, offerDocumentPath(rec), document, "application/pdf")
		if err != nil {
			warnings = append(warnings, "offer document upload failed")
			log.WithError(err).WithField("offer_id", id).Error("offer pdf upload failed")
		}
	}
	result := i.dispatcher.Send(models.NotificationContractOfferSent, candidate.Email, notification.TemplateData{
		CandidateName: candidate.FirstName + " " + candidate.LastName,
		InviteLink:    i.publicURL + "/sign/" + rec.ID + "?token=" + rec.SigningToken,
	})
	if !result.Success {
		warnings = append(warnings, "offer email not sent")
	}
	return SendOfferResult{Offer: contractapimodels.OfferConvert(rec), Warnings: warnings}, nil
}

// Cancel is only legal while the offer is still SENT; the terminal status is
// EXPIRED, shared with time-based expiry, with CancelledBy telling them apart.
func (i impl) Cancel(companyID, offerID, actorID string) (contractapimodels.OfferView, error) {
	rec, err := i.store.GetByID(companyID, offerID)
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if rec == nil {
		return contractapimodels.OfferView{}, apperrors.NotFound("contract offer not found")
	}
	if !rec.Status.IsOpen() {
		return contractapimodels.OfferView{}, apperrors.Conflict("only sent offers can be cancelled")
	}
	updated, err := i.store.UpdateStatusIf(offerID, models.ContractOfferStatusSent, models.ContractOfferStatusExpired,
		map[string]interface{}{
			"CancelledBy": actorID,
		})
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if !updated {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer state changed concurrently")
	}
	rec.Status = models.ContractOfferStatusExpired
	rec.CancelledBy = actorID
	return contractapimodels.OfferConvert(*rec), nil
}

func (i impl) Sign(ctx context.Context, offerID, signingToken string, req contractapimodels.SignRequest) (contractapimodels.OfferView, error) {
	rec, err := i.store.GetBySigningToken(offerID, signingToken)
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if rec == nil {
		return contractapimodels.OfferView{}, apperrors.NotFound("contract offer not found")
	}
	if !rec.Status.IsOpen() {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer is no longer open")
	}
	if rec.ExpiresAt != nil && rec.ExpiresAt.Before(time.Now()) {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer has expired")
	}
	path := signedDocumentPath(*rec)
	err = i.storage.Upload(ctx, i.contractsBucket, path, req.SignedDocument, "application/pdf")
	if err != nil {
		return contractapimodels.OfferView{}, apperrors.Wrap(apperrors.KindUpstream, err, "signed document upload failed")
	}
	now := time.Now()
	updated, err := i.store.UpdateStatusIf(offerID, models.ContractOfferStatusSent, models.ContractOfferStatusSigned,
		map[string]interface{}{
			"SignedAt":    now,
			"StoragePath": path,
		})
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if !updated {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer state changed concurrently")
	}
	log.WithField("offer_id", offerID).Info("contract offer signed")
	rec.Status = models.ContractOfferStatusSigned
	rec.SignedAt = &now
	rec.StoragePath = path
	return contractapimodels.OfferConvert(*rec), nil
}

func (i impl) Reject(offerID, signingToken, reason string) (contractapimodels.OfferView, error) {
	rec, err := i.store.GetBySigningToken(offerID, signingToken)
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if rec == nil {
		return contractapimodels.OfferView{}, apperrors.NotFound("contract offer not found")
	}
	if !rec.Status.IsOpen() {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer is no longer open")
	}
	now := time.Now()
	updated, err := i.store.UpdateStatusIf(offerID, models.ContractOfferStatusSent, models.ContractOfferStatusRejected,
		map[string]interface{}{
			"RejectedAt":      now,
			"RejectionReason": reason,
		})
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if !updated {
		return contractapimodels.OfferView{}, apperrors.Conflict("offer state changed concurrently")
	}
	rec.Status = models.ContractOfferStatusRejected
	rec.RejectedAt = &now
	rec.RejectionReason = reason
	return contractapimodels.OfferConvert(*rec), nil
}

func (i impl) GetForSigner(offerID, signingToken string) (contractapimodels.OfferView, error) {
	rec, err := i.store.GetBySigningToken(offerID, signingToken)
	if err != nil {
		return contractapimodels.OfferView{}, err
	}
	if rec == nil {
		return contractapimodels.OfferView{}, apperrors.NotFound("contract offer not found")
	}
	return contractapimodels.OfferConvert(*rec), nil
}

func (i impl) ListByCandidate(companyID, candidateID string) ([]contractapimodels.OfferView, error) {
	list, err := i.store.ListByCandidate(companyID, candidateID)
	if err != nil {
		return nil, err
	}
	result := make([]contractapimodels.OfferView, 0, len(list))
	for _, rec := range list {
		result = append(result, contractapimodels.OfferConvertExt(rec))
	}
	return result, nil
}

func (i impl) GetSignedDocumentURL(ctx context.Context, companyID, offerID string) (contractapimodels.SignedDocumentView, error) {
	rec, err := i.store.GetByID(companyID, offerID)
	if err != nil {
		return contractapimodels.SignedDocumentView{}, err
	}
	if rec == nil {
		return contractapimodels.SignedDocumentView{}, apperrors.NotFound("contract offer not found")
	}
	if rec.Status != models.ContractOfferStatusSigned {
		return contractapimodels.SignedDocumentView{}, apperrors.Conflict("offer is not signed")
	}
	path := rec.StoragePath
	if path == "" {
		path = legacyPathFromURL(rec.LegacySignedURL)
	}
	if path == "" {
		return contractapimodels.SignedDocumentView{}, apperrors.NotFound("signed document location unknown")
	}
	url, err := i.storage.PresignedURL(ctx, i.contractsBucket, path, signedDocumentTTL)
	if err != nil {
		return contractapimodels.SignedDocumentView{}, apperrors.Wrap(apperrors.KindUpstream, err, "document url signing failed")
	}
	return contractapimodels.SignedDocumentView{
		URL:       url,
		ExpiresAt: time.Now().Add(signedDocumentTTL),
	}, nil
}

func offerDocumentPath(rec dbmodels.ContractOffer) string {
	return rec.CompanyID + "/offers/" + rec.ID + ".pdf"
}

func signedDocumentPath(rec dbmodels.ContractOffer) string {
	return rec.CompanyID + "/signed/" + rec.ID + ".pdf"
}

// legacyPathFromURL extracts the object path from a stored public URL by
// locating the bucket-name segment. Only rows created before StoragePath
// existed ever hit this.
func legacyPathFromURL(url string) string {
	if url == "" {
		return ""
	}
	idx := strings.Index(url, legacyPathMarker+"/")
	if idx < 0 {
		return ""
	}
	return url[idx+len(legacyPathMarker)+1:]
}
