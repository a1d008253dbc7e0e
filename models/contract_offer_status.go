package models

type ContractOfferStatus string

const (
	ContractOfferStatusSent     ContractOfferStatus = "SENT"
	ContractOfferStatusSigned   ContractOfferStatus = "SIGNED"
	ContractOfferStatusRejected ContractOfferStatus = "REJECTED"
	// ContractOfferStatusExpired covers both time-based expiry and manual
	// cancellation; CancelledBy on the offer row tells them apart.
	ContractOfferStatusExpired ContractOfferStatus = "EXPIRED"
)

var contractOfferStatusHumanName = map[ContractOfferStatus]string{
	ContractOfferStatusSent:     "Sent",
	ContractOfferStatusSigned:   "Signed",
	ContractOfferStatusRejected: "Rejected",
	ContractOfferStatusExpired:  "Expired",
}

func (s ContractOfferStatus) ToHuman() string {
	if human, exist := contractOfferStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// only SENT offers may still change state
func (s ContractOfferStatus) IsOpen() bool {
	return s == ContractOfferStatusSent
}
