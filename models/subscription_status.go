package models

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing SubscriptionStatus = "TRIALING"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue  SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCanceled SubscriptionStatus = "CANCELED"
	SubscriptionStatusExpired  SubscriptionStatus = "EXPIRED"
)

var subscriptionStatusHumanName = map[SubscriptionStatus]string{
	SubscriptionStatusTrialing: "Trial",
	SubscriptionStatusActive:   "Active",
	SubscriptionStatusPastDue:  "Payment overdue",
	SubscriptionStatusCanceled: "Canceled",
	SubscriptionStatusExpired:  "Expired",
}

func (s SubscriptionStatus) ToHuman() string {
	if human, exist := subscriptionStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

// Transitions are monotonic except PAST_DUE -> ACTIVE (successful retry)
// and ACTIVE -> CANCELED (explicit cancellation). EXPIRED is terminal.
var subscriptionNextStatuses = map[SubscriptionStatus][]SubscriptionStatus{
	SubscriptionStatusTrialing: {SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCanceled, SubscriptionStatusExpired},
	SubscriptionStatusActive:   {SubscriptionStatusPastDue, SubscriptionStatusCanceled, SubscriptionStatusExpired},
	SubscriptionStatusPastDue:  {SubscriptionStatusActive, SubscriptionStatusCanceled, SubscriptionStatusExpired},
	SubscriptionStatusCanceled: {SubscriptionStatusExpired},
}

func (s SubscriptionStatus) IsAllowedNext(next SubscriptionStatus) bool {
	for _, allowed := range subscriptionNextStatuses[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s SubscriptionStatus) IsBillable() bool {
	return s == SubscriptionStatusTrialing || s == SubscriptionStatusActive || s == SubscriptionStatusPastDue
}
