package models

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "PENDING"
	InviteStatusAccepted InviteStatus = "ACCEPTED"
	InviteStatusRejected InviteStatus = "REJECTED"
)

var inviteStatusHumanName = map[InviteStatus]string{
	InviteStatusPending:  "Pending",
	InviteStatusAccepted: "Accepted",
	InviteStatusRejected: "Rejected",
}

func (s InviteStatus) ToHuman() string {
	if human, exist := inviteStatusHumanName[s]; exist {
		return human
	}
	return string(s)
}

func (s InviteStatus) IsFinal() bool {
	return s != InviteStatusPending
}
