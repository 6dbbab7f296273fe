package models

import "time"

const (
	NotificationsTopic = "settlement.notifications"
	SettlementDLQTopic = "settlement.dlq"
)

type NotificationKind string

const (
	NotifyPurchaseConfirmed NotificationKind = "purchase_confirmed"
	NotifyPurchaseDeclined  NotificationKind = "purchase_declined"
	NotifyVoucherRedeemed   NotificationKind = "voucher_redeemed"
	NotifyVoucherNoShow     NotificationKind = "voucher_no_show"
	NotifySponsorLowBalance NotificationKind = "sponsor_low_balance"
)

// NotificationRequested asks the notifier to send a message. Delivery is the
// notifier's concern; settlement never waits on it.
type NotificationRequested struct {
	Kind        NotificationKind  `json:"kind"`
	RecipientID string            `json:"recipient_id"`
	Data        map[string]string `json:"data,omitempty"`
	RequestedAt time.Time         `json:"requested_at"`
}

type DLQMessage struct {
	OriginalTopic string    `json:"original_topic"`
	Key           string    `json:"key"`
	Value         string    `json:"value"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Attempts      int       `json:"attempts"`
}

// MessageKey orders a recipient's notifications on one partition.
func (n NotificationRequested) MessageKey() string { return n.RecipientID }

func (m DLQMessage) MessageKey() string { return m.Key }
