package models

import "time"

// Survey is a citizen survey as submitted by the mobile census app. Field
// names follow the app's wire format.
type Survey struct {
	ID                string            `json:"id" bson:"id"`
	Name              string            `json:"name" bson:"name"`
	Age               string            `json:"age" bson:"age"`
	Sex               string            `json:"sex" bson:"sex"`
	Caste             string            `json:"caste" bson:"caste"`
	Income            string            `json:"income" bson:"income"`
	VoiceNote         *string           `json:"voiceNote,omitempty" bson:"voiceNote,omitempty"`
	PhotoBase64       *string           `json:"photoBase64,omitempty" bson:"photoBase64,omitempty"`
	AIVerification    AIVerification    `json:"aiVerification" bson:"aiVerification"`
	BlockchainReceipt BlockchainReceipt `json:"blockchainReceipt" bson:"blockchainReceipt"`
	CreatedAt         string            `json:"createdAt" bson:"createdAt"`
	Synced            bool              `json:"synced" bson:"synced"`
	SyncedAt          time.Time         `json:"syncedAt" bson:"syncedAt"`

	// Set by the review portal, never by the app.
	Reviewed     bool       `json:"reviewed,omitempty" bson:"reviewed,omitempty"`
	ReviewedBy   string     `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty"`
	ReviewAction string     `json:"review_action,omitempty" bson:"review_action,omitempty"`
}

type AIVerification struct {
	IncomeStatus     string `json:"incomeStatus" bson:"incomeStatus"`
	Confidence       int    `json:"confidence" bson:"confidence"`
	ConflictDetected bool   `json:"conflictDetected" bson:"conflictDetected"`
}

type BlockchainReceipt struct {
	TransactionHash string `json:"transactionHash" bson:"transactionHash"`
	Timestamp       string `json:"timestamp" bson:"timestamp"`
	Status          string `json:"status" bson:"status"` // Anchored or Pending
}
