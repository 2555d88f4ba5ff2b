package models

import "time"

// Flag statuses a census record moves through during review.
const (
	FlagNormal                = "normal"
	FlagReview                = "review"
	FlagPriority              = "priority"
	FlagApproved              = "approved"
	FlagVerificationRequested = "verification_requested"
)

// Sources that can raise a review flag.
const (
	FlagSourceNone = ""
	FlagSourceAI   = "AI"
	FlagSourceML   = "ML"
)

// Review actions accepted by the review endpoint.
const (
	ReviewApprove             = "approve"
	ReviewRequestVerification = "request_verification"
)

type CensusRecord struct {
	RecordID    string `json:"record_id" bson:"record_id" yaml:"record_id"`
	HouseholdID string `json:"household_id" bson:"household_id" yaml:"household_id"`
	Name        string `json:"name" bson:"name" yaml:"name"`
	Age         int    `json:"age" bson:"age" yaml:"age"`
	Sex         string `json:"sex" bson:"sex" yaml:"sex"`
	Relation    string `json:"relation" bson:"relation" yaml:"relation"`
	Caste       string `json:"caste" bson:"caste" yaml:"caste"`
	Income      int    `json:"income" bson:"income" yaml:"income"`
	Region      string `json:"region" bson:"region" yaml:"region"`
	District    string `json:"district" bson:"district" yaml:"district"`
	State       string `json:"state" bson:"state" yaml:"state"`
	PinCode     string `json:"pin_code" bson:"pin_code" yaml:"pin_code"`

	FlagStatus string `json:"flag_status" bson:"flag_status" yaml:"flag_status"`
	FlagSource string `json:"flag_source,omitempty" bson:"flag_source,omitempty" yaml:"flag_source,omitempty"`

	Reviewed     bool       `json:"reviewed" bson:"reviewed" yaml:"reviewed"`
	ReviewedBy   string     `json:"reviewed_by,omitempty" bson:"reviewed_by,omitempty" yaml:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty" bson:"reviewed_at,omitempty" yaml:"reviewed_at,omitempty"`
	ReviewAction string     `json:"review_action,omitempty" bson:"review_action,omitempty" yaml:"review_action,omitempty"`

	// Welfare and scheme signals
	WelfareScore            float64 `json:"welfare_score" bson:"welfare_score" yaml:"welfare_score"`
	RationCardType          string  `json:"ration_card_type" bson:"ration_card_type" yaml:"ration_card_type"`
	SchemeEnrollmentCount   int     `json:"scheme_enrollment_count" bson:"scheme_enrollment_count" yaml:"scheme_enrollment_count"`
	SchemeLeakageFlag       bool    `json:"scheme_leakage_flag" bson:"scheme_leakage_flag" yaml:"scheme_leakage_flag"`
	ExclusionErrorRiskScore float64 `json:"exclusion_error_risk_score" bson:"exclusion_error_risk_score" yaml:"exclusion_error_risk_score"`

	// Livelihood
	EmploymentStatus   string `json:"employment_status" bson:"employment_status" yaml:"employment_status"`
	OccupationCategory string `json:"occupation_category" bson:"occupation_category" yaml:"occupation_category"`
	HousingType        string `json:"housing_type" bson:"housing_type" yaml:"housing_type"`

	// Amenities, 1 when present
	WaterSource    int `json:"water_source" bson:"water_source" yaml:"water_source"`
	ToiletAccess   int `json:"toilet_access" bson:"toilet_access" yaml:"toilet_access"`
	CookingFuel    int `json:"cooking_fuel" bson:"cooking_fuel" yaml:"cooking_fuel"`
	InternetAccess int `json:"internet_access" bson:"internet_access" yaml:"internet_access"`

	HouseholdSize int    `json:"household_size" bson:"household_size" yaml:"household_size"`
	ParentID      string `json:"parent_id,omitempty" bson:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	SpouseID      string `json:"spouse_id,omitempty" bson:"spouse_id,omitempty" yaml:"spouse_id,omitempty"`

	AIVerification    *RecordVerification `json:"ai_verification,omitempty" bson:"ai_verification,omitempty" yaml:"ai_verification,omitempty"`
	BlockchainReceipt *RecordReceipt      `json:"blockchain_receipt,omitempty" bson:"blockchain_receipt,omitempty" yaml:"blockchain_receipt,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" yaml:"created_at"`
}

// RecordVerification is the AI verification outcome attached to records that
// came in through the mobile survey app.
type RecordVerification struct {
	IncomeStatus     string `json:"income_status" bson:"income_status" yaml:"income_status"`
	Confidence       int    `json:"confidence" bson:"confidence" yaml:"confidence"`
	ConflictDetected bool   `json:"conflict_detected" bson:"conflict_detected" yaml:"conflict_detected"`
}

type RecordReceipt struct {
	TransactionHash string `json:"transaction_hash" bson:"transaction_hash" yaml:"transaction_hash"`
	Timestamp       string `json:"timestamp" bson:"timestamp" yaml:"timestamp"`
	Status          string `json:"status" bson:"status" yaml:"status"`
}

// ReviewRequest is the body of a record review.
type ReviewRequest struct {
	Action string `json:"action"`
}

func ValidReviewAction(action string) bool {
	return action == ReviewApprove || action == ReviewRequestVerification
}

// FlagAfterReview returns the flag a record carries once a reviewer has acted on it.
func FlagAfterReview(action, current string) string {
	switch action {
	case ReviewApprove:
		return FlagApproved
	case ReviewRequestVerification:
		return FlagVerificationRequested
	}
	return current
}
