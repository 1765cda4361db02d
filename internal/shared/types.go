package shared

// =====================================================
// ASYNQ TASK TYPES
// =====================================================
const (
	TypeRatingRecompute   = "rating:recompute"
	TypeRatingRepair      = "rating:repair"
	TypeOrderAutoComplete = "order:auto_complete"
)

// =====================================================
// ASYNQ QUEUES
// =====================================================
const (
	QueueRating = "rating"
	QueueOrder  = "order"
)

// RatingRecomputePayload carries the scope of a rating recompute task.
// GigID and SellerID are string UUIDs; either may be empty when only
// the other aggregate needs repair.
type RatingRecomputePayload struct {
	GigID    string `json:"gig_id,omitempty"`
	SellerID string `json:"seller_id,omitempty"`
}

// OrderAutoCompletePayload is the payload of the periodic auto-complete sweep
type OrderAutoCompletePayload struct {
	Limit int `json:"limit"`
}

// RatingRepairPayload is the payload of the periodic rating repair sweep
type RatingRepairPayload struct {
	WindowHours int `json:"window_hours"`
	Limit       int `json:"limit"`
}
