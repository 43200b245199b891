package ads

import (
	"time"

	"github.com/google/uuid"
)

type ReportReason string

const (
	ReasonSpam           ReportReason = "SPAM"
	ReasonInappropriate  ReportReason = "INAPPROPRIATE_CONTENT"
	ReasonMisinformation ReportReason = "MISINFORMATION"
	ReasonOther          ReportReason = "OTHER"
)

// Report is a moderation report filed against an ad. ReportedBy is nil for
// anonymous reports (the reporting user may have deleted their account).
type Report struct {
	ID           uuid.UUID
	AdID         uuid.UUID
	ReportedBy   *string
	Reason       ReportReason
	OtherDetails string
	ReportedAt   time.Time
}

// ValidReason reports whether the given reason is one of the accepted codes.
func ValidReason(r ReportReason) bool {
	switch r {
	case ReasonSpam, ReasonInappropriate, ReasonMisinformation, ReasonOther:
		return true
	}
	return false
}
