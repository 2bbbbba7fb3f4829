package replay

import "fmt"

// TapeError reports a malformed tape. Seq is the entry sequence
// nearest the offending record.
type TapeError struct {
	Seq     int    `json:"seq"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Reasons for TapeError.
const (
	ReasonBadJSON            = "bad_json"
	ReasonMissingHeader      = "missing_header"
	ReasonVersionUnsupported = "version_unsupported"
	ReasonUnknownRecord      = "unknown_record"
	ReasonMissingBody        = "missing_body"
	ReasonDuplicateHeader    = "duplicate_header"
	ReasonSeqGap             = "seq_gap"
	ReasonBadDirection       = "bad_direction"
	ReasonRecordAfterFooter  = "record_after_footer"
)

func (e *TapeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("tape error(seq=%d reason=%s): %s", e.Seq, e.Reason, e.Message)
}

func tapeErrf(seq int, reason, format string, args ...interface{}) *TapeError {
	return &TapeError{Seq: seq, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
