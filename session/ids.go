package session

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const merchantIDPrefix = "mch_"

// Merchant references in free text. Digits only in the capture group so
// phrases like "merchant Main Street" never match. Checked in order; the
// first pattern that matches wins.
var merchantIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)mch_(\d+)`),
	regexp.MustCompile(`(?i)merchant\s+id\s+(\d+)`),
	regexp.MustCompile(`(?i)merchant\s+(\d+)`),
	regexp.MustCompile(`(?i)\bm(\d+)`),
}

// NormalizeMerchantID prefixes a raw merchant identifier with mch_ unless
// it already carries the prefix. Idempotent.
func NormalizeMerchantID(merchantID string) string {
	if strings.HasPrefix(merchantID, merchantIDPrefix) {
		return merchantID
	}
	return merchantIDPrefix + merchantID
}

// ExtractMerchantID scans free text for a merchant reference and returns
// the first normalized match. Best effort: ok is false when no pattern
// matches.
func ExtractMerchantID(text string) (id string, ok bool) {
	for _, pattern := range merchantIDPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return merchantIDPrefix + m[1], true
		}
	}
	return "", false
}

// ValidateMerchantMatch reports whether a candidate identifier refers to
// the merchant bound to this session. The candidate is normalized before
// comparison. Advisory only: mutators trust the merchant bound at
// construction, so callers decide whether a mismatch warns or rejects.
func (s State) ValidateMerchantMatch(candidateID string) bool {
	return NormalizeMerchantID(candidateID) == s.MerchantID
}

// NewThreadID derives the external correlation key for a session:
// merchant_<merchant_id>_<YYYYMMDD_HHMMSS>. The checkpoint store and the
// tracing sink key all activity for the session on this identifier.
func NewThreadID(merchantID string, t time.Time) string {
	return fmt.Sprintf("merchant_%s_%s", merchantID, t.UTC().Format("20060102_150405"))
}
