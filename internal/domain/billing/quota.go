package billing

import (
	"fmt"
	"strconv"
)

// UnlimitedSentinel is the persisted integer meaning "no limit".
const UnlimitedSentinel = -1

// Quota is either Unlimited or Limited(n) with n >= 0.
// The zero value is Limited(0), which disables creation.
type Quota struct {
	max       int64
	unlimited bool
}

// Unlimited returns a quota without a ceiling.
func Unlimited() Quota {
	return Quota{unlimited: true}
}

// Limited returns a quota allowing at most n resources. Negative n is clamped to 0.
func Limited(n int64) Quota {
	if n < 0 {
		n = 0
	}
	return Quota{max: n}
}

// QuotaFromSentinel converts a persisted quota column into a Quota.
// -1 maps to Unlimited; any other negative value is rejected.
func QuotaFromSentinel(v int) (Quota, error) {
	switch {
	case v == UnlimitedSentinel:
		return Unlimited(), nil
	case v < 0:
		return Quota{}, fmt.Errorf("invalid quota value %d", v)
	default:
		return Limited(int64(v)), nil
	}
}

// Sentinel converts the quota back to its persisted integer form.
func (q Quota) Sentinel() int {
	if q.unlimited {
		return UnlimitedSentinel
	}
	return int(q.max)
}

// IsUnlimited reports whether the quota has no ceiling.
func (q Quota) IsUnlimited() bool {
	return q.unlimited
}

// Max returns the ceiling and false for Unlimited quotas.
func (q Quota) Max() (int64, bool) {
	if q.unlimited {
		return 0, false
	}
	return q.max, true
}

// Allows reports whether one more resource may be created when current
// resources already exist. Creating is blocked once current reaches the ceiling.
func (q Quota) Allows(current int64) bool {
	if q.unlimited {
		return true
	}
	return current < q.max
}

// String returns "unlimited" or the ceiling.
func (q Quota) String() string {
	if q.unlimited {
		return "unlimited"
	}
	return strconv.FormatInt(q.max, 10)
}
