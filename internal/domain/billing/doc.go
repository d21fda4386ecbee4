// Package billing provides the subscription-plan domain of StockFlow.
//
// It owns the closed set of counted resource kinds (LimitType), the quota
// value type (Quota) and the plan catalog that fixes each tier's quotas.
//
// Quotas are persisted as integers where -1 means unlimited. That sentinel is
// converted to a Quota at the persistence boundary with QuotaFromSentinel and
// never compared against counts anywhere else.
package billing
