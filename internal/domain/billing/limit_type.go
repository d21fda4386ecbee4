package billing

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LimitType identifies a counted tenant resource guarded by a plan quota.
type LimitType string

const (
	LimitUsers      LimitType = "users"
	LimitProducts   LimitType = "products"
	LimitInvoices   LimitType = "invoices"
	LimitWarehouses LimitType = "warehouses"
)

// Window is the period over which resources are counted against a quota.
type Window int

const (
	// WindowLifetime counts every resource the tenant owns.
	WindowLifetime Window = iota
	// WindowCalendarMonth counts resources created since the first instant
	// of the current calendar month.
	WindowCalendarMonth
)

// Since returns the lower bound of the window at now, in loc.
// The zero time is returned for WindowLifetime.
func (w Window) Since(now time.Time, loc *time.Location) time.Time {
	switch w {
	case WindowCalendarMonth:
		return StartOfMonth(now, loc)
	default:
		return time.Time{}
	}
}

// StartOfMonth returns midnight of the first day of now's month in loc.
func StartOfMonth(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}

// limitDefinition binds a LimitType to its display name and counting window.
type limitDefinition struct {
	displayName string
	window      Window
}

var limitDefinitions = map[LimitType]limitDefinition{
	LimitUsers:      {displayName: title(LimitUsers), window: WindowLifetime},
	LimitProducts:   {displayName: title(LimitProducts), window: WindowLifetime},
	LimitInvoices:   {displayName: title(LimitInvoices), window: WindowCalendarMonth},
	LimitWarehouses: {displayName: title(LimitWarehouses), window: WindowLifetime},
}

// title capitalizes a limit type. Casers are stateful, so each call gets its own.
func title(l LimitType) string {
	return cases.Title(language.English).String(string(l))
}

// AllLimitTypes returns every LimitType in a stable order.
func AllLimitTypes() []LimitType {
	return []LimitType{LimitUsers, LimitProducts, LimitInvoices, LimitWarehouses}
}

// String returns the string representation of LimitType
func (l LimitType) String() string {
	return string(l)
}

// IsValid returns true if the limit type is one of the known kinds
func (l LimitType) IsValid() bool {
	_, ok := limitDefinitions[l]
	return ok
}

// DisplayName returns the capitalized resource name used in user-facing messages.
func (l LimitType) DisplayName() string {
	if def, ok := limitDefinitions[l]; ok {
		return def.displayName
	}
	return title(l)
}

// Window returns the counting window of the limit type.
func (l LimitType) Window() Window {
	return limitDefinitions[l].window
}

// ParseLimitType converts a string to a LimitType
func ParseLimitType(s string) (LimitType, error) {
	l := LimitType(s)
	if !l.IsValid() {
		return "", fmt.Errorf("unknown limit type %q", s)
	}
	return l, nil
}
