package planlimit

import "github.com/stockflow/backend/internal/domain/billing"

// Transport is how an operation was invoked.
type Transport string

// Transport values. Only HTTP operations are checked against plan limits;
// jobs and events bypass the gate.
const (
	TransportHTTP  Transport = "http"
	TransportJob   Transport = "job"
	TransportEvent Transport = "event"
)

// Operation describes a guarded unit of work. An empty Limit means the
// operation carries no plan limit.
type Operation struct {
	Name      string
	Transport Transport
	Limit     billing.LimitType
}

// Annotated reports whether the operation declares a plan limit.
func (o Operation) Annotated() bool {
	return o.Limit != ""
}

// HTTP returns an HTTP operation guarded by limit.
func HTTP(name string, limit billing.LimitType) Operation {
	return Operation{Name: name, Transport: TransportHTTP, Limit: limit}
}
