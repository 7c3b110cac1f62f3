package order

import (
	"fmt"

	"deliverytracker/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Placed ──> OutForDelivery ──> Delivered
//	   │                             ▲
//	   └─────────────────────────────┘
//
// The direct Placed -> Delivered edge exists because a tracking simulation can
// finish before anything recorded the dispatch.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota

	// Placed is the initial status of a new order.
	Placed

	// OutForDelivery means a courier is on the way.
	OutForDelivery

	// Delivered is final.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Placed:         "Placed",
		OutForDelivery: "Out for Delivery",
		Delivered:      "Delivered",
	}
}

// Validate rejects Unknown and out-of-range values, e.g. corrupt database rows.
func (s Status) Validate() error {
	if s <= Unknown || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the display name used by the API and the tracking stream.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether no further transition is possible.
func (s Status) IsFinal() bool {
	return s == Delivered
}

// Dispatch transitions Placed -> OutForDelivery.
func (s Status) Dispatch() (Status, error) {
	if s != Placed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to dispatch", s.String()),
		)
	}

	return OutForDelivery, nil
}

// Deliver transitions Placed or OutForDelivery -> Delivered.
func (s Status) Deliver() (Status, error) {
	if s != Placed && s != OutForDelivery {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}

	return Delivered, nil
}
