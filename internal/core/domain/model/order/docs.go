// Package order contains the Order aggregate of the order store.
//
// An order is created Placed for a single product with a positive price.
// Status moves forward only:
//
//	Placed -> OutForDelivery -> Delivered
//	Placed -> Delivered
//
// Delivered is final and Deliver rejects it; callers that may replay a
// delivery check Status first.
package order
