// Package ws is the websocket transport of tracking sessions.
//
// Clients send text frames of the form
//
//	{"event":"track_order","orderId":"<id>"}
//
// and receive
//
//	{"event":"location_update","data":{"orderId":"<id>","location":{"lat":28.61,"lng":77.2},"status":"Out for Delivery","eta":10}}
//
// or {"event":"error","message":"..."} when a frame cannot be served.
package ws

import "deliverytracker/internal/core/domain/model/tracking"

const (
	EventTrackOrder     = "track_order"
	EventLocationUpdate = "location_update"
	EventError          = "error"
)

// ClientMessage is an inbound frame.
type ClientMessage struct {
	Event   string `json:"event"`
	OrderID string `json:"orderId"`
}

// ServerMessage is an outbound frame.
type ServerMessage struct {
	Event   string                 `json:"event"`
	Data    *LocationUpdatePayload `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
}

type LocationUpdatePayload struct {
	OrderID  string `json:"orderId"`
	Location LatLng `json:"location"`
	Status   string `json:"status"`
	ETA      int    `json:"eta"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func locationUpdateMessage(u tracking.Update) ServerMessage {
	return ServerMessage{
		Event: EventLocationUpdate,
		Data: &LocationUpdatePayload{
			OrderID: u.OrderID,
			Location: LatLng{
				Lat: u.Location.Lat(),
				Lng: u.Location.Lng(),
			},
			Status: u.Status.String(),
			ETA:    u.ETA,
		},
	}
}

func errorMessage(msg string) ServerMessage {
	return ServerMessage{Event: EventError, Message: msg}
}
