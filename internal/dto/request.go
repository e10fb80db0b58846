package dto

// ReservationRequest carries the raw record; fields are checked by the rule
// pipeline, not by the binder.
type ReservationRequest struct {
	Data map[string]any `json:"data"`
}

type StatusRequest struct {
	Data *StatusData `json:"data"`
}

type StatusData struct {
	Status any `json:"status"`
}
