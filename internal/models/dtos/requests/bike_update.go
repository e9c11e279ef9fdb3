package requests

// ToggleBikeRequest mirrors the bike form: the id, the status the form was
// rendered with, and the rider's name when checking a bike out.
type ToggleBikeRequest struct {
	BikeID        string `json:"bikeId"`
	CurrentStatus string `json:"currentStatus"`
	UserName      string `json:"userName"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
	User   string `json:"user"`
}
