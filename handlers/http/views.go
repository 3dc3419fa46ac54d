package httpHandler

import (
	"security-monitor/cameras"
	"security-monitor/entities"
)

type NotificationView struct {
	entities.Notification
	Title    string            `json:"title"`
	Severity entities.Severity `json:"severity"`
}

// NewNotificationViews decorates notifications with their display title and severity.
func NewNotificationViews(ns []entities.Notification) []NotificationView {
	out := make([]NotificationView, len(ns))
	for i := range ns {
		out[i] = NotificationView{Notification: ns[i], Title: ns[i].Title(), Severity: ns[i].Severity()}
	}
	return out
}

type CameraView struct {
	entities.Camera
	Feed string `json:"feed"`
}

func newCameraViews(cams []entities.Camera) []CameraView {
	out := make([]CameraView, len(cams))
	for i, c := range cams {
		out[i] = CameraView{Camera: c, Feed: cameras.FeedAsset(c.Location)}
	}
	return out
}

type HouseView struct {
	entities.House
	Value string `json:"value"`
}

func newHouseViews(hs []entities.House) []HouseView {
	out := make([]HouseView, len(hs))
	for i := range hs {
		out[i] = HouseView{House: hs[i], Value: hs[i].FormattedValue()}
	}
	return out
}
