package entities

type CameraStatus string

const (
	CameraOnline      CameraStatus = "online"
	CameraOffline     CameraStatus = "offline"
	CameraMaintenance CameraStatus = "maintenance"
	CameraError       CameraStatus = "error"
)

// Camera is a catalogue entry rendered as a placeholder feed. It is not persisted.
type Camera struct {
	ID           int          `json:"id"`
	Name         string       `json:"name"`
	Location     string       `json:"location"`
	Status       CameraStatus `json:"status"`
	IPAddress    string       `json:"ip_address"`
	IsRecording  bool         `json:"is_recording"`
	BatteryLevel *int         `json:"battery_level,omitempty"`
	LastActivity string       `json:"last_activity"`
}
