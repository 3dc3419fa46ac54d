// Package cameras holds the fixed camera catalogue shown to each account.
// Feeds are placeholders; nothing here talks to real devices.
package cameras

import (
	"strings"

	"security-monitor/entities"
)

func battery(level int) *int { return &level }

func cam(id int, name, location string, status entities.CameraStatus, ip string, recording bool, batteryLevel *int, last string) entities.Camera {
	return entities.Camera{
		ID:           id,
		Name:         name,
		Location:     location,
		Status:       status,
		IPAddress:    ip,
		IsRecording:  recording,
		BatteryLevel: batteryLevel,
		LastActivity: last,
	}
}

func residential() []entities.Camera {
	return []entities.Camera{
		cam(1, "Entrada", "Porta_Entrada", entities.CameraOnline, "192.168.1.101", true, nil, "10:30"),
		cam(2, "Sala", "Sala", entities.CameraOnline, "192.168.1.102", false, nil, "09:45"),
		cam(3, "Quarto", "Quarto", entities.CameraOnline, "192.168.1.103", false, battery(15), "08:45"),
		cam(4, "Cozinha", "Cozinha", entities.CameraOffline, "192.168.1.104", false, nil, "07:20"),
		cam(5, "Quintal", "Quintal", entities.CameraOnline, "192.168.1.105", true, battery(85), "07:15"),
	}
}

func commercial() []entities.Camera {
	return []entities.Camera{
		cam(6, "Receção", "Rececao", entities.CameraOnline, "192.168.2.101", true, nil, "11:20"),
		cam(7, "Estacionamento", "Estacionamento_Carros", entities.CameraOnline, "192.168.2.102", true, nil, "10:15"),
		cam(8, "Armazém", "Armazem", entities.CameraMaintenance, "192.168.2.103", false, battery(45), "09:30"),
		cam(9, "Porta Principal", "Porta_Principal", entities.CameraOnline, "192.168.2.104", true, nil, "08:45"),
		cam(10, "Sala Reuniões", "Sala_Reunioes", entities.CameraOnline, "192.168.2.105", false, battery(78), "07:50"),
		cam(11, "Pátio Exterior", "Patio_Exterior", entities.CameraOffline, "192.168.2.106", false, nil, "06:30"),
	}
}

// the admin sees a residential site in its own state next to the commercial one
func overview() []entities.Camera {
	home := []entities.Camera{
		cam(1, "Entrada", "Porta_Entrada", entities.CameraOnline, "192.168.1.102", false, nil, "09:45"),
		cam(2, "Sala", "Sala", entities.CameraOnline, "192.168.1.103", false, battery(15), "08:45"),
		cam(3, "Quarto", "Quarto", entities.CameraOffline, "192.168.1.104", false, battery(12), "07:20"),
		cam(4, "Cozinha", "Cozinha", entities.CameraError, "192.168.1.105", false, nil, "06:45"),
		cam(5, "Quintal", "Quintal", entities.CameraOnline, "192.168.1.106", true, battery(85), "06:30"),
	}
	return append(home, commercial()...)
}

func fallback() []entities.Camera {
	return []entities.Camera{
		cam(16, "Genérica 01", "Sala", entities.CameraOnline, "192.168.9.101", false, nil, "10:00"),
		cam(17, "Genérica 02", "Porta_Entrada", entities.CameraOnline, "192.168.9.102", false, battery(50), "09:30"),
	}
}

// ForUser returns a fresh copy of the cameras assigned to username.
func ForUser(username string) []entities.Camera {
	switch strings.ToLower(username) {
	case "osmarg":
		return residential()
	case "diogos":
		return commercial()
	case "admin":
		return overview()
	default:
		return fallback()
	}
}

var feeds = map[string]string{
	"Sala":                  "sala.gif",
	"Quarto":                "quarto.gif",
	"Estacionamento":        "estacionamento.gif",
	"Cozinha":               "cozinha.gif",
	"Quintal":               "quintal.gif",
	"Porta_Entrada":         "cao_entrada.gif",
	"Rececao":               "rececao.gif",
	"Armazem":               "armazem.gif",
	"Sala_Reunioes":         "sala_reunioes.gif",
	"Patio_Exterior":        "patio_exterior.gif",
	"Estacionamento_Carros": "carros_estacionamento.gif",
	"Porta_Principal":       "porta_principal.gif",
}

// FeedAsset names the looping placeholder clip for a camera location.
func FeedAsset(location string) string {
	if f, ok := feeds[location]; ok {
		return f
	}
	return "quarto.gif"
}

// Summary counts cameras per status.
func Summary(cams []entities.Camera) map[entities.CameraStatus]int {
	out := make(map[entities.CameraStatus]int)
	for _, c := range cams {
		out[c.Status]++
	}
	return out
}
