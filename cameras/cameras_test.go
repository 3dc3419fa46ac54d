package cameras

import (
	"testing"

	"security-monitor/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForUser(t *testing.T) {
	tests := []struct {
		username string
		count    int
		firstID  int
	}{
		{"OsmarG", 5, 1},
		{"diogos", 6, 6},
		{"admin", 11, 1},
		{"ana", 2, 16},
		{"", 2, 16},
	}
	for _, tt := range tests {
		cams := ForUser(tt.username)
		require.Len(t, cams, tt.count, tt.username)
		assert.Equal(t, tt.firstID, cams[0].ID, tt.username)
	}
}

func TestForUserReturnsCopies(t *testing.T) {
	a := ForUser("OsmarG")
	a[0].Name = "changed"
	*a[2].BatteryLevel = 99

	b := ForUser("OsmarG")
	assert.Equal(t, "Entrada", b[0].Name)
	assert.Equal(t, 15, *b[2].BatteryLevel)
}

func TestAdminOverviewStatuses(t *testing.T) {
	s := Summary(ForUser("admin"))
	assert.Equal(t, 7, s[entities.CameraOnline])
	assert.Equal(t, 2, s[entities.CameraOffline])
	assert.Equal(t, 1, s[entities.CameraMaintenance])
	assert.Equal(t, 1, s[entities.CameraError])
}

func TestFeedAsset(t *testing.T) {
	assert.Equal(t, "cao_entrada.gif", FeedAsset("Porta_Entrada"))
	assert.Equal(t, "quarto.gif", FeedAsset("Garagem"))
}
