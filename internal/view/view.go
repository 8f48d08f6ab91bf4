// Package view shapes poll results into table rows. It performs no I/O.
package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/iam-dane/check-dayz-server/internal/game"
	"github.com/iam-dane/check-dayz-server/internal/models"
)

var (
	// ServerHeaders are the column titles of the server table.
	ServerHeaders = []string{"Name", "Players", "Ping"}

	// PlayerHeaders are the column titles of the player table.
	PlayerHeaders = []string{"#", "Time"}
)

// ServerRow returns (name, "current/max", "<ms>ms") for a status snapshot.
func ServerRow(status models.ServerStatus) []string {
	return []string{
		status.Name,
		fmt.Sprintf("%d/%d", status.Players, status.MaxPlayers),
		fmt.Sprintf("%dms", status.Latency.Round(time.Millisecond).Milliseconds()),
	}
}

// PlayerRows returns one (ordinal, duration) row per player, keeping the input order.
func PlayerRows(sessions []models.PlayerSession) [][]string {
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(s.Ordinal), 10),
			game.FormatDuration(s.Duration),
		})
	}

	return rows
}
