package header

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Plain renders v as aligned label/value rows without styling.
func Plain(v View, line, participantID string) string {
	var rows [][2]string
	if participantID = strings.TrimSpace(participantID); participantID != "" {
		rows = append(rows, [2]string{"participant", participantID})
	}
	rows = append(rows, [][2]string{
		{"phase", string(v.Phase)},
		{HelperIsTestingPhase, strconv.FormatBool(v.TestingPhase)},
		{HelperThisTrial, strconv.Itoa(v.Trial)},
		{HelperNumTrials, strconv.Itoa(v.Total)},
		{"trialsCompleted", strconv.Itoa(v.Snapshot.TrialsCompleted)},
		{"N", strconv.Itoa(v.Snapshot.N)},
	}...)
	if line = strings.TrimSpace(line); line != "" {
		rows = append(rows, [2]string{"header", line})
	}
	labelWidth := 0
	for _, row := range rows {
		if w := runewidth.StringWidth(row[0]); w > labelWidth {
			labelWidth = w
		}
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(runewidth.FillRight(row[0], labelWidth))
		b.WriteString("  ")
		b.WriteString(row[1])
		b.WriteByte('\n')
	}
	return b.String()
}
