package schedule

import (
	"strings"

	"github.com/Adriel2503/agente-reserva/models"
	"go.uber.org/zap"
)

// isBlocked reports whether start falls inside a blocked range on date (YYYY-MM-DD).
// Structured blocks and free-text entries are both checked; entries that cannot be
// parsed are skipped.
func isBlocked(blocked models.BlockedRanges, date string, start TimeOfDay, logger *zap.Logger) bool {
	return blockedByStructured(blocked.Blocks, date, start, logger) ||
		blockedByFreeText(blocked.Entries, date, start, logger)
}

func blockedByStructured(blocks []models.BlockedRange, date string, start TimeOfDay, logger *zap.Logger) bool {
	for _, b := range blocks {
		if b.Date != date {
			continue
		}
		from, err := ParseTimeOfDay(b.Start)
		if err != nil {
			logger.Debug("Skipping blocked range", zap.String("start", b.Start), zap.Error(err))
			continue
		}
		to, err := ParseTimeOfDay(b.End)
		if err != nil {
			logger.Debug("Skipping blocked range", zap.String("end", b.End), zap.Error(err))
			continue
		}
		if (TimeWindow{Start: from, End: to}).Contains(start) {
			return true
		}
	}
	return false
}

// blockedByFreeText is best effort: the entry only has to mention the date somewhere.
func blockedByFreeText(entries []string, date string, start TimeOfDay, logger *zap.Logger) bool {
	for _, entry := range entries {
		if !strings.Contains(entry, date) {
			continue
		}
		rest := strings.TrimSpace(strings.ReplaceAll(entry, date, ""))
		window, err := ParseTimeRange(rest)
		if err != nil {
			logger.Debug("Free-text blocked entry not understood", zap.String("entry", entry), zap.Error(err))
			continue
		}
		if window.Contains(start) {
			return true
		}
	}
	return false
}
