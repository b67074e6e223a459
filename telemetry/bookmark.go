package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkKillStreak     BookmarkType = "kill_streak"
	BookmarkIterationSpike BookmarkType = "iteration_spike"
	BookmarkCollisionStall BookmarkType = "collision_stall"
	BookmarkPlayerCritical BookmarkType = "player_critical"
	BookmarkAreaCleared    BookmarkType = "area_cleared"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"run_id", b.RunID,
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	criticalHealth float64

	// State tracking
	prev    WindowStats
	hasPrev bool
}

// NewBookmarkDetector creates a detector with the given history size.
// criticalHealth is the player health below which a player_critical
// bookmark fires.
func NewBookmarkDetector(historySize int, criticalHealth float64) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:        make([]WindowStats, historySize),
		historySize:    historySize,
		criticalHealth: criticalHealth,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark
	for _, check := range []func(WindowStats) *Bookmark{
		bd.checkKillStreak,
		bd.checkIterationSpike,
		bd.checkCollisionStall,
		bd.checkPlayerCritical,
		bd.checkAreaCleared,
	} {
		if b := check(stats); b != nil {
			b.RunID = stats.RunID
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)
	bd.prev, bd.hasPrev = stats, true
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkKillStreak fires when a window's kills are more than twice the
// rolling average.
func (bd *BookmarkDetector) checkKillStreak(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.MonsterDeaths < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.MonsterDeaths
	}
	avg := float64(total) / float64(len(history))
	if float64(stats.MonsterDeaths) <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkKillStreak,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d kills against a %.1f average", stats.MonsterDeaths, avg),
	}
}

// checkIterationSpike fires when the mean resolver passes per move double.
func (bd *BookmarkDetector) checkIterationSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.MaxIterations < 32 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.MeanIterations
	}
	avg := total / float64(len(history))
	if avg == 0 || stats.MeanIterations <= avg*2 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkIterationSpike,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Mean resolver passes %.1f is %.1fx average (max %d)", stats.MeanIterations, stats.MeanIterations/avg, stats.MaxIterations),
	}
}

// checkCollisionStall fires on the first window that hits the iteration cap
// after a window that did not.
func (bd *BookmarkDetector) checkCollisionStall(stats WindowStats) *Bookmark {
	if stats.CapHits == 0 || (bd.hasPrev && bd.prev.CapHits > 0) {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkCollisionStall,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Collision resolver hit its iteration cap %d times", stats.CapHits),
	}
}

// checkPlayerCritical fires when player health drops below the threshold.
func (bd *BookmarkDetector) checkPlayerCritical(stats WindowStats) *Bookmark {
	if stats.PlayerHealth <= 0 || stats.PlayerHealth >= bd.criticalHealth {
		return nil
	}
	if bd.hasPrev && bd.prev.PlayerHealth < bd.criticalHealth {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPlayerCritical,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Player health down to %.0f", stats.PlayerHealth),
	}
}

// checkAreaCleared fires when the last monster is gone.
func (bd *BookmarkDetector) checkAreaCleared(stats WindowStats) *Bookmark {
	if stats.Monsters != 0 || !bd.hasPrev || bd.prev.Monsters == 0 {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkAreaCleared,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All monsters down after %.1fs", stats.SimTimeSec),
	}
}
