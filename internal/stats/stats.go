// Package stats aggregates finished-game results in memory.
package stats

import (
	"sync"

	"tic_tac_chec/internal/game"
)

// Recorder receives one call per finished game. A nil winner is a draw.
type Recorder interface {
	RecordGameResult(winner *game.Color, perspective game.Color, mode game.Mode, difficulty game.Difficulty)
}

type DifficultyRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// GameStats is the aggregate seen from the perspective player.
type GameStats struct {
	Wins         int                                  `json:"wins"`
	Losses       int                                  `json:"losses"`
	Draws        int                                  `json:"draws"`
	GamesPlayed  int                                  `json:"gamesPlayed"`
	WinStreak    int                                  `json:"winStreak"`
	BestStreak   int                                  `json:"bestStreak"`
	ByDifficulty map[game.Difficulty]DifficultyRecord `json:"byDifficulty"`
}

func emptyStats() GameStats {
	by := make(map[game.Difficulty]DifficultyRecord, len(game.AllDifficulties))
	for _, d := range game.AllDifficulties {
		by[d] = DifficultyRecord{}
	}
	return GameStats{ByDifficulty: by}
}

// Store is a concurrency-safe in-memory Recorder.
type Store struct {
	mu    sync.RWMutex
	stats GameStats
}

func NewStore() *Store {
	return &Store{stats: emptyStats()}
}

// RecordGameResult folds one result into the totals. Per-difficulty records are kept
// only for games against the computer.
func (s *Store) RecordGameResult(winner *game.Color, perspective game.Color, mode game.Mode, difficulty game.Difficulty) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &s.stats
	st.GamesPlayed++
	switch {
	case winner == nil:
		st.Draws++
		st.WinStreak = 0
	case *winner == perspective:
		st.Wins++
		st.WinStreak++
		st.BestStreak = max(st.BestStreak, st.WinStreak)
		if mode == game.ModeAI {
			rec := st.ByDifficulty[difficulty]
			rec.Wins++
			st.ByDifficulty[difficulty] = rec
		}
	default:
		st.Losses++
		st.WinStreak = 0
		if mode == game.ModeAI {
			rec := st.ByDifficulty[difficulty]
			rec.Losses++
			st.ByDifficulty[difficulty] = rec
		}
	}
}

// Snapshot returns a copy of the current totals.
func (s *Store) Snapshot() GameStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.stats
	out.ByDifficulty = make(map[game.Difficulty]DifficultyRecord, len(s.stats.ByDifficulty))
	for d, rec := range s.stats.ByDifficulty {
		out.ByDifficulty[d] = rec
	}
	return out
}

func (s *Store) Reset() {
	s.mu.Lock()
	s.stats = emptyStats()
	s.mu.Unlock()
}
