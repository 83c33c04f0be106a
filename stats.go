/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"math"
	"sort"
	"sync"
	"time"
)

// StatsSink receives game outcome events from rooms. Calls are
// fire-and-forget: a slow or full sink must never block round
// progression.
type StatsSink interface {
	RecordWord(player, word, category string, responseTime float64)
	RecordOutcome(player string, won bool)
	Snapshot(player string) PlayerStats
}

type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type PlayerStats struct {
	GamesPlayed       int         `json:"gamesPlayed"`
	GamesWon          int         `json:"gamesWon"`
	WinRate           float64     `json:"winRate"`
	TotalCorrectWords int         `json:"totalCorrectWords"`
	AvgResponseTime   float64     `json:"avgResponseTime"`
	LongestWinStreak  int         `json:"longestWinStreak"`
	CurrentWinStreak  int         `json:"currentWinStreak"`
	FavoriteCategory  string      `json:"favoriteCategory"`
	LastPlayed        time.Time   `json:"lastPlayed"`
	MostUsedWords     []WordCount `json:"mostUsedWords"`
}

type statEvent struct {
	player       string
	word         string
	category     string
	responseTime float64
	outcome      bool
	won          bool
}

// StatsRecorder aggregates per-player statistics in memory, applying
// events on a worker goroutine so rooms never wait on it.
type StatsRecorder struct {
	cfg    *Config
	events chan statEvent

	mu      sync.RWMutex
	players map[string]*PlayerStats
}

func newStatsRecorder(cfg *Config) *StatsRecorder {
	s := &StatsRecorder{
		cfg:     cfg,
		events:  make(chan statEvent, 256),
		players: make(map[string]*PlayerStats),
	}
	go s.run()

	return s
}

func (s *StatsRecorder) run() {
	for ev := range s.events {
		if ev.outcome {
			s.applyOutcome(ev)
		} else {
			s.applyWord(ev)
		}
	}
}

func (s *StatsRecorder) RecordWord(player, word, category string, responseTime float64) {
	select {
	case s.events <- statEvent{player: player, word: word, category: category, responseTime: responseTime}:
	default:
		logf(s.cfg, "STATS: Dropped word event for %q (queue full)", player)
	}
}

func (s *StatsRecorder) RecordOutcome(player string, won bool) {
	select {
	case s.events <- statEvent{player: player, outcome: true, won: won}:
	default:
		logf(s.cfg, "STATS: Dropped outcome event for %q (queue full)", player)
	}
}

// Snapshot returns a copy of the named player's statistics, zero-valued
// for players that have never recorded an event.
func (s *StatsRecorder) Snapshot(player string) PlayerStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats, ok := s.players[player]
	if !ok {
		return PlayerStats{FavoriteCategory: "Henüz yok"}
	}

	out := *stats
	out.MostUsedWords = append([]WordCount(nil), stats.MostUsedWords...)

	return out
}

func (s *StatsRecorder) get(player string) *PlayerStats {
	stats, ok := s.players[player]
	if !ok {
		stats = &PlayerStats{FavoriteCategory: "Henüz yok"}
		s.players[player] = stats
	}

	return stats
}

func (s *StatsRecorder) applyWord(ev statEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.get(ev.player)
	stats.TotalCorrectWords++
	stats.AvgResponseTime = ((stats.AvgResponseTime * float64(stats.TotalCorrectWords-1)) + ev.responseTime) / float64(stats.TotalCorrectWords)
	if stats.FavoriteCategory == "" || stats.FavoriteCategory == "Henüz yok" {
		stats.FavoriteCategory = ev.category
	}
	stats.LastPlayed = time.Now()

	found := false
	for i := range stats.MostUsedWords {
		if stats.MostUsedWords[i].Word == ev.word {
			stats.MostUsedWords[i].Count++
			found = true
			break
		}
	}
	if !found {
		stats.MostUsedWords = append(stats.MostUsedWords, WordCount{Word: ev.word, Count: 1})
	}

	sort.SliceStable(stats.MostUsedWords, func(i, j int) bool {
		return stats.MostUsedWords[i].Count > stats.MostUsedWords[j].Count
	})
	if len(stats.MostUsedWords) > 10 {
		stats.MostUsedWords = stats.MostUsedWords[:10]
	}
}

func (s *StatsRecorder) applyOutcome(ev statEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.get(ev.player)
	stats.GamesPlayed++
	if ev.won {
		stats.GamesWon++
		stats.CurrentWinStreak++
		if stats.CurrentWinStreak > stats.LongestWinStreak {
			stats.LongestWinStreak = stats.CurrentWinStreak
		}
	} else {
		stats.CurrentWinStreak = 0
	}
	stats.WinRate = math.Round(float64(stats.GamesWon)/float64(stats.GamesPlayed)*10000) / 100
	stats.LastPlayed = time.Now()
}
