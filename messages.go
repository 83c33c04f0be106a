/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

// Messages coming from clients
type ClientMessage struct {
	Type         string        `json:"type"`                    // see the switch in readPump
	Name         string        `json:"name,omitempty"`          // createRoom / joinRoom
	RoomID       string        `json:"room_id,omitempty"`       // joinRoom
	Avatar       int           `json:"avatar,omitempty"`        // createRoom / joinRoom / changeAvatar
	ScoreGoal    int           `json:"score_goal,omitempty"`    // gameSettingsChanged
	TurnDuration int           `json:"turn_duration,omitempty"` // gameSettingsChanged
	Word         string        `json:"word,omitempty"`          // submitWord
	Accept       *bool         `json:"accept,omitempty"`        // hostDecision
	WordInfo     *DisputedWord `json:"word_info,omitempty"`     // hostDecision
	PlayerName   string        `json:"player_name,omitempty"`   // requestPlayerStats
}

// DisputedWord identifies a rejected submission awaiting the host's
// accept/reject decision.
type DisputedWord struct {
	Word     string `json:"word"`
	Category string `json:"category"`
	Letter   string `json:"letter"`
}

// PlayerInfo is the client-visible view of a roster entry.
type PlayerInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Number    int    `json:"player_number"`
	Avatar    int    `json:"avatar"`
	Spectator bool   `json:"is_spectator,omitempty"`
}

type GameSettings struct {
	ScoreGoal    int `json:"score_goal"`
	TurnDuration int `json:"turn_duration"`
}

// Messages sent to clients

type RoomCreatedMessage struct {
	Type          string     `json:"type"` // "roomCreated"
	RoomID        string     `json:"room_id"`
	PlayerDetails PlayerInfo `json:"player_details"`
}

type JoinedMessage struct {
	Type          string     `json:"type"` // "joined"
	RoomID        string     `json:"room_id"`
	PlayerDetails PlayerInfo `json:"player_details"`
}

type ErrorMessage struct {
	Type    string `json:"type"` // "errorNotification"
	Message string `json:"message"`
}

type LobbyUpdateMessage struct {
	Type           string       `json:"type"` // "lobbyUpdate"
	Players        []PlayerInfo `json:"players"`
	HostID         string       `json:"host_id"`
	Settings       GameSettings `json:"settings"`
	GameInProgress bool         `json:"game_in_progress"`
}

type ScoreUpdateMessage struct {
	Type       string         `json:"type"` // "scoreUpdate"
	Scores     map[string]int `json:"scores"`
	IsGameOver bool           `json:"is_game_over"`
}

// SpectatorModeMessage is sent to a player who joins mid-game; they see
// the round but cannot submit until the next one.
type SpectatorModeMessage struct {
	Type      string   `json:"type"` // "spectatorMode"
	Letter    string   `json:"letter"`
	Category  string   `json:"category"`
	UsedWords []string `json:"used_words"`
}

type ReconnectedMessage struct {
	Type        string   `json:"type"` // "gameReconnected"
	Letter      string   `json:"letter"`
	Category    string   `json:"category"`
	UsedWords   []string `json:"used_words"`
	IsSpectator bool     `json:"is_spectator"`
}

type UsedWordsMessage struct {
	Type      string   `json:"type"` // "usedWordsUpdate"
	UsedWords []string `json:"used_words"`
}

type DiceRollingMessage struct {
	Type               string `json:"type"` // "diceRolling"
	FinalLetterIndex   int    `json:"final_letter_index"`
	FinalCategoryIndex int    `json:"final_category_index"`
	Letter             string `json:"letter"`
	Category           string `json:"category"`
}

type RoundStartedMessage struct {
	Type string `json:"type"` // "roundStarted"
}

type TurnUpdateMessage struct {
	Type         string     `json:"type"` // "turnUpdate"
	Player       PlayerInfo `json:"player"`
	TimeLeft     int        `json:"time_left"`
	ActiveCount  int        `json:"active_players_count"`
	Letter       string     `json:"letter"`
	Category     string     `json:"category"`
}

type CountdownMessage struct {
	Type     string `json:"type"` // "countdownTick"
	TimeLeft int    `json:"time_left"`
}

type WordAcceptedMessage struct {
	Type         string `json:"type"` // "wordAccepted"
	PlayerNumber int    `json:"player_number"`
	Player       string `json:"player"`
	Word         string `json:"word"`
}

type PlayerEliminatedMessage struct {
	Type      string `json:"type"` // "playerEliminated"
	LoserID   string `json:"loser_id"`
	LoserName string `json:"loser_name"`
	Reason    string `json:"reason"`
	Word      string `json:"word,omitempty"`
}

// HostDecisionRequestMessage is sent only to the host when a rejected
// word can be retroactively accepted into the dictionary.
type HostDecisionRequestMessage struct {
	Type     string `json:"type"` // "hostDecisionRequested"
	Word     string `json:"word"`
	Category string `json:"category"`
	Letter   string `json:"letter"`
}

type HostDecisionTimeoutMessage struct {
	Type string `json:"type"` // "hostDecisionTimedOut"
	Word string `json:"word"`
}

type DictionaryUpdateMessage struct {
	Type    string `json:"type"` // "dbUpdateResult"
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RoundOverMessage struct {
	Type   string `json:"type"` // "roundOver"
	Reason string `json:"reason"`
	Winner string `json:"winner,omitempty"`
}

// RoundEndedMessage signals a round finished without anyone reaching the
// score goal; the room is back in the lobby awaiting the next start.
type RoundEndedMessage struct {
	Type string `json:"type"` // "roundEnded"
}

type FinalWinnerMessage struct {
	Type   string         `json:"type"` // "finalWinner"
	Winner string         `json:"winner"`
	Scores map[string]int `json:"scores"`
}

type PlayerStatsMessage struct {
	Type       string      `json:"type"` // "playerStatsUpdate"
	PlayerName string      `json:"player_name"`
	Stats      PlayerStats `json:"stats"`
}
