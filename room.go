/*
Copyright © 2026 gsahin96 <gsahin96@gmail.com>
*/

package main

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"sync/atomic"
	"time"
)

const (
	maxPlayersPerRoom = 8
	minPlayersToStart = 1
	maxAvatarID       = 16

	defaultScoreGoal    = 10
	defaultTurnDuration = 5
)

const (
	reasonWrongWord = "Yanlış veya tekrar edilmiş kelime"
	reasonTimeout   = "Süre doldu"
	reasonRoundOver = "Tur bitti"
	reasonNoPlayers = "Oyuncu kalmadı"
)

type roomPhase int

const (
	phaseLobby roomPhase = iota
	phaseDiceRolling
	phaseRoundActive
	phaseAwaitingHostDecision
	phaseRoundOver
	phaseGameOver
)

func (p roomPhase) String() string {
	switch p {
	case phaseLobby:
		return "lobby"
	case phaseDiceRolling:
		return "dice_rolling"
	case phaseRoundActive:
		return "round_active"
	case phaseAwaitingHostDecision:
		return "awaiting_host_decision"
	case phaseRoundOver:
		return "round_over"
	case phaseGameOver:
		return "game_over"
	}
	return "unknown"
}

// pacing holds the presentation delays between state transitions.
// Tests shrink these; gameplay uses defaultPacing.
type pacing struct {
	diceReveal       time.Duration
	acceptedPause    time.Duration
	eliminationPause time.Duration
	decisionWindow   time.Duration
	decisionPause    time.Duration
	roundOverPause   time.Duration
}

var defaultPacing = pacing{
	diceReveal:       3 * time.Second,
	acceptedPause:    700 * time.Millisecond,
	eliminationPause: 2500 * time.Millisecond,
	decisionWindow:   10 * time.Second,
	decisionPause:    time.Second,
	roundOverPause:   3 * time.Second,
}

type gamePlayer struct {
	ID        string
	Name      string
	Number    int
	Avatar    int
	Spectator bool
}

func (p *gamePlayer) info() PlayerInfo {
	return PlayerInfo{
		ID:        p.ID,
		Name:      p.Name,
		Number:    p.Number,
		Avatar:    p.Avatar,
		Spectator: p.Spectator,
	}
}

type joinRequest struct {
	client  *client
	name    string
	avatar  int
	created bool
}

type clientEvent struct {
	client *client
	msg    ClientMessage

	// ack, when non-nil on a leaveRoom event, is closed once the actor
	// has dropped the client. The gateway waits on it before moving the
	// connection into another room, so at most one room ever holds a
	// client's send channel.
	ack chan struct{}
}

// Room is the per-room turn engine. A single goroutine (run) owns all
// game state; clients, timers and the reaper only ever talk to it over
// channels, so at most one transition is applied at a time.
type Room struct {
	code     string
	cfg      *Config
	registry *RoomRegistry
	words    WordSource
	stats    StatsSink
	pacing   pacing

	joins  chan joinRequest
	unreg  chan *client
	events chan clientEvent
	timers chan timerEvent
	reap   chan struct{}
	done   chan struct{}

	lastActive atomic.Int64

	// Actor-owned state below; only touched inside run().
	clients         map[*client]bool
	players         []*gamePlayer
	hostID          string
	scores          map[string]int
	settings        GameSettings
	phase           roomPhase
	gameInProgress  bool
	active          []*gamePlayer
	currentIndex    int
	currentLetter   string
	currentCategory string
	usedWords       []string
	usedSet         map[string]bool
	usedLetters     map[string]bool
	dispute         *DisputedWord
	epoch           uint64
	timerStop       chan struct{}
	turnStarted     time.Time
}

func newWordRoom(code string, cfg *Config, registry *RoomRegistry, words WordSource, stats StatsSink) *Room {
	rm := &Room{
		code:     code,
		cfg:      cfg,
		registry: registry,
		words:    words,
		stats:    stats,
		pacing:   defaultPacing,

		joins:  make(chan joinRequest, 8),
		unreg:  make(chan *client, 8),
		events: make(chan clientEvent, 64),
		timers: make(chan timerEvent, 16),
		reap:   make(chan struct{}, 1),
		done:   make(chan struct{}),

		clients:     make(map[*client]bool),
		scores:      make(map[string]int),
		settings:    GameSettings{ScoreGoal: defaultScoreGoal, TurnDuration: defaultTurnDuration},
		phase:       phaseLobby,
		usedSet:     make(map[string]bool),
		usedLetters: make(map[string]bool),
	}
	rm.touch()

	return rm
}

func (rm *Room) run() {
	for {
		select {
		case jr := <-rm.joins:
			rm.handleJoin(jr)

		case c := <-rm.unreg:
			if rm.handleDisconnect(c) {
				return
			}

		case ev := <-rm.events:
			if rm.handleEvent(ev) {
				return
			}

		case te := <-rm.timers:
			rm.handleTimer(te)

		case <-rm.reap:
			logf(rm.cfg, "GAMES: Room %s reaped after idle timeout", rm.code)
			rm.shutdown()
			return
		}
	}
}

// Channel posts from outside the actor goroutine. Selecting on done
// keeps callers from blocking on a room that has already closed.

func (rm *Room) postJoin(jr joinRequest) {
	select {
	case rm.joins <- jr:
	case <-rm.done:
		jr.client.trySend(ErrorMessage{Type: "errorNotification", Message: "Oda bulunamadı."})
	}
}

func (rm *Room) postUnregister(c *client) {
	select {
	case rm.unreg <- c:
	case <-rm.done:
		// The actor is gone and will never close this channel itself.
		c.closeSend()
	}
}

func (rm *Room) postEvent(ev clientEvent) {
	select {
	case rm.events <- ev:
	case <-rm.done:
	}
}

func (rm *Room) postTimer(te timerEvent) {
	select {
	case rm.timers <- te:
	case <-rm.done:
	}
}

func (rm *Room) postReap() {
	select {
	case rm.reap <- struct{}{}:
	default:
	}
}

func (rm *Room) touch() {
	rm.lastActive.Store(time.Now().Unix())
}

func (rm *Room) idleSince() time.Time {
	return time.Unix(rm.lastActive.Load(), 0)
}

// Outbound helpers. Single-goroutine ownership means no locks; a client
// whose send buffer is full is dropped rather than allowed to block the
// whole room. The actor is the only goroutine that closes a send
// channel, and only after removing the client from rm.clients.

func (rm *Room) sendTo(c *client, msg any) {
	if !rm.clients[c] {
		return
	}

	select {
	case c.send <- msg:
	default:
		delete(rm.clients, c)
		c.closeSend()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}
}

func (rm *Room) broadcast(msg any) {
	for c := range rm.clients {
		rm.sendTo(c, msg)
	}
}

func (rm *Room) broadcastLobbyUpdate() {
	players := make([]PlayerInfo, 0, len(rm.players))
	for _, p := range rm.players {
		players = append(players, p.info())
	}

	rm.broadcast(LobbyUpdateMessage{
		Type:           "lobbyUpdate",
		Players:        players,
		HostID:         rm.hostID,
		Settings:       rm.settings,
		GameInProgress: rm.gameInProgress,
	})
}

func (rm *Room) broadcastScores(isGameOver bool) {
	scores := make(map[string]int, len(rm.scores))
	for name, score := range rm.scores {
		scores[name] = score
	}

	rm.broadcast(ScoreUpdateMessage{
		Type:       "scoreUpdate",
		Scores:     scores,
		IsGameOver: isGameOver,
	})
}

func (rm *Room) broadcastUsedWords() {
	rm.broadcast(UsedWordsMessage{
		Type:      "usedWordsUpdate",
		UsedWords: append([]string(nil), rm.usedWords...),
	})
}

// Lookup helpers.

func (rm *Room) playerByID(id string) *gamePlayer {
	for _, p := range rm.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (rm *Room) clientByID(id string) *client {
	for c := range rm.clients {
		if c.id == id {
			return c
		}
	}
	return nil
}

func (rm *Room) activeIndex(id string) int {
	for i, p := range rm.active {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (rm *Room) currentPlayer() *gamePlayer {
	if rm.currentIndex < 0 || rm.currentIndex >= len(rm.active) {
		return nil
	}
	return rm.active[rm.currentIndex]
}

// isHostOrCreator authorizes host-gated actions: the current host, or
// the room creator (first join slot), who keeps admin rights even after
// host transfer.
func (rm *Room) isHostOrCreator(id string) bool {
	if id == rm.hostID {
		return true
	}
	p := rm.playerByID(id)
	return p != nil && p.Number == 1
}

func (rm *Room) roundInProgress() bool {
	switch rm.phase {
	case phaseDiceRolling, phaseRoundActive, phaseAwaitingHostDecision, phaseRoundOver:
		return true
	}
	return false
}

// handleJoin admits a new player, or re-binds the connection of a player
// rejoining under the same display name.
func (rm *Room) handleJoin(jr joinRequest) {
	rm.touch()

	c := jr.client
	name := strings.TrimSpace(jr.name)
	if name == "" {
		c.trySend(ErrorMessage{Type: "errorNotification", Message: "Geçersiz isim."})
		return
	}

	for _, p := range rm.players {
		if normalizeWord(p.Name) != normalizeWord(name) {
			continue
		}

		oldID := p.ID
		p.ID = c.id
		if rm.hostID == oldID {
			rm.hostID = c.id
		}
		rm.clients[c] = true

		rm.sendTo(c, JoinedMessage{Type: "joined", RoomID: rm.code, PlayerDetails: p.info()})
		rm.broadcastLobbyUpdate()
		rm.broadcastScores(false)

		if rm.gameInProgress {
			rm.sendTo(c, ReconnectedMessage{
				Type:        "gameReconnected",
				Letter:      rm.currentLetter,
				Category:    rm.currentCategory,
				UsedWords:   append([]string(nil), rm.usedWords...),
				IsSpectator: rm.activeIndex(c.id) == -1,
			})
		}

		logf(rm.cfg, "GAMES: Player %q reconnected to %s", p.Name, rm.code)
		return
	}

	if len(rm.players) >= maxPlayersPerRoom {
		c.trySend(ErrorMessage{Type: "errorNotification", Message: "Oda dolu."})
		return
	}

	avatar := jr.avatar
	if avatar < 1 || avatar > maxAvatarID {
		avatar = 1
	}

	p := &gamePlayer{
		ID:        c.id,
		Name:      name,
		Number:    len(rm.players) + 1,
		Avatar:    avatar,
		Spectator: rm.gameInProgress,
	}
	rm.players = append(rm.players, p)
	rm.scores[p.Name] = 0
	rm.clients[c] = true

	if jr.created {
		rm.hostID = c.id
		rm.sendTo(c, RoomCreatedMessage{Type: "roomCreated", RoomID: rm.code, PlayerDetails: p.info()})
	} else {
		rm.sendTo(c, JoinedMessage{Type: "joined", RoomID: rm.code, PlayerDetails: p.info()})
	}

	rm.broadcastLobbyUpdate()
	rm.broadcastScores(false)

	if rm.gameInProgress {
		rm.sendTo(c, SpectatorModeMessage{
			Type:      "spectatorMode",
			Letter:    rm.currentLetter,
			Category:  rm.currentCategory,
			UsedWords: append([]string(nil), rm.usedWords...),
		})
	}

	logf(rm.cfg, "GAMES: Player %q joined %s (%d players)", p.Name, rm.code, len(rm.players))
}

func (rm *Room) handleEvent(ev clientEvent) bool {
	rm.touch()

	c, msg := ev.client, ev.msg
	switch msg.Type {
	case "changeAvatar":
		rm.handleChangeAvatar(c, msg.Avatar)
	case "gameSettingsChanged":
		rm.handleSettingsChange(c, msg)
	case "startRound":
		rm.handleStartRound(c)
	case "submitWord":
		rm.handleSubmitWord(c, msg.Word)
	case "hostDecision":
		rm.handleHostDecision(c, msg)
	case "resetScores":
		rm.handleResetScores(c)
	case "requestPlayerStats":
		rm.handleStatsRequest(c, msg.PlayerName)
	case "leaveRoom":
		closed := rm.handleLeave(c)
		if ev.ack != nil {
			close(ev.ack)
		}
		return closed
	}

	return false
}

func (rm *Room) handleChangeAvatar(c *client, avatar int) {
	p := rm.playerByID(c.id)
	if p == nil || avatar < 1 || avatar > maxAvatarID {
		return
	}

	p.Avatar = avatar
	rm.broadcastLobbyUpdate()
}

func (rm *Room) handleSettingsChange(c *client, msg ClientMessage) {
	if !rm.isHostOrCreator(c.id) {
		logf(rm.cfg, "GAMES: Settings change in %s rejected (not host or creator)", rm.code)
		return
	}
	if rm.roundInProgress() {
		rm.sendTo(c, ErrorMessage{Type: "errorNotification", Message: "Tur devam ederken ayarlar değiştirilemez."})
		return
	}
	if msg.ScoreGoal < 1 || msg.TurnDuration < 1 {
		rm.sendTo(c, ErrorMessage{Type: "errorNotification", Message: "Geçersiz ayarlar."})
		return
	}

	rm.settings = GameSettings{ScoreGoal: msg.ScoreGoal, TurnDuration: msg.TurnDuration}
	rm.broadcastLobbyUpdate()

	logf(rm.cfg, "GAMES: Settings for %s changed: scoreGoal=%d turnDuration=%d",
		rm.code, msg.ScoreGoal, msg.TurnDuration)
}

func (rm *Room) handleResetScores(c *client) {
	if !rm.isHostOrCreator(c.id) {
		return
	}

	for name := range rm.scores {
		rm.scores[name] = 0
	}
	rm.broadcastScores(false)
}

func (rm *Room) handleStatsRequest(c *client, playerName string) {
	if playerName == "" {
		p := rm.playerByID(c.id)
		if p == nil {
			return
		}
		playerName = p.Name
	}

	rm.sendTo(c, PlayerStatsMessage{
		Type:       "playerStatsUpdate",
		PlayerName: playerName,
		Stats:      rm.stats.Snapshot(playerName),
	})
}

// handleStartRound begins a new round: draws a prompt the dictionary can
// actually answer, folds spectators into the active set, and starts the
// dice-roll reveal.
func (rm *Room) handleStartRound(c *client) {
	if !rm.isHostOrCreator(c.id) {
		logf(rm.cfg, "GAMES: Start in %s rejected (not host or creator)", rm.code)
		return
	}
	if rm.roundInProgress() || len(rm.players) < minPlayersToStart {
		return
	}

	letter, category, ok := rm.drawPrompt()
	if !ok {
		rm.sendTo(c, ErrorMessage{Type: "errorNotification", Message: "Sözlükte oynanabilir harf/kategori bulunamadı."})
		return
	}

	rm.gameInProgress = true
	rm.usedWords = nil
	rm.usedSet = make(map[string]bool)
	rm.broadcastUsedWords()

	rm.active = append([]*gamePlayer(nil), rm.players...)
	for _, p := range rm.players {
		p.Spectator = false
	}

	rm.currentLetter = letter
	rm.currentCategory = category
	rm.usedLetters[letter] = true

	rm.phase = phaseDiceRolling
	rm.broadcast(DiceRollingMessage{
		Type:               "diceRolling",
		FinalLetterIndex:   slices.Index(gameAlphabet, letter),
		FinalCategoryIndex: slices.Index(gameCategories, category),
		Letter:             letter,
		Category:           category,
	})
	rm.broadcastLobbyUpdate()

	rm.nextEpoch()
	rm.schedule(rm.pacing.diceReveal, timerDiceReveal)

	logf(rm.cfg, "GAMES: Round started in %s: letter=%s category=%s", rm.code, letter, category)
}

// drawPrompt picks a random (letter, category) pair that has at least
// one dictionary word, excluding letters already used this game until
// the alphabet is exhausted.
func (rm *Room) drawPrompt() (letter, category string, ok bool) {
	candidates := rm.promptCandidates(false)
	if len(candidates) == 0 {
		rm.usedLetters = make(map[string]bool)
		candidates = rm.promptCandidates(true)
	}
	if len(candidates) == 0 {
		return "", "", false
	}

	pick := candidates[rand.Intn(len(candidates))]
	return pick[0], pick[1], true
}

func (rm *Room) promptCandidates(all bool) [][2]string {
	var candidates [][2]string
	for _, l := range gameAlphabet {
		if !all && rm.usedLetters[l] {
			continue
		}
		for _, cat := range gameCategories {
			if rm.words.HasWords(cat, l) {
				candidates = append(candidates, [2]string{l, cat})
			}
		}
	}
	return candidates
}

func (rm *Room) startTurn() {
	if len(rm.active) < 1 {
		rm.handleRoundOver(reasonNoPlayers)
		return
	}

	rm.phase = phaseRoundActive
	if rm.currentIndex >= len(rm.active) {
		rm.currentIndex = 0
	}

	cur := rm.active[rm.currentIndex]
	rm.turnStarted = time.Now()

	rm.broadcast(TurnUpdateMessage{
		Type:        "turnUpdate",
		Player:      cur.info(),
		TimeLeft:    rm.settings.TurnDuration,
		ActiveCount: len(rm.active),
		Letter:      rm.currentLetter,
		Category:    rm.currentCategory,
	})

	rm.startCountdown(rm.settings.TurnDuration)
}

func (rm *Room) advanceTurn() {
	if len(rm.active) <= 1 {
		rm.handleRoundOver(reasonRoundOver)
		return
	}

	rm.currentIndex = (rm.currentIndex + 1) % len(rm.active)
	rm.startTurn()
}

// resumeRound continues play after an elimination or host decision. The
// eliminated player's removal already left currentIndex pointing at
// their successor, so no extra advance happens here.
func (rm *Room) resumeRound() {
	if len(rm.active) <= 1 {
		rm.handleRoundOver(reasonRoundOver)
		return
	}

	if rm.currentIndex >= len(rm.active) {
		rm.currentIndex = 0
	}
	rm.startTurn()
}

func (rm *Room) handleSubmitWord(c *client, word string) {
	if rm.phase != phaseRoundActive {
		return
	}
	cur := rm.currentPlayer()
	if cur == nil || cur.ID != c.id {
		return
	}

	rm.nextEpoch()
	responseTime := time.Since(rm.turnStarted).Seconds()
	normalized := normalizeWord(word)

	if acceptWord(word, rm.currentLetter, rm.currentCategory, rm.usedSet, rm.words) {
		rm.usedSet[normalized] = true
		rm.usedWords = append(rm.usedWords, normalized)
		rm.stats.RecordWord(cur.Name, normalized, rm.currentCategory, responseTime)

		rm.broadcast(WordAcceptedMessage{
			Type:         "wordAccepted",
			PlayerNumber: cur.Number,
			Player:       cur.Name,
			Word:         normalized,
		})
		rm.broadcastUsedWords()

		rm.schedule(rm.pacing.acceptedPause, timerAdvance)

		logf(rm.cfg, "GAMES: %q accepted for %q in %s (%.1fs)", normalized, cur.Name, rm.code, responseTime)
		return
	}

	rm.eliminate(cur, reasonWrongWord, normalized)
}

// eliminate removes a player from the round. A wrong-word elimination
// opens the host decision window; a timeout resumes play directly.
func (rm *Room) eliminate(p *gamePlayer, reason, word string) {
	idx := rm.activeIndex(p.ID)
	if idx == -1 {
		return
	}

	rm.nextEpoch()
	rm.active = slices.Delete(rm.active, idx, idx+1)
	if idx < rm.currentIndex {
		rm.currentIndex--
	}

	rm.broadcast(PlayerEliminatedMessage{
		Type:      "playerEliminated",
		LoserID:   p.ID,
		LoserName: p.Name,
		Reason:    reason,
		Word:      word,
	})

	logf(rm.cfg, "GAMES: %q eliminated in %s (%s)", p.Name, rm.code, reason)

	if reason == reasonWrongWord && word != "" && rm.hostID != "" {
		rm.phase = phaseAwaitingHostDecision
		rm.dispute = &DisputedWord{
			Word:     word,
			Category: rm.currentCategory,
			Letter:   rm.currentLetter,
		}

		if host := rm.clientByID(rm.hostID); host != nil {
			rm.sendTo(host, HostDecisionRequestMessage{
				Type:     "hostDecisionRequested",
				Word:     word,
				Category: rm.currentCategory,
				Letter:   rm.currentLetter,
			})
		}

		rm.schedule(rm.pacing.decisionWindow, timerDecisionTimeout)
		return
	}

	rm.schedule(rm.pacing.eliminationPause, timerResume)
}

// handleHostDecision resolves a pending word dispute. Accepting writes
// the word into the dictionary for future rounds; the elimination that
// raised the dispute stands either way.
func (rm *Room) handleHostDecision(c *client, msg ClientMessage) {
	if rm.phase != phaseAwaitingHostDecision || rm.dispute == nil {
		return
	}
	if c.id != rm.hostID {
		return
	}
	if msg.WordInfo != nil && normalizeWord(msg.WordInfo.Word) != normalizeWord(rm.dispute.Word) {
		return
	}

	rm.nextEpoch()

	if msg.Accept != nil && *msg.Accept {
		err := rm.words.AddWord(rm.dispute.Category, rm.dispute.Letter, rm.dispute.Word)
		switch {
		case err == nil:
			rm.sendTo(c, DictionaryUpdateMessage{
				Type:    "dbUpdateResult",
				Success: true,
				Message: fmt.Sprintf("'%s' eklendi!", rm.dispute.Word),
			})
		case errors.Is(err, errWordExists), errors.Is(err, errNoSuchEntry):
			rm.sendTo(c, DictionaryUpdateMessage{
				Type:    "dbUpdateResult",
				Message: fmt.Sprintf("'%s' zaten var veya kategori/harf geçersiz.", rm.dispute.Word),
			})
		default:
			logf(rm.cfg, "WORDS: Write failure in %s: %v", rm.code, err)
			rm.sendTo(c, DictionaryUpdateMessage{
				Type:    "dbUpdateResult",
				Message: "Dosya yazma hatası!",
			})
		}
	}

	rm.dispute = nil
	rm.schedule(rm.pacing.decisionPause, timerResume)
}

func (rm *Room) handleTimer(te timerEvent) {
	if te.epoch != rm.epoch {
		return
	}

	switch te.kind {
	case timerTick:
		rm.broadcast(CountdownMessage{Type: "countdownTick", TimeLeft: te.secondsLeft})

	case timerExpire:
		if rm.phase != phaseRoundActive {
			return
		}
		cur := rm.currentPlayer()
		if cur == nil {
			rm.handleRoundOver(reasonNoPlayers)
			return
		}
		rm.eliminate(cur, reasonTimeout, "")

	case timerDiceReveal:
		if rm.phase != phaseDiceRolling {
			return
		}
		if len(rm.active) == 0 {
			rm.handleRoundOver(reasonNoPlayers)
			return
		}
		rm.broadcast(RoundStartedMessage{Type: "roundStarted"})
		rm.currentIndex = rand.Intn(len(rm.active))
		rm.startTurn()

	case timerAdvance:
		rm.advanceTurn()

	case timerResume:
		rm.resumeRound()

	case timerDecisionTimeout:
		if rm.phase != phaseAwaitingHostDecision || rm.dispute == nil {
			return
		}
		word := rm.dispute.Word
		rm.dispute = nil
		rm.broadcast(HostDecisionTimeoutMessage{Type: "hostDecisionTimedOut", Word: word})
		rm.resumeRound()

	case timerRoundCheck:
		rm.finishRound()
	}
}

func (rm *Room) handleRoundOver(reason string) {
	rm.nextEpoch()
	rm.dispute = nil
	rm.phase = phaseRoundOver

	winnerName := ""
	if len(rm.active) == 1 {
		winner := rm.active[0]
		rm.scores[winner.Name]++
		winnerName = winner.Name
	}

	rm.broadcast(RoundOverMessage{Type: "roundOver", Reason: reason, Winner: winnerName})
	rm.broadcastScores(false)

	rm.schedule(rm.pacing.roundOverPause, timerRoundCheck)

	logf(rm.cfg, "GAMES: Round over in %s (winner=%q)", rm.code, winnerName)
}

// finishRound either crowns a final winner or returns the room to the
// lobby for the next round, preserving scores and roster.
func (rm *Room) finishRound() {
	if rm.phase != phaseRoundOver {
		return
	}

	champion := ""
	for _, p := range rm.players {
		if rm.scores[p.Name] >= rm.settings.ScoreGoal {
			champion = p.Name
			break
		}
	}

	rm.gameInProgress = false

	if champion != "" {
		for _, p := range rm.players {
			rm.stats.RecordOutcome(p.Name, p.Name == champion)
		}

		scores := make(map[string]int, len(rm.scores))
		for name, score := range rm.scores {
			scores[name] = score
		}
		rm.broadcast(FinalWinnerMessage{Type: "finalWinner", Winner: champion, Scores: scores})
		rm.broadcastScores(true)

		rm.phase = phaseGameOver
		logf(rm.cfg, "GAMES: Game over in %s, winner %q", rm.code, champion)
	} else {
		rm.phase = phaseLobby
		rm.broadcast(RoundEndedMessage{Type: "roundEnded"})
	}

	rm.broadcastLobbyUpdate()
}

// handleDisconnect is the gateway's unregister path: the connection is
// gone for good, so after removing the client the actor also closes the
// send channel to release the write pump.
func (rm *Room) handleDisconnect(c *client) bool {
	closed := rm.handleLeave(c)
	c.closeSend()

	return closed
}

// handleLeave removes a player entirely: roster, scores, and round
// contention. Leaving mid-turn abandons the turn without an elimination
// penalty. Returns true when the room emptied and shut down.
func (rm *Room) handleLeave(c *client) bool {
	rm.touch()
	delete(rm.clients, c)

	p := rm.playerByID(c.id)
	if p == nil {
		return false
	}

	wasHost := rm.hostID == c.id

	for i, q := range rm.players {
		if q == p {
			rm.players = slices.Delete(rm.players, i, i+1)
			break
		}
	}
	delete(rm.scores, p.Name)

	logf(rm.cfg, "GAMES: Player %q left %s (%d players remain)", p.Name, rm.code, len(rm.players))

	if len(rm.players) == 0 {
		logf(rm.cfg, "GAMES: Room %s closed, all players gone", rm.code)
		rm.close()
		return true
	}

	if wasHost {
		rm.hostID = rm.players[0].ID
	}

	if rm.roundInProgress() {
		if idx := rm.activeIndex(p.ID); idx != -1 {
			wasCurrent := idx == rm.currentIndex
			rm.active = slices.Delete(rm.active, idx, idx+1)
			if idx < rm.currentIndex {
				rm.currentIndex--
			}

			switch {
			case len(rm.active) <= 1 && rm.phase != phaseRoundOver:
				rm.handleRoundOver(reasonRoundOver)
			case wasCurrent && rm.phase == phaseRoundActive:
				rm.nextEpoch()
				rm.startTurn()
			}
		}

		if rm.phase == phaseAwaitingHostDecision && wasHost {
			rm.nextEpoch()
			rm.dispute = nil
			rm.resumeRound()
		}
	}

	rm.broadcastLobbyUpdate()
	rm.broadcastScores(false)

	return false
}

func (rm *Room) close() {
	rm.nextEpoch()
	rm.registry.remove(rm.code)
	close(rm.done)
}

// shutdown is the reaper path: disconnect everyone, then close.
func (rm *Room) shutdown() {
	for c := range rm.clients {
		delete(rm.clients, c)
		c.closeSend()
		if c.conn != nil {
			_ = c.conn.Close()
		}
	}

	rm.close()
}
