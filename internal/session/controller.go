// Package session drives one tic-tac-chec game for a client: it guards the engine,
// checks whose turn it is, plays the computer side after a think delay and reports
// finished games.
package session

import (
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"time"

	"tic_tac_chec/internal/game"
	"tic_tac_chec/internal/stats"
)

// Status is the engine snapshot plus session-level flags.
type Status struct {
	game.GameState
	AIThinking bool `json:"aiThinking"`
	Stalemate  bool `json:"stalemate"`
}

// Update is published after every state change, with the feedback events it produced.
// Seq increases by one per update, in the order the changes were made.
type Update struct {
	Seq    uint64       `json:"seq"`
	Events []game.Event `json:"events"`
	Status Status       `json:"status"`
}

type Controller struct {
	mu        sync.Mutex
	cfg       Config
	engine    *game.Engine
	ai        *game.AI
	rng       *rand.Rand
	recorder  stats.Recorder
	publisher func(Update)
	pubMu     sync.Mutex
	seq       uint64

	events    []game.Event
	gen       uint64
	pending   *time.Timer
	turnStart time.Time
	stalemate bool
	recorded  bool
	closed    bool
}

// NewController starts a game with cfg. rng drives both the AI and its think delays;
// recorder may be nil.
func NewController(cfg Config, rng *rand.Rand, recorder stats.Recorder) *Controller {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	c := &Controller{
		cfg:       cfg.normalized(),
		ai:        game.NewAI(rng),
		rng:       rng,
		recorder:  recorder,
		turnStart: time.Now(),
	}
	c.engine = game.NewEngine(cfg.Mode, cfg.Difficulty,
		game.WithEventSink(game.EventSinkFunc(c.collect)),
		game.WithPerspective(c.cfg.Perspective),
	)
	c.mu.Lock()
	c.kickLocked()
	c.mu.Unlock()
	return c
}

// SetPublisher registers fn to receive updates. fn runs outside the state lock but
// calls are serialized in Seq order, so it must not call back into the controller.
func (c *Controller) SetPublisher(fn func(Update)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = fn
}

func (c *Controller) collect(e game.Event) { c.events = append(c.events, e) }

func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		GameState:  c.engine.State(),
		AIThinking: c.pending != nil,
		Stalemate:  c.stalemate,
	}
}

// Select picks up the piece with id from origin for the human side to move.
func (c *Controller) Select(id string, origin game.Origin) ([]game.Position, error) {
	c.mu.Lock()
	dests, err := c.selectLocked(id, origin)
	c.unlockAndPublish()
	return dests, err
}

func (c *Controller) selectLocked(id string, origin game.Origin) ([]game.Position, error) {
	if err := c.humanTurnLocked(); err != nil {
		return nil, err
	}
	piece, ok := c.lookupLocked(id, origin)
	if !ok {
		c.engine.Deselect()
		c.collect(game.EventInvalid)
		return nil, fmt.Errorf("select %s: %w", id, game.ErrUnknownPiece)
	}
	if piece.Owner != c.engine.CurrentPlayer() {
		c.collect(game.EventInvalid)
		return nil, fmt.Errorf("select %s: %w", id, game.ErrNotYourPiece)
	}
	dests, err := c.engine.SelectPiece(piece, origin)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", id, err)
	}
	return dests, nil
}

func (c *Controller) lookupLocked(id string, origin game.Origin) (game.Piece, bool) {
	if from, ok := origin.Position(); ok {
		board := c.engine.Board()
		if at, found := board.Find(id); found && at == from {
			return *board.PieceAt(at), true
		}
		return game.Piece{}, false
	}
	for _, color := range []game.Color{game.White, game.Black} {
		for _, pc := range c.engine.Reserve(color) {
			if pc.ID == id {
				return pc, true
			}
		}
	}
	return game.Piece{}, false
}

func (c *Controller) humanTurnLocked() error {
	switch {
	case c.closed:
		return ErrClosed
	case c.finishedLocked():
		return game.ErrGameOver
	case c.computerToMoveLocked():
		return ErrNotYourTurn
	default:
		return nil
	}
}

func (c *Controller) finishedLocked() bool {
	_, won := c.engine.Winner()
	return won || c.stalemate
}

func (c *Controller) computerToMoveLocked() bool {
	return c.engine.Mode() == game.ModeAI && c.engine.CurrentPlayer() == c.cfg.ComputerColor()
}

// Deselect drops the current selection.
func (c *Controller) Deselect() {
	c.mu.Lock()
	c.engine.Deselect()
	c.unlockAndPublish()
}

// Move plays the selected piece to dest. A rejected move is reported in the result,
// not as an error.
func (c *Controller) Move(dest game.Position) (game.MoveResult, error) {
	c.mu.Lock()
	if err := c.humanTurnLocked(); err != nil {
		c.mu.Unlock()
		return game.MoveResult{}, err
	}
	res := c.engine.ExecuteMove(dest)
	if res.Accepted {
		c.afterMoveLocked()
	}
	c.unlockAndPublish()
	return res, nil
}

// PlayAI makes the computer move for the side to move right away, cancelling any
// scheduled turn.
func (c *Controller) PlayAI() (game.Move, error) {
	c.mu.Lock()
	c.cancelPendingLocked()
	if c.closed {
		c.mu.Unlock()
		return game.Move{}, ErrClosed
	}
	if c.finishedLocked() {
		c.mu.Unlock()
		return game.Move{}, game.ErrGameOver
	}
	m, err := c.playAILocked()
	c.unlockAndPublish()
	return m, err
}

func (c *Controller) playAILocked() (game.Move, error) {
	player := c.engine.CurrentPlayer()
	board, reserve := c.engine.Board(), c.engine.Reserve(player)
	m, ok := c.ai.ChooseMove(board, player, reserve, c.engine.Phase(), c.engine.Difficulty())
	if !ok && c.canMoveLocked(player) {
		// Only drops are left; offer them as placements.
		m, ok = c.ai.ChooseMove(board, player, reserve, game.PhasePlacement, c.engine.Difficulty())
	}
	if !ok {
		c.declareStalemateLocked()
		return game.Move{}, ErrNoMoves
	}
	if _, err := c.engine.SelectPiece(m.Piece, m.From); err != nil {
		return game.Move{}, fmt.Errorf("ai select: %w", err)
	}
	res := c.engine.ExecuteMove(m.To)
	if !res.Accepted {
		return game.Move{}, fmt.Errorf("ai move %s: %w", m, res.Reason)
	}
	c.afterMoveLocked()
	return res.Move, nil
}

func (c *Controller) afterMoveLocked() {
	c.turnStart = time.Now()
	if last, ok := c.engine.LastMove(); ok {
		log.Printf("[session] %s played %s", last.Piece.Owner, last)
	}
	if winner, ok := c.engine.Winner(); ok {
		c.recordLocked(&winner)
		return
	}
	if !c.canMoveLocked(c.engine.CurrentPlayer()) {
		c.declareStalemateLocked()
		return
	}
	c.kickLocked()
}

// canMoveLocked reports whether player has any legal action. A reserve piece can be
// dropped on any empty cell in either phase.
func (c *Controller) canMoveLocked(player game.Color) bool {
	board := c.engine.Board()
	if len(c.engine.Reserve(player)) > 0 && len(board.EmptyCells()) > 0 {
		return true
	}
	return len(game.Candidates(board, player, nil, game.PhaseMovement)) > 0
}

func (c *Controller) kickLocked() {
	if c.cfg.AutoPlay && !c.closed && !c.finishedLocked() && c.computerToMoveLocked() {
		c.scheduleLocked()
	}
}

func (c *Controller) declareStalemateLocked() {
	if c.stalemate {
		return
	}
	c.stalemate = true
	log.Printf("[session] %s has no legal moves", c.engine.CurrentPlayer())
	c.recordLocked(nil)
}

func (c *Controller) recordLocked(winner *game.Color) {
	if c.recorded {
		return
	}
	c.recorded = true
	if winner != nil {
		log.Printf("[session] game over: %s wins", *winner)
	} else {
		log.Printf("[session] game over: draw")
	}
	if c.recorder != nil {
		c.recorder.RecordGameResult(winner, c.cfg.Perspective, c.engine.Mode(), c.engine.Difficulty())
	}
}

func (c *Controller) thinkDelayLocked() time.Duration {
	delay := c.cfg.AIDelayMin
	if spread := c.cfg.AIDelayMax - c.cfg.AIDelayMin; spread > 0 {
		delay += time.Duration(c.rng.Int64N(int64(spread) + 1))
	}
	if waited := time.Since(c.turnStart); waited+delay > c.cfg.ForceAfter {
		delay = max(c.cfg.ForceAfter-waited, 0)
	}
	return delay
}

func (c *Controller) scheduleLocked() {
	c.cancelPendingLocked()
	gen := c.gen
	delay := c.thinkDelayLocked()
	c.pending = time.AfterFunc(delay, func() { c.runScheduled(gen) })
}

func (c *Controller) runScheduled(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		log.Printf("[session] discarding stale computer turn")
		return
	}
	c.pending = nil
	if !c.finishedLocked() && c.computerToMoveLocked() {
		if _, err := c.playAILocked(); err != nil {
			log.Printf("[session] computer turn: %v", err)
		}
	}
	c.unlockAndPublish()
}

// cancelPendingLocked stops a scheduled computer turn. The generation bump makes a
// callback that already fired give up once it gets the lock.
func (c *Controller) cancelPendingLocked() {
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// Reset abandons the current game and starts a new one.
func (c *Controller) Reset(mode game.Mode, difficulty game.Difficulty) {
	c.mu.Lock()
	c.cancelPendingLocked()
	c.engine.Reset(mode, difficulty)
	c.cfg.Mode = mode
	c.cfg.Difficulty = difficulty
	c.stalemate = false
	c.recorded = false
	c.turnStart = time.Now()
	log.Printf("[session] new %s game (%s)", mode, difficulty)
	c.kickLocked()
	c.unlockAndPublish()
}

// Close cancels any scheduled computer turn. Further actions fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelPendingLocked()
	c.closed = true
}

// unlockAndPublish releases the state lock and hands the update to the publisher.
// pubMu is taken before mu is released so updates leave in the order they were made.
func (c *Controller) unlockAndPublish() {
	events := c.events
	c.events = nil
	publisher := c.publisher
	if publisher == nil {
		c.mu.Unlock()
		return
	}
	c.seq++
	update := Update{Seq: c.seq, Events: events, Status: c.statusLocked()}
	c.pubMu.Lock()
	c.mu.Unlock()
	defer c.pubMu.Unlock()
	publisher(update)
}
