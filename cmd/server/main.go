// Command server runs a tic-tac-chec game session behind a JSON API and websocket.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"tic_tac_chec/internal/game"
	"tic_tac_chec/internal/httpx"
	"tic_tac_chec/internal/session"
	"tic_tac_chec/internal/stats"
)

func main() {
	defaults := session.DefaultConfig()
	addr := flag.String("addr", getenv("TTC_ADDR", ":8080"), "listen address")
	modeFlag := flag.String("mode", getenv("TTC_MODE", "ai"), "game mode: local or ai")
	difficultyFlag := flag.String("difficulty", getenv("TTC_DIFFICULTY", "medium"), "computer difficulty: easy, medium or hard")
	seedFlag := flag.String("seed", getenv("TTC_SEED", "0"), "AI seed; 0 picks one at random, \"daily\" uses today's date")
	delayMin := flag.Duration("ai-delay-min", getenvd("TTC_AI_DELAY_MIN", defaults.AIDelayMin), "shortest computer think delay")
	delayMax := flag.Duration("ai-delay-max", getenvd("TTC_AI_DELAY_MAX", defaults.AIDelayMax), "longest computer think delay")
	autoplay := flag.Bool("ai-autoplay", getenb("TTC_AI_AUTOPLAY", defaults.AutoPlay), "let the computer answer automatically in ai mode")
	flag.Parse()

	mode, ok := game.ParseMode(*modeFlag)
	fatalIfBool(!ok, fmt.Errorf("invalid mode %q; valid: local, ai", *modeFlag))
	difficulty, ok := game.ParseDifficulty(*difficultyFlag)
	fatalIfBool(!ok, fmt.Errorf("invalid difficulty %q; valid: easy, medium, hard", *difficultyFlag))
	rng, err := parseSeed(*seedFlag, time.Now(), dailyLocation())
	fatalIf(err, "seed")

	cfg := defaults
	cfg.Mode = mode
	cfg.Difficulty = difficulty
	cfg.AIDelayMin = *delayMin
	cfg.AIDelayMax = *delayMax
	cfg.AutoPlay = *autoplay

	store := stats.NewStore()
	ctrl := session.NewController(cfg, rng, store)
	defer ctrl.Close()
	srv := httpx.NewServer(ctrl, store)
	log.Printf("[server] %s game, %s difficulty, think delay %s-%s", mode, difficulty, cfg.AIDelayMin, cfg.AIDelayMax)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.Listen(*addr)
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	select {
	case <-sigCtx.Done():
		log.Printf("[server] shutdown signal received: %v", sigCtx.Err())
	case err := <-serverErrCh:
		if err != nil {
			log.Printf("[server] server error: %v", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil {
		log.Printf("[server] graceful shutdown failed: %v", err)
	}
}

// dailyTimeZone fixes the calendar day behind the daily seed, whatever the host's zone.
const dailyTimeZone = "America/New_York"

func dailyLocation() *time.Location {
	loc, err := time.LoadLocation(dailyTimeZone)
	if err != nil {
		log.Printf("[server] load %s: %v; daily seed uses UTC", dailyTimeZone, err)
		return time.UTC
	}
	return loc
}

// parseSeed returns the AI's random source. "daily" derives the seed from now's date
// in loc so everyone playing that day sees the same computer.
func parseSeed(s string, now time.Time, loc *time.Location) (*rand.Rand, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "daily" {
		seed := game.DateSeed(now, loc)
		log.Printf("[server] daily seed %d", seed)
		return game.NewSeededRand(seed), nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid seed %q: want a number or \"daily\"", s)
	}
	if n == 0 {
		return nil, nil
	}
	return game.NewSeededRand(uint32(n)), nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func getenvd(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
		log.Printf("[server] ignoring %s=%q: not a duration", key, v)
	}
	return def
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}

func fatalIfBool(b bool, err error) {
	if b {
		log.Fatal(err)
	}
}
