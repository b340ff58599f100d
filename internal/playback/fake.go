package playback

import (
	"context"
	"sync"
	"time"
)

// FakePlayer simulates an audio device
type FakePlayer struct {
	// Duration is how long each clip "plays"
	Duration time.Duration
	// Blocked makes every Play fail with ErrAutoplayBlocked
	Blocked bool
	// Err makes every Play fail with the given error after Duration
	Err error

	mu      sync.Mutex
	played  [][]byte
	pauses  int
	rewinds int
}

// Play implements Player
func (p *FakePlayer) Play(ctx context.Context, audio []byte) error {
	p.mu.Lock()
	p.played = append(p.played, audio)
	p.mu.Unlock()

	if p.Blocked {
		return ErrAutoplayBlocked
	}

	timer := time.NewTimer(p.Duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return p.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause implements Player
func (p *FakePlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
}

// Rewind implements Player
func (p *FakePlayer) Rewind() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rewinds++
}

// Played returns every clip passed to Play
func (p *FakePlayer) Played() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]byte(nil), p.played...)
}

// Counts returns how many times Pause and Rewind were called
func (p *FakePlayer) Counts() (pauses, rewinds int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pauses, p.rewinds
}
