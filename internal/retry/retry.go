// Package retry holds the per-request retry state used by the OGS fetchers.
//
// A Policy decides how many failed attempts a request may make before the
// caller gives up on it; the delay between attempts is drawn uniformly from
// [MinDelay, MaxDelay] so that repeated failures do not hit the service in
// lockstep.
package retry

import (
	"context"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Mode selects how many attempts a request gets.
type Mode int

const (
	// None makes exactly one attempt.
	None Mode = iota
	// Fixed makes at most MaxAttempts attempts.
	Fixed
	// Unbounded retries until success or context cancellation.
	Unbounded
)

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Fixed:
		return "fixed"
	case Unbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Policy is the retry configuration for one kind of request.
type Policy struct {
	Mode        Mode
	MaxAttempts int
	MinDelay    time.Duration
	MaxDelay    time.Duration
}

func (p Policy) String() string {
	if p.Mode == Fixed {
		return fmt.Sprintf("fixed(%d)", p.MaxAttempts)
	}
	return p.Mode.String()
}

var fixedPattern = regexp.MustCompile(`^fixed[(:]\s*(\d+)\s*\)?$`)

// ParsePolicy parses "none", "unbounded", "fixed(n)" or "fixed:n".
func ParsePolicy(s string) (Policy, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	switch raw {
	case "none":
		return Policy{Mode: None, MaxAttempts: 1}, nil
	case "unbounded":
		return Policy{Mode: Unbounded}, nil
	}

	m := fixedPattern.FindStringSubmatch(raw)
	if m == nil {
		return Policy{}, fmt.Errorf("invalid retry policy %q (want none, unbounded or fixed(n))", s)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return Policy{}, fmt.Errorf("invalid retry policy %q: attempts must be a positive integer", s)
	}
	return Policy{Mode: Fixed, MaxAttempts: n}, nil
}

// Allows reports whether another attempt may follow the given number of failed attempts.
func (p Policy) Allows(failures int) bool {
	switch p.Mode {
	case Unbounded:
		return true
	case Fixed:
		return failures < p.MaxAttempts
	default:
		return false
	}
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Sleep is the real Sleeper.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// State tracks the attempts made for a single request.
// A fresh State is used per page or per game.
type State struct {
	policy   Policy
	rng      *rand.Rand
	failures int
	next     time.Duration
}

// NewState returns retry state for one request. rng may be nil.
func NewState(p Policy, rng *rand.Rand) *State {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &State{policy: p, rng: rng}
}

// Failures returns how many attempts have failed so far.
func (s *State) Failures() int {
	return s.failures
}

// Attempt returns the 1-based number of the attempt about to be made.
func (s *State) Attempt() int {
	return s.failures + 1
}

// Fail records a failed attempt. It returns the delay to wait before the
// next attempt and false when the policy forbids another one.
func (s *State) Fail() (time.Duration, bool) {
	s.failures++
	if !s.policy.Allows(s.failures) {
		return 0, false
	}
	s.next = s.jitter()
	return s.next, true
}

// Reset clears the state after a success.
func (s *State) Reset() {
	s.failures = 0
	s.next = 0
}

func (s *State) jitter() time.Duration {
	return uniform(s.rng, s.policy.MinDelay, s.policy.MaxDelay)
}

// uniform draws from [lo, hi]; rng may be nil.
func uniform(rng *rand.Rand, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	n := int64(hi-lo) + 1
	if rng == nil {
		return lo + time.Duration(rand.Int64N(n))
	}
	return lo + time.Duration(rng.Int64N(n))
}

// Pace is the pause kept between consecutive requests to the same service.
// The zero Pace does not wait.
type Pace struct {
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Delay draws one pause from [MinDelay, MaxDelay].
func (p Pace) Delay(rng *rand.Rand) time.Duration {
	return max(uniform(rng, p.MinDelay, p.MaxDelay), 0)
}

// Wait sleeps for one drawn pause. It returns at once for the zero Pace.
func (p Pace) Wait(ctx context.Context, sleep Sleeper, rng *rand.Rand) error {
	d := p.Delay(rng)
	if d <= 0 {
		return ctx.Err()
	}
	if sleep == nil {
		sleep = Sleep
	}
	return sleep(ctx, d)
}

// Do runs op until it succeeds or the policy gives up, sleeping between
// attempts. onFailure, when set, is called after every failed attempt with
// the wait that follows it (zero when giving up). The last error is
// returned on exhaustion.
func Do(ctx context.Context, s *State, sleep Sleeper, op func(ctx context.Context) error, onFailure func(attempt int, err error, wait time.Duration)) error {
	if sleep == nil {
		sleep = Sleep
	}
	for {
		attempt := s.Attempt()
		err := op(ctx)
		if err == nil {
			s.Reset()
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wait, again := s.Fail()
		if onFailure != nil {
			onFailure(attempt, err, wait)
		}
		if !again {
			return err
		}
		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}
