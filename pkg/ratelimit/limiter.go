// Copyright 2025 Sander Nunes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package ratelimit caps requests per client identifier over fixed
// time windows.
package ratelimit

import (
	"sync"
	"time"

	"github.com/SanderNunes/cellito-engine/pkg/config"
)

// Result reports a single admission decision.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type window struct {
	count int
	ends  time.Time
}

// Limiter admits or rejects requests per identifier. Windows are
// fixed: the counter resets when the window expires.
type Limiter struct {
	cfg config.RateLimitConfig
	now func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

// NewLimiter creates a limiter from config.
func NewLimiter(cfg config.RateLimitConfig) *Limiter {
	cfg.SetDefaults()
	return &Limiter{
		cfg:     cfg,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// Enabled reports whether the limiter rejects anything at all.
func (l *Limiter) Enabled() bool {
	return config.BoolValue(l.cfg.Enabled, false)
}

// Allow records one request for the identifier and reports whether it
// fits within the window.
func (l *Limiter) Allow(identifier string) Result {
	if !l.Enabled() {
		return Result{Allowed: true, Remaining: l.cfg.Requests}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[identifier]
	if !ok || !w.ends.After(now) {
		w = &window{ends: now.Add(l.cfg.Window.Duration())}
		l.windows[identifier] = w
		l.evictExpired(now)
	}

	if w.count >= l.cfg.Requests {
		return Result{Allowed: false, RetryAfter: w.ends.Sub(now)}
	}
	w.count++
	return Result{Allowed: true, Remaining: l.cfg.Requests - w.count}
}

// evictExpired drops finished windows so the map does not grow with
// one entry per client forever. Caller holds the lock.
func (l *Limiter) evictExpired(now time.Time) {
	for id, w := range l.windows {
		if !w.ends.After(now) {
			delete(l.windows, id)
		}
	}
}
