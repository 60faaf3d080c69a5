package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"seyobot/models"
)

// RateLimiter enforces a per-(guild, user) request budget over a fixed
// window. Counts reset when a pair's window expires rather than on a
// background sweep, so an idle pair costs a single map entry at most.
type RateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	counts map[cooldownKey]*rateWindow
}

type rateWindow struct {
	start time.Time
	count int
}

// NewRateLimiter creates a limiter allowing limit requests per window for
// each (guild, user) pair
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
		counts: make(map[cooldownKey]*rateWindow),
	}
}

// Allow consumes one unit of the pair's budget if available. Budgets are
// scoped per guild, so activity in one guild never drains another.
func (r *RateLimiter) Allow(guildID, userID int64, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := cooldownKey{guildID, userID}
	w, ok := r.counts[key]
	if !ok || now.Sub(w.start) >= r.window {
		r.counts[key] = &rateWindow{start: now, count: 1}
		return true
	}
	if w.count >= r.limit {
		return false
	}
	w.count++
	return true
}

type aiChatService struct {
	uowFactory UnitOfWorkFactory
	completer  Completer
	limiter    *RateLimiter
	now        func() time.Time
}

// NewAIChatService creates a new AI chat relay service
func NewAIChatService(uowFactory UnitOfWorkFactory, completer Completer, limiter *RateLimiter) AIChatService {
	return &aiChatService{
		uowFactory: uowFactory,
		completer:  completer,
		limiter:    limiter,
		now:        time.Now,
	}
}

// Relay forwards a prompt to the completion backend. The guild must have the
// AI relay enabled, and a configured AI channel restricts where it responds.
func (s *aiChatService) Relay(ctx context.Context, guildID, channelID, userID int64, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", NewValidationError("prompt", "must not be empty")
	}

	cfg, err := s.getGuildConfig(ctx, guildID)
	if err != nil {
		return "", err
	}
	if cfg == nil || !cfg.AIEnabled {
		return "", ErrFeatureDisabled
	}
	if cfg.AIChannelID != nil && *cfg.AIChannelID != channelID {
		return "", ErrFeatureDisabled
	}

	if !s.limiter.Allow(guildID, userID, s.now()) {
		return "", ErrRateLimited
	}

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		log.WithFields(log.Fields{
			"guildID": guildID,
			"userID":  userID,
		}).WithError(err).Error("AI completion failed")
		return "", fmt.Errorf("failed to get completion: %w", err)
	}

	return reply, nil
}

func (s *aiChatService) getGuildConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cfg, err := uow.GuildConfigRepository().Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return cfg, nil
}
