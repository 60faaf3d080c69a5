package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"seyobot/config"
	"seyobot/events"
	"seyobot/models"
)

// MaxXP returns the XP threshold a user must reach at the given level before
// moving to the next one. This is the only place the curve lives; every other
// operation goes through it.
func MaxXP(level int) int {
	return 100 * level * level
}

type levelingService struct {
	uowFactory UnitOfWorkFactory
	gate       *CooldownGate

	// rollXP produces a passive XP amount; swapped out in tests
	rollXP func() int

	// keyMu serializes read-modify-write per (guild, user) pair. Upstream
	// event delivery is serialized today, but the engine must not depend
	// on that.
	keyMu sync.Mutex
	keys  map[cooldownKey]*sync.Mutex
}

// NewLevelingService creates a new leveling service. The cooldown gate is
// injected so tests can construct engines with isolated cooldown state.
func NewLevelingService(uowFactory UnitOfWorkFactory, gate *CooldownGate, cfg *config.Config) LevelingService {
	min, max := cfg.XPAwardMin, cfg.XPAwardMax
	return &levelingService{
		uowFactory: uowFactory,
		gate:       gate,
		rollXP: func() int {
			return min + rand.Intn(max-min+1)
		},
		keys: make(map[cooldownKey]*sync.Mutex),
	}
}

func (s *levelingService) lockKey(guildID, userID int64) func() {
	key := cooldownKey{guildID, userID}

	s.keyMu.Lock()
	mu, ok := s.keys[key]
	if !ok {
		mu = &sync.Mutex{}
		s.keys[key] = mu
	}
	s.keyMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// AwardXP adds amount to the user's record, carrying XP across as many level
// boundaries as it covers, and persists the final state in one write
func (s *levelingService) AwardXP(ctx context.Context, guildID, userID int64, amount int) (*models.LevelRecord, int, error) {
	if amount <= 0 {
		return nil, 0, NewValidationError("amount", "must be positive")
	}

	unlock := s.lockKey(guildID, userID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	record, err := uow.LevelRepository().Get(ctx, guildID, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get level record: %w", err)
	}
	if record == nil {
		record = models.NewLevelRecord(userID, guildID)
	}

	record.XP += amount
	record.LastMessageAt = time.Now().Unix()
	levelsGained := 0
	for record.XP >= MaxXP(record.Level) {
		record.XP -= MaxXP(record.Level)
		record.Level++
		levelsGained++
	}

	if err := uow.LevelRepository().Upsert(ctx, record); err != nil {
		return nil, 0, fmt.Errorf("failed to persist level record: %w", err)
	}

	if levelsGained > 0 {
		uow.EventBus().Publish(events.LevelUpEvent{
			GuildID:  guildID,
			UserID:   userID,
			OldLevel: record.Level - levelsGained,
			NewLevel: record.Level,
			XP:       record.XP,
			MaxXP:    MaxXP(record.Level),
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return record, levelsGained, nil
}

// RemoveXP subtracts amount from the user's record, walking levels back down
// as needed. The floor is level 1 with 0 XP; stored XP never goes negative.
func (s *levelingService) RemoveXP(ctx context.Context, guildID, userID int64, amount int) (*models.LevelRecord, error) {
	if amount <= 0 {
		return nil, NewValidationError("amount", "must be positive")
	}

	unlock := s.lockKey(guildID, userID)
	defer unlock()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.LevelRepository().Get(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level record: %w", err)
	}
	if record == nil {
		return nil, NewNotFoundError("level record", fmt.Sprintf("user %d in guild %d", userID, guildID))
	}

	record.XP -= amount
	for record.XP < 0 && record.Level > 1 {
		record.Level--
		record.XP += MaxXP(record.Level)
	}
	if record.XP < 0 {
		record.XP = 0
	}

	if err := uow.LevelRepository().Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist level record: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return record, nil
}

// HandleMessage grants passive XP for ordinary chat activity. The guild must
// have a level channel configured and the user must be outside the cooldown
// window; otherwise the call is a no-op.
func (s *levelingService) HandleMessage(ctx context.Context, guildID, userID int64, now time.Time) error {
	cfg, err := s.getGuildConfig(ctx, guildID)
	if err != nil {
		return err
	}
	if !cfg.LevelingActive() {
		return nil
	}

	if !s.gate.Ready(guildID, userID, now) {
		return nil
	}

	if _, _, err := s.AwardXP(ctx, guildID, userID, s.rollXP()); err != nil {
		return err
	}

	// Stamp only after the award landed
	s.gate.Stamp(guildID, userID, now)

	return nil
}

// GetRank returns the user's progress and 1-based guild rank. Users without a
// stored record rank as (0 XP, level 1).
func (s *levelingService) GetRank(ctx context.Context, guildID, userID int64) (*models.RankInfo, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	record, err := uow.LevelRepository().Get(ctx, guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get level record: %w", err)
	}
	if record == nil {
		record = models.NewLevelRecord(userID, guildID)
	}

	higher, err := uow.LevelRepository().CountHigherRanked(ctx, guildID, record.Level, record.XP)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rank: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.RankInfo{
		UserID:  userID,
		GuildID: guildID,
		XP:      record.XP,
		Level:   record.Level,
		MaxXP:   MaxXP(record.Level),
		Rank:    higher + 1,
	}, nil
}

// Leaderboard returns the guild's top records with ranks resolved. Ties on
// (level, xp) share a rank number.
func (s *levelingService) Leaderboard(ctx context.Context, guildID int64, limit int) ([]*models.RankInfo, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.LevelRepository().LeaderboardTop(ctx, guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	entries := make([]*models.RankInfo, 0, len(records))
	rank := 0
	var prev *models.LevelRecord
	for i, record := range records {
		if prev == nil || record.Level != prev.Level || record.XP != prev.XP {
			rank = i + 1
		}
		entries = append(entries, &models.RankInfo{
			UserID:  record.UserID,
			GuildID: record.GuildID,
			XP:      record.XP,
			Level:   record.Level,
			MaxXP:   MaxXP(record.Level),
			Rank:    rank,
		})
		prev = record
	}

	return entries, nil
}

func (s *levelingService) getGuildConfig(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
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
