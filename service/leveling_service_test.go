package service

import (
	"context"
	"testing"
	"time"

	"seyobot/config"
	"seyobot/events"
	"seyobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testConfig() *config.Config {
	return &config.Config{
		XPCooldown: 60 * time.Second,
		XPAwardMin: 15,
		XPAwardMax: 25,
	}
}

func newLevelingFixture() (*levelingService, *MockUnitOfWork, *MockUnitOfWorkFactory, *MockLevelRepository, *MockGuildConfigRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockLevelRepo := new(MockLevelRepository)
	mockConfigRepo := new(MockGuildConfigRepository)

	mockUoW.SetRepositories(mockLevelRepo, mockConfigRepo, nil, nil, nil)

	svc := NewLevelingService(mockFactory, NewCooldownGate(60*time.Second), testConfig()).(*levelingService)
	return svc, mockUoW, mockFactory, mockLevelRepo, mockConfigRepo
}

func TestMaxXP_Curve(t *testing.T) {
	assert.Equal(t, 100, MaxXP(1))
	assert.Equal(t, 400, MaxXP(2))
	assert.Equal(t, 900, MaxXP(3))
	assert.Equal(t, 250000, MaxXP(50))
}

func TestLevelingService_AwardXP_NewUser(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)
	mockLevelRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.LevelRecord) bool {
		return r.UserID == 200 && r.GuildID == 100 && r.XP == 50 && r.Level == 1
	})).Return(nil)

	record, gained, err := svc.AwardXP(ctx, 100, 200, 50)

	assert.NoError(t, err)
	assert.Equal(t, 50, record.XP)
	assert.Equal(t, 1, record.Level)
	assert.Equal(t, 0, gained)

	mockFactory.AssertExpectations(t)
	mockUoW.AssertExpectations(t)
	mockLevelRepo.AssertExpectations(t)
}

func TestLevelingService_AwardXP_SingleLevelUp(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)
	mockLevelRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.LevelRecord) bool {
		return r.XP == 150 && r.Level == 2
	})).Return(nil)

	record, gained, err := svc.AwardXP(ctx, 100, 200, 250)

	assert.NoError(t, err)
	assert.Equal(t, 150, record.XP)
	assert.Equal(t, 2, record.Level)
	assert.Equal(t, 1, gained)

	// Level-up event rides the unit of work's bus
	bus := mockUoW.EventBus().(*RecordingPublisher)
	assert.Len(t, bus.Recorded, 1)
	event := bus.Recorded[0].(events.LevelUpEvent)
	assert.Equal(t, 1, event.OldLevel)
	assert.Equal(t, 2, event.NewLevel)
	assert.Equal(t, 150, event.XP)
	assert.Equal(t, 400, event.MaxXP)

	mockLevelRepo.AssertExpectations(t)
}

func TestLevelingService_AwardXP_MultiLevelCarry(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// 600 from scratch: 600-100 -> level 2 at 500, 500-400 -> level 3 at 100
	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)
	mockLevelRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.LevelRecord) bool {
		return r.XP == 100 && r.Level == 3
	})).Return(nil)

	record, gained, err := svc.AwardXP(ctx, 100, 200, 600)

	assert.NoError(t, err)
	assert.Equal(t, 100, record.XP)
	assert.Equal(t, 3, record.Level)
	assert.Equal(t, 2, gained)

	bus := mockUoW.EventBus().(*RecordingPublisher)
	assert.Len(t, bus.Recorded, 1)
	event := bus.Recorded[0].(events.LevelUpEvent)
	assert.Equal(t, 1, event.OldLevel)
	assert.Equal(t, 3, event.NewLevel)
}

func TestLevelingService_AwardXP_NoEventWithoutLevelUp(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(&models.LevelRecord{
		UserID: 200, GuildID: 100, XP: 10, Level: 5,
	}, nil)
	mockLevelRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	_, gained, err := svc.AwardXP(ctx, 100, 200, 20)

	assert.NoError(t, err)
	assert.Equal(t, 0, gained)

	bus := mockUoW.EventBus().(*RecordingPublisher)
	assert.Empty(t, bus.Recorded)
}

func TestLevelingService_AwardXP_RejectsNonPositiveAmount(t *testing.T) {
	ctx := context.Background()
	svc, _, mockFactory, _, _ := newLevelingFixture()

	for _, amount := range []int{0, -5} {
		_, _, err := svc.AwardXP(ctx, 100, 200, amount)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}

	// No transaction was opened
	mockFactory.AssertNotCalled(t, "Create")
}

func TestLevelingService_RemoveXP_LevelDown(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// (50 XP, level 3) minus 200: -150, borrow MaxXP(2)=400 -> (250, level 2)
	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(&models.LevelRecord{
		UserID: 200, GuildID: 100, XP: 50, Level: 3,
	}, nil)
	mockLevelRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.LevelRecord) bool {
		return r.XP == 250 && r.Level == 2
	})).Return(nil)

	record, err := svc.RemoveXP(ctx, 100, 200, 200)

	assert.NoError(t, err)
	assert.Equal(t, 250, record.XP)
	assert.Equal(t, 2, record.Level)

	mockLevelRepo.AssertExpectations(t)
}

func TestLevelingService_RemoveXP_ClampsAtFloor(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(&models.LevelRecord{
		UserID: 200, GuildID: 100, XP: 30, Level: 2,
	}, nil)
	mockLevelRepo.On("Upsert", ctx, mock.MatchedBy(func(r *models.LevelRecord) bool {
		return r.XP == 0 && r.Level == 1
	})).Return(nil)

	// 30 + MaxXP(1) = 130 total progress, removing 500 bottoms out
	record, err := svc.RemoveXP(ctx, 100, 200, 500)

	assert.NoError(t, err)
	assert.Equal(t, 0, record.XP)
	assert.Equal(t, 1, record.Level)
}

func TestLevelingService_RemoveXP_UnknownUser(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)

	_, err := svc.RemoveXP(ctx, 100, 200, 50)

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockLevelRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLevelingService_HandleMessage_RespectsCooldown(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, mockConfigRepo := newLevelingFixture()
	svc.rollXP = func() int { return 20 }

	levelChannel := int64(555)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{
		GuildID:        100,
		LevelChannelID: &levelChannel,
	}, nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)
	mockLevelRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	start := time.Now()

	// First message awards
	assert.NoError(t, svc.HandleMessage(ctx, 100, 200, start))
	mockLevelRepo.AssertNumberOfCalls(t, "Upsert", 1)

	// Inside the window: silently skipped
	assert.NoError(t, svc.HandleMessage(ctx, 100, 200, start.Add(30*time.Second)))
	mockLevelRepo.AssertNumberOfCalls(t, "Upsert", 1)

	// Window elapsed: awards again
	assert.NoError(t, svc.HandleMessage(ctx, 100, 200, start.Add(61*time.Second)))
	mockLevelRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestLevelingService_HandleMessage_InactiveGuild(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, mockConfigRepo := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// No level channel configured means leveling is off
	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{GuildID: 100}, nil)

	assert.NoError(t, svc.HandleMessage(ctx, 100, 200, time.Now()))
	mockLevelRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLevelingService_HandleMessage_UnconfiguredGuild(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, mockConfigRepo := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(nil, nil)

	assert.NoError(t, svc.HandleMessage(ctx, 100, 200, time.Now()))
	mockLevelRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLevelingService_GetRank_ExistingUser(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(&models.LevelRecord{
		UserID: 200, GuildID: 100, XP: 150, Level: 4,
	}, nil)
	mockLevelRepo.On("CountHigherRanked", ctx, int64(100), 4, 150).Return(2, nil)

	rank, err := svc.GetRank(ctx, 100, 200)

	assert.NoError(t, err)
	assert.Equal(t, 3, rank.Rank)
	assert.Equal(t, 4, rank.Level)
	assert.Equal(t, 150, rank.XP)
	assert.Equal(t, 1600, rank.MaxXP)
}

func TestLevelingService_GetRank_DefaultsForAbsentRecord(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("Get", ctx, int64(100), int64(200)).Return(nil, nil)
	mockLevelRepo.On("CountHigherRanked", ctx, int64(100), 1, 0).Return(7, nil)

	rank, err := svc.GetRank(ctx, 100, 200)

	assert.NoError(t, err)
	assert.Equal(t, 0, rank.XP)
	assert.Equal(t, 1, rank.Level)
	assert.Equal(t, 100, rank.MaxXP)
	assert.Equal(t, 8, rank.Rank)
}

func TestLevelingService_Leaderboard_TiesShareRank(t *testing.T) {
	ctx := context.Background()
	svc, mockUoW, mockFactory, mockLevelRepo, _ := newLevelingFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockLevelRepo.On("LeaderboardTop", ctx, int64(100), 10).Return([]*models.LevelRecord{
		{UserID: 1, GuildID: 100, Level: 5, XP: 300},
		{UserID: 2, GuildID: 100, Level: 5, XP: 100},
		{UserID: 3, GuildID: 100, Level: 5, XP: 100},
		{UserID: 4, GuildID: 100, Level: 2, XP: 50},
	}, nil)

	entries, err := svc.Leaderboard(ctx, 100, 10)

	assert.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 2, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank)
}
