package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"seyobot/models"

	"github.com/stretchr/testify/assert"
)

func newAIChatFixture(limit int) (*aiChatService, *MockUnitOfWork, *MockGuildConfigRepository, *MockCompleter) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockConfigRepo := new(MockGuildConfigRepository)
	mockCompleter := new(MockCompleter)

	mockUoW.SetRepositories(nil, mockConfigRepo, nil, nil, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	svc := NewAIChatService(mockFactory, mockCompleter, NewRateLimiter(limit, time.Minute)).(*aiChatService)
	return svc, mockUoW, mockConfigRepo, mockCompleter
}

func TestAIChatService_Relay_Success(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(5)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{
		GuildID:   100,
		AIEnabled: true,
	}, nil)
	mockCompleter.On("Complete", ctx, "hello there").Return("General Kenobi", nil)

	reply, err := svc.Relay(ctx, 100, 1, 200, "hello there")

	assert.NoError(t, err)
	assert.Equal(t, "General Kenobi", reply)
	mockCompleter.AssertExpectations(t)
}

func TestAIChatService_Relay_DisabledGuild(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(5)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{GuildID: 100}, nil)

	_, err := svc.Relay(ctx, 100, 1, 200, "hello")

	assert.ErrorIs(t, err, ErrFeatureDisabled)
	mockCompleter.AssertNotCalled(t, "Complete")
}

func TestAIChatService_Relay_UnconfiguredGuild(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(5)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(nil, nil)

	_, err := svc.Relay(ctx, 100, 1, 200, "hello")

	assert.ErrorIs(t, err, ErrFeatureDisabled)
	mockCompleter.AssertNotCalled(t, "Complete")
}

func TestAIChatService_Relay_WrongChannel(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(5)

	aiChannel := int64(42)
	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{
		GuildID:     100,
		AIEnabled:   true,
		AIChannelID: &aiChannel,
	}, nil)

	_, err := svc.Relay(ctx, 100, 99, 200, "hello")
	assert.ErrorIs(t, err, ErrFeatureDisabled)

	// The configured channel works
	mockCompleter.On("Complete", ctx, "hello").Return("hi", nil)
	reply, err := svc.Relay(ctx, 100, 42, 200, "hello")
	assert.NoError(t, err)
	assert.Equal(t, "hi", reply)
}

func TestAIChatService_Relay_RateLimit(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(2)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{
		GuildID:   100,
		AIEnabled: true,
	}, nil)
	mockCompleter.On("Complete", ctx, "q").Return("a", nil)

	base := time.Now()
	svc.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		_, err := svc.Relay(ctx, 100, 1, 200, "q")
		assert.NoError(t, err)
	}

	// Budget exhausted inside the window
	_, err := svc.Relay(ctx, 100, 1, 200, "q")
	assert.ErrorIs(t, err, ErrRateLimited)

	// Another user keeps their own budget
	_, err = svc.Relay(ctx, 100, 1, 201, "q")
	assert.NoError(t, err)

	// A fresh window resets the count
	svc.now = func() time.Time { return base.Add(61 * time.Second) }
	_, err = svc.Relay(ctx, 100, 1, 200, "q")
	assert.NoError(t, err)
}

func TestAIChatService_Relay_RateLimitScopedPerGuild(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(2)

	for _, guildID := range []int64{100, 101} {
		mockConfigRepo.On("Get", ctx, guildID).Return(&models.GuildConfig{
			GuildID:   guildID,
			AIEnabled: true,
		}, nil)
	}
	mockCompleter.On("Complete", ctx, "q").Return("a", nil)

	base := time.Now()
	svc.now = func() time.Time { return base }

	// Drain the user's budget in guild 100
	for i := 0; i < 2; i++ {
		_, err := svc.Relay(ctx, 100, 1, 200, "q")
		assert.NoError(t, err)
	}
	_, err := svc.Relay(ctx, 100, 1, 200, "q")
	assert.ErrorIs(t, err, ErrRateLimited)

	// The same user still has a full budget in another guild
	for i := 0; i < 2; i++ {
		_, err := svc.Relay(ctx, 101, 1, 200, "q")
		assert.NoError(t, err)
	}
	_, err = svc.Relay(ctx, 101, 1, 200, "q")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestAIChatService_Relay_EmptyPrompt(t *testing.T) {
	ctx := context.Background()
	svc, _, _, mockCompleter := newAIChatFixture(5)

	_, err := svc.Relay(ctx, 100, 1, 200, "   ")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockCompleter.AssertNotCalled(t, "Complete")
}

func TestAIChatService_Relay_CompleterError(t *testing.T) {
	ctx := context.Background()
	svc, _, mockConfigRepo, mockCompleter := newAIChatFixture(5)

	mockConfigRepo.On("Get", ctx, int64(100)).Return(&models.GuildConfig{
		GuildID:   100,
		AIEnabled: true,
	}, nil)
	mockCompleter.On("Complete", ctx, "q").Return("", fmt.Errorf("upstream timeout"))

	_, err := svc.Relay(ctx, 100, 1, 200, "q")
	assert.ErrorContains(t, err, "failed to get completion")
}
