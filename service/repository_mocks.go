package service

import (
	"context"
	"sync"

	"seyobot/events"
	"seyobot/models"

	"github.com/stretchr/testify/mock"
)

// MockLevelRepository is a mock implementation of LevelRepository
type MockLevelRepository struct {
	mock.Mock
}

func (m *MockLevelRepository) Get(ctx context.Context, guildID, userID int64) (*models.LevelRecord, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LevelRecord), args.Error(1)
}

func (m *MockLevelRepository) Upsert(ctx context.Context, record *models.LevelRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLevelRepository) CountHigherRanked(ctx context.Context, guildID int64, level, xp int) (int, error) {
	args := m.Called(ctx, guildID, level, xp)
	return args.Int(0), args.Error(1)
}

func (m *MockLevelRepository) LeaderboardTop(ctx context.Context, guildID int64, limit int) ([]*models.LevelRecord, error) {
	args := m.Called(ctx, guildID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LevelRecord), args.Error(1)
}

// MockGuildConfigRepository is a mock implementation of GuildConfigRepository
type MockGuildConfigRepository struct {
	mock.Mock
}

func (m *MockGuildConfigRepository) Get(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigRepository) Update(ctx context.Context, config *models.GuildConfig) error {
	args := m.Called(ctx, config)
	return args.Error(0)
}

// MockSuggestionRepository is a mock implementation of SuggestionRepository
type MockSuggestionRepository struct {
	mock.Mock
}

func (m *MockSuggestionRepository) Create(ctx context.Context, suggestion *models.Suggestion) error {
	args := m.Called(ctx, suggestion)
	return args.Error(0)
}

func (m *MockSuggestionRepository) GetByMessageID(ctx context.Context, messageID int64) (*models.Suggestion, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Suggestion), args.Error(1)
}

func (m *MockSuggestionRepository) UpsertVote(ctx context.Context, vote *models.SuggestionVote) (*models.SuggestionVote, error) {
	args := m.Called(ctx, vote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuggestionVote), args.Error(1)
}

func (m *MockSuggestionRepository) UpdateTally(ctx context.Context, suggestionID int64) (*models.VoteCount, error) {
	args := m.Called(ctx, suggestionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteCount), args.Error(1)
}

// MockYouTubeChannelRepository is a mock implementation of YouTubeChannelRepository
type MockYouTubeChannelRepository struct {
	mock.Mock
}

func (m *MockYouTubeChannelRepository) Get(ctx context.Context, channelID string, guildID int64) (*models.YouTubeChannel, error) {
	args := m.Called(ctx, channelID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.YouTubeChannel), args.Error(1)
}

func (m *MockYouTubeChannelRepository) Create(ctx context.Context, channel *models.YouTubeChannel) error {
	args := m.Called(ctx, channel)
	return args.Error(0)
}

func (m *MockYouTubeChannelRepository) TrackedWithNotifyChannel(ctx context.Context) ([]*models.YouTubeChannel, map[int64]int64, error) {
	args := m.Called(ctx)
	var channels []*models.YouTubeChannel
	if args.Get(0) != nil {
		channels = args.Get(0).([]*models.YouTubeChannel)
	}
	var notify map[int64]int64
	if args.Get(1) != nil {
		notify = args.Get(1).(map[int64]int64)
	}
	return channels, notify, args.Error(2)
}

func (m *MockYouTubeChannelRepository) UpdateLastVideo(ctx context.Context, channelID string, guildID int64, videoID string) error {
	args := m.Called(ctx, channelID, guildID, videoID)
	return args.Error(0)
}

// MockVerificationRepository is a mock implementation of VerificationRepository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Get(ctx context.Context, guildID, userID int64) (*models.Verification, error) {
	args := m.Called(ctx, guildID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Verification), args.Error(1)
}

func (m *MockVerificationRepository) Upsert(ctx context.Context, verification *models.Verification) error {
	args := m.Called(ctx, verification)
	return args.Error(0)
}

func (m *MockVerificationRepository) UpdateStatus(ctx context.Context, guildID, userID int64, status models.VerificationStatus) error {
	args := m.Called(ctx, guildID, userID, status)
	return args.Error(0)
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	mu       sync.Mutex
	Recorded []events.Event
}

func (p *RecordingPublisher) Publish(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Recorded = append(p.Recorded, event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return the instances set via SetRepositories rather than going through
// mock.Called, so tests only configure Begin/Commit/Rollback expectations.
type MockUnitOfWork struct {
	mock.Mock

	levelRepo        LevelRepository
	guildConfigRepo  GuildConfigRepository
	suggestionRepo   SuggestionRepository
	youtubeRepo      YouTubeChannelRepository
	verificationRepo VerificationRepository
	eventBus         EventPublisher
}

// SetRepositories configures the repositories returned by the getters. Nil
// arguments are allowed for repositories the test never touches.
func (m *MockUnitOfWork) SetRepositories(
	levelRepo LevelRepository,
	guildConfigRepo GuildConfigRepository,
	suggestionRepo SuggestionRepository,
	youtubeRepo YouTubeChannelRepository,
	verificationRepo VerificationRepository,
) {
	m.levelRepo = levelRepo
	m.guildConfigRepo = guildConfigRepo
	m.suggestionRepo = suggestionRepo
	m.youtubeRepo = youtubeRepo
	m.verificationRepo = verificationRepo
	m.eventBus = &RecordingPublisher{}
}

// SetEventBus overrides the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) LevelRepository() LevelRepository {
	return m.levelRepo
}

func (m *MockUnitOfWork) GuildConfigRepository() GuildConfigRepository {
	return m.guildConfigRepo
}

func (m *MockUnitOfWork) SuggestionRepository() SuggestionRepository {
	return m.suggestionRepo
}

func (m *MockUnitOfWork) YouTubeChannelRepository() YouTubeChannelRepository {
	return m.youtubeRepo
}

func (m *MockUnitOfWork) VerificationRepository() VerificationRepository {
	return m.verificationRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockCompleter is a mock implementation of Completer
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockVideoProvider is a mock implementation of VideoProvider
type MockVideoProvider struct {
	mock.Mock
}

func (m *MockVideoProvider) ResolveChannel(ctx context.Context, channelURL string) (string, string, error) {
	args := m.Called(ctx, channelURL)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockVideoProvider) Latest(ctx context.Context, channelID string) (*models.Video, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Video), args.Error(1)
}
