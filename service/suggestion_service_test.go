package service

import (
	"context"
	"testing"

	"seyobot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newSuggestionFixture() (SuggestionService, *MockSuggestionRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockRepo := new(MockSuggestionRepository)

	mockUoW.SetRepositories(nil, nil, mockRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", context.Background()).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	return NewSuggestionService(mockFactory), mockRepo
}

func TestSuggestionService_CreateSuggestion(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo := newSuggestionFixture()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(s *models.Suggestion) bool {
		return s.MessageID == 999 && s.GuildID == 100 && s.AuthorID == 200 && s.Content == "add a karaoke night"
	})).Return(nil)

	suggestion, err := svc.CreateSuggestion(ctx, 100, 200, 999, "add a karaoke night")

	assert.NoError(t, err)
	assert.Equal(t, int64(999), suggestion.MessageID)
	mockRepo.AssertExpectations(t)
}

func TestSuggestionService_CreateSuggestion_EmptyContent(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo := newSuggestionFixture()

	_, err := svc.CreateSuggestion(ctx, 100, 200, 999, "  \n ")

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestSuggestionService_Vote(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo := newSuggestionFixture()

	mockRepo.On("GetByMessageID", ctx, int64(999)).Return(&models.Suggestion{
		MessageID: 999, GuildID: 100,
	}, nil)
	mockRepo.On("UpsertVote", ctx, mock.MatchedBy(func(v *models.SuggestionVote) bool {
		return v.UserID == 200 && v.SuggestionID == 999 && v.Vote == models.VoteUp
	})).Return(nil, nil)
	mockRepo.On("UpdateTally", ctx, int64(999)).Return(&models.VoteCount{Upvotes: 3, Downvotes: 1}, nil)

	tally, err := svc.Vote(ctx, 999, 200, models.VoteUp)

	assert.NoError(t, err)
	assert.Equal(t, 3, tally.Upvotes)
	assert.Equal(t, 1, tally.Downvotes)
	mockRepo.AssertExpectations(t)
}

func TestSuggestionService_Vote_InvalidValue(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo := newSuggestionFixture()

	for _, vote := range []int{0, 2, -3} {
		_, err := svc.Vote(ctx, 999, 200, vote)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
	mockRepo.AssertNotCalled(t, "UpsertVote")
}

func TestSuggestionService_Vote_UnknownSuggestion(t *testing.T) {
	ctx := context.Background()
	svc, mockRepo := newSuggestionFixture()

	mockRepo.On("GetByMessageID", ctx, int64(999)).Return(nil, nil)

	_, err := svc.Vote(ctx, 999, 200, models.VoteDown)

	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)
	mockRepo.AssertNotCalled(t, "UpsertVote")
}
