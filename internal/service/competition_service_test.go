package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
	"github.com/semiologia/semiologia-api/internal/domain/repository"
	apperrors "github.com/semiologia/semiologia-api/internal/pkg/errors"
	"github.com/semiologia/semiologia-api/internal/service/session"
	"github.com/semiologia/semiologia-api/internal/websocket"
)

const (
	challengerID  = "11111111-1111-4111-8111-111111111111"
	opponentID    = "22222222-2222-4222-8222-222222222222"
	quizID        = "33333333-3333-4333-8333-333333333333"
	competitionID = "44444444-4444-4444-8444-444444444444"
)

type competitionFixture struct {
	competitionRepo *MockCompetitionRepository
	questionRepo    *MockQuestionRepository
	quizRepo        *MockQuizRepository
	userRepo        *MockUserRepository
	cache           *fakeCache
	notifier        *recordingNotifier
	email           *recordingEmail
	sessions        *session.Manager
	svc             *CompetitionService
}

func newCompetitionFixture() *competitionFixture {
	f := &competitionFixture{
		competitionRepo: new(MockCompetitionRepository),
		questionRepo:    new(MockQuestionRepository),
		quizRepo:        new(MockQuizRepository),
		userRepo:        new(MockUserRepository),
		cache:           newFakeCache(),
		notifier:        &recordingNotifier{},
		email:           &recordingEmail{},
	}
	f.sessions = session.NewManager(nil, time.Hour)
	f.svc = NewCompetitionService(
		f.competitionRepo, f.questionRepo, f.quizRepo, f.userRepo,
		f.cache, f.sessions, f.notifier, f.email,
	)
	return f
}

func strPtr(s string) *string { return &s }

func intPtr(v int) *int { return &v }

// ============================================================================
// Challenge creation
// ============================================================================

func TestCreateChallenge_NotifiesOpponent(t *testing.T) {
	f := newCompetitionFixture()

	f.userRepo.On("GetByID", challengerID).Return(&entity.User{ID: challengerID, Username: "ana"}, nil)
	f.userRepo.On("GetByID", opponentID).Return(&entity.User{ID: opponentID, Email: "rival@test.com"}, nil)
	f.quizRepo.On("GetByID", quizID).Return(&entity.Quiz{ID: quizID, Title: "Ausculta"}, nil)
	f.competitionRepo.On("CreateWithChallenger", mock.AnythingOfType("*entity.Competition"), challengerID).Return(nil)

	comp, err := f.svc.CreateChallenge(challengerID, strPtr(opponentID), strPtr(quizID))
	require.NoError(t, err)
	assert.Equal(t, entity.CompetitionStatusPending, comp.Status)
	assert.Equal(t, challengerID, comp.ChallengerID)

	assert.Equal(t, []string{websocket.EventChallengeReceived}, f.notifier.eventsFor(opponentID))
	assert.Equal(t, []string{"rival@test.com"}, f.email.invites)
	f.competitionRepo.AssertExpectations(t)
}

func TestCreateChallenge_SelfChallengeRejected(t *testing.T) {
	f := newCompetitionFixture()
	f.userRepo.On("GetByID", challengerID).Return(&entity.User{ID: challengerID}, nil)

	_, err := f.svc.CreateChallenge(challengerID, strPtr(challengerID), nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	f.competitionRepo.AssertNotCalled(t, "CreateWithChallenger", mock.Anything, mock.Anything)
}

func TestCreateChallenge_OpenChallengeSkipsNotification(t *testing.T) {
	f := newCompetitionFixture()
	f.userRepo.On("GetByID", challengerID).Return(&entity.User{ID: challengerID}, nil)
	f.competitionRepo.On("CreateWithChallenger", mock.Anything, challengerID).Return(nil)

	_, err := f.svc.CreateChallenge(challengerID, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, f.notifier.events)
	assert.Empty(t, f.email.invites)
}

func TestCreateChallenge_UnknownOpponent(t *testing.T) {
	f := newCompetitionFixture()
	f.userRepo.On("GetByID", challengerID).Return(&entity.User{ID: challengerID}, nil)
	f.userRepo.On("GetByID", opponentID).Return(nil, apperrors.ErrNotFound)

	_, err := f.svc.CreateChallenge(challengerID, strPtr(opponentID), nil)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// ============================================================================
// Accept / reject
// ============================================================================

func TestAcceptChallenge_AddsSecondPlayer(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:           competitionID,
		ChallengerID: challengerID,
		OpponentID:   strPtr(opponentID),
		Status:       entity.CompetitionStatusPending,
		Players:      []entity.CompetitionPlayer{{CompetitionID: competitionID, UserID: challengerID}},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)
	f.competitionRepo.On("UpdateStatus", competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusAccepted).Return(nil)
	f.competitionRepo.On("AddPlayer", mock.MatchedBy(func(p *entity.CompetitionPlayer) bool {
		return p.CompetitionID == competitionID && p.UserID == opponentID && !p.Finished
	})).Return(nil)

	require.NoError(t, f.svc.AcceptChallenge(competitionID, opponentID))
	f.competitionRepo.AssertExpectations(t)
}

func TestAcceptChallenge_SecondTapIsNoOp(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:     competitionID,
		Status: entity.CompetitionStatusAccepted,
		Players: []entity.CompetitionPlayer{
			{CompetitionID: competitionID, UserID: challengerID},
			{CompetitionID: competitionID, UserID: opponentID},
		},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)

	require.NoError(t, f.svc.AcceptChallenge(competitionID, opponentID))
	f.competitionRepo.AssertNotCalled(t, "AddPlayer", mock.Anything)
	f.competitionRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptChallenge_RacingInsertIsNoOp(t *testing.T) {
	// Two devices accept simultaneously: the pre-check misses, the unique
	// constraint catches it, and the caller still sees success.
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:         competitionID,
		OpponentID: strPtr(opponentID),
		Status:     entity.CompetitionStatusPending,
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)
	f.competitionRepo.On("UpdateStatus", competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusAccepted).Return(apperrors.ErrConflict)
	f.competitionRepo.On("AddPlayer", mock.Anything).Return(repository.ErrAlreadyJoined)

	require.NoError(t, f.svc.AcceptChallenge(competitionID, opponentID))
}

func TestAcceptChallenge_ThirdJoinerRejected(t *testing.T) {
	// An open challenge stays listed after someone took the seat; a third
	// user must not be able to add another player row to the match.
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:           competitionID,
		ChallengerID: challengerID,
		Status:       entity.CompetitionStatusAccepted,
		Players: []entity.CompetitionPlayer{
			{CompetitionID: competitionID, UserID: challengerID},
			{CompetitionID: competitionID, UserID: opponentID},
		},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)

	err := f.svc.AcceptChallenge(competitionID, "55555555-5555-4555-8555-555555555555")
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	f.competitionRepo.AssertNotCalled(t, "AddPlayer", mock.Anything)
}

func TestAcceptChallenge_RosterFilledDuringJoin(t *testing.T) {
	// Two users race for the open seat: the loser's stale read shows a free
	// seat, but the insert finds the roster full under lock.
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:           competitionID,
		ChallengerID: challengerID,
		Status:       entity.CompetitionStatusPending,
		Players:      []entity.CompetitionPlayer{{CompetitionID: competitionID, UserID: challengerID}},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)
	f.competitionRepo.On("UpdateStatus", competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusAccepted).Return(apperrors.ErrConflict)
	f.competitionRepo.On("AddPlayer", mock.Anything).Return(repository.ErrMatchFull)

	err := f.svc.AcceptChallenge(competitionID, opponentID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAcceptChallenge_AfterRejectFails(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:         competitionID,
		OpponentID: strPtr(opponentID),
		Status:     entity.CompetitionStatusRejected,
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)

	assert.ErrorIs(t, f.svc.AcceptChallenge(competitionID, opponentID), apperrors.ErrConflict)
}

func TestAcceptChallenge_WrongRecipientForbidden(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:         competitionID,
		OpponentID: strPtr(opponentID),
		Status:     entity.CompetitionStatusPending,
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)

	assert.ErrorIs(t, f.svc.AcceptChallenge(competitionID, "55555555-5555-4555-8555-555555555555"), apperrors.ErrForbidden)
}

func TestRejectChallenge(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:         competitionID,
		OpponentID: strPtr(opponentID),
		Status:     entity.CompetitionStatusPending,
	}
	f.competitionRepo.On("GetByID", competitionID).Return(comp, nil)
	f.competitionRepo.On("UpdateStatus", competitionID, entity.CompetitionStatusPending, entity.CompetitionStatusRejected).Return(nil)

	require.NoError(t, f.svc.RejectChallenge(competitionID, opponentID))
	f.competitionRepo.AssertExpectations(t)
}

// ============================================================================
// Challenge lists
// ============================================================================

func TestListReceivedChallenges_FiltersJoinedAndQuizless(t *testing.T) {
	f := newCompetitionFixture()
	pending := []entity.Competition{
		{ID: "with-quiz", QuizID: strPtr(quizID), Status: entity.CompetitionStatusPending},
		{ID: "no-quiz", Status: entity.CompetitionStatusPending},
		{
			ID:     "already-joined",
			QuizID: strPtr(quizID),
			Status: entity.CompetitionStatusPending,
			Players: []entity.CompetitionPlayer{
				{UserID: opponentID},
			},
		},
	}
	f.competitionRepo.On("ListPendingFor", opponentID).Return(pending, nil)

	received, err := f.svc.ListReceivedChallenges(opponentID)
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "with-quiz", received[0].ID)
}

// ============================================================================
// Score submission and finish detection
// ============================================================================

func TestSubmitScore_FirstFinisherWaits(t *testing.T) {
	f := newCompetitionFixture()

	f.competitionRepo.On("GetPlayer", competitionID, challengerID).
		Return(&entity.CompetitionPlayer{CompetitionID: competitionID, UserID: challengerID}, nil)
	// 4/5 correct with bonus 8 -> 80 + 8 = 88.
	f.competitionRepo.On("SubmitPlayerScore", competitionID, challengerID, 4, 88).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return([]entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(88)},
		{UserID: opponentID, Finished: false},
	}, nil)

	require.NoError(t, f.svc.SubmitScore(competitionID, challengerID, 4, 5, 8))

	// The opponent hears "your rival finished", nobody hears "completed".
	assert.Equal(t, []string{websocket.EventOpponentFinished}, f.notifier.eventsFor(opponentID))
	assert.Empty(t, f.notifier.eventsFor(challengerID))
	f.competitionRepo.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
}

func TestSubmitScore_SecondFinisherTriggersFinalization(t *testing.T) {
	f := newCompetitionFixture()

	players := []entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(88)},
		{UserID: opponentID, Finished: true, FinalScore: intPtr(110)},
	}

	f.competitionRepo.On("GetPlayer", competitionID, opponentID).
		Return(&entity.CompetitionPlayer{CompetitionID: competitionID, UserID: opponentID}, nil)
	// 5/5 correct with bonus 10 -> 100 + 10 = 110.
	f.competitionRepo.On("SubmitPlayerScore", competitionID, opponentID, 5, 110).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return(players, nil)
	f.competitionRepo.On("Finalize", competitionID, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(tx *gorm.DB, players []entity.CompetitionPlayer) error)
			require.NoError(t, fn(nil, players))
		}).Return(nil)
	f.userRepo.On("CreditMatchResult", (*gorm.DB)(nil), challengerID, int64(88), false).Return(nil)
	f.userRepo.On("CreditMatchResult", (*gorm.DB)(nil), opponentID, int64(110), true).Return(nil)

	require.NoError(t, f.svc.SubmitScore(competitionID, opponentID, 5, 5, 10))

	// Both players hear the match completed.
	assert.Equal(t, []string{websocket.EventCompetitionCompleted}, f.notifier.eventsFor(challengerID))
	assert.Equal(t, []string{websocket.EventCompetitionCompleted}, f.notifier.eventsFor(opponentID))
	f.userRepo.AssertExpectations(t)
	f.competitionRepo.AssertExpectations(t)
}

func TestSubmitScore_DuplicateFinalizationSkipped(t *testing.T) {
	f := newCompetitionFixture()

	players := []entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(50)},
		{UserID: opponentID, Finished: true, FinalScore: intPtr(60)},
	}
	f.competitionRepo.On("GetPlayer", competitionID, opponentID).
		Return(&entity.CompetitionPlayer{CompetitionID: competitionID, UserID: opponentID}, nil)
	f.competitionRepo.On("SubmitPlayerScore", competitionID, opponentID, 3, 60).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return(players, nil)

	// Another submitter already claimed the finalize lock.
	claimed, err := f.cache.SetNX("competition:"+competitionID+":finalize", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, claimed)

	require.NoError(t, f.svc.SubmitScore(competitionID, opponentID, 3, 5, 0))
	f.competitionRepo.AssertNotCalled(t, "Finalize", mock.Anything, mock.Anything)
}

func TestSubmitScore_FinalizesWhenCacheDown(t *testing.T) {
	// The lock is an optimization: a dead Redis must not block finalization.
	f := newCompetitionFixture()
	f.cache.failing = true
	f.cache.err = errRedisNil

	players := []entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(50)},
		{UserID: opponentID, Finished: true, FinalScore: intPtr(60)},
	}
	f.competitionRepo.On("GetPlayer", competitionID, opponentID).
		Return(&entity.CompetitionPlayer{CompetitionID: competitionID, UserID: opponentID}, nil)
	f.competitionRepo.On("SubmitPlayerScore", competitionID, opponentID, 3, 60).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return(players, nil)
	f.competitionRepo.On("Finalize", competitionID, mock.Anything).Return(nil)

	require.NoError(t, f.svc.SubmitScore(competitionID, opponentID, 3, 5, 0))
	f.competitionRepo.AssertCalled(t, "Finalize", competitionID, mock.Anything)
}

func TestSubmitScore_NeverJoinedFails(t *testing.T) {
	f := newCompetitionFixture()
	f.competitionRepo.On("GetPlayer", competitionID, challengerID).Return(nil, apperrors.ErrNotFound)

	err := f.svc.SubmitScore(competitionID, challengerID, 3, 5, 0)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	f.competitionRepo.AssertNotCalled(t, "SubmitPlayerScore", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitScore_InvalidTotals(t *testing.T) {
	f := newCompetitionFixture()

	assert.ErrorIs(t, f.svc.SubmitScore(competitionID, challengerID, 0, 0, 0), apperrors.ErrValidation)
	assert.ErrorIs(t, f.svc.SubmitScore(competitionID, challengerID, 6, 5, 0), apperrors.ErrValidation)
}

// ============================================================================
// Completion polling
// ============================================================================

func TestCheckCompletion(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{ID: competitionID}
	f.competitionRepo.On("GetByID", competitionID).Return(comp, nil)

	f.competitionRepo.On("GetPlayers", competitionID).Return([]entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true},
	}, nil).Once()
	status, err := f.svc.CheckCompletion(competitionID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompletionWaiting, status)

	f.competitionRepo.On("GetPlayers", competitionID).Return([]entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true},
		{UserID: opponentID, Finished: true},
	}, nil).Once()
	status, err = f.svc.CheckCompletion(competitionID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompletionDone, status)
}

func TestCheckCompletion_UnknownCompetition(t *testing.T) {
	f := newCompetitionFixture()
	f.competitionRepo.On("GetByID", competitionID).Return(nil, apperrors.ErrNotFound)

	status, err := f.svc.CheckCompletion(competitionID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, entity.CompletionUnknown, status)
}

func TestPollCompletion_UpdatesSession(t *testing.T) {
	f := newCompetitionFixture()

	questions := []entity.Question{{Options: entity.OptionList{{Text: "a", Correct: true}, {Text: "b"}}}}
	sess, err := f.sessions.Start(challengerID, quizID, competitionID, questions)
	require.NoError(t, err)
	assert.Equal(t, entity.CompletionUnknown, sess.Completion())

	f.competitionRepo.On("GetByID", competitionID).Return(&entity.Competition{ID: competitionID}, nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return([]entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true},
		{UserID: opponentID, Finished: false},
	}, nil)

	status, err := f.svc.PollCompletion(sess.ID, challengerID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompletionWaiting, status)
	assert.Equal(t, entity.CompletionWaiting, sess.Completion())
}

// ============================================================================
// Play sessions over competitions
// ============================================================================

func TestStartSession_OnlyForJoinedPlayers(t *testing.T) {
	f := newCompetitionFixture()
	comp := &entity.Competition{
		ID:      competitionID,
		QuizID:  strPtr(quizID),
		Status:  entity.CompetitionStatusAccepted,
		Players: []entity.CompetitionPlayer{{UserID: challengerID}},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)

	_, err := f.svc.StartSession(competitionID, opponentID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestFullMatch_SessionsToRanking(t *testing.T) {
	// End to end through the services: both players run their sessions,
	// submit, the match finalizes and the ranking puts the faster perfect
	// run on top.
	f := newCompetitionFixture()

	questions := []entity.Question{
		{Options: entity.OptionList{{Text: "a", Correct: true}, {Text: "b"}}},
		{Options: entity.OptionList{{Text: "a", Correct: true}, {Text: "b"}}},
	}
	comp := &entity.Competition{
		ID:     competitionID,
		QuizID: strPtr(quizID),
		Status: entity.CompetitionStatusAccepted,
		Players: []entity.CompetitionPlayer{
			{UserID: challengerID},
			{UserID: opponentID},
		},
	}
	f.competitionRepo.On("GetWithPlayers", competitionID).Return(comp, nil)
	f.questionRepo.On("GetByQuizID", quizID).Return(questions, nil)

	// Challenger: one right, one wrong -> 50% + bonus 10 = 60.
	sessA, err := f.svc.StartSession(competitionID, challengerID)
	require.NoError(t, err)
	_, err = sessA.Answer(0)
	require.NoError(t, err)
	_, err = sessA.Answer(1)
	require.NoError(t, err)

	f.competitionRepo.On("GetPlayer", competitionID, challengerID).
		Return(&entity.CompetitionPlayer{UserID: challengerID}, nil)
	f.competitionRepo.On("SubmitPlayerScore", competitionID, challengerID, 1, 60).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return([]entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(60)},
		{UserID: opponentID},
	}, nil).Once()

	resultA, err := f.svc.SubmitSessionResult(sessA.ID, challengerID)
	require.NoError(t, err)
	assert.Equal(t, session.Result{Correct: 1, Total: 2, Bonus: 10}, resultA)

	// The session is gone after submission.
	_, err = f.svc.GetSession(sessA.ID, challengerID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	// Opponent: both right -> 100% + bonus 20 = 120.
	sessB, err := f.svc.StartSession(competitionID, opponentID)
	require.NoError(t, err)
	_, err = sessB.Answer(0)
	require.NoError(t, err)
	_, err = sessB.Answer(0)
	require.NoError(t, err)

	finalPlayers := []entity.CompetitionPlayer{
		{UserID: challengerID, Finished: true, FinalScore: intPtr(60)},
		{UserID: opponentID, Finished: true, FinalScore: intPtr(120)},
	}
	f.competitionRepo.On("GetPlayer", competitionID, opponentID).
		Return(&entity.CompetitionPlayer{UserID: opponentID}, nil)
	f.competitionRepo.On("SubmitPlayerScore", competitionID, opponentID, 2, 120).Return(nil)
	f.competitionRepo.On("GetPlayers", competitionID).Return(finalPlayers, nil)
	f.competitionRepo.On("Finalize", competitionID, mock.Anything).
		Run(func(args mock.Arguments) {
			fn := args.Get(1).(func(tx *gorm.DB, players []entity.CompetitionPlayer) error)
			require.NoError(t, fn(nil, finalPlayers))
		}).Return(nil)
	f.userRepo.On("CreditMatchResult", (*gorm.DB)(nil), challengerID, int64(60), false).Return(nil)
	f.userRepo.On("CreditMatchResult", (*gorm.DB)(nil), opponentID, int64(120), true).Return(nil)

	resultB, err := f.svc.SubmitSessionResult(sessB.ID, opponentID)
	require.NoError(t, err)
	assert.Equal(t, session.Result{Correct: 2, Total: 2, Bonus: 20}, resultB)

	f.competitionRepo.On("GetByID", competitionID).Return(comp, nil)
	ranking, err := f.svc.GetFinalRanking(competitionID)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, opponentID, ranking[0].UserID)
	assert.Equal(t, challengerID, ranking[1].UserID)

	f.userRepo.AssertExpectations(t)
}
