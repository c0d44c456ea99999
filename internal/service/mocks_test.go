package service

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/semiologia/semiologia-api/internal/domain/entity"
)

// ============================================================================
// Hand-rolled mocks for the repository interfaces used by the service tests.
// ============================================================================

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(id string, username, profilePicture string) error {
	args := m.Called(id, username, profilePicture)
	return args.Error(0)
}

func (m *MockUserRepository) SearchByUsername(query string, limit int) ([]entity.User, error) {
	args := m.Called(query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) ListLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CreditMatchResult(tx *gorm.DB, userID string, points int64, won bool) error {
	args := m.Called(tx, userID, points, won)
	return args.Error(0)
}

type MockCompetitionRepository struct {
	mock.Mock
}

func (m *MockCompetitionRepository) CreateWithChallenger(comp *entity.Competition, challengerID string) error {
	args := m.Called(comp, challengerID)
	return args.Error(0)
}

func (m *MockCompetitionRepository) GetByID(id string) (*entity.Competition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) GetWithPlayers(id string) (*entity.Competition, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) UpdateStatus(id string, from, to string) error {
	args := m.Called(id, from, to)
	return args.Error(0)
}

func (m *MockCompetitionRepository) AddPlayer(player *entity.CompetitionPlayer) error {
	args := m.Called(player)
	return args.Error(0)
}

func (m *MockCompetitionRepository) GetPlayers(competitionID string) ([]entity.CompetitionPlayer, error) {
	args := m.Called(competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CompetitionPlayer), args.Error(1)
}

func (m *MockCompetitionRepository) GetPlayer(competitionID, userID string) (*entity.CompetitionPlayer, error) {
	args := m.Called(competitionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CompetitionPlayer), args.Error(1)
}

func (m *MockCompetitionRepository) SubmitPlayerScore(competitionID, userID string, score, finalScore int) error {
	args := m.Called(competitionID, userID, score, finalScore)
	return args.Error(0)
}

func (m *MockCompetitionRepository) ListPendingFor(userID string) ([]entity.Competition, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) ListCompletedFor(userID string) ([]entity.Competition, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Competition), args.Error(1)
}

func (m *MockCompetitionRepository) Finalize(competitionID string, fn func(tx *gorm.DB, players []entity.CompetitionPlayer) error) error {
	args := m.Called(competitionID, fn)
	return args.Error(0)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(quiz *entity.Quiz) error {
	args := m.Called(quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(id string) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) GetWithQuestions(id string) (*entity.Quiz, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Quiz), args.Error(1)
}

func (m *MockQuizRepository) List(limit, offset int) ([]entity.Quiz, int64, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) ListByCategory(category string, limit, offset int) ([]entity.Quiz, int64, error) {
	args := m.Called(category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]entity.Quiz), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuizRepository) ListCategories() ([]string, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) CreateBatch(questions []entity.Question) error {
	args := m.Called(questions)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(id string) (*entity.Question, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByQuizID(quizID string) ([]entity.Question, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) CountByQuizID(quizID string) (int64, error) {
	args := m.Called(quizID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFriendRepository struct {
	mock.Mock
}

func (m *MockFriendRepository) ListFriends(userID string) ([]entity.Friend, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Friend), args.Error(1)
}

func (m *MockFriendRepository) AreFriends(userID, friendID string) (bool, error) {
	args := m.Called(userID, friendID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) CreateFriendship(userID, friendID string) error {
	args := m.Called(userID, friendID)
	return args.Error(0)
}

func (m *MockFriendRepository) DeleteFriendship(userID, friendID string) error {
	args := m.Called(userID, friendID)
	return args.Error(0)
}

func (m *MockFriendRepository) CreateRequest(request *entity.FriendRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

func (m *MockFriendRepository) GetRequestByID(id string) (*entity.FriendRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) ListPendingRequests(userID string) ([]entity.FriendRequest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.FriendRequest), args.Error(1)
}

func (m *MockFriendRepository) HasPendingRequest(toUserID, fromUserID string) (bool, error) {
	args := m.Called(toUserID, fromUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFriendRepository) UpdateRequestStatus(id string, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

// errRedisNil mimics a cache miss.
var errRedisNil = errors.New("cache: key not found")

// fakeCache is an in-memory stand-in for the Redis cache. A map plus a
// mutex-free single-goroutine contract is enough for the service tests.
type fakeCache struct {
	data map[string]interface{}
	// failing makes every call return an error, for fail-open paths.
	failing bool
	err     error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]interface{})}
}

func (c *fakeCache) Set(key string, value interface{}, _ time.Duration) error {
	if c.failing {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Get(key string) (string, error) {
	if c.failing {
		return "", c.err
	}
	if v, ok := c.data[key]; ok {
		return v.(string), nil
	}
	return "", errRedisNil
}

func (c *fakeCache) Delete(key string) error {
	if c.failing {
		return c.err
	}
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Increment(key string) (int64, error) {
	if c.failing {
		return 0, c.err
	}
	n, _ := c.data[key].(int64)
	n++
	c.data[key] = n
	return n, nil
}

func (c *fakeCache) SetJSON(key string, value interface{}, _ time.Duration) error {
	if c.failing {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) GetJSON(key string, dest interface{}) error {
	if c.failing {
		return c.err
	}
	if _, ok := c.data[key]; ok {
		return nil
	}
	return errRedisNil
}

func (c *fakeCache) Exists(key string) (bool, error) {
	if c.failing {
		return false, c.err
	}
	_, ok := c.data[key]
	return ok, nil
}

func (c *fakeCache) ExpireAt(key string, _ time.Time) error {
	if c.failing {
		return c.err
	}
	return nil
}

func (c *fakeCache) SetNX(key string, value interface{}, _ time.Duration) (bool, error) {
	if c.failing {
		return false, c.err
	}
	if _, ok := c.data[key]; ok {
		return false, nil
	}
	c.data[key] = value
	return true, nil
}

// recordingNotifier captures pushed events per user.
type recordingNotifier struct {
	events []notifiedEvent
}

type notifiedEvent struct {
	userID    string
	eventType string
}

func (n *recordingNotifier) NotifyUser(userID string, eventType string, _ interface{}) {
	n.events = append(n.events, notifiedEvent{userID: userID, eventType: eventType})
}

func (n *recordingNotifier) eventsFor(userID string) []string {
	var types []string
	for _, e := range n.events {
		if e.userID == userID {
			types = append(types, e.eventType)
		}
	}
	return types
}

// recordingEmail captures challenge invites.
type recordingEmail struct {
	invites []string // recipient addresses
	err     error
}

func (e *recordingEmail) SendChallengeInvite(_ context.Context, toEmail, _, _ string) error {
	e.invites = append(e.invites, toEmail)
	return e.err
}
