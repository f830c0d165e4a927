package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Socialite/internal/auth"
	"Socialite/internal/core/validation"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(context.Context, *User) *User); ok {
		return fn(ctx, user), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfileStats(ctx context.Context, id string) (*ProfileStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ProfileStats), args.Error(1)
}

func (m *MockUserRepository) Follow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockUserRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	args := m.Called(ctx, followerID, followeeID)
	return args.Error(0)
}

func (m *MockUserRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	args := m.Called(ctx, followerID, followeeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListFollowers(ctx context.Context, id string, limit, offset int) ([]*User, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockUserRepository) ListFollowing(ctx context.Context, id string, limit, offset int) ([]*User, error) {
	args := m.Called(ctx, id, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, term string, limit, offset int) ([]*User, error) {
	args := m.Called(ctx, term, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*User), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID string) (string, time.Time, error) {
	args := m.Called(userID)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newTestService(repo *MockUserRepository, tokens *MockTokenIssuer) UserService {
	return NewUserService(repo, tokens, time.Second, nil)
}

func TestSignup_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockTokens := new(MockTokenIssuer)
	service := newTestService(mockRepo, mockTokens)

	userID := uuid.NewString()
	expires := time.Now().Add(time.Hour)

	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Username == "alice" &&
			u.Email == "alice@example.com" &&
			u.FullName == "alice" &&
			auth.CheckPassword(u.PasswordHash, "secret1") == nil
	})).Return(&User{ID: userID, Username: "alice", Email: "alice@example.com"}, nil)
	mockTokens.On("Issue", userID).Return("signed-token", expires, nil)

	resp, err := service.Signup(context.Background(), SignupRequest{
		Username: "  Alice ",
		Email:    "Alice@Example.com",
		Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, expires, resp.ExpiresAt)
	mockRepo.AssertExpectations(t)
	mockTokens.AssertExpectations(t)
}

func TestSignup_ValidationErrors(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTokenIssuer))

	tests := []struct {
		name  string
		req   SignupRequest
		field string
	}{
		{"missing username", SignupRequest{Email: "a@b.co", Password: "secret1"}, "username"},
		{"bad email", SignupRequest{Username: "alice", Email: "nope", Password: "secret1"}, "email"},
		{"short password", SignupRequest{Username: "alice", Email: "a@b.co", Password: "12345"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Signup(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve *validation.Error
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo, new(MockTokenIssuer))

	mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil, ErrEmailTaken)

	_, err := service.Signup(context.Background(), SignupRequest{
		Username: "alice", Email: "alice@example.com", Password: "secret1",
	})
	assert.True(t, IsConflict(err))
}

func TestSignin(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	user := &User{ID: uuid.NewString(), Email: "alice@example.com", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenIssuer)
		service := newTestService(mockRepo, mockTokens)

		mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)
		mockTokens.On("Issue", user.ID).Return("tok", time.Now(), nil)

		resp, err := service.Signin(context.Background(), SigninRequest{Email: "ALICE@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "tok", resp.Token)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))
		mockRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil)

		_, err := service.Signin(context.Background(), SigninRequest{Email: "alice@example.com", Password: "nope!!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))
		mockRepo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, ErrUserNotFound)

		_, err := service.Signin(context.Background(), SigninRequest{Email: "bob@example.com", Password: "secret1"})
		assert.True(t, IsNotFound(err))
	})
}

func TestGetProfile_WithViewer(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo, new(MockTokenIssuer))

	userID := uuid.NewString()
	viewerID := uuid.NewString()
	stats := &ProfileStats{PostCount: 3, FollowerCount: 2}

	mockRepo.On("GetByID", mock.Anything, userID).Return(&User{ID: userID, Username: "alice"}, nil)
	mockRepo.On("GetProfileStats", mock.Anything, userID).Return(stats, nil)
	mockRepo.On("IsFollowing", mock.Anything, viewerID, userID).Return(true, nil)

	profile, err := service.GetProfile(context.Background(), userID, viewerID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, stats, profile.Stats)
	require.NotNil(t, profile.Viewer)
	assert.True(t, profile.Viewer.Following)
}

func TestGetProfile_InvalidID(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTokenIssuer))

	_, err := service.GetProfile(context.Background(), "not-a-uuid", "")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	assert.True(t, IsValidationError(err))
}

func TestGetProfile_Timeout(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo, new(MockTokenIssuer))

	userID := uuid.NewString()
	mockRepo.On("GetByID", mock.Anything, userID).Return(nil, context.DeadlineExceeded)

	_, err := service.GetProfile(context.Background(), userID, "")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTimeout(err))
}

func TestUpdateProfile(t *testing.T) {
	userID := uuid.NewString()

	t.Run("other user is rejected", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))

		name := "mallory"
		_, err := service.UpdateProfile(context.Background(), uuid.NewString(), userID, UpdateProfileRequest{Username: &name})
		assert.ErrorIs(t, err, ErrNotAuthorized)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("uppercase username is rejected", func(t *testing.T) {
		service := newTestService(new(MockUserRepository), new(MockTokenIssuer))

		name := "Alice"
		_, err := service.UpdateProfile(context.Background(), userID, userID, UpdateProfileRequest{Username: &name})
		assert.True(t, IsValidationError(err))
	})

	t.Run("bio too long", func(t *testing.T) {
		service := newTestService(new(MockUserRepository), new(MockTokenIssuer))

		bio := string(make([]byte, 251))
		_, err := service.UpdateProfile(context.Background(), userID, userID, UpdateProfileRequest{Bio: &bio})
		assert.True(t, IsValidationError(err))
	})

	t.Run("applies only provided fields", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))

		existing := &User{ID: userID, Username: "alice", FullName: "Alice", Bio: "old"}
		mockRepo.On("GetByID", mock.Anything, userID).Return(existing, nil)
		mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*users.User")).
			Return(func(_ context.Context, u *User) *User { return u }, nil)

		bio := "<b>new</b> bio"
		updated, err := service.UpdateProfile(context.Background(), userID, userID, UpdateProfileRequest{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, "new bio", updated.Bio)
		assert.Equal(t, "alice", updated.Username)
		assert.Equal(t, "Alice", updated.FullName)
	})
}

func TestSocialLinks(t *testing.T) {
	userID := uuid.NewString()

	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo, new(MockTokenIssuer))

	existing := &User{ID: userID, SocialLinks: map[string]string{"twitter": "https://twitter.com/alice"}}
	mockRepo.On("GetByID", mock.Anything, userID).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*users.User")).
		Return(func(_ context.Context, u *User) *User { return u }, nil)

	updated, err := service.SetSocialLink(context.Background(), userID, userID, "GitHub", "https://github.com/alice")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/alice", updated.SocialLinks["github"])
	assert.Equal(t, "https://twitter.com/alice", updated.SocialLinks["twitter"])

	updated, err = service.RemoveSocialLink(context.Background(), userID, userID, "twitter")
	require.NoError(t, err)
	assert.NotContains(t, updated.SocialLinks, "twitter")

	_, err = service.SetSocialLink(context.Background(), userID, userID, "myspace", "https://myspace.com/alice")
	assert.True(t, IsValidationError(err))

	_, err = service.SetSocialLink(context.Background(), userID, userID, "github", "not a link")
	assert.True(t, IsValidationError(err))
}

func TestFollow(t *testing.T) {
	callerID := uuid.NewString()
	targetID := uuid.NewString()

	t.Run("self follow", func(t *testing.T) {
		service := newTestService(new(MockUserRepository), new(MockTokenIssuer))
		err := service.Follow(context.Background(), callerID, callerID)
		assert.ErrorIs(t, err, ErrCannotFollowSelf)
	})

	t.Run("already following", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))
		mockRepo.On("GetByID", mock.Anything, targetID).Return(&User{ID: targetID}, nil)
		mockRepo.On("Follow", mock.Anything, callerID, targetID).Return(ErrAlreadyFollowing)

		err := service.Follow(context.Background(), callerID, targetID)
		assert.ErrorIs(t, err, ErrAlreadyFollowing)
		assert.True(t, IsValidationError(err))
	})

	t.Run("target missing", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))
		mockRepo.On("GetByID", mock.Anything, targetID).Return(nil, ErrUserNotFound)

		err := service.Follow(context.Background(), callerID, targetID)
		assert.True(t, IsNotFound(err))
		mockRepo.AssertNotCalled(t, "Follow", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unfollow when not following", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		service := newTestService(mockRepo, new(MockTokenIssuer))
		mockRepo.On("GetByID", mock.Anything, targetID).Return(&User{ID: targetID}, nil)
		mockRepo.On("Unfollow", mock.Anything, callerID, targetID).Return(ErrNotFollowing)

		err := service.Unfollow(context.Background(), callerID, targetID)
		assert.ErrorIs(t, err, ErrNotFollowing)
	})
}

func TestListFollowers_NextPage(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo, new(MockTokenIssuer))

	userID := uuid.NewString()
	mockRepo.On("GetByID", mock.Anything, userID).Return(&User{ID: userID}, nil)

	// limit 2 on page 1 asks the store for 3 rows at offset 0
	mockRepo.On("ListFollowers", mock.Anything, userID, 3, 0).Return([]*User{
		{ID: "a", Username: "a"}, {ID: "b", Username: "b"}, {ID: "c", Username: "c"},
	}, nil)

	resp, err := service.ListFollowers(context.Background(), userID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 2)
	require.NotNil(t, resp.NextPage)
	assert.Equal(t, 2, *resp.NextPage)

	mockRepo.On("ListFollowing", mock.Anything, userID, 3, 2).Return([]*User{{ID: "d"}}, nil)
	resp, err = service.ListFollowing(context.Background(), userID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Users, 1)
	assert.Nil(t, resp.NextPage)
}

func TestSearchUsers_RequiresTerm(t *testing.T) {
	service := newTestService(new(MockUserRepository), new(MockTokenIssuer))

	_, err := service.SearchUsers(context.Background(), "   ", 1, 10)
	assert.True(t, IsValidationError(err))
}
