package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"Socialite/internal/auth"
	"Socialite/internal/core/pagination"
	"Socialite/internal/core/textutil"
	"Socialite/internal/core/validation"
)

const (
	defaultStoreTimeout = 10 * time.Second
	defaultListLimit    = 20
)

type userService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	logger   *slog.Logger
	timeout  time.Duration
}

// NewUserService creates a new user service.
// A zero storeTimeout uses the 10s default; a nil logger uses slog.Default().
func NewUserService(userRepo UserRepository, tokens TokenIssuer, storeTimeout time.Duration, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		timeout:  storeTimeout,
	}
}

// Signup creates an account and returns it with a session token.
func (s *userService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.Create(ctx, &User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.Username,
		SocialLinks:  map[string]string{},
	})
	if err != nil {
		return nil, s.storeErr(err)
	}

	s.logger.Info("user signed up", "user_id", user.ID, "username", user.Username)
	return s.authResponse(user)
}

// Signin checks credentials and returns a fresh session token.
func (s *userService) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, s.storeErr(err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to check password: %w", err)
	}

	return s.authResponse(user)
}

func (s *userService) authResponse(user *User) (*AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetProfile retrieves a user's profile with aggregated statistics.
func (s *userService) GetProfile(ctx context.Context, userID, viewerID string) (*ProfileViewDetailed, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	stats, err := s.userRepo.GetProfileStats(ctx, userID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	profile := &ProfileViewDetailed{User: user, Stats: stats}

	if viewerID != "" && viewerID != userID {
		following, err := s.userRepo.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			// Viewer state is decoration; the profile is still useful without it.
			s.logger.Warn("failed to load viewer follow state",
				"viewer_id", viewerID, "user_id", userID, "error", err)
		} else {
			profile.Viewer = &ViewerState{Following: following}
		}
	}

	return profile, nil
}

// UpdateProfile applies the non-nil fields of req to the caller's own profile.
func (s *userService) UpdateProfile(ctx context.Context, callerID, userID string, req UpdateProfileRequest) (*User, error) {
	if err := s.authorizeSelf(callerID, userID); err != nil {
		return nil, err
	}

	if req.Username != nil {
		v := strings.TrimSpace(*req.Username)
		req.Username = &v
	}
	if req.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*req.Email))
		req.Email = &v
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.storeErr(err)
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FullName != nil {
		user.FullName = textutil.Sanitize(*req.FullName)
	}
	if req.Bio != nil {
		user.Bio = textutil.Sanitize(*req.Bio)
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return updated, nil
}

// DeleteProfile removes the caller's own account. Posts, comments, likes and
// follow edges go with it.
func (s *userService) DeleteProfile(ctx context.Context, callerID, userID string) error {
	if err := s.authorizeSelf(callerID, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return s.storeErr(err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// SetSocialLink adds or replaces the link for platform.
func (s *userService) SetSocialLink(ctx context.Context, callerID, userID, platform, link string) (*User, error) {
	if err := s.authorizeSelf(callerID, userID); err != nil {
		return nil, err
	}

	platform = strings.ToLower(strings.TrimSpace(platform))
	if err := validatePlatform(platform); err != nil {
		return nil, err
	}
	link = strings.TrimSpace(link)
	if err := validation.Var("link", link, "required,http_url"); err != nil {
		return nil, err
	}

	return s.modifySocialLinks(ctx, userID, func(links map[string]string) {
		links[platform] = link
	})
}

// RemoveSocialLink deletes the link for platform. Removing an absent link is a no-op.
func (s *userService) RemoveSocialLink(ctx context.Context, callerID, userID, platform string) (*User, error) {
	if err := s.authorizeSelf(callerID, userID); err != nil {
		return nil, err
	}

	platform = strings.ToLower(strings.TrimSpace(platform))
	if err := validatePlatform(platform); err != nil {
		return nil, err
	}

	return s.modifySocialLinks(ctx, userID, func(links map[string]string) {
		delete(links, platform)
	})
}

func (s *userService) modifySocialLinks(ctx context.Context, userID string, apply func(map[string]string)) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, s.storeErr(err)
	}
	if user.SocialLinks == nil {
		user.SocialLinks = map[string]string{}
	}
	apply(user.SocialLinks)

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return updated, nil
}

// Follow makes the caller follow userID.
func (s *userService) Follow(ctx context.Context, callerID, userID string) error {
	if err := s.validateFollow(callerID, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return s.storeErr(err)
	}
	if err := s.userRepo.Follow(ctx, callerID, userID); err != nil {
		return s.storeErr(err)
	}
	return nil
}

// Unfollow removes the caller's follow of userID.
func (s *userService) Unfollow(ctx context.Context, callerID, userID string) error {
	if err := s.validateFollow(callerID, userID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return s.storeErr(err)
	}
	if err := s.userRepo.Unfollow(ctx, callerID, userID); err != nil {
		return s.storeErr(err)
	}
	return nil
}

func (s *userService) validateFollow(callerID, userID string) error {
	if callerID == "" {
		return ErrNotAuthorized
	}
	if err := validateUserID(userID); err != nil {
		return err
	}
	if callerID == userID {
		return ErrCannotFollowSelf
	}
	return nil
}

// ListFollowers returns a page of the users following userID.
func (s *userService) ListFollowers(ctx context.Context, userID string, page, limit int) (*ListUsersResponse, error) {
	return s.listRelations(ctx, userID, page, limit, s.userRepo.ListFollowers)
}

// ListFollowing returns a page of the users userID follows.
func (s *userService) ListFollowing(ctx context.Context, userID string, page, limit int) (*ListUsersResponse, error) {
	return s.listRelations(ctx, userID, page, limit, s.userRepo.ListFollowing)
}

func (s *userService) listRelations(
	ctx context.Context,
	userID string,
	page, limit int,
	list func(ctx context.Context, id string, limit, offset int) ([]*User, error),
) (*ListUsersResponse, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	p := pagination.New(page, limit, defaultListLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, s.storeErr(err)
	}

	// Fetch one extra row to learn whether another page exists.
	found, err := list(ctx, userID, p.Limit+1, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}
	return toListResponse(found, p), nil
}

// SearchUsers matches term against usernames and full names.
func (s *userService) SearchUsers(ctx context.Context, term string, page, limit int) (*ListUsersResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, validation.New("searchTerm", "is required")
	}
	p := pagination.New(page, limit, defaultListLimit)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	found, err := s.userRepo.Search(ctx, term, p.Limit+1, p.Offset())
	if err != nil {
		return nil, s.storeErr(err)
	}
	return toListResponse(found, p), nil
}

func toListResponse(found []*User, p pagination.Page) *ListUsersResponse {
	next := p.Next(len(found))
	if len(found) > p.Limit {
		found = found[:p.Limit]
	}
	views := make([]*AuthorView, 0, len(found))
	for _, u := range found {
		views = append(views, u.AuthorView())
	}
	return &ListUsersResponse{Users: views, NextPage: next}
}

func (s *userService) authorizeSelf(callerID, userID string) error {
	if err := validateUserID(userID); err != nil {
		return err
	}
	if callerID == "" || callerID != userID {
		return ErrNotAuthorized
	}
	return nil
}

func (s *userService) storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func validateUserID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidUserID
	}
	return nil
}

func validatePlatform(platform string) error {
	if !slices.Contains(SupportedSocialPlatforms, platform) {
		return validation.New("platform", "must be one of: "+strings.Join(SupportedSocialPlatforms, ", "))
	}
	return nil
}
