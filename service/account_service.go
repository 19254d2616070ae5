package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"prepwise-backend/models"
	"prepwise-backend/repository"
	"prepwise-backend/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

// AccountService implements signup/login, credential changes, and the
// cascading account deletion.
type AccountService struct {
	userRepo      repository.UserRepository
	profileRepo   repository.ProfileRepository
	analyticsRepo repository.AnalyticsRepository
	sessionRepo   repository.SessionRepository
	interviewRepo repository.InterviewRepository
	questionRepo  repository.QuestionRepository
	avatarStorage storage.Storage
	bcryptCost    int
}

// AccountServiceOption is a functional option for AccountService
type AccountServiceOption func(*AccountService)

// AccountWithUserRepository sets the user repository
func AccountWithUserRepository(repo repository.UserRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.userRepo = repo
	}
}

// AccountWithProfileRepository sets the profile repository
func AccountWithProfileRepository(repo repository.ProfileRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.profileRepo = repo
	}
}

// AccountWithAnalyticsRepository sets the analytics repository
func AccountWithAnalyticsRepository(repo repository.AnalyticsRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.analyticsRepo = repo
	}
}

// AccountWithSessionRepository sets the session repository
func AccountWithSessionRepository(repo repository.SessionRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.sessionRepo = repo
	}
}

// AccountWithInterviewRepository sets the interview repository
func AccountWithInterviewRepository(repo repository.InterviewRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.interviewRepo = repo
	}
}

// AccountWithQuestionRepository sets the question repository
func AccountWithQuestionRepository(repo repository.QuestionRepository) AccountServiceOption {
	return func(s *AccountService) {
		s.questionRepo = repo
	}
}

// AccountWithAvatarStorage sets the avatar store cleaned up on deletion
func AccountWithAvatarStorage(store storage.Storage) AccountServiceOption {
	return func(s *AccountService) {
		s.avatarStorage = store
	}
}

// AccountWithBcryptCost sets the password hashing work factor
func AccountWithBcryptCost(cost int) AccountServiceOption {
	return func(s *AccountService) {
		s.bcryptCost = cost
	}
}

// NewAccountService creates a new account service
func NewAccountService(opts ...AccountServiceOption) *AccountService {
	s := &AccountService{bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a user, creating the User, Profile, and Analytics
// records and opening a session. The three creates are not atomic across
// a crash; a request that fails midway can leave a partial account.
func (s *AccountService) Signup(ctx context.Context, email, password, fullName string) (*models.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.createDefaultRecords(ctx, user, nil); err != nil {
		return nil, err
	}

	return s.openSession(ctx, user)
}

func (s *AccountService) createDefaultRecords(ctx context.Context, user *models.User, avatarURL *string) error {
	profile := &models.Profile{
		ID:                      user.ID,
		UserID:                  user.ID,
		Email:                   user.Email,
		FullName:                user.FullName,
		AvatarURL:               avatarURL,
		ExperienceLevel:         "beginner",
		SkillLevel:              models.SkillBeginner,
		PreferredIndustries:     []string{},
		NotificationPreferences: models.NotificationPreferences{},
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	analytics := &models.Analytics{UserID: user.ID}
	if err := s.analyticsRepo.Create(ctx, analytics); err != nil {
		return fmt.Errorf("failed to create analytics: %w", err)
	}
	return nil
}

func (s *AccountService) openSession(ctx context.Context, user *models.User) (*models.Session, error) {
	session := &models.Session{
		Token:  uuid.NewString(),
		UserID: user.ID,
		Email:  user.Email,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// Login verifies credentials and opens a session
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// Logout destroys the session. Idempotent; an unknown token is a no-op.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

// ChangePassword replaces the stored hash after verifying the old password
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePasswordHash(ctx, userID, string(hash))
}

// DeleteAccount verifies the password and cascades deletion of the user,
// their profile, analytics, sessions, interviews, questions, and any
// stored avatar.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}

	interviews, err := s.interviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list interviews: %w", err)
	}
	for _, interview := range interviews {
		if err := s.questionRepo.DeleteByInterviewID(ctx, interview.ID); err != nil {
			log.Printf("Warning: failed to delete questions for interview %s: %v", interview.ID, err)
		}
		if err := s.interviewRepo.Delete(ctx, interview.ID); err != nil {
			log.Printf("Warning: failed to delete interview %s: %v", interview.ID, err)
		}
	}

	if err := s.analyticsRepo.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("Warning: failed to delete analytics for user %s: %v", userID, err)
	}
	if err := s.profileRepo.Delete(ctx, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("Warning: failed to delete profile for user %s: %v", userID, err)
	}
	if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
		log.Printf("Warning: failed to delete sessions for user %s: %v", userID, err)
	}
	if s.avatarStorage != nil {
		if err := s.avatarStorage.DeleteAvatar(ctx, userID); err != nil {
			log.Printf("Warning: failed to delete avatar for user %s: %v", userID, err)
		}
	}

	return s.userRepo.Delete(ctx, userID)
}

// ExportData is the full account dump returned by the export endpoint
type ExportData struct {
	User       *models.User        `json:"user"`
	Profile    *models.Profile     `json:"profile"`
	Interviews []*models.Interview `json:"interviews"`
	Questions  []*models.Question  `json:"questions"`
	Analytics  *models.Analytics   `json:"analytics"`
	ExportedAt time.Time           `json:"exported_at"`
}

// Export assembles the user's full data dump. The password hash never
// serializes (User.PasswordHash carries a json:"-" tag).
func (s *AccountService) Export(ctx context.Context, userID uuid.UUID) (*ExportData, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	data := &ExportData{
		User:       user,
		ExportedAt: time.Now(),
	}

	if profile, err := s.profileRepo.GetByUserID(ctx, userID); err == nil {
		data.Profile = profile
	}
	if analytics, err := s.analyticsRepo.GetByUserID(ctx, userID); err == nil {
		data.Analytics = analytics
	}

	interviews, err := s.interviewRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	data.Interviews = interviews
	data.Questions = make([]*models.Question, 0)
	for _, interview := range interviews {
		questions, err := s.questionRepo.ListByInterviewID(ctx, interview.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list questions: %w", err)
		}
		data.Questions = append(data.Questions, questions...)
	}

	return data, nil
}

// OAuthLogin upserts a canned user for the mock OAuth flow and opens a
// session. Real provider integration is out of scope; the endpoint
// mirrors the shape of the flow only.
func (s *AccountService) OAuthLogin(ctx context.Context, provider string) (*models.Session, error) {
	email := fmt.Sprintf("user@%s.com", provider)
	fullName := provider + " User"
	if provider == "google" {
		email = "user@gmail.com"
		fullName = "Google User"
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte("oauth_user"), s.bcryptCost)
		if hashErr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", hashErr)
		}
		user = &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hash),
			FullName:     fullName,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create oauth user: %w", err)
		}
		avatarURL := "https://via.placeholder.com/150"
		if err := s.createDefaultRecords(ctx, user, &avatarURL); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up oauth user: %w", err)
	}

	return s.openSession(ctx, user)
}
