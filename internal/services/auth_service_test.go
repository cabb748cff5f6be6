package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
)

// mockUserRepository is a controllable UserRepository for auth tests
type mockUserRepository struct {
	user          *models.User
	existsByEmail bool
	err           error
	createErr     error
	markedID      int
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	user.ID = 1
	m.user = user
	return nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.user == nil {
		return nil, errors.New("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	if m.user == nil {
		return nil, errors.New("user not found")
	}
	return m.user, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.existsByEmail, nil
}

func (m *mockUserRepository) MarkVerified(ctx context.Context, id int) error {
	m.markedID = id
	return nil
}

// mockUserTokenRepository records refresh token persistence
type mockUserTokenRepository struct {
	created *models.UserToken
	deleted string
	err     error
}

func (m *mockUserTokenRepository) Create(ctx context.Context, token *models.UserToken) error {
	if m.err != nil {
		return m.err
	}
	m.created = token
	return nil
}

func (m *mockUserTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = token
	return nil
}

// mockOtpRepository holds a single stored code
type mockOtpRepository struct {
	otp       *models.OtpVerification
	err       error
	deletedID int
}

func (m *mockOtpRepository) Create(ctx context.Context, otp *models.OtpVerification) error {
	if m.err != nil {
		return m.err
	}
	otp.ID = 1
	m.otp = otp
	return nil
}

func (m *mockOtpRepository) GetByUserID(ctx context.Context, userID int) (*models.OtpVerification, error) {
	if m.otp == nil {
		return nil, errors.New("otp not found")
	}
	return m.otp, nil
}

func (m *mockOtpRepository) DeleteByID(ctx context.Context, id int) error {
	m.deletedID = id
	return nil
}

// mockTokenMinter returns fixed token values
type mockTokenMinter struct {
	err error
}

func (m *mockTokenMinter) GenerateTokens(userID int) (string, string, error) {
	if m.err != nil {
		return "", "", m.err
	}
	return "access-token", "refresh-token", nil
}

// mockOtpSender records the last sent code
type mockOtpSender struct {
	to   string
	code string
	err  error
}

func (m *mockOtpSender) SendOtp(to, code string, expiryMinutes int) error {
	if m.err != nil {
		return m.err
	}
	m.to = to
	m.code = code
	return nil
}

// mockOtpThrottle answers rate limit checks
type mockOtpThrottle struct {
	allowed bool
	err     error
}

func (m *mockOtpThrottle) AllowOtpRequest(ctx context.Context, email string, limit int, window time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.allowed, nil
}

func hashOtp(t *testing.T, code string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash otp: %v", err)
	}
	return string(hash)
}

func newAuthServiceForTest(
	userRepo *mockUserRepository,
	tokenRepo *mockUserTokenRepository,
	otpRepo *mockOtpRepository,
	sender *mockOtpSender,
	throttle OtpThrottle,
) *authService {
	return NewAuthService(
		userRepo,
		tokenRepo,
		otpRepo,
		&mockTokenMinter{},
		sender,
		throttle,
		7*24*time.Hour,
		zap.NewNop(),
	)
}

func TestNewAuthService(t *testing.T) {
	userRepo := &mockUserRepository{}
	service := newAuthServiceForTest(userRepo, &mockUserTokenRepository{}, &mockOtpRepository{}, &mockOtpSender{}, nil)

	assert.NotNil(t, service)
	assert.Equal(t, userRepo, service.userRepo)
}

func TestAuthService_Signup(t *testing.T) {
	tests := []struct {
		name          string
		request       *models.SignupRequest
		userRepo      *mockUserRepository
		expectedError string
	}{
		{
			name:     "success",
			request:  &models.SignupRequest{Email: "user@example.com", Name: "User"},
			userRepo: &mockUserRepository{},
		},
		{
			name:          "missing email",
			request:       &models.SignupRequest{Name: "User"},
			userRepo:      &mockUserRepository{},
			expectedError: "email is required",
		},
		{
			name:          "missing name",
			request:       &models.SignupRequest{Email: "user@example.com"},
			userRepo:      &mockUserRepository{},
			expectedError: "name is required",
		},
		{
			name:          "duplicate email",
			request:       &models.SignupRequest{Email: "user@example.com", Name: "User"},
			userRepo:      &mockUserRepository{existsByEmail: true},
			expectedError: "user with email 'user@example.com' already exists",
		},
		{
			name:          "repository create error",
			request:       &models.SignupRequest{Email: "user@example.com", Name: "User"},
			userRepo:      &mockUserRepository{createErr: errors.New("database error")},
			expectedError: "failed to create user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpRepo := &mockOtpRepository{}
			sender := &mockOtpSender{}
			service := newAuthServiceForTest(tt.userRepo, &mockUserTokenRepository{}, otpRepo, sender, nil)

			user, err := service.Signup(context.Background(), tt.request)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, user)
			assert.Equal(t, models.OtpPurposeSignup, otpRepo.otp.Purpose)
			assert.Equal(t, "user@example.com", sender.to)
			assert.Len(t, sender.code, 6)
			assert.NotEqual(t, sender.code, otpRepo.otp.OtpHash)
		})
	}
}

func TestAuthService_SendOtp(t *testing.T) {
	tests := []struct {
		name          string
		userRepo      *mockUserRepository
		throttle      OtpThrottle
		expectedError string
	}{
		{
			name:     "success without throttle",
			userRepo: &mockUserRepository{user: &models.User{ID: 1, Email: "user@example.com"}},
		},
		{
			name:     "success with throttle allowing",
			userRepo: &mockUserRepository{user: &models.User{ID: 1, Email: "user@example.com"}},
			throttle: &mockOtpThrottle{allowed: true},
		},
		{
			name:          "throttle limit hit",
			userRepo:      &mockUserRepository{user: &models.User{ID: 1, Email: "user@example.com"}},
			throttle:      &mockOtpThrottle{allowed: false},
			expectedError: "too many otp requests",
		},
		{
			name:     "throttle backend error is not fatal",
			userRepo: &mockUserRepository{user: &models.User{ID: 1, Email: "user@example.com"}},
			throttle: &mockOtpThrottle{err: errors.New("redis down")},
		},
		{
			name:          "unknown user",
			userRepo:      &mockUserRepository{},
			expectedError: "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otpRepo := &mockOtpRepository{}
			service := newAuthServiceForTest(tt.userRepo, &mockUserTokenRepository{}, otpRepo, &mockOtpSender{}, tt.throttle)

			err := service.SendOtp(context.Background(), "user@example.com")

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, models.OtpPurposeLogin, otpRepo.otp.Purpose)
		})
	}
}

func TestAuthService_VerifyOtp(t *testing.T) {
	user := &models.User{ID: 1, Email: "user@example.com"}

	tests := []struct {
		name          string
		request       *models.VerifyOtpRequest
		otp           *models.OtpVerification
		expectedError string
	}{
		{
			name:    "success",
			request: &models.VerifyOtpRequest{Email: "user@example.com", Otp: "123456"},
			otp: &models.OtpVerification{
				ID:        1,
				UserID:    1,
				ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
			},
		},
		{
			name:          "missing otp",
			request:       &models.VerifyOtpRequest{Email: "user@example.com"},
			expectedError: "otp is required",
		},
		{
			name:    "expired code",
			request: &models.VerifyOtpRequest{Email: "user@example.com", Otp: "123456"},
			otp: &models.OtpVerification{
				ID:        1,
				UserID:    1,
				ExpiresAt: time.Now().UTC().Add(-time.Minute),
			},
			expectedError: "otp has expired",
		},
		{
			name:    "wrong code",
			request: &models.VerifyOtpRequest{Email: "user@example.com", Otp: "654321"},
			otp: &models.OtpVerification{
				ID:        1,
				UserID:    1,
				ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
			},
			expectedError: "invalid otp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.otp != nil {
				tt.otp.OtpHash = hashOtp(t, "123456")
			}
			otpRepo := &mockOtpRepository{otp: tt.otp}
			tokenRepo := &mockUserTokenRepository{}
			service := newAuthServiceForTest(&mockUserRepository{user: user}, tokenRepo, otpRepo, &mockOtpSender{}, nil)

			tokens, err := service.VerifyOtp(context.Background(), tt.request)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "access-token", tokens.AccessToken)
			assert.Equal(t, "refresh-token", tokens.RefreshToken)
			assert.Equal(t, user, tokens.User)
			assert.Equal(t, 1, otpRepo.deletedID)
			assert.Equal(t, "refresh-token", tokenRepo.created.Token)
		})
	}
}

func TestAuthService_VerifySignupOtp(t *testing.T) {
	userRepo := &mockUserRepository{user: &models.User{ID: 1, Email: "user@example.com"}}
	otpRepo := &mockOtpRepository{otp: &models.OtpVerification{
		ID:        1,
		UserID:    1,
		OtpHash:   hashOtp(t, "123456"),
		Purpose:   models.OtpPurposeSignup,
		ExpiresAt: time.Now().UTC().Add(10 * time.Minute),
	}}
	service := newAuthServiceForTest(userRepo, &mockUserTokenRepository{}, otpRepo, &mockOtpSender{}, nil)

	tokens, err := service.VerifySignupOtp(context.Background(), &models.VerifyOtpRequest{
		Email: "user@example.com",
		Otp:   "123456",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, userRepo.markedID)
	assert.True(t, tokens.User.IsVerified)
}

func TestAuthService_Logout(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		expectedError string
	}{
		{
			name:  "success",
			token: "refresh-token",
		},
		{
			name:          "missing token",
			token:         "",
			expectedError: "refreshToken is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenRepo := &mockUserTokenRepository{}
			service := newAuthServiceForTest(&mockUserRepository{}, tokenRepo, &mockOtpRepository{}, &mockOtpSender{}, nil)

			err := service.Logout(context.Background(), tt.token)

			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.token, tokenRepo.deleted)
		})
	}
}

func TestGenerateOtpCode(t *testing.T) {
	code, err := generateOtpCode()

	assert.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9')
	}
}
