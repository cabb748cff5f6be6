package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/gurram-saikumar/thinkcyber-server/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpExpiryMinutes = 10
	otpSendLimit     = 1
	otpSendWindow    = time.Minute
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Create creates a new user
	//
	// If some error will occur during data creation, the error will be returned.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail retrieves a user by email
	//
	// If some error will occur during data retrieve, the error will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int) (*models.User, error)
	// ExistsByEmail checks if a user with the given email exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// MarkVerified flags the user as verified
	MarkVerified(ctx context.Context, id int) error
}

// UserTokenRepository is the interface that wraps refresh token persistence
type UserTokenRepository interface {
	Create(ctx context.Context, token *models.UserToken) error
	DeleteByToken(ctx context.Context, token string) error
}

// OtpRepository is the interface that wraps methods for OtpVerification table data access
type OtpRepository interface {
	// Create stores a new code, superseding any previous code for the user
	Create(ctx context.Context, otp *models.OtpVerification) error
	// GetByUserID retrieves the latest code for a user
	GetByUserID(ctx context.Context, userID int) (*models.OtpVerification, error)
	// DeleteByID removes a used or expired code
	DeleteByID(ctx context.Context, id int) error
}

// TokenMinter is the interface that wraps session token generation
type TokenMinter interface {
	GenerateTokens(userID int) (string, string, error)
}

// OtpSender is the interface that wraps OTP email delivery
type OtpSender interface {
	SendOtp(to, code string, expiryMinutes int) error
}

// OtpThrottle is the interface that wraps the per-email send rate limit
type OtpThrottle interface {
	AllowOtpRequest(ctx context.Context, email string, limit int, window time.Duration) (bool, error)
}

// authService implements the OTP based authentication flow
type authService struct {
	userRepo       UserRepository
	userTokenRepo  UserTokenRepository
	otpRepo        OtpRepository
	tokenGenerator TokenMinter
	emailSender    OtpSender
	throttle       OtpThrottle
	refreshExpiry  time.Duration
	logger         *zap.Logger
}

// NewAuthService creates a new auth service. The throttle may be nil, in
// which case OTP sends are not rate limited.
func NewAuthService(
	userRepo UserRepository,
	userTokenRepo UserTokenRepository,
	otpRepo OtpRepository,
	tokenGenerator TokenMinter,
	emailSender OtpSender,
	throttle OtpThrottle,
	refreshExpiry time.Duration,
	logger *zap.Logger,
) *authService {
	return &authService{
		userRepo:       userRepo,
		userTokenRepo:  userTokenRepo,
		otpRepo:        otpRepo,
		tokenGenerator: tokenGenerator,
		emailSender:    emailSender,
		throttle:       throttle,
		refreshExpiry:  refreshExpiry,
		logger:         logger,
	}
}

// Signup creates an unverified user and emails a signup code
func (s *authService) Signup(ctx context.Context, request *models.SignupRequest) (*models.User, error) {
	if request.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if request.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("user with email '%s' already exists", request.Email)
	}

	user := &models.User{
		Email: request.Email,
		Name:  request.Name,
		Phone: request.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.issueOtp(ctx, user, models.OtpPurposeSignup); err != nil {
		return nil, err
	}

	return user, nil
}

// SendOtp issues a login code for an existing user, rate limited per email
func (s *authService) SendOtp(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.throttle != nil {
		allowed, err := s.throttle.AllowOtpRequest(ctx, email, otpSendLimit, otpSendWindow)
		if err != nil {
			// Throttle backend trouble should not lock users out
			s.logger.Warn("otp throttle check failed", zap.Error(err))
		} else if !allowed {
			return fmt.Errorf("too many otp requests, try again later")
		}
	}

	return s.issueOtp(ctx, user, models.OtpPurposeLogin)
}

// VerifyOtp exchanges a valid code for a session token pair
func (s *authService) VerifyOtp(ctx context.Context, request *models.VerifyOtpRequest) (*models.AuthTokens, error) {
	user, err := s.checkOtp(ctx, request)
	if err != nil {
		return nil, err
	}

	return s.mintTokens(ctx, user)
}

// VerifySignupOtp exchanges a valid signup code for a session token pair
// and marks the user verified
func (s *authService) VerifySignupOtp(ctx context.Context, request *models.VerifyOtpRequest) (*models.AuthTokens, error) {
	user, err := s.checkOtp(ctx, request)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to mark user verified: %w", err)
	}
	user.IsVerified = true

	return s.mintTokens(ctx, user)
}

// Logout revokes a refresh token
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("refreshToken is required")
	}

	return s.userTokenRepo.DeleteByToken(ctx, refreshToken)
}

// issueOtp generates a 6-digit code, stores its bcrypt hash and emails it
func (s *authService) issueOtp(ctx context.Context, user *models.User, purpose string) error {
	code, err := generateOtpCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp: %w", err)
	}

	otp := &models.OtpVerification{
		UserID:    user.ID,
		OtpHash:   string(hash),
		Purpose:   purpose,
		ExpiresAt: time.Now().UTC().Add(otpExpiryMinutes * time.Minute),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := s.emailSender.SendOtp(user.Email, code, otpExpiryMinutes); err != nil {
		return fmt.Errorf("failed to send otp email: %w", err)
	}

	return nil
}

// checkOtp validates the submitted code against the stored hash
func (s *authService) checkOtp(ctx context.Context, request *models.VerifyOtpRequest) (*models.User, error) {
	if request.Email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if request.Otp == "" {
		return nil, fmt.Errorf("otp is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		return nil, err
	}

	otp, err := s.otpRepo.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	if time.Now().UTC().After(otp.ExpiresAt) {
		s.otpRepo.DeleteByID(ctx, otp.ID)
		return nil, fmt.Errorf("otp has expired")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.OtpHash), []byte(request.Otp)); err != nil {
		return nil, fmt.Errorf("invalid otp")
	}

	// A code is single use
	if err := s.otpRepo.DeleteByID(ctx, otp.ID); err != nil {
		return nil, fmt.Errorf("failed to consume otp: %w", err)
	}

	return user, nil
}

// mintTokens generates the session token pair and persists the refresh token
func (s *authService) mintTokens(ctx context.Context, user *models.User) (*models.AuthTokens, error) {
	accessToken, refreshToken, err := s.tokenGenerator.GenerateTokens(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	userToken := &models.UserToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().UTC().Add(s.refreshExpiry),
	}
	if err := s.userTokenRepo.Create(ctx, userToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &models.AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// generateOtpCode returns a 6-digit zero-padded numeric code
func generateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
