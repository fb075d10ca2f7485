package services

import (
	"time"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/auth"
	"footwork_backend/internal/email"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"
	"footwork_backend/internal/services/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(db *gorm.DB, req dto.RegisterRequest) (*models.User, error)
	VerifyEmail(db *gorm.DB, token string) error
	Login(db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error)
	Logout(db *gorm.DB, refreshToken string) error
}

type AuthServiceImpl struct {
	userRepo    repositories.UserRepository
	refreshRepo repositories.RefreshTokenRepository
	mailer      email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	refreshRepo repositories.RefreshTokenRepository,
	mailer email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		refreshRepo: refreshRepo,
		mailer:      mailer,
	}
}

// Register creates a candidate or team account. Admins are never created
// through this path; the first admin is seeded at startup.
func (s *AuthServiceImpl) Register(db *gorm.DB, req dto.RegisterRequest) (*models.User, error) {
	if req.Role != models.UserRoleCandidate && req.Role != models.UserRoleTeam {
		return nil, appErrors.ErrInvalidUserRole
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hash,
		Role:              req.Role,
		VerificationToken: uuid.NewString(),
	}

	switch req.Role {
	case models.UserRoleCandidate:
		user.FirstName = req.FirstName
		user.LastName = req.LastName
		user.Position = req.Position
		user.ExperienceLevel = req.ExperienceLevel
		user.Qualification = req.Qualification
		if req.BirthDate != "" {
			birthDate, parseErr := time.Parse("2006-01-02", req.BirthDate)
			if parseErr != nil {
				return nil, appErrors.NewBadRequestError("Invalid birth_date, expected YYYY-MM-DD")
			}
			user.BirthDate = &birthDate
		}
	case models.UserRoleTeam:
		user.TeamName = req.TeamName
		user.City = req.City
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if err == repositories.ErrUserAlreadyExists {
			return nil, appErrors.ErrEmailAlreadyExists
		}
		return nil, appErrors.InternalError(err)
	}

	if err := s.mailer.SendVerificationEmail(user.Email, user.VerificationToken); err != nil {
		logger.WithError(err).Warn("failed to send verification email", "user_id", user.ID)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *AuthServiceImpl) VerifyEmail(db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return appErrors.ErrInvalidToken
		}
		return appErrors.InternalError(err)
	}
	if err := s.userRepo.MarkVerified(db, user.ID); err != nil {
		return appErrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) Login(db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}
	if !user.EmailVerified {
		return nil, appErrors.ErrUserNotVerified
	}

	return s.issueTokens(db, user)
}

// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued.
func (s *AuthServiceImpl) Refresh(db *gorm.DB, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.refreshRepo.FindByToken(db, refreshToken)
	if err != nil {
		if err == repositories.ErrRefreshTokenNotFound {
			return nil, appErrors.ErrInvalidToken
		}
		return nil, appErrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshRepo.DeleteByToken(db, refreshToken)
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(db, stored.UserID)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	if err := s.refreshRepo.DeleteByToken(db, refreshToken); err != nil {
		return nil, appErrors.InternalError(err)
	}
	return s.issueTokens(db, user)
}

func (s *AuthServiceImpl) Logout(db *gorm.DB, refreshToken string) error {
	if err := s.refreshRepo.DeleteByToken(db, refreshToken); err != nil {
		return appErrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	refresh := &models.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshRepo.Create(db, refresh); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		User:         dto.UserToDTO(user),
	}, nil
}
