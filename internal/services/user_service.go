package services

import (
	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(db *gorm.DB, userID string) (*models.User, error)
	ApproveTeam(db *gorm.DB, teamUserID string) (*models.User, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetProfile(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	return user, nil
}

// ApproveTeam flips the approval flag on a team account. Admin-only; the
// route guard enforces the caller's role.
func (s *UserServiceImpl) ApproveTeam(db *gorm.DB, teamUserID string) (*models.User, error) {
	if err := s.userRepo.ApproveTeam(db, teamUserID); err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrUserNotFound.WithMessage("Team account not found")
		}
		return nil, appErrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, teamUserID)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.Info("team approved", "user_id", teamUserID)
	return user, nil
}
