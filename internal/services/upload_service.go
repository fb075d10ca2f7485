package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/logger"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"
	"footwork_backend/internal/services/dto"
	"footwork_backend/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCVSize = 10 << 20 // 10 MiB

var cvContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type UploadService interface {
	UploadCV(ctx context.Context, db *gorm.DB, userID, filename string, size int64, reader io.Reader) (*dto.UploadCVResponse, error)
	CVDownloadURL(ctx context.Context, db *gorm.DB, userID string) (string, error)
}

type UploadServiceImpl struct {
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	store          storage.Storage
}

func NewUploadService(
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	store storage.Storage,
) UploadService {
	return &UploadServiceImpl{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		store:          store,
	}
}

// UploadCV stores a candidate's CV document. Requires an active membership;
// registration alone does not grant upload access.
func (s *UploadServiceImpl) UploadCV(ctx context.Context, db *gorm.DB, userID, filename string, size int64, reader io.Reader) (*dto.UploadCVResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	if user.Role != models.UserRoleCandidate {
		return nil, appErrors.NewForbiddenError("Only candidates can upload a CV")
	}

	if _, err := s.membershipRepo.FindActiveByUserID(db, userID); err != nil {
		if err == repositories.ErrMembershipNotFound {
			return nil, appErrors.NewForbiddenError("CV upload requires an active membership")
		}
		return nil, appErrors.InternalError(err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := cvContentTypes[ext]
	if !ok {
		return nil, appErrors.NewBadRequestError("Unsupported CV format, expected .pdf, .doc or .docx")
	}
	if size > maxCVSize {
		return nil, appErrors.NewBadRequestError("CV file is too large, limit is 10 MB")
	}

	key := fmt.Sprintf("cv/%s/%s%s", userID, uuid.NewString(), ext)
	if err := s.store.Save(ctx, key, reader, contentType); err != nil {
		return nil, appErrors.InternalError(err)
	}

	oldKey := user.CVKey
	if err := s.userRepo.UpdateCVKey(db, userID, key); err != nil {
		return nil, appErrors.InternalError(err)
	}
	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			logger.WithError(err).Warn("failed to delete previous CV", "key", oldKey)
		}
	}

	url, err := s.store.SignedURL(ctx, key, 15*time.Minute)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.Info("cv uploaded", "user_id", userID, "key", key)
	return &dto.UploadCVResponse{Key: key, URL: url}, nil
}

func (s *UploadServiceImpl) CVDownloadURL(ctx context.Context, db *gorm.DB, userID string) (string, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return "", appErrors.ErrUserNotFound
		}
		return "", appErrors.InternalError(err)
	}
	if user.CVKey == "" {
		return "", appErrors.NewNotFoundError("No CV uploaded")
	}

	url, err := s.store.SignedURL(ctx, user.CVKey, 15*time.Minute)
	if err != nil {
		return "", appErrors.InternalError(err)
	}
	return url, nil
}
