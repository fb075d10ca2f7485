package services

import (
	"footwork_backend/internal/email"
	"footwork_backend/internal/payments"
	"footwork_backend/internal/repositories"
	"footwork_backend/internal/storage"
)

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService           AuthService
	UserService           UserService
	MembershipService     MembershipService
	ReconciliationService ReconciliationService
	UploadService         UploadService
}

func NewServiceContainer(gateway payments.Gateway, store storage.Storage, mailer email.Provider) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	refreshRepo := repositories.NewRefreshTokenRepository()
	membershipRepo := repositories.NewMembershipRepository()
	eventRepo := repositories.NewPaymentEventRepository()

	membershipService := NewMembershipService(membershipRepo)

	return &ServiceContainer{
		AuthService:           NewAuthService(userRepo, refreshRepo, mailer),
		UserService:           NewUserService(userRepo),
		MembershipService:     membershipService,
		ReconciliationService: NewReconciliationService(gateway, membershipService, membershipRepo, userRepo, eventRepo, mailer),
		UploadService:         NewUploadService(userRepo, membershipRepo, store),
	}
}
