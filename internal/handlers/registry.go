package handlers

import (
	"footwork_backend/internal/services"
	"footwork_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

// AppHandlers holds every HTTP handler of the application.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	MembershipHandler *MembershipHandler
	UploadHandler     *UploadHandler
}

// NewAppHandlers wires services into handlers. The limiter throttles
// credential and purchase endpoints; nil disables throttling.
func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator, limiter gin.HandlerFunc) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:       NewAuthHandler(base, svc.AuthService, limiter),
		UserHandler:       NewUserHandler(base, svc.UserService),
		MembershipHandler: NewMembershipHandler(base, svc.MembershipService, svc.ReconciliationService, limiter),
		UploadHandler:     NewUploadHandler(base, svc.UploadService),
	}
}

// RegisterAll mounts every handler group under the given root.
func (h *AppHandlers) RegisterAll(r *gin.RouterGroup) {
	h.AuthHandler.RegisterRoutes(r)
	h.UserHandler.RegisterRoutes(r)
	h.MembershipHandler.RegisterRoutes(r)
	h.UploadHandler.RegisterRoutes(r)
}
