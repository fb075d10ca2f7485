package handlers

import (
	"net/http"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/middleware"
	"footwork_backend/internal/models"
	"footwork_backend/internal/repositories"
	"footwork_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewUploadHandler(base *BaseHandler, uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *UploadHandler) RegisterRoutes(r *gin.RouterGroup) {
	cv := r.Group("/candidates/cv")
	cv.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleCandidate))
	{
		cv.POST("", h.UploadCV)
		cv.GET("", h.GetCVURL)
	}

	// Approved teams browse candidate CVs.
	browse := r.Group("/teams/candidates")
	browse.Use(middleware.AuthMiddleware(), middleware.RequireApprovedTeam(repositories.NewUserRepository()))
	{
		browse.GET("/:userId/cv", h.GetCandidateCVURL)
	}
}

func (h *UploadHandler) UploadCV(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		appErrors.HandleError(c, appErrors.NewBadRequestError("Missing file field"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		appErrors.HandleError(c, appErrors.InternalError(err))
		return
	}
	defer file.Close()

	resp, err := h.uploadService.UploadCV(c.Request.Context(), h.GetDB(c), userID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *UploadHandler) GetCandidateCVURL(c *gin.Context) {
	url, err := h.uploadService.CVDownloadURL(c.Request.Context(), h.GetDB(c), c.Param("userId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *UploadHandler) GetCVURL(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	url, err := h.uploadService.CVDownloadURL(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
