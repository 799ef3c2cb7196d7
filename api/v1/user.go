package v1

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/services"
)

// maxUploadMemory bounds the multipart form kept in memory
const maxUploadMemory = 8 << 20

// UserController handles user endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(users *services.UserService) *UserController {
	return &UserController{userService: users}
}

// RegisterRoutes registers user routes on an authenticated group
func (u *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/", u.ListUsers)
		users.GET("/me/", u.Me)
		users.PATCH("/update_profile/", u.UpdateProfile)
		users.POST("/change_password/", u.ChangePassword)
		users.GET("/:id/", u.GetUser)
	}
}

// ListUsers returns every user summary
func (u *UserController) ListUsers(c *gin.Context) {
	users, err := u.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserSummaries(users))
}

// GetUser returns a single user summary
func (u *UserController) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	user, err := u.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserSummary(user))
}

// Me returns the caller with its profile
func (u *UserController) Me(c *gin.Context) {
	caller := currentCaller(c)
	c.JSON(http.StatusOK, dto.NewCurrentUserResponse(&caller.User, caller.Profile, services.MediaURL))
}

// UpdateProfile applies a partial multipart (or JSON) update to the caller
func (u *UserController) UpdateProfile(c *gin.Context) {
	var (
		upd     dto.ProfileUpdate
		picture *multipart.FileHeader
	)

	if c.ContentType() == binding.MIMEJSON {
		var body struct {
			FirstName *string `json:"first_name"`
			LastName  *string `json:"last_name"`
			Email     *string `json:"email"`
		}
		if !bindJSON(c, &body) {
			return
		}
		upd = dto.ProfileUpdate{FirstName: body.FirstName, LastName: body.LastName, Email: body.Email}
	} else {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			respondError(c, apperrors.Wrap(err, apperrors.CodeInvalid, "Malformed multipart body"))
			return
		}
		upd.FirstName = formValue(c, "first_name")
		upd.LastName = formValue(c, "last_name")
		upd.Email = formValue(c, "email")

		fh, err := c.FormFile("profile_picture")
		switch {
		case err == nil:
			picture = fh
		case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
			respondError(c, apperrors.Wrap(err, apperrors.CodeInvalid, "Malformed multipart body"))
			return
		}
	}

	user, profile, err := u.userService.UpdateProfile(c.Request.Context(), currentCaller(c), upd, picture)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(user, profile, services.MediaURL))
}

func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

// ChangePassword verifies the old password and stores the new one
func (u *UserController) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := u.userService.ChangePassword(c.Request.Context(), currentCaller(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Password changed successfully"})
}
