package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/logger"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/policy"
	"github.com/taskboard-api/repositories"
	"go.uber.org/zap"
)

const (
	// MediaURLPrefix is where uploaded files are served from
	MediaURLPrefix = "/media/"

	profilePictureDir = "profile_pictures"
	msgInvalidImage   = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

// UserService handles business logic for users and their profiles
type UserService struct {
	users     *repositories.UserRepository
	mediaRoot string
}

// NewUserService creates a new user service instance
func NewUserService(users *repositories.UserRepository, mediaRoot string) *UserService {
	return &UserService{users: users, mediaRoot: mediaRoot}
}

// MediaURL maps a stored media path onto its public URL
func MediaURL(stored string) string {
	return MediaURLPrefix + strings.TrimPrefix(stored, "/")
}

// ListUsers retrieves all users
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.FindAll(ctx)
}

// GetUser retrieves a single user
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// UpdateProfile applies the present fields to the caller's user row and
// stores an optional new picture. The profile is created if missing
func (s *UserService) UpdateProfile(ctx context.Context, caller *policy.Caller, upd dto.ProfileUpdate, picture *multipart.FileHeader) (*models.User, *models.UserProfile, error) {
	user, err := s.users.FindByID(ctx, caller.ID())
	if err != nil {
		return nil, nil, err
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if err := models.Validate(user); err != nil {
		return nil, nil, err
	}

	profile := user.Profile
	if profile == nil {
		profile = &models.UserProfile{UserID: user.ID, Role: models.RoleDeveloper}
	}

	var previous, stored *string
	if picture != nil {
		name, err := s.savePicture(user.ID, picture)
		if err != nil {
			return nil, nil, err
		}
		stored = &name
		previous = profile.ProfilePicture
		profile.ProfilePicture = stored
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.removeMedia(stored)
		return nil, nil, err
	}
	if err := s.users.SaveProfile(ctx, profile); err != nil {
		s.removeMedia(stored)
		return nil, nil, err
	}
	s.removeMedia(previous)
	user.Profile = profile
	return user, profile, nil
}

// savePicture sniffs the upload and writes it under the media root. It
// returns the path relative to the media root
func (s *UserService) savePicture(userID uint, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInvalid, msgInvalidImage)
	}
	defer src.Close()

	mt, err := mimetype.DetectReader(src)
	if err != nil || !strings.HasPrefix(mt.String(), "image/") {
		return "", apperrors.Validation(map[string][]string{"profile_picture": {msgInvalidImage}})
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "read upload failed")
	}

	dir := filepath.Join(s.mediaRoot, profilePictureDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "create media directory failed")
	}

	name := fmt.Sprintf("%d_%s%s", userID, uuid.NewString(), mt.Extension())
	full := filepath.Join(dir, name)
	dst, err := os.Create(full)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "store upload failed")
	}

	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "store upload failed")
	}
	return path.Join(profilePictureDir, name), nil
}

func (s *UserService) removeMedia(stored *string) {
	if stored == nil || *stored == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.mediaRoot, filepath.FromSlash(*stored))); err != nil && !os.IsNotExist(err) {
		logger.L().Warn("remove old media failed", zap.String("path", *stored), zap.Error(err))
	}
}

// ChangePassword replaces the caller's password after verifying the old one
func (s *UserService) ChangePassword(ctx context.Context, caller *policy.Caller, req dto.ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, caller.ID())
	if err != nil {
		return err
	}
	if !CheckPassword(user.Password, req.OldPassword) {
		return apperrors.New(apperrors.CodeInvalid, "Wrong password")
	}
	if len(req.NewPassword) < MinPasswordLength {
		return apperrors.Validation(map[string][]string{
			"new_password": {fmt.Sprintf("Ensure this field has at least %d characters.", MinPasswordLength)},
		})
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "hash password failed")
	}
	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// DeleteUser removes a user; assigned tasks and managed projects keep existing
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if user.Profile != nil {
		s.removeMedia(user.Profile.ProfilePicture)
	}
	logger.L().Info("user deleted", zap.Uint("user_id", id))
	return nil
}

// SetRole sets a user's profile role
func (s *UserService) SetRole(ctx context.Context, id uint, role models.Role) error {
	if !role.Valid() {
		return apperrors.Validation(map[string][]string{"role": invalidRole(role)})
	}
	return s.users.SetRole(ctx, id, role)
}
