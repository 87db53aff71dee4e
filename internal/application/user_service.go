package application

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/entity"
	repo "github.com/GarciaPiedraEdwinLeonardo/Nexum/internal/domain/repository"
	"github.com/GarciaPiedraEdwinLeonardo/Nexum/pkg/helpers"
)

// UserService covers the authenticated profile surface: read, update, picture
// upload and account deletion.
type UserService struct {
	Users     repo.UserRepository
	GCS       *storage.Client
	GCSBucket string
	Logger    *logrus.Logger
}

func NewUserService(users repo.UserRepository, gcs *storage.Client, gcsBucket string, logger *logrus.Logger) *UserService {
	return &UserService{Users: users, GCS: gcs, GCSBucket: gcsBucket, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.PublicUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

type UpdateProfileInput struct {
	Name string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.PublicUser, error) {
	up := repo.ProfileUpdate{}
	if name := strings.TrimSpace(in.Name); name != "" {
		up.Name = &name
	}
	u, err := s.Users.UpdateProfile(ctx, userID, up)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	pub := u.Public()
	return &pub, nil
}

// UploadProfilePicture stores the image in GCS under a fresh object name and
// points the profile at its public URL.
func (s *UserService) UploadProfilePicture(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", errors.New("gcs not configured")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := filepath.ToSlash(filepath.Join("profile-pictures", userID, uuid.NewString()+ext))
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r)
	if err != nil {
		return "", err
	}

	if _, err := s.Users.UpdateProfile(ctx, userID, repo.ProfileUpdate{ProfilePictureURL: &url}); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return url, nil
}

// DeleteAccount tombstones the user. The row stays for audit but disappears
// from every lookup, so outstanding tokens and sessions stop resolving.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.Users.SoftDelete(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *UserService) Stats(ctx context.Context) (*entity.UserStats, error) {
	return s.Users.Stats(ctx)
}
