package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/hunt"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/repositories/repomanager"
)

const (
	maxNicknameLen = 40
	// MaxAvatarSize caps avatar uploads.
	MaxAvatarSize = 5 << 20
)

var avatarTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// avatarStore is what ProfileService needs from AvatarStorage.
type avatarStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     avatarStore
}

func NewProfileService(db *sql.DB, m repomanager.RepositoryManager, storage avatarStore) *ProfileService {
	return &ProfileService{db: db, repomanager: m, storage: storage}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*hunt.Profile, error) {
	if userID == "" {
		return nil, hunt.ErrNotAuthenticated
	}
	return s.repomanager.Profiles(s.db).GetProfile(ctx, userID)
}

func (s *ProfileService) UpdateNickname(ctx context.Context, userID, nickname string) (*hunt.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return nil, fmt.Errorf("%w: nickname longer than %d characters", common.ErrorValidation, maxNicknameLen)
	}
	return s.repomanager.Profiles(s.db).UpdateNickname(ctx, userID, nickname)
}

// AvatarKey is the object key of a user's avatar.
func AvatarKey(userID, ext string) (string, string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	ct, ok := avatarTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported image type %q", common.ErrorValidation, ext)
	}
	return userID + "." + ext, ct, nil
}

// UploadAvatar stores data as the user's avatar and records the key.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, data []byte, ext string) (*hunt.Profile, error) {
	if len(data) == 0 || len(data) > MaxAvatarSize {
		return nil, fmt.Errorf("%w: avatar must be between 1 byte and %d bytes", common.ErrorValidation, MaxAvatarSize)
	}
	key, ct, err := AvatarKey(userID, ext)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Put(ctx, key, data, ct); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return s.repomanager.Profiles(s.db).UpdateAvatar(ctx, userID, key)
}

// RequestAvatarUpload hands out a presigned PUT for the CLI. The profile is
// only updated once ConfirmAvatar is called.
func (s *ProfileService) RequestAvatarUpload(ctx context.Context, userID, ext string) (key, url, contentType string, err error) {
	key, contentType, err = AvatarKey(userID, ext)
	if err != nil {
		return "", "", "", err
	}
	url, err = s.storage.PresignPut(ctx, key, contentType)
	if err != nil {
		return "", "", "", fmt.Errorf("presign avatar: %w", err)
	}
	return key, url, contentType, nil
}

func (s *ProfileService) ConfirmAvatar(ctx context.Context, userID, key string) (*hunt.Profile, error) {
	base, ext, ok := strings.Cut(key, ".")
	if !ok || base != userID {
		return nil, fmt.Errorf("%w: foreign avatar key", common.ErrorValidation)
	}
	if _, _, err := AvatarKey(userID, ext); err != nil {
		return nil, err
	}
	return s.repomanager.Profiles(s.db).UpdateAvatar(ctx, userID, key)
}

func (s *ProfileService) AvatarURL(ref string) string {
	return s.storage.PublicURL(ref)
}
