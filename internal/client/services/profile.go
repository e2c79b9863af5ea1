package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/schnitzeljagd/internal/api"
	"github.com/dmitrijs2005/schnitzeljagd/internal/client/client"
	"github.com/dmitrijs2005/schnitzeljagd/internal/common"
	"github.com/dmitrijs2005/schnitzeljagd/internal/netx"
)

// maxAvatarSize matches the server-side limit.
const maxAvatarSize = 5 << 20

// Test seams.
var (
	readFile      = os.ReadFile
	uploadToStore = netx.UploadToPresignedURL
)

type ProfileService struct {
	client client.Client
}

func NewProfileService(c client.Client) *ProfileService {
	return &ProfileService{client: c}
}

func (s *ProfileService) Profile(ctx context.Context) (*api.Profile, error) {
	return s.client.Profile(ctx)
}

func (s *ProfileService) UpdateNickname(ctx context.Context, nickname string) (*api.Profile, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("nickname is empty: %w", common.ErrorValidation)
	}
	return s.client.UpdateNickname(ctx, nickname)
}

// UploadAvatar asks for a presigned URL, PUTs the file there and confirms
// the key so the profile points at the new image.
func (s *ProfileService) UploadAvatar(ctx context.Context, path string) (*api.Profile, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return nil, fmt.Errorf("file has no extension: %w", common.ErrorValidation)
	}

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data) > maxAvatarSize {
		return nil, fmt.Errorf("avatar must be between 1 byte and 5 MB: %w", common.ErrorValidation)
	}

	up, err := s.client.RequestAvatarUpload(ctx, ext)
	if err != nil {
		return nil, err
	}
	if err := uploadToStore(ctx, up.URL, up.ContentType, data); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	return s.client.ConfirmAvatar(ctx, up.Key)
}
