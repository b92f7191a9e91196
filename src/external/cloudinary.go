package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const defaultCloudinaryFolder = "docvault"

type CloudinaryConfigJson struct {
	Url    string `json:"url"`
	Folder string `json:"folder"`
}

type CloudinaryConfig struct {
	Url    string
	Folder string
}

func (ccj CloudinaryConfigJson) ConvertToDomain() CloudinaryConfig {
	folder := ccj.Folder
	if folder == "" {
		folder = defaultCloudinaryFolder
	}
	return CloudinaryConfig{Url: ccj.Url, Folder: folder}
}

// CloudinaryStore keeps uploaded files in a Cloudinary folder.
type CloudinaryStore struct {
	Cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cfg CloudinaryConfig) (*CloudinaryStore, error) {
	if cfg.Url == "" {
		return nil, errors.New("cloudinary url is not set")
	}
	cld, err := cloudinary.NewFromURL(cfg.Url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryStore{Cld: cld, folder: cfg.Folder}, nil
}

func (cs *CloudinaryStore) Put(ctx context.Context, name string, content []byte) (string, error) {
	resp, err := cs.Cld.Upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		Folder:       cs.folder,
		PublicID:     publicId(name),
		ResourceType: "auto",
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary returned no url")
	}
	return resp.SecureURL, nil
}

// publicId keeps the file's base name readable while staying unique.
func publicId(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	return uuid.NewString() + "_" + base
}
