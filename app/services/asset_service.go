package services

import (
	"context"
	"fmt"
	"io"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/http"
)

const maxAssetBytes = 64 << 20

// Asset is a downloaded post medium ready to be sent as an attachment.
type Asset struct {
	Name        string
	ContentType string
	Body        []byte
}

// Assets fetches post media, from the storage disk for uploaded posts and
// over HTTP otherwise.
type Assets struct {
	media MediaStore
}

func NewAssets(media MediaStore) *Assets {
	return &Assets{media: media}
}

// Fetch loads the medium of post. Callers fall back to linking the asset
// directly when it fails.
func (a *Assets) Fetch(ctx context.Context, post models.Post) (Asset, error) {
	asset := Asset{Name: post.DownloadName(), ContentType: defaultContentType(post.Type)}

	if post.MediaPath != "" {
		rc, err := a.media.GetStream(post.MediaPath)
		if err != nil {
			return Asset{}, fmt.Errorf("assets: open %s: %w", post.MediaPath, err)
		}
		defer rc.Close()
		body, err := io.ReadAll(io.LimitReader(rc, maxAssetBytes))
		if err != nil {
			return Asset{}, fmt.Errorf("assets: read %s: %w", post.MediaPath, err)
		}
		asset.Body = body
		return asset, nil
	}

	resp, err := http.Get(post.Thumbnail).
		WithContext(ctx).
		Header("Accept", "*/*").
		MaxBytes(maxAssetBytes).
		Send()
	if err != nil {
		return Asset{}, err
	}
	if err := resp.Throw(); err != nil {
		return Asset{}, err
	}
	if ct := resp.Header("Content-Type"); ct != "" {
		asset.ContentType = ct
	}
	asset.Body = resp.Raw
	return asset, nil
}

func defaultContentType(t models.MediaType) string {
	if t == models.MediaVideo {
		return "video/mp4"
	}
	return "image/jpeg"
}
