package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespace = regexp.MustCompile(`\s+`)

// MediaType is the kind of asset a post carries.
type MediaType string

const (
	MediaVideo MediaType = "Video"
	MediaImage MediaType = "Image"
)

func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "video":
		return MediaVideo, nil
	case "image", "":
		return MediaImage, nil
	}
	return "", fmt.Errorf("unknown media type %q", s)
}

// Extension is the file extension used when the asset is downloaded.
func (m MediaType) Extension() string {
	if m == MediaVideo {
		return ".mp4"
	}
	return ".jpg"
}

// Post is a published catalog item. Only the counters may change after
// creation.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Type           MediaType `json:"type"`
	Date           string    `json:"date"`
	Views          int       `json:"views"`
	Interactions   int       `json:"interactions"`
	Communications int       `json:"communications"`
	Thumbnail      string    `json:"thumbnail"`
	Ref            string    `json:"ref"`
	Capacity       string    `json:"capacity"`
	Price          string    `json:"price"`
	Description    string    `json:"description"`
	MerchantName   string    `json:"merchant_name"`
	MerchantAvatar string    `json:"merchant_avatar"`
	CreatedAt      time.Time `json:"created_at"`
	MediaPath      string    `json:"-"`
}

// DownloadName is the file name offered when the asset is saved locally.
func (p Post) DownloadName() string {
	return whitespace.ReplaceAllString(p.Title, "_") + p.Type.Extension()
}

// SeedPosts returns the initial catalog attributed to the given merchant.
func SeedPosts(m MerchantProfile) []Post {
	return []Post{
		{
			ID:             "1",
			Title:          "Egyptian Cotton Premium",
			Type:           MediaVideo,
			Date:           "2d ago",
			Views:          5400,
			Interactions:   1200,
			Communications: 42,
			Thumbnail:      "https://images.unsplash.com/photo-1558227691-41ea78d1f631?q=80&w=600&auto=format&fit=crop",
			Ref:            "#EX-1024",
			Capacity:       "500kg",
			Price:          "EGP 450/kg",
			Description:    "Long-staple Giza cotton, perfect for export-quality textiles.",
			MerchantName:   m.Name,
			MerchantAvatar: m.Avatar,
		},
		{
			ID:             "2",
			Title:          "Industrial Silk Yarn",
			Type:           MediaImage,
			Date:           "5d ago",
			Views:          3200,
			Interactions:   420,
			Communications: 18,
			Thumbnail:      "https://images.unsplash.com/photo-1524758631624-e2822e304c36?q=80&w=600&auto=format&fit=crop",
			Ref:            "#EX-1025",
			Capacity:       "200kg",
			Price:          "EGP 1,200/unit",
			Description:    "Soft silk fibers intended for high-end upholstery and luxury garments.",
			MerchantName:   m.Name,
			MerchantAvatar: m.Avatar,
		},
	}
}
