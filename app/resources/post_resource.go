// Package resources shapes domain models for API responses.
package resources

import (
	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/services"
	"github.com/shashiranjanraj/souqhup/pkg/resource"
)

// PostResource adds the ledger marks of the post.
type PostResource struct {
	Ledger *services.Ledger
}

func (r PostResource) ToMap(p models.Post) resource.Map {
	return resource.Map{
		"id":              p.ID,
		"title":           p.Title,
		"type":            p.Type,
		"date":            p.Date,
		"views":           p.Views,
		"interactions":    p.Interactions,
		"communications":  p.Communications,
		"thumbnail":       p.Thumbnail,
		"ref":             p.Ref,
		"capacity":        p.Capacity,
		"price":           p.Price,
		"description":     p.Description,
		"merchant_name":   p.MerchantName,
		"merchant_avatar": p.MerchantAvatar,
		"download_name":   p.DownloadName(),
		"liked":           r.Ledger.IsLiked(p.ID),
		"favorited":       r.Ledger.IsFavorited(p.ID),
		"trending":        r.Ledger.IsTrending(p.ID),
	}
}

// InquiryResource adds the chat target used by the respond action.
type InquiryResource struct{}

func (InquiryResource) ToMap(i models.Inquiry) resource.Map {
	m := resource.Map{
		"id":            i.ID,
		"user_name":     i.UserName,
		"company":       i.Company,
		"time_ago":      i.TimeAgo,
		"product_name":  i.ProductName,
		"status":        i.Status,
		"needs":         i.Needs,
		"quantity":      i.Quantity,
		"location":      i.Location,
		"user_avatar":   i.UserAvatar,
		"product_image": i.ProductImage,
	}
	if i.AIInsight != "" {
		m["ai_insight"] = i.AIInsight
	}
	return m
}
