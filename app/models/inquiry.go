package models

// Inquiry is a buyer request shown on the merchant command hub.
type Inquiry struct {
	ID           int    `json:"id"`
	UserName     string `json:"user_name"`
	Company      string `json:"company"`
	TimeAgo      string `json:"time_ago"`
	ProductName  string `json:"product_name"`
	Status       string `json:"status"`
	Needs        string `json:"needs"`
	Quantity     string `json:"quantity"`
	Location     string `json:"location"`
	UserAvatar   string `json:"user_avatar"`
	ProductImage string `json:"product_image"`
	AIInsight    string `json:"ai_insight,omitempty"`
}

func SeedInquiries() []Inquiry {
	return []Inquiry{
		{
			ID:           1,
			UserName:     "Ahmed M.",
			Company:      "Giza Wholesale",
			TimeAgo:      "14m ago",
			ProductName:  "Premium Egyptian Cotton Batch #001",
			Status:       "New Interaction",
			Needs:        "Looking for a high-volume supply for our winter collection. Requires 500+ kg weekly consistent delivery to Giza industrial zone. Please confirm thread count availability.",
			Quantity:     "500kg / Week",
			Location:     "Giza, Egypt",
			UserAvatar:   "https://picsum.photos/seed/user1/100/100",
			ProductImage: "https://images.unsplash.com/photo-1558227691-41ea78d1f631?q=80&w=400&auto=format&fit=crop",
		},
		{
			ID:           2,
			UserName:     "Sara H.",
			Company:      "Alex Textiles Ltd.",
			TimeAgo:      "1h ago",
			ProductName:  "Industrial Canvas Batch #004",
			Status:       "Follow-up",
			Needs:        "Need samples for the waterproof grade. We're testing for tent manufacturing. If quality matches specs, we're looking at a 2-ton initial order.",
			Quantity:     "2 Tons (Initial)",
			Location:     "Alexandria, Egypt",
			UserAvatar:   "https://picsum.photos/seed/user2/100/100",
			ProductImage: "https://images.unsplash.com/photo-1524758631624-e2822e304c36?q=80&w=400&auto=format&fit=crop",
		},
		{
			ID:           3,
			UserName:     "Omar Z.",
			Company:      "Delta Logistics",
			TimeAgo:      "3h ago",
			ProductName:  "Raw Denim Stock #022",
			Status:       "New Interaction",
			Needs:        "Requesting quote for full export batch. Interested in 14oz weight only. Provide port logistics breakdown to Port Said.",
			Quantity:     "Full Container",
			Location:     "Port Said, Egypt",
			UserAvatar:   "https://picsum.photos/seed/user3/100/100",
			ProductImage: "https://images.unsplash.com/photo-1542272604-787c3835535d?q=80&w=400&auto=format&fit=crop",
		},
	}
}
