package models

// Store is a merchant storefront in the Souq Store directory.
type Store struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Avatar    string `json:"avatar"`
	Cover     string `json:"cover"`
	Verified  bool   `json:"verified"`
	Followers string `json:"followers"`
	Products  int    `json:"products"`
}

// SeedStores is the storefront directory every device sees.
func SeedStores() []Store {
	return []Store{
		{ID: "m1", Name: "Cairo Textiles Co.", Category: "Industrial Hub • Textiles", Avatar: "https://picsum.photos/seed/m1/400/400", Cover: "https://picsum.photos/seed/c1/1200/400", Verified: true, Followers: "12.4K", Products: 142},
		{ID: "m2", Name: "Alexandria Glass Works", Category: "Manufacturing • Glassware", Avatar: "https://picsum.photos/seed/m2/400/400", Cover: "https://picsum.photos/seed/c2/1200/400", Verified: true, Followers: "8.2K", Products: 86},
		{ID: "m3", Name: "Giza Leather Goods", Category: "Fashion • Leather", Avatar: "https://picsum.photos/seed/m3/400/400", Cover: "https://picsum.photos/seed/c3/1200/400", Verified: true, Followers: "15.1K", Products: 210},
		{ID: "m4", Name: "Nile Electronics", Category: "Tech • Components", Avatar: "https://picsum.photos/seed/m4/400/400", Cover: "https://picsum.photos/seed/c4/1200/400", Verified: false, Followers: "3.5K", Products: 45},
	}
}
