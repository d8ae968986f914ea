package services

// Benefit is one line of the upgrade offer.
type Benefit struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpgradeOffer is what the upgrade prompt shows.
type UpgradeOffer struct {
	Headline string    `json:"headline"`
	Tagline  string    `json:"tagline"`
	Benefits []Benefit `json:"benefits"`
	Price    string    `json:"price"`
	TrialCTA string    `json:"trial_cta"`
	Decline  string    `json:"decline"`
}

var upgradeOffer = UpgradeOffer{
	Headline: "Upgrade to PRO",
	Tagline:  "Unlock the full potential of Egypt's premier wholesale network",
	Benefits: []Benefit{
		{Icon: "grid_view", Title: "Market Hup Access", Description: "Unlock advanced grid views and bulk trade management tools."},
		{Icon: "movie", Title: "Market VID Feed", Description: "Engage with high-conversion video catalogs and live broadcasts."},
		{Icon: "center_focus_strong", Title: "HATOo Visual Search", Description: "Identify products instantly using AI-powered camera recognition."},
		{Icon: "dashboard", Title: "Command Hub", Description: "Full analytics dashboard to track your wholesale performance."},
		{Icon: "verified", Title: "Verified Badge", Description: "Gain trust with a verified badge on your profile and posts."},
	},
	Price:    "EGP 450 / Month",
	TrialCTA: "Start 14-Day Free Trial",
	Decline:  "Maybe Later",
}

// Offer returns a copy of the upgrade offer.
func Offer() UpgradeOffer {
	o := upgradeOffer
	o.Benefits = append([]Benefit(nil), upgradeOffer.Benefits...)
	return o
}
