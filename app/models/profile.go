package models

// DefaultAdminPassword is the password of the seeded admin profile.
const DefaultAdminPassword = "admin"

// ImporterProfile is the buyer-side identity of a device.
type ImporterProfile struct {
	Name   string `json:"name"   validate:"required,max=120"`
	Avatar string `json:"avatar" validate:"required,url"`
	Plan   Plan   `json:"plan"   validate:"required,in=FREE,PRO,SUPER,KING"`
}

// MerchantProfile is the seller-side identity of a device. Posts are
// attributed to merchants by Name.
type MerchantProfile struct {
	Name        string `json:"name"        validate:"required,max=120"`
	Category    string `json:"category"    validate:"max=120"`
	Bio         string `json:"bio"         validate:"max=500"`
	Avatar      string `json:"avatar"      validate:"required,url"`
	Location    string `json:"location"    validate:"max=120"`
	Email       string `json:"email"       validate:"nullable,email"`
	Phone       string `json:"phone"       validate:"max=40"`
	Established string `json:"established" validate:"nullable,digits=4"`
	Plan        Plan   `json:"plan"        validate:"required,in=FREE,PRO"`
}

// AdminProfile is the root terminal identity. PasswordHash is a bcrypt hash
// and never leaves the server.
type AdminProfile struct {
	Name         string `json:"name"   validate:"required,max=120"`
	Avatar       string `json:"avatar" validate:"required,url"`
	PasswordHash string `json:"password_hash,omitempty"`
}

func DefaultImporterProfile() ImporterProfile {
	return ImporterProfile{
		Name:   "Muhammad Zakaria",
		Avatar: "https://picsum.photos/seed/egypt-user/200/200",
		Plan:   PlanKing,
	}
}

func DefaultMerchantProfile() MerchantProfile {
	return MerchantProfile{
		Name:        "Cairo Textiles Co.",
		Category:    "Industrial Hub • Textiles",
		Bio:         "Leading gateway for wholesale fabrics in Egypt for over 30 years.",
		Avatar:      "https://picsum.photos/seed/m-sample/300/300",
		Location:    "Port Said, Egypt",
		Email:       "info@cairotextiles.eg",
		Phone:       "+20 10 1234 5678",
		Established: "1994",
		Plan:        PlanPro,
	}
}

// DefaultAdminProfile returns the seeded admin identity without a password
// hash; callers hash DefaultAdminPassword before persisting it.
func DefaultAdminProfile() AdminProfile {
	return AdminProfile{
		Name:   "SOUQHUP ADMIN",
		Avatar: "https://picsum.photos/seed/admin-system/400/400",
	}
}

// Identity is the name and avatar shown in a shell's sidebar.
type Identity struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
