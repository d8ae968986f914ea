package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/validate"
)

type loginInput struct {
	Role     string `json:"role"     validate:"required,in=IMPORTER,MERCHANT,ADMIN,TEAM"`
	Password string `json:"password" validate:"max=64"`
}

func TestInRuleKeepsAllValues(t *testing.T) {
	for _, role := range []string{"IMPORTER", "MERCHANT", "ADMIN", "TEAM"} {
		assert.Empty(t, validate.Struct(loginInput{Role: role}), role)
	}

	errs := validate.Struct(loginInput{Role: "GUEST"})
	assert.Equal(t, "The selected role is invalid.", errs["role"])
}

func TestRequired(t *testing.T) {
	errs := validate.Struct(loginInput{})
	assert.Contains(t, errs, "role")
	assert.NotContains(t, errs, "password")
}

func TestMerchantProfileRules(t *testing.T) {
	p := models.DefaultMerchantProfile()
	assert.Empty(t, validate.Struct(p))

	p.Email = "not-an-email"
	p.Established = "94"
	p.Avatar = "avatar.png"
	p.Plan = models.PlanKing
	errs := validate.Struct(p)

	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "established")
	assert.Contains(t, errs, "avatar")
	assert.Contains(t, errs, "plan")
}

func TestNullableSkipsEmpty(t *testing.T) {
	p := models.DefaultMerchantProfile()
	p.Email = ""
	p.Established = ""
	assert.Empty(t, validate.Struct(p))
}

type upload struct {
	Data     string   `json:"data"      validate:"required,base64"`
	MimeType string   `json:"mime_type" validate:"required,media"`
	Tags     []string `json:"tags"      validate:"maxitems=2"`
}

func TestMediaRules(t *testing.T) {
	assert.Empty(t, validate.Struct(upload{Data: "aGVsbG8=", MimeType: "image/png"}))

	errs := validate.Struct(upload{Data: "%%%", MimeType: "text/plain", Tags: []string{"a", "b", "c"}})
	assert.Contains(t, errs, "data")
	assert.Contains(t, errs, "mime_type")
	assert.Contains(t, errs, "tags")
}

func TestMaxLength(t *testing.T) {
	errs := validate.Struct(loginInput{Role: "ADMIN", Password: string(make([]byte, 65))})
	assert.Equal(t, "The password must not exceed 64 characters.", errs["password"])
}
