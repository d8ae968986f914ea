package models

import "fmt"

// Service is one named functional area of the marketplace.
type Service string

const (
	ServiceMarketLook           Service = "Market Look"
	ServiceMarketHup            Service = "Market Hup"
	ServiceMarketVID            Service = "Market VID"
	ServiceHATOo                Service = "HATOo"
	ServiceSouqStore            Service = "Souq Store"
	ServiceNotificationSettings Service = "Notification Settings"
	ServiceUserProfile          Service = "User Profile"
	ServiceMerchantDashboard    Service = "Merchant Dashboard"
	ServiceMerchantChannel      Service = "Merchant Channel"
	ServiceAdminDashboard       Service = "Admin Dashboard"
	ServiceControlPanel         Service = "Control Panel"
	ServiceLogin                Service = "Login"
	ServiceFavorites            Service = "Favorites"
	ServiceTrends               Service = "Trends"
	ServiceLiveAnalytics        Service = "Live Analytics"
	ServiceMyMessage            Service = "My Message"
)

// Services is the static catalog in declaration order.
var Services = []Service{
	ServiceMarketLook,
	ServiceMarketHup,
	ServiceMarketVID,
	ServiceHATOo,
	ServiceSouqStore,
	ServiceNotificationSettings,
	ServiceUserProfile,
	ServiceMerchantDashboard,
	ServiceMerchantChannel,
	ServiceAdminDashboard,
	ServiceControlPanel,
	ServiceLogin,
	ServiceFavorites,
	ServiceTrends,
	ServiceLiveAnalytics,
	ServiceMyMessage,
}

var serviceSlugs = map[string]Service{
	"market-look":           ServiceMarketLook,
	"market-hup":            ServiceMarketHup,
	"market-vid":            ServiceMarketVID,
	"hatoo":                 ServiceHATOo,
	"souq-store":            ServiceSouqStore,
	"notification-settings": ServiceNotificationSettings,
	"user-profile":          ServiceUserProfile,
	"merchant-dashboard":    ServiceMerchantDashboard,
	"merchant-channel":      ServiceMerchantChannel,
	"admin-dashboard":       ServiceAdminDashboard,
	"control-panel":         ServiceControlPanel,
	"login":                 ServiceLogin,
	"favorites":             ServiceFavorites,
	"trends":                ServiceTrends,
	"live-analytics":        ServiceLiveAnalytics,
	"my-message":            ServiceMyMessage,
}

// ParseService accepts either the display name ("Market VID") or its URL
// slug ("market-vid").
func ParseService(s string) (Service, error) {
	if svc, ok := serviceSlugs[s]; ok {
		return svc, nil
	}
	for _, svc := range Services {
		if string(svc) == s {
			return svc, nil
		}
	}
	return "", fmt.Errorf("unknown service %q", s)
}

// Slug is the URL form of the service name.
func (s Service) Slug() string {
	for slug, svc := range serviceSlugs {
		if svc == s {
			return slug
		}
	}
	return ""
}
