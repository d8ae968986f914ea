package models

import "fmt"

// NotificationSettings are the alert preferences of one device.
type NotificationSettings struct {
	MarketTrends      bool `json:"market_trends"`
	NewMerchants      bool `json:"new_merchants"`
	PriceDrops        bool `json:"price_drops"`
	DirectMessages    bool `json:"direct_messages"`
	HatoMatches       bool `json:"hato_matches"`
	EmailAlerts       bool `json:"email_alerts"`
	SMSAlerts         bool `json:"sms_alerts"`
	PushNotifications bool `json:"push_notifications"`
}

func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		MarketTrends:      true,
		NewMerchants:      true,
		DirectMessages:    true,
		HatoMatches:       true,
		EmailAlerts:       true,
		PushNotifications: true,
	}
}

// field returns the setting named by its JSON key.
func (n *NotificationSettings) field(key string) (*bool, error) {
	switch key {
	case "market_trends":
		return &n.MarketTrends, nil
	case "new_merchants":
		return &n.NewMerchants, nil
	case "price_drops":
		return &n.PriceDrops, nil
	case "direct_messages":
		return &n.DirectMessages, nil
	case "hato_matches":
		return &n.HatoMatches, nil
	case "email_alerts":
		return &n.EmailAlerts, nil
	case "sms_alerts":
		return &n.SMSAlerts, nil
	case "push_notifications":
		return &n.PushNotifications, nil
	}
	return nil, fmt.Errorf("unknown notification setting %q", key)
}

// Toggle flips the setting named key and returns its new value.
func (n *NotificationSettings) Toggle(key string) (bool, error) {
	f, err := n.field(key)
	if err != nil {
		return false, err
	}
	*f = !*f
	return *f, nil
}
