package models

import (
	"fmt"
	"time"
)

// Strategy decides which items an automation profile puts on display.
type Strategy string

const (
	StrategyRandom        Strategy = "RANDOM"
	StrategyChronological Strategy = "CHRONOLOGICAL"
	StrategyTrending      Strategy = "TRENDING"
	StrategyAICurated     Strategy = "AI_CURATED"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(s); st {
	case StrategyRandom, StrategyChronological, StrategyTrending, StrategyAICurated:
		return st, nil
	}
	return "", fmt.Errorf("unknown strategy %q", s)
}

// Sync interval bounds, in minutes.
const (
	MinAutomationInterval  = 5
	MaxAutomationInterval  = 1440
	AutomationIntervalStep = 5

	MaxMonitoredItems = 50
)

// AutomationProfile rotates what one service displays. Interval is in
// minutes; Display holds the post ids of the last rotation.
type AutomationProfile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Service        Service   `json:"service"`
	Interval       int       `json:"interval"`
	Strategy       Strategy  `json:"strategy"`
	Active         bool      `json:"active"`
	MonitoredItems int       `json:"monitored_items"`
	LastRun        time.Time `json:"last_run,omitzero"`
	Display        []string  `json:"display,omitempty"`
}

// Due reports whether the profile should rotate at now.
func (p AutomationProfile) Due(now time.Time) bool {
	return p.Active && (p.LastRun.IsZero() || !now.Before(p.LastRun.Add(time.Duration(p.Interval)*time.Minute)))
}

// SeedAutomationProfiles is the rotation table an admin starts with.
func SeedAutomationProfiles() []AutomationProfile {
	return []AutomationProfile{
		{ID: "1", Name: "Look Library Rotation", Service: ServiceMarketLook, Interval: 60, Strategy: StrategyRandom, Active: true, MonitoredItems: 8},
		{ID: "2", Name: "Hup Trending Pulse", Service: ServiceMarketHup, Interval: 30, Strategy: StrategyTrending, Active: true, MonitoredItems: 12},
		{ID: "3", Name: "Vid Feed Cycle", Service: ServiceMarketVID, Interval: 15, Strategy: StrategyChronological, Active: false, MonitoredItems: 15},
		{ID: "4", Name: "HATOo Database Sync", Service: ServiceHATOo, Interval: 1440, Strategy: StrategyAICurated, Active: true, MonitoredItems: 10},
		{ID: "5", Name: "Souq Managed Rotation", Service: ServiceSouqStore, Interval: 120, Strategy: StrategyTrending, Active: true, MonitoredItems: 5},
		{ID: "6", Name: "Profile Discoverability", Service: ServiceUserProfile, Interval: 720, Strategy: StrategyRandom, Active: true, MonitoredItems: 20},
	}
}
