// Package catalog loads and validates the economy dataset.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"EconomyBench/internal/model"
)

// Parse decodes a YAML or JSON catalog document, fills IDs from map keys and
// validates it.
func Parse(data []byte) (*model.Catalog, error) {
	var cat model.Catalog
	unmarshal := yaml.Unmarshal
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		unmarshal = json.Unmarshal
	}
	if err := unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	Normalize(&cat)
	if err := Validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Normalize makes every entity map non-nil, drops nil entries and sets each
// entity's ID to its map key.
func Normalize(cat *model.Catalog) {
	if cat.Assets == nil {
		cat.Assets = map[string]*model.Asset{}
	}
	if cat.Hustles == nil {
		cat.Hustles = map[string]*model.Hustle{}
	}
	if cat.Tracks == nil {
		cat.Tracks = map[string]*model.Track{}
	}
	if cat.Upgrades == nil {
		cat.Upgrades = map[string]*model.Upgrade{}
	}
	for id, a := range cat.Assets {
		if a == nil {
			delete(cat.Assets, id)
			continue
		}
		a.ID = id
	}
	for id, h := range cat.Hustles {
		if h == nil {
			delete(cat.Hustles, id)
			continue
		}
		h.ID = id
	}
	for id, t := range cat.Tracks {
		if t == nil {
			delete(cat.Tracks, id)
			continue
		}
		t.ID = id
	}
	for id, u := range cat.Upgrades {
		if u == nil {
			delete(cat.Upgrades, id)
			continue
		}
		u.ID = id
	}
}

// Validate rejects negative costs, times and limits and modifiers without a
// source or target. All problems are reported together.
func Validate(cat *model.Catalog) error {
	var errs []error
	neg := func(kind, id, field string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s %q: %s must not be negative", kind, id, field))
		}
	}

	for _, id := range cat.AssetIDs() {
		a := cat.Assets[id]
		neg("asset", id, "setup_cost", a.SetupCost)
		neg("asset", id, "schedule.setup_days", float64(a.Schedule.SetupDays))
		neg("asset", id, "schedule.setup_minutes_per_day", a.Schedule.SetupMinutesPerDay)
		neg("asset", id, "maintenance_time", a.MaintenanceTime)
		neg("asset", id, "maintenance_cost", a.MaintenanceCost)
	}
	for _, id := range cat.HustleIDs() {
		h := cat.Hustles[id]
		neg("hustle", id, "setup_time", h.SetupTime)
		neg("hustle", id, "setup_cost", h.SetupCost)
		if h.DailyLimit != nil {
			neg("hustle", id, "daily_limit", float64(*h.DailyLimit))
		}
	}
	for _, id := range cat.TrackIDs() {
		t := cat.Tracks[id]
		neg("track", id, "setup_cost", t.SetupCost)
		neg("track", id, "schedule.days", float64(t.Schedule.Days))
		neg("track", id, "schedule.minutes_per_day", t.Schedule.MinutesPerDay)
	}
	for _, id := range cat.UpgradeIDs() {
		neg("upgrade", id, "setup_cost", cat.Upgrades[id].SetupCost)
	}
	for i, m := range cat.Modifiers {
		if m.Source == "" {
			errs = append(errs, fmt.Errorf("modifier %d: missing source", i))
		}
		if m.Target == "" {
			errs = append(errs, fmt.Errorf("modifier %d (%s): missing target", i, m.Source))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog: %w", errors.Join(errs...))
	}
	return nil
}

// Summary is a compact description of a catalog's contents.
type Summary struct {
	Assets    []string `json:"assets"`
	Hustles   []string `json:"hustles"`
	Tracks    []string `json:"tracks"`
	Upgrades  []string `json:"upgrades"`
	Modifiers int      `json:"modifiers"`
}

// Summarize lists the catalog's IDs in sorted order.
func Summarize(cat *model.Catalog) Summary {
	return Summary{
		Assets:    cat.AssetIDs(),
		Hustles:   cat.HustleIDs(),
		Tracks:    cat.TrackIDs(),
		Upgrades:  cat.UpgradeIDs(),
		Modifiers: len(cat.Modifiers),
	}
}
