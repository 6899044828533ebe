package engine

import (
	"github.com/matthewbaird/compliance/internal/types"
)

// DisplayDescriptor is a plain value the presentation layer maps to its
// own iconography and palette. Keeping this a lookup table keeps the
// engine free of rendering concerns.
type DisplayDescriptor struct {
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var categoryDisplay = map[string]DisplayDescriptor{
	"Fire Safety":      {Icon: "flame", Color: "red"},
	"Building Systems": {Icon: "gear", Color: "blue"},
	"Structural":       {Icon: "building", Color: "slate"},
	"Plumbing":         {Icon: "droplet", Color: "cyan"},
	"Health":           {Icon: "heart-pulse", Color: "green"},
	"Electrical":       {Icon: "bolt", Color: "amber"},
}

var defaultCategoryDisplay = DisplayDescriptor{Icon: "clipboard", Color: "gray"}

var severityDisplay = map[types.Severity]DisplayDescriptor{
	types.SeverityCritical: {Icon: "alert-octagon", Color: "red"},
	types.SeverityHigh:     {Icon: "alert-triangle", Color: "orange"},
	types.SeverityMedium:   {Icon: "alert-circle", Color: "amber"},
	types.SeverityLow:      {Icon: "info", Color: "gray"},
}

var urgencyDisplay = map[types.UrgencyLevel]DisplayDescriptor{
	types.UrgencyCritical: {Icon: "alarm", Color: "red"},
	types.UrgencyHigh:     {Icon: "clock-alert", Color: "orange"},
	types.UrgencyMedium:   {Icon: "clock", Color: "amber"},
	types.UrgencyLow:      {Icon: "calendar", Color: "green"},
}

// CategoryDisplay returns the descriptor for an inspection category.
func CategoryDisplay(category string) DisplayDescriptor {
	if d, ok := categoryDisplay[category]; ok {
		return d
	}
	return defaultCategoryDisplay
}

// SeverityDisplay returns the descriptor for a violation severity.
func SeverityDisplay(sev types.Severity) DisplayDescriptor {
	if d, ok := severityDisplay[sev]; ok {
		return d
	}
	return defaultCategoryDisplay
}

// UrgencyDisplay returns the descriptor for an urgency level.
func UrgencyDisplay(u types.UrgencyLevel) DisplayDescriptor {
	if d, ok := urgencyDisplay[u]; ok {
		return d
	}
	return defaultCategoryDisplay
}
