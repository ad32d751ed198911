// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package trip

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jeranaias/journey360-tui/internal/util"
)

// DefaultEmergencyNumber is shown when the assessment names none.
const DefaultEmergencyNumber = "112"

// DefaultSafetyLocation seeds the safety search.
const DefaultSafetyLocation = "Paris, France"

// =============================================================================
// ALERTS
// =============================================================================

// AlertKind is the category tag of a safety alert.
type AlertKind string

const (
	AlertCritical AlertKind = "critical"
	AlertInfo     AlertKind = "info"
	AlertTransit  AlertKind = "transit"
)

// Label maps a kind to its display label. Unknown kinds read "Alert".
func (k AlertKind) Label() string {
	switch k {
	case AlertCritical:
		return "Critical"
	case AlertInfo:
		return "Informational"
	case AlertTransit:
		return "Transit"
	}
	return "Alert"
}

// Alert is one safety notice.
type Alert struct {
	ID          Text      `json:"id,omitempty"`
	Kind        AlertKind `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Time        string    `json:"time,omitempty"`
	Distance    string    `json:"distance,omitempty"`
}

// =============================================================================
// ASSESSMENT
// =============================================================================

// SafetyAssessment is the risk summary for a location.
type SafetyAssessment struct {
	Level           string  `json:"status"`
	Score           *Amount `json:"score,omitempty"`
	Description     string  `json:"description"`
	Insight         string  `json:"ai_insight,omitempty"`
	EmergencyNumber string  `json:"emergency_number,omitempty"`
	Alerts          []Alert `json:"alerts,omitempty"`
}

// UnmarshalJSON accepts the field names the different backend versions use:
// status/risk_status/level, score/risk_score and description/advice.
func (s *SafetyAssessment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status          string  `json:"status"`
		RiskStatus      string  `json:"risk_status"`
		Level           string  `json:"level"`
		Score           *Amount `json:"score"`
		RiskScore       *Amount `json:"risk_score"`
		Description     string  `json:"description"`
		Advice          string  `json:"advice"`
		Insight         string  `json:"ai_insight"`
		EmergencyNumber Text    `json:"emergency_number"`
		Alerts          []Alert `json:"alerts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SafetyAssessment{
		Level:           util.FirstNonEmpty(raw.Status, raw.RiskStatus, raw.Level),
		Score:           raw.Score,
		Description:     util.FirstNonEmpty(raw.Description, raw.Advice),
		Insight:         raw.Insight,
		EmergencyNumber: string(raw.EmergencyNumber),
		Alerts:          raw.Alerts,
	}
	if s.Score == nil {
		s.Score = raw.RiskScore
	}
	return nil
}

// Emergency returns the emergency number, defaulting to 112.
func (s *SafetyAssessment) Emergency() string {
	return util.FirstNonEmpty(strings.TrimSpace(s.EmergencyNumber), DefaultEmergencyNumber)
}

// InsightText prefers the AI insight and falls back to the description.
func (s *SafetyAssessment) InsightText() string {
	return util.FirstNonEmpty(s.Insight, s.Description)
}

// CountAlerts returns the total alert count and the number of critical ones.
func (s *SafetyAssessment) CountAlerts() (total, critical int) {
	for _, a := range s.Alerts {
		if a.Kind == AlertCritical {
			critical++
		}
	}
	return len(s.Alerts), critical
}

// Validate requires a level or a description, and a score in 0..100.
func (s *SafetyAssessment) Validate() error {
	var v validator
	if strings.TrimSpace(s.Level) == "" && strings.TrimSpace(s.Description) == "" {
		v.add("status", "assessment has neither a level nor a description")
	}
	if s.Score != nil && (*s.Score < 0 || *s.Score > 100) {
		v.add("score", "must be between 0 and 100, got %v", float64(*s.Score))
	}
	for i, a := range s.Alerts {
		if strings.TrimSpace(a.Title) == "" {
			v.add(fmt.Sprintf("alerts[%d].title", i), "is required")
		}
	}
	return v.err()
}

// ChatReply is the backend assistant's answer.
type ChatReply struct {
	Reply string `json:"reply"`
}
