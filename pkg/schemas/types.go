// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Alissa Contributors

// Package schemas defines the request shapes accepted at API boundaries and
// a registry that validates them by name.
package schemas

// RegisterRequest is a new account submission.
type RegisterRequest struct {
	Email     string `json:"email" jsonschema:"format=email,maxLength=254"`
	Username  string `json:"username" jsonschema:"minLength=3,maxLength=50"`
	Password  string `json:"password" jsonschema:"format=strong-password,maxLength=128"`
	FirstName string `json:"firstName,omitempty" jsonschema:"maxLength=100"`
	LastName  string `json:"lastName,omitempty" jsonschema:"maxLength=100"`
}

// LoginRequest is a sign-in submission. The password is only checked for
// presence; strength rules apply at registration.
type LoginRequest struct {
	Email    string `json:"email" jsonschema:"format=email"`
	Password string `json:"password" jsonschema:"minLength=1,maxLength=128"`
}

// Sort orders accepted by Pagination.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Pagination selects a page of a listing.
type Pagination struct {
	Page      int    `json:"page,omitempty" jsonschema:"minimum=1"`
	Limit     int    `json:"limit,omitempty" jsonschema:"minimum=1,maximum=100"`
	SortBy    string `json:"sortBy,omitempty" jsonschema:"maxLength=64"`
	SortOrder string `json:"sortOrder,omitempty" jsonschema:"enum=asc,enum=desc"`
}

// ApplyDefaults sets page 1, limit 10, descending order.
func (p *Pagination) ApplyDefaults() {
	p.Page = DefaultPage
	p.Limit = DefaultLimit
	p.SortOrder = SortDesc
}

// Offset returns the number of items preceding the page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// AgentType names an agent implementation.
type AgentType string

// Known agent types.
const (
	AgentInterview AgentType = "interview"
	AgentStudyPlan AgentType = "study-plan"
	AgentPractice  AgentType = "practice"
	AgentResume    AgentType = "resume"
)

// AgentSettings holds the recognised tuning knobs of an agent. Anything else
// goes into Metadata as plain strings.
type AgentSettings struct {
	Model        string            `json:"model,omitempty" jsonschema:"maxLength=128"`
	Temperature  float64           `json:"temperature,omitempty" jsonschema:"minimum=0,maximum=2"`
	MaxTokens    int               `json:"maxTokens,omitempty" jsonschema:"minimum=1,maximum=1000000"`
	SystemPrompt string            `json:"systemPrompt,omitempty" jsonschema:"maxLength=32768"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// AgentConfig describes an agent to be created or updated.
type AgentConfig struct {
	Name        string        `json:"name" jsonschema:"minLength=1,maxLength=100"`
	Type        AgentType     `json:"type" jsonschema:"enum=interview,enum=study-plan,enum=practice,enum=resume"`
	Description string        `json:"description,omitempty" jsonschema:"maxLength=1000"`
	Settings    AgentSettings `json:"settings"`
	Enabled     bool          `json:"enabled,omitempty"`
}

// ApplyDefaults enables the agent unless the input says otherwise.
func (c *AgentConfig) ApplyDefaults() {
	c.Enabled = true
}

// NotificationPreferences selects notification channels.
type NotificationPreferences struct {
	Email bool `json:"email,omitempty"`
	Push  bool `json:"push,omitempty"`
	SMS   bool `json:"sms,omitempty"`
}

// PrivacyPreferences controls profile exposure.
type PrivacyPreferences struct {
	ProfileVisibility string `json:"profileVisibility,omitempty" jsonschema:"enum=public,enum=private,enum=friends"`
	DataSharing       bool   `json:"dataSharing,omitempty"`
}

// UserPreferences are per-user display and notification settings.
type UserPreferences struct {
	Language      string                  `json:"language,omitempty" jsonschema:"minLength=2,maxLength=35"`
	Timezone      string                  `json:"timezone,omitempty" jsonschema:"minLength=1,maxLength=64"`
	Notifications NotificationPreferences `json:"notifications,omitempty"`
	Theme         string                  `json:"theme,omitempty" jsonschema:"enum=light,enum=dark,enum=auto"`
	Privacy       PrivacyPreferences      `json:"privacy,omitempty"`
}

// ApplyDefaults fills the platform defaults.
func (p *UserPreferences) ApplyDefaults() {
	p.Language = "zh-CN"
	p.Timezone = "Asia/Shanghai"
	p.Notifications = NotificationPreferences{Email: true, Push: true}
	p.Theme = "auto"
	p.Privacy = PrivacyPreferences{ProfileVisibility: "private"}
}
