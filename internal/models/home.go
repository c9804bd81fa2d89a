// Chartel - Channel and Advertiser Analytics
// Copyright 2026 Chartel Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chartel/chartel

package models

// Category is one row of the categories lookup table.
type Category struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	ChannelCount int    `json:"channel_count"`
}

// Country is one row of the countries lookup table.
type Country struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ChannelCount int    `json:"channel_count"`
}

// TeamMember is one row of team_members, used for account access checks.
type TeamMember struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	Status    string `json:"status"`
}

// Membership is the account membership response.
type Membership struct {
	AccountID string `json:"account_id"`
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
}
