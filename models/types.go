// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote tier constants
const (
	TierA = "A"
	TierB = "B"
	TierC = "C"
)

// ValidTier reports whether s is one of the three vote tiers.
func ValidTier(s string) bool {
	return s == TierA || s == TierB || s == TierC
}

// WinnerDraw is stored as a theme's winner_name when both camps tie.
const WinnerDraw = "draw"

// Legacy logical camp references. Old rows carry "1"/"2" instead of an
// actual camp_id; they must be resolved positionally against the theme's
// camps before any comparison.
const (
	LogicalCamp1 = "1"
	LogicalCamp2 = "2"
)

// Request types

type CreateStickyRequest struct {
	StudentID     string `json:"student_id"`
	StickyContent string `json:"sticky_content"`
	StickyColor   string `json:"sticky_color"`
	XAxis         int    `json:"x_axis"`
	YAxis         int    `json:"y_axis"`
}

// UpdateStickyRequest carries the whitelisted partial-update fields.
// Nil means "leave unchanged".
type UpdateStickyRequest struct {
	StickyContent *string `json:"sticky_content,omitempty"`
	StickyColor   *string `json:"sticky_color,omitempty"`
	XAxis         *int    `json:"x_axis,omitempty"`
	YAxis         *int    `json:"y_axis,omitempty"`
	DisplayIndex  *int    `json:"display_index,omitempty"`
	FeedbackA     *int    `json:"feedback_A,omitempty"`
	FeedbackB     *int    `json:"feedback_B,omitempty"`
	FeedbackC     *int    `json:"feedback_C,omitempty"`
}

type CastVoteRequest struct {
	VoterID  string `json:"voter_id"`
	VoteType string `json:"vote_type"`
}

type CreateThemeRequest struct {
	SchoolID  string    `json:"school_id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Camp1Name string    `json:"camp1_name"`
	Camp2Name string    `json:"camp2_name"`
}

type UpdateThemeRequest struct {
	Title     *string    `json:"title,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

type CreateMessageRequest struct {
	StudentID      string `json:"student_id"`
	StickyID       string `json:"sticky_id"`
	CampID         string `json:"camp_id"`
	MessageContent string `json:"message_content"`
}

type RoomVoteRequest struct {
	MessageID string `json:"message_id"`
	VoterID   string `json:"voter_id"`
	VoteType  string `json:"vote_type"`
}

type UpdateCampRequest struct {
	CampID *string `json:"camp_id"`
}

type UpdatePointsRequest struct {
	SumPoint  *int `json:"sum_point,omitempty"`
	HavePoint *int `json:"have_point,omitempty"`
}

// Response types

type CastVoteResponse struct {
	StickyID  string `json:"sticky_id"`
	FeedbackA int    `json:"feedback_A"`
	FeedbackB int    `json:"feedback_B"`
	FeedbackC int    `json:"feedback_C"`
}

type CreateThemeResponse struct {
	ThemeID string `json:"theme_id"`
	Camps   []Camp `json:"camps"`
}

type CloseThemeResponse struct {
	ThemeID     string `json:"theme_id"`
	WinnerName  string `json:"winner_name"`
	Camp1Score  int    `json:"camp1_score"`
	Camp2Score  int    `json:"camp2_score"`
	HistoryRows int    `json:"history_rows"`
}

type DeleteStickyResponse struct {
	StickyID  string `json:"sticky_id"`
	StudentID string `json:"student_id"`
	SchoolID  string `json:"school_id"`
}

// Domain types

type Student struct {
	ID        string    `json:"student_id"`
	SchoolID  string    `json:"school_id"`
	Name      string    `json:"name"`
	CampID    *string   `json:"camp_id"`
	SumPoint  int       `json:"sum_point"`
	HavePoint int       `json:"have_point"`
	CreatedAt time.Time `json:"created_at"`
}

type Theme struct {
	ID         string    `json:"theme_id"`
	SchoolID   string    `json:"school_id"`
	Title      string    `json:"title"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	WinnerName *string   `json:"winner_name,omitempty"`
	Camp1Score *int      `json:"camp1_score,omitempty"`
	Camp2Score *int      `json:"camp2_score,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type Camp struct {
	ID       string `json:"camp_id"`
	ThemeID  string `json:"theme_id"`
	CampName string `json:"camp_name"`
	IsWinner bool   `json:"is_winner"`
}

// Sticky is a posted note. AuthorCampID is the author's camp frozen at
// creation time, never a live join to the student row.
type Sticky struct {
	ID            string    `json:"sticky_id"`
	StudentID     string    `json:"student_id"`
	AuthorCampID  string    `json:"author_camp_id"`
	StickyContent string    `json:"sticky_content"`
	StickyColor   string    `json:"sticky_color"`
	XAxis         int       `json:"x_axis"`
	YAxis         int       `json:"y_axis"`
	DisplayIndex  int       `json:"display_index"`
	FeedbackA     int       `json:"feedback_A"`
	FeedbackB     int       `json:"feedback_B"`
	FeedbackC     int       `json:"feedback_C"`
	StudentName   string    `json:"student_name"`
	SchoolID      string    `json:"school_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// VoteRecord is one row of the vote ledger. VoterCampID is frozen at vote
// time, for the same historical-stability reason as Sticky.AuthorCampID.
type VoteRecord struct {
	StickyID    string    `json:"sticky_id"`
	VoterID     string    `json:"voter_id"`
	VoterCampID string    `json:"voter_camp_id"`
	VoteType    string    `json:"vote_type"`
	VoterName   string    `json:"voter_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Message struct {
	ID             string    `json:"message_id"`
	StickyID       string    `json:"sticky_id"`
	StudentID      string    `json:"student_id"`
	CampID         string    `json:"camp_id"`
	MessageContent string    `json:"message_content"`
	FeedbackA      int       `json:"feedback_A"`
	FeedbackB      int       `json:"feedback_B"`
	FeedbackC      int       `json:"feedback_C"`
	StudentName    string    `json:"student_name,omitempty"`
	UserVoteType   *string   `json:"user_vote_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type PointHistory struct {
	ID        string    `json:"history_id"`
	StudentID string    `json:"student_id"`
	ThemeID   string    `json:"theme_id"`
	CampID    string    `json:"camp_id"`
	SumPoint  int       `json:"sum_point"`
	CreatedAt time.Time `json:"created_at"`
}

// CampScore is one camp's standing in a theme. Percent is the camp's share
// of total absolute score; an all-zero board splits 50/50.
type CampScore struct {
	CampID   string  `json:"camp_id"`
	CampName string  `json:"camp_name"`
	Score    int     `json:"score"`
	Percent  float64 `json:"percent"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
