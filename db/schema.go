// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The SQL below sticks to the dialect both sqlite and postgres accept:
// TEXT ids generated app-side, CURRENT_TIMESTAMP defaults, no SERIAL.
const schema = `
-- Students (identity and camp assignment come from the account system;
-- camp_id is the only field this service mutates, and only to NULL it
-- between rounds)
CREATE TABLE IF NOT EXISTS students (
    student_id TEXT PRIMARY KEY,
    school_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    camp_id TEXT,
    sum_point INTEGER NOT NULL DEFAULT 0,
    have_point INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_students_school ON students(school_id);

-- Debate themes (rounds)
CREATE TABLE IF NOT EXISTS debate_themes (
    theme_id TEXT PRIMARY KEY,
    school_id TEXT NOT NULL,
    title TEXT NOT NULL,
    start_date TIMESTAMP NOT NULL,
    end_date TIMESTAMP NOT NULL,
    winner_name TEXT,
    camp1_score INTEGER,
    camp2_score INTEGER,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_themes_school ON debate_themes(school_id, end_date);

-- Camps (two per theme; positional order by camp_id resolves legacy
-- logical references 1/2)
CREATE TABLE IF NOT EXISTS camps (
    camp_id TEXT PRIMARY KEY,
    theme_id TEXT NOT NULL REFERENCES debate_themes(theme_id) ON DELETE CASCADE,
    camp_name TEXT NOT NULL,
    is_winner BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_camps_theme ON camps(theme_id);

-- Sticky notes. author_camp_id is frozen at creation time.
CREATE TABLE IF NOT EXISTS sticky (
    sticky_id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(student_id),
    author_camp_id TEXT NOT NULL,
    sticky_content TEXT NOT NULL,
    sticky_color TEXT NOT NULL,
    x_axis INTEGER NOT NULL DEFAULT 0,
    y_axis INTEGER NOT NULL DEFAULT 0,
    display_index INTEGER NOT NULL DEFAULT 0,
    feedback_a INTEGER NOT NULL DEFAULT 0,
    feedback_b INTEGER NOT NULL DEFAULT 0,
    feedback_c INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_sticky_student ON sticky(student_id);

-- Vote ledger: at most one row per (sticky, voter); a second vote from
-- the same voter replaces the first. voter_camp_id is frozen at vote time.
CREATE TABLE IF NOT EXISTS sticky_votes (
    sticky_id TEXT NOT NULL REFERENCES sticky(sticky_id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES students(student_id),
    voter_camp_id TEXT NOT NULL,
    vote_type TEXT NOT NULL CHECK (vote_type IN ('A', 'B', 'C')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (sticky_id, voter_id)
);

CREATE INDEX IF NOT EXISTS idx_sticky_votes_voter ON sticky_votes(voter_id);

-- Sticky-room chat messages
CREATE TABLE IF NOT EXISTS messages (
    message_id TEXT PRIMARY KEY,
    sticky_id TEXT NOT NULL REFERENCES sticky(sticky_id) ON DELETE CASCADE,
    student_id TEXT NOT NULL REFERENCES students(student_id),
    camp_id TEXT NOT NULL,
    message_content TEXT NOT NULL,
    feedback_a INTEGER NOT NULL DEFAULT 0,
    feedback_b INTEGER NOT NULL DEFAULT 0,
    feedback_c INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_sticky ON messages(sticky_id);

-- Per-message reactions, recounted into the message's counters
CREATE TABLE IF NOT EXISTS message_votes (
    message_id TEXT NOT NULL REFERENCES messages(message_id) ON DELETE CASCADE,
    voter_id TEXT NOT NULL REFERENCES students(student_id),
    vote_type TEXT NOT NULL CHECK (vote_type IN ('A', 'B', 'C')),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (message_id, voter_id)
);

-- Append-only point snapshots taken at round closure
CREATE TABLE IF NOT EXISTS point_history (
    history_id TEXT PRIMARY KEY,
    student_id TEXT NOT NULL REFERENCES students(student_id),
    theme_id TEXT NOT NULL REFERENCES debate_themes(theme_id),
    camp_id TEXT NOT NULL,
    sum_point INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_point_history_student ON point_history(student_id);
`
