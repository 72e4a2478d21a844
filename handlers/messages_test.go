// Copyright (c) 2025 NH-SK-U22.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/NH-SK-U22/SKproject/models"
	"github.com/NH-SK-U22/SKproject/testutil"
)

func TestCreateMessage(t *testing.T) {
	conn := setupTestDB(t)
	h := NewMessageHandler(conn, newTestHub())

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	author := createStudent(t, conn, "school-1", "Alice", camp1)
	commenter := createStudent(t, conn, "school-1", "Bob", camp2)
	stickyID := testutil.CreateTestSticky(t, conn, author, camp1, "discuss me")

	req := testutil.MakeRequest("POST", "/api/message", models.CreateMessageRequest{
		StudentID:      commenter,
		StickyID:       stickyID,
		CampID:         camp2,
		MessageContent: "I disagree",
	}, nil)
	w := httptest.NewRecorder()
	h.CreateMessage(w, req)

	testutil.AssertStatus(t, w, 201)

	var message models.Message
	testutil.AssertJSON(t, w, &message)
	if message.MessageContent != "I disagree" || message.StickyID != stickyID {
		t.Errorf("Unexpected message: %+v", message)
	}
	if message.StudentName != "Bob" {
		t.Errorf("Expected joined author name Bob, got %s", message.StudentName)
	}
}

func TestCreateMessageStickyNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewMessageHandler(conn, newTestHub())

	commenter := createStudent(t, conn, "school-1", "Bob", "")

	req := testutil.MakeRequest("POST", "/api/message", models.CreateMessageRequest{
		StudentID:      commenter,
		StickyID:       "missing",
		MessageContent: "into the void",
	}, nil)
	w := httptest.NewRecorder()
	h.CreateMessage(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestListMessagesWithOwnVote(t *testing.T) {
	conn := setupTestDB(t)
	h := NewMessageHandler(conn, newTestHub())

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	author := createStudent(t, conn, "school-1", "Alice", camp1)
	bob := createStudent(t, conn, "school-1", "Bob", camp2)
	stickyID := testutil.CreateTestSticky(t, conn, author, camp1, "chatty note")

	post := func(studentID, content string) models.Message {
		req := testutil.MakeRequest("POST", "/api/message", models.CreateMessageRequest{
			StudentID:      studentID,
			StickyID:       stickyID,
			CampID:         camp1,
			MessageContent: content,
		}, nil)
		w := httptest.NewRecorder()
		h.CreateMessage(w, req)
		testutil.AssertStatus(t, w, 201)
		var m models.Message
		testutil.AssertJSON(t, w, &m)
		return m
	}

	first := post(author, "opening remark")
	post(author, "second remark")

	// Bob reacts to the first message only.
	voteReq := testutil.MakeRequest("POST", "/api/room-vote", models.RoomVoteRequest{
		MessageID: first.ID,
		VoterID:   bob,
		VoteType:  models.TierA,
	}, nil)
	vw := httptest.NewRecorder()
	h.RoomVote(vw, voteReq)
	testutil.AssertStatus(t, vw, 200)

	req := testutil.MakeRequest("GET", "/api/message/sticky/"+stickyID+"?voter_id="+bob, nil, nil)
	req.SetPathValue("id", stickyID)
	w := httptest.NewRecorder()
	h.ListMessages(w, req)

	testutil.AssertStatus(t, w, 200)

	var resp struct {
		Messages     []models.Message `json:"messages"`
		MessageCount int              `json:"message_count"`
	}
	testutil.AssertJSON(t, w, &resp)
	if resp.MessageCount != 2 {
		t.Fatalf("Expected 2 messages, got %d", resp.MessageCount)
	}
	if resp.Messages[0].UserVoteType == nil || *resp.Messages[0].UserVoteType != models.TierA {
		t.Errorf("Expected Bob's own vote on the first message, got %v", resp.Messages[0].UserVoteType)
	}
	if resp.Messages[1].UserVoteType != nil {
		t.Errorf("Expected no vote on the second message, got %v", *resp.Messages[1].UserVoteType)
	}
}

func TestRoomVoteRecountsCounters(t *testing.T) {
	conn := setupTestDB(t)
	h := NewMessageHandler(conn, newTestHub())

	_, camp1, camp2 := createTheme(t, conn, "school-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	author := createStudent(t, conn, "school-1", "Alice", camp1)
	bob := createStudent(t, conn, "school-1", "Bob", camp2)
	carol := createStudent(t, conn, "school-1", "Carol", camp2)
	stickyID := testutil.CreateTestSticky(t, conn, author, camp1, "reactions")

	createReq := testutil.MakeRequest("POST", "/api/message", models.CreateMessageRequest{
		StudentID:      author,
		StickyID:       stickyID,
		CampID:         camp1,
		MessageContent: "rate this",
	}, nil)
	cw := httptest.NewRecorder()
	h.CreateMessage(cw, createReq)
	var message models.Message
	testutil.AssertJSON(t, cw, &message)

	vote := func(voterID, tier string) models.Message {
		req := testutil.MakeRequest("POST", "/api/room-vote", models.RoomVoteRequest{
			MessageID: message.ID,
			VoterID:   voterID,
			VoteType:  tier,
		}, nil)
		w := httptest.NewRecorder()
		h.RoomVote(w, req)
		testutil.AssertStatus(t, w, 200)
		var m models.Message
		testutil.AssertJSON(t, w, &m)
		return m
	}

	vote(bob, models.TierA)
	after := vote(carol, models.TierB)
	if after.FeedbackA != 1 || after.FeedbackB != 1 || after.FeedbackC != 0 {
		t.Errorf("Expected counters 1/1/0, got %d/%d/%d", after.FeedbackA, after.FeedbackB, after.FeedbackC)
	}

	// Bob changes his reaction; the recount replaces, not adds.
	final := vote(bob, models.TierC)
	if final.FeedbackA != 0 || final.FeedbackB != 1 || final.FeedbackC != 1 {
		t.Errorf("Expected counters 0/1/1 after revote, got %d/%d/%d", final.FeedbackA, final.FeedbackB, final.FeedbackC)
	}
}

func TestRoomVoteMessageNotFound(t *testing.T) {
	conn := setupTestDB(t)
	h := NewMessageHandler(conn, newTestHub())

	voter := createStudent(t, conn, "school-1", "Bob", "")

	req := testutil.MakeRequest("POST", "/api/room-vote", models.RoomVoteRequest{
		MessageID: "missing",
		VoterID:   voter,
		VoteType:  models.TierA,
	}, nil)
	w := httptest.NewRecorder()
	h.RoomVote(w, req)

	testutil.AssertStatus(t, w, 404)
}
