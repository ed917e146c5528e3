package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"e-voting/app/server/apperr"
	"e-voting/app/server/models"
	"e-voting/app/server/testutil"
	"e-voting/app/server/utils"

	"gorm.io/gorm"
)

func castTestVote(t *testing.T, db *gorm.DB, voter string, votingID, candidateID uint) {
	t.Helper()
	if err := RecordVoteTx(db, &models.Vote{UserIdentifier: voter, VotingID: votingID, CandidateID: candidateID}); err != nil {
		t.Fatalf("RecordVoteTx() error = %v", err)
	}
}

func TestEventValidation(t *testing.T) {
	l := New(testutil.SetupTestDB(t))
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   VotingInput
		want error
	}{
		{"valid", VotingInput{Title: "Student council", StartsAt: start, EndsAt: start.Add(8 * time.Hour)}, nil},
		{"instant voting", VotingInput{Title: "Snap poll", StartsAt: start, EndsAt: start}, nil},
		{"blank title", VotingInput{Title: "  ", StartsAt: start, EndsAt: start.Add(time.Hour)}, apperr.ErrValidation},
		{"missing end", VotingInput{Title: "x", StartsAt: start}, apperr.ErrValidation},
		{"end before start", VotingInput{Title: "x", StartsAt: start, EndsAt: start.Add(-time.Hour)}, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := l.CreateEvent(ctx, tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("CreateEvent() error = %v, want %v", err, tt.want)
			}
			if tt.want == nil && v.ID == 0 {
				t.Error("CreateEvent() returned no id")
			}
		})
	}
}

func TestEventLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db)
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	older, _ := l.CreateEvent(ctx, VotingInput{Title: "Older", StartsAt: start, EndsAt: start.Add(time.Hour)})
	newer, _ := l.CreateEvent(ctx, VotingInput{Title: "Newer", StartsAt: start.Add(48 * time.Hour), EndsAt: start.Add(50 * time.Hour)})

	list, err := l.ListEvents(ctx)
	if err != nil {
		t.Fatalf("ListEvents() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != newer.ID || list[1].ID != older.ID {
		t.Errorf("ListEvents() order = %+v", list)
	}

	updated, err := l.UpdateEvent(ctx, older.ID, VotingInput{Title: "Renamed", StartsAt: start, EndsAt: start.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("UpdateEvent() error = %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
	got, _ := l.GetEvent(ctx, older.ID)
	if got.Title != "Renamed" || !got.EndsAt.Equal(start.Add(2*time.Hour)) {
		t.Errorf("GetEvent() after update = %+v", got)
	}

	if _, err := l.UpdateEvent(ctx, 9999, VotingInput{Title: "x", StartsAt: start, EndsAt: start}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("UpdateEvent() on absent voting error = %v", err)
	}
	if _, err := l.GetEvent(ctx, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetEvent() on absent voting error = %v", err)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db)
	ctx := context.Background()

	doomed := testutil.CreateTestVoting(t, db, "Doomed")
	kept := testutil.CreateTestVoting(t, db, "Kept")
	c1 := testutil.AddTestCandidate(t, db, doomed.ID, "a")
	c2 := testutil.AddTestCandidate(t, db, kept.ID, "b")
	castTestVote(t, db, "v1", doomed.ID, c1.ID)
	castTestVote(t, db, "v1", kept.ID, c2.ID)

	if err := l.DeleteEvent(ctx, doomed.ID); err != nil {
		t.Fatalf("DeleteEvent() error = %v", err)
	}

	var votes, candidates int64
	db.Model(&models.Vote{}).Where("voting_id = ?", doomed.ID).Count(&votes)
	db.Model(&models.Candidate{}).Where("voting_id = ?", doomed.ID).Count(&candidates)
	if votes != 0 || candidates != 0 {
		t.Errorf("Left behind %d votes and %d candidates", votes, candidates)
	}
	if testutil.CountVotes(t, db, "v1", kept.ID) != 1 {
		t.Error("DeleteEvent() touched another voting")
	}

	if err := l.DeleteEvent(ctx, doomed.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Second DeleteEvent() error = %v, want ErrNotFound", err)
	}
}

func TestCandidates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db)
	ctx := context.Background()
	voting := testutil.CreateTestVoting(t, db, "Council")

	alice, err := l.AddCandidate(ctx, voting.ID, CandidateInput{Name: "Alice", ExternalID: "13519001", PhotoRef: "photos/alice.jpg"})
	if err != nil {
		t.Fatalf("AddCandidate() error = %v", err)
	}
	bob, _ := l.AddCandidate(ctx, voting.ID, CandidateInput{Name: "Bob", ExternalID: "13519002"})

	if _, err := l.AddCandidate(ctx, 9999, CandidateInput{Name: "X", ExternalID: "1"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("AddCandidate() to absent voting error = %v", err)
	}
	if _, err := l.AddCandidate(ctx, voting.ID, CandidateInput{Name: "", ExternalID: "1"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("AddCandidate() without name error = %v", err)
	}

	list, err := l.ListCandidates(ctx, voting.ID)
	if err != nil {
		t.Fatalf("ListCandidates() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != alice.ID || list[1].ID != bob.ID {
		t.Errorf("ListCandidates() = %+v", list)
	}
	if _, err := l.ListCandidates(ctx, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("ListCandidates() on absent voting error = %v", err)
	}

	updated, err := l.UpdateCandidate(ctx, voting.ID, alice.ID, CandidatePatch{VisionMission: utils.P("Better canteens")})
	if err != nil {
		t.Fatalf("UpdateCandidate() error = %v", err)
	}
	if updated.VisionMission != "Better canteens" || updated.Name != "Alice" || updated.PhotoRef != "photos/alice.jpg" {
		t.Errorf("UpdateCandidate() = %+v", updated)
	}
	if _, err := l.UpdateCandidate(ctx, voting.ID, alice.ID, CandidatePatch{}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("Empty UpdateCandidate() error = %v", err)
	}
	other := testutil.CreateTestVoting(t, db, "Other")
	if _, err := l.UpdateCandidate(ctx, other.ID, alice.ID, CandidatePatch{Name: utils.P("Eve")}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Cross-voting UpdateCandidate() error = %v", err)
	}

	castTestVote(t, db, "v1", voting.ID, bob.ID)
	if err := l.DeleteCandidate(ctx, bob.ID, voting.ID); err != nil {
		t.Fatalf("DeleteCandidate() error = %v", err)
	}
	if testutil.CountVotes(t, db, "v1", voting.ID) != 0 {
		t.Error("Votes for a deleted candidate remain")
	}
	if _, err := l.GetCandidate(ctx, voting.ID, bob.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetCandidate() after delete error = %v", err)
	}
	if err := l.DeleteCandidate(ctx, bob.ID, voting.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Second DeleteCandidate() error = %v", err)
	}
}

func TestTally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db)
	ctx := context.Background()

	voting := testutil.CreateTestVoting(t, db, "Council")
	other := testutil.CreateTestVoting(t, db, "Other")
	a := testutil.AddTestCandidate(t, db, voting.ID, "a")
	b := testutil.AddTestCandidate(t, db, voting.ID, "b")
	c := testutil.AddTestCandidate(t, db, voting.ID, "c")
	d := testutil.AddTestCandidate(t, db, voting.ID, "d")
	x := testutil.AddTestCandidate(t, db, other.ID, "x")

	castTestVote(t, db, "v1", voting.ID, c.ID)
	castTestVote(t, db, "v2", voting.ID, c.ID)
	castTestVote(t, db, "v3", voting.ID, a.ID)
	castTestVote(t, db, "v4", voting.ID, d.ID)
	castTestVote(t, db, "v1", other.ID, x.ID)

	tally, err := l.Tally(ctx, voting.ID)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}

	want := []struct {
		id    uint
		votes int64
	}{{c.ID, 2}, {a.ID, 1}, {d.ID, 1}, {b.ID, 0}}
	if len(tally.Results) != len(want) {
		t.Fatalf("Tally() returned %d rows, want %d", len(tally.Results), len(want))
	}
	for i, w := range want {
		r := tally.Results[i]
		if r.CandidateID != w.id || r.Votes != w.votes {
			t.Errorf("row %d = {%d %d}, want {%d %d}", i, r.CandidateID, r.Votes, w.id, w.votes)
		}
	}

	var rows int64
	db.Model(&models.Vote{}).Where("voting_id = ?", voting.ID).Count(&rows)
	if tally.TotalVotes != rows || tally.VotingID != voting.ID {
		t.Errorf("TotalVotes = %d, vote rows = %d", tally.TotalVotes, rows)
	}
	if tally.Results[0].ExternalID != "ext-c" {
		t.Errorf("Candidate attributes missing: %+v", tally.Results[0])
	}
}

func TestTallyEmptyAndAbsent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	l := New(db)
	ctx := context.Background()

	empty := testutil.CreateTestVoting(t, db, "Empty")
	tally, err := l.Tally(ctx, empty.ID)
	if err != nil {
		t.Fatalf("Tally() error = %v", err)
	}
	if tally.TotalVotes != 0 || tally.Results == nil || len(tally.Results) != 0 {
		t.Errorf("Tally() of empty voting = %+v", tally)
	}

	if _, err := l.Tally(ctx, 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Tally() of absent voting error = %v, want ErrNotFound", err)
	}
}

func TestTxHelpers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	voting := testutil.CreateTestVoting(t, db, "Council")
	other := testutil.CreateTestVoting(t, db, "Other")
	c := testutil.AddTestCandidate(t, db, voting.ID, "a")

	if ok, err := CandidateInVotingTx(db, voting.ID, c.ID); err != nil || !ok {
		t.Errorf("CandidateInVotingTx() own voting = %v, %v", ok, err)
	}
	if ok, _ := CandidateInVotingTx(db, other.ID, c.ID); ok {
		t.Error("CandidateInVotingTx() accepted a candidate of another voting")
	}

	if voted, _ := HasVotedTx(db, "v1", voting.ID); voted {
		t.Error("HasVotedTx() before voting = true")
	}
	castTestVote(t, db, "v1", voting.ID, c.ID)
	if voted, _ := HasVotedTx(db, "v1", voting.ID); !voted {
		t.Error("HasVotedTx() after voting = false")
	}

	// the unique index backs up the pre-check
	err := RecordVoteTx(db, &models.Vote{UserIdentifier: "v1", VotingID: voting.ID, CandidateID: c.ID})
	var already *apperr.AlreadyVotedError
	if !errors.As(err, &already) || already.Check != apperr.CheckConstraint {
		t.Errorf("RecordVoteTx() duplicate error = %v, want constraint AlreadyVoted", err)
	}
	if testutil.CountVotes(t, db, "v1", voting.ID) != 1 {
		t.Error("Duplicate vote row was written")
	}
}
