// Package events announces committed votes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// VoteRecorded is emitted once a vote transaction has committed.
type VoteRecorded struct {
	VoteID         uint      `json:"vote_id"`
	VotingID       uint      `json:"voting_id"`
	CandidateID    uint      `json:"candidate_id"`
	UserIdentifier string    `json:"user_identifier"`
	RecordedAt     time.Time `json:"recorded_at"`
}

type Publisher interface {
	PublishVoteRecorded(ctx context.Context, ev *VoteRecorded) error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	w MessageWriter
}

func NewKafkaPublisher(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{w: w}
}

// PublishVoteRecorded keys the message by voting id so one voting's events stay ordered on a partition.
func (p *KafkaPublisher) PublishVoteRecorded(ctx context.Context, ev *VoteRecorded) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal vote event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(ev.VotingID), 10)),
		Value: data,
		Time:  ev.RecordedAt,
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write vote event: %w", err)
	}
	return nil
}

// Nop drops every event. Used when no broker is configured.
type Nop struct{}

func (Nop) PublishVoteRecorded(context.Context, *VoteRecorded) error { return nil }
