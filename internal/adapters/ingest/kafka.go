// Package ingest consumes score documents published by patient devices.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"balancehealth/internal/adapters/storage"
)

// MessageReader is the subset of *kafka.Reader used by Consumer.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler stores one score document for a patient.
type Handler func(ctx context.Context, patientEmail string, body []byte) error

// NewReader returns a consumer-group reader for the score topic.
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
}

// MaxAttempts bounds how often one message is tried against a failing store.
const MaxAttempts = 3

// RetryDelay separates attempts at one message and reopenings of the reader.
var RetryDelay = 2 * time.Second

// Consumer reads messages keyed by patient email whose value is a score document.
type Consumer struct {
	reader MessageReader
	handle Handler
}

// NewConsumer returns a Consumer passing every message to handle.
func NewConsumer(reader MessageReader, handle Handler) *Consumer {
	return &Consumer{reader: reader, handle: handle}
}

// Run consumes until ctx is cancelled or a message cannot be stored.
// Messages are committed once handled or once found malformed. Group commits
// advance the partition past every earlier offset, so a message that still fails
// storage after MaxAttempts stops the loop uncommitted.
// POST: Returns nil on cancellation; otherwise the reader or storage error
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("partition %d offset %d: %w", msg.Partition, msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			slog.Error("score_event", "event", "commit_failed", "partition", msg.Partition, "offset", msg.Offset, "error", err)
		}
	}
}

// process handles one message, retrying storage failures.
// POST: nil means the message may be committed
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	email := strings.TrimSpace(string(msg.Key))
	if email == "" {
		slog.Warn("score_event", "event", "message_rejected", "reason", "missing_key", "partition", msg.Partition, "offset", msg.Offset)
		return nil
	}

	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, email, msg.Value)
		if err == nil {
			return nil
		}
		var se *storage.Error
		if !errors.As(err, &se) {
			slog.Warn("score_event", "event", "message_rejected", "patient", email, "offset", msg.Offset, "error", err)
			return nil
		}
		slog.Error("score_event", "event", "message_failed", "patient", email, "offset", msg.Offset, "attempt", attempt, "error", err)
		if attempt == MaxAttempts {
			return err
		}
		if err := sleep(ctx, RetryDelay); err != nil {
			return err
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// Consume runs consumers over fresh readers until ctx is cancelled. Reopening
// rejoins the group, which resumes at the last committed offset, so a message
// that stopped a consumer is fetched again.
func Consume(ctx context.Context, open func() MessageReader, handle Handler) {
	for {
		c := NewConsumer(open(), handle)
		err := c.Run(ctx)
		if cerr := c.Close(); cerr != nil {
			slog.Warn("score_event", "event", "reader_close_failed", "error", cerr)
		}
		if ctx.Err() != nil {
			return
		}
		slog.Error("score_event", "event", "consumer_stopped", "error", err)
		if sleep(ctx, RetryDelay) != nil {
			return
		}
		slog.Info("score_event", "event", "consumer_restarted")
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
