package models

import (
	"fmt"
	"time"
)

// Pass statuses
const (
	PassStatusRunning   = "running"
	PassStatusCompleted = "completed"
)

// PassCounts aggregates the item outcomes of one full channel traversal.
type PassCounts struct {
	PlaylistsTotal   int
	ItemsDownloaded  int
	ItemsSkipped     int
	ItemsUnavailable int
	ItemsFailed      int
}

// Add accumulates another set of counts into c.
func (c *PassCounts) Add(other PassCounts) {
	c.PlaylistsTotal += other.PlaylistsTotal
	c.ItemsDownloaded += other.ItemsDownloaded
	c.ItemsSkipped += other.ItemsSkipped
	c.ItemsUnavailable += other.ItemsUnavailable
	c.ItemsFailed += other.ItemsFailed
}

// Pass is one full traversal of all playlists for a channel.
type Pass struct {
	id         string
	sequence   int
	channelID  string
	status     string
	counts     PassCounts
	startedAt  time.Time
	finishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

// NewPass creates a running pass for the given channel, started now.
func NewPass(sequence int, channelID string) *Pass {
	now := time.Now()
	return &Pass{
		sequence:  sequence,
		channelID: channelID,
		status:    PassStatusRunning,
		startedAt: now,
		createdAt: now,
		updatedAt: now,
	}
}

// RestorePass rebuilds a pass from persisted state.
func RestorePass(id string, sequence int, channelID, status string, counts PassCounts, startedAt, finishedAt, createdAt, updatedAt time.Time) *Pass {
	return &Pass{
		id:         id,
		sequence:   sequence,
		channelID:  channelID,
		status:     status,
		counts:     counts,
		startedAt:  startedAt,
		finishedAt: finishedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (p *Pass) ID() string { return p.id }
func (p *Pass) Sequence() int { return p.sequence }
func (p *Pass) ChannelID() string { return p.channelID }
func (p *Pass) Status() string { return p.status }
func (p *Pass) Counts() PassCounts { return p.counts }
func (p *Pass) StartedAt() time.Time { return p.startedAt }
func (p *Pass) FinishedAt() time.Time { return p.finishedAt }
func (p *Pass) CreatedAt() time.Time { return p.createdAt }
func (p *Pass) UpdatedAt() time.Time { return p.updatedAt }

func (p *Pass) SetID(id string) { p.id = id }

func (p *Pass) SetSequence(sequence int) { p.sequence = sequence }
func (p *Pass) SetUpdatedAt(t time.Time) { p.updatedAt = t }
func (p *Pass) SetCounts(c PassCounts) { p.counts = c }

// Complete marks the pass finished with its final counts.
func (p *Pass) Complete(counts PassCounts) {
	now := time.Now()
	p.status = PassStatusCompleted
	p.counts = counts
	p.finishedAt = now
	p.updatedAt = now
}

// Validate checks the pass invariants before persistence.
func (p *Pass) Validate() error {
	if p.channelID == "" {
		return fmt.Errorf("pass requires a channel id")
	}
	if p.status != PassStatusRunning && p.status != PassStatusCompleted {
		return fmt.Errorf("invalid pass status: %s", p.status)
	}
	return nil
}
