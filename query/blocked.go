package query

import (
	"sort"
	"time"

	"github.com/viant/flowscript/ir"
)

// BlockedOption configures a Blocked call.
type BlockedOption func(*blockedConfig)

type blockedConfig struct {
	since          *time.Time
	transitiveOneLevel bool
	now            time.Time
}

// WithBlockedSince filters to blockers whose `since` field is on or after t.
func WithBlockedSince(t time.Time) BlockedOption {
	return func(c *blockedConfig) { c.since = &t }
}

// WithBlockedNow overrides the reference time used to compute days_blocked;
// defaults to time.Now() at call time. Exposed for deterministic tests.
func WithBlockedNow(now time.Time) BlockedOption {
	return func(c *blockedConfig) { c.now = now }
}

// BlockerEntry is one blocked node in Blocked's output.
type BlockerEntry struct {
	NodeID            string         `json:"node_id" yaml:"nodeId"`
	Content            string        `json:"content" yaml:"content"`
	Reason             string        `json:"reason" yaml:"reason"`
	Since              string        `json:"since" yaml:"since"`
	DaysBlocked        int           `json:"days_blocked" yaml:"daysBlocked"`
	TransitiveCauses   *WhyResult    `json:"transitive_causes" yaml:"transitiveCauses"`
	TransitiveEffects  []ImpactNode  `json:"transitive_effects" yaml:"transitiveEffects"`
	ImpactScore        int           `json:"impact_score" yaml:"impactScore"`
}

// BlockedResult is the outcome of a Blocked call.
type BlockedResult struct {
	Blockers []BlockerEntry `json:"blockers" yaml:"blockers"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

const blockedDateLayout = "2006-01-02"

// Blocked returns every node carrying a `blocked` state, enriched with
// transitive-cause/effect summaries and sorted by impact.
func (e *Engine) Blocked(opts ...BlockedOption) (*BlockedResult, error) {
	cfg := blockedConfig{now: time.Now()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var entries []BlockerEntry
	for _, st := range e.doc.StatesOfType(ir.StateBlocked) {
		n := e.doc.Node(st.NodeID)
		if n == nil {
			continue
		}
		since := st.Fields["since"]
		if cfg.since != nil {
			parsed, err := time.Parse(blockedDateLayout, since)
			if err != nil || parsed.Before(*cfg.since) {
				continue
			}
		}

		daysBlocked := 0
		if parsed, err := time.Parse(blockedDateLayout, since); err == nil {
			daysBlocked = int(cfg.now.Sub(parsed).Hours() / 24)
		}

		why, _ := e.Why(n.ID, WithWhyMaxDepth(1))
		whatIf, _ := e.WhatIf(n.ID)
		effects := whatIf.ImpactTree

		entries = append(entries, BlockerEntry{
			NodeID:            n.ID,
			Content:           n.Content,
			Reason:            st.Fields["reason"],
			Since:             since,
			DaysBlocked:       daysBlocked,
			TransitiveCauses:  why,
			TransitiveEffects: effects,
			ImpactScore:       len(effects),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].ImpactScore != entries[j].ImpactScore {
			return entries[i].ImpactScore > entries[j].ImpactScore
		}
		return entries[i].DaysBlocked > entries[j].DaysBlocked
	})

	totalDays := 0
	oldest := ""
	oldestDays := -1
	for _, b := range entries {
		totalDays += b.DaysBlocked
		if b.DaysBlocked > oldestDays {
			oldestDays = b.DaysBlocked
			oldest = b.NodeID
		}
	}
	avg := 0.0
	if len(entries) > 0 {
		avg = float64(totalDays) / float64(len(entries))
	}

	return &BlockedResult{
		Blockers: entries,
		Metadata: map[string]any{
			"total_blockers":     len(entries),
			"average_days_blocked": avg,
			"oldest_blocker":     oldest,
		},
	}, nil
}
