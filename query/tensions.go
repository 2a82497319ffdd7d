package query

import "github.com/viant/flowscript/ir"

// GroupBy selects how Tensions buckets its results.
type GroupBy string

const (
	GroupByAxis GroupBy = "axis"
	GroupByNode GroupBy = "node"
	GroupByNone GroupBy = "none"
)

// TensionsOption configures a Tensions call.
type TensionsOption func(*tensionsConfig)

type tensionsConfig struct {
	groupBy        GroupBy
	filterByAxis   map[string]bool
	includeContext bool
}

// WithTensionsGroupBy selects the grouping; defaults to GroupByAxis.
func WithTensionsGroupBy(g GroupBy) TensionsOption {
	return func(c *tensionsConfig) { c.groupBy = g }
}

// WithTensionsFilterByAxis restricts results to the given axis labels.
func WithTensionsFilterByAxis(axes ...string) TensionsOption {
	return func(c *tensionsConfig) {
		c.filterByAxis = make(map[string]bool, len(axes))
		for _, a := range axes {
			c.filterByAxis[a] = true
		}
	}
}

// WithTensionsIncludeContext attaches each tension's source's nearest
// `causes` ancestor as context.
func WithTensionsIncludeContext(include bool) TensionsOption {
	return func(c *tensionsConfig) { c.includeContext = include }
}

// TensionEntry is one tension edge in query output.
type TensionEntry struct {
	Source    string  `json:"source" yaml:"source"`
	Target    string  `json:"target" yaml:"target"`
	AxisLabel *string `json:"axis_label,omitempty" yaml:"axisLabel,omitempty"`
	Context   string  `json:"context,omitempty" yaml:"context,omitempty"`
}

// TensionsResult is the outcome of a Tensions call; exactly one of the three
// grouped fields is populated, per groupBy.
type TensionsResult struct {
	TensionsByAxis map[string][]TensionEntry `json:"tensions_by_axis,omitempty" yaml:"tensionsByAxis,omitempty"`
	TensionsByNode map[string][]TensionEntry `json:"tensions_by_node,omitempty" yaml:"tensionsByNode,omitempty"`
	Tensions       []TensionEntry            `json:"tensions,omitempty" yaml:"tensions,omitempty"`
	Metadata       map[string]any            `json:"metadata" yaml:"metadata"`
}

// Tensions extracts every tension edge in the document, grouped as
// configured.
func (e *Engine) Tensions(opts ...TensionsOption) (*TensionsResult, error) {
	cfg := tensionsConfig{groupBy: GroupByAxis}
	for _, opt := range opts {
		opt(&cfg)
	}

	axisCounts := make(map[string]int)
	var entries []TensionEntry
	for _, rel := range e.doc.RelationshipsOfType(ir.RelTension) {
		axis := ""
		if rel.AxisLabel != nil {
			axis = *rel.AxisLabel
		}
		if cfg.filterByAxis != nil && !cfg.filterByAxis[axis] {
			continue
		}
		entry := TensionEntry{Source: rel.Source, Target: rel.Target, AxisLabel: rel.AxisLabel}
		if cfg.includeContext {
			entry.Context = e.nearestCausesAncestor(rel.Source)
		}
		entries = append(entries, entry)
		if axis != "" {
			axisCounts[axis]++
		}
	}

	res := &TensionsResult{}
	switch cfg.groupBy {
	case GroupByNode:
		res.TensionsByNode = make(map[string][]TensionEntry)
		for _, en := range entries {
			res.TensionsByNode[en.Source] = append(res.TensionsByNode[en.Source], en)
			res.TensionsByNode[en.Target] = append(res.TensionsByNode[en.Target], en)
		}
	case GroupByNone:
		res.Tensions = entries
	default:
		res.TensionsByAxis = make(map[string][]TensionEntry)
		for _, en := range entries {
			axis := ""
			if en.AxisLabel != nil {
				axis = *en.AxisLabel
			}
			res.TensionsByAxis[axis] = append(res.TensionsByAxis[axis], en)
		}
	}

	var mostCommon string
	var mostCommonCount int
	for axis, count := range axisCounts {
		if count > mostCommonCount {
			mostCommon, mostCommonCount = axis, count
		}
	}
	meta := map[string]any{
		"total_tensions": len(entries),
		"unique_axes":    len(axisCounts),
	}
	if mostCommon != "" {
		meta["most_common_axis"] = mostCommon
	} else {
		meta["most_common_axis"] = nil
	}
	res.Metadata = meta
	return res, nil
}

// nearestCausesAncestor returns the content of id's nearest ancestor via a
// single-hop `causes` edge, or "" if none exists.
func (e *Engine) nearestCausesAncestor(id string) string {
	for _, rel := range e.doc.RelationshipsTo(id) {
		if rel.Type != ir.RelCauses {
			continue
		}
		if n := e.doc.Node(rel.Source); n != nil {
			return n.Content
		}
	}
	return ""
}
