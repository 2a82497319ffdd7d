package lint

import (
	"fmt"

	"github.com/viant/flowscript/ir"
)

// --- E001: tension missing axis -------------------------------------------

type tensionMissingAxis struct{}

func (r *tensionMissingAxis) Code() string       { return "E001" }
func (r *tensionMissingAxis) Severity() Severity { return SeverityError }

func (r *tensionMissingAxis) Check(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, rel := range g.Doc.Relationships {
		if rel.Type != ir.RelTension {
			continue
		}
		if rel.AxisLabel == nil || *rel.AxisLabel == "" {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:    fmt.Sprintf("tension between %q and %q has no axis label", rel.Source, rel.Target),
				Location:   locationOf(rel.Provenance),
				Suggestion: "add an axis label: `a ><[label] b`",
			})
		}
	}
	return out
}

// --- E002: required state fields missing -----------------------------------

type requiredStateFields struct{}

func (r *requiredStateFields) Code() string       { return "E002" }
func (r *requiredStateFields) Severity() Severity { return SeverityError }

func (r *requiredStateFields) Check(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, st := range g.Doc.States {
		var missing []string
		switch st.Type {
		case ir.StateDecided:
			missing = missingFields(st.Fields, "rationale", "on")
		case ir.StateBlocked:
			missing = missingFields(st.Fields, "reason", "since")
		}
		if len(missing) > 0 {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:    fmt.Sprintf("%s state missing required field(s): %v", st.Type, missing),
				NodeID:     st.NodeID,
				Location:   locationOf(st.Provenance),
				Suggestion: fmt.Sprintf("add %v to the [%s(...)] marker", missing, st.Type),
			})
		}
	}
	return out
}

func missingFields(fields map[string]string, required ...string) []string {
	var missing []string
	for _, f := range required {
		if fields[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// --- E003: multiple states on one node --------------------------------------

type multipleStates struct{}

func (r *multipleStates) Code() string       { return "E003" }
func (r *multipleStates) Severity() Severity { return SeverityError }

func (r *multipleStates) Check(g *Graph) []Diagnostic {
	counts := make(map[string]int)
	for _, st := range g.Doc.States {
		counts[st.NodeID]++
	}
	var out []Diagnostic
	for _, st := range g.Doc.States {
		if counts[st.NodeID] > 1 {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:    fmt.Sprintf("node %q carries %d states, at most one is allowed", st.NodeID, counts[st.NodeID]),
				NodeID:     st.NodeID,
				Location:   locationOf(st.Provenance),
				Suggestion: "remove all but the most recent state marker for this node",
			})
		}
	}
	return out
}

// --- E004: orphaned node -----------------------------------------------------

type orphanedNode struct{}

func (r *orphanedNode) Code() string       { return "E004" }
func (r *orphanedNode) Severity() Severity { return SeverityError }

func (r *orphanedNode) Check(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, n := range g.Doc.Nodes {
		if n.Type == ir.NodeAction || n.Type == ir.NodeCompletion {
			continue // exempt: todo-list pattern
		}
		if g.IsReferenced(n.ID) {
			continue // includes state-annotated nodes; see Graph.buildReferenced
		}
		out = append(out, Diagnostic{
			Code: r.Code(), Severity: r.Severity(),
			Message:    fmt.Sprintf("node %q is not referenced by any relationship, block, or state", n.ID),
			NodeID:     n.ID,
			Location:   locationOf(n.Provenance),
			Suggestion: "connect it with a relationship or remove it",
		})
	}
	return out
}

// --- E005: causal cycle ------------------------------------------------------

type causalCycle struct{}

func (r *causalCycle) Code() string       { return "E005" }
func (r *causalCycle) Severity() Severity { return SeverityError }

func (r *causalCycle) Check(g *Graph) []Diagnostic {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var path []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		path = append(path, id)
		for _, next := range g.CausesSuccessors(id) {
			switch color[next] {
			case gray:
				cycle = append(append([]string{}, path...), next)
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return false
	}

	for _, n := range g.Doc.Nodes {
		if color[n.ID] != white {
			continue
		}
		if visit(n.ID) {
			return []Diagnostic{{
				Code: r.Code(), Severity: r.Severity(),
				Message:    fmt.Sprintf("causal cycle: %v", cycle),
				Location:   locationOf(n.Provenance),
				Suggestion: "break the cycle by changing one `causes` edge to `<->` (bidirectional) or removing it",
			}}
		}
	}
	return nil
}

// --- E006: alternatives without closure --------------------------------------

type alternativesWithoutClosure struct{}

func (r *alternativesWithoutClosure) Code() string       { return "E006" }
func (r *alternativesWithoutClosure) Severity() Severity { return SeverityError }

func (r *alternativesWithoutClosure) Check(g *Graph) []Diagnostic {
	var hasAlternative bool
	for _, n := range g.Doc.Nodes {
		if n.Type == ir.NodeAlternative {
			hasAlternative = true
			break
		}
	}
	if !hasAlternative {
		return nil
	}
	if len(g.Doc.StatesOfType(ir.StateDecided)) > 0 {
		return nil
	}
	for _, st := range g.Doc.StatesOfType(ir.StateParking) {
		n := g.Doc.Node(st.NodeID)
		if n != nil && n.Type == ir.NodeQuestion {
			return nil
		}
	}
	return []Diagnostic{{
		Code: r.Code(), Severity: r.Severity(),
		Message:    "alternatives exist with no decided state and no parked question to close them",
		Suggestion: "add a [decided(...)] marker to the chosen alternative, or [parking(...)] to the question",
	}}
}

// --- W001: parking missing recommended fields --------------------------------

type parkingMissingFields struct{}

func (r *parkingMissingFields) Code() string       { return "W001" }
func (r *parkingMissingFields) Severity() Severity { return SeverityWarning }

func (r *parkingMissingFields) Check(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, st := range g.Doc.StatesOfType(ir.StateParking) {
		missing := missingFields(st.Fields, "why", "until")
		if len(missing) > 0 {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:    fmt.Sprintf("parking state missing recommended field(s): %v", missing),
				NodeID:     st.NodeID,
				Location:   locationOf(st.Provenance),
				Suggestion: fmt.Sprintf("add %v to the [parking(...)] marker", missing),
			})
		}
	}
	return out
}

// --- W002: deep block nesting -------------------------------------------------

type deepBlockNesting struct{}

func (r *deepBlockNesting) Code() string       { return "W002" }
func (r *deepBlockNesting) Severity() Severity { return SeverityWarning }

const maxBlockDepth = 5

func (r *deepBlockNesting) Check(g *Graph) []Diagnostic {
	var out []Diagnostic
	for _, n := range g.Doc.Nodes {
		if g.Depth(n.ID) > maxBlockDepth {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:  fmt.Sprintf("block nesting depth %d exceeds %d", g.Depth(n.ID), maxBlockDepth),
				NodeID:   n.ID,
				Location: locationOf(n.Provenance),
			})
		}
	}
	return out
}

// --- W003: long causal chain ---------------------------------------------------

type longCausalChain struct{}

func (r *longCausalChain) Code() string       { return "W003" }
func (r *longCausalChain) Severity() Severity { return SeverityWarning }

const maxCausalChain = 10

// Check finds the longest simple path in the causes-only DAG via memoized
// DFS; safe and polynomial because E005 has already ruled out cycles by the
// time this runs in a combined Lint call (a standalone Check on a cyclic
// graph never loops: the visiting set marks nodes on the current DFS path,
// and an edge back into that path contributes length 0).
func (r *longCausalChain) Check(g *Graph) []Diagnostic {
	memo := make(map[string]int)
	visiting := make(map[string]bool)
	var longestPath func(id string) int
	longestPath = func(id string) int {
		if v, ok := memo[id]; ok {
			return v
		}
		if visiting[id] {
			return 0 // cyclic; E005 reports this separately
		}
		visiting[id] = true
		best := 1
		for _, next := range g.CausesSuccessors(id) {
			if l := 1 + longestPath(next); l > best {
				best = l
			}
		}
		visiting[id] = false
		memo[id] = best
		return best
	}

	var out []Diagnostic
	for _, n := range g.Doc.Nodes {
		length := longestPath(n.ID)
		if length > maxCausalChain {
			out = append(out, Diagnostic{
				Code: r.Code(), Severity: r.Severity(),
				Message:  fmt.Sprintf("causal chain starting at %q has length %d, exceeding %d", n.ID, length, maxCausalChain),
				NodeID:   n.ID,
				Location: locationOf(n.Provenance),
			})
			break // report the first chain found
		}
	}
	return out
}
