package ir

// Version is the IR envelope schema version emitted by this toolchain.
const Version = "1.0"

// Document is the immutable IR envelope: nodes, relationships, states, the
// invariants bag, and compile metadata. Once constructed, a Document is
// never mutated in place; any change requires re-compilation from source.
type Document struct {
	VersionString string          `json:"version" yaml:"version"`
	Nodes         []*Node         `json:"nodes" yaml:"nodes"`
	Relationships []*Relationship `json:"relationships" yaml:"relationships"`
	States        []*State        `json:"states" yaml:"states"`
	Invariants    Invariants      `json:"invariants" yaml:"invariants"`
	Metadata      Metadata        `json:"metadata" yaml:"metadata"`

	nodeByID          map[string]*Node
	relsFromSource    map[string][]*Relationship
	relsToTarget      map[string][]*Relationship
	statesByNode      map[string]*State
}

// NewDocument builds a Document and its lookup indexes from the given
// entities. Entities are expected to already be in source-appearance order;
// NewDocument does not reorder them.
func NewDocument(nodes []*Node, rels []*Relationship, states []*State) *Document {
	d := &Document{
		VersionString: Version,
		Nodes:         nodes,
		Relationships: rels,
		States:        states,
	}
	d.BuildIndexes()
	return d
}

// BuildIndexes (re)builds the id -> entity lookup maps. It must be called
// after any direct field mutation (e.g. after JSON unmarshalling) before the
// Node/Relationships*/State lookup helpers are used.
func (d *Document) BuildIndexes() {
	d.nodeByID = make(map[string]*Node, len(d.Nodes))
	for _, n := range d.Nodes {
		d.nodeByID[n.ID] = n
	}
	d.relsFromSource = make(map[string][]*Relationship, len(d.Relationships))
	d.relsToTarget = make(map[string][]*Relationship, len(d.Relationships))
	for _, r := range d.Relationships {
		d.relsFromSource[r.Source] = append(d.relsFromSource[r.Source], r)
		d.relsToTarget[r.Target] = append(d.relsToTarget[r.Target], r)
	}
	d.statesByNode = make(map[string]*State, len(d.States))
	for _, s := range d.States {
		if _, exists := d.statesByNode[s.NodeID]; !exists {
			d.statesByNode[s.NodeID] = s
		}
	}
}

// Node returns the node with the given id, or nil if unknown.
func (d *Document) Node(id string) *Node {
	return d.nodeByID[id]
}

// RelationshipsFrom returns every relationship whose source is id, in
// source-appearance order.
func (d *Document) RelationshipsFrom(id string) []*Relationship {
	return d.relsFromSource[id]
}

// RelationshipsTo returns every relationship whose target is id, in
// source-appearance order.
func (d *Document) RelationshipsTo(id string) []*Relationship {
	return d.relsToTarget[id]
}

// StateOf returns the (at most one, per I3) state attached to id, or nil.
func (d *Document) StateOf(id string) *State {
	return d.statesByNode[id]
}

// StatesOfType returns every state of the given type, in source-appearance
// order.
func (d *Document) StatesOfType(t StateType) []*State {
	var out []*State
	for _, s := range d.States {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// RelationshipsOfType returns every relationship of the given type, in
// source-appearance order.
func (d *Document) RelationshipsOfType(t RelationshipType) []*Relationship {
	var out []*Relationship
	for _, r := range d.Relationships {
		if r.Type == t {
			out = append(out, r)
		}
	}
	return out
}
