// Package parse implements the FlowScript grammar parser and its
// post-processing passes: it turns preprocessed, brace-delimited text into
// an ir.Document.
//
// Each grammar production (question, insight, alternative, completion,
// state marker, relationship expression, block) is lowered by its own
// dedicated function below rather than through a dispatch table keyed by
// rule name, per the re-architecture notes: the parser is a total function
// from token stream to IR, with parser state threaded explicitly through a
// blockStack value rather than closed over.
package parse

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/viant/flowscript/ir"
)

// SyntaxError reports a fatal grammar mismatch, located at an
// original-source line/column already translated through the preprocessor's
// line map.
type SyntaxError struct {
	Message string
	Line    int
	Col     int
}

func (e *SyntaxError) Error() string {
	return errors.Errorf("line %d, col %d: %s", e.Line, e.Col, e.Message).Error()
}

// Option configures a Parser.
type Option func(*config)

type config struct {
	sourceFile string
	timestamp  string
}

// WithSourceFile records the originating file name in every node's
// provenance.
func WithSourceFile(name string) Option {
	return func(c *config) { c.sourceFile = name }
}

// WithTimestamp overrides the provenance timestamp (primarily for
// deterministic tests); defaults to empty, left for the caller to stamp.
func WithTimestamp(ts string) Option {
	return func(c *config) { c.timestamp = ts }
}

// blockFrame is one level of the explicit block stack threaded through
// parsing; it replaces the teacher-pattern's shared mutable
// currentSourceNode/blockStartNodeIndex/blockPrimaryNode closures with a
// plain stacked value.
type blockFrame struct {
	node     *ir.Node   // the block's own node, or nil for the implicit document root
	// children holds, resolved to ids lazily, nodes created directly within
	// this frame: every block node, the leading node of each line, and each
	// node made by a ?, ||, thought: or action: marker. Non-block
	// relationship and continuation targets, and ✓ nodes without a trailing
	// block, are not recorded here.
	children []*ir.Node
	// lastNode is the most recently pushed node at this frame. It is
	// recorded only; continuation lines chain from node instead.
	lastNode *ir.Node
}

// parser holds the token cursor and the accumulated IR being built. It is
// not exported: parse.Parse is the sole public entry point.
type parser struct {
	lex    *Lexer
	peeked *Token
	cfg    config

	nodes     []*ir.Node
	relations []*ir.Relationship
	states    []*ir.State

	dedup map[uint64][]*ir.Node // fingerprint -> candidate nodes, for dedup

	stack []*blockFrame

	// pending resolves a relationship's Source/Target/ID once parsing
	// finishes: a marker that reuses a trailing block (finishMarker)
	// reassigns that block node's id after relationships referencing it, as
	// a source, may already have been created inside its own body.
	pending []pendingRelationship
}

type pendingRelationship struct {
	rel            *ir.Relationship
	source, target *ir.Node
}

// Parse runs the grammar parser and its post-processing passes over
// preprocessed text, producing a complete ir.Document.
func Parse(text string, lineMap []int, opts ...Option) (*ir.Document, error) {
	cfg := config{sourceFile: "<source>"}
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &parser{
		lex:   NewLexer(text, lineMap),
		cfg:   cfg,
		dedup: make(map[uint64][]*ir.Node),
		stack: []*blockFrame{{}},
	}

	if err := p.parseDocument(); err != nil {
		return nil, err
	}

	for _, pr := range p.pending {
		pr.rel.Source = pr.source.ID
		pr.rel.Target = pr.target.ID
		pr.rel.ID = ir.RelationshipDigest(pr.rel.Type, pr.rel.Source, pr.rel.Target, pr.rel.AxisLabel)
	}

	doc := ir.NewDocument(p.nodes, p.relations, p.states)
	postProcess(doc)
	doc.Metadata = ir.Metadata{
		SourceFiles: []string{p.cfg.sourceFile},
		ParsedAt:    p.cfg.timestamp,
		Parser:      "flowscript-parse",
	}
	return doc, nil
}

// --- token cursor -----------------------------------------------------

func (p *parser) peek() Token {
	if p.peeked == nil {
		t := p.lex.Next()
		p.peeked = &t
	}
	return *p.peeked
}

func (p *parser) next() Token {
	t := p.peek()
	p.peeked = nil
	return t
}

// skipSeparators consumes any run of NEWLINE/SEMICOLON separators.
func (p *parser) skipSeparators() {
	for {
		k := p.peek().Kind
		if k == TokenNewline || k == TokenSemicolon {
			p.next()
			continue
		}
		return
	}
}

func (p *parser) top() *blockFrame { return p.stack[len(p.stack)-1] }

// --- node/relationship/state construction, with dedup ------------------

func (p *parser) makeNode(t ir.NodeType, content string, modifiers []ir.Modifier, line int) *ir.Node {
	content = strings.TrimSpace(content)
	fp := ir.NodeFingerprint(t, content, modifiers)
	for _, cand := range p.dedup[fp] {
		if cand.Type == t && cand.Content == content && sameModifiers(cand.Modifiers, modifiers) {
			return cand
		}
	}
	n := &ir.Node{
		ID:        ir.NodeDigest(t, content, modifiers),
		Type:      t,
		Content:   content,
		Modifiers: modifiers,
		Provenance: ir.Provenance{
			SourceFile: p.cfg.sourceFile,
			LineNumber: line,
			Timestamp:  p.cfg.timestamp,
		},
	}
	p.dedup[fp] = append(p.dedup[fp], n)
	p.nodes = append(p.nodes, n)
	return n
}

func sameModifiers(a, b []ir.Modifier) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p *parser) pushChild(n *ir.Node) {
	frame := p.top()
	frame.children = append(frame.children, n)
	frame.lastNode = n
}

func (p *parser) addRelationship(t ir.RelationshipType, source, target *ir.Node, axis *string, line int) *ir.Relationship {
	r := &ir.Relationship{
		Type:      t,
		AxisLabel: axis,
		Feedback:  t == ir.RelBidirectional,
		Provenance: ir.Provenance{
			SourceFile: p.cfg.sourceFile,
			LineNumber: line,
			Timestamp:  p.cfg.timestamp,
		},
	}
	p.relations = append(p.relations, r)
	p.pending = append(p.pending, pendingRelationship{rel: r, source: source, target: target})
	return r
}

func (p *parser) addState(t ir.StateType, fields map[string]string, line int) *ir.State {
	s := &ir.State{
		ID:     ir.StateDigest(t, "", fields),
		Type:   t,
		Fields: fields,
		Provenance: ir.Provenance{
			SourceFile: p.cfg.sourceFile,
			LineNumber: line,
			Timestamp:  p.cfg.timestamp,
		},
	}
	p.states = append(p.states, s)
	return s
}

// --- grammar: document ---------------------------------------------------

func (p *parser) parseDocument() error {
	for {
		p.skipSeparators()
		if p.peek().Kind == TokenEOF {
			return nil
		}
		if p.peek().Kind == TokenRBrace {
			return p.errf("unexpected '}'")
		}
		if err := p.parseLine(); err != nil {
			return err
		}
	}
}

// parseBlockBody parses BlockContent until a matching '}' is consumed.
func (p *parser) parseBlockBody() error {
	for {
		p.skipSeparators()
		if p.peek().Kind == TokenRBrace {
			p.next()
			return nil
		}
		if p.peek().Kind == TokenEOF {
			return p.errf("unexpected end of input inside block")
		}
		if err := p.parseLine(); err != nil {
			return err
		}
	}
}

// parseLine parses one Line: modifiers, then dispatches on content, then
// (for marker-bearing content) an optional trailing Block and zero or more
// ContinuationRel lines.
func (p *parser) parseLine() error {
	modifiers := p.parseModifiers()

	switch p.peek().Kind {
	case TokenLBrace:
		_, err := p.parseBlock(modifiers)
		return err
	case TokenLBracket:
		return p.parseStateMarker()
	case TokenQuestion:
		return p.parseMarkerElement(ir.NodeQuestion, modifiers, true)
	case TokenCompletion:
		return p.parseMarkerElement(ir.NodeCompletion, modifiers, false)
	case TokenAlternative:
		return p.parseMarkerElement(ir.NodeAlternative, modifiers, true)
	}

	if p.isKeywordMarker("thought") {
		return p.parseKeywordElement(ir.NodeThought, modifiers)
	}
	if p.isKeywordMarker("action") {
		return p.parseKeywordElement(ir.NodeAction, modifiers)
	}

	if p.peek().Kind == TokenOp {
		// A line opening directly with an operator, inside a block, is a
		// continuation relative to that block's own node (the primary-node
		// rule): e.g. the nested "-> stateless" under "|| JWT tokens".
		if frame := p.top(); frame.node != nil {
			return p.parseContinuations(frame.node)
		}
	}

	return p.parseRelationshipExpression(modifiers)
}

func (p *parser) parseModifiers() []ir.Modifier {
	var mods []ir.Modifier
	for p.peek().Kind == TokenModifier {
		t := p.next()
		switch t.Text {
		case "!":
			mods = append(mods, ir.ModifierUrgent)
		case "++":
			mods = append(mods, ir.ModifierStrongPositive)
		case "*":
			mods = append(mods, ir.ModifierHighConfidence)
		case "~":
			mods = append(mods, ir.ModifierLowConfidence)
		}
	}
	return mods
}

// isKeywordMarker reports whether the upcoming tokens spell "keyword:"
// without consuming them.
func (p *parser) isKeywordMarker(keyword string) bool {
	t := p.peek()
	if t.Kind != TokenText {
		return false
	}
	return strings.TrimSpace(t.Text) == keyword
}

// --- marker elements: ?, ✓, || -------------------------------------------

// parseMarkerElement handles '?', '✓', and '||' markers, which are followed
// directly by free text on the same line.
func (p *parser) parseMarkerElement(t ir.NodeType, modifiers []ir.Modifier, linksChildren bool) error {
	marker := p.next()
	text := p.readLineText()
	return p.finishMarker(t, text, modifiers, marker.Line, linksChildren)
}

// parseKeywordElement handles "thought:" and "action:" markers.
func (p *parser) parseKeywordElement(t ir.NodeType, modifiers []ir.Modifier) error {
	kw := p.next() // the keyword text token
	p.next()       // the colon
	text := p.readLineText()
	return p.finishMarker(t, text, modifiers, kw.Line, true)
}

// readLineText consumes TEXT up to NEWLINE/SEMICOLON/EOF/brace, or to a
// relationship operator: "marker TEXT Block? ContinuationRel* newline"
// permits a ContinuationRel directly after TEXT on the same physical line
// (e.g. "? q -> y"), so an operator token ends the text run here rather than
// being folded into it, leaving it for finishMarker's parseContinuations
// call to consume.
func (p *parser) readLineText() string {
	var b strings.Builder
	for {
		k := p.peek().Kind
		if k == TokenNewline || k == TokenSemicolon || k == TokenEOF || k == TokenLBrace || k == TokenRBrace || k == TokenOp {
			break
		}
		t := p.next()
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t.Text)
	}
	return strings.TrimSpace(b.String())
}

// finishMarker builds the marker's node, reusing a following block if one
// is present (the block-node-reuse rule), then consumes any ContinuationRel
// lines, chaining from the marker's node.
func (p *parser) finishMarker(t ir.NodeType, text string, modifiers []ir.Modifier, line int, linksAsChild bool) error {
	// Peek past the line's own NEWLINE to see if a block attaches.
	atNewline := p.peek().Kind == TokenNewline
	if atNewline {
		p.next()
	}

	var node *ir.Node
	if p.peek().Kind == TokenLBrace {
		blockNode, err := p.parseBlock(nil)
		if err != nil {
			return err
		}
		// Reuse the block node: promote it to the marker's type/content
		// rather than creating a sibling, eliminating a meaningless hop.
		blockNode.Type = t
		blockNode.Content = text
		blockNode.Modifiers = appendModifiers(blockNode.Modifiers, modifiers)
		blockNode.ID = ir.NodeDigest(t, text, blockNode.Modifiers)
		node = blockNode
	} else {
		node = p.makeNode(t, text, modifiers, line)
		if linksAsChild {
			p.pushChild(node)
		}
	}

	return p.parseContinuations(node)
}

func appendModifiers(existing []ir.Modifier, add []ir.Modifier) []ir.Modifier {
	if len(add) == 0 {
		return existing
	}
	out := make([]ir.Modifier, 0, len(existing)+len(add))
	out = append(out, existing...)
	out = append(out, add...)
	return out
}

// parseContinuations consumes zero or more "-> Y" style ContinuationRel
// lines immediately following a marker/block, chaining from node.
func (p *parser) parseContinuations(node *ir.Node) error {
	current := node
	for {
		// A continuation line starts, after separators, directly with a
		// relationship operator.
		save := *p.lex
		savedPeek := p.peeked
		p.skipSeparators()
		if p.peek().Kind != TokenOp {
			// not a continuation; restore position so the caller's own
			// separator handling proceeds normally.
			*p.lex = save
			p.peeked = savedPeek
			return nil
		}
		relType, axis, opLine, err := p.parseRelOp()
		if err != nil {
			return err
		}
		target, err := p.parseRelNode()
		if err != nil {
			return err
		}
		p.addRelationship(relType, current, target, axis, opLine)
		current = target
	}
}

// --- state markers: [decided(...)], [blocked(...)], [exploring], [parking(...)] --

func (p *parser) parseStateMarker() error {
	open := p.next() // '['
	kwTok := p.peek()
	if kwTok.Kind != TokenText {
		return p.errf("expected state keyword after '['")
	}
	p.next()
	kw := strings.TrimSpace(kwTok.Text)

	fields := map[string]string{}
	if p.peek().Kind == TokenLParen {
		p.next()
		for p.peek().Kind != TokenRParen {
			keyTok := p.next()
			key := strings.TrimSpace(keyTok.Text)
			if p.peek().Kind == TokenColon {
				p.next()
			}
			valTok := p.next()
			fields[key] = valTok.Text
			if p.peek().Kind == TokenComma {
				p.next()
			}
		}
		p.next() // ')'
	}
	if p.peek().Kind != TokenRBracket {
		return p.errf("expected ']' to close state marker")
	}
	p.next()

	var st ir.StateType
	switch kw {
	case "decided":
		st = ir.StateDecided
	case "blocked":
		st = ir.StateBlocked
	case "exploring":
		st = ir.StateExploring
	case "parking":
		st = ir.StateParking
	default:
		return p.errf(fmt.Sprintf("unknown state keyword %q", kw))
	}
	p.addState(st, fields, open.Line)

	// The remainder of the physical line (if any) parses as an ordinary
	// line, per "attached to the next node in source order": a bare state
	// marker at the start of a line does not itself create a node.
	if p.peek().Kind == TokenNewline || p.peek().Kind == TokenSemicolon || p.peek().Kind == TokenEOF || p.peek().Kind == TokenRBrace {
		return nil
	}
	modifiers := p.parseModifiers()
	return p.parseRelationshipExpression(modifiers)
}

// --- blocks ---------------------------------------------------------------

// parseBlock parses '{' BlockContent? '}' and returns the block's own node.
func (p *parser) parseBlock(modifiers []ir.Modifier) (*ir.Node, error) {
	open := p.next() // '{'
	node := &ir.Node{
		ID:   ir.NodeDigest(ir.NodeBlock, "", modifiers),
		Type: ir.NodeBlock,
		Provenance: ir.Provenance{
			SourceFile: p.cfg.sourceFile,
			LineNumber: open.Line,
			Timestamp:  p.cfg.timestamp,
		},
		Modifiers: modifiers,
	}
	p.nodes = append(p.nodes, node)
	p.pushChild(node)

	p.stack = append(p.stack, &blockFrame{node: node})
	if err := p.parseBlockBody(); err != nil {
		return nil, err
	}
	frame := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]

	// Resolved here, not at push time: a pushed child node (e.g. a marker
	// that later reuses this very block) may have its id reassigned after
	// being pushed, when its block is promoted to the marker's type.
	ids := make([]string, len(frame.children))
	for i, c := range frame.children {
		ids[i] = c.ID
	}
	node.Ext = &ir.Ext{Children: ids}
	return node, nil
}

// --- relationship expressions ---------------------------------------------

// parseRelationshipExpression parses RelNode (RelOp RelNode)* and registers
// the resulting node(s)/relationship(s). A lone RelNode with no operator is
// just a Statement.
func (p *parser) parseRelationshipExpression(modifiers []ir.Modifier) error {
	first, err := p.parseRelNodeWithModifiers(modifiers)
	if err != nil {
		return err
	}
	p.pushChild(first)

	current := first
	for p.peek().Kind == TokenOp {
		relType, axis, opLine, err := p.parseRelOp()
		if err != nil {
			return err
		}
		next, err := p.parseRelNode()
		if err != nil {
			return err
		}
		p.addRelationship(relType, current, next, axis, opLine)
		current = next
	}
	return nil
}

// parseRelNodeWithModifiers parses a leading RelNode, attaching modifiers
// already consumed by the caller when the node is plain text (a Block
// carries its own modifiers).
func (p *parser) parseRelNodeWithModifiers(modifiers []ir.Modifier) (*ir.Node, error) {
	if p.peek().Kind == TokenLBrace {
		return p.parseBlock(modifiers)
	}
	line := p.peek().Line
	text := p.readTextRun()
	return p.makeNode(ir.NodeStatement, text, modifiers, line), nil
}

func (p *parser) parseRelNode() (*ir.Node, error) {
	modifiers := p.parseModifiers()
	return p.parseRelNodeWithModifiers(modifiers)
}

// readTextRun consumes consecutive TEXT tokens up to the next operator or
// line terminator.
func (p *parser) readTextRun() string {
	var b strings.Builder
	for {
		k := p.peek().Kind
		if k != TokenText {
			break
		}
		t := p.next()
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(t.Text)
	}
	return strings.TrimSpace(b.String())
}

// parseRelOp consumes one RelOp, including an optional "[axis]" suffix on
// '><'.
func (p *parser) parseRelOp() (ir.RelationshipType, *string, int, error) {
	t := p.next()
	line := t.Line
	var relType ir.RelationshipType
	switch t.Text {
	case "->":
		relType = ir.RelCauses
	case "<-":
		relType = ir.RelDerivesFrom
	case "<->":
		relType = ir.RelBidirectional
	case "=>":
		relType = ir.RelTemporal
	case "><":
		relType = ir.RelTension
	case "=":
		relType = ir.RelEquivalent
	case "!=":
		relType = ir.RelNotEquivalent
	default:
		return "", nil, line, p.errf(fmt.Sprintf("unknown relationship operator %q", t.Text))
	}

	var axis *string
	if relType == ir.RelTension && p.peek().Kind == TokenLBracket {
		p.next()
		label := strings.TrimSpace(p.readTextRun())
		if p.peek().Kind == TokenRBracket {
			p.next()
		}
		if label != "" {
			axis = &label
		}
	}
	return relType, axis, line, nil
}

func (p *parser) errf(msg string) error {
	t := p.peek()
	return &SyntaxError{Message: msg, Line: t.Line, Col: t.Col}
}
