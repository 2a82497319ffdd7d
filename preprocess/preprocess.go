// Package preprocess implements FlowScript's Python-style indentation
// transformation: every indented block is rewritten into an explicit
// `{`/`}`-delimited block, and a line map from transformed-output lines back
// to original-source lines is produced alongside the text.
//
// The scanning shape here follows the line-at-a-time, explicit-stack style
// of a bufio.SplitFunc block scanner: each source line is inspected once, the
// indent stack is an explicit slice (never a closure-captured object), and
// every emitted line — original or synthetic — records which original line
// it belongs to.
package preprocess

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithIndentSize sets the advisory indent width used only for documentation
// purposes; the scanner itself accepts any strictly increasing column per
// the Python-compatible policy in the design notes.
func WithIndentSize(n int) Option {
	return func(p *Preprocessor) {
		if n > 0 {
			p.indentSize = n
		}
	}
}

// Preprocessor transforms indentation-sensitive FlowScript source into an
// equivalent explicitly-delimited form.
type Preprocessor struct {
	indentSize int
}

// New creates a Preprocessor with the given options applied.
func New(opts ...Option) *Preprocessor {
	p := &Preprocessor{indentSize: 2}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Result is the output of a Preprocess call.
type Result struct {
	// Text is the transformed source: every implicit indentation level has
	// been rewritten into an explicit `{`/`}` block delimiter.
	Text string
	// LineMap maps an output line number (1-based, LineMap[i-1] for output
	// line i) to the original-source line number it is derived from.
	LineMap []int
}

// IndentationError reports a fatal, line-located preprocessing failure: a
// tab character, leading indentation on line 1, or a dedent to a column that
// was never pushed onto the indent stack.
type IndentationError struct {
	Message string
	Line    int
}

func (e *IndentationError) Error() string {
	return errors.Errorf("line %d: %s", e.Line, e.Message).Error()
}

// Preprocess runs the indentation transformation described in spec §4.2 over
// src, normalizing `\n`, `\r\n`, and `\r` line endings first.
func Preprocess(src string, opts ...Option) (*Result, error) {
	return New(opts...).Preprocess(src)
}

// state tracks the explicit stacks the algorithm threads through each line;
// modeled as a value rather than fields closed over by a callback, per the
// shared-mutable-parser-state re-architecture note.
type state struct {
	indentStack       []int
	savedIndentStacks [][]int
	explicitDepth     int
	blockBaseIndent   *int
	lastNonBlankLine  int
	outLines          []string
	lineMap           []int
}

// Preprocess runs the transformation with this Preprocessor's configuration.
func (p *Preprocessor) Preprocess(src string) (*Result, error) {
	normalized := normalizeNewlines(src)
	lines := splitLines(normalized)

	st := &state{indentStack: []int{0}}

	for lineNo, raw := range lines {
		origLine := lineNo + 1
		if err := st.processLine(raw, origLine); err != nil {
			return nil, err
		}
	}
	if err := st.finalize(); err != nil {
		return nil, err
	}

	return &Result{Text: strings.Join(st.outLines, "\n"), LineMap: st.lineMap}, nil
}

func (st *state) emit(line string, origLine int) {
	st.outLines = append(st.outLines, line)
	st.lineMap = append(st.lineMap, origLine)
}

func (st *state) processLine(raw string, origLine int) error {
	trimmed := strings.TrimRight(raw, " \t")
	if strings.TrimSpace(trimmed) != "" {
		st.lastNonBlankLine = origLine
	}

	// Rule 1: blank / whitespace-only lines pass through unchanged.
	if strings.TrimSpace(raw) == "" {
		st.emit(raw, origLine)
		return nil
	}

	opens := strings.Count(raw, "{")
	closes := strings.Count(raw, "}")
	priorDepth := st.explicitDepth

	hasBraces := opens > 0 || closes > 0

	if hasBraces && priorDepth == 0 {
		return st.processBracedOutsideExplicit(raw, origLine, opens, closes)
	}
	if priorDepth > 0 {
		return st.processInsideExplicit(raw, origLine, opens, closes)
	}
	return st.processImplicit(raw, origLine)
}

func indentOf(s string) int {
	n := 0
	for _, r := range s {
		if r == ' ' {
			n++
			continue
		}
		break
	}
	return n
}

// processBracedOutsideExplicit implements rule 3: a line that opens or
// closes explicit braces while no explicit block is currently open.
func (st *state) processBracedOutsideExplicit(raw string, origLine, opens, closes int) error {
	indent := indentOf(raw)
	top := st.indentStack[len(st.indentStack)-1]

	switch {
	case indent > top:
		st.indentStack = append(st.indentStack, indent)
		raw = "{" + raw
	case indent < top:
		if err := st.popTo(indent, origLine); err != nil {
			return err
		}
	}

	st.explicitDepth += opens - closes
	if opens > closes {
		st.savedIndentStacks = append(st.savedIndentStacks, st.indentStack)
		st.indentStack = []int{0}
		st.blockBaseIndent = nil
	}

	st.emit(raw, origLine)
	return nil
}

// processInsideExplicit implements rules 4-6: lines encountered while an
// explicit block is open.
func (st *state) processInsideExplicit(raw string, origLine, opens, closes int) error {
	indent := indentOf(raw)

	if closes > opens {
		// Rule 4: close any implicit blocks opened within this explicit
		// block before restoring the saved outer indent state.
		if st.blockBaseIndent != nil {
			for len(st.indentStack) > 1 {
				st.emit("}", origLine)
				st.indentStack = st.indentStack[:len(st.indentStack)-1]
			}
		}
		st.explicitDepth += opens - closes
		st.emit(raw, origLine)
		if st.explicitDepth <= 0 && len(st.savedIndentStacks) > 0 {
			last := len(st.savedIndentStacks) - 1
			st.indentStack = st.savedIndentStacks[last]
			st.savedIndentStacks = st.savedIndentStacks[:last]
		}
		return nil
	}

	if opens > closes {
		// Rule 5: this line itself opens a nested explicit block.
		st.explicitDepth += opens - closes
		st.savedIndentStacks = append(st.savedIndentStacks, st.indentStack)
		st.indentStack = []int{0}
		st.blockBaseIndent = nil
		st.emit(raw, origLine)
		return nil
	}

	// Rule 6: first (and subsequent) content line(s) inside the explicit
	// block, with no brace change of its own.
	if st.blockBaseIndent == nil {
		st.blockBaseIndent = &indent
		st.indentStack = []int{indent}
		st.emit(raw, origLine)
		return nil
	}

	top := st.indentStack[len(st.indentStack)-1]
	switch {
	case indent > top:
		st.indentStack = append(st.indentStack, indent)
		st.emit("{"+raw, origLine)
	case indent < top:
		if err := st.popTo(indent, origLine); err != nil {
			return err
		}
		st.emit(raw, origLine)
	default:
		st.emit(raw, origLine)
	}
	return nil
}

// processImplicit implements rule 7: a line with no braces at all, governed
// purely by indentation.
func (st *state) processImplicit(raw string, origLine int) error {
	if strings.ContainsRune(raw, '\t') {
		return &IndentationError{Message: "tab characters are not permitted in indentation", Line: origLine}
	}
	indent := indentOf(raw)
	if origLine == 1 && indent > 0 {
		return &IndentationError{Message: "line 1 must not be indented", Line: origLine}
	}

	top := st.indentStack[len(st.indentStack)-1]
	switch {
	case indent > top:
		st.indentStack = append(st.indentStack, indent)
		st.emit("{"+raw, origLine)
	case indent < top:
		if err := st.popTo(indent, origLine); err != nil {
			return err
		}
		st.emit(raw, origLine)
	default:
		st.emit(raw, origLine)
	}
	return nil
}

// popTo emits `}` lines until the indent stack top equals col, failing if
// col was never pushed.
func (st *state) popTo(col int, origLine int) error {
	for len(st.indentStack) > 0 && st.indentStack[len(st.indentStack)-1] > col {
		st.indentStack = st.indentStack[:len(st.indentStack)-1]
		st.emit("}", origLine)
	}
	if len(st.indentStack) == 0 || st.indentStack[len(st.indentStack)-1] != col {
		return &IndentationError{
			Message: "invalid dedent: column " + strconv.Itoa(col) + " does not match any enclosing indentation level " + columnsOf(st.indentStack),
			Line:    origLine,
		}
	}
	return nil
}

// finalize implements the end-of-file rule: emit a `}` for every remaining
// indent level above the base, attributed to the last non-blank line.
func (st *state) finalize() error {
	line := st.lastNonBlankLine
	if line == 0 {
		line = len(st.outLines)
	}
	for len(st.indentStack) > 1 {
		st.indentStack = st.indentStack[:len(st.indentStack)-1]
		st.emit("}", line)
	}
	return nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func splitLines(s string) []string {
	scanner := bufio.NewScanner(strings.NewReader(s))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

func columnsOf(stack []int) string {
	b := &strings.Builder{}
	b.WriteString("[")
	for i, c := range stack {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(c))
	}
	b.WriteString("]")
	return b.String()
}
