package parser

import (
	"github.com/ragodev/mdpapers/internal/ast"
	"github.com/ragodev/mdpapers/internal/lookahead"
	"github.com/ragodev/mdpapers/internal/token"
)

// itemFrame is the per-item state: indentation, ordered-ness and loose
// promotion, set at creation and mutated only to flip Loose when a blank
// line appears inside the item's extent.
type itemFrame struct {
	node        *ast.Node
	indentation int
	ordered     bool
}

// listFrame tracks the column the first item's marker sat at, which every
// subsequent marker at that list's level must match. items and forceLoose
// let the list driver retroactively promote every item seen so far to
// loose once a blank line separates two items, expressed per-item because
// Item is where the AST carries the Loose flag.
type listFrame struct {
	node        *ast.Node
	indentation int
	ordered     bool
	items       []*ast.Node
	forceLoose  bool
}

// State holds the stacks of currently-open block contexts and the parser's
// counters: blockquote depth (which the lookahead predicates consult), and
// the paren/bracket depth raised while scanning inline link/image syntax.
type State struct {
	Buf  *lookahead.Buffer
	Refs ast.ReferenceTable

	QuoteDepth   int
	ParenDepth   int
	BracketDepth int

	// linePrefixCols counts the indentation columns already consumed from
	// the current line (item prefixes, marker-plus-gap runs) so a nested
	// list can recover its marker's true column after the driver has eaten
	// the leading whitespace.
	linePrefixCols int

	quotes []*ast.Node
	lists  []*listFrame
	items  []*itemFrame
}

// NewState builds a parser State over source bytes.
func NewState(source []byte) *State {
	return &State{
		Buf:  lookahead.New(token.NewSource(source)),
		Refs: ast.ReferenceTable{},
	}
}

func (s *State) pushQuote(n *ast.Node) {
	s.quotes = append(s.quotes, n)
	s.QuoteDepth++
}

func (s *State) popQuote() {
	s.quotes = s.quotes[:len(s.quotes)-1]
	s.QuoteDepth--
}

func (s *State) currentList() *listFrame {
	if len(s.lists) == 0 {
		return nil
	}
	return s.lists[len(s.lists)-1]
}

func (s *State) pushList(f *listFrame) {
	s.lists = append(s.lists, f)
}

func (s *State) popList() {
	s.lists = s.lists[:len(s.lists)-1]
}

func (s *State) currentItem() *itemFrame {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

func (s *State) pushItem(f *itemFrame) {
	s.items = append(s.items, f)
}

func (s *State) popItem() {
	s.items = s.items[:len(s.items)-1]
}

// markLoose promotes the innermost open item to loose; the visitor reads
// each item's own Loose flag when rendering the paragraphs inside it.
// Called whenever the block driver observes a blank line within an item's
// extent.
func (s *State) markLoose() {
	if it := s.currentItem(); it != nil {
		it.node.Loose = true
	}
}
