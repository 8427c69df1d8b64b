package lower

import "github.com/flattenjs/flattenjs/ast"

// block is one basic block: a dense, emission-order-indexed sequence of
// statements with implicit fall-through and at most one terminating jump,
// always the last entry.
type block struct {
	entries []ast.Stmt
}

// blockWriter assigns dense integer labels to blocks in emission order and
// tracks which one is currently being appended to.
type blockWriter struct {
	blocks  []*block
	current int // index into blocks
}

func newBlockWriter() *blockWriter {
	bw := &blockWriter{}
	bw.blocks = append(bw.blocks, &block{})

	return bw
}

// openBlock returns the label of a fresh block to emit into. If the
// current block is still empty, its own label is reused rather than
// leaving a dangling empty block behind.
func (bw *blockWriter) openBlock() int {
	if len(bw.blocks[bw.current].entries) == 0 {
		return bw.current
	}

	bw.blocks = append(bw.blocks, &block{})
	bw.current = len(bw.blocks) - 1

	return bw.current
}

// emit appends stmt to the current block.
func (bw *blockWriter) emit(stmt ast.Stmt) {
	b := bw.blocks[bw.current]
	b.entries = append(b.entries, stmt)
}
