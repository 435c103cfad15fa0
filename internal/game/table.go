package game

import (
	"sort"
	"strings"
	"text/tabwriter"
)

// HandTable is a two-column view of both players' full holdings. Columns
// are ordered by descending length (ties keep player order) and the
// shorter column is padded with NoCard so both share equal length.
type HandTable struct {
	Labels [2]string
	Cells  [2][]Card
}

// Table builds the current hand table. It fails under shuffled recycling,
// which destroys the ordering needed for a stable combined view. Building
// the table folds each discard pile back into its hand, exactly as the
// next draw would.
func (e *Engine) Table() (*HandTable, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.tableLocked()
}

func (e *Engine) tableLocked() (*HandTable, error) {
	if e.mode == RecycleShuffled {
		return nil, ErrShuffledTable
	}

	e.recycleDiscard(e.players[0])
	e.recycleDiscard(e.players[1])

	type column struct {
		label string
		cards []Card
	}
	cols := []column{
		{label: "P1", cards: cloneCards(e.players[0].hand)},
		{label: "P2", cards: cloneCards(e.players[1].hand)},
	}
	sort.SliceStable(cols, func(i, j int) bool {
		return len(cols[i].cards) > len(cols[j].cards)
	})
	for len(cols[1].cards) < len(cols[0].cards) {
		cols[1].cards = append(cols[1].cards, NoCard)
	}

	return &HandTable{
		Labels: [2]string{cols[0].label, cols[1].label},
		Cells:  [2][]Card{cols[0].cards, cols[1].cards},
	}, nil
}

// Rows returns the number of rows in the table.
func (t *HandTable) Rows() int {
	return len(t.Cells[0])
}

// String renders the table with space-aligned columns, integer ranks, and
// a single blank for padded cells.
func (t *HandTable) String() string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)

	writeRow(w, t.Labels[0], t.Labels[1])
	for i := 0; i < t.Rows(); i++ {
		writeRow(w, t.Cells[0][i].String(), t.Cells[1][i].String())
	}
	w.Flush()
	return b.String()
}

func writeRow(w *tabwriter.Writer, left, right string) {
	w.Write([]byte(left))
	w.Write([]byte{'\t'})
	w.Write([]byte(right))
	w.Write([]byte{'\t', '\n'})
}
