package staging

import (
	"github.com/wonny/ignition/internal/contracts"
)

// NextChunk returns the next unprocessed slice of the universe and the
// advanced cursor. Pure and idempotent: until the caller persists the new
// cursor, repeated calls return the same chunk. At or past the end it
// returns an empty slice and the cursor unchanged — the completion signal.
func NextChunk(cursor contracts.PagingCursor, universe []contracts.TickerRecord, chunkSize int) ([]contracts.TickerRecord, contracts.PagingCursor) {
	if chunkSize <= 0 || cursor.NextIndex < 0 || cursor.NextIndex >= len(universe) {
		return nil, cursor
	}

	end := cursor.NextIndex + chunkSize
	if end > len(universe) {
		end = len(universe)
	}

	chunk := universe[cursor.NextIndex:end]
	newCursor := contracts.PagingCursor{
		TotalSymbols: len(universe),
		NextIndex:    end,
	}
	return chunk, newCursor
}
