package contracts

// TickerRecord is one entry of the exchange symbol directory.
// SymbolSource가 생성한 이후 불변.
type TickerRecord struct {
	Ticker string `json:"ticker"` // exchange symbol, unique key
	Name   string `json:"name"`   // company name
}

// PagingCursor tracks chunked staging progress across invocations.
// Invariant: 0 <= NextIndex <= TotalSymbols.
type PagingCursor struct {
	TotalSymbols int `json:"total_symbols"`
	NextIndex    int `json:"next_index"`
}

// Done reports whether every symbol of the universe has been staged
func (c PagingCursor) Done() bool {
	return c.NextIndex >= c.TotalSymbols
}
