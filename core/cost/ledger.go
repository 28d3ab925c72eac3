package cost

import (
	"sync"
	"time"
)

// Record is one priced agent invocation. Records are append-only: a revision
// adds a new record, it never overwrites the original.
type Record struct {
	// Role identifies the agent the usage is attributed to.
	Role string `json:"role"`

	// Model is the model identifier the invocation ran against.
	Model string `json:"model"`

	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`

	// Dollars is the cost computed once at record time from the ledger's
	// rate table. Totals sum this stored value, so a later rate change can
	// never desynchronize a session's books.
	Dollars float64 `json:"dollars"`

	Timestamp time.Time `json:"timestamp"`
}

// RoleTotal aggregates all records attributed to one role.
type RoleTotal struct {
	Role         string  `json:"role"`
	Invocations  int     `json:"invocations"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	Dollars      float64 `json:"dollars"`
}

// Totals is the full aggregation of a ledger: per-role breakdowns plus the
// grand total, which equals the sum of every individual record exactly.
type Totals struct {
	PerRole      map[string]RoleTotal `json:"per_role"`
	InputTokens  int                  `json:"input_tokens"`
	OutputTokens int                  `json:"output_tokens"`
	GrandTotal   float64              `json:"grand_total"`
}

// Ledger is the per-session cost book. It is safe for concurrent use,
// although the orchestrator's role loop appends sequentially.
type Ledger struct {
	mu      sync.Mutex
	rates   *RateTable
	records []Record
	now     func() time.Time
}

// NewLedger creates an empty ledger priced against the given rate table.
func NewLedger(rates *RateTable) *Ledger {
	return &Ledger{rates: rates, now: time.Now}
}

// Record prices the usage and appends a new [Record]. It returns the appended
// record, or ErrUnknownModel when the model has no rate entry; nothing is
// appended on error.
func (l *Ledger) Record(role, model string, inputTokens, outputTokens int) (Record, error) {
	dollars, err := l.rates.Price(model, inputTokens, outputTokens)
	if err != nil {
		return Record{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	rec := Record{
		Role:         role,
		Model:        model,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Dollars:      dollars,
		Timestamp:    l.now(),
	}
	l.records = append(l.records, rec)
	return rec, nil
}

// Records returns a copy of all records in append order.
func (l *Ledger) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Totals aggregates the ledger. The grand total is the plain sum of the
// stored per-record dollar amounts in append order, so it always reconciles
// with the individual records bit for bit.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	totals := Totals{PerRole: make(map[string]RoleTotal)}
	for _, rec := range l.records {
		rt := totals.PerRole[rec.Role]
		rt.Role = rec.Role
		rt.Invocations++
		rt.InputTokens += rec.InputTokens
		rt.OutputTokens += rec.OutputTokens
		rt.Dollars += rec.Dollars
		totals.PerRole[rec.Role] = rt

		totals.InputTokens += rec.InputTokens
		totals.OutputTokens += rec.OutputTokens
		totals.GrandTotal += rec.Dollars
	}
	return totals
}
