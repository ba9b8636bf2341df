package turn

// Ready is the completeness oracle: the single source of truth for "can we
// proceed to presentation". It is a pure predicate — the collector polls it
// after every phase, the gateway consults it before serving a cached bundle,
// and tests assert against the same implementation.
//
// Rules:
//   - nil bundle is never ready;
//   - the dilemma must be present and pass its own shape validator;
//   - the degradable phase-1 fields must have settled (safe defaults count);
//   - on day > 1, every conditionally-required field must have been
//     attempted; attempted-empty never blocks.
func Ready(b *Bundle) bool {
	if b == nil {
		return false
	}
	if b.Dilemma == nil || !b.Dilemma.Valid() {
		return false
	}
	if b.Ticker == nil || b.Advisory == nil {
		return false
	}
	if b.Day > 1 {
		if !b.SupportShift.Attempted() || !b.BudgetImpact.Attempted() {
			return false
		}
	}
	return true
}
