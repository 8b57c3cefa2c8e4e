package gate

// Level selects how strict an evaluation is. The retry controller runs
// attempt N at Level(N), trading strictness for recall on each retry.
type Level int

const (
	// LevelStrict demands strong source signals, both dates per
	// transaction, and cardholder corroboration from the raw text.
	LevelStrict Level = iota
	// LevelNormal drops holder corroboration and lowers signal thresholds.
	LevelNormal
	// LevelRelaxed accepts a single valid date per transaction and skips
	// the source-signal guard entirely.
	LevelRelaxed
)

func (l Level) String() string {
	switch l.clamp() {
	case LevelStrict:
		return "strict"
	case LevelNormal:
		return "normal"
	default:
		return "relaxed"
	}
}

// thresholds bundles one level's acceptance criteria. One struct per level
// avoids the index-alignment bugs of maintaining parallel arrays.
type thresholds struct {
	minDateHits        int
	minMoneyHits       int
	requireBothDates   bool
	requireKnownHolder bool
	enforceSignalGuard bool
}

var levelThresholds = [...]thresholds{
	LevelStrict:  {minDateHits: 5, minMoneyHits: 3, requireBothDates: true, requireKnownHolder: true, enforceSignalGuard: true},
	LevelNormal:  {minDateHits: 3, minMoneyHits: 2, requireBothDates: true, requireKnownHolder: false, enforceSignalGuard: false},
	LevelRelaxed: {minDateHits: 2, minMoneyHits: 1, requireBothDates: false, requireKnownHolder: false, enforceSignalGuard: false},
}

func (l Level) clamp() Level {
	if l < LevelStrict {
		return LevelStrict
	}
	if l > LevelRelaxed {
		return LevelRelaxed
	}
	return l
}
