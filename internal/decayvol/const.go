package decayvol

type Real = float64

// Engine quantities are always mm, rad and ns.
const (
	SpeedOfLight = 299.792458      // mm/ns
	HBarGeVNs    = 6.582119569e-16 // GeV*ns, converts GeV^-1 lifetimes
	MMPerM       = 1000.0

	MaxRetries = 20     // production re-throws before a trajectory is abandoned
	StepBudget = 10_000 // boundary-stepper iterations per walk

	EntrySearchCap = 1.0e7  // mm, longest boundary jump the walker may take
	MaxFirstStep   = 1.0e4  // mm, cap on the opening exit step before halving
	StepFloor      = 2.0    // mm, halving stops here
	FallbackStep   = 50.0   // mm, rescue step when the exit degenerates onto the entry
	SeedBackoff    = 100.0  // mm, walk seed sits this far before the bounding box

	SentinelCoord = -999.9 // m, per axis, marks an abandoned placement

	Events     = 10_000
	ProbeTrajs = 100_000
	OutPath    = "events/decays.jsonl"

	// hot-loop constants
	epsDir = 1e-12
)
