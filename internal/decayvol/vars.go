package decayvol

var (
	Debug        = false // set to true for verbose debug output
	SkipProgress = false // set to true to silence [PROGRESS] lines
	// Compile time checks to ensure that the oracle interface is implemented by all required types
	_ SolidOracle = (*BoxOracle)(nil)
	_ SolidOracle = (*CylinderOracle)(nil)
)
