package exitcodes

// Exit codes for the siler CLI
// These codes form the operational contract with scripts and operators
const (
	Success         = 0 // Successful execution
	InvalidConfig   = 2 // Configuration file invalid
	SafetyViolation = 3 // Safety validator blocked the target path
	RuntimeError    = 4 // Runtime error during execution
	PathNotFound    = 5 // Input path does not exist
)
