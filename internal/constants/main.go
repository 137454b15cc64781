package constants

type contextKey string

const UserContextKey = contextKey("user")

// AppNamespace is the fixed first segment of every highlight document path.
const AppNamespace = "era-2025"
