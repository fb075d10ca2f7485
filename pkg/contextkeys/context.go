package contextkeys

// Custom key type to avoid collisions with other packages.
type contextKey string

// DBContextKey is where DBMiddleware stores the request-scoped *gorm.DB.
const DBContextKey = contextKey("db")
