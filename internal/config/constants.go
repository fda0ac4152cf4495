package config

// DefaultDatabasePath is where the SQLite database lives unless
// DATABASE_PATH overrides it.
const DefaultDatabasePath = "./memodeck.db"

// APKGExtension is the only upload extension the import endpoint
// accepts.
const APKGExtension = ".apkg"
