package schema

// Credential identifies an account on a database server.
type Credential struct {
	Host     string `mapstructure:"host" json:"host"`
	Port     int    `mapstructure:"port" json:"port"`
	Username string `mapstructure:"username" json:"username"`
	Password string `mapstructure:"password" json:"password"`
	Service  string `mapstructure:"service" json:"service"` // Oracle service name
	SSLMode  string `mapstructure:"sslmode" json:"sslmode"`
}

// AdminCredential has rights to create databases and tables.
type AdminCredential = Credential

type Column struct {
	Name        string `mapstructure:"name"`
	Type        string `mapstructure:"type"`
	Constraints string `mapstructure:"constraints"` // e.g. "NOT NULL UNIQUE"
}

// TargetSchema is the logical database + table to provision.
type TargetSchema struct {
	Database string   `mapstructure:"database"`
	Table    string   `mapstructure:"table"`
	Columns  []Column `mapstructure:"columns"`
}

// Drift describes one difference between a live table and its definition.
type Drift struct {
	Column   string
	Kind     string // MISSING, UNEXPECTED, MOVED
	Expected int    // ordinal in definition, -1 if not defined
	Actual   int    // ordinal in live table, -1 if absent
}

const (
	DriftMissing    = "MISSING"
	DriftUnexpected = "UNEXPECTED"
	DriftMoved      = "MOVED"
)
