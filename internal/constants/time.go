package constants

const (
	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// MonthFormat is the format accepted for a month argument (YYYY-MM)
	MonthFormat = "2006-01"
)
