package constants

import "time"

// SessionState represents the current focus of the TUI
type SessionState int

const (
	AppName            = "vitalcal"
	DefaultConfigDir   = "~/.config/vitalcal"
	DefaultConfigFile  = "config.toml"
	DefaultServerURL   = "http://localhost:8000"
	DefaultLocale      = "en_US"
	EnvPrefix          = "VITALCAL_"
	Version            = "v0.1.0"
	KeyringTokenUser   = "csrf-token"
	KeyringSessionUser = "session-id"

	// Endpoint path templates; %s is a YYYY-MM-DD date
	EntriesPathFormat   = "/entries/%s/"
	SaveEntryPathFormat = "/save-entry/%s/"

	// Form and header names understood by the journal server
	DefaultTokenField   = "csrfmiddlewaretoken"
	TokenHeader         = "X-CSRFToken"
	TokenCookie         = "csrftoken"
	SessionCookie       = "sessionid"
	RequestIDHeader     = "X-Request-ID"
	FieldBloodPressure  = "blood_pressure"
	FieldGlucoseLevel   = "glucose_level"
	DefaultRequestRate  = 5.0
	DefaultRequestBurst = 10

	DefaultRequestTimeout = 10 * time.Second

	// User-visible notices
	NoticeLoadFailed   = "Failed to load data."
	NoticeSaveFailed   = "Failed to save entry."
	NoticeSaved        = "Entry saved successfully."
	NoticeBadBPFormat  = "Blood pressure must look like 120/80."
	NoticeMissingToken = "No anti-forgery token configured. Run 'vitalcal token set'."
)

// Session States
const (
	StateCalendar SessionState = iota
	StateBloodPressure
	StateGlucose
)
