package store

// Event is one concrete calendar occurrence as persisted by a sync run.
// UID is the stable hash-derived identifier that correlates the event with
// its completed marks across full table replacements.
type Event struct {
	ID          int64
	UID         string
	Summary     string
	Start       string // YYYY-MM-DDTHH:MM:SS+01:00
	Location    string
	Description string
	IsRecurrent bool
}

type WelcomeMessage struct {
	Day     string
	Slot    string
	Message string
}

type ColorRule struct {
	Keyword     string
	Color       string
	Description string
}

// Theme holds the dashboard appearance settings edited from the admin UI.
type Theme struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	FontFamily     string `json:"fontFamily"`
	EventBgColor   string `json:"eventBgColor"`
	EventTextColor string `json:"eventTextColor"`
}
