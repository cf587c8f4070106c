package event

import "time"

// EventType is the closed set of event kinds the capture agent emits.
type EventType string

const (
	TypeLogin  EventType = "LOGIN"
	TypeLogoff EventType = "LOGOFF"

	TypeIdleStart EventType = "IDLE_START"
	TypeIdleEnd   EventType = "IDLE_END"

	TypeBreakStart EventType = "BREAK_START"
	TypeBreakEnd   EventType = "BREAK_END"

	// Activity-indicating events. These carry the foreground application
	// context used for productivity attribution.
	TypeWindowChange        EventType = "WINDOW_CHANGE"
	TypeApplicationFocus    EventType = "APPLICATION_FOCUS"
	TypeApplicationStart    EventType = "APPLICATION_START"
	TypeApplicationEnd      EventType = "APPLICATION_END"
	TypeBrowserTabChange    EventType = "BROWSER_TAB_CHANGE"
	TypeClientWebsiteAccess EventType = "CLIENT_WEBSITE_ACCESS"
	TypeCallingAppInCall    EventType = "CALLING_APP_IN_CALL"
	TypeCallingAppStart     EventType = "CALLING_APP_START"
	TypeTeamsMeetingStart   EventType = "TEAMS_MEETING_START"
	TypeTeamsChatActive     EventType = "TEAMS_CHAT_ACTIVE"
)

// IsActivity reports whether the event type indicates foreground activity
// (as opposed to session or idle/break lifecycle markers).
func (t EventType) IsActivity() bool {
	switch t {
	case TypeWindowChange, TypeApplicationFocus, TypeApplicationStart, TypeApplicationEnd,
		TypeBrowserTabChange, TypeClientWebsiteAccess, TypeCallingAppInCall,
		TypeCallingAppStart, TypeTeamsMeetingStart, TypeTeamsChatActive:
		return true
	}
	return false
}

// RawEvent is a single immutable workstation event. IsWorkApplication is
// tri-state: nil means the external classification ruleset has no verdict.
type RawEvent struct {
	ID                string
	EmployeeID        string
	Timestamp         time.Time
	Type              EventType
	ApplicationName   *string
	IsWorkApplication *bool
	Metadata          map[string]string
	CreatedAt         time.Time
}
