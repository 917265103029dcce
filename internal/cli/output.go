package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case CreatedSession:
		o.printSession(v.Session)
		o.printf("Token: %s\n", v.Token)
	case SessionList:
		o.printSessionList(v)
	case AddedPlayer:
		o.printf("Added %s (%s)\n", v.Player.Name, v.Player.ID)
	case Results:
		o.printResults(v)
	case Actions:
		o.printf("%s actions:\n", v.Game)
		for _, a := range v.Actions {
			o.printf("  %s\n", a)
		}
	case WordList:
		o.printf("Locale: %s (source: %s)\n", v.Locale, v.Source)
		o.printf("%s\n", strings.Join(v.Words, ", "))
	case WordPairs:
		o.printf("Locale: %s (source: %s)\n", v.Locale, v.Source)
		for _, p := range v.Pairs {
			o.printf("  %s / %s\n", p.Normal, p.Imposter)
		}
	case Preferences:
		o.printPreferences(v)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
		o.printf("Supplier: %s\n", v.Supplier)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// Session response type. The per-game state is kept raw and shown as JSON.
type Session struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Game        string          `json:"game"`
	Phase       string          `json:"phase"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Imposter    json.RawMessage `json:"imposter,omitempty"`
	MultiDevice json.RawMessage `json:"multi_device,omitempty"`
	Mafia       json.RawMessage `json:"mafia,omitempty"`
	Charades    json.RawMessage `json:"charades,omitempty"`
	Synonyms    json.RawMessage `json:"synonyms,omitempty"`
}

// State returns the raw state of the session's game
func (s Session) State() json.RawMessage {
	for _, raw := range []json.RawMessage{s.Imposter, s.MultiDevice, s.Mafia, s.Charades, s.Synonyms} {
		if len(raw) > 0 {
			return raw
		}
	}
	return nil
}

// CreatedSession is the create response with the host token
type CreatedSession struct {
	Session Session `json:"session"`
	Token   string  `json:"token"`
}

// SessionList is the set of sessions with a saved host token
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// Player response type
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// AddedPlayer response type
type AddedPlayer struct {
	Player  Player  `json:"player"`
	Session Session `json:"session"`
}

// Standing is one row of a scoreboard
type Standing struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Points   int    `json:"points"`
}

// TeamResult is the two-team scoreboard
type TeamResult struct {
	Scores [2]int    `json:"scores"`
	Names  [2]string `json:"names"`
	Winner int       `json:"winner"`
}

// Results response type
type Results struct {
	Game      string      `json:"game"`
	Standings []Standing  `json:"standings,omitempty"`
	Winners   []string    `json:"winners,omitempty"`
	Teams     *TeamResult `json:"teams,omitempty"`
}

// Actions response type
type Actions struct {
	Game    string   `json:"game"`
	Actions []string `json:"actions"`
}

// WordPair response type
type WordPair struct {
	ID       string `json:"id,omitempty"`
	Normal   string `json:"normal"`
	Imposter string `json:"imposter"`
}

// WordPairs response type
type WordPairs struct {
	Locale string     `json:"locale"`
	Source string     `json:"source"`
	Pairs  []WordPair `json:"pairs"`
}

// WordList response type
type WordList struct {
	Locale string   `json:"locale"`
	Source string   `json:"source"`
	Words  []string `json:"words"`
}

// Preferences response type
type Preferences struct {
	Locale   string `json:"locale"`
	Theme    string `json:"theme"`
	SignedIn bool   `json:"signed_in"`
	UserData string `json:"user_data,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Supplier string `json:"supplier"`
}

func (o *Output) printSession(s Session) {
	o.printf("Session: %s\n", s.ID)
	if s.Name != "" {
		o.printf("Name: %s\n", s.Name)
	}
	o.printf("Game: %s\n", s.Game)
	o.printf("Phase: %s\n", s.Phase)
	if state := s.State(); len(state) > 0 {
		o.printf("State: %s\n", string(state))
	}
}

func (o *Output) printSessionList(l SessionList) {
	if len(l.Sessions) == 0 {
		o.printf("No sessions\n")
		return
	}
	for _, id := range l.Sessions {
		o.printf("%s\n", id)
	}
}

func (o *Output) printResults(r Results) {
	o.printf("Game: %s\n", r.Game)
	if len(r.Standings) > 0 {
		winners := make(map[string]bool, len(r.Winners))
		for _, id := range r.Winners {
			winners[id] = true
		}
		o.printf("Standings:\n")
		for _, s := range r.Standings {
			mark := ""
			if winners[s.PlayerID] {
				mark = " *"
			}
			o.printf("  %d. %s - %d points%s\n", s.Rank, s.Name, s.Points, mark)
		}
	}
	if r.Teams != nil {
		o.printf("Teams: %s %d - %d %s\n", r.Teams.Names[0], r.Teams.Scores[0], r.Teams.Scores[1], r.Teams.Names[1])
		if r.Teams.Winner < 0 {
			o.printf("Result: tie\n")
		} else {
			o.printf("Winner: %s\n", r.Teams.Names[r.Teams.Winner])
		}
	}
}

func (o *Output) printPreferences(p Preferences) {
	signedIn := "no"
	if p.SignedIn {
		signedIn = "yes"
	}
	o.printf("Locale: %s\n", p.Locale)
	o.printf("Theme: %s\n", p.Theme)
	o.printf("Signed in: %s\n", signedIn)
}
