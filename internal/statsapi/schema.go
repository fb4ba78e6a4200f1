package statsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// PitchRecord is one pitch as delivered by /api/3d-trajectory. Positions are
// in feet in the feed's frame: x horizontal (catcher's view), y distance from
// home plate, z height. Plate depth is implicitly 0.
type PitchRecord struct {
	PitchType    string  `json:"pitch_type"`
	ReleaseSpeed float64 `json:"release_speed"`
	ReleasePosX  float64 `json:"release_pos_x"`
	ReleasePosY  float64 `json:"release_pos_y"`
	ReleasePosZ  float64 `json:"release_pos_z"`
	PlateX       float64 `json:"plate_x"`
	PlateZ       float64 `json:"plate_z"`
	SzTop        float64 `json:"sz_top"`
	SzBot        float64 `json:"sz_bot"`
}

// Validate enforces the record invariants: finite positions and a strike
// zone whose top lies above its bottom.
func (p PitchRecord) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"release_pos_x", p.ReleasePosX},
		{"release_pos_y", p.ReleasePosY},
		{"release_pos_z", p.ReleasePosZ},
		{"plate_x", p.PlateX},
		{"plate_z", p.PlateZ},
		{"sz_top", p.SzTop},
		{"sz_bot", p.SzBot},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s is not finite", f.name)
		}
	}
	if p.SzTop <= p.SzBot {
		return fmt.Errorf("sz_top %.3f must be above sz_bot %.3f", p.SzTop, p.SzBot)
	}
	return nil
}

// PitchRecords is the /api/3d-trajectory payload.
type PitchRecords []PitchRecord

// Validate checks every record and reports the first offending index.
func (ps PitchRecords) Validate() error {
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("pitch %d: %w", i, err)
		}
	}
	return nil
}

// SeasonStats is the per-player season line. Pitchers fill W/L/ERA/SO/WHIP/IP,
// batters fill AVG/HR/RBI/OBP/SLG/OPS; Type says which.
type SeasonStats struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	W        int      `json:"W,omitempty"`
	L        int      `json:"L,omitempty"`
	ERA      *float64 `json:"ERA,omitempty"`
	SO       int      `json:"SO,omitempty"`
	WHIP     *float64 `json:"WHIP,omitempty"`
	IP       *float64 `json:"IP,omitempty"`
	AVG      *float64 `json:"AVG,omitempty"`
	HR       int      `json:"HR,omitempty"`
	RBI      int      `json:"RBI,omitempty"`
	OBP      *float64 `json:"OBP,omitempty"`
	SLG      *float64 `json:"SLG,omitempty"`
	OPS      *float64 `json:"OPS,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
}

// Validate requires a known player type.
func (s SeasonStats) Validate() error {
	switch s.Type {
	case "pitcher", "batter":
		return nil
	default:
		return fmt.Errorf("unknown season stats type %q", s.Type)
	}
}

// ArsenalEntry summarises one pitch in a pitcher's repertoire.
type ArsenalEntry struct {
	PitchName       string   `json:"pitch_name"`
	Usage           int      `json:"usage,omitempty"`
	UsagePercentage float64  `json:"usage_percentage"`
	AvgSpeed        *float64 `json:"avg_speed"`
	MaxSpeed        *float64 `json:"max_speed"`
	AvgSpin         *float64 `json:"avg_spin"`
	AvgPfxX         *float64 `json:"avg_pfx_x"`
	AvgPfxZ         *float64 `json:"avg_pfx_z"`
}

// Arsenal is the /api/pitch-arsenal payload.
type Arsenal []ArsenalEntry

// Validate requires a pitch name on every entry.
func (a Arsenal) Validate() error {
	for i, e := range a {
		if e.PitchName == "" {
			return fmt.Errorf("arsenal entry %d has no pitch_name", i)
		}
	}
	return nil
}

// HeadToHead is the career matchup line, or only Message when the two
// players never faced each other.
type HeadToHead struct {
	PitcherName    string   `json:"pitcher_name,omitempty"`
	BatterName     string   `json:"batter_name,omitempty"`
	BattingAverage *float64 `json:"batting_average,omitempty"`
	TotalPA        int      `json:"total_pa,omitempty"`
	AtBats         int      `json:"at_bats,omitempty"`
	Hits           int      `json:"hits,omitempty"`
	HomeRuns       int      `json:"home_runs,omitempty"`
	Strikeouts     int      `json:"strikeouts,omitempty"`
	Walks          int      `json:"walks,omitempty"`
	Message        string   `json:"message,omitempty"`
}

// HasData reports whether the matchup carries statistics.
func (h HeadToHead) HasData() bool {
	return h.Message == "" && h.BattingAverage != nil
}

// Validate rejects a payload that carries neither statistics nor a message.
func (h HeadToHead) Validate() error {
	if h.Message == "" && h.BattingAverage == nil {
		return fmt.Errorf("head-to-head payload has neither batting_average nor message")
	}
	return nil
}

// TimelinePitch is one pitch inside an at-bat.
type TimelinePitch struct {
	PitchNumber  int      `json:"pitch_number"`
	PitchName    *string  `json:"pitch_name"`
	ReleaseSpeed *float64 `json:"release_speed"`
	Description  *string  `json:"description"`
}

// AtBat is one plate appearance of the matchup.
type AtBat struct {
	GameDate    string          `json:"game_date"`
	AtBatNumber int             `json:"at_bat_number"`
	FinalEvent  string          `json:"final_event"`
	Pitches     []TimelinePitch `json:"pitches"`
}

// Timeline is the /api/at-bat-timeline payload, newest first.
type Timeline []AtBat

// Validate requires a game date on every at-bat.
func (tl Timeline) Validate() error {
	for i, ab := range tl {
		if ab.GameDate == "" {
			return fmt.Errorf("at-bat %d has no game_date", i)
		}
	}
	return nil
}

// OutcomeProbability is one [outcome, probability] pair of the simulator.
// Probability is a percentage of plate appearances, rounded to 0.1.
type OutcomeProbability struct {
	Outcome     string  `json:"outcome"`
	Probability float64 `json:"probability"`
}

// UnmarshalJSON decodes the feed's two-element array form. The object form
// this type encodes to is accepted too.
func (o *OutcomeProbability) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		type plain OutcomeProbability
		return json.Unmarshal(trimmed, (*plain)(o))
	}
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("outcome must be an [outcome, probability] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("outcome pair has %d elements, want 2", len(pair))
	}
	if err := json.Unmarshal(pair[0], &o.Outcome); err != nil {
		return fmt.Errorf("outcome name: %w", err)
	}
	if err := json.Unmarshal(pair[1], &o.Probability); err != nil {
		return fmt.Errorf("outcome probability: %w", err)
	}
	return nil
}

// Outcomes is the /api/outcome-simulator payload.
type Outcomes []OutcomeProbability

// Validate keeps percentages within [0, 100].
func (os Outcomes) Validate() error {
	for _, o := range os {
		if math.IsNaN(o.Probability) || o.Probability < 0 || o.Probability > 100 {
			return fmt.Errorf("probability for %q out of range: %f", o.Outcome, o.Probability)
		}
	}
	return nil
}

// MovementVector is horizontal and vertical break in inches.
type MovementVector struct {
	PfxXIn float64 `json:"pfx_x_in"`
	PfxZIn float64 `json:"pfx_z_in"`
}

// Movement is the average break of one pitch type.
type Movement struct {
	PitchName string `json:"pitch_name"`
	MovementVector
}

// Movements is the /api/pitch-movement payload.
type Movements []Movement

// LeagueMovement maps pitch name to the league-average break.
type LeagueMovement map[string]MovementVector

// Strategy holds pitch-type usage shares (percent) by count situation.
type Strategy struct {
	AnalysisTarget string             `json:"analysis_target,omitempty"`
	FirstPitch     map[string]float64 `json:"first_pitch,omitempty"`
	TwoStrikes     map[string]float64 `json:"two_strikes,omitempty"`
	StrikeoutPitch map[string]float64 `json:"strikeout_pitch,omitempty"`
	Message        string             `json:"message,omitempty"`
}

// PlayerSearchResult is one autocomplete candidate.
type PlayerSearchResult struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

// PlayerInfo carries the portrait of a player.
type PlayerInfo struct {
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url"`
}

// LeaderboardEntry is the leader of one weekly category.
type LeaderboardEntry struct {
	PlayerName string `json:"player_name"`
	Value      string `json:"value"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Leaderboards maps category to leader. Message is set instead when no games
// were played in the window.
type Leaderboards struct {
	Categories map[string]*LeaderboardEntry `json:"categories"`
	Message    string                       `json:"message,omitempty"`
}

// UnmarshalJSON splits the flat feed object into categories and message.
func (l *Leaderboards) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Categories = make(map[string]*LeaderboardEntry, len(raw))
	for k, v := range raw {
		if k == "message" {
			if err := json.Unmarshal(v, &l.Message); err != nil {
				return fmt.Errorf("leaderboards message: %w", err)
			}
			continue
		}
		var entry *LeaderboardEntry
		if err := json.Unmarshal(v, &entry); err != nil {
			return fmt.Errorf("leaderboard %q: %w", k, err)
		}
		l.Categories[k] = entry
	}
	return nil
}
