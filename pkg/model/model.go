// Package model converts loosely-shaped content documents into the typed
// records the renderer consumes.
//
// Documents tolerate heterogeneous field spellings; conversion normalizes
// them into one shape per record with an explicit fallback order, and coerces
// numeric values into display strings.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatCard is one hero or statistics card.
type StatCard struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// HistoricalEvent is one dated timeline entry.
type HistoricalEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact,omitempty"`
}

// YearlyStat is one year of adoption figures.
type YearlyStat struct {
	Year        string `json:"year"`
	Users       string `json:"users"`
	Penetration string `json:"penetration"`
}

// SocialPlatform is the uniform shape platform records normalize into.
type SocialPlatform struct {
	Platform string `json:"platform"`
	Users    string `json:"users"`
	Reach    string `json:"reach,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Company covers operator and service entries alike.
type Company struct {
	Name         string `json:"name"`
	MarketShare  string `json:"marketShare"`
	Subscribers  string `json:"subscribers"`
	Founded      string `json:"founded,omitempty"`
	KeyMilestone string `json:"keyMilestone,omitempty"`
}

// Policy is one government program entry.
type Policy struct {
	Title       string `json:"title"`
	Year        string `json:"year"`
	Target      string `json:"target"`
	Achievement string `json:"achievement"`
}

// Specification is one label/value pair on an infrastructure item.
type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// InfrastructureItem is one infrastructure card.
type InfrastructureItem struct {
	Name           string          `json:"name"`
	Icon           string          `json:"icon"`
	Specifications []Specification `json:"specifications"`
}

// Row is one label/value line in a statistics table.
type Row struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// EventByKeyword returns the first event whose title contains keyword,
// case-insensitively. Order follows the input slice; a miss returns ok=false.
func EventByKeyword(events []HistoricalEvent, keyword string) (HistoricalEvent, bool) {
	needle := strings.ToLower(keyword)
	for _, ev := range events {
		if strings.Contains(strings.ToLower(ev.Title), needle) {
			return ev, true
		}
	}
	return HistoricalEvent{}, false
}

// StatRows converts yearly stats into the rows the statistics template
// renders.
func StatRows(stats []YearlyStat) []Row {
	out := make([]Row, 0, len(stats))
	for _, s := range stats {
		out = append(out, Row{Label: s.Year, Value: s.Users, Detail: s.Penetration})
	}
	return out
}

func statCardFromMap(m map[string]any) StatCard {
	return StatCard{
		Icon:        str(m, "icon"),
		Title:       str(m, "title"),
		Value:       str(m, "value"),
		Description: str(m, "description"),
	}
}

func eventFromMap(m map[string]any) HistoricalEvent {
	return HistoricalEvent{
		Date:        str(m, "date"),
		Title:       str(m, "title"),
		Description: str(m, "description"),
		Impact:      str(m, "impact"),
	}
}

func yearlyStatFromMap(m map[string]any) YearlyStat {
	return YearlyStat{
		Year:        str(m, "year"),
		Users:       str(m, "users"),
		Penetration: str(m, "penetration"),
	}
}

// platformFromMap normalizes heterogeneous platform records. Fallback order:
// users before peakUsers, penetration before ranking, note before status.
func platformFromMap(m map[string]any) SocialPlatform {
	return SocialPlatform{
		Platform: str(m, "platform"),
		Users:    first(m, "users", "peakUsers"),
		Reach:    first(m, "penetration", "ranking"),
		Note:     first(m, "note", "status"),
	}
}

func companyFromMap(m map[string]any) Company {
	return Company{
		Name:         str(m, "name"),
		MarketShare:  str(m, "marketShare"),
		Subscribers:  str(m, "subscribers"),
		Founded:      str(m, "founded"),
		KeyMilestone: str(m, "keyMilestone"),
	}
}

func policyFromMap(m map[string]any) Policy {
	return Policy{
		Title:       str(m, "title"),
		Year:        str(m, "year"),
		Target:      str(m, "target"),
		Achievement: str(m, "achievement"),
	}
}

func specificationFromMap(m map[string]any) Specification {
	return Specification{
		Label: str(m, "label"),
		Value: str(m, "value"),
	}
}

func infrastructureItemFromMap(m map[string]any) InfrastructureItem {
	item := InfrastructureItem{
		Name: str(m, "name"),
		Icon: str(m, "icon"),
	}
	if arr, ok := m["specifications"].([]any); ok {
		for _, el := range arr {
			if spec, ok := el.(map[string]any); ok {
				item.Specifications = append(item.Specifications, specificationFromMap(spec))
			}
		}
	}
	return item
}

// str returns the display string for key; absent keys yield "".
func str(m map[string]any, key string) string {
	return display(m[key])
}

// first returns the display string of the first key carrying a non-empty
// value. Callers list preferred keys first.
func first(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s := display(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// display coerces a decoded JSON value into its display string. Numbers keep
// their shortest decimal form, so 46.2 renders "46.2" and 2021 renders
// "2021".
func display(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}
