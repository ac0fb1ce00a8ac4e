package model

import (
	"errors"

	"github.com/goliatone/go-timeline/pkg/content"
	"github.com/goliatone/go-timeline/pkg/schema"
)

// defaultInfraIcon backs synthesized infrastructure cards that carry no icon
// of their own.
const defaultInfraIcon = `<svg viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2"><path d="M12 12v9"/><path d="M7.8 7.8a6 6 0 0 0 0 8.4"/><path d="M16.2 7.8a6 6 0 0 1 0 8.4"/><path d="M4.9 4.9a10 10 0 0 0 0 14.2"/><path d="M19.1 4.9a10 10 0 0 1 0 14.2"/></svg>`

// FoundationEra groups the early-era sections of the mandatory document.
type FoundationEra struct {
	Events      []HistoricalEvent
	YearlyStats []YearlyStat
}

// MobileEra groups the mobile-era sections of the mandatory document.
type MobileEra struct {
	Events      []HistoricalEvent
	SocialMedia []SocialPlatform
}

// FintechEra groups the fintech-era sections of the mandatory document.
type FintechEra struct {
	Events         []HistoricalEvent
	MobileBanking  []Company
	InvestmentBoom []StatCard
}

// TimelineData is the assembled render model for one pipeline pass. Sections
// backed by optional documents stay empty when the document never loaded;
// renderers treat empty sections as absent.
type TimelineData struct {
	HeroStats  []StatCard
	Foundation FoundationEra
	Mobile     MobileEra
	Fintech    FintechEra

	InternetUsers     []YearlyStat
	DigitalDivide     []Row
	DigitalDivideNote string
	Companies         []Company
	Platforms         []SocialPlatform
	Policies          []Policy
	Infrastructure    []InfrastructureItem
}

// SocialGrowth returns the platform list the social growth slot renders.
// The dedicated social media document wins; the mobile era section is the
// fallback when that document never loaded.
func (d *TimelineData) SocialGrowth() []SocialPlatform {
	if len(d.Platforms) > 0 {
		return d.Platforms
	}
	return d.Mobile.SocialMedia
}

// Assemble builds the render model from whatever documents loaded. Only the
// mandatory document is required; malformed elements inside any section are
// skipped rather than failing the pass.
func Assemble(col *content.Collection) (*TimelineData, error) {
	if col == nil {
		return nil, errors.New("model: collection is required")
	}
	mandatory, ok := col.Mandatory()
	if !ok {
		return nil, errors.New("model: mandatory document missing from collection")
	}
	doc := mandatory.Data()

	data := &TimelineData{HeroStats: statCards(doc["heroStats"])}

	if era, ok := doc["foundationEra"].(map[string]any); ok {
		data.Foundation = FoundationEra{
			Events:      events(era["events"]),
			YearlyStats: yearlyStats(era["yearlyStats"]),
		}
	}
	if era, ok := doc["mobileEra"].(map[string]any); ok {
		data.Mobile = MobileEra{
			Events:      events(era["events"]),
			SocialMedia: platforms(era["socialMediaGrowth"]),
		}
	}
	if era, ok := doc["fintechEra"].(map[string]any); ok {
		data.Fintech = FintechEra{
			Events:         events(era["events"]),
			MobileBanking:  companies(era["mobileBanking"]),
			InvestmentBoom: statCards(era["investmentBoom"]),
		}
	}

	if d, ok := col.Get(string(schema.DocStatistics)); ok {
		sd := d.Data()
		data.InternetUsers = yearlyStats(sd["internetUsers"])
		if divide, ok := sd["digitalDivide"].(map[string]any); ok {
			data.DigitalDivide = divideRows(divide)
			data.DigitalDivideNote = str(divide, "note")
		}
	}
	if d, ok := col.Get(string(schema.DocCompanies)); ok {
		data.Companies = companies(d.Data()["companies"])
	}
	if d, ok := col.Get(string(schema.DocSocialMedia)); ok {
		data.Platforms = platforms(d.Data()["platforms"])
	}
	if d, ok := col.Get(string(schema.DocPolicies)); ok {
		data.Policies = policies(d.Data()["policies"])
	}
	if d, ok := col.Get(string(schema.DocInfrastructure)); ok {
		data.Infrastructure = infrastructure(d.Data())
	}

	return data, nil
}

// infrastructure accepts both document shapes: an items array of full cards,
// or the loose scalar shape that describes a single upcoming rollout. The
// scalar shape synthesizes one card so the template never needs to know the
// difference.
func infrastructure(doc map[string]any) []InfrastructureItem {
	if items := infrastructureItems(doc["items"]); len(items) > 0 {
		return items
	}

	var specs []Specification
	for _, field := range []struct{ key, label string }{
		{"expectedLaunch", "Expected Launch"},
		{"targetSpeed", "Target Speed"},
		{"coverageGoal", "Coverage Goal"},
	} {
		if v := str(doc, field.key); v != "" {
			specs = append(specs, Specification{Label: field.label, Value: v})
		}
	}
	if len(specs) == 0 {
		return nil
	}
	return []InfrastructureItem{{
		Name:           "5G Future",
		Icon:           defaultInfraIcon,
		Specifications: specs,
	}}
}

func divideRows(m map[string]any) []Row {
	var out []Row
	if v := str(m, "urban"); v != "" {
		out = append(out, Row{Label: "Urban access", Value: v})
	}
	if v := str(m, "rural"); v != "" {
		out = append(out, Row{Label: "Rural access", Value: v})
	}
	return out
}

func statCards(v any) []StatCard {
	var out []StatCard
	for _, m := range objects(v) {
		out = append(out, statCardFromMap(m))
	}
	return out
}

func events(v any) []HistoricalEvent {
	var out []HistoricalEvent
	for _, m := range objects(v) {
		out = append(out, eventFromMap(m))
	}
	return out
}

func yearlyStats(v any) []YearlyStat {
	var out []YearlyStat
	for _, m := range objects(v) {
		out = append(out, yearlyStatFromMap(m))
	}
	return out
}

func platforms(v any) []SocialPlatform {
	var out []SocialPlatform
	for _, m := range objects(v) {
		out = append(out, platformFromMap(m))
	}
	return out
}

func companies(v any) []Company {
	var out []Company
	for _, m := range objects(v) {
		out = append(out, companyFromMap(m))
	}
	return out
}

func policies(v any) []Policy {
	var out []Policy
	for _, m := range objects(v) {
		out = append(out, policyFromMap(m))
	}
	return out
}

func infrastructureItems(v any) []InfrastructureItem {
	var out []InfrastructureItem
	for _, m := range objects(v) {
		out = append(out, infrastructureItemFromMap(m))
	}
	return out
}

// objects filters a decoded array down to its object elements.
func objects(v any) []map[string]any {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for _, el := range arr {
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
