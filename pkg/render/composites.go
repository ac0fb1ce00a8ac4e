package render

import (
	"context"

	"github.com/goliatone/go-timeline/pkg/logger"
	"github.com/goliatone/go-timeline/pkg/model"
)

// Element ids the composites write to.
const (
	TargetHeroStats            = "hero-stats"
	TargetPTCLEvent            = "ptcl-event"
	TargetFoundationMilestones = "foundation-milestones"
	TargetFoundationStats      = "foundation-stats"
	TargetFoundationTimeline   = "foundation-timeline"
	TargetMobileEvent          = "mobile-event"
	TargetSocialGrowth         = "social-growth"
	TargetPolicyEvent          = "policy-event"
	TargetRaastEvent           = "raast-event"
	TargetCovidEvent           = "covid-event"
	TargetMobileBanking        = "mobile-banking"
	TargetInvestmentBoom       = "investment-boom"
	TargetFiveGFuture          = "five-g-future"
	TargetDigitalDivide        = "digital-divide"
)

// Template names dispatched through the manifest.
const (
	TemplateHeroStats        = "heroStats"
	TemplateHistoricalEvents = "historicalEvents"
	TemplateStatistics       = "statistics"
	TemplateCompanies        = "companies"
	TemplateSocialMedia      = "socialMedia"
	TemplatePolicies         = "policies"
	TemplateInfrastructure   = "infrastructure"
)

// Targets lists every element id the composites write to, in render order.
func Targets() []string {
	return []string{
		TargetHeroStats,
		TargetPTCLEvent, TargetFoundationMilestones, TargetFoundationStats, TargetFoundationTimeline,
		TargetMobileEvent, TargetSocialGrowth, TargetPolicyEvent,
		TargetRaastEvent, TargetCovidEvent, TargetMobileBanking, TargetInvestmentBoom,
		TargetFiveGFuture, TargetDigitalDivide,
	}
}

// slot binds one target to its template and payload. A payload builder
// reporting false skips the slot without affecting the composite outcome.
type slot struct {
	target   string
	template string
	payload  func(*model.TimelineData) (any, bool)
}

// RenderHero fills the hero section from the mandatory document.
func (r *Renderer) RenderHero(ctx context.Context, data *model.TimelineData) bool {
	return r.renderSlots(ctx, data, []slot{
		{TargetHeroStats, TemplateHeroStats, func(d *model.TimelineData) (any, bool) {
			return map[string]any{"cards": d.HeroStats}, true
		}},
	})
}

// RenderFoundationEra fills the early-era slots. The outcome is the AND of
// every attempted slot; keyword misses and absent optional data skip their
// slot silently.
func (r *Renderer) RenderFoundationEra(ctx context.Context, data *model.TimelineData) bool {
	return r.renderSlots(ctx, data, []slot{
		{TargetPTCLEvent, TemplateHistoricalEvents, eventPayload(func(d *model.TimelineData) []model.HistoricalEvent {
			return d.Foundation.Events
		}, "ptcl")},
		{TargetFoundationMilestones, TemplateHistoricalEvents, func(d *model.TimelineData) (any, bool) {
			return map[string]any{"events": d.Foundation.Events}, true
		}},
		{TargetFoundationStats, TemplateStatistics, func(d *model.TimelineData) (any, bool) {
			return map[string]any{"rows": model.StatRows(d.Foundation.YearlyStats)}, true
		}},
		{TargetFoundationTimeline, TemplateCompanies, func(d *model.TimelineData) (any, bool) {
			if len(d.Companies) == 0 {
				return nil, false
			}
			return map[string]any{"companies": d.Companies}, true
		}},
	})
}

// RenderMobileEra fills the mobile-era slots.
func (r *Renderer) RenderMobileEra(ctx context.Context, data *model.TimelineData) bool {
	return r.renderSlots(ctx, data, []slot{
		{TargetMobileEvent, TemplateHistoricalEvents, eventPayload(func(d *model.TimelineData) []model.HistoricalEvent {
			return d.Mobile.Events
		}, "3g")},
		{TargetSocialGrowth, TemplateSocialMedia, func(d *model.TimelineData) (any, bool) {
			growth := d.SocialGrowth()
			if len(growth) == 0 {
				return nil, false
			}
			return map[string]any{"platforms": growth}, true
		}},
		{TargetPolicyEvent, TemplatePolicies, func(d *model.TimelineData) (any, bool) {
			if len(d.Policies) == 0 {
				return nil, false
			}
			return map[string]any{"policies": d.Policies}, true
		}},
	})
}

// RenderFintechEra fills the fintech-era slots.
func (r *Renderer) RenderFintechEra(ctx context.Context, data *model.TimelineData) bool {
	return r.renderSlots(ctx, data, []slot{
		{TargetRaastEvent, TemplateHistoricalEvents, eventPayload(func(d *model.TimelineData) []model.HistoricalEvent {
			return d.Fintech.Events
		}, "raast")},
		{TargetCovidEvent, TemplateHistoricalEvents, eventPayload(func(d *model.TimelineData) []model.HistoricalEvent {
			return d.Fintech.Events
		}, "covid")},
		{TargetMobileBanking, TemplateCompanies, func(d *model.TimelineData) (any, bool) {
			return map[string]any{"companies": d.Fintech.MobileBanking}, true
		}},
		{TargetInvestmentBoom, TemplateStatistics, func(d *model.TimelineData) (any, bool) {
			return map[string]any{"cards": d.Fintech.InvestmentBoom}, true
		}},
	})
}

// RenderSidebar fills the sidebar slots from optional documents.
func (r *Renderer) RenderSidebar(ctx context.Context, data *model.TimelineData) bool {
	return r.renderSlots(ctx, data, []slot{
		{TargetFiveGFuture, TemplateInfrastructure, func(d *model.TimelineData) (any, bool) {
			if len(d.Infrastructure) == 0 {
				return nil, false
			}
			return map[string]any{"items": d.Infrastructure}, true
		}},
		{TargetDigitalDivide, TemplateStatistics, func(d *model.TimelineData) (any, bool) {
			if len(d.DigitalDivide) == 0 {
				return nil, false
			}
			return map[string]any{"rows": d.DigitalDivide, "note": d.DigitalDivideNote}, true
		}},
	})
}

// CompositeResult records the outcome of each composite in one pass.
type CompositeResult struct {
	Hero       bool
	Foundation bool
	Mobile     bool
	Fintech    bool
	Sidebar    bool
}

// OK reports whether every composite succeeded.
func (c CompositeResult) OK() bool {
	return c.Hero && c.Foundation && c.Mobile && c.Fintech && c.Sidebar
}

// RenderAll runs every composite, never short-circuiting, and returns the
// per-composite outcomes.
func (r *Renderer) RenderAll(ctx context.Context, data *model.TimelineData) CompositeResult {
	return CompositeResult{
		Hero:       r.RenderHero(ctx, data),
		Foundation: r.RenderFoundationEra(ctx, data),
		Mobile:     r.RenderMobileEra(ctx, data),
		Fintech:    r.RenderFintechEra(ctx, data),
		Sidebar:    r.RenderSidebar(ctx, data),
	}
}

func (r *Renderer) renderSlots(ctx context.Context, data *model.TimelineData, slots []slot) bool {
	if data == nil {
		r.log.Error(ctx, "composite skipped, no assembled data")
		return false
	}

	ok := true
	for _, s := range slots {
		payload, present := s.payload(data)
		if !present {
			r.log.Debug(ctx, "slot skipped, no data",
				logger.String("target", s.target),
				logger.String("template", s.template))
			continue
		}
		if !r.Render(ctx, s.template, payload, s.target) {
			ok = false
		}
	}
	return ok
}

// eventPayload selects the first event whose title matches keyword,
// case-insensitively. A miss skips the slot.
func eventPayload(pick func(*model.TimelineData) []model.HistoricalEvent, keyword string) func(*model.TimelineData) (any, bool) {
	return func(d *model.TimelineData) (any, bool) {
		ev, ok := model.EventByKeyword(pick(d), keyword)
		if !ok {
			return nil, false
		}
		return map[string]any{"events": []model.HistoricalEvent{ev}}, true
	}
}
