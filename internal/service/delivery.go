package service

import (
	"time"

	"burns-farm-shop/internal/domain"
)

const deliveryDays = 7

// DeliveryDate is one selectable delivery day
type DeliveryDate struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// DeliveryOptions is everything a shopper chooses from at checkout
type DeliveryOptions struct {
	Dates          []DeliveryDate         `json:"dates"`
	Slots          []string               `json:"slots"`
	Accommodations []domain.Accommodation `json:"accommodations"`
	CutoffHour     int                    `json:"cutoffHour"`
	AfterCutoff    bool                   `json:"afterCutoff"`
}

// DeliveryPlanner works out which delivery dates can still be booked.
// From the cutoff hour onwards today and tomorrow are closed.
type DeliveryPlanner struct {
	cutoffHour int
	loc        *time.Location
	now        func() time.Time
}

func NewDeliveryPlanner(cutoffHour int, loc *time.Location, now func() time.Time) *DeliveryPlanner {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &DeliveryPlanner{cutoffHour: cutoffHour, loc: loc, now: now}
}

// Location is the shop's local time zone
func (p *DeliveryPlanner) Location() *time.Location {
	return p.loc
}

func (p *DeliveryPlanner) Options() DeliveryOptions {
	now := p.now().In(p.loc)
	afterCutoff := now.Hour() >= p.cutoffHour

	dates := make([]DeliveryDate, 0, deliveryDays+1)
	for i := 0; i <= deliveryDays; i++ {
		day := now.AddDate(0, 0, i)
		dates = append(dates, DeliveryDate{
			Value:    day.Format("2006-01-02"),
			Label:    day.Format("Monday, 2 January 2006"),
			Disabled: afterCutoff && i <= 1,
		})
	}

	return DeliveryOptions{
		Dates:          dates,
		Slots:          append([]string(nil), domain.DeliverySlots...),
		Accommodations: append([]domain.Accommodation(nil), domain.Accommodations...),
		CutoffHour:     p.cutoffHour,
		AfterCutoff:    afterCutoff,
	}
}

// Available reports whether date (YYYY-MM-DD) is offered and not disabled
func (p *DeliveryPlanner) Available(date string) bool {
	for _, d := range p.Options().Dates {
		if d.Value == date {
			return !d.Disabled
		}
	}
	return false
}
