package domain

import (
	"fmt"
	"strings"
)

// AccommodationType tells cabins from touring pitches
type AccommodationType string

const (
	AccommodationCabin AccommodationType = "cabin"
	AccommodationPitch AccommodationType = "pitch"
)

func (t AccommodationType) Valid() bool {
	return t == AccommodationCabin || t == AccommodationPitch
}

func (t *AccommodationType) UnmarshalJSON(data []byte) error {
	v, err := unmarshalEnum(data, "accommodation type", func(v string) bool { return AccommodationType(v).Valid() })
	if err != nil {
		return err
	}
	*t = AccommodationType(v)
	return nil
}

// Accommodation is a delivery destination on the campsite
type Accommodation struct {
	ID   string            `json:"id"`
	Name string            `json:"name"`
	Type AccommodationType `json:"type"`
}

var cabinNames = []string{
	"Angle Tarn", "Beacon Tarn", "Blea Tarn", "Bleaberry Tarn", "Blind Tarn", "Bowscale Tarn", "Burnmoor Tarn",
	"Dock Tarn", "Easedale Tarn", "Red Tarn", "Scales Tarn", "Sprinkling Tarn", "Stickle Tarn", "Styhead Tarn",
}

// Accommodations lists cabins alphabetically, then Low Rigg pitches 1-14, then High Rigg pitches 15-30
var Accommodations = buildAccommodations()

func buildAccommodations() []Accommodation {
	list := make([]Accommodation, 0, len(cabinNames)+30)
	for _, name := range cabinNames {
		list = append(list, Accommodation{ID: slug(name), Name: name, Type: AccommodationCabin})
	}
	for n := 1; n <= 30; n++ {
		area, prefix := "Low Rigg", "low-rigg"
		if n > 14 {
			area, prefix = "High Rigg", "high-rigg"
		}
		list = append(list, Accommodation{
			ID:   fmt.Sprintf("%s-%d", prefix, n),
			Name: fmt.Sprintf("%s - Touring Pitch %d", area, n),
			Type: AccommodationPitch,
		})
	}
	return list
}

// FindAccommodation looks an accommodation up by id
func FindAccommodation(id string) (Accommodation, bool) {
	for _, a := range Accommodations {
		if a.ID == id {
			return a, true
		}
	}
	return Accommodation{}, false
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// DeliverySlots are the fixed morning hand-delivery windows
var DeliverySlots = []string{
	"8:30 AM - 8:45 AM",
	"8:45 AM - 9:00 AM",
	"9:00 AM - 9:15 AM",
	"9:15 AM - 9:30 AM",
	"9:30 AM - 9:45 AM",
	"9:45 AM - 10:00 AM",
}

// ValidDeliverySlot reports whether slot is one of DeliverySlots
func ValidDeliverySlot(slot string) bool {
	for _, s := range DeliverySlots {
		if s == slot {
			return true
		}
	}
	return false
}
