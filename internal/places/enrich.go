package places

import (
	"math"
	"time"
)

const earthRadiusKM = 6371.0

// Haversine 두 좌표 사이 거리(km)
func Haversine(from, to LatLng) float64 {
	dLat := toRadians(to.Lat - from.Lat)
	dLng := toRadians(to.Lng - from.Lng)
	lat1 := toRadians(from.Lat)
	lat2 := toRadians(to.Lat)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// IsOpenAt evaluates today's period against now. The second return is false
// when the hours do not cover today at all.
func IsOpenAt(hours *BusinessHours, now time.Time) (bool, bool) {
	if hours == nil {
		return false, false
	}

	day := int(now.Weekday())
	hhmm := now.Format("1504")
	known := false
	for _, p := range hours.RegularHours.Periods {
		if p.Open.Day != day {
			continue
		}
		known = true
		if hhmm < p.Open.Time {
			continue
		}
		// 마감 시각이 다음 날이면 자정까지 영업 중으로 본다
		if p.Close == nil || p.Close.Day != p.Open.Day || hhmm <= p.Close.Time {
			return true, true
		}
	}
	return false, known
}

// Enrich fills the per-request fields on b: distance, open state, the
// seasonal schedule and the "Open Now" feature. Hours are replaced by a copy
// so records shared between requests are never written.
func Enrich(b *Business, userLocation *LatLng, now time.Time) {
	b.Distance = nil
	if userLocation != nil && b.Location != nil {
		d := Haversine(*userLocation, *b.Location)
		b.Distance = &d
	}

	b.IsOpen = nil
	open := false
	if b.OpeningHours != nil {
		hours := *b.OpeningHours
		hours.SeasonalHours = SeasonalSchedule(hours.RegularHours, now)
		if o, known := IsOpenAt(&hours, now); known {
			b.IsOpen = &o
			open = o
		}
		hours.RegularHours.OpenNow = open
		b.OpeningHours = &hours
	}
	b.Features = Features(b, open)
}

// StripDerived clears everything Enrich computes so a record can be cached.
func StripDerived(b *Business) {
	b.Distance = nil
	b.IsOpen = nil
	if b.OpeningHours != nil {
		hours := *b.OpeningHours
		hours.SeasonalHours = []SeasonalHours{}
		hours.RegularHours.OpenNow = false
		b.OpeningHours = &hours
	}
	b.Features = Features(b, false)
}
