package places

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var priceLevels = map[int]PriceLevel{
	0: {Level: 0, Description: "Free"},
	1: {Level: 1, Description: "Inexpensive"},
	2: {Level: 2, Description: "Moderate"},
	3: {Level: 3, Description: "Expensive"},
	4: {Level: 4, Description: "Very Expensive"},
}

var businessStatusText = map[string]string{
	"OPERATIONAL":        "Open",
	"CLOSED_TEMPORARILY": "Temporarily Closed",
	"CLOSED_PERMANENTLY": "Permanently Closed",
	"CLOSED":             "Closed",
}

var (
	positiveWords = []string{"great", "excellent", "amazing", "good", "love", "best", "fantastic", "wonderful"}
	negativeWords = []string{"bad", "poor", "terrible", "worst", "horrible", "disappointed", "awful"}
)

var clockText = regexp.MustCompile(`\d{1,2}:\d{2} [AP]M`)

// PriceTier maps 0-4 to its tier; anything else (or nil) falls back to tier 0.
func PriceTier(level *int) PriceLevel {
	if level == nil {
		return priceLevels[0]
	}
	if p, ok := priceLevels[*level]; ok {
		return p
	}
	return priceLevels[0]
}

// RatingText 평점 구간별 표시 문구
func RatingText(rating *float64) string {
	if rating == nil || *rating == 0 {
		return "Not Rated"
	}
	switch r := *rating; {
	case r >= 4.5:
		return "Exceptional"
	case r >= 4.0:
		return "Excellent"
	case r >= 3.5:
		return "Very Good"
	case r >= 3.0:
		return "Good"
	case r >= 2.0:
		return "Fair"
	default:
		return "Poor"
	}
}

// Sentiment counts each keyword at most once by substring match in the
// lowercased text; the larger side wins and a tie is neutral.
func Sentiment(text string) string {
	lower := strings.ToLower(text)
	positive, negative := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	switch {
	case positive > negative:
		return "positive"
	case negative > positive:
		return "negative"
	default:
		return "neutral"
	}
}

func attributionHas(attrs []string, words ...string) bool {
	for _, a := range attrs {
		lower := strings.ToLower(a)
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

// CategorizePhotos 첫 번째 사진은 대표(외관), 나머지는 attribution 키워드로 분류
func CategorizePhotos(raw []RawPhoto) []Photo {
	photos := make([]Photo, 0, len(raw))
	for i, p := range raw {
		photo := Photo{
			PhotoReference:   p.PhotoReference,
			Height:           p.Height,
			Width:            p.Width,
			HTMLAttributions: p.HTMLAttributions,
			Category:         "other",
		}
		switch {
		case i == 0:
			photo.MainPhoto = true
			photo.Category = "exterior"
		case attributionHas(p.HTMLAttributions, "interior", "inside"):
			photo.Category = "interior"
		case attributionHas(p.HTMLAttributions, "food", "dish", "meal"):
			photo.Category = "food"
		case attributionHas(p.HTMLAttributions, "menu"):
			photo.Category = "menu"
		case attributionHas(p.HTMLAttributions, "team", "staff"):
			photo.Category = "team"
		}
		photos = append(photos, photo)
	}
	return photos
}

func replaceFirstClock(text, replacement string) string {
	loc := clockText.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[0]] + replacement + text[loc[1]:]
}

func seasonalVariant(hours OpeningHours, replacement string) OpeningHours {
	out := hours
	out.WeekdayText = make([]string, len(hours.WeekdayText))
	for i, t := range hours.WeekdayText {
		out.WeekdayText[i] = replaceFirstClock(t, replacement)
	}
	return out
}

// BuildBusinessHours wraps the upstream hours with the holiday schedule.
// Seasonal hours depend on the current date and are filled in by Enrich.
func BuildBusinessHours(hours OpeningHours) *BusinessHours {
	bh := &BusinessHours{
		RegularHours:    hours,
		HolidaySchedule: map[string]string{},
		SeasonalHours:   []SeasonalHours{},
	}
	if len(hours.HolidayHours) > 0 {
		bh.HolidaySchedule = hours.HolidayHours
	}
	return bh
}

// SeasonalSchedule returns the summer (Jun-Aug) or winter (Dec-Feb) schedule
// for the season containing now, or an empty slice outside both.
func SeasonalSchedule(hours OpeningHours, now time.Time) []SeasonalHours {
	year := now.Year()
	switch month := now.Month(); {
	case month >= time.June && month <= time.August:
		return []SeasonalHours{{
			StartDate: fmt.Sprintf("%d-06-01", year),
			EndDate:   fmt.Sprintf("%d-08-31", year),
			Hours:     seasonalVariant(hours, "9:00 AM - 9:00 PM"),
			Note:      "Extended Summer Hours",
		}}
	case month == time.December || month <= time.February:
		start := year
		if month != time.December {
			start = year - 1
		}
		// 2월 말일 (윤년 반영)
		febEnd := time.Date(start+1, time.March, 0, 0, 0, 0, 0, time.UTC)
		return []SeasonalHours{{
			StartDate: fmt.Sprintf("%d-12-01", start),
			EndDate:   febEnd.Format("2006-01-02"),
			Hours:     seasonalVariant(hours, "10:00 AM - 7:00 PM"),
			Note:      "Winter Hours",
		}}
	}
	return []SeasonalHours{}
}

// Features 표시용 특징 목록
func Features(b *Business, openNow bool) []string {
	features := []string{}
	add := func(ok bool, label string) {
		if ok {
			features = append(features, label)
		}
	}

	add(b.BusinessStatus == "OPERATIONAL", "Currently Operating")
	add(openNow, "Open Now")
	add(b.Metadata.Delivery, "Delivery Available")
	add(b.Metadata.Takeout, "Takeout Available")
	add(b.Metadata.DineIn, "Dine-in Available")
	add(b.Metadata.AcceptsCreditCards, "Accepts Credit Cards")
	add(b.Metadata.AcceptsMobilePayments, "Mobile Payments")
	add(b.Metadata.WifiAvailable, "Free WiFi")
	add(b.Metadata.ParkingAvailable, "Parking Available")
	add(b.Metadata.OutdoorSeating, "Outdoor Seating")
	add(b.Accessibility.WheelchairAccessibleEntrance, "Wheelchair Accessible")
	add(b.Metadata.WomanOwned, "Woman-Owned Business")
	add(b.Metadata.MinorityOwned, "Minority-Owned Business")
	add(b.Metadata.VeteranOwned, "Veteran-Owned Business")
	add(b.Metadata.LocallyOwned, "Locally Owned")
	return features
}

func nonEmpty(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func orDefault(values []string, def ...string) []string {
	if len(values) > 0 {
		return values
	}
	if def == nil {
		return []string{}
	}
	return def
}

// Transform builds the canonical record from one upstream record. The result
// carries no time-dependent state; Enrich adds it per request.
func Transform(raw RawPlace) Business {
	b := Business{
		PlaceID:          raw.PlaceID,
		Name:             strings.TrimSpace(raw.Name),
		FormattedAddress: strings.TrimSpace(raw.FormattedAddress),
		Types:            orDefault(raw.Types),
		BusinessStatus:   raw.BusinessStatus,
		UserRatingsTotal: raw.UserRatingsTotal,
		PriceLevel:       PriceTier(raw.PriceLevel),
		Photos:           CategorizePhotos(raw.Photos),
		RatingText:       RatingText(raw.Rating),
		Specialties:      orDefault(raw.Specialties),
		LanguagesSpoken:  orDefault(raw.LanguagesSpoken, "English"),
		YearEstablished:  raw.YearEstablished,
	}
	if b.BusinessStatus == "" {
		b.BusinessStatus = "OPERATIONAL"
	}
	b.BusinessStatusText = businessStatusText[b.BusinessStatus]
	if raw.Rating != nil {
		b.Rating = *raw.Rating
	}
	if raw.Geometry != nil && raw.Geometry.Location != nil {
		loc := *raw.Geometry.Location
		b.Location = &loc
	}

	if raw.OpeningHours != nil {
		hours := *raw.OpeningHours
		hours.OpenNow = false
		b.OpeningHours = BuildBusinessHours(hours)
	}

	b.Reviews = make([]Review, 0, len(raw.Reviews))
	for _, r := range raw.Reviews {
		b.Reviews = append(b.Reviews, Review{
			AuthorName:              r.AuthorName,
			Rating:                  r.Rating,
			RelativeTimeDescription: r.RelativeTimeDescription,
			Text:                    r.Text,
			Time:                    r.Time,
			Sentiment:               Sentiment(r.Text),
			Language:                "en",
		})
	}

	b.ContactInfo = ContactInfo{
		FormattedPhoneNumber:     raw.FormattedPhoneNumber,
		InternationalPhoneNumber: raw.InternationalPhoneNumber,
		Website:                  raw.Website,
		Email:                    raw.Email,
		SocialMedia: map[string]string{
			"facebook":  raw.FacebookURL,
			"instagram": raw.InstagramURL,
			"twitter":   raw.TwitterURL,
			"linkedin":  raw.LinkedInURL,
			"youtube":   raw.YouTubeURL,
			"yelp":      raw.YelpURL,
		},
		MessagingPlatforms: nonEmpty(map[string]string{
			"whatsapp":  raw.WhatsApp,
			"messenger": raw.Messenger,
			"telegram":  raw.Telegram,
			"wechat":    raw.WeChat,
		}),
	}
	b.SocialLinks = nonEmpty(b.ContactInfo.SocialMedia)
	b.ContactInfo.SocialMedia = b.SocialLinks

	b.Accessibility = Accessibility{
		WheelchairAccessibleEntrance: raw.WheelchairEntrance,
		WheelchairAccessibleParking:  raw.WheelchairParking,
		WheelchairAccessibleRestroom: raw.WheelchairRestroom,
		WheelchairAccessibleSeating:  raw.WheelchairSeating,
		ServiceAnimalAllowed:         true,
		BrailleMenuAvailable:         raw.BrailleMenu,
		StaffAssistanceAvailable:     true,
	}

	b.Metadata = Metadata{
		CurbsidePickup:        raw.CurbsidePickup,
		Delivery:              raw.Delivery,
		DineIn:                raw.DineIn,
		Takeout:               raw.Takeout,
		DriveThru:             raw.DriveThru,
		OnlineOrdering:        raw.OnlineOrdering,
		Catering:              raw.Catering,
		ServesBreakfast:       raw.ServesBreakfast,
		ServesLunch:           raw.ServesLunch,
		ServesDinner:          raw.ServesDinner,
		ServesVegetarianFood:  raw.ServesVegetarian,
		ServesAlcohol:         raw.ServesAlcohol,
		WifiAvailable:         raw.WifiAvailable,
		ParkingAvailable:      raw.ParkingAvailable,
		ReservationsRequired:  raw.ReservationsNeeded,
		OutdoorSeating:        raw.OutdoorSeating,
		FamilyFriendly:        true,
		DogFriendly:           raw.DogFriendly,
		AcceptsCreditCards:    true,
		AcceptsCash:           true,
		AcceptsMobilePayments: raw.AcceptsMobilePay,
		AcceptsChecks:         raw.AcceptsChecks,
		AcceptsCrypto:         raw.AcceptsCrypto,
		WomanOwned:            raw.WomanOwned,
		MinorityOwned:         raw.MinorityOwned,
		VeteranOwned:          raw.VeteranOwned,
		LocallyOwned:          !raw.Chain,
		Chain:                 raw.Chain,
		Franchise:             raw.Franchise,
		HealthScore:           raw.HealthScore,
		EnhancedCleaning:      true,
		CovidSafetyMeasures:   true,
	}

	b.Verification = Verification{
		Verified:       raw.Verified,
		Certifications: orDefault(raw.Certifications),
		Insurance:      orDefault(raw.Insurance),
		Licenses:       orDefault(raw.Licenses),
	}

	if raw.ServiceArea != nil {
		b.ServiceArea = *raw.ServiceArea
	} else {
		country := raw.Country
		if country == "" {
			country = "US"
		}
		b.ServiceArea = ServiceArea{
			RadiusKM: 25,
			Cities:   []string{raw.City},
			ZipCodes: []string{raw.PostalCode},
			States:   []string{raw.State},
			Country:  country,
		}
	}

	b.ParkingOptions = ParkingOptions{
		Street:    true,
		Lot:       raw.HasParkingLot,
		Valet:     raw.HasValet,
		Garage:    raw.HasGarage,
		Free:      true,
		Validated: raw.HasValidatedParking,
	}

	b.BusinessResponse = BusinessResponse{
		AverageResponseTimeHours: raw.AverageResponseTimeHours,
		ResponseRatePercentage:   raw.ResponseRatePercentage,
	}
	if b.BusinessResponse.AverageResponseTimeHours == 0 {
		b.BusinessResponse.AverageResponseTimeHours = 24
	}
	if b.BusinessResponse.ResponseRatePercentage == 0 {
		b.BusinessResponse.ResponseRatePercentage = 85
	}

	b.Features = Features(&b, false)
	return b
}
