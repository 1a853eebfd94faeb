package places

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestPriceTier(t *testing.T) {
	assert.Equal(t, PriceLevel{Level: 2, Description: "Moderate"}, PriceTier(intPtr(2)))
	assert.Equal(t, PriceLevel{Level: 4, Description: "Very Expensive"}, PriceTier(intPtr(4)))
	assert.Equal(t, PriceLevel{Level: 0, Description: "Free"}, PriceTier(intPtr(7)))
	assert.Equal(t, PriceLevel{Level: 0, Description: "Free"}, PriceTier(intPtr(-1)))
	assert.Equal(t, PriceLevel{Level: 0, Description: "Free"}, PriceTier(nil))
}

func TestRatingText(t *testing.T) {
	cases := []struct {
		rating *float64
		want   string
	}{
		{floatPtr(4.6), "Exceptional"},
		{floatPtr(4.5), "Exceptional"},
		{floatPtr(4.0), "Excellent"},
		{floatPtr(3.7), "Very Good"},
		{floatPtr(3.2), "Good"},
		{floatPtr(2.0), "Fair"},
		{floatPtr(1.9), "Poor"},
		{nil, "Not Rated"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RatingText(tc.rating))
	}
}

func TestSentiment(t *testing.T) {
	assert.Equal(t, "positive", Sentiment("Great service, the BEST plumber in town"))
	assert.Equal(t, "negative", Sentiment("Terrible. Worst experience, really bad"))
	assert.Equal(t, "neutral", Sentiment("Good price but poor communication"))
	assert.Equal(t, "neutral", Sentiment("They showed up on Tuesday"))
	// 같은 단어는 한 번만 센다
	assert.Equal(t, "negative", Sentiment("good good good, but awful and horrible"))
}

func TestCategorizePhotos(t *testing.T) {
	photos := CategorizePhotos([]RawPhoto{
		{PhotoReference: "a", HTMLAttributions: []string{"Food lover"}},
		{PhotoReference: "b", HTMLAttributions: []string{"<a>Inside the shop</a>"}},
		{PhotoReference: "c", HTMLAttributions: []string{"Our signature DISH"}},
		{PhotoReference: "d", HTMLAttributions: []string{"menu board"}},
		{PhotoReference: "e", HTMLAttributions: []string{"Meet the staff"}},
		{PhotoReference: "f"},
	})

	require.Len(t, photos, 6)
	assert.True(t, photos[0].MainPhoto)
	assert.Equal(t, "exterior", photos[0].Category)
	assert.Equal(t, "interior", photos[1].Category)
	assert.Equal(t, "food", photos[2].Category)
	assert.Equal(t, "menu", photos[3].Category)
	assert.Equal(t, "team", photos[4].Category)
	assert.Equal(t, "other", photos[5].Category)
	assert.False(t, photos[5].MainPhoto)
}

func TestSeasonalSchedule(t *testing.T) {
	hours := OpeningHours{WeekdayText: []string{"Monday: 8:00 AM – 5:00 PM"}}

	bh := BuildBusinessHours(hours)
	assert.Empty(t, bh.SeasonalHours)
	assert.NotNil(t, bh.HolidaySchedule)

	summer := SeasonalSchedule(hours, time.Date(2024, time.July, 4, 10, 0, 0, 0, time.UTC))
	require.Len(t, summer, 1)
	assert.Equal(t, "2024-06-01", summer[0].StartDate)
	assert.Equal(t, "Monday: 9:00 AM - 9:00 PM – 5:00 PM", summer[0].Hours.WeekdayText[0])
	assert.Equal(t, "Monday: 8:00 AM – 5:00 PM", hours.WeekdayText[0])

	winter := SeasonalSchedule(hours, time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC))
	require.Len(t, winter, 1)
	assert.Equal(t, "2023-12-01", winter[0].StartDate)
	assert.Equal(t, "2024-02-29", winter[0].EndDate)
	assert.Equal(t, "Winter Hours", winter[0].Note)

	spring := SeasonalSchedule(hours, time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC))
	assert.NotNil(t, spring)
	assert.Empty(t, spring)
}

func TestTransform(t *testing.T) {
	raw := RawPlace{
		PlaceID:          "p1",
		Name:             "  Ace Plumbing ",
		FormattedAddress: "1 Main St, Austin, TX",
		Geometry:         &RawGeometry{Location: &LatLng{Lat: 30.27, Lng: -97.74}},
		Rating:           floatPtr(4.7),
		UserRatingsTotal: 120,
		PriceLevel:       intPtr(2),
		BusinessStatus:   "OPERATIONAL",
		OpeningHours:     &OpeningHours{OpenNow: true},
		Reviews:          []RawReview{{Text: "Amazing work"}},
		FacebookURL:      "https://facebook.com/ace",
		Delivery:         true,
		WomanOwned:       true,
	}

	b := Transform(raw)

	assert.Equal(t, "Ace Plumbing", b.Name)
	assert.Equal(t, "Open", b.BusinessStatusText)
	assert.Equal(t, "Exceptional", b.RatingText)
	assert.Equal(t, PriceLevel{Level: 2, Description: "Moderate"}, b.PriceLevel)
	assert.Equal(t, map[string]string{"facebook": "https://facebook.com/ace"}, b.SocialLinks)
	assert.Equal(t, "positive", b.Reviews[0].Sentiment)
	assert.Equal(t, []string{"English"}, b.LanguagesSpoken)
	assert.True(t, b.Metadata.LocallyOwned)
	assert.True(t, b.Metadata.FamilyFriendly)
	assert.True(t, b.Accessibility.ServiceAnimalAllowed)
	assert.Equal(t, 25.0, b.ServiceArea.RadiusKM)
	assert.Equal(t, "US", b.ServiceArea.Country)
	assert.Equal(t, []string{
		"Currently Operating",
		"Delivery Available",
		"Accepts Credit Cards",
		"Woman-Owned Business",
		"Locally Owned",
	}, b.Features)
	assert.Nil(t, b.Distance)
	assert.Nil(t, b.IsOpen)
	require.NotNil(t, b.OpeningHours)
	assert.False(t, b.OpeningHours.RegularHours.OpenNow)
	assert.Empty(t, b.OpeningHours.SeasonalHours)
}

func TestTransformDefaults(t *testing.T) {
	b := Transform(RawPlace{PlaceID: "p2", Name: "X", Chain: true})

	assert.Equal(t, "OPERATIONAL", b.BusinessStatus)
	assert.Equal(t, "Not Rated", b.RatingText)
	assert.Equal(t, 0, b.PriceLevel.Level)
	assert.False(t, b.Metadata.LocallyOwned)
	assert.NotNil(t, b.Photos)
	assert.NotNil(t, b.Reviews)
	assert.Empty(t, b.SocialLinks)
}

func TestHaversine(t *testing.T) {
	austin := LatLng{Lat: 30.2672, Lng: -97.7431}
	dallas := LatLng{Lat: 32.7767, Lng: -96.7970}

	d := Haversine(austin, dallas)
	assert.InDelta(t, 293.0, d, 5.0)
	assert.Equal(t, 0.0, Haversine(austin, austin))
	assert.False(t, math.IsNaN(d))
}

func TestIsOpenAt(t *testing.T) {
	hours := &BusinessHours{RegularHours: OpeningHours{Periods: []Period{
		{Open: TimePoint{Day: 1, Time: "0900"}, Close: &TimePoint{Day: 1, Time: "1700"}},
		{Open: TimePoint{Day: 5, Time: "2000"}, Close: &TimePoint{Day: 6, Time: "0200"}},
	}}}

	// 2024-06-03 is a Monday
	monday := func(h, m int) time.Time { return time.Date(2024, 6, 3, h, m, 0, 0, time.UTC) }

	open, known := IsOpenAt(hours, monday(10, 30))
	assert.True(t, known)
	assert.True(t, open)

	open, known = IsOpenAt(hours, monday(8, 59))
	assert.True(t, known)
	assert.False(t, open)

	open, _ = IsOpenAt(hours, monday(17, 0))
	assert.True(t, open)

	open, _ = IsOpenAt(hours, monday(17, 1))
	assert.False(t, open)

	// Friday late night, closes after midnight
	open, _ = IsOpenAt(hours, time.Date(2024, 6, 7, 23, 0, 0, 0, time.UTC))
	assert.True(t, open)

	// Sunday has no period
	_, known = IsOpenAt(hours, time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC))
	assert.False(t, known)

	_, known = IsOpenAt(nil, monday(10, 0))
	assert.False(t, known)
}

func TestEnrich(t *testing.T) {
	b := Business{
		Location: &LatLng{Lat: 30.2672, Lng: -97.7431},
		OpeningHours: &BusinessHours{RegularHours: OpeningHours{Periods: []Period{
			{Open: TimePoint{Day: 1, Time: "0900"}, Close: &TimePoint{Day: 1, Time: "1700"}},
		}}},
	}

	Enrich(&b, &LatLng{Lat: 30.2672, Lng: -97.7431}, time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, b.Distance)
	assert.InDelta(t, 0.0, *b.Distance, 1e-9)
	require.NotNil(t, b.IsOpen)
	assert.True(t, *b.IsOpen)

	Enrich(&b, nil, time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC))
	assert.Nil(t, b.Distance)
	require.NotNil(t, b.IsOpen)
	assert.False(t, *b.IsOpen)

	StripDerived(&b)
	assert.Nil(t, b.Distance)
	assert.Nil(t, b.IsOpen)
}

func TestEnrichRecomputesTimeDependentState(t *testing.T) {
	raw := RawPlace{
		PlaceID:        "p1",
		Name:           "Ace Plumbing",
		BusinessStatus: "OPERATIONAL",
		OpeningHours: &OpeningHours{
			OpenNow: true,
			Periods: []Period{
				{Open: TimePoint{Day: 1, Time: "0900"}, Close: &TimePoint{Day: 1, Time: "1700"}},
			},
		},
	}
	stored := Transform(raw)
	StripDerived(&stored)
	assert.NotContains(t, stored.Features, "Open Now")

	// 2024-06-03 월요일 정오, 여름
	noon := stored
	Enrich(&noon, nil, time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC))
	require.NotNil(t, noon.IsOpen)
	assert.True(t, *noon.IsOpen)
	assert.Contains(t, noon.Features, "Open Now")
	assert.True(t, noon.OpeningHours.RegularHours.OpenNow)
	require.Len(t, noon.OpeningHours.SeasonalHours, 1)
	assert.Equal(t, "Extended Summer Hours", noon.OpeningHours.SeasonalHours[0].Note)

	// 2024-04-01 월요일 새벽, 계절 영업시간 없음
	night := stored
	Enrich(&night, nil, time.Date(2024, time.April, 1, 3, 0, 0, 0, time.UTC))
	require.NotNil(t, night.IsOpen)
	assert.False(t, *night.IsOpen)
	assert.NotContains(t, night.Features, "Open Now")
	assert.False(t, night.OpeningHours.RegularHours.OpenNow)
	assert.Empty(t, night.OpeningHours.SeasonalHours)

	assert.Empty(t, stored.OpeningHours.SeasonalHours)
	assert.False(t, stored.OpeningHours.RegularHours.OpenNow)
	assert.NotContains(t, stored.Features, "Open Now")
}
