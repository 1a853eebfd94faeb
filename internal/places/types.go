package places

// LatLng 위경도 좌표
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// TextSearchRequest 텍스트 검색 요청
type TextSearchRequest struct {
	Query     string
	Location  *LatLng
	Radius    int
	PageToken string
}

// RawResponse 업스트림 텍스트 검색 응답
type RawResponse struct {
	Results       []RawPlace `json:"results"`
	Status        string     `json:"status"`
	NextPageToken string     `json:"next_page_token,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}

// Upstream status values.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
)

// RawGeometry 업스트림 좌표 정보
type RawGeometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// TimePoint 요일(0=일요일)과 "HHMM" 형식 시각
type TimePoint struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// Period 영업 구간
type Period struct {
	Open  TimePoint  `json:"open"`
	Close *TimePoint `json:"close,omitempty"`
}

// OpeningHours 정규 영업시간
type OpeningHours struct {
	OpenNow      bool              `json:"open_now"`
	Periods      []Period          `json:"periods,omitempty"`
	WeekdayText  []string          `json:"weekday_text,omitempty"`
	HolidayHours map[string]string `json:"holiday_hours,omitempty"`
}

// RawPhoto 업스트림 사진
type RawPhoto struct {
	PhotoReference   string   `json:"photo_reference"`
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

// RawReview 업스트림 리뷰
type RawReview struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	Text                    string  `json:"text"`
	Time                    int64   `json:"time"`
}

// ServiceArea 서비스 제공 지역
type ServiceArea struct {
	RadiusKM float64  `json:"radius_km"`
	Cities   []string `json:"cities"`
	ZipCodes []string `json:"zip_codes"`
	States   []string `json:"states"`
	Country  string   `json:"country"`
}

// RawPlace is one upstream record. Beyond the standard text-search fields it
// carries the optional attribute flags some providers attach.
type RawPlace struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Geometry         *RawGeometry  `json:"geometry,omitempty"`
	Types            []string      `json:"types,omitempty"`
	BusinessStatus   string        `json:"business_status,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal int           `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Photos           []RawPhoto    `json:"photos,omitempty"`
	Reviews          []RawReview   `json:"reviews,omitempty"`

	FormattedPhoneNumber     string `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string `json:"international_phone_number,omitempty"`
	Website                  string `json:"website,omitempty"`
	Email                    string `json:"email,omitempty"`
	FacebookURL              string `json:"facebook_url,omitempty"`
	InstagramURL             string `json:"instagram_url,omitempty"`
	TwitterURL               string `json:"twitter_url,omitempty"`
	LinkedInURL              string `json:"linkedin_url,omitempty"`
	YouTubeURL               string `json:"youtube_url,omitempty"`
	YelpURL                  string `json:"yelp_url,omitempty"`
	WhatsApp                 string `json:"whatsapp,omitempty"`
	Messenger                string `json:"messenger,omitempty"`
	Telegram                 string `json:"telegram,omitempty"`
	WeChat                   string `json:"wechat,omitempty"`

	CurbsidePickup bool `json:"curbside_pickup,omitempty"`
	Delivery       bool `json:"delivery,omitempty"`
	DineIn         bool `json:"dine_in,omitempty"`
	Takeout        bool `json:"takeout,omitempty"`
	DriveThru      bool `json:"drive_thru,omitempty"`
	OnlineOrdering bool `json:"online_ordering,omitempty"`
	Catering       bool `json:"catering,omitempty"`

	ServesBreakfast     bool `json:"serves_breakfast,omitempty"`
	ServesLunch         bool `json:"serves_lunch,omitempty"`
	ServesDinner        bool `json:"serves_dinner,omitempty"`
	ServesVegetarian    bool `json:"serves_vegetarian_food,omitempty"`
	ServesAlcohol       bool `json:"serves_alcohol,omitempty"`
	WifiAvailable       bool `json:"wifi_available,omitempty"`
	ParkingAvailable    bool `json:"parking_available,omitempty"`
	ReservationsNeeded  bool `json:"reservations_required,omitempty"`
	OutdoorSeating      bool `json:"outdoor_seating,omitempty"`
	DogFriendly         bool `json:"dog_friendly,omitempty"`
	AcceptsMobilePay    bool `json:"accepts_mobile_payments,omitempty"`
	AcceptsChecks       bool `json:"accepts_checks,omitempty"`
	AcceptsCrypto       bool `json:"accepts_crypto,omitempty"`
	WomanOwned          bool `json:"woman_owned,omitempty"`
	MinorityOwned       bool `json:"minority_owned,omitempty"`
	VeteranOwned        bool `json:"veteran_owned,omitempty"`
	Chain               bool `json:"chain,omitempty"`
	Franchise           bool `json:"franchise,omitempty"`
	HealthScore         *int `json:"health_score,omitempty"`
	WheelchairEntrance  bool `json:"wheelchair_accessible_entrance,omitempty"`
	WheelchairParking   bool `json:"wheelchair_accessible_parking,omitempty"`
	WheelchairRestroom  bool `json:"wheelchair_accessible_restroom,omitempty"`
	WheelchairSeating   bool `json:"wheelchair_accessible_seating,omitempty"`
	BrailleMenu         bool `json:"braille_menu_available,omitempty"`
	HasParkingLot       bool `json:"has_parking_lot,omitempty"`
	HasValet            bool `json:"has_valet,omitempty"`
	HasGarage           bool `json:"has_garage,omitempty"`
	HasValidatedParking bool `json:"has_validated_parking,omitempty"`

	Verified        bool         `json:"verified,omitempty"`
	Certifications  []string     `json:"certifications,omitempty"`
	Insurance       []string     `json:"insurance,omitempty"`
	Licenses        []string     `json:"licenses,omitempty"`
	ServiceArea     *ServiceArea `json:"service_area,omitempty"`
	City            string       `json:"city,omitempty"`
	State           string       `json:"state,omitempty"`
	PostalCode      string       `json:"postal_code,omitempty"`
	Country         string       `json:"country,omitempty"`
	Specialties     []string     `json:"specialties,omitempty"`
	LanguagesSpoken []string     `json:"languages_spoken,omitempty"`
	YearEstablished int          `json:"year_established,omitempty"`

	AverageResponseTimeHours float64 `json:"average_response_time_hours,omitempty"`
	ResponseRatePercentage   float64 `json:"response_rate_percentage,omitempty"`
}

// PriceLevel 가격대
type PriceLevel struct {
	Level       int    `json:"level"`
	Description string `json:"description"`
}

// SeasonalHours 계절별 영업시간
type SeasonalHours struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Hours     OpeningHours `json:"hours"`
	Note      string       `json:"note"`
}

// BusinessHours 정규/휴일/계절 영업시간
type BusinessHours struct {
	RegularHours    OpeningHours      `json:"regular_hours"`
	HolidaySchedule map[string]string `json:"holiday_schedule"`
	SeasonalHours   []SeasonalHours   `json:"seasonal_hours"`
}

// Photo 분류된 사진
type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
	Category         string   `json:"category"`
	MainPhoto        bool     `json:"main_photo,omitempty"`
}

// Review 감성 분류된 리뷰
type Review struct {
	AuthorName              string  `json:"author_name"`
	Rating                  float64 `json:"rating"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	Text                    string  `json:"text"`
	Time                    int64   `json:"time"`
	Sentiment               string  `json:"sentiment"`
	Language                string  `json:"language"`
}

// ContactInfo 연락처
type ContactInfo struct {
	FormattedPhoneNumber     string            `json:"formatted_phone_number,omitempty"`
	InternationalPhoneNumber string            `json:"international_phone_number,omitempty"`
	Website                  string            `json:"website,omitempty"`
	Email                    string            `json:"email,omitempty"`
	SocialMedia              map[string]string `json:"social_media"`
	MessagingPlatforms       map[string]string `json:"messaging_platforms"`
}

// Accessibility 접근성 정보
type Accessibility struct {
	WheelchairAccessibleEntrance bool `json:"wheelchair_accessible_entrance"`
	WheelchairAccessibleParking  bool `json:"wheelchair_accessible_parking"`
	WheelchairAccessibleRestroom bool `json:"wheelchair_accessible_restroom"`
	WheelchairAccessibleSeating  bool `json:"wheelchair_accessible_seating"`
	ServiceAnimalAllowed         bool `json:"service_animal_allowed"`
	BrailleMenuAvailable         bool `json:"braille_menu_available"`
	StaffAssistanceAvailable     bool `json:"staff_assistance_available"`
}

// Metadata 서비스/편의시설/결제/소유 형태 플래그
type Metadata struct {
	CurbsidePickup bool `json:"curbside_pickup"`
	Delivery       bool `json:"delivery"`
	DineIn         bool `json:"dine_in"`
	Takeout        bool `json:"takeout"`
	DriveThru      bool `json:"drive_thru"`
	OnlineOrdering bool `json:"online_ordering"`
	Catering       bool `json:"catering"`

	ServesBreakfast      bool `json:"serves_breakfast"`
	ServesLunch          bool `json:"serves_lunch"`
	ServesDinner         bool `json:"serves_dinner"`
	ServesVegetarianFood bool `json:"serves_vegetarian_food"`
	ServesAlcohol        bool `json:"serves_alcohol"`

	WifiAvailable          bool `json:"wifi_available"`
	ParkingAvailable       bool `json:"parking_available"`
	ReservationsRequired   bool `json:"reservations_required"`
	OutdoorSeating         bool `json:"outdoor_seating"`
	FamilyFriendly         bool `json:"family_friendly"`
	DogFriendly            bool `json:"dog_friendly"`
	AcceptsCreditCards     bool `json:"accepts_credit_cards"`
	AcceptsCash            bool `json:"accepts_cash"`
	AcceptsMobilePayments  bool `json:"accepts_mobile_payments"`
	AcceptsChecks          bool `json:"accepts_checks"`
	AcceptsCrypto          bool `json:"accepts_crypto"`
	WomanOwned             bool `json:"woman_owned"`
	MinorityOwned          bool `json:"minority_owned"`
	VeteranOwned           bool `json:"veteran_owned"`
	LocallyOwned           bool `json:"locally_owned"`
	Chain                  bool `json:"chain"`
	Franchise              bool `json:"franchise"`
	HealthScore            *int `json:"health_score,omitempty"`
	EnhancedCleaning       bool `json:"enhanced_cleaning"`
	CovidSafetyMeasures    bool `json:"covid_safety_measures"`
}

// Verification 인증/보험/면허 정보
type Verification struct {
	Verified       bool     `json:"verified"`
	Certifications []string `json:"certifications"`
	Insurance      []string `json:"insurance"`
	Licenses       []string `json:"licenses"`
}

// ParkingOptions 주차 옵션
type ParkingOptions struct {
	Street    bool `json:"street"`
	Lot       bool `json:"lot"`
	Valet     bool `json:"valet"`
	Garage    bool `json:"garage"`
	Free      bool `json:"free"`
	Validated bool `json:"validated"`
}

// BusinessResponse 리뷰 응답 지표
type BusinessResponse struct {
	AverageResponseTimeHours float64 `json:"average_response_time_hours"`
	ResponseRatePercentage   float64 `json:"response_rate_percentage"`
}

// Business is the canonical record built from one RawPlace. Distance and
// IsOpen depend on the caller and the clock, so they are filled per request
// and stripped before a result set is cached.
type Business struct {
	PlaceID              string           `json:"place_id"`
	Name                 string           `json:"name"`
	FormattedAddress     string           `json:"formatted_address"`
	Location             *LatLng          `json:"location,omitempty"`
	Types                []string         `json:"types"`
	BusinessStatus       string           `json:"business_status"`
	BusinessStatusText   string           `json:"business_status_text"`
	Rating               float64          `json:"rating"`
	UserRatingsTotal     int              `json:"user_ratings_total"`
	PriceLevel           PriceLevel       `json:"price_level"`
	OpeningHours         *BusinessHours   `json:"opening_hours,omitempty"`
	Photos               []Photo          `json:"photos"`
	Reviews              []Review         `json:"reviews"`
	ContactInfo          ContactInfo      `json:"contact_info"`
	Accessibility        Accessibility    `json:"accessibility"`
	Metadata             Metadata         `json:"metadata"`
	Verification         Verification     `json:"verification"`
	ServiceArea          ServiceArea      `json:"service_area"`
	Specialties          []string         `json:"specialties"`
	LanguagesSpoken      []string         `json:"languages_spoken"`
	YearEstablished      int              `json:"year_established,omitempty"`
	ParkingOptions       ParkingOptions   `json:"parking_options"`
	BusinessResponse     BusinessResponse `json:"business_response"`
	Features             []string         `json:"features"`
	SocialLinks          map[string]string `json:"social_links"`
	RatingText           string           `json:"rating_text"`

	Distance *float64 `json:"distance,omitempty"`
	IsOpen   *bool    `json:"is_open,omitempty"`
}

// Page 업스트림 한 페이지(또는 누적된 전체) 결과
type Page struct {
	Results       []Business
	Status        string
	NextPageToken string
}
