package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/dataset"
	"github.com/ggorockee/localdirectory/internal/middleware"
	"github.com/ggorockee/localdirectory/internal/places"
	"github.com/ggorockee/localdirectory/internal/services"
)

type PlacesHandler struct {
	service *services.PlacesService
	data    *dataset.Dataset
}

func NewPlacesHandler(service *services.PlacesService, data *dataset.Dataset) *PlacesHandler {
	return &PlacesHandler{service: service, data: data}
}

func SetupPlacesRoutes(router fiber.Router, service *services.PlacesService, data *dataset.Dataset) {
	h := NewPlacesHandler(service, data)

	router.Get("/", h.List)
	router.Get("/:keyword/:location", h.ListBySlug)
}

// PageMeta 키워드/지역 페이지 메타 정보
type PageMeta struct {
	Keyword       string `json:"keyword"`
	City          string `json:"city"`
	State         string `json:"state"`
	Title         string `json:"title"`
	H1            string `json:"h1"`
	Description   string `json:"description"`
	CanonicalPath string `json:"canonical_path"`
}

// SlugPlacesResponse 페이지 메타 + 결과
type SlugPlacesResponse struct {
	*services.PlacesResponse
	Meta PageMeta `json:"meta"`
}

// List handles GET /v1/places?keyword=&city=&state=&page=&limit=&lat=&lng=
func (h *PlacesHandler) List(c *fiber.Ctx) error {
	q, err := parsePaging(c)
	if err != nil {
		return err
	}
	q.Keyword = c.Query("keyword")
	q.City = c.Query("city")
	q.State = c.Query("state")

	return h.respond(c, q, nil)
}

// ListBySlug handles GET /v1/places/:keyword/:location
func (h *PlacesHandler) ListBySlug(c *fiber.Ctx) error {
	kw, err := h.data.FindKeyword(c.Params("keyword"))
	if err != nil {
		return notFound(err)
	}
	loc, err := h.data.FindLocation(c.Params("location"))
	if err != nil {
		return notFound(err)
	}

	q, err := parsePaging(c)
	if err != nil {
		return err
	}
	q.Keyword = kw.Keyword
	q.City = loc.City
	q.State = loc.State

	meta := &PageMeta{
		Keyword:       kw.Keyword,
		City:          loc.City,
		State:         loc.State,
		Title:         dataset.PageTitle(kw.Keyword, loc.City, loc.State),
		H1:            dataset.H1Title(kw.Keyword, loc.City, loc.State),
		Description:   dataset.MetaDescription(kw.Keyword, loc.City, loc.State),
		CanonicalPath: dataset.CanonicalPath(kw.Keyword, loc.City, loc.State),
	}
	return h.respond(c, q, meta)
}

func (h *PlacesHandler) respond(c *fiber.Ctx, q services.PlacesQuery, meta *PageMeta) error {
	resp, err := h.service.GetPlaces(c.UserContext(), q)
	if err != nil {
		return err
	}
	if resp.Unavailable {
		middleware.RecordUnavailable()
	}

	if meta != nil {
		return c.JSON(SlugPlacesResponse{PlacesResponse: resp, Meta: *meta})
	}
	return c.JSON(resp)
}

func notFound(err error) error {
	if errors.Is(err, dataset.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	}
	return err
}

// parsePaging reads page, limit and the optional lat/lng pair. Malformed
// numbers are reported as validation errors rather than silently defaulted.
func parsePaging(c *fiber.Ctx) (services.PlacesQuery, error) {
	var q services.PlacesQuery
	fields := map[string]string{}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["page"] = "must be an integer"
		}
		q.Page = n
	}
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			fields["limit"] = "must be an integer"
		}
		q.Limit = n
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" || lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		switch {
		case latErr != nil || lat < -90 || lat > 90:
			fields["lat"] = "must be a latitude between -90 and 90"
		case lngErr != nil || lng < -180 || lng > 180:
			fields["lng"] = "must be a longitude between -180 and 180"
		default:
			q.UserLocation = &places.LatLng{Lat: lat, Lng: lng}
		}
	}

	if len(fields) > 0 {
		return q, &services.ValidationError{Fields: fields}
	}
	return q, nil
}
