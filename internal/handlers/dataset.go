package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ggorockee/localdirectory/internal/dataset"
	"github.com/ggorockee/localdirectory/internal/logger"
	"github.com/ggorockee/localdirectory/internal/seo"
)

type DatasetHandler struct {
	data    *dataset.Dataset
	siteURL string
}

func NewDatasetHandler(data *dataset.Dataset, siteURL string) *DatasetHandler {
	return &DatasetHandler{data: data, siteURL: siteURL}
}

// SetupDatasetRoutes /v1/keywords, /v1/locations
func SetupDatasetRoutes(router fiber.Router, data *dataset.Dataset, siteURL string) {
	h := NewDatasetHandler(data, siteURL)

	router.Get("/keywords", h.Keywords)
	router.Get("/locations", h.Locations)
	router.Get("/paths", h.Paths)
}

// SetupSEORoutes 루트 경로의 sitemap.xml, robots.txt
func SetupSEORoutes(app fiber.Router, data *dataset.Dataset, siteURL string) {
	h := NewDatasetHandler(data, siteURL)

	app.Get("/sitemap.xml", h.Sitemap)
	app.Get("/robots.txt", h.Robots)
}

func (h *DatasetHandler) Keywords(c *fiber.Ctx) error {
	return c.JSON(nonNil(h.data.Keywords))
}

func (h *DatasetHandler) Locations(c *fiber.Ctx) error {
	return c.JSON(nonNil(h.data.Locations))
}

// Paths 정적 페이지 경로 목록
func (h *DatasetHandler) Paths(c *fiber.Ctx) error {
	return c.JSON(h.data.StaticPaths())
}

func (h *DatasetHandler) Sitemap(c *fiber.Ctx) error {
	body, err := seo.Sitemap(seo.URLs(h.siteURL, h.data, time.Now()))
	if err != nil {
		logger.GetLogger("seo").Errorf("Error generating sitemap: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error generating sitemap")
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600, s-maxage=3600")
	return c.Send(body)
}

func (h *DatasetHandler) Robots(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(seo.Robots(h.siteURL))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
