package http

import (
	"errors"
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"sermap/internal/core/domain"
	"sermap/internal/core/usecases"
	"sermap/internal/pkg/metrics"
)

// rankedResponse is a RankedSegment enriched with the walking time a
// presenter derives from the distance. Walk time is never stored.
type rankedResponse struct {
	Segment     *domain.Segment `json:"segment"`
	DistanceM   float64         `json:"distance_m"`
	WalkMinutes float64         `json:"walk_minutes"`
}

func (deps *Dependencies) rankedResponses(ranked []domain.RankedSegment) []rankedResponse {
	out := make([]rankedResponse, len(ranked))
	for i, r := range ranked {
		out[i] = rankedResponse{
			Segment:     r.Segment,
			DistanceM:   math.Round(r.DistanceM*10) / 10,
			WalkMinutes: math.Round(r.DistanceM/deps.WalkSpeed*10) / 10,
		}
	}
	return out
}

// svcError maps usecase errors onto the API error envelope.
func svcError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecases.ErrNotLoaded):
		return errUnavailable(c, "dataset not loaded yet")
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return errBadRequest(c, err.Error())
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "error", err)
		return errInternal(c, err.Error())
	}
}

// ZonesHandler lists the zone categories with their map styles and
// per-zone totals from the loaded dataset.
func ZonesHandler(deps *Dependencies) fiber.Handler {
	styles := domain.DefaultStyles()

	return func(c *fiber.Ctx) error {
		stats, err := deps.Parking.Stats(c.Context())
		if err != nil {
			return svcError(c, err)
		}

		type zoneResp struct {
			Zone       domain.Zone      `json:"zone"`
			Style      domain.ZoneStyle `json:"style"`
			Segments   int              `json:"segments"`
			TotalSpots int              `json:"total_spots"`
		}

		zones := make([]zoneResp, 0, len(stats.ByZone))
		for _, zs := range stats.ByZone {
			zones = append(zones, zoneResp{
				Zone:       zs.Zone,
				Style:      styles.Style(zs.Zone),
				Segments:   zs.Segments,
				TotalSpots: zs.TotalSpots,
			})
		}

		return c.JSON(fiber.Map{"zones": zones})
	}
}

// ZoneSegmentsHandler lists the segments of one zone, paginated.
func ZoneSegmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zone := domain.ParseZone(c.Params("zone"))

		segments, err := deps.Parking.SegmentsByZone(c.Context(), zone)
		if err != nil {
			return svcError(c, err)
		}

		page, pg := paginate(c, segments, 100, 500)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetSegmentHandler returns a single segment by numeric ID.
func GetSegmentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return errBadRequest(c, "segment id must be an integer")
		}
		segment, err := deps.Parking.Segment(c.Context(), id)
		if err != nil {
			return svcError(c, err)
		}
		return c.JSON(segment)
	}
}

// NearestSegmentsHandler ranks segments of one zone by distance from a point.
func NearestSegmentsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}

		zone := domain.Zone(c.Query("zone"))
		limit := c.QueryInt("limit", 0)

		ranked, err := deps.Parking.Nearest(c.Context(), lat, lon, zone, limit)
		if err != nil {
			return svcError(c, err)
		}
		if zone == "" {
			zone = deps.Parking.DefaultZone()
		}
		metrics.NearestQueries.WithLabelValues(string(zone)).Inc()

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{
			"origin":  domain.GeoPoint{Lat: lat, Lon: lon},
			"zone":    zone,
			"results": deps.rankedResponses(ranked),
		})
	}
}

// CoverageHandler reports whether a point falls inside the regulated area.
func CoverageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat == 0 && lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}

		inside, err := deps.Parking.InRegulatedArea(c.Context(), lat, lon)
		if err != nil {
			return svcError(c, err)
		}
		metrics.MembershipChecks.Inc()

		return c.JSON(fiber.Map{
			"point":     domain.GeoPoint{Lat: lat, Lon: lon},
			"regulated": inside,
		})
	}
}

// BoundariesHandler returns the SER boundary outlines.
func BoundariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boundaries, err := deps.Parking.Boundaries(c.Context())
		if err != nil {
			return svcError(c, err)
		}
		return c.JSON(fiber.Map{"boundaries": boundaries})
	}
}

// SearchHandler runs the address-search flow. The response always carries a
// status: not_found, outside_ser, or ok.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 0)

		result, err := deps.Search.Search(c.Context(), query, limit)
		if err != nil {
			return svcError(c, err)
		}
		metrics.SearchesTotal.WithLabelValues(string(result.Status)).Inc()

		return c.JSON(fiber.Map{
			"status":       result.Status,
			"query":        result.Query,
			"display_name": result.DisplayName,
			"location":     result.Location,
			"results":      deps.rankedResponses(result.Results),
		})
	}
}

// SearchStreetsHandler performs fuzzy search on the street gazetteer.
func SearchStreetsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 20)

		streets, err := deps.Streets.Search(c.Context(), query, limit)
		if err != nil {
			LoggerFromCtx(c.UserContext()).Error("street search failed", "query", query, "error", err)
			return errInternal(c, err.Error())
		}
		return c.JSON(fiber.Map{"streets": streets})
	}
}

// StatsHandler aggregates the loaded dataset.
func StatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := deps.Parking.Stats(c.Context())
		if err != nil {
			return svcError(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(stats)
	}
}

// MapPageHandler renders the interactive Leaflet map from the loaded dataset.
func MapPageHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var segments []*domain.Segment
		for _, zone := range domain.Zones() {
			zs, err := deps.Parking.SegmentsByZone(c.Context(), zone)
			if err != nil {
				return svcError(c, err)
			}
			segments = append(segments, zs...)
		}
		boundaries, err := deps.Parking.Boundaries(c.Context())
		if err != nil {
			return svcError(c, err)
		}

		page, err := deps.Map.Render(segments, boundaries)
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.Send(page)
	}
}
