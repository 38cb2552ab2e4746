package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"sermap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	segmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Segment",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.Int},
			"zone":         &graphql.Field{Type: graphql.String},
			"spots":        &graphql.Field{Type: graphql.Int},
			"battery_line": &graphql.Field{Type: graphql.String},
			"centroid":     &graphql.Field{Type: geoPointType},
		},
	})

	rankedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedSegment",
		Fields: graphql.Fields{
			"segment":    &graphql.Field{Type: segmentType},
			"distance_m": &graphql.Field{Type: graphql.Float},
		},
	})

	streetType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Street",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"name":     &graphql.Field{Type: graphql.String},
			"via_type": &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	searchResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchResult",
		Fields: graphql.Fields{
			"status":       &graphql.Field{Type: graphql.String},
			"query":        &graphql.Field{Type: graphql.String},
			"display_name": &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"results":      &graphql.Field{Type: graphql.NewList(rankedType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"nearestSegments": &graphql.Field{
				Type:        graphql.NewList(rankedType),
				Description: "Rank parking segments of a zone by distance from a point",
				Args: graphql.FieldConfigArgument{
					"lat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"zone":  &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					zone := domain.Zone(p.Args["zone"].(string))
					limit := p.Args["limit"].(int)
					return deps.Parking.Nearest(p.Context, lat, lon, zone, limit)
				},
			},
			"inRegulatedArea": &graphql.Field{
				Type:        graphql.Boolean,
				Description: "Whether a point falls inside the SER regulated area",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					return deps.Parking.InRegulatedArea(p.Context, lat, lon)
				},
			},
			"segment": &graphql.Field{
				Type:        segmentType,
				Description: "Get a segment by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(int)
					return deps.Parking.Segment(p.Context, int64(id))
				},
			},
			"search": &graphql.Field{
				Type:        searchResultType,
				Description: "Address search: geocode, membership check, ranked segments",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Search.Search(p.Context, q, limit)
				},
			},
			"searchStreets": &graphql.Field{
				Type:        graphql.NewList(streetType),
				Description: "Search the street gazetteer (fuzzy matching)",
				Args: graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["query"].(string)
					limit := p.Args["limit"].(int)
					return deps.Streets.Search(p.Context, q, limit)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
