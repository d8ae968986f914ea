// Package schema is the read-only GraphQL view of the gateway.
package schema

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/app/resources"
	"github.com/shashiranjanraj/souqhup/app/services"
	gql "github.com/shashiranjanraj/souqhup/pkg/graphql"
	"github.com/shashiranjanraj/souqhup/pkg/resource"
	"github.com/shashiranjanraj/souqhup/pkg/session"
)

// Deps are the services the resolvers read.
type Deps struct {
	Sessions *services.SessionService
	Flags    *services.FlagService
	View     *services.ViewService
	Catalog  *services.Catalog
	Ledger   *services.Ledger
}

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"title":         &graphql.Field{Type: graphql.String},
		"type":          &graphql.Field{Type: graphql.String},
		"date":          &graphql.Field{Type: graphql.String},
		"views":         &graphql.Field{Type: graphql.Int},
		"interactions":  &graphql.Field{Type: graphql.Int},
		"thumbnail":     &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.String},
		"capacity":      &graphql.Field{Type: graphql.String},
		"merchant_name": &graphql.Field{Type: graphql.String},
		"download_name": &graphql.Field{Type: graphql.String},
		"liked":         &graphql.Field{Type: graphql.Boolean},
		"favorited":     &graphql.Field{Type: graphql.Boolean},
		"trending":      &graphql.Field{Type: graphql.Boolean},
	},
})

var flagType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Flag",
	Fields: graphql.Fields{
		"service":   &graphql.Field{Type: graphql.String},
		"slug":      &graphql.Field{Type: graphql.String},
		"enabled":   &graphql.Field{Type: graphql.Boolean},
		"protected": &graphql.Field{Type: graphql.Boolean},
	},
})

var ledgerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Ledger",
	Fields: graphql.Fields{
		"liked":     &graphql.Field{Type: graphql.NewList(graphql.String)},
		"favorited": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"trending":  &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

// New builds the schema over d.
func New(d Deps) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"view": &graphql.Field{
				Type:        gql.JSON,
				Description: "The resolved view of the calling device.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return d.View.Resolve(p.Context, session.DeviceID(p.Context))
				},
			},
			"menu": &graphql.Field{
				Type:        gql.JSON,
				Description: "Menu entries of the calling device's shell.",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					v, err := d.View.Resolve(p.Context, session.DeviceID(p.Context))
					if err != nil {
						return nil, err
					}
					return v.Menu, nil
				},
			},
			"flags": &graphql.Field{
				Type: graphql.NewList(flagType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					flags := d.Flags.List()
					out := make([]map[string]interface{}, len(flags))
					for i, f := range flags {
						out[i] = map[string]interface{}{
							"service": string(f.Service), "slug": f.Slug,
							"enabled": f.Enabled, "protected": f.Protected,
						}
					}
					return out, nil
				},
			},
			"ledger": &graphql.Field{
				Type: ledgerType,
				Resolve: func(graphql.ResolveParams) (interface{}, error) {
					s := d.Ledger.Snapshot()
					return map[string]interface{}{"liked": s.Liked, "favorited": s.Favorited, "trending": s.Trending}, nil
				},
			},
			"posts": &graphql.Field{
				Type:        graphql.NewList(postType),
				Description: "Posts of a feed page the calling device may open.",
				Args: graphql.FieldConfigArgument{
					"service": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"type":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return d.posts(p)
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func (d Deps) posts(p graphql.ResolveParams) (interface{}, error) {
	state, err := d.Sessions.State(p.Context, session.DeviceID(p.Context))
	if err != nil {
		return nil, err
	}
	if !state.LoggedIn {
		return nil, services.ErrNotAuthenticated
	}

	raw, _ := p.Args["service"].(string)
	svc, err := models.ParseService(raw)
	if err != nil {
		return nil, err
	}
	if err := services.Authorize(state, d.Flags, svc); err != nil {
		return nil, err
	}

	var filter models.MediaType
	if t, _ := p.Args["type"].(string); t != "" {
		if filter, err = models.ParseMediaType(t); err != nil {
			return nil, errors.New("invalid media type")
		}
	}

	posts, err := d.Catalog.Feed(svc, state, filter)
	if err != nil {
		return nil, err
	}
	items := resource.CollectionOf[models.Post](resources.PostResource{Ledger: d.Ledger}, posts).Items()
	out := make([]map[string]interface{}, len(items))
	for i, m := range items {
		out[i] = m
		out[i]["type"] = string(posts[i].Type)
	}
	return out, nil
}
