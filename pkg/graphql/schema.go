// Package graphql exposes the keyword graph and layout state over a
// typed GraphQL schema. Resolvers read live session state, so every
// query sees the most recent rebuild.
package graphql

import (
	"fmt"

	"github.com/dd0wney/keygraph/pkg/community"
	"github.com/dd0wney/keygraph/pkg/graph"
	"github.com/dd0wney/keygraph/pkg/keywords"
	"github.com/dd0wney/keygraph/pkg/layout"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/validation"
	"github.com/graphql-go/graphql"
)

// graphView is what the graph query resolves to: positioned nodes plus
// the underlying links
type graphView struct {
	Nodes []layout.NodeSnapshot
	Links []*graph.Link
}

// layoutView is what the layout query resolves to
type layoutView struct {
	Phase   string
	Alpha   float64
	Tick    int
	Variant string
}

// BuildSchema builds the GraphQL schema over a pipeline session
func BuildSchema(session *pipeline.Session) (graphql.Schema, error) {
	connectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Connection",
		Fields: graphql.Fields{
			"keyword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(keywords.Connection); ok {
						return c.Keyword, nil
					}
					return nil, nil
				},
			},
			"strength": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(keywords.Connection); ok {
						return c.Strength, nil
					}
					return nil, nil
				},
			},
		},
	})

	statType := graphql.NewObject(graphql.ObjectConfig{
		Name: "KeywordStat",
		Fields: graphql.Fields{
			"keyword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(keywords.KeywordStat); ok {
						return s.Keyword, nil
					}
					return nil, nil
				},
			},
			"count": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(keywords.KeywordStat); ok {
						return s.Count, nil
					}
					return nil, nil
				},
			},
			"percentage": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(keywords.KeywordStat); ok {
						return s.Percentage, nil
					}
					return nil, nil
				},
			},
			"connections": &graphql.Field{
				Type: graphql.NewList(connectionType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if s, ok := p.Source.(keywords.KeywordStat); ok {
						return s.Connections, nil
					}
					return nil, nil
				},
			},
		},
	})

	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.ID, nil
					}
					return nil, nil
				},
			},
			"count": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.Count, nil
					}
					return nil, nil
				},
			},
			"community": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.Community, nil
					}
					return nil, nil
				},
			},
			"x": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.X, nil
					}
					return nil, nil
				},
			},
			"y": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.Y, nil
					}
					return nil, nil
				},
			},
			"radius": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.Radius, nil
					}
					return nil, nil
				},
			},
			"pinned": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if n, ok := p.Source.(layout.NodeSnapshot); ok {
						return n.Pinned, nil
					}
					return nil, nil
				},
			},
		},
	})

	linkType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Link",
		Fields: graphql.Fields{
			"source": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(*graph.Link); ok {
						return l.Source, nil
					}
					return nil, nil
				},
			},
			"target": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(*graph.Link); ok {
						return l.Target, nil
					}
					return nil, nil
				},
			},
			"value": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(*graph.Link); ok {
						return l.Value, nil
					}
					return nil, nil
				},
			},
		},
	})

	graphType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Graph",
		Fields: graphql.Fields{
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if g, ok := p.Source.(graphView); ok {
						return g.Nodes, nil
					}
					return nil, nil
				},
			},
			"links": &graphql.Field{
				Type: graphql.NewList(linkType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if g, ok := p.Source.(graphView); ok {
						return g.Links, nil
					}
					return nil, nil
				},
			},
		},
	})

	communityType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Community",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*community.Community); ok {
						return c.ID, nil
					}
					return nil, nil
				},
			},
			"size": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*community.Community); ok {
						return c.Size, nil
					}
					return nil, nil
				},
			},
			"density": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*community.Community); ok {
						return c.Density, nil
					}
					return nil, nil
				},
			},
			"keywords": &graphql.Field{
				Type: graphql.NewList(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if c, ok := p.Source.(*community.Community); ok {
						return c.Keywords, nil
					}
					return nil, nil
				},
			},
		},
	})

	layoutType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Layout",
		Fields: graphql.Fields{
			"phase": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(layoutView); ok {
						return l.Phase, nil
					}
					return nil, nil
				},
			},
			"alpha": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Float),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(layoutView); ok {
						return l.Alpha, nil
					}
					return nil, nil
				},
			},
			"tick": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Int),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(layoutView); ok {
						return l.Tick, nil
					}
					return nil, nil
				},
			},
			"variant": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if l, ok := p.Source.(layoutView); ok {
						return l.Variant, nil
					}
					return nil, nil
				},
			},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "ok", nil
				},
			},
			"stats": &graphql.Field{
				Type: graphql.NewList(statType),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{
						Type: graphql.Int,
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					stats := session.Stats()
					if limit, ok := p.Args["limit"].(int); ok {
						limit = validation.ClampInt(limit, validation.MinNodes, validation.MaxNodes)
						if limit < len(stats) {
							stats = stats[:limit]
						}
					}
					return stats, nil
				},
			},
			"graph": &graphql.Field{
				Type: graphql.NewNonNull(graphType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return currentGraphView(session), nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.ID),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, ok := p.Args["id"].(string)
					if !ok {
						return nil, fmt.Errorf("id must be a string")
					}
					view := currentGraphView(session)
					for _, n := range view.Nodes {
						if n.ID == id {
							return n, nil
						}
					}
					return nil, nil
				},
			},
			"communities": &graphql.Field{
				Type: graphql.NewList(communityType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					result, err := session.Result()
					if err != nil {
						return []*community.Community{}, nil
					}
					return result.Communities.Communities, nil
				},
			},
			"layout": &graphql.Field{
				Type: layoutType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					snap, err := session.Snapshot()
					if err != nil {
						return nil, nil
					}
					return layoutView{
						Phase:   snap.Phase,
						Alpha:   snap.Alpha,
						Tick:    snap.Tick,
						Variant: snap.Variant,
					}, nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}

	return schema, nil
}

// currentGraphView assembles positioned nodes and links from the session.
// An unbuilt session resolves to an empty view, not an error.
func currentGraphView(session *pipeline.Session) graphView {
	view := graphView{
		Nodes: []layout.NodeSnapshot{},
		Links: []*graph.Link{},
	}

	snap, err := session.Snapshot()
	if err != nil {
		return view
	}
	view.Nodes = snap.Nodes

	if g := session.Graph(); g != nil {
		view.Links = g.Links
	}
	return view
}
