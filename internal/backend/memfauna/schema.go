package memfauna

import (
	"github.com/graphql-go/graphql"
)

// buildSchema mirrors the schema Fauna generates for:
//
//	type Task { title: String! completed: Boolean }
//	type Query { allTasks: [Task!] }
func (s *Server) buildSchema() (graphql.Schema, error) {
	taskType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Task",
		Fields: graphql.Fields{
			"_id":       &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"completed": &graphql.Field{Type: graphql.Boolean},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "TaskPage",
		Fields: graphql.Fields{
			"data": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(taskType))},
			"after": &graphql.Field{
				Type:    graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) { return nil, nil },
			},
			"before": &graphql.Field{
				Type:    graphql.String,
				Resolve: func(graphql.ResolveParams) (any, error) { return nil, nil },
			},
		},
	})

	taskInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "TaskInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"completed": &graphql.InputObjectFieldConfig{Type: graphql.Boolean},
		},
	})

	idArg := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"allTasks": &graphql.Field{
				Type: graphql.NewNonNull(pageType),
				Args: graphql.FieldConfigArgument{
					"_size":   &graphql.ArgumentConfig{Type: graphql.Int},
					"_cursor": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return map[string]any{"data": s.all()}, nil
				},
			},
			"findTaskByID": &graphql.Field{
				Type: taskType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					return s.find(id)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createTask": &graphql.Field{
				Type: graphql.NewNonNull(taskType),
				Args: graphql.FieldConfigArgument{
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					data, _ := p.Args["data"].(map[string]any)
					return s.create(data)
				},
			},
			"updateTask": &graphql.Field{
				Type: taskType,
				Args: graphql.FieldConfigArgument{
					"id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"data": &graphql.ArgumentConfig{Type: graphql.NewNonNull(taskInput)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					data, _ := p.Args["data"].(map[string]any)
					return s.update(id, data)
				},
			},
			"deleteTask": &graphql.Field{
				Type: taskType,
				Args: idArg,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(string)
					return s.remove(id)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
