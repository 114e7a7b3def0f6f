package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/google/uuid"
)

// Domain is one customer organization, keyed by the email host its operators
// sign in with.
type Domain struct{ ent.Schema }

func (Domain) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "domains"},
	}
}

func (Domain) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.String("name").NotEmpty().Unique().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Time("created_at").Default(time.Now),
	}
}

func (Domain) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("users", User.Type),
	}
}
