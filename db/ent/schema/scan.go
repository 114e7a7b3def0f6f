package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/google/uuid"
)

// Scan is one processed capture: the flattened OCR text, the extracted record
// and the compliance verdict when validation ran.
type Scan struct{ ent.Schema }

func (Scan) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "scans"},
	}
}

func (Scan) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).Default(uuid.New).Immutable(),
		field.UUID("user_id", uuid.UUID{}).Optional().Nillable(),
		field.String("kind").NotEmpty(),
		field.Text("raw_text"),
		field.JSON("parsed", map[string]any{}).Optional(),
		field.String("verdict").Optional().
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.Time("created_at").Default(time.Now),
	}
}

func (Scan) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("user", User.Type).
			Ref("scans").
			Field("user_id").
			Unique(),
	}
}

func (Scan) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("created_at"),
		index.Fields("user_id", "created_at"),
	}
}
