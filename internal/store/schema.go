package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions applied by the auto-migration in Open.

var (
	// ClimbsColumns holds the append-only climb table. The autoincrement id
	// preserves insertion order.
	ClimbsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "row_id", Type: field.TypeString, Unique: true},
		{Name: "discipline", Type: field.TypeString},
		{Name: "grade", Type: field.TypeString},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "name", Type: field.TypeString, Default: ""},
		{Name: "area", Type: field.TypeString, Default: ""},
		{Name: "session", Type: field.TypeString, Default: ""},
	}
	ClimbsTable = &schema.Table{
		Name:       "climbs",
		Columns:    ClimbsColumns,
		PrimaryKey: []*schema.Column{ClimbsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "climb_session_id", Columns: []*schema.Column{ClimbsColumns[5]}},
			{Name: "climb_name", Columns: []*schema.Column{ClimbsColumns[6]}},
		},
	}

	// DraftsColumns holds the key-value mirror of in-progress state.
	DraftsColumns = []*schema.Column{
		{Name: "key", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeBytes},
		{Name: "updated_at", Type: field.TypeTime},
	}
	DraftsTable = &schema.Table{
		Name:       "drafts",
		Columns:    DraftsColumns,
		PrimaryKey: []*schema.Column{DraftsColumns[0]},
	}

	// SessionEventsColumns holds recorder lifecycle events.
	SessionEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "action", Type: field.TypeString},
		{Name: "climber", Type: field.TypeString, Default: ""},
		{Name: "discipline", Type: field.TypeString, Default: ""},
		{Name: "climbs", Type: field.TypeInt, Default: 0},
		{Name: "label", Type: field.TypeString, Default: ""},
	}
	SessionEventsTable = &schema.Table{
		Name:       "session_events",
		Columns:    SessionEventsColumns,
		PrimaryKey: []*schema.Column{SessionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "sessionevent_timestamp", Columns: []*schema.Column{SessionEventsColumns[2]}},
			{Name: "sessionevent_action", Columns: []*schema.Column{SessionEventsColumns[4]}},
		},
	}

	// LLMRequestEventsColumns holds one row per LLM API call.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LLMRequestEventsColumns[9]}},
		},
	}

	// Tables lists every table in migration order.
	Tables = []*schema.Table{
		ClimbsTable,
		DraftsTable,
		SessionEventsTable,
		LLMRequestEventsTable,
	}
)
