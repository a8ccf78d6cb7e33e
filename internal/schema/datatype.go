package schema

import "fmt"

// DataType is the storage/display type of a field. Virtual fields are
// computed at query time and never persisted.
type DataType string

const (
	TypeString    DataType = "string"
	TypeInt       DataType = "int"
	TypeFloat     DataType = "float"
	TypeBool      DataType = "bool"
	TypeDate      DataType = "date"
	TypeTimestamp DataType = "timestamp"
	TypeUnixtime  DataType = "unixtime"
	TypeVirtual   DataType = "virtual"
)

var knownTypes = map[DataType]bool{
	TypeString:    true,
	TypeInt:       true,
	TypeFloat:     true,
	TypeBool:      true,
	TypeDate:      true,
	TypeTimestamp: true,
	TypeUnixtime:  true,
	TypeVirtual:   true,
}

// Valid reports whether t is one of the supported data types.
func (t DataType) Valid() bool {
	return knownTypes[t]
}

// Action is one of the five screens an entity can expose.
type Action string

const (
	ActionList   Action = "list"
	ActionShow   Action = "show"
	ActionNew    Action = "new"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

var knownActions = map[Action]bool{
	ActionList:   true,
	ActionShow:   true,
	ActionNew:    true,
	ActionEdit:   true,
	ActionDelete: true,
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	return knownActions[a]
}

// ConfigError marks a self-inconsistent schema. It is raised at definition
// time or on first use and is never recovered.
type ConfigError struct {
	Entity string
	Field  string
	Msg    string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Entity != "" && e.Field != "":
		return fmt.Sprintf("schema: entity %s, field %s: %s", e.Entity, e.Field, e.Msg)
	case e.Entity != "":
		return fmt.Sprintf("schema: entity %s: %s", e.Entity, e.Msg)
	default:
		return "schema: " + e.Msg
	}
}

func configErr(entity, field, format string, args ...any) *ConfigError {
	return &ConfigError{Entity: entity, Field: field, Msg: fmt.Sprintf(format, args...)}
}
