package schema

import (
	"fmt"
	"reflect"
	"strings"
)

var observationColumns = columnNames(Observation{})

// columnNames reads db tags of a model in field order.
func columnNames(model any) []string {
	t := reflect.TypeOf(model)
	res := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		if tag := t.Field(i).Tag.Get("db"); tag != "" {
			res = append(res, tag)
		}
	}
	return res
}

// generateDDL creates a CREATE TABLE statement from struct tags.
// Extra table constraints are appended after the columns.
func generateDDL(model any, tableName string, constraints ...string) string {
	v := reflect.ValueOf(model)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	var columns []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		dbTag := field.Tag.Get("db")
		ddlTag := field.Tag.Get("ddl")

		if dbTag != "" && ddlTag != "" {
			columns = append(columns, fmt.Sprintf("    %s %s", dbTag, ddlTag))
		}
	}
	for _, c := range constraints {
		columns = append(columns, "    "+c)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);",
		tableName,
		strings.Join(columns, ",\n"))

	return ddl
}

// Dataset DDL methods
func (d Dataset) TableDDL() string {
	return generateDDL(d, "datasets")
}

func (d Dataset) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_datasets_name ON datasets(name);",
	}
}

func (d Dataset) TableName() string {
	return "datasets"
}

// Observation DDL methods
func (o Observation) TableDDL() string {
	return generateDDL(o, "observations",
		"PRIMARY KEY (latitude, longitude, date, dataset_id)")
}

func (o Observation) IndexDDL() []string {
	return []string{
		"CREATE INDEX IF NOT EXISTS idx_observations_dataset_id ON observations(dataset_id);",
	}
}

func (o Observation) TableName() string {
	return "observations"
}
