// Package schema provides database schema models for wfdb.
package schema

import (
	"time"
)

// DDLGenerator defines how Go models generate DDL for backends that do
// not use GORM migrations.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Dataset is a single population run. It is created before any
// observation is stored and completed once after all checkpoints were
// attempted.
type Dataset struct {
	// ID is a random UUID of the run.
	ID string `db:"id" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:uuid"`

	// Name is given by the user, it does not have to be unique.
	Name string `db:"name" ddl:"TEXT NOT NULL" gorm:"type:varchar(255);not null"`

	// RowCount is the number of observations inserted by the run.
	// It stays 0 until the run is completed.
	RowCount int64 `db:"row_count" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// BacktrackDays is the warm-up period of fire indices.
	BacktrackDays int `db:"backtrack_days" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// IntervalSize is the length of independent fire index intervals,
	// 0 for a single interval.
	IntervalSize int `db:"interval_size" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// Bounding box and dates of the run.
	LatMin    float64   `db:"lat_min" ddl:"DOUBLE PRECISION NOT NULL"`
	LatMax    float64   `db:"lat_max" ddl:"DOUBLE PRECISION NOT NULL"`
	LngMin    float64   `db:"lng_min" ddl:"DOUBLE PRECISION NOT NULL"`
	LngMax    float64   `db:"lng_max" ddl:"DOUBLE PRECISION NOT NULL"`
	StartDate time.Time `db:"start_date" ddl:"TEXT NOT NULL" gorm:"type:date;not null"`
	EndDate   time.Time `db:"end_date" ddl:"TEXT NOT NULL" gorm:"type:date;not null"`

	// Checkpoints is the number of checkpoints of the run.
	Checkpoints int `db:"checkpoints" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	// FailedCheckpoints counts checkpoints that did not store their rows.
	// A completed dataset with failed checkpoints is partial.
	FailedCheckpoints int `db:"failed_checkpoints" ddl:"INTEGER NOT NULL DEFAULT 0" gorm:"not null;default:0"`

	CreatedAt time.Time `db:"created_at" ddl:"TEXT NOT NULL" gorm:"not null"`

	// CompletedAt is NULL while the run is populating.
	CompletedAt *time.Time `db:"completed_at" ddl:"TEXT"`
}

// Observation is the fused data of one grid cell for one day.
// Burned area and emissions are NULL when there was no raster value for
// the cell and day.
type Observation struct {
	Latitude  float64   `db:"latitude" ddl:"DOUBLE PRECISION NOT NULL" gorm:"primaryKey;autoIncrement:false"`
	Longitude float64   `db:"longitude" ddl:"DOUBLE PRECISION NOT NULL" gorm:"primaryKey;autoIncrement:false"`
	Date      time.Time `db:"date" ddl:"TEXT NOT NULL" gorm:"primaryKey;type:date"`
	DatasetID string    `db:"dataset_id" ddl:"TEXT NOT NULL REFERENCES datasets(id)" gorm:"primaryKey;type:uuid;index"`

	Temperature   float64 `db:"temperature" ddl:"DOUBLE PRECISION"`
	Precipitation float64 `db:"precipitation" ddl:"DOUBLE PRECISION"`
	Humidity      float64 `db:"humidity" ddl:"DOUBLE PRECISION"`
	WindSpeed     float64 `db:"wind_speed" ddl:"DOUBLE PRECISION"`

	FFMC float64 `db:"ffmc" ddl:"DOUBLE PRECISION" gorm:"column:ffmc"`
	DMC  float64 `db:"dmc" ddl:"DOUBLE PRECISION" gorm:"column:dmc"`
	DC   float64 `db:"dc" ddl:"DOUBLE PRECISION" gorm:"column:dc"`
	ISI  float64 `db:"isi" ddl:"DOUBLE PRECISION" gorm:"column:isi"`
	BUI  float64 `db:"bui" ddl:"DOUBLE PRECISION" gorm:"column:bui"`
	FWI  float64 `db:"fwi" ddl:"DOUBLE PRECISION" gorm:"column:fwi"`

	BurnedArea         *float64 `db:"burned_area" ddl:"DOUBLE PRECISION"`
	FireCarbonEmission *float64 `db:"fire_carbon_emission" ddl:"DOUBLE PRECISION"`
	Burnt              bool     `db:"burnt" ddl:"BOOLEAN NOT NULL DEFAULT FALSE" gorm:"not null;default:false"`
}

// Columns lists column names of Observation in the order of Values.
func (o Observation) Columns() []string {
	return observationColumns
}

// Values returns column values in the order of Columns. Dates are
// passed as time.Time, drivers that store them as text format them.
func (o Observation) Values() []any {
	return []any{
		o.Latitude, o.Longitude, o.Date, o.DatasetID,
		o.Temperature, o.Precipitation, o.Humidity, o.WindSpeed,
		o.FFMC, o.DMC, o.DC, o.ISI, o.BUI, o.FWI,
		o.BurnedArea, o.FireCarbonEmission, o.Burnt,
	}
}
