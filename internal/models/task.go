package models

import (
	"time"
)

// TaskStatus is the derived urgency of a maintenance task. It is recomputed
// on every read and never treated as ground truth, except for the
// replacement override which is driven by the persisted flag.
type TaskStatus string

const (
	StatusGood                 TaskStatus = "good"
	StatusDueSoon              TaskStatus = "due_soon"
	StatusOverdue              TaskStatus = "overdue"
	StatusReplacementRequested TaskStatus = "replacement_requested"
)

// TaskType identifies a kind of maintenance work.
type TaskType string

const (
	TaskOilChange    TaskType = "oil_change"
	TaskAirFilter    TaskType = "air_filter"
	TaskCabinFilter  TaskType = "cabin_filter"
	TaskCoolant      TaskType = "coolant"
	TaskBrakes       TaskType = "brakes"
	TaskBrakeFluid   TaskType = "brake_fluid"
	TaskBattery      TaskType = "battery"
	TaskTireRotation TaskType = "tire_rotation"
	TaskTransmission TaskType = "transmission"
	TaskSparkPlugs   TaskType = "spark_plugs"
	TaskInspection   TaskType = "inspection"
	TaskOther        TaskType = "other"
)

// TaskTypeInfo carries the display label and default service intervals for a
// task type. Defaults apply when a task is created without explicit intervals.
type TaskTypeInfo struct {
	Label                 string
	DefaultIntervalMiles  int
	DefaultIntervalMonths int
}

var taskTypeRegistry = map[TaskType]TaskTypeInfo{
	TaskOilChange:    {Label: "Oil Change", DefaultIntervalMiles: 5000, DefaultIntervalMonths: 6},
	TaskAirFilter:    {Label: "Air Filter", DefaultIntervalMiles: 15000, DefaultIntervalMonths: 12},
	TaskCabinFilter:  {Label: "Cabin Filter", DefaultIntervalMiles: 15000, DefaultIntervalMonths: 12},
	TaskCoolant:      {Label: "Coolant", DefaultIntervalMiles: 30000, DefaultIntervalMonths: 24},
	TaskBrakes:       {Label: "Brake Pads", DefaultIntervalMiles: 25000, DefaultIntervalMonths: 24},
	TaskBrakeFluid:   {Label: "Brake Fluid", DefaultIntervalMiles: 24000, DefaultIntervalMonths: 24},
	TaskBattery:      {Label: "Battery", DefaultIntervalMiles: 50000, DefaultIntervalMonths: 48},
	TaskTireRotation: {Label: "Tire Rotation", DefaultIntervalMiles: 7500, DefaultIntervalMonths: 6},
	TaskTransmission: {Label: "Transmission Fluid", DefaultIntervalMiles: 60000, DefaultIntervalMonths: 48},
	TaskSparkPlugs:   {Label: "Spark Plugs", DefaultIntervalMiles: 60000, DefaultIntervalMonths: 60},
	TaskInspection:   {Label: "Inspection", DefaultIntervalMiles: 12000, DefaultIntervalMonths: 12},
	TaskOther:        {Label: "Other", DefaultIntervalMiles: 5000, DefaultIntervalMonths: 6},
}

// IsValidTaskType checks if a task type is registered
func IsValidTaskType(t TaskType) bool {
	_, ok := taskTypeRegistry[t]
	return ok
}

// TaskTypeDefaults returns the registry entry for a task type.
func TaskTypeDefaults(t TaskType) (TaskTypeInfo, bool) {
	info, ok := taskTypeRegistry[t]
	return info, ok
}

// MaintenanceTask represents a recurring maintenance item for a car.
type MaintenanceTask struct {
	ID                   string    `bson:"id" json:"id"`
	CarID                string    `bson:"car_id" json:"car_id"`
	UserID               string    `bson:"user_id" json:"user_id"`
	TaskType             TaskType  `bson:"task_type" json:"task_type"`
	Description          string    `bson:"description,omitempty" json:"description,omitempty"`
	LastPerformedDate    time.Time `bson:"last_performed_date" json:"last_performed_date"`
	LastPerformedMileage int       `bson:"last_performed_mileage" json:"last_performed_mileage"` // in miles
	IntervalMiles        int       `bson:"interval_miles" json:"interval_miles"`
	IntervalMonths       int       `bson:"interval_months" json:"interval_months"`
	Cost                 float64   `bson:"cost,omitempty" json:"cost,omitempty"` // in USD
	Notes                string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ReplacementRequested bool      `bson:"replacement_requested" json:"replacement_requested"`
	ReplacementReason    string    `bson:"replacement_reason,omitempty" json:"replacement_reason,omitempty"`
	CreatedAt            time.Time `bson:"created_at" json:"created_at"`

	// Derived fields, recomputed against the car's current mileage and the
	// clock on every read.
	Status         TaskStatus `bson:"-" json:"status"`
	NextDueMileage int        `bson:"-" json:"next_due_mileage"`
	NextDueDate    time.Time  `bson:"-" json:"next_due_date"`
	NextDueLabel   string     `bson:"-" json:"next_due_label,omitempty"`
}
