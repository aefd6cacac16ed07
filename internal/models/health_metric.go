package models

import "time"

// Metric types recorded by the app or synced from device health kits
const (
	MetricTypeSteps         = "steps"
	MetricTypeHeartRate     = "heart_rate"
	MetricTypeBloodPressure = "blood_pressure"
	MetricTypeBloodOxygen   = "blood_oxygen"
	MetricTypeGlucose       = "glucose"
	MetricTypeSleep         = "sleep"
)

var MetricTypes = []string{
	MetricTypeSteps,
	MetricTypeHeartRate,
	MetricTypeBloodPressure,
	MetricTypeBloodOxygen,
	MetricTypeGlucose,
	MetricTypeSleep,
}

// HealthMetric is one reading. Value is a string so composite readings
// like blood pressure ("120/80") share the shape of scalar ones.
type HealthMetric struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	MetricType string    `json:"metric_type"`
	Value      string    `json:"value"`
	Unit       string    `json:"unit"`
	Notes      string    `json:"notes,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ValidMetricType reports whether t is a known metric type.
func ValidMetricType(t string) bool {
	for _, mt := range MetricTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// CreateHealthMetricRequest for recording a reading
type CreateHealthMetricRequest struct {
	MetricType string     `json:"metric_type"`
	Value      string     `json:"value"`
	Unit       string     `json:"unit"`
	Notes      string     `json:"notes,omitempty"`
	RecordedAt *time.Time `json:"recorded_at,omitempty"`
}

// HealthMetricFilter narrows metric queries
type HealthMetricFilter struct {
	MetricType string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// DailyActivity aggregates a day's readings for the dashboard
type DailyActivity struct {
	Date         string  `json:"date"`
	Steps        int     `json:"steps"`
	AvgHeartRate float64 `json:"avg_heart_rate"`
	Readings     int     `json:"readings"`
}
