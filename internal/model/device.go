package model

import "strings"

// Device statuses used by the factory presets. Status is free text at the
// storage level; these are just the conventional values.
const (
	StatusOn  = "ON"
	StatusOff = "OFF"
)

// Device represents an appliance with a power rating and usage time,
// optionally placed in one environment. EnvironmentID is the single owning
// side of the device/environment association; the environment's device list
// is always derived by query.
type Device struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	Kind          string  `gorm:"size:45" json:"kind"`
	Name          string  `gorm:"size:45;not null" json:"name"`
	Status        string  `gorm:"size:45" json:"status"`
	Active        int     `json:"active"`
	Power         int     `json:"power"`
	UsageTime     float64 `json:"usageTime"`
	EnvironmentID *int64  `gorm:"index" json:"environmentId"`

	// Associations
	Environment *Environment `gorm:"foreignKey:EnvironmentID" json:"-"`
}

func newPreset(kind, name string, power int, status string) *Device {
	return &Device{
		Kind:   kind,
		Name:   name,
		Power:  power,
		Status: status,
		Active: 1,
	}
}

// NewLamp builds a lamp device with the standard initial state.
func NewLamp(name string, power int) *Device {
	return newPreset("LAMP", name, power, StatusOff)
}

// NewAirConditioner builds an air conditioner device.
func NewAirConditioner(name string, power int) *Device {
	return newPreset("AIR_CONDITIONER", name, power, StatusOff)
}

// NewFan builds a fan device.
func NewFan(name string, power int) *Device {
	return newPreset("FAN", name, power, StatusOff)
}

// NewTelevision builds a television device.
func NewTelevision(name string, power int) *Device {
	return newPreset("TELEVISION", name, power, StatusOff)
}

// NewRefrigerator builds a refrigerator device. Refrigerators start on.
func NewRefrigerator(name string, power int) *Device {
	return newPreset("REFRIGERATOR", name, power, StatusOn)
}

// NewAppliance builds a device of an arbitrary kind. The kind is
// upper-cased to match the preset conventions.
func NewAppliance(name, kind string, power int) *Device {
	return newPreset(strings.ToUpper(kind), name, power, StatusOff)
}
