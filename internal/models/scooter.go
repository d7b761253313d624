package models

// Scooter is a fleet record. SerialNumber holds a cipher token in storage.
type Scooter struct {
	ID                  int64
	Brand               string
	Model               string
	SerialNumber        string
	TopSpeed            int
	BatteryCapacity     int
	StateOfCharge       int
	TargetRangeMin      int
	TargetRangeMax      int
	Latitude            float64
	Longitude           float64
	OutOfServiceStatus  string
	Mileage             float64
	LastMaintenanceDate string
	InServiceDate       string
}
