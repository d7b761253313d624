package models

// Traveler is a customer record. Email, MobilePhone and DrivingLicense hold
// cipher tokens in storage; services decrypt them for display.
type Traveler struct {
	ID               int64
	CustomerID       string
	FirstName        string
	LastName         string
	Birthday         string
	Gender           string
	StreetName       string
	HouseNumber      string
	ZipCode          string
	City             string
	Email            string
	MobilePhone      string
	DrivingLicense   string
	RegistrationDate string
}
