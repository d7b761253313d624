package cli

import (
	"context"
	"fmt"

	"github.com/urbanmobility/umob/internal/services"
)

func (a *App) travelerMenu(ctx context.Context) {
	for {
		fmt.Fprintln(a.out, "\nTravelers")
		fmt.Fprintln(a.out, "  1. List travelers")
		fmt.Fprintln(a.out, "  2. Search travelers")
		fmt.Fprintln(a.out, "  3. Register traveler")
		fmt.Fprintln(a.out, "  4. Update traveler")
		fmt.Fprintln(a.out, "  5. Delete traveler")
		fmt.Fprintln(a.out, "  0. Back")

		choice, err := GetSimpleText(a.reader, "Select an option", a.out)
		if err != nil {
			return
		}
		switch choice {
		case "0":
			return
		case "1":
			a.listTravelers(ctx)
		case "2":
			a.searchTravelers(ctx)
		case "3":
			a.registerTraveler(ctx)
		case "4":
			a.updateTraveler(ctx)
		case "5":
			a.deleteTraveler(ctx)
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
	}
}

func (a *App) listTravelers(ctx context.Context) {
	views, err := a.travelers.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printTravelers(views)
}

func (a *App) searchTravelers(ctx context.Context) {
	term, err := GetSimpleText(a.reader, "Search term (id, name or email)", a.out)
	if err != nil {
		return
	}
	views, err := a.travelers.Search(ctx, term)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printTravelers(views)
}

func (a *App) printTravelers(views []services.TravelerView) {
	if len(views) == 0 {
		fmt.Fprintln(a.out, "No travelers found.")
		return
	}
	for _, v := range views {
		fmt.Fprintf(a.out, "%s  %s %s  %s  %s %s, %s %s\n",
			v.CustomerID, v.FirstName, v.LastName, v.Email,
			v.StreetName, v.HouseNumber, v.ZipCode, v.City)
	}
}

func (a *App) registerTraveler(ctx context.Context) {
	var in services.TravelerInput
	prompts := []struct {
		label string
		dst   *string
	}{
		{"First name", &in.FirstName},
		{"Last name", &in.LastName},
		{"Birthday (DD-MM-YYYY)", &in.Birthday},
		{"Gender (male/female)", &in.Gender},
		{"Street name", &in.StreetName},
		{"House number", &in.HouseNumber},
		{"Zip code (DDDDXX)", &in.ZipCode},
		{"City", &in.City},
		{"Email", &in.Email},
		{"Mobile phone: +31 6", &in.MobilePhone},
		{"Driving license", &in.DrivingLicense},
	}
	for _, p := range prompts {
		v, err := GetSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return
		}
		*p.dst = v
	}

	id, err := a.travelers.Create(ctx, in)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Traveler registered with customer id %s.\n", id)
}

func (a *App) updateTraveler(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Customer id", a.out)
	if err != nil {
		return
	}
	field, err := GetSimpleText(a.reader,
		"Field to update (first_name, last_name, birthday, gender, street_name,\n"+
			"house_number, zip_code, city, email, mobile_phone, driving_license)", a.out)
	if err != nil {
		return
	}
	value, err := GetSimpleText(a.reader, "New value", a.out)
	if err != nil {
		return
	}

	if err := a.travelers.Update(ctx, id, map[string]string{field: value}); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Traveler updated.")
}

func (a *App) deleteTraveler(ctx context.Context) {
	id, err := GetSimpleText(a.reader, "Customer id", a.out)
	if err != nil {
		return
	}
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to delete "+id, a.out)
	if err != nil || confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}
	if err := a.travelers.Delete(ctx, id); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Traveler deleted.")
}
