package cli

import (
	"context"
	"fmt"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/services"
)

func (a *App) scooterMenu(ctx context.Context) {
	for {
		fmt.Fprintln(a.out, "\nScooters")
		fmt.Fprintln(a.out, "  1. List scooters")
		fmt.Fprintln(a.out, "  2. Search scooters")
		fmt.Fprintln(a.out, "  3. Update scooter status")
		if a.session.HasCapability(auth.CapAddScooter) {
			fmt.Fprintln(a.out, "  4. Add scooter")
			fmt.Fprintln(a.out, "  5. Update scooter info")
			fmt.Fprintln(a.out, "  6. Delete scooter")
		}
		fmt.Fprintln(a.out, "  0. Back")

		choice, err := GetSimpleText(a.reader, "Select an option", a.out)
		if err != nil {
			return
		}
		switch choice {
		case "0":
			return
		case "1":
			a.listScooters(ctx)
		case "2":
			a.searchScooters(ctx)
		case "3":
			a.updateScooterStatus(ctx)
		case "4":
			a.addScooter(ctx)
		case "5":
			a.updateScooterInfo(ctx)
		case "6":
			a.deleteScooter(ctx)
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
	}
}

func (a *App) listScooters(ctx context.Context) {
	views, err := a.scooters.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printScooters(views)
}

func (a *App) searchScooters(ctx context.Context) {
	term, err := GetSimpleText(a.reader, "Search term (brand, model or serial)", a.out)
	if err != nil {
		return
	}
	views, err := a.scooters.Search(ctx, term)
	if err != nil {
		a.printErr(err)
		return
	}
	a.printScooters(views)
}

func (a *App) printScooters(views []services.ScooterView) {
	if len(views) == 0 {
		fmt.Fprintln(a.out, "No scooters found.")
		return
	}
	for _, v := range views {
		status := v.OutOfServiceStatus
		if status == "" {
			status = "in service"
		}
		fmt.Fprintf(a.out, "#%d  %s %s  %s  SoC %d%%  (%.5f, %.5f)  %s\n",
			v.ID, v.Brand, v.Model, v.SerialNumber, v.StateOfCharge,
			v.Latitude, v.Longitude, status)
	}
}

func (a *App) readScooterInput() (services.ScooterInput, bool) {
	var in services.ScooterInput
	var err error
	if in.Brand, err = GetSimpleText(a.reader, "Brand", a.out); err != nil {
		return in, false
	}
	if in.Model, err = GetSimpleText(a.reader, "Model", a.out); err != nil {
		return in, false
	}
	if in.SerialNumber, err = GetSimpleText(a.reader, "Serial number (10-17 alphanumeric)", a.out); err != nil {
		return in, false
	}
	if in.TopSpeed, err = GetInt(a.reader, "Top speed (km/h)", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.BatteryCapacity, err = GetInt(a.reader, "Battery capacity (Wh)", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.StateOfCharge, err = GetInt(a.reader, "State of charge (%)", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.TargetRangeMin, err = GetInt(a.reader, "Target SoC minimum (%)", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.TargetRangeMax, err = GetInt(a.reader, "Target SoC maximum (%)", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.Latitude, err = GetFloat(a.reader, "Latitude", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	if in.Longitude, err = GetFloat(a.reader, "Longitude", a.out); err != nil {
		a.printErr(err)
		return in, false
	}
	return in, true
}

func (a *App) addScooter(ctx context.Context) {
	in, ok := a.readScooterInput()
	if !ok {
		return
	}
	id, err := a.scooters.Add(ctx, in)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Scooter added with id %d.\n", id)
}

func (a *App) updateScooterInfo(ctx context.Context) {
	id, err := GetInt(a.reader, "Scooter id", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	in, ok := a.readScooterInput()
	if !ok {
		return
	}
	if err := a.scooters.Update(ctx, int64(id), in); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Scooter updated.")
}

// updateScooterStatus edits only the operational fields; empty answers show
// as skipped and the stored value stays.
func (a *App) updateScooterStatus(ctx context.Context) {
	id, err := GetInt(a.reader, "Scooter id", a.out)
	if err != nil {
		a.printErr(err)
		return
	}

	var st services.ScooterStatus
	if s, err := GetSimpleText(a.reader, "State of charge % (empty to skip)", a.out); err != nil {
		return
	} else if s != "" {
		n, err := GetIntValue(s)
		if err != nil {
			a.printErr(err)
			return
		}
		st.StateOfCharge = &n
	}
	if s, err := GetSimpleText(a.reader, "Out-of-service note (empty to skip, '-' to clear)", a.out); err != nil {
		return
	} else if s == "-" {
		empty := ""
		st.OutOfServiceStatus = &empty
	} else if s != "" {
		st.OutOfServiceStatus = &s
	}
	if s, err := GetSimpleText(a.reader, "Mileage km (empty to skip)", a.out); err != nil {
		return
	} else if s != "" {
		v, err := GetFloatValue(s)
		if err != nil {
			a.printErr(err)
			return
		}
		st.Mileage = &v
	}
	if s, err := GetSimpleText(a.reader, "Last maintenance date YYYY-MM-DD (empty to skip)", a.out); err != nil {
		return
	} else if s != "" {
		st.LastMaintenanceDate = &s
	}

	if err := a.scooters.UpdateStatus(ctx, int64(id), st); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Scooter status updated.")
}

func (a *App) deleteScooter(ctx context.Context) {
	id, err := GetInt(a.reader, "Scooter id", a.out)
	if err != nil {
		a.printErr(err)
		return
	}
	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Type 'yes' to delete scooter %d", id), a.out)
	if err != nil || confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}
	if err := a.scooters.Delete(ctx, int64(id)); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Scooter deleted.")
}
