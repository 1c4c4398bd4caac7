package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wolfman30/mhrs-booking/internal/admin"
	"github.com/wolfman30/mhrs-booking/internal/console"
	"github.com/wolfman30/mhrs-booking/internal/domain"
)

func newAdminCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration commands",
	}

	cmd.AddCommand(newDashboardCommand(a))

	cmd.AddCommand(collection[domain.AdminHospital]{
		use:    "hospitals",
		short:  "Hospitals",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminHospital] { return g.Hospitals },
		render: func(w io.Writer, items []domain.AdminHospital, _ *admin.Grids) { console.RenderHospitals(w, items) },
	}.command(a, newAddHospitalCommand(a)))

	cmd.AddCommand(collection[domain.AdminDepartment]{
		use:   "departments",
		short: "Departments",
		grid:  func(g *admin.Grids) *admin.Grid[domain.AdminDepartment] { return g.Departments },
		render: func(w io.Writer, items []domain.AdminDepartment, g *admin.Grids) {
			console.RenderDepartments(w, items, g.Hospitals.Items())
		},
		prepare: loadGrids(func(g *admin.Grids) loader { return g.Hospitals }),
	}.command(a, newAddDepartmentCommand(a)))

	cmd.AddCommand(collection[domain.AdminDoctor]{
		use:    "doctors",
		short:  "Doctors",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminDoctor] { return g.Doctors },
		render: func(w io.Writer, items []domain.AdminDoctor, _ *admin.Grids) { console.RenderDoctors(w, items) },
	}.command(a, newAddDoctorCommand(a)))

	cmd.AddCommand(collection[domain.AdminPatient]{
		use:    "patients",
		short:  "Patients",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminPatient] { return g.Patients },
		render: func(w io.Writer, items []domain.AdminPatient, _ *admin.Grids) { console.RenderPatients(w, items) },
	}.command(a, newAddPatientCommand(a)))

	cmd.AddCommand(collection[domain.AdminPrescription]{
		use:    "prescriptions",
		short:  "Prescriptions",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminPrescription] { return g.Prescriptions },
		render: func(w io.Writer, items []domain.AdminPrescription, _ *admin.Grids) { console.RenderPrescriptions(w, items) },
	}.command(a))

	cmd.AddCommand(collection[domain.AdminWaitingItem]{
		use:    "waiting-list",
		short:  "Waiting list entries",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminWaitingItem] { return g.WaitingList },
		render: func(w io.Writer, items []domain.AdminWaitingItem, _ *admin.Grids) { console.RenderAdminWaitingList(w, items) },
	}.command(a))

	cmd.AddCommand(collection[domain.AdminUser]{
		use:    "users",
		short:  "Administrator accounts",
		grid:   func(g *admin.Grids) *admin.Grid[domain.AdminUser] { return g.Users },
		render: func(w io.Writer, items []domain.AdminUser, _ *admin.Grids) { console.RenderUsers(w, items) },
	}.command(a, newAddUserCommand(a)))

	cmd.AddCommand(newAppointmentsCommand(a))

	return cmd
}

// grids signs the admin in and returns the collections, confirming deletes
// through c.
func (a *app) grids(ctx context.Context, c confirmer) (*admin.Grids, error) {
	if _, err := a.requireSession(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return admin.NewGrids(admin.NewService(a.client, a.logger), c, a.logger), nil
}

type loader interface {
	Load(ctx context.Context) error
}

func loadGrids(pick ...func(*admin.Grids) loader) func(context.Context, *admin.Grids) error {
	return func(ctx context.Context, g *admin.Grids) error {
		for _, p := range pick {
			if err := p(g).Load(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

// collection is one admin grid exposed as list and delete subcommands.
type collection[T any] struct {
	use     string
	short   string
	grid    func(*admin.Grids) *admin.Grid[T]
	render  func(io.Writer, []T, *admin.Grids)
	prepare func(context.Context, *admin.Grids) error
}

func (c collection[T]) command(a *app, extra ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.use,
		Short: c.short,
	}
	cmd.AddCommand(c.listCommand(a))
	cmd.AddCommand(c.deleteCommand(a))
	for _, sub := range extra {
		cmd.AddCommand(sub)
	}
	return cmd
}

func (c collection[T]) listCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + strings.ToLower(c.short),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			g, err := a.grids(ctx, nil)
			if err != nil {
				return err
			}
			if c.prepare != nil {
				if err := c.prepare(ctx, g); err != nil {
					return err
				}
			}
			grid := c.grid(g)
			if err := grid.Load(ctx); err != nil {
				return err
			}
			c.render(a.out(), grid.Filter(filter), g)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "show only rows containing this text")

	return cmd
}

func (c collection[T]) deleteCommand(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := a.grids(ctx, a.confirmer(yes))
			if err != nil {
				return err
			}
			grid := c.grid(g)
			if err := grid.Load(ctx); err != nil {
				return err
			}
			if err := grid.Delete(ctx, args[0]); err != nil {
				return a.declined(err)
			}
			a.printf("Silindi: %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func newDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the summary counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireSession(ctx, domain.RoleAdmin); err != nil {
				return err
			}
			summary, err := admin.NewDashboard(admin.NewService(a.client, a.logger)).Load(ctx)
			if err != nil {
				return err
			}
			console.RenderSummary(a.out(), summary)
			return nil
		},
	}
}

// addCommand wraps a create form: it signs the admin in, loads what the
// form refers to and prints the new record's id.
func addCommand(a *app, short string, create func(ctx context.Context, g *admin.Grids) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			g, err := a.grids(ctx, nil)
			if err != nil {
				return err
			}
			id, err := create(ctx, g)
			if err != nil {
				return err
			}
			a.printf("Eklendi: %s\n", id)
			return nil
		},
	}
}

func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, "--"+pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("zorunlu alan eksik: %s", strings.Join(missing, ", "))
	}
	return nil
}

func newAddHospitalCommand(a *app) *cobra.Command {
	var h domain.AdminHospital
	cmd := addCommand(a, "Add a hospital", func(ctx context.Context, g *admin.Grids) (string, error) {
		if err := required("name", h.Name, "city", h.City); err != nil {
			return "", err
		}
		created, err := g.Hospitals.Create(ctx, h)
		return created.ID, err
	})
	cmd.Flags().StringVar(&h.Name, "name", "", "hospital name")
	cmd.Flags().StringVar(&h.City, "city", "", "city")
	cmd.Flags().StringVar(&h.District, "district", "", "district")
	return cmd
}

func newAddDepartmentCommand(a *app) *cobra.Command {
	var d domain.AdminDepartment
	cmd := addCommand(a, "Add a department to a hospital", func(ctx context.Context, g *admin.Grids) (string, error) {
		if err := required("name", d.Name, "hospital", d.HospitalID); err != nil {
			return "", err
		}
		if err := g.Hospitals.Load(ctx); err != nil {
			return "", err
		}
		if _, ok := g.Hospitals.Find(d.HospitalID); !ok {
			return "", fmt.Errorf("%w: hastane %s", admin.ErrNotFound, d.HospitalID)
		}
		created, err := g.Departments.Create(ctx, d)
		return created.ID, err
	})
	cmd.Flags().StringVar(&d.Name, "name", "", "department name")
	cmd.Flags().StringVar(&d.HospitalID, "hospital", "", "hospital id, e.g. h1")
	return cmd
}

func newAddDoctorCommand(a *app) *cobra.Command {
	var d domain.AdminDoctor
	cmd := addCommand(a, "Add a doctor", func(ctx context.Context, g *admin.Grids) (string, error) {
		err := required("first-name", d.FirstName, "last-name", d.LastName, "national-id", d.NationalID,
			"hospital", d.HospitalID, "department", d.DepartmentID)
		if err != nil {
			return "", err
		}
		if err := g.Departments.Load(ctx); err != nil {
			return "", err
		}
		if !departmentIn(g.DepartmentsOf(d.HospitalID), d.DepartmentID) {
			return "", fmt.Errorf("%w: %s hastanesinde %s bölümü", admin.ErrNotFound, d.HospitalID, d.DepartmentID)
		}
		created, err := g.Doctors.Create(ctx, d)
		return created.ID, err
	})
	cmd.Flags().StringVar(&d.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&d.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&d.NationalID, "national-id", "", "T.C. identity number")
	cmd.Flags().StringVar(&d.HospitalID, "hospital", "", "hospital id, e.g. h1")
	cmd.Flags().StringVar(&d.DepartmentID, "department", "", "department id, e.g. d1")
	return cmd
}

func departmentIn(items []domain.AdminDepartment, id string) bool {
	for _, d := range items {
		if d.ID == id {
			return true
		}
	}
	return false
}

func newAddPatientCommand(a *app) *cobra.Command {
	var p domain.AdminPatient
	cmd := addCommand(a, "Add a patient", func(ctx context.Context, g *admin.Grids) (string, error) {
		if err := required("first-name", p.FirstName, "last-name", p.LastName, "national-id", p.NationalID); err != nil {
			return "", err
		}
		if p.BloodGroup != "" && !domain.IsBloodGroup(p.BloodGroup) {
			return "", fmt.Errorf("bilinmeyen kan grubu %q", p.BloodGroup)
		}
		created, err := g.Patients.Create(ctx, p)
		return created.ID, err
	})
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&p.NationalID, "national-id", "", "T.C. identity number")
	cmd.Flags().StringVar(&p.BloodGroup, "blood-group", "", "blood group, e.g. \"A Rh(+)\"")
	cmd.Flags().IntVar(&p.HeightCm, "height", 0, "height in cm")
	cmd.Flags().IntVar(&p.WeightKg, "weight", 0, "weight in kg")
	return cmd
}

func newAddUserCommand(a *app) *cobra.Command {
	var u domain.NewAdminUser
	cmd := addCommand(a, "Add an administrator", func(ctx context.Context, g *admin.Grids) (string, error) {
		if err := required("username", u.Username, "password", u.Password); err != nil {
			return "", err
		}
		created, err := g.CreateUser(ctx, u)
		if err != nil {
			return "", err
		}
		return created.ID, nil
	})
	cmd.Flags().StringVar(&u.Username, "username", "", "username")
	cmd.Flags().StringVar(&u.Password, "password", "", "password")
	cmd.Flags().StringVar(&u.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&u.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&u.Email, "email", "", "e-mail address")
	cmd.Flags().StringVar(&u.NationalID, "national-id", "", "T.C. identity number")
	return cmd
}

func newAppointmentsCommand(a *app) *cobra.Command {
	var (
		filter  admin.AppointmentFilter
		page    int
		details bool
	)

	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Search the appointment log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			switch filter.Status {
			case admin.LogStatusAll, admin.LogStatusCompleted, admin.LogStatusCancelled, admin.LogStatusBooked:
			default:
				return fmt.Errorf("geçersiz durum %q: completed, cancelled veya booked olmalı", filter.Status)
			}
			if page < 1 {
				return errors.New("--page 1 veya daha büyük olmalı")
			}
			if _, err := a.requireSession(ctx, domain.RoleAdmin); err != nil {
				return err
			}
			filter.Page = page - 1
			rows, err := admin.NewService(a.client, a.logger).Appointments(ctx, filter)
			if err != nil {
				return err
			}
			var expanded func(int64) bool
			if details {
				expanded = func(int64) bool { return true }
			}
			console.RenderAppointmentLog(a.out(), rows, expanded)
			a.printf("Sayfa %d\n", page)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "first date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "last date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.Status, "status", "", "completed, cancelled or booked")
	cmd.Flags().StringVar(&filter.Search, "search", "", "patient, doctor or hospital text")
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&filter.Size, "size", 10, "rows per page")
	cmd.Flags().BoolVar(&details, "details", false, "print patient id and prescription under each row")

	return cmd
}
