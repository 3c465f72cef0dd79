package cli

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/preceptor-dev/preceptor/pkg/domain/types"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

type appointmentFlags struct {
	input       model.AppointmentInput
	scheduledAt string
}

func (f *appointmentFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "at", Usage: "Start time, RFC 3339 or \"2006-01-02 15:04\" local", Destination: &f.scheduledAt},
		&cli.IntFlag{Name: "duration", Usage: "Duration in minutes", Destination: &f.input.DurationMinutes},
		&cli.StringFlag{Name: "location", Destination: &f.input.Location},
		&cli.StringFlag{Name: "link", Usage: "Telehealth link", Destination: &f.input.TelehealthLink},
		&cli.StringFlag{Name: "case-id", Destination: (*string)(&f.input.CaseID)},
		&cli.StringFlag{Name: "patient-id", Destination: (*string)(&f.input.PatientID)},
		&cli.StringFlag{Name: "student-id", Destination: (*string)(&f.input.StudentID)},
		&cli.StringFlag{Name: "notes", Destination: &f.input.Notes},
	}
}

// Input parses --at into the input
func (f *appointmentFlags) Input() (*model.AppointmentInput, error) {
	if f.scheduledAt != "" {
		t, err := parseTime(f.scheduledAt)
		if err != nil {
			return nil, err
		}
		f.input.ScheduledAt = &t
	}
	return &f.input, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, goerr.Wrap(usecase.ErrInvalidInput, "invalid time", goerr.V("value", s))
	}
	return t, nil
}

func printAppointments(out *printer, items []*model.Appointment) error {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{
			string(a.ID), timestamp(a.ScheduledAt), status(string(a.Status)),
			caseRef(a.Case), ref(a.Patient), ref(a.Student), a.Location,
		})
	}
	return out.Table(items, []string{"ID", "WHEN", "STATUS", "CASE", "PATIENT", "STUDENT", "LOCATION"}, rows)
}

func printAppointment(out *printer, a *model.Appointment) error {
	return out.Record(a, [][2]string{
		{"ID", string(a.ID)},
		{"When", timestamp(a.ScheduledAt)},
		{"Duration", durationMinutes(a.DurationMinutes)},
		{"Status", status(string(a.Status))},
		{"Case", caseRef(a.Case)},
		{"Patient", ref(a.Patient)},
		{"Student", ref(a.Student)},
		{"Supervisor", ref(a.Supervisor)},
		{"Location", a.Location},
		{"Telehealth", a.TelehealthLink},
		{"Notes", a.Notes},
	})
}

func durationMinutes(n int) string {
	if n <= 0 {
		return ""
	}
	return (time.Duration(n) * time.Minute).String()
}

func cmdAppointment(g *globalConfig) *cli.Command {
	var filter listFilter
	var create, update appointmentFlags

	return &cli.Command{
		Name:    "appointment",
		Aliases: []string{"appointments", "appt"},
		Usage:   "Manage appointments",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List appointments",
				Flags: filter.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					items, err := rt.uc.Appointment.FetchAppointments(ctx, filter.Options()...)
					if err != nil {
						return err
					}
					return printAppointments(rt.out, applyFilter(items, &filter, func(a *model.Appointment) string { return string(a.Status) }))
				}),
			},
			{
				Name:      "show",
				Usage:     "Show an appointment",
				ArgsUsage: "<appointment-id>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "appointment-id")
					if err != nil {
						return err
					}
					a, err := rt.uc.Appointment.FetchAppointment(ctx, id)
					if err != nil {
						return err
					}
					return printAppointment(rt.out, a)
				}),
			},
			{
				Name:  "create",
				Usage: "Schedule an appointment",
				Flags: create.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					input, err := create.Input()
					if err != nil {
						return err
					}
					a, err := rt.uc.Appointment.CreateAppointment(ctx, input)
					if err != nil {
						return err
					}
					return rt.out.Success(a, "Scheduled appointment #%s at %s", a.ID, timestamp(a.ScheduledAt))
				}),
			},
			{
				Name:      "update",
				Usage:     "Update or reschedule an appointment",
				ArgsUsage: "<appointment-id>",
				Flags:     update.Flags(),
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "appointment-id")
					if err != nil {
						return err
					}
					input, err := update.Input()
					if err != nil {
						return err
					}
					a, err := rt.uc.Appointment.UpdateAppointment(ctx, id, input)
					if err != nil {
						return err
					}
					return rt.out.Success(a, "Updated appointment #%s (%s)", a.ID, a.Status)
				}),
			},
			{
				Name:      "status",
				Usage:     "Set the status of an appointment (completed, cancelled, no_show, ...)",
				ArgsUsage: "<appointment-id> <status>",
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					id, err := argID(c, 0, "appointment-id")
					if err != nil {
						return err
					}
					a, err := rt.uc.Appointment.SetAppointmentStatus(ctx, id, types.AppointmentStatus(c.Args().Get(1)))
					if err != nil {
						return err
					}
					return rt.out.Success(a, "Appointment #%s is now %s", a.ID, a.Status)
				}),
			},
		},
	}
}
