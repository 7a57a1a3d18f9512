package appointment

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	payDomain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/memory"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// Sunday noon, the day before the Monday used by every test.
var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

const monday = "2026-10-19"

func clock() time.Time { return fixedNow }

func newBooking(repo *memory.Store, pub events.Publisher) *CreateBooking {
	uc := NewCreateBooking(repo, nil, pub, discardLogger())
	uc.now = clock
	return uc
}

func newAvailability(repo *memory.Store) *GetAvailability {
	uc := NewGetAvailability(repo)
	uc.now = clock
	return uc
}

func mustDate(t *testing.T, s string) schedule.Date {
	t.Helper()
	d, err := schedule.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	return d
}

func starts(slots []domain.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Start)
	}
	return out
}

func bookingInput(start, end string) CreateBookingInput {
	return CreateBookingInput{
		LocationID:     1,
		ProfessionalID: 7,
		ClientName:     "Maria",
		ClientPhone:    "11999990000",
		Date:           monday,
		StartTime:      start,
		EndTime:        end,
	}
}

func TestGetAvailability_MondayHourly(t *testing.T) {
	repo := newMemoryRepo()
	slots, err := newAvailability(repo).Execute(context.Background(), domain.AvailabilityInput{
		LocationID:     1,
		ProfessionalID: 7,
		Date:           mustDate(t, monday),
		Granularity:    60,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}
	if got := starts(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if slots[0].Date != monday || slots[0].ProfessionalID != 7 || slots[0].End != "10:00" {
		t.Fatalf("unexpected first slot %+v", slots[0])
	}
}

func TestGetAvailability_ServiceDurationAndBookings(t *testing.T) {
	repo := newMemoryRepo()
	if _, err := newBooking(repo, events.Noop{}).Execute(context.Background(), bookingInput("09:00", "10:00")); err != nil {
		t.Fatalf("booking: %v", err)
	}

	slots, err := newAvailability(repo).Execute(context.Background(), domain.AvailabilityInput{
		LocationID:     1,
		ProfessionalID: 7,
		ServiceID:      3,
		Date:           mustDate(t, monday),
		Granularity:    60,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}
	if got := starts(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if slots[0].End != "10:45" {
		t.Fatalf("slot length must follow the service, got %+v", slots[0])
	}
}

func TestGetAvailability_MinAdvanceAndPastDays(t *testing.T) {
	repo := newMemoryRepo()
	uc := newAvailability(repo)
	// Monday 10:20, one hour minimum advance.
	uc.now = func() time.Time { return time.Date(2026, 10, 19, 10, 20, 0, 0, time.UTC) }

	slots, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		LocationID: 1, ProfessionalID: 7, Date: mustDate(t, monday), Granularity: 60,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := []string{"12:00", "14:00", "15:00", "16:00"}
	if got := starts(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	past, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		LocationID: 1, ProfessionalID: 7, Date: mustDate(t, "2026-10-12"), Granularity: 60,
	})
	if err != nil || len(past) != 0 {
		t.Fatalf("past dates have no slots, got %v %v", past, err)
	}
}

func TestGetAvailability_ClosedOverride(t *testing.T) {
	repo := newMemoryRepo()
	if err := repo.UpsertOverride(context.Background(), &models.ScheduleOverride{ProfessionalID: 7, Date: monday, Closed: true}); err != nil {
		t.Fatalf("UpsertOverride: %v", err)
	}

	slots, err := newAvailability(repo).Execute(context.Background(), domain.AvailabilityInput{
		LocationID: 1, ProfessionalID: 7, Date: mustDate(t, monday), Granularity: 30,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("closed override must yield no slots, got %v", starts(slots))
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	uc := newAvailability(newMemoryRepo())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, domain.AvailabilityInput{LocationID: 1, ProfessionalID: 99, Date: mustDate(t, monday)}); !httperr.IsBusiness(err, "professional_not_found") {
		t.Fatalf("expected professional_not_found, got %v", err)
	}
	if _, err := uc.Execute(ctx, domain.AvailabilityInput{LocationID: 1, ProfessionalID: 7, ServiceID: 99, Date: mustDate(t, monday)}); !httperr.IsBusiness(err, "service_not_found") {
		t.Fatalf("expected service_not_found, got %v", err)
	}
	if _, err := uc.Execute(ctx, domain.AvailabilityInput{LocationID: 1, ProfessionalID: 7, Granularity: -5, Date: mustDate(t, monday)}); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	repo := newMemoryRepo()
	uc := newBooking(repo, events.Noop{})

	const n = 2
	errs := make(chan error, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.Execute(context.Background(), bookingInput("10:00", "11:00"))
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case httperr.IsConflict(err):
			conflicts++
		default:
			t.Fatalf("unexpected error %v", err)
		}
	}
	if ok != 1 || conflicts != 1 {
		t.Fatalf("expected one success and one conflict, got ok=%d conflicts=%d", ok, conflicts)
	}
	if stored := repo.Appointments(); len(stored) != 1 {
		t.Fatalf("expected one stored appointment, got %d", len(stored))
	}
}

func TestCreateBooking_AdjacentAndCancelled(t *testing.T) {
	repo := newMemoryRepo()
	pub := &recordingPublisher{}
	uc := newBooking(repo, pub)
	ctx := context.Background()

	first, err := uc.Execute(ctx, bookingInput("10:00", "11:00"))
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.ID == "" || first.Status != string(domain.StatusBooked) || first.PaymentStatus != "pending" {
		t.Fatalf("unexpected appointment %+v", first)
	}
	if _, err := uc.Execute(ctx, bookingInput("11:00", "12:00")); err != nil {
		t.Fatalf("touching intervals must not conflict: %v", err)
	}
	if _, err := uc.Execute(ctx, bookingInput("10:30", "11:30")); !httperr.IsBusiness(err, "time_conflict") {
		t.Fatalf("expected time_conflict, got %v", err)
	}

	cs := NewChangeStatus(repo, nil, pub, discardLogger())
	cs.now = clock
	if _, err := cs.Execute(ctx, ChangeStatusInput{LocationID: 1, ProfessionalID: 7, AppointmentID: first.ID, To: domain.StatusCancelled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := uc.Execute(ctx, bookingInput("10:00", "11:00")); err != nil {
		t.Fatalf("cancelled appointment must free its slot: %v", err)
	}

	want := []string{
		events.TopicAppointmentBooked,
		events.TopicAppointmentBooked,
		events.TopicAppointmentStatusChanged,
		events.TopicAppointmentBooked,
	}
	if !reflect.DeepEqual(pub.topics, want) {
		t.Fatalf("unexpected events %v", pub.topics)
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	repo := newMemoryRepo()
	uc := newBooking(repo, events.Noop{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateBookingInput
		code string
	}{
		{"break", bookingInput("12:30", "13:30"), "outside_working_hours"},
		{"after closing", bookingInput("16:30", "17:30"), "outside_working_hours"},
		{"inverted", bookingInput("11:00", "10:00"), "invalid_time_range"},
		{"bad time", bookingInput("9h", "10:00"), "invalid_time_range"},
		{"bad date", func() CreateBookingInput { in := bookingInput("10:00", "11:00"); in.Date = "19/10/2026"; return in }(), "invalid_date"},
		{"no client", func() CreateBookingInput { in := bookingInput("10:00", "11:00"); in.ClientPhone = " "; return in }(), "invalid_request"},
	}
	for _, tc := range cases {
		if _, err := uc.Execute(ctx, tc.in); !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}

	uc.now = func() time.Time { return time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC) }
	if _, err := uc.Execute(ctx, bookingInput("10:00", "11:00")); !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("expected too_soon, got %v", err)
	}
	actor := uint(7)
	private := bookingInput("10:00", "11:00")
	private.ActorID = &actor
	if _, err := uc.Execute(ctx, private); err != nil {
		t.Fatalf("private booking skips the minimum advance: %v", err)
	}
}

func TestCreateBooking_MalformedInputBeforeLookups(t *testing.T) {
	uc := newBooking(memory.NewStore(), events.Noop{})
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateBookingInput
		code string
	}{
		{"bad date", func() CreateBookingInput { in := bookingInput("25:99", "11:00"); in.Date = "not-a-date"; return in }(), "invalid_date"},
		{"bad start", bookingInput("25:99", "11:00"), "invalid_time_range"},
		{"bad end", bookingInput("10:00", "1100"), "invalid_time_range"},
		{"no end nor service", bookingInput("10:00", ""), "invalid_time_range"},
		{"no name", func() CreateBookingInput { in := bookingInput("10:00", "11:00"); in.ClientName = ""; return in }(), "invalid_request"},
	}
	for _, tc := range cases {
		_, err := uc.Execute(ctx, tc.in)
		if !httperr.IsValidation(err) || !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("%s: expected validation %s, got %v", tc.name, tc.code, err)
		}
	}

	if _, err := uc.Execute(ctx, bookingInput("10:00", "11:00")); !httperr.IsNotFound(err) {
		t.Fatalf("well-formed input reaches the store, got %v", err)
	}
}

func TestCreateBooking_ServiceSetsEnd(t *testing.T) {
	repo := newMemoryRepo()
	in := bookingInput("15:00", "")
	in.ServiceID = 3

	ap, err := newBooking(repo, events.Noop{}).Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if ap.StartMinute != 15*60 || ap.EndMinute != 15*60+45 || ap.ServiceID == nil || *ap.ServiceID != 3 {
		t.Fatalf("unexpected appointment %+v", ap)
	}
}

func TestBlocks(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	booking := newBooking(repo, events.Noop{})
	blocks := NewCreateBlock(repo, nil, discardLogger())

	b, err := blocks.Execute(ctx, CreateBlockInput{LocationID: 1, ProfessionalID: 7, Date: monday, StartTime: "15:00", EndTime: "16:00", Reason: "curso"})
	if err != nil {
		t.Fatalf("CreateBlock: %v", err)
	}
	if _, err := booking.Execute(ctx, bookingInput("15:30", "16:30")); !httperr.IsConflict(err) {
		t.Fatalf("block must reject overlapping booking, got %v", err)
	}
	if _, err := blocks.Execute(ctx, CreateBlockInput{LocationID: 1, ProfessionalID: 7, Date: monday, StartTime: "15:30", EndTime: "15:45"}); !httperr.IsConflict(err) {
		t.Fatalf("blocks must not overlap each other, got %v", err)
	}

	if _, err := NewCancelBlock(repo, nil).Execute(ctx, 1, 7, b.ID); err != nil {
		t.Fatalf("CancelBlock: %v", err)
	}
	if _, err := booking.Execute(ctx, bookingInput("15:30", "16:30")); err != nil {
		t.Fatalf("cancelled block must free time: %v", err)
	}
	if _, err := NewCancelBlock(repo, nil).Execute(ctx, 1, 7, "missing"); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChangeStatus_Transitions(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	ap, err := newBooking(repo, events.Noop{}).Execute(ctx, bookingInput("10:00", "11:00"))
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	cs := NewChangeStatus(repo, nil, events.Noop{}, discardLogger())
	cs.now = clock
	in := ChangeStatusInput{LocationID: 1, ProfessionalID: 7, AppointmentID: ap.ID}

	in.To = domain.StatusAttended
	got, err := cs.Execute(ctx, in)
	if err != nil {
		t.Fatalf("attend: %v", err)
	}
	if got.AttendedAt == nil {
		t.Fatal("attended_at must be set")
	}

	in.To = domain.StatusCancelled
	if _, err := cs.Execute(ctx, in); !httperr.IsBusiness(err, "invalid_state") {
		t.Fatalf("attended is terminal, got %v", err)
	}

	in.AppointmentID = "missing"
	if _, err := cs.Execute(ctx, in); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// paidDuringRead commits a payment for the appointment right after handing
// out its pre-payment copy.
type paidDuringRead struct {
	*memory.Store
}

func (r paidDuringRead) GetAppointment(ctx context.Context, id string, professionalID uint) (*models.Appointment, error) {
	ap, err := r.Store.GetAppointment(ctx, id, professionalID)
	if err != nil {
		return nil, err
	}
	err = r.Store.WithinSaleTx(ctx, func(tx payDomain.SaleTx) error {
		return tx.MarkAppointmentPaid(ctx, id)
	})
	return ap, err
}

func TestChangeStatus_KeepsConcurrentPayment(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	ap, err := newBooking(repo, events.Noop{}).Execute(ctx, bookingInput("10:00", "11:00"))
	if err != nil {
		t.Fatalf("booking: %v", err)
	}

	cs := NewChangeStatus(paidDuringRead{repo}, nil, events.Noop{}, discardLogger())
	cs.now = clock
	if _, err := cs.Execute(ctx, ChangeStatusInput{
		LocationID: 1, ProfessionalID: 7, AppointmentID: ap.ID, To: domain.StatusAttended,
	}); err != nil {
		t.Fatalf("attend: %v", err)
	}

	stored := repo.Appointments()[0]
	if stored.Status != string(domain.StatusAttended) {
		t.Fatalf("status = %q, want attended", stored.Status)
	}
	if stored.PaymentStatus != string(domain.PaymentPaid) {
		t.Fatalf("payment_status = %q, the status change overwrote the payment", stored.PaymentStatus)
	}
}

func TestListAppointmentsByDate(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	booking := newBooking(repo, events.Noop{})
	for _, r := range [][2]string{{"14:00", "15:00"}, {"09:00", "09:30"}} {
		if _, err := booking.Execute(ctx, bookingInput(r[0], r[1])); err != nil {
			t.Fatalf("booking %v: %v", r, err)
		}
	}

	list, err := NewListAppointmentsByDate(repo).Execute(ctx, 7, monday)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(list) != 2 || list[0].StartTime != "09:00" || list[1].EndTime != "15:00" || list[0].ClientName != "Maria" {
		t.Fatalf("unexpected list %+v", list)
	}
	if _, err := NewListAppointmentsByDate(repo).Execute(ctx, 7, "amanhã"); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestManageSchedule(t *testing.T) {
	repo := newMemoryRepo()
	ctx := context.Background()
	uc := NewManageSchedule(repo)

	_, err := uc.ReplaceWorkingHours(ctx, 7, []models.WorkingHours{
		{Weekday: 1, Active: true, StartTime: "10:00", EndTime: "12:00"},
		{Weekday: 1, Active: true, StartTime: "13:00", EndTime: "15:00"},
	})
	if !httperr.IsBusiness(err, "duplicate_weekday") {
		t.Fatalf("expected duplicate_weekday, got %v", err)
	}
	if _, err := uc.ReplaceWorkingHours(ctx, 7, []models.WorkingHours{{Weekday: 1, Active: true, StartTime: "12:00", EndTime: "10:00"}}); !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if _, err := uc.ReplaceWorkingHours(ctx, 7, []models.WorkingHours{{Weekday: 1, Active: true, StartTime: "10:00", EndTime: "12:00"}}); err != nil {
		t.Fatalf("ReplaceWorkingHours: %v", err)
	}
	hours, _ := uc.WorkingHours(ctx, 7)
	if len(hours) != 1 || hours[0].StartTime != "10:00" || hours[0].ProfessionalID != 7 {
		t.Fatalf("unexpected hours %+v", hours)
	}

	ov, err := uc.SetOverride(ctx, 7, models.ScheduleOverride{Date: monday})
	if err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	if !ov.Closed {
		t.Fatal("override without windows is stored closed")
	}
	if _, err := uc.SetOverride(ctx, 7, models.ScheduleOverride{Date: monday, Windows: []models.TimeWindow{{Start: "08:00", End: "09:00"}}}); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}
	list, err := uc.Overrides(ctx, 1, 7, "2026-10-01")
	if err != nil || len(list) != 1 || list[0].Closed {
		t.Fatalf("override must be replaced in place, got %+v %v", list, err)
	}
}

func TestManageSchedule_DefaultFromIsTodayAtLocation(t *testing.T) {
	repo := newMemoryRepo()
	repo.PutLocation(models.Location{ID: 2, Slug: "tokyo", Timezone: "Asia/Tokyo", MinAdvanceMinutes: 60})
	ctx := context.Background()

	uc := NewManageSchedule(repo)
	// 20:00 UTC on Sunday is already Monday in Tokyo.
	uc.now = func() time.Time { return time.Date(2026, 10, 18, 20, 0, 0, 0, time.UTC) }

	for _, date := range []string{"2026-10-18", monday} {
		if _, err := uc.SetOverride(ctx, 7, models.ScheduleOverride{Date: date}); err != nil {
			t.Fatalf("SetOverride %s: %v", date, err)
		}
	}

	list, err := uc.Overrides(ctx, 2, 7, "")
	if err != nil {
		t.Fatalf("Overrides: %v", err)
	}
	if len(list) != 1 || list[0].Date != monday {
		t.Fatalf("expected only %s, got %+v", monday, list)
	}

	list, err = uc.Overrides(ctx, 1, 7, "")
	if err != nil || len(list) != 2 {
		t.Fatalf("UTC location still sees Sunday, got %+v %v", list, err)
	}
}
