package job

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landscaping/internal/domain"
	"landscaping/internal/domain/activity"
	"landscaping/internal/repository"
	"landscaping/internal/testutil"
)

var fixedNow = time.Date(2024, 5, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc    *Service
	store  *repository.Store
	events *testutil.Recorder
	client *domain.Client
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := testutil.OpenStore(t)
	rec := &testutil.Recorder{}
	svc := NewService(store, rec)
	svc.now = func() time.Time { return fixedNow }
	return &fixture{svc: svc, store: store, events: rec, client: testutil.Client(t, store, "Ann")}
}

func (f *fixture) member(t *testing.T, name string) *domain.Member {
	t.Helper()
	m := &domain.Member{Name: name}
	require.NoError(t, f.store.Members.Create(context.Background(), m))
	return m
}

func (f *fixture) job(t *testing.T) *domain.Job {
	t.Helper()
	j, err := f.svc.Create(context.Background(), Input{
		ClientID:      f.client.ID,
		Description:   "Mulch beds",
		ScheduledDate: "2024-05-20T08:00",
	})
	require.NoError(t, err)
	return j
}

func TestCreate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	crew := &domain.Crew{Name: "North"}
	require.NoError(t, f.store.Crews.Create(ctx, crew))
	sam, kim := f.member(t, "Sam"), f.member(t, "Kim")

	j, err := f.svc.Create(ctx, Input{
		ClientID:       f.client.ID,
		Description:    "  Install pavers ",
		ScheduledDate:  "2024-05-20T08:00:00",
		CrewID:         &crew.ID,
		Crew:           "North + temp",
		EstimatedHours: testutil.Float(6),
		MemberIDs:      []int64{sam.ID, kim.ID, sam.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobScheduled, j.Status)
	assert.Equal(t, "Install pavers", j.Description)
	assert.True(t, time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC).Equal(j.ScheduledDate))
	require.NotNil(t, j.CrewRef)
	assert.Equal(t, "North", j.CrewRef.Name)
	require.NotNil(t, j.Client)
	assert.Equal(t, "Ann", j.Client.Name)
	require.Len(t, j.Members, 2)
	assert.Equal(t, "Kim", j.Members[0].Name)
	assert.Nil(t, j.ActualCost)
	assert.Equal(t, []string{activity.JobCreated}, f.events.Types())
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"missing description", Input{ClientID: f.client.ID, ScheduledDate: "2024-05-20"}, domain.ErrValidation},
		{"bad date", Input{ClientID: f.client.ID, Description: "x", ScheduledDate: "May 20"}, domain.ErrValidation},
		{"negative estimate", Input{ClientID: f.client.ID, Description: "x", ScheduledDate: "2024-05-20", EstimatedCost: testutil.Float(-5)}, domain.ErrValidation},
		{"unknown client", Input{ClientID: 999, Description: "x", ScheduledDate: "2024-05-20"}, domain.ErrNotFound},
		{"unknown crew", Input{ClientID: f.client.ID, Description: "x", ScheduledDate: "2024-05-20", CrewID: testutil.Int64(77)}, domain.ErrNotFound},
		{"unknown member", Input{ClientID: f.client.ID, Description: "x", ScheduledDate: "2024-05-20", MemberIDs: []int64{55}}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tt.in)
			require.ErrorIs(t, err, tt.want)
		})
	}

	jobs, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestParseSchedule(t *testing.T) {
	for _, raw := range []string{"2024-05-20", "2024-05-20T08:00", "2024-05-20T08:00:00", "2024-05-20T10:00:00+02:00"} {
		got, err := ParseSchedule(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 20, got.Day(), raw)
		assert.Equal(t, time.UTC, got.Location(), raw)
	}
	_, err := ParseSchedule("")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)

	_, err := f.svc.UpdateStatus(ctx, j.ID, "Done")
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.svc.UpdateStatus(ctx, j.ID, "In progress")
	require.NoError(t, err)
	assert.Equal(t, domain.JobInProgress, got.Status)

	got, err = f.svc.UpdateStatus(ctx, j.ID, "Scheduled")
	require.NoError(t, err)
	assert.Equal(t, domain.JobScheduled, got.Status)

	got, err = f.svc.UpdateStatus(ctx, j.ID, "Completed")
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	assert.Nil(t, got.ActualHours)
	assert.Nil(t, got.ActualCost)

	_, err = f.svc.UpdateStatus(ctx, j.ID, "Scheduled")
	require.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestComplete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)

	_, err := f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(3), ActualCost: testutil.Float(150), Status: "In progress"})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(math.NaN()), ActualCost: testutil.Float(150)})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(3), ActualCost: testutil.Float(-1)})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(3.5), ActualCost: testutil.Float(150)})
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, got.Status)
	require.NotNil(t, got.ActualHours)
	assert.Equal(t, 3.5, *got.ActualHours)
	require.NotNil(t, got.ActualCost)
	assert.Equal(t, 150.0, *got.ActualCost)

	_, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(1), ActualCost: testutil.Float(1)})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.svc.Complete(ctx, 9999, CompleteInput{ActualHours: testutil.Float(1), ActualCost: testutil.Float(1)})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestComplete_RequiresActuals(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)

	_, err := f.svc.Complete(ctx, j.ID, CompleteInput{})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(2)})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualCost: testutil.Float(80)})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := f.svc.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobScheduled, got.Status)
	assert.Nil(t, got.ActualHours)
	assert.Nil(t, got.ActualCost)
	assert.Empty(t, f.events.Types()[1:])

	// zero is a real value, not a missing one
	got, err = f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(0), ActualCost: testutil.Float(0)})
	require.NoError(t, err)
	require.NotNil(t, got.ActualCost)
	assert.Zero(t, *got.ActualCost)
}

func TestCompletedJobIsFrozen(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)
	m := f.member(t, "Sam")

	_, err := f.svc.Complete(ctx, j.ID, CompleteInput{ActualHours: testutil.Float(2), ActualCost: testutil.Float(100)})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, j.ID, Input{ClientID: f.client.ID, Description: "changed", ScheduledDate: "2024-06-01"})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.svc.AssignMembers(ctx, j.ID, []int64{m.ID})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = f.svc.UpdateStatus(ctx, j.ID, "In progress")
	require.ErrorIs(t, err, domain.ErrInvalidState)

	got, err := f.svc.Get(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mulch beds", got.Description)
	assert.Empty(t, got.Members)

	// field notes still allowed
	_, err = f.svc.NotifyOnMyWay(ctx, j.ID)
	require.NoError(t, err)
	task, err := f.svc.AddTask(ctx, j.ID, "Photo of finished beds")
	require.NoError(t, err)
	_, err = f.svc.ToggleTask(ctx, task.ID)
	require.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)
	sam := f.member(t, "Sam")
	other := testutil.Client(t, f.store, "Bob")

	got, err := f.svc.Update(ctx, j.ID, Input{
		ClientID:      other.ID,
		Description:   "Mulch and edge",
		ScheduledDate: "2024-05-21",
		Crew:          "South",
		EstimatedCost: testutil.Float(200),
		MemberIDs:     []int64{sam.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.ClientID)
	assert.Equal(t, "Mulch and edge", got.Description)
	assert.Equal(t, "South", got.Crew)
	require.Len(t, got.Members, 1)

	// nil member list keeps the roster
	got, err = f.svc.Update(ctx, j.ID, Input{ClientID: other.ID, Description: "Mulch", ScheduledDate: "2024-05-21"})
	require.NoError(t, err)
	assert.Len(t, got.Members, 1)
	assert.Nil(t, got.EstimatedCost)

	// empty list clears it
	got, err = f.svc.Update(ctx, j.ID, Input{ClientID: other.ID, Description: "Mulch", ScheduledDate: "2024-05-21", MemberIDs: []int64{}})
	require.NoError(t, err)
	assert.Empty(t, got.Members)
}

func TestAssignMembers_ReplacesWholesale(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)
	a, b, c := f.member(t, "A"), f.member(t, "B"), f.member(t, "C")

	got, err := f.svc.AssignMembers(ctx, j.ID, []int64{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got.Members, 2)

	got, err = f.svc.AssignMembers(ctx, j.ID, []int64{c.ID, c.ID})
	require.NoError(t, err)
	require.Len(t, got.Members, 1)
	assert.Equal(t, c.ID, got.Members[0].ID)

	_, err = f.svc.AssignMembers(ctx, j.ID, []int64{a.ID, 404})
	require.ErrorIs(t, err, domain.ErrNotFound)
	got, err = f.svc.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, got.Members, 1, "failed assignment must not touch the roster")

	byMember, err := f.svc.List(ctx, ListFilter{MemberID: c.ID})
	require.NoError(t, err)
	require.Len(t, byMember, 1)
}

func TestNotifyOnMyWay_Overwrites(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)

	got, err := f.svc.NotifyOnMyWay(ctx, j.ID)
	require.NoError(t, err)
	require.NotNil(t, got.OnMyWaySentAt)
	assert.True(t, fixedNow.Equal(*got.OnMyWaySentAt))

	later := fixedNow.Add(2 * time.Hour)
	f.svc.now = func() time.Time { return later }
	got, err = f.svc.NotifyOnMyWay(ctx, j.ID)
	require.NoError(t, err)
	assert.True(t, later.Equal(*got.OnMyWaySentAt))

	_, err = f.svc.NotifyOnMyWay(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTasks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	j := f.job(t)

	_, err := f.svc.AddTask(ctx, j.ID, "  ")
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.AddTask(ctx, 9999, "Rake")
	require.ErrorIs(t, err, domain.ErrNotFound)

	first, err := f.svc.AddTask(ctx, j.ID, "Rake")
	require.NoError(t, err)
	second, err := f.svc.AddTask(ctx, j.ID, "Edge")
	require.NoError(t, err)
	assert.False(t, first.Completed)

	toggled, err := f.svc.ToggleTask(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	toggled, err = f.svc.ToggleTask(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)
	_, err = f.svc.ToggleTask(ctx, second.ID)
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, j.ID)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 2)
	assert.Equal(t, "Rake", got.Tasks[0].Description)
	assert.False(t, got.Tasks[0].Completed)
	assert.True(t, got.Tasks[1].Completed)

	_, err = f.svc.ToggleTask(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalendar(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, d := range []string{"2023-12-31T23:00", "2024-01-01T07:00", "2024-01-01T15:00", "2024-01-31", "2024-02-01"} {
		_, err := f.svc.Create(ctx, Input{ClientID: f.client.ID, Description: "Job " + d, ScheduledDate: d})
		require.NoError(t, err)
	}

	cal, err := f.svc.Calendar(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, MonthRef{Year: 2024, Month: 1}, cal.MonthRef)
	assert.Equal(t, MonthRef{Year: 2023, Month: 12}, cal.Prev)
	assert.Equal(t, MonthRef{Year: 2024, Month: 2}, cal.Next)
	require.Len(t, cal.Days, 31)
	assert.Equal(t, "2024-01-01", cal.Days[0].Date)
	assert.Len(t, cal.Days[0].Jobs, 2)
	assert.Len(t, cal.Days[30].Jobs, 1)
	assert.Empty(t, cal.Days[10].Jobs)

	cal, err = f.svc.Calendar(ctx, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, MonthRef{Year: 2023, Month: 12}, cal.MonthRef)
	assert.Len(t, cal.Days[30].Jobs, 1)

	cal, err = f.svc.Calendar(ctx, 2023, 13)
	require.NoError(t, err)
	assert.Equal(t, MonthRef{Year: 2024, Month: 1}, cal.MonthRef)

	_, err = f.svc.Calendar(ctx, 0, 5)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestList_StatusFilter(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.job(t)
	f.job(t)
	_, err := f.svc.UpdateStatus(ctx, a.ID, "In progress")
	require.NoError(t, err)

	got, err := f.svc.List(ctx, ListFilter{Status: "In progress"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ID)

	_, err = f.svc.List(ctx, ListFilter{Status: "Lost"})
	require.ErrorIs(t, err, domain.ErrValidation)
}
