package tests

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushub/api/internal/model"
	"github.com/campushub/api/internal/repository"
	"github.com/campushub/api/internal/service"
	"github.com/campushub/api/internal/testing/fixtures"
	"github.com/campushub/api/internal/testing/testdb"
)

/*
FEATURE: Event Registration
DOMAIN: Events

ACCEPTANCE CRITERIA:
===================

AC-REG-001: Register With Capacity
  GIVEN an event with open spots
  WHEN a student registers
  THEN the student appears in the registered list
  AND a confirmation notification lands in their feed

AC-REG-002: Full Event Waitlists
  GIVEN an event at capacity
  WHEN another student registers
  THEN the student joins the waitlist in FIFO order
  AND receives a waitlist notification with their position

AC-REG-003: Registration Is Idempotent
  GIVEN a student already registered for an event
  WHEN they register again
  THEN their state is unchanged
  AND no duplicate notification is published

AC-REG-004: Departure Promotes Waitlist Head
  GIVEN a full event with a waitlist
  WHEN a registered attendee unregisters
  THEN the waitlist head is promoted into the freed spot
  AND the promoted user receives a promotion notification

AC-REG-005: Promoted User Starts Clean
  GIVEN a departing attendee with a confirmed RSVP and a check-in
  WHEN the waitlist head is promoted into their spot
  THEN the promoted user carries no RSVP and no check-in

AC-REG-006: Waitlist Departure Does Not Promote
  GIVEN a full event with a waitlist
  WHEN a waitlisted user leaves
  THEN the registered list is untouched
  AND the remaining waitlist shifts up

AC-REG-007: Closed Status
  GIVEN a full event, or no event at all
  WHEN an outsider asks for their registration state
  THEN the status is closed

AC-REG-008: Unknown User Departure Is A No-Op
  GIVEN an event a user never touched
  WHEN that user unregisters
  THEN nothing changes and no error is returned
*/

// createRegistryService builds a registry service over real repositories.
func createRegistryService(t *testing.T, tdb *testdb.TestDB) *service.RegistryService {
	t.Helper()

	notifier := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: repository.NewNotificationRepository(tdb.DB),
	})

	return service.NewRegistryService(service.RegistryServiceConfig{
		EventRepo: repository.NewEventRepository(tdb.DB),
		UserRepo:  repository.NewUserRepository(tdb.DB),
		Notifier:  notifier,
	})
}

func createNotificationService(t *testing.T, tdb *testdb.TestDB) *service.NotificationService {
	t.Helper()
	return service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: repository.NewNotificationRepository(tdb.DB),
	})
}

func TestRegistration_RegisterWithCapacity(t *testing.T) {
	// AC-REG-001: Register With Capacity
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(10))
	student := f.CreateUser(t)

	state, err := svc.Register(ctx, student.ID, event.ID)
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)
	assert.Equal(t, model.WaitlistPositionNone, state.Position)
	assert.False(t, state.RSVP)
	assert.False(t, state.CheckedIn)

	// The confirmation notification should be in the student's feed.
	feed, err := createNotificationService(t, tdb).List(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Contains(t, feed[0].Message, "You registered for")
	assert.Equal(t, event.ID, feed[0].EventID)
	assert.False(t, feed[0].Read)
}

func TestRegistration_FullEventWaitlists(t *testing.T) {
	// AC-REG-002: Full Event Waitlists
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(1))

	first := f.CreateUser(t)
	second := f.CreateUser(t)
	third := f.CreateUser(t)

	state, err := svc.Register(ctx, first.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)

	state, err = svc.Register(ctx, second.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusWaitlisted, state.Status)
	assert.Equal(t, 1, state.Position)

	state, err = svc.Register(ctx, third.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusWaitlisted, state.Status)
	assert.Equal(t, 2, state.Position)

	feed, err := createNotificationService(t, tdb).List(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, fmt.Sprintf("You joined the waitlist (#1) for %q", event.Title), feed[0].Message)
}

func TestRegistration_Idempotent(t *testing.T) {
	// AC-REG-003: Registration Is Idempotent
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(5))
	student := f.CreateUser(t)

	_, err := svc.Register(ctx, student.ID, event.ID)
	require.NoError(t, err)

	state, err := svc.Register(ctx, student.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)

	// Only the first registration publishes a notification.
	feed, err := createNotificationService(t, tdb).List(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestRegistration_DeparturePromotesWaitlistHead(t *testing.T) {
	// AC-REG-004: Departure Promotes Waitlist Head
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(1))

	attendee := f.CreateUser(t)
	waiting := f.CreateUser(t)

	_, err := svc.Register(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, waiting.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.Unregister(ctx, attendee.ID, event.ID)
	require.NoError(t, err)

	state, err := svc.GetRegistrationState(ctx, waiting.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)
	assert.Equal(t, model.WaitlistPositionNone, state.Position)

	feed, err := createNotificationService(t, tdb).List(ctx, waiting.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	// Newest first.
	assert.Equal(t, fmt.Sprintf("A spot opened up! You've been promoted from the waitlist for %q", event.Title), feed[0].Message)
}

func TestRegistration_PromotedUserStartsClean(t *testing.T) {
	// AC-REG-005: Promoted User Starts Clean
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(1))

	attendee := f.CreateUser(t)
	waiting := f.CreateUser(t)

	_, err := svc.Register(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, waiting.ID, event.ID)
	require.NoError(t, err)

	// The departing attendee confirmed and checked in.
	_, err = svc.ConfirmRSVP(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	checkin, err := svc.CheckIn(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	require.Equal(t, model.CheckInOutcomeSuccess, checkin.Outcome)

	_, err = svc.Unregister(ctx, attendee.ID, event.ID)
	require.NoError(t, err)

	state, err := svc.GetRegistrationState(ctx, waiting.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)
	assert.False(t, state.RSVP, "promoted user must not inherit the departing user's RSVP")
	assert.False(t, state.CheckedIn, "promoted user must not inherit the departing user's check-in")
}

func TestRegistration_WaitlistDepartureDoesNotPromote(t *testing.T) {
	// AC-REG-006: Waitlist Departure Does Not Promote
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(1))

	attendee := f.CreateUser(t)
	firstWaiting := f.CreateUser(t)
	secondWaiting := f.CreateUser(t)

	_, err := svc.Register(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, firstWaiting.ID, event.ID)
	require.NoError(t, err)
	_, err = svc.Register(ctx, secondWaiting.ID, event.ID)
	require.NoError(t, err)

	_, err = svc.Unregister(ctx, firstWaiting.ID, event.ID)
	require.NoError(t, err)

	// The attendee keeps their spot.
	state, err := svc.GetRegistrationState(ctx, attendee.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusRegistered, state.Status)

	// The remaining waitlister shifts to the head.
	state, err = svc.GetRegistrationState(ctx, secondWaiting.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusWaitlisted, state.Status)
	assert.Equal(t, 1, state.Position)

	// No promotion notification was published.
	feed, err := createNotificationService(t, tdb).List(ctx, secondWaiting.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Contains(t, feed[0].Message, "You joined the waitlist")
}

func TestRegistration_ClosedStatus(t *testing.T) {
	// AC-REG-007: Closed Status
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(1))

	attendee := f.CreateUser(t)
	outsider := f.CreateUser(t)

	_, err := svc.Register(ctx, attendee.ID, event.ID)
	require.NoError(t, err)

	t.Run("FullEventOutsider", func(t *testing.T) {
		state, err := svc.GetRegistrationState(ctx, outsider.ID, event.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RegistrationStatusClosed, state.Status)
		assert.Equal(t, model.WaitlistPositionNone, state.Position)
	})

	t.Run("MissingEvent", func(t *testing.T) {
		state, err := svc.GetRegistrationState(ctx, outsider.ID, "event:nonexistent")
		require.NoError(t, err)
		assert.Equal(t, model.RegistrationStatusClosed, state.Status)
		assert.Equal(t, model.WaitlistPositionNone, state.Position)
	})
}

func TestRegistration_UnknownUserDepartureIsNoOp(t *testing.T) {
	// AC-REG-008: Unknown User Departure Is A No-Op
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(3))

	attendee := f.CreateUser(t)
	stranger := f.CreateUser(t)

	_, err := svc.Register(ctx, attendee.ID, event.ID)
	require.NoError(t, err)

	before, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)

	state, err := svc.Unregister(ctx, stranger.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RegistrationStatusAvailable, state.Status)

	after, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Version, after.Version, "a no-op departure must not write")
	assert.Len(t, after.RegisteredUsers, 1)
}

func TestRegistration_RSVP(t *testing.T) {
	tdb := testdb.New(t)
	defer tdb.Close()

	f := fixtures.New(tdb.DB)
	svc := createRegistryService(t, tdb)
	ctx := context.Background()

	organizer := f.CreateOrganizer(t)
	event := f.CreateEvent(t, organizer, fixtures.WithCapacity(2))
	student := f.CreateUser(t)

	// RSVP before registering is a silent no-op.
	state, err := svc.ConfirmRSVP(ctx, student.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, state.RSVP)

	feed, err := createNotificationService(t, tdb).List(ctx, student.ID)
	require.NoError(t, err)
	assert.Empty(t, feed, "a no-op confirmation must not notify")

	_, err = svc.Register(ctx, student.ID, event.ID)
	require.NoError(t, err)

	state, err = svc.ConfirmRSVP(ctx, student.ID, event.ID)
	require.NoError(t, err)
	assert.True(t, state.RSVP)

	feed, err = createNotificationService(t, tdb).List(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, fmt.Sprintf("You confirmed your RSVP for %q", event.Title), feed[0].Message)

	state, err = svc.CancelRSVP(ctx, student.ID, event.ID)
	require.NoError(t, err)
	assert.False(t, state.RSVP)
}
