package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"backoffice/internal/db/dbtest"
	"backoffice/internal/domain"
	"backoffice/internal/mailer"
	"backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSender records messages and fails for chosen recipients
type fakeSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	failTo map[string]bool
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failTo[msg.To] {
		return errors.New("smtp: 535 authentication failed")
	}
	f.sent = append(f.sent, msg)
	return nil
}

type countingRecorder struct{ sent, skipped, failed int }

func (r *countingRecorder) ReminderRun(sent, skipped, failed int) {
	r.sent, r.skipped, r.failed = sent, skipped, failed
}

func strPtr(s string) *string { return &s }

func newService(t *testing.T, sender mailer.Sender) (*Service, *store.Store, *countingRecorder) {
	t.Helper()
	repos := store.New(dbtest.New(t))
	loc, err := time.LoadLocation("Africa/Johannesburg")
	require.NoError(t, err)

	rec := &countingRecorder{}
	svc := NewService(repos.Projects, repos.Settings, sender, rec, Config{
		From: "app@example.com", LeadDays: 5, OwnerID: 1, Location: loc,
	})
	// 09:00 local on 1 June 2024
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC) }
	return svc, repos, rec
}

func setOwnerEmail(t *testing.T, repos *store.Store, email string) {
	t.Helper()
	require.NoError(t, repos.Settings.Update(context.Background(), 1, &domain.UserSettings{
		PhoneticName: "Boss", EmailForNotifications: email, CurrencySymbol: "R", DateFormat: "YYYY-MM-DD",
	}))
}

func TestRunOnceSendsExactlyOneReminderForDueProject(t *testing.T) {
	sender := &fakeSender{}
	svc, repos, rec := newService(t, sender)
	ctx := context.Background()
	setOwnerEmail(t, repos, "boss@example.com")

	client := domain.Client{Name: "Acme", Email: "a@acme.test"}
	require.NoError(t, repos.Clients.Create(ctx, &client))
	clientID := client.ID
	require.NoError(t, repos.Projects.Create(ctx, &domain.Project{
		ClientID: &clientID, ProjectName: "Website", StartDate: "2024-05-01", EndDate: strPtr("2024-06-06"), Status: domain.ProjectInProgress,
	}))
	require.NoError(t, repos.Projects.Create(ctx, &domain.Project{
		ProjectName: "Finished", StartDate: "2024-05-01", EndDate: strPtr("2024-06-06"), Status: domain.ProjectCompleted,
	}))

	res, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Target: "2024-06-06", Sent: 1}, res)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "boss@example.com", msg.To)
	assert.Equal(t, "app@example.com", msg.From)
	assert.Equal(t, "Project Due Soon: Website", msg.Subject)
	assert.Contains(t, msg.HTML, "Hello Boss")
	assert.Contains(t, msg.HTML, "<strong>Acme</strong>")
	assert.Contains(t, msg.HTML, "2024-06-06")
	assert.Equal(t, 1, rec.sent)
}

func TestRunOnceUsesLocalDate(t *testing.T) {
	svc, _, _ := newService(t, &fakeSender{})
	// 23:30 UTC on 31 May is already 1 June in Johannesburg
	svc.now = func() time.Time { return time.Date(2024, 5, 31, 23, 30, 0, 0, time.UTC) }
	assert.Equal(t, "2024-06-06", svc.targetDate())
}

func TestRunOnceSkipsWithoutEmailAndContinuesAfterFailure(t *testing.T) {
	sender := &fakeSender{failTo: map[string]bool{"boss@example.com": true}}
	svc, repos, rec := newService(t, sender)
	ctx := context.Background()

	require.NoError(t, repos.Projects.Create(ctx, &domain.Project{
		ProjectName: "Internal", StartDate: "2024-05-01", EndDate: strPtr("2024-06-06"), Status: domain.ProjectPlanning,
	}))

	// Seeded owner has no notification email yet
	res, err := svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, sender.sent)

	setOwnerEmail(t, repos, "boss@example.com")
	require.NoError(t, repos.Projects.Create(ctx, &domain.Project{
		ProjectName: "Second", StartDate: "2024-05-01", EndDate: strPtr("2024-06-06"), Status: domain.ProjectOnHold,
	}))
	res, err = svc.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Failed, "each failure is counted and the run carries on")
	assert.Equal(t, 2, rec.failed)
}

func TestSendTest(t *testing.T) {
	sender := &fakeSender{}
	svc, repos, _ := newService(t, sender)
	ctx := context.Background()

	_, err := svc.SendTest(ctx, 1)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err), "no email configured")

	_, err = svc.SendTest(ctx, 99)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err), "no settings row")

	setOwnerEmail(t, repos, "boss@example.com")
	out, err := svc.SendTest(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, TestOutcome{Recipient: "boss@example.com"}, out)
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].HTML, "Test Project Reminder")

	sender.failTo = map[string]bool{"boss@example.com": true}
	_, err = svc.SendTest(ctx, 1)
	assert.Equal(t, domain.CodeMail, domain.CodeOf(err))
}

func TestSendTestSimulated(t *testing.T) {
	svc, repos, _ := newService(t, mailer.New(mailer.Config{}))
	setOwnerEmail(t, repos, "boss@example.com")

	out, err := svc.SendTest(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, out.Simulated)
}

func TestRunOnceReturnsQueryError(t *testing.T) {
	svc := NewService(failingFinder{}, nil, &fakeSender{}, nil, Config{LeadDays: 5})
	_, err := svc.RunOnce(context.Background())
	assert.Error(t, err)
}

type failingFinder struct{}

func (failingFinder) DueOn(context.Context, string, uint) ([]domain.DueProject, error) {
	return nil, errors.New("database is locked")
}
