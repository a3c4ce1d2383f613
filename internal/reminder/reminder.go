// Package reminder emails the owner about projects ending soon.
package reminder

import (
	"context"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/mailer"

	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// DueFinder lists open projects ending on a date
type DueFinder interface {
	DueOn(ctx context.Context, endDate string, ownerID uint) ([]domain.DueProject, error)
}

// SettingsGetter loads a user's notification settings
type SettingsGetter interface {
	Get(ctx context.Context, userID uint) (*domain.UserSettings, error)
}

// Recorder receives run outcomes, typically a metrics sink
type Recorder interface {
	ReminderRun(sent, skipped, failed int)
}

// Config controls who is reminded and how far ahead
type Config struct {
	From     string         // From header
	LeadDays int            // Remind this many days before end_date
	OwnerID  uint           // User whose settings hold the notification email
	Location *time.Location // Zone that defines "today"
}

// Result summarizes one run
type Result struct {
	Target  string // end_date that was matched
	Sent    int
	Skipped int // No notification email configured
	Failed  int
}

// Service finds due projects and mails reminders
type Service struct {
	projects DueFinder
	settings SettingsGetter
	sender   mailer.Sender
	recorder Recorder
	cfg      Config
	now      func() time.Time
}

// NewService creates a Service. recorder may be nil.
func NewService(projects DueFinder, settings SettingsGetter, sender mailer.Sender, recorder Recorder, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{projects: projects, settings: settings, sender: sender, recorder: recorder, cfg: cfg, now: time.Now}
}

// targetDate is today in the configured zone plus the lead time
func (s *Service) targetDate() string {
	return s.now().In(s.cfg.Location).AddDate(0, 0, s.cfg.LeadDays).Format(dateLayout)
}

// RunOnce sends one reminder per due project. A failed send is logged and
// counted; it never stops the remaining sends. Only a failed query returns an error.
func (s *Service) RunOnce(ctx context.Context) (Result, error) {
	res := Result{Target: s.targetDate()}
	log := logrus.WithFields(logrus.Fields{"job": "project_reminder", "target_date": res.Target})
	log.Info("Running daily project reminder check")

	due, err := s.projects.DueOn(ctx, res.Target, s.cfg.OwnerID)
	if err != nil {
		log.WithError(err).Error("Failed to fetch projects for reminder")
		return res, err
	}
	if len(due) == 0 {
		log.Info("No projects found due")
	}

	for _, p := range due {
		plog := log.WithFields(logrus.Fields{"project_id": p.ProjectID, "project_name": p.ProjectName})
		if p.NotificationEmail == nil || *p.NotificationEmail == "" {
			plog.Info("No notification email set, skipping")
			res.Skipped++
			continue
		}
		msg, err := s.dueSoonMessage(p)
		if err != nil {
			plog.WithError(err).Error("Failed to render reminder")
			res.Failed++
			continue
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			plog.WithError(err).Error("Failed to send reminder email")
			res.Failed++
			continue
		}
		plog.WithField("recipient", msg.To).Info("Reminder email sent")
		res.Sent++
	}

	if s.recorder != nil {
		s.recorder.ReminderRun(res.Sent, res.Skipped, res.Failed)
	}
	log.WithFields(logrus.Fields{"sent": res.Sent, "skipped": res.Skipped, "failed": res.Failed}).Info("Reminder run finished")
	return res, nil
}

func (s *Service) dueSoonMessage(p domain.DueProject) (mailer.Message, error) {
	body, err := render(dueSoonTemplate, mailData{
		Recipient:   valueOr(p.OwnerName, "User"),
		ProjectName: p.ProjectName,
		ClientName:  valueOr(p.ClientName, "Internal"),
		EndDate:     p.EndDate,
		LeadDays:    s.cfg.LeadDays,
	})
	if err != nil {
		return mailer.Message{}, err
	}
	return mailer.Message{
		From:    s.cfg.From,
		To:      *p.NotificationEmail,
		Subject: "Project Due Soon: " + p.ProjectName,
		HTML:    body,
	}, nil
}

// TestOutcome describes a manual test reminder
type TestOutcome struct {
	Recipient string
	Simulated bool
}

// SendTest mails a sample reminder to userID's notification address.
// A user without an address gets a VALIDATION_ERROR; a failed send a MAIL_ERROR.
func (s *Service) SendTest(ctx context.Context, userID uint) (TestOutcome, error) {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return TestOutcome{}, domain.Validation("Notification email not set in settings.")
		}
		return TestOutcome{}, err
	}
	if settings.EmailForNotifications == "" {
		return TestOutcome{}, domain.Validation("Notification email not set in settings.")
	}

	recipient := settings.PhoneticName
	if recipient == "" {
		recipient = "User"
	}
	body, err := render(testTemplate, mailData{
		Recipient:   recipient,
		ProjectName: "Test Project Reminder",
		ClientName:  "Internal",
		EndDate:     s.targetDate(),
		LeadDays:    s.cfg.LeadDays,
	})
	if err != nil {
		return TestOutcome{}, domain.MailFailure("Failed to render test reminder", err)
	}
	msg := mailer.Message{
		From:    s.cfg.From,
		To:      settings.EmailForNotifications,
		Subject: "Reminder: Project Due Soon!",
		HTML:    body,
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		return TestOutcome{}, domain.MailFailure("Failed to send test reminder email", err)
	}
	return TestOutcome{Recipient: msg.To, Simulated: mailer.IsSimulated(s.sender)}, nil
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
