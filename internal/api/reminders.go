package api

import (
	"context"
	"fmt"
	"net/http"

	"backoffice/internal/middleware"
	"backoffice/internal/reminder"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ReminderTester sends a sample reminder to one user
type ReminderTester interface {
	SendTest(ctx context.Context, userID uint) (reminder.TestOutcome, error)
}

// TestReminderHandler mails a sample project reminder to :userId's notification address
func TestReminderHandler(reminders ReminderTester) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := targetUser(c)
		if err != nil {
			respondError(c, err)
			return
		}
		out, err := reminders.SendTest(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		middleware.Logger(c).WithFields(logrus.Fields{
			"user_id":   userID,
			"recipient": out.Recipient,
			"simulated": out.Simulated,
		}).Info("Test reminder sent")

		msg := fmt.Sprintf("Test reminder sent to %s!", out.Recipient)
		if out.Simulated {
			msg = fmt.Sprintf("Test project reminder email simulated successfully to %s. (SMTP not configured)", out.Recipient)
		}
		c.JSON(http.StatusOK, gin.H{"message": msg})
	}
}
