// Package jobs holds the background jobs the gateway queues.
package jobs

import (
	"context"
	"fmt"
	"html/template"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/souqhup/app/models"
	"github.com/shashiranjanraj/souqhup/pkg/logger"
	"github.com/shashiranjanraj/souqhup/pkg/mail"
)

const BetaInviteName = "beta_invite"

var betaConfirmation = template.Must(template.New("beta_confirmation").Parse(
	`<p>Hello {{.Name}},</p><p>{{.Company}} is on the SOUQHUP beta list. We will write again when your invitation is ready.</p><p>Reference: {{.UUID}}</p>`))

// BetaInvite records a request to join the public beta and, when a mailer
// is set, confirms it to the requester. Re-running it for the same id
// stores nothing new.
type BetaInvite struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`

	db     *gorm.DB
	mailer mail.Sender
}

// NewBetaInvite returns an empty job bound to db and mailer, for queue
// registration. mailer may be nil.
func NewBetaInvite(db *gorm.DB, mailer mail.Sender) *BetaInvite {
	return &BetaInvite{db: db, mailer: mailer}
}

func (j *BetaInvite) JobName() string { return BetaInviteName }

func (j *BetaInvite) Handle(ctx context.Context) error {
	if j.db == nil {
		return fmt.Errorf("beta invite %s: no database", j.UUID)
	}

	row := models.BetaInvite{UUID: j.UUID, Name: j.Name, Email: j.Email, Company: j.Company, Status: "pending"}
	err := j.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "uuid"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("beta invite %s: %w", j.UUID, err)
	}

	logger.WithCtx(ctx).Info("beta invite stored", "uuid", j.UUID, "email", j.Email)

	if j.mailer == nil {
		return nil
	}
	msg := mail.To(j.Email).Subject("You're on the SOUQHUP beta list")
	if err := msg.Render(betaConfirmation, j); err != nil {
		return err
	}
	// A lost confirmation is logged, not retried; the invite is already stored.
	if err := j.mailer.Send(ctx, msg); err != nil {
		logger.WithCtx(ctx).Warn("beta invite confirmation not sent", "uuid", j.UUID, "error", err)
	}
	return nil
}
