package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/flotasur/fleet-management/internal/alerts"
	"github.com/flotasur/fleet-management/internal/compliance"
	"github.com/flotasur/fleet-management/internal/db"
)

// ReportMailer delivers a rendered report to a recipient list.
type ReportMailer interface {
	Send(recipients []string, subject, htmlBody string) error
}

// AlertHandler builds notification reports and delivers them by e-mail.
// Delivery failures come back as a JSON outcome, never a crash.
type AlertHandler struct {
	source     *compliance.Source
	recipients db.RecipientCollection
	mailer     ReportMailer
	log        *logrus.Logger
	now        func() time.Time
}

func NewAlertHandler(source *compliance.Source, recipients db.RecipientCollection, mailer ReportMailer, log *logrus.Logger) *AlertHandler {
	return &AlertHandler{source: source, recipients: recipients, mailer: mailer, log: log, now: time.Now}
}

// SendResult is the delivery outcome.
type SendResult struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients,omitempty"`
	Alerts     int      `json:"alerts"`
}

// Preview serves the report payload without sending anything.
func (h *AlertHandler) Preview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.buildReport(r)
	if err != nil {
		http.Error(w, "Failed to build alert report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Send builds the report and mails it to active recipients subscribed to
// critical alerts.
func (h *AlertHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := h.buildReport(r)
	if err != nil {
		http.Error(w, "Failed to build alert report", http.StatusInternalServerError)
		return
	}

	recipients, err := h.recipients.FindRecipients(r.Context(), bson.M{
		"active":          true,
		"critical_alerts": true,
	})
	if err != nil {
		http.Error(w, "Failed to load recipients", http.StatusInternalServerError)
		return
	}
	if len(recipients) == 0 {
		writeJSON(w, http.StatusOK, SendResult{
			Success: false,
			Message: "No active recipients are subscribed to alerts",
			Alerts:  report.TotalAlerts,
		})
		return
	}

	addresses := make([]string, 0, len(recipients))
	for _, rec := range recipients {
		addresses = append(addresses, rec.Email)
	}

	body, err := alerts.RenderHTML(report)
	if err != nil {
		http.Error(w, "Failed to render alert report", http.StatusInternalServerError)
		return
	}

	if err := h.mailer.Send(addresses, report.Subject(), body); err != nil {
		h.log.WithError(err).Error("Alert delivery failed")
		writeJSON(w, http.StatusOK, SendResult{
			Success: false,
			Message: fmt.Sprintf("Delivery failed: %v", err),
			Alerts:  report.TotalAlerts,
		})
		return
	}

	h.log.WithFields(logrus.Fields{
		"recipients": len(addresses),
		"alerts":     report.TotalAlerts,
	}).Info("Alert report sent")
	writeJSON(w, http.StatusOK, SendResult{
		Success:    true,
		Message:    fmt.Sprintf("Report sent to %d recipient(s)", len(addresses)),
		Recipients: addresses,
		Alerts:     report.TotalAlerts,
	})
}

func (h *AlertHandler) buildReport(r *http.Request) (alerts.Report, error) {
	now := h.now().UTC()

	obligations, err := h.source.AllObligations(r.Context(), now)
	if err != nil {
		return alerts.Report{}, err
	}
	outOfService, err := h.source.OutOfServiceVehicles(r.Context())
	if err != nil {
		return alerts.Report{}, err
	}
	return alerts.BuildReport(now, obligations, outOfService), nil
}
