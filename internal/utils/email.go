package utils

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"catalogue_back_end/internal/config"
)

// Mailer envoie les e-mails HTML via SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled indique si un serveur SMTP et un destinataire sont configurés.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.NotifyTo != ""
}

// Recipient est l'adresse qui reçoit les notifications internes.
func (m *Mailer) Recipient() string {
	return m.cfg.NotifyTo
}

func (m *Mailer) message(to, subject, htmlBody string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)
	return msg, nil
}

func (m *Mailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg, err := m.message(to, subject, htmlBody)
	if err != nil {
		return fmt.Errorf("construction du message: %w", err)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("client SMTP: %w", err)
	}

	zap.S().Infow("📤 Envoi de l'e-mail", "to", to, "subject", subject)
	return client.DialAndSendWithContext(ctx, msg)
}

var submissionTitles = map[string]string{
	"lead":              "Nouvelle demande commerciale",
	"contact_form":      "Nouveau message de contact",
	"catalogue_request": "Nouvelle demande de catalogue",
}

// SubmissionSubject retourne le sujet de l'e-mail pour un type de soumission.
func SubmissionSubject(kind string) string {
	if title, ok := submissionTitles[kind]; ok {
		return "📨 " + title
	}
	return "📨 Nouvelle soumission"
}

// SubmissionEmailHTML génère le HTML de notification d'une soumission. Les
// champs sont triés par nom et échappés.
func SubmissionEmailHTML(kind, id string, fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var rows strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&rows, `
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd; font-weight: bold;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
			</tr>`, html.EscapeString(k), html.EscapeString(cast.ToString(fields[k])))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<head>
	<meta charset="UTF-8">
	<title>%s</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">%s</h2>
		<p>Référence : <strong>%s</strong></p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tbody>%s
			</tbody>
		</table>
	</div>
</body>
</html>`, html.EscapeString(SubmissionSubject(kind)), html.EscapeString(strings.TrimPrefix(SubmissionSubject(kind), "📨 ")),
		html.EscapeString(id), rows.String())
}
