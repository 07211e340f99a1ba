package services

import (
	"context"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"catalogue_back_end/internal/utils"
)

// Sender envoie un e-mail HTML.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// MailNotifier envoie un e-mail à l'équipe commerciale pour chaque soumission.
// Les envois passent par un pool borné et ne bloquent jamais la requête HTTP.
type MailNotifier struct {
	pool    *ants.Pool
	sender  Sender
	to      string
	timeout time.Duration
}

func NewMailNotifier(sender Sender, to string, workers int) (*MailNotifier, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	return &MailNotifier{pool: pool, sender: sender, to: to, timeout: 30 * time.Second}, nil
}

func (n *MailNotifier) SubmissionReceived(kind, id string, fields map[string]any) {
	subject := utils.SubmissionSubject(kind)
	body := utils.SubmissionEmailHTML(kind, id, fields)

	err := n.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.sender.Send(ctx, n.to, subject, body); err != nil {
			zap.S().Errorw("❌ Erreur envoi notification", "kind", kind, "id", id, "error", err)
			return
		}
		zap.S().Infow("📧 Notification envoyée", "kind", kind, "id", id)
	})
	if err != nil {
		zap.S().Warnw("⚠️ Notification abandonnée", "kind", kind, "id", id, "error", err)
	}
}

// Close attend au plus timeout la fin des envois en cours.
func (n *MailNotifier) Close(timeout time.Duration) {
	if err := n.pool.ReleaseTimeout(timeout); err != nil {
		zap.S().Warnw("⚠️ Envois encore en cours à l'arrêt", "error", err)
	}
}
