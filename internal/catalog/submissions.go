package catalog

import (
	"context"

	"go.uber.org/zap"

	"catalogue_back_end/internal/guard"
	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

// Types de formulaires acceptés
var (
	LeadSubmission = models.Submission{
		Kind:           "lead",
		Collection:     store.Leads,
		TimestampField: models.FieldSubmittedAt,
		InitialStatus:  models.StatusNew,
	}
	ContactFormSubmission = models.Submission{
		Kind:           "contact_form",
		Collection:     store.ContactForms,
		TimestampField: models.FieldSubmittedAt,
		InitialStatus:  models.StatusNew,
	}
	CatalogueRequestSubmission = models.Submission{
		Kind:           "catalogue_request",
		Collection:     store.CatalogueRequests,
		TimestampField: models.FieldRequestedAt,
		InitialStatus:  models.StatusPending,
	}
)

// AddLead enregistre une prise de contact commerciale.
func (s *Service) AddLead(ctx context.Context, fields map[string]any) (string, bool) {
	return s.submit(ctx, LeadSubmission, fields)
}

func (s *Service) AddContactForm(ctx context.Context, fields map[string]any) (string, bool) {
	return s.submit(ctx, ContactFormSubmission, fields)
}

func (s *Service) AddCatalogueRequest(ctx context.Context, fields map[string]any) (string, bool) {
	return s.submit(ctx, CatalogueRequestSubmission, fields)
}

// submit copie les champs de l'appelant puis impose l'horodatage serveur et le
// statut initial. En cas d'échec l'identifiant est vide et ok vaut false.
func (s *Service) submit(ctx context.Context, kind models.Submission, fields map[string]any) (string, bool) {
	doc := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		doc[k] = v
	}
	doc[kind.TimestampField] = store.ServerTimestamp
	doc[models.FieldStatus] = kind.InitialStatus

	res := guard.Read(ctx, kind.Collection+".insert", s.timeouts.Write, "",
		func(ctx context.Context) (string, error) {
			return s.store.Insert(ctx, kind.Collection, doc)
		})
	if res.FallbackUsed {
		zap.S().Errorw("❌ Soumission non enregistrée", "kind", kind.Kind, "error", res.Err)
		return "", false
	}

	zap.S().Infow("📨 Soumission enregistrée", "kind", kind.Kind, "id", res.Value)
	if s.notifier != nil {
		s.notifier.SubmissionReceived(kind.Kind, res.Value, fields)
	}
	return res.Value, true
}
