package models

// Statuts initiaux des soumissions
const (
	StatusNew     = "new"
	StatusPending = "pending"
)

// Champs système ajoutés à chaque soumission
const (
	FieldStatus      = "status"
	FieldSubmittedAt = "submittedAt"
	FieldRequestedAt = "requestedAt"
)

// Submission décrit un type de formulaire enregistré tel quel dans sa collection.
type Submission struct {
	Kind           string
	Collection     string
	TimestampField string
	InitialStatus  string
}
