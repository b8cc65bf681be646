package models

// Record is implemented by every element of a diffable collection.
type Record interface {
	RecordID() string
}

// Remote collection names, used as path segments under projects/{projectId}.
const (
	CollectionInstitutions  = "lks"
	CollectionBeneficiaries = "pm"
)

// ValidateCollection returns [ErrUnknownCollection] for names other than the
// two synced collections.
func ValidateCollection(name string) error {
	switch name {
	case CollectionInstitutions, CollectionBeneficiaries:
		return nil
	default:
		return ErrUnknownCollection
	}
}
