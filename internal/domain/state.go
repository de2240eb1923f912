package domain

// State identifies where a session is in the verification dialogue.
type State string

// Dialogue states. A session only ever moves forward through these;
// the collecting states each own one field, the company states resolve
// the employer, and Completed is terminal.
const (
	StateGreeting                 = State("GREETING")
	StateCollectingExperience     = State("COLLECTING_EXPERIENCE")
	StateCollectingDOB            = State("COLLECTING_DOB")
	StateCollectingEmail          = State("COLLECTING_EMAIL")
	StateVerifyingEmployment      = State("VERIFYING_EMPLOYMENT")
	StateAskingCompany            = State("ASKING_COMPANY")
	StateSelectingCompany         = State("SELECTING_COMPANY")
	StateConfirmingUnknownCompany = State("CONFIRMING_UNKNOWN_COMPANY")
	StateCompleted                = State("COMPLETED")
)

// Terminal reports whether the dialogue has finished.
func (s State) Terminal() bool {
	return s == StateCompleted
}

// Field returns the key of the field collected in this state, or the
// empty string for states that do not collect a single field.
func (s State) Field() string {
	switch s {
	case StateGreeting:
		return FieldName
	case StateCollectingExperience:
		return FieldExperience
	case StateCollectingDOB:
		return FieldDOB
	case StateCollectingEmail:
		return FieldEmail
	default:
		return ""
	}
}
