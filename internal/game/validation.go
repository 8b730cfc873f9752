package game

// Validation is the discriminated result of ValidateInput: either OK with
// a Value, or a rejection with a Reason for the submitting client.
type Validation struct {
	OK     bool
	Value  Input
	Reason string
}

func Accept(v Input) Validation {
	return Validation{OK: true, Value: v}
}

func Reject(reason string) Validation {
	return Validation{Reason: reason}
}
