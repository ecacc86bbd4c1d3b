package parse

// InputDecodingError reports input that could not be processed as text at
// all. It is distinct from "nothing was found", which is a normal outcome
// answered with the all-unclear response.
type InputDecodingError struct {
	Reason string
}

func (e *InputDecodingError) Error() string {
	return "input decoding error: " + e.Reason
}
