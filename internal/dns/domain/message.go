package domain

// Message is a fully decoded DNS message: the header plus the four
// sections in wire order. Section lengths always equal the header counts;
// the decoder rejects any buffer where they cannot.
type Message struct {
	Header     Header
	Questions  []Question
	Answers    []ResourceRecord
	Authority  []ResourceRecord
	Additional []ResourceRecord
}

// RCode returns the response code carried in the header flags.
func (m Message) RCode() RCode {
	return m.Header.RCode()
}

// IsResponse reports whether the header QR bit is set.
func (m Message) IsResponse() bool {
	return m.Header.IsResponse()
}

// Question returns the first question, or the zero Question when the
// message carries none. Responses to the queries this client sends always
// carry exactly one.
func (m Message) Question() Question {
	if len(m.Questions) == 0 {
		return Question{}
	}
	return m.Questions[0]
}
