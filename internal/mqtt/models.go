package mqtt

// Message is a single publish as seen by MockClient and the test broker.
type Message struct {
	Topic   string
	Payload string
}
