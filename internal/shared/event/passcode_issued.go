package event

const PasscodeIssuedDestination string = "passcode_issued"
const PasscodeIssuedConsumerDelivery string = "passcode_issued_delivery"

// HeaderCorrelationID carries the request correlation id across the broker.
const HeaderCorrelationID string = "cID"

type PasscodeIssuedMessage struct {
	Identifier string `json:"identifier"`
	Content    string `json:"content"`
}
