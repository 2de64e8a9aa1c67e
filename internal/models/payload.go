package models

// Attachment colors understood by Slack.
const (
	ColorGood    = "good"
	ColorWarning = "warning"
)

// Payload is the notification body posted to the chat webhook.
type Payload struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// Attachment is one titled, colored block of the notification.
type Attachment struct {
	Fallback string `json:"fallback"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Color    string `json:"color"`
}
