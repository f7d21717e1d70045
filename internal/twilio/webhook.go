package twilio

import (
	"fmt"
	"strconv"

	photoline_errors "photoline/pkg/errors"
)

// InboundAttachment is one media item announced by an inbound MMS webhook.
// It is request-scoped: consumed once during ingestion, never persisted.
type InboundAttachment struct {
	URL         string
	MimeType    string
	PhoneNumber string
	MessageSID  string
}

// IsMediaMessage reports whether the webhook form describes an MMS with at
// least one attachment. Twilio sends the same field set for plain SMS; the
// only reliable discriminator is the presence of the first media pair.
func IsMediaMessage(fields map[string]string) bool {
	n, err := strconv.Atoi(fields["NumMedia"])
	if err != nil || n < 1 {
		return false
	}
	_, hasURL := fields["MediaUrl0"]
	_, hasType := fields["MediaContentType0"]
	return hasURL && hasType
}

// ParseAttachments reads the NumMedia count and the indexed MediaUrl{i} /
// MediaContentType{i} pairs out of the flat webhook form. The sender number
// and message sid are shared by every attachment in the batch.
//
// Returns ErrNotMedia for non-qualifying (text-only) messages. A gap in the
// indexed fields below the declared count fails the whole batch.
func ParseAttachments(fields map[string]string) ([]InboundAttachment, error) {
	if !IsMediaMessage(fields) {
		return nil, photoline_errors.ErrNotMedia
	}

	n, _ := strconv.Atoi(fields["NumMedia"])
	from := fields["From"]
	sid := fields["SmsSid"]

	attachments := make([]InboundAttachment, 0, n)
	for i := 0; i < n; i++ {
		url, ok := fields[fmt.Sprintf("MediaUrl%d", i)]
		if !ok || url == "" {
			return nil, fmt.Errorf("%w: MediaUrl%d missing with NumMedia=%d", photoline_errors.ErrInvalidInput, i, n)
		}
		mimeType, ok := fields[fmt.Sprintf("MediaContentType%d", i)]
		if !ok || mimeType == "" {
			return nil, fmt.Errorf("%w: MediaContentType%d missing with NumMedia=%d", photoline_errors.ErrInvalidInput, i, n)
		}
		attachments = append(attachments, InboundAttachment{
			URL:         url,
			MimeType:    mimeType,
			PhoneNumber: from,
			MessageSID:  sid,
		})
	}
	return attachments, nil
}
