package models

// FileAttachment carries the raw bytes of one attached file for a create
// request. The gateway submits attachments as multipart file parts.
type FileAttachment struct {
	// Field is the record field the file is stored under ("audio", "image").
	Field string

	// Name is the original filename, used for the multipart part and kept
	// by the backend as the stored-filename basis.
	Name string

	// Content is the raw file payload.
	Content []byte
}

// CreatePayload describes a record to be created: scalar fields plus zero
// or more attached files.
type CreatePayload struct {
	// Fields maps scalar field names to their values. Values are submitted
	// as plain form fields.
	Fields map[string]string

	// Files holds the attached files, one per file field.
	Files []FileAttachment
}

// Field returns the named scalar field value, or "" if unset.
func (p CreatePayload) Field(name string) string {
	if p.Fields == nil {
		return ""
	}
	return p.Fields[name]
}

// ContactRequest is a visitor message submitted through the public contact
// form. Contacts are write-only from the client's perspective.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`

	// Status is set by the client to "unread"; staff update it backend-side.
	Status string `json:"status"`
}
