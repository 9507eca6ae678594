package document

// UploadDTO carries the multipart upload fields. FileName and DeclaredSize
// come from the part header; DocumentType and Description are the uploader's
// category and free-text form fields.
type UploadDTO struct {
	ClaimID      int64
	Uploader     string
	FileName     string
	ContentType  string
	DocumentType string
	Description  string
	DeclaredSize int64
}
