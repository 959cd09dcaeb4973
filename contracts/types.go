package contracts

// Wrapper types give semantically distinct value kinds their own identity so
// KindOf and KindOfType can tell them apart from plain strings.

// Secret marks a string value as sensitive. Secrets are never logged or
// echoed back in serialized form by the service layer.
type Secret string

// PromptTemplate marks a string as a renderable prompt template rather than
// literal text.
type PromptTemplate string

// FilePath marks a string as a path to a file on disk.
type FilePath string

// Image is an inline binary payload with its MIME type.
type Image struct {
	Data []byte
	MIME string
}
