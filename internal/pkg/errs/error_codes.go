/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrFormParseFailed indicates failure to parse multipart form data.
	ErrFormParseFailed = 1002

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1003

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1004
)

// 2xxx: Presence and Chat Business Logic Errors
const (
	// ErrUserAlreadyOnline indicates the username is already claimed by a live connection.
	ErrUserAlreadyOnline = 2101

	// ErrInvalidUsername indicates the username is empty or a reserved word.
	ErrInvalidUsername = 2102
)

// 3xxx: Upload Store Errors
const (
	// ErrNoFileProvided indicates the upload request carried no file part.
	ErrNoFileProvided = 3001

	// ErrFileTypeNotAllowed indicates the file extension is outside the allow-list.
	ErrFileTypeNotAllowed = 3002

	// ErrFileNotFound indicates the requested stored blob does not exist.
	ErrFileNotFound = 3003

	// ErrFileStorageFailed indicates the storage backend failed to persist or serve a blob.
	ErrFileStorageFailed = 3004
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
