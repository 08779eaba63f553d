/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every
// application error code. The key is the error code (int), and the value
// contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Presence and Chat Business Logic Errors
	ErrUserAlreadyOnline: {Code: ErrUserAlreadyOnline, Message: "Username is already taken. Please choose another."},
	ErrInvalidUsername:   {Code: ErrInvalidUsername, Message: "Invalid username."},

	// 3xxx: Upload Store Errors
	ErrNoFileProvided:     {Code: ErrNoFileProvided, Message: "No file selected.", Status: http.StatusBadRequest},
	ErrFileTypeNotAllowed: {Code: ErrFileTypeNotAllowed, Message: "File type not permitted.", Status: http.StatusBadRequest},
	ErrFileNotFound:       {Code: ErrFileNotFound, Message: "File not found.", Status: http.StatusNotFound},
	ErrFileStorageFailed:  {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusInternalServerError},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
