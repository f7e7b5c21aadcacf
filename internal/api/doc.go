// Package api provides the HTTP handlers of the flashcard service: account
// endpoints, the file import pipeline (preview and confirm), remote uploads,
// deck management and study progress.
//
// Handlers decode and validate requests, call the services and translate
// their errors with MapErrorToStatusCode and GetSafeErrorMessage so internal
// detail never reaches clients.
package api
