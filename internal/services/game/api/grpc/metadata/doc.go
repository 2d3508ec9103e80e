// Package metadata handles the request headers the game service reads and
// writes.
//
//   - RequestIDHeader correlates log lines for one call. It is generated when
//     the client omits it and echoed back in the response headers.
//   - LocaleHeader selects the language of user-facing error messages.
package metadata
