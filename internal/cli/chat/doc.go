// Package chat implements the interactive assistant session for
// vitalis-cli.
//
//   - session.go: the question/answer loop over a report
//   - history.go: question history persistence between sessions
//
// The session keeps the full conversation so follow-up questions carry
// earlier context to the assistant.
package chat
