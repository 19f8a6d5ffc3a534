// Package core provides the business logic for policy-number file validation.
//
// The package holds all domain logic independent of any transport. Web
// handlers, tests and command-line tools drive it the same way.
//
// # Architecture
//
// The package is organized around a few key concepts:
//
//   - Validator: runs one file through the gate, decode, content and
//     tokenize stages and produces a [Report].
//   - Session: the state of one file form, from selection through
//     validation to submission of the accepted batch.
//   - Service: the main entry point. It owns the sessions, the
//     [ValidationLimiter] and the configured [Submitter].
//
// # Validation Pipeline
//
// A file is validated in order, stopping at the first rejection:
//
//  1. [EvaluateFile] checks the name or MIME type and the declared size
//  2. [DecodeText] reads at most [MaxFileSize] bytes and decodes UTF-8
//  3. [EvaluateContent] requires non-blank lines of digits, commas and spaces
//  4. [Tokenize] splits on commas and whitespace, [Assemble] checksums each token
//
// A rejected file is not a Go error. The [Report] carries the [Reason] and
// the checklist of which stages passed.
//
// # Policy Numbers
//
// A policy number is nine digits whose weighted sum is divisible by 11. The
// rightmost digit has weight 1 and the leftmost weight 9. See [ValidChecksum].
//
// # Sessions and Submission
//
// Each [Session] keeps an immutable [State] that is replaced on every
// transition. Loading or clearing a file starts a new generation, and results
// from runs that belong to an older generation are dropped:
//
//	sess := svc.NewSession()
//	st, err := svc.LoadFile(ctx, sess.ID(), file)
//	if err == nil && st.CanSubmit() {
//	    st, err = svc.Submit(ctx, sess.ID())
//	}
//
// A submission runs in the background and stays in the submitting status for
// at least the configured minimum duration. Idle sessions are removed by
// [Service.StartSessionSweeper].
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE008: File rejections and upload request errors
//   - SES001-SES002: Session errors (not found, superseded)
//   - SUB001-SUB004: Submission errors (in progress, disabled, failed)
//   - UPL002-UPL005: Capacity and timeout errors
package core
