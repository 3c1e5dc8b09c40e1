package platform

import (
	"fmt"
	"strings"
)

// Conventional Commit types accepted by the semantic commit helpers.
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeDocs     = "docs"
	CommitTypeStyle    = "style"
	CommitTypeRefactor = "refactor"
	CommitTypePerf     = "perf"
	CommitTypeTest     = "test"
	CommitTypeChore    = "chore"
)

// commitFooter marks commits produced through the library.
const commitFooter = "Powered-by: Plume"

// FormatCommitMessage builds a Conventional Commit message with the Plume
// footer. Scope and body are optional.
func FormatCommitMessage(ctype, scope, subject, body string) string {
	return AppendFooter(FormatChangeReason(ctype, scope, subject, body))
}

// FormatChangeReason builds a Conventional Commit message without the footer.
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if scope != "" {
		sb.WriteString(fmt.Sprintf("%s(%s): %s", ctype, scope, subject))
	} else {
		sb.WriteString(fmt.Sprintf("%s: %s", ctype, subject))
	}

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}

	return sb.String()
}

// AppendFooter appends the Plume footer to an arbitrary message.
func AppendFooter(msg string) string {
	if strings.Contains(msg, commitFooter) {
		return msg
	}
	return msg + "\n\n" + commitFooter
}
