package access

import reasoncodes "docvault/pkg/reason_codes"

var (
	ErrRequestNotFound  = reasoncodes.New(reasoncodes.ErrNotFound, "access request not found")
	ErrSelfRequest      = reasoncodes.New(reasoncodes.ErrConflict, "cannot request access to your own document")
	ErrDuplicateRequest = reasoncodes.New(reasoncodes.ErrConflict, "a pending request for this document already exists")
	ErrRequestDecided   = reasoncodes.New(reasoncodes.ErrConflict, "access request was already decided")
	ErrNotRequestTarget = reasoncodes.New(reasoncodes.ErrUnauthorized, "only the document owner can decide this request")
	ErrInvalidDecision  = reasoncodes.New(reasoncodes.ErrInvalidInput, "decision must be approve or reject")
)
