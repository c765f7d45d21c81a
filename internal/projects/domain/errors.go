package domain

import "errors"

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrNotAProject     = errors.New("post is not a project")
)
