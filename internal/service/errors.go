package service

import "errors"

var (
	ErrNotFound         = errors.New("document not found")
	ErrReaderNil        = errors.New("reader is nil")
	ErrQuestionRequired = errors.New("question is required")
)
