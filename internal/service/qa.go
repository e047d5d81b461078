package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"docuflow/internal/model"
)

const (
	demoConfidence  = 0.2
	defaultLanguage = "en"
)

// Question is a request for an answer, optionally scoped to one document.
type Question struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Answer is the response to a Question.
type Answer struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
	Language   string   `json:"language"`
}

// QAService answers questions about uploaded documents.
type QAService interface {
	Ask(ctx context.Context, q Question) (*Answer, error)
}

type documentGetter interface {
	Get(ctx context.Context, id string) (*model.Document, error)
}

// demoQAService returns canned answers; no retrieval or generation happens.
type demoQAService struct {
	docs documentGetter
}

// NewQAService constructs the demo QAService. docs resolves the optional document scope.
func NewQAService(docs DocumentService) QAService {
	return &demoQAService{docs: docs}
}

// Ask validates the question and returns a demo answer. An unknown document ID is
// treated as no document: the answer is generic and Sources is empty.
func (s *demoQAService) Ask(ctx context.Context, q Question) (*Answer, error) {
	ctx, span := tracer.Start(ctx, "QAService.Ask")
	defer span.End()

	question := strings.TrimSpace(q.Question)
	if question == "" {
		return nil, ErrQuestionRequired
	}

	lang := strings.TrimSpace(q.Language)
	if lang == "" {
		lang = defaultLanguage
	}

	ans := &Answer{
		Answer:     fmt.Sprintf("Demo mode answer:\n\nYou asked: %s\n\n(Upload a document or connect the backend for real RAG answers.)", question),
		Sources:    []string{},
		Confidence: demoConfidence,
		Language:   lang,
	}

	if id := strings.TrimSpace(q.DocumentID); id != "" {
		span.SetAttributes(attribute.String("document.id", id))
		doc, err := s.docs.Get(ctx, id)
		switch {
		case err == nil:
			ans.Answer = fmt.Sprintf("Demo mode answer for %q:\n\nYou asked: %s\n\n(Connect the processing backend and AI services for real RAG answers.)", doc.Title, question)
			ans.Sources = []string{doc.ID}
		case errors.Is(err, ErrNotFound):
			// unknown document: keep the generic answer
		default:
			return nil, fail(span, err)
		}
	}
	return ans, nil
}
