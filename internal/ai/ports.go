package ai

import "context"

// Translator — language detection and translation, knows nothing about
// sessions or ledgers.
type Translator interface {
	DetectLanguage(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text string, source string, target string) (string, error)
}

// Classifier decides whether a customer query needs the transactional flow.
type Classifier interface {
	IsTransactional(ctx context.Context, text string, lang string) (bool, error)
}

// AnswerEngine — semantic FAQ lookup. Empty answer means "nothing found";
// the caller owns the fallback wording.
type AnswerEngine interface {
	BestAnswer(ctx context.Context, text string, lang string) (string, error)
}

// Orchestrator runs a transaction once all slots are collected.
type Orchestrator interface {
	Orchestrate(ctx context.Context, query string, lang string, customerID string, month string) (string, error)
}
