package classifier

import (
	"context"

	"go.uber.org/zap"
)

// Classifier is the raw transport. Client satisfies it; tests substitute it.
type Classifier interface {
	Classify(ctx context.Context, text string, candidates []string) (Suggestion, error)
}

// Service gates the classifier's output: a suggestion is accepted only when
// it names one of the candidates verbatim and clears the confidence
// threshold. This path never errors; anything questionable degrades to
// "no category" and the message stays untagged.
type Service struct {
	client        Classifier
	minConfidence float64
	logger        *zap.SugaredLogger
}

func NewService(client Classifier, minConfidence float64, logger *zap.Logger) *Service {
	if minConfidence <= 0 {
		minConfidence = 0.6
	}
	return &Service{
		client:        client,
		minConfidence: minConfidence,
		logger:        logger.Sugar(),
	}
}

func (s *Service) Suggest(ctx context.Context, content string, candidates []string) (Suggestion, bool) {
	if s.client == nil || len(candidates) == 0 {
		return Suggestion{}, false
	}

	suggestion, err := s.client.Classify(ctx, content, candidates)
	if err != nil {
		s.logger.Warnw("Classifier call failed, message stays untagged", "error", err)
		return Suggestion{}, false
	}

	if suggestion.Category == "" || suggestion.Category == "untagged" {
		return Suggestion{}, false
	}

	if !contains(candidates, suggestion.Category) {
		s.logger.Warnw("Classifier suggested a non-candidate category, discarding",
			"category", suggestion.Category)
		return Suggestion{}, false
	}

	if suggestion.Confidence < s.minConfidence {
		s.logger.Debugw("Classifier suggestion below confidence threshold",
			"category", suggestion.Category,
			"confidence", suggestion.Confidence,
			"threshold", s.minConfidence)
		return Suggestion{}, false
	}

	return suggestion, true
}

func contains(candidates []string, category string) bool {
	for _, c := range candidates {
		if c == category {
			return true
		}
	}
	return false
}
