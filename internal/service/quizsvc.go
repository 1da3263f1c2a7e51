package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"boostshop/internal/domain"
)

// QuizService serves the gaming quiz. Questions live in a JSON file that is
// re-read per request, same as the user file, so edits need no restart.
type QuizService struct {
	Path string
}

func (s *QuizService) Questions(ctx context.Context) ([]domain.QuizQuestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	return questions, nil
}

// Score counts answers matching each question's correct choice. Missing or
// unknown answers simply score zero for that question.
func (s *QuizService) Score(ctx context.Context, answers map[string]string) (domain.QuizResult, error) {
	questions, err := s.Questions(ctx)
	if err != nil {
		return domain.QuizResult{}, err
	}

	result := domain.QuizResult{Total: len(questions)}
	for _, q := range questions {
		if answers[q.ID] == q.Correct {
			result.Score++
		}
	}
	return result, nil
}
