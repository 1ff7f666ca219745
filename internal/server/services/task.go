package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/chrima/internal/common"
	"github.com/dmitrijs2005/chrima/internal/server/models"
	"github.com/dmitrijs2005/chrima/internal/server/repositories/repomanager"
)

const maxTaskLength = 2000

// TaskService stores the anonymous tasks a giver sends to their Chrima.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// GiveTask sends text to the sender's current recipient.
func (s *TaskService) GiveTask(ctx context.Context, sender *models.User, text string) (*models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: task text is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(text) > maxTaskLength {
		return nil, fmt.Errorf("%w: task is longer than %d characters", common.ErrorValidation, maxTaskLength)
	}

	state, err := s.repomanager.GameState(s.db).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading game state: %w", err)
	}
	if !state.Assigned || !sender.HasRecipient() {
		return nil, common.ErrNotAssignedYet
	}

	task := &models.Task{
		Text:        text,
		SenderID:    sender.ID,
		RecipientID: *sender.RecipientID,
	}
	if err := s.repomanager.Tasks(s.db).Create(ctx, task); err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return task, nil
}

// ViewTasks lists the tasks addressed to recipient, oldest first.
func (s *TaskService) ViewTasks(ctx context.Context, recipient *models.User) ([]*models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListForRecipient(ctx, recipient.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}
