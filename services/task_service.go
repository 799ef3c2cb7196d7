package services

import (
	"context"
	"fmt"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/logger"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/policy"
	"github.com/taskboard-api/repositories"
	"github.com/taskboard-api/utils"
	"go.uber.org/zap"
)

// Messages returned by the dependency actions
const (
	MsgDependencyParamRequired = "dependentOnTaskId parameter is required"
	MsgSelfDependency          = "A task cannot depend on itself"
	MsgDependentTaskNotFound   = "Dependent task not found"
	MsgDependencyNotFound      = "Dependency not found"
)

// TaskService handles business logic for tasks and their dependency edges
type TaskService struct {
	taskRepo       *repositories.TaskRepository
	projectRepo    *repositories.ProjectRepository
	userRepo       *repositories.UserRepository
	dependencyRepo *repositories.DependencyRepository
}

// NewTaskService creates a new task service instance
func NewTaskService(
	tasks *repositories.TaskRepository,
	projects *repositories.ProjectRepository,
	users *repositories.UserRepository,
	deps *repositories.DependencyRepository,
) *TaskService {
	return &TaskService{
		taskRepo:       tasks,
		projectRepo:    projects,
		userRepo:       users,
		dependencyRepo: deps,
	}
}

// ListTasks retrieves tasks of the projects the caller can see
func (s *TaskService) ListTasks(ctx context.Context, caller *policy.Caller, projectID *uint, search string) ([]models.Task, error) {
	return s.taskRepo.FindVisible(ctx, repositories.TaskFilter{
		UserID:    caller.ID(),
		ProjectID: projectID,
		Search:    search,
	})
}

// authorize loads a visible task and applies the task policy
func (s *TaskService) authorize(ctx context.Context, caller *policy.Caller, id uint, action policy.Action) (*models.Task, error) {
	task, err := s.taskRepo.FindVisibleByID(ctx, id, caller.ID())
	if err != nil {
		return nil, err
	}
	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	m, err := membershipOf(ctx, s.projectRepo, caller, project)
	if err != nil {
		return nil, err
	}
	if err := policy.TaskAccess(caller, task, m, action); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask retrieves a task and the ids of the tasks it depends on
func (s *TaskService) GetTask(ctx context.Context, caller *policy.Caller, id uint) (*models.Task, []uint, error) {
	task, err := s.authorize(ctx, caller, id, policy.Read)
	if err != nil {
		return nil, nil, err
	}
	deps, err := s.dependencyRepo.DependentOnIDs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return task, deps, nil
}

// CreateTask creates a task inside a project the caller belongs to
func (s *TaskService) CreateTask(ctx context.Context, caller *policy.Caller, req dto.TaskRequest) (*models.Task, error) {
	task := models.Task{Priority: models.PriorityMedium}
	if err := req.Apply(&task, dto.ModeCreate); err != nil {
		return nil, err
	}
	project, err := s.checkReferences(ctx, &task)
	if err != nil {
		return nil, err
	}
	if err := s.checkTargetProject(ctx, caller, &task, project); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, &task); err != nil {
		return nil, err
	}
	logger.L().Info("task created",
		zap.Uint("task_id", task.ID),
		zap.Uint("project_id", task.ProjectID),
	)
	return s.taskRepo.FindByID(ctx, task.ID)
}

// UpdateTask applies a full or partial update; the project manager or the
// assignee may write
func (s *TaskService) UpdateTask(ctx context.Context, caller *policy.Caller, id uint, req dto.TaskRequest, mode dto.WriteMode) (*models.Task, []uint, error) {
	task, err := s.authorize(ctx, caller, id, policy.Write)
	if err != nil {
		return nil, nil, err
	}

	previousProject := task.ProjectID
	if err := req.Apply(task, mode); err != nil {
		return nil, nil, err
	}
	project, err := s.checkReferences(ctx, task)
	if err != nil {
		return nil, nil, err
	}
	if task.ProjectID != previousProject {
		if err := s.checkTargetProject(ctx, caller, task, project); err != nil {
			return nil, nil, err
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, nil, err
	}
	updated, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	deps, err := s.dependencyRepo.DependentOnIDs(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return updated, deps, nil
}

// checkReferences validates the task and makes sure its project and
// assignee exist. It returns the loaded project
func (s *TaskService) checkReferences(ctx context.Context, task *models.Task) (*models.Project, error) {
	if err := models.Validate(task); err != nil {
		return nil, err
	}

	fields := map[string][]string{}
	project, err := s.projectRepo.FindByID(ctx, task.ProjectID)
	if err != nil {
		if !apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, err
		}
		fields["project"] = []string{invalidPK(task.ProjectID)}
	}
	if task.AssignedUserID != nil {
		exists, err := s.userRepo.Exists(ctx, *task.AssignedUserID)
		if err != nil {
			return nil, err
		}
		if !exists {
			fields["assigned_user"] = []string{invalidPK(*task.AssignedUserID)}
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}
	return project, nil
}

func invalidPK(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

// checkTargetProject requires the caller to belong to the project a task is
// created in or moved to
func (s *TaskService) checkTargetProject(ctx context.Context, caller *policy.Caller, task *models.Task, project *models.Project) error {
	m, err := membershipOf(ctx, s.projectRepo, caller, project)
	if err != nil {
		return err
	}
	return policy.TaskAccess(caller, task, m, policy.Create)
}

// DeleteTask removes a task and every edge touching it
func (s *TaskService) DeleteTask(ctx context.Context, caller *policy.Caller, id uint) error {
	if _, err := s.authorize(ctx, caller, id, policy.Write); err != nil {
		return err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L().Info("task deleted", zap.Uint("task_id", id), zap.Uint("user_id", caller.ID()))
	return nil
}

// ListDependencies returns every dependency edge
func (s *TaskService) ListDependencies(ctx context.Context) ([]models.TaskDependency, error) {
	return s.dependencyRepo.FindAll(ctx)
}

// AddDependency records that task id depends on the task named by rawTarget
// created is false when the edge already existed
func (s *TaskService) AddDependency(ctx context.Context, caller *policy.Caller, id uint, rawTarget string) (created bool, err error) {
	if rawTarget == "" {
		return false, apperrors.New(apperrors.CodeInvalid, MsgDependencyParamRequired)
	}
	targetID, ok := utils.ParseID(rawTarget)
	if ok && targetID == id {
		return false, apperrors.New(apperrors.CodeInvalid, MsgSelfDependency)
	}

	if _, err := s.authorize(ctx, caller, id, policy.Write); err != nil {
		return false, err
	}

	if !ok {
		return false, apperrors.New(apperrors.CodeNotFound, MsgDependentTaskNotFound)
	}
	exists, err := s.taskRepo.Exists(ctx, targetID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.New(apperrors.CodeNotFound, MsgDependentTaskNotFound)
	}

	created, err = s.dependencyRepo.Add(ctx, id, targetID)
	if err != nil {
		return false, err
	}
	if created {
		logger.L().Info("dependency added", zap.Uint("task_id", id), zap.Uint("dependent_on_task_id", targetID))
	}
	return created, nil
}

// RemoveDependency deletes the edge from task id to the task named by rawTarget
func (s *TaskService) RemoveDependency(ctx context.Context, caller *policy.Caller, id uint, rawTarget string) error {
	if rawTarget == "" {
		return apperrors.New(apperrors.CodeInvalid, MsgDependencyParamRequired)
	}

	if _, err := s.authorize(ctx, caller, id, policy.Write); err != nil {
		return err
	}

	targetID, ok := utils.ParseID(rawTarget)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, MsgDependencyNotFound)
	}
	if err := s.dependencyRepo.Remove(ctx, id, targetID); err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return apperrors.New(apperrors.CodeNotFound, MsgDependencyNotFound)
		}
		return err
	}
	logger.L().Info("dependency removed", zap.Uint("task_id", id), zap.Uint("dependent_on_task_id", targetID))
	return nil
}
