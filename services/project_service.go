package services

import (
	"context"

	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/dto"
	"github.com/taskboard-api/logger"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/policy"
	"github.com/taskboard-api/repositories"
	"github.com/taskboard-api/utils"
	"go.uber.org/zap"
)

const accessCodeAttempts = 5

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	taskRepo    *repositories.TaskRepository
}

// NewProjectService creates a new project service instance
func NewProjectService(projects *repositories.ProjectRepository, tasks *repositories.TaskRepository) *ProjectService {
	return &ProjectService{projectRepo: projects, taskRepo: tasks}
}

// membershipOf describes how the caller relates to project
func membershipOf(ctx context.Context, projects *repositories.ProjectRepository, caller *policy.Caller, project *models.Project) (policy.Membership, error) {
	m := policy.Membership{Manager: project.IsManagedBy(caller.ID())}
	member, err := projects.IsMember(ctx, project.ID, caller.ID())
	if err != nil {
		return m, err
	}
	m.Member = member
	return m, nil
}

// ListProjects retrieves the projects the caller manages or belongs to,
// each with its live task count
func (s *ProjectService) ListProjects(ctx context.Context, caller *policy.Caller, search string) ([]dto.ProjectListItem, error) {
	projects, err := s.projectRepo.FindVisible(ctx, repositories.ProjectFilter{UserID: caller.ID(), Search: search})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	counts, err := s.projectRepo.TaskCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ProjectListItem, 0, len(projects))
	for i := range projects {
		items = append(items, dto.NewProjectListItem(&projects[i], counts[projects[i].ID]))
	}
	return items, nil
}

// authorize loads a visible project and applies the project policy
func (s *ProjectService) authorize(ctx context.Context, caller *policy.Caller, id uint, action policy.Action) (*models.Project, error) {
	project, err := s.projectRepo.FindVisibleByID(ctx, id, caller.ID())
	if err != nil {
		return nil, err
	}
	m, err := membershipOf(ctx, s.projectRepo, caller, project)
	if err != nil {
		return nil, err
	}
	if err := policy.ProjectAccess(caller, project, m, action); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProjectDetail retrieves a project with its tasks
func (s *ProjectService) GetProjectDetail(ctx context.Context, caller *policy.Caller, id uint) (*models.Project, error) {
	if _, err := s.authorize(ctx, caller, id, policy.Read); err != nil {
		return nil, err
	}
	return s.projectRepo.WithTasks(ctx, id)
}

// CreateProject creates a project managed by the caller
func (s *ProjectService) CreateProject(ctx context.Context, caller *policy.Caller, req dto.ProjectRequest) (*models.Project, error) {
	if err := policy.ProjectAccess(caller, nil, policy.Membership{}, policy.Create); err != nil {
		return nil, err
	}

	project := models.Project{}
	if err := req.Apply(&project, dto.ModeCreate); err != nil {
		return nil, err
	}
	managerID := caller.ID()
	project.ManagerID = &managerID

	if err := s.prepareAccessCode(ctx, &project, nil); err != nil {
		return nil, err
	}
	if err := models.Validate(&project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, &project); err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			return nil, accessCodeTaken()
		}
		return nil, err
	}

	logger.L().Info("project created",
		zap.Uint("project_id", project.ID),
		zap.Uint("manager_id", managerID),
	)
	project.Tasks = []models.Task{}
	return &project, nil
}

// UpdateProject applies a full or partial update; only the manager may write
func (s *ProjectService) UpdateProject(ctx context.Context, caller *policy.Caller, id uint, req dto.ProjectRequest, mode dto.WriteMode) (*models.Project, error) {
	project, err := s.authorize(ctx, caller, id, policy.Write)
	if err != nil {
		return nil, err
	}

	current := project.AccessCode
	if err := req.Apply(project, mode); err != nil {
		return nil, err
	}
	if err := s.prepareAccessCode(ctx, project, current); err != nil {
		return nil, err
	}
	if err := models.Validate(project); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			return nil, accessCodeTaken()
		}
		return nil, err
	}
	return s.projectRepo.WithTasks(ctx, id)
}

// prepareAccessCode normalizes the access code. A new project without one
// gets a generated code; a changed code must not be used by another project
func (s *ProjectService) prepareAccessCode(ctx context.Context, project *models.Project, current *string) error {
	if project.AccessCode != nil && *project.AccessCode == "" {
		project.AccessCode = nil
	}

	if project.AccessCode == nil {
		if project.ID != 0 {
			return nil
		}
		code, err := s.generateAccessCode(ctx)
		if err != nil {
			return err
		}
		project.AccessCode = &code
		return nil
	}

	if current != nil && *current == *project.AccessCode {
		return nil
	}
	taken, err := s.projectRepo.AccessCodeTaken(ctx, *project.AccessCode)
	if err != nil {
		return err
	}
	if taken {
		return accessCodeTaken()
	}
	return nil
}

func (s *ProjectService) generateAccessCode(ctx context.Context) (string, error) {
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := utils.GenerateShortID()
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeInternal, "generate access code failed")
		}
		taken, err := s.projectRepo.AccessCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", apperrors.New(apperrors.CodeInternal, "could not generate a unique access code")
}

func accessCodeTaken() error {
	return apperrors.Validation(map[string][]string{
		"access_code": {"project with this access code already exists."},
	})
}

// DeleteProject removes a project with its tasks, their edges and its memberships
func (s *ProjectService) DeleteProject(ctx context.Context, caller *policy.Caller, id uint) error {
	if _, err := s.authorize(ctx, caller, id, policy.Write); err != nil {
		return err
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.L().Info("project deleted", zap.Uint("project_id", id), zap.Uint("user_id", caller.ID()))
	return nil
}

// ProjectTasks lists the tasks of a project
func (s *ProjectService) ProjectTasks(ctx context.Context, caller *policy.Caller, id uint) ([]models.Task, error) {
	if _, err := s.authorize(ctx, caller, id, policy.Read); err != nil {
		return nil, err
	}
	return s.taskRepo.FindByProject(ctx, id)
}

// JoinProject redeems an access code for a membership
func (s *ProjectService) JoinProject(ctx context.Context, caller *policy.Caller, code string) (*models.Project, error) {
	project, err := s.projectRepo.FindByAccessCode(ctx, code)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Invalid access code")
		}
		return nil, err
	}

	member, err := s.projectRepo.IsMember(ctx, project.ID, caller.ID())
	if err != nil {
		return nil, err
	}
	if member {
		return nil, alreadyMember()
	}

	if err := s.projectRepo.AddMember(ctx, &models.ProjectMember{ProjectID: project.ID, UserID: caller.ID()}); err != nil {
		if apperrors.IsCode(err, apperrors.CodeConflict) {
			return nil, alreadyMember()
		}
		return nil, err
	}

	logger.L().Info("user joined project", zap.Uint("project_id", project.ID), zap.Uint("user_id", caller.ID()))
	return project, nil
}

func alreadyMember() error {
	return apperrors.New(apperrors.CodeInvalid, "You are already a member of this project")
}

// ProjectMembers lists the membership rows of a project
func (s *ProjectService) ProjectMembers(ctx context.Context, caller *policy.Caller, id uint) ([]models.ProjectMember, error) {
	if _, err := s.authorize(ctx, caller, id, policy.Read); err != nil {
		return nil, err
	}
	return s.projectRepo.Members(ctx, id)
}
