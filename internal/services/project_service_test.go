package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/magnus-copo/investor-api/internal/models"
	"github.com/magnus-copo/investor-api/internal/notify"
	"github.com/magnus-copo/investor-api/internal/permissions"
	"github.com/magnus-copo/investor-api/internal/repository"
)

type projectTestEnv struct {
	db      *gorm.DB
	service *ProjectService
}

func setupProjectTestEnv(t *testing.T) projectTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.SpendingRecord{},
		&models.SpendingVote{},
		&models.ModificationRequest{},
		&models.ModificationVote{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	service := NewProjectService(projectRepo, userRepo, notify.NoopNotifier{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return projectTestEnv{db: db, service: service}
}

func createProjectTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         email,
		Email:        email,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestCreateProject_CreatorBecomesAdminMember(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createProjectTestUser(t, env.db, "owner@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)
	require.Equal(t, owner.ID, project.CreatedBy)

	loaded, err := env.service.GetProject(project.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Members, 1)
	require.Equal(t, owner.ID, loaded.Members[0].UserID)
	require.Equal(t, models.MemberRoleAdmin, loaded.Members[0].Role)
	require.True(t, loaded.IsAdmin(owner.ID))
}

func TestCreateProject_Validation(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createProjectTestUser(t, env.db, "owner@example.com")

	_, err := env.service.CreateProject(CreateProjectInput{
		Name:      "   ",
		CreatorID: owner.ID,
	})
	require.ErrorIs(t, err, ErrInvalidProjectName)

	_, err = env.service.CreateProject(CreateProjectInput{
		Name:          "Backwards Range",
		CreatorID:     owner.ID,
		MinInvestment: decimal.RequireFromString("500"),
		MaxInvestment: decimal.RequireFromString("100"),
	})
	require.ErrorIs(t, err, ErrInvalidInvestmentRange)
}

func TestAddMember_AdminOnly(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")
	stranger := createProjectTestUser(t, env.db, "stranger@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	member, err := env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)
	// Role defaults to investor when unspecified.
	require.Equal(t, models.MemberRoleInvestor, member.Role)

	// An investor member cannot add further members.
	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   investor.ID,
		UserID:    stranger.ID,
	})
	require.ErrorIs(t, err, ErrNotProjectAdmin)

	// Re-adding an existing member is refused.
	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.ErrorIs(t, err, ErrAlreadyProjectMember)

	// Unknown users cannot be added.
	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    99999,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestRemoveMember_CreatorProtected(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)

	// Nobody removes the creator, not even the creator's own admin hand.
	err = env.service.RemoveMember(project.ID, owner.ID, owner.ID)
	require.ErrorIs(t, err, ErrCannotRemoveCreator)

	// Non-admins cannot remove anyone.
	err = env.service.RemoveMember(project.ID, investor.ID, investor.ID)
	require.ErrorIs(t, err, ErrNotProjectAdmin)

	err = env.service.RemoveMember(project.ID, owner.ID, investor.ID)
	require.NoError(t, err)

	loaded, err := env.service.GetProject(project.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsMember(investor.ID))

	err = env.service.RemoveMember(project.ID, owner.ID, investor.ID)
	require.ErrorIs(t, err, ErrProjectMemberNotFound)
}

func TestLeave_CreatorCannot(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)

	err = env.service.Leave(project.ID, owner.ID)
	require.ErrorIs(t, err, ErrCreatorCannotLeave)

	err = env.service.Leave(project.ID, investor.ID)
	require.NoError(t, err)

	loaded, err := env.service.GetProject(project.ID)
	require.NoError(t, err)
	require.False(t, loaded.IsMember(investor.ID))
}

func TestPromoteMember_ElevatesWithinProjectOnly(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)

	// Investors cannot promote themselves.
	err = env.service.PromoteMember(project.ID, investor.ID, investor.ID)
	require.ErrorIs(t, err, ErrNotProjectAdmin)

	err = env.service.PromoteMember(project.ID, owner.ID, investor.ID)
	require.NoError(t, err)

	loaded, err := env.service.GetProject(project.ID)
	require.NoError(t, err)
	require.True(t, loaded.IsAdmin(investor.ID))
	require.Equal(t, permissions.RoleProjectAdmin, loaded.EffectiveRole(investor))

	// The global role stays untouched.
	var stored models.User
	require.NoError(t, env.db.First(&stored, investor.ID).Error)
	require.Equal(t, permissions.RoleInvestor, stored.Role)
}

func TestUpdateProject_BasicFieldsOnly(t *testing.T) {
	env := setupProjectTestEnv(t)
	owner := createProjectTestUser(t, env.db, "owner@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	newName := "Hydro Plant II"
	newDescription := "Second phase"
	updated, err := env.service.UpdateProject(project.ID, UpdateProjectInput{
		Name:        &newName,
		Description: &newDescription,
	})
	require.NoError(t, err)
	require.Equal(t, "Hydro Plant II", updated.Name)
	require.Equal(t, "Second phase", updated.Description)

	blank := " "
	_, err = env.service.UpdateProject(project.ID, UpdateProjectInput{Name: &blank})
	require.ErrorIs(t, err, ErrInvalidProjectName)
}

func TestDeleteProject_Cascades(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")

	project, err := env.service.CreateProject(CreateProjectInput{
		Name:      "Hydro Plant",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: project.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)

	require.NoError(t, env.service.DeleteProject(project.ID))

	_, err = env.service.GetProject(project.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	var memberCount int64
	require.NoError(t, env.db.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).Count(&memberCount).Error)
	require.Zero(t, memberCount)

	require.ErrorIs(t, env.service.DeleteProject(project.ID), ErrProjectNotFound)
}

func TestListProjectsForUser(t *testing.T) {
	env := setupProjectTestEnv(t)

	owner := createProjectTestUser(t, env.db, "owner@example.com")
	investor := createProjectTestUser(t, env.db, "investor@example.com")

	first, err := env.service.CreateProject(CreateProjectInput{
		Name:      "First",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.CreateProject(CreateProjectInput{
		Name:      "Second",
		CreatorID: owner.ID,
	})
	require.NoError(t, err)

	_, err = env.service.AddMember(AddMemberInput{
		ProjectID: first.ID,
		ActorID:   owner.ID,
		UserID:    investor.ID,
	})
	require.NoError(t, err)

	memberships, err := env.service.ListProjectsForUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	memberships, err = env.service.ListProjectsForUser(investor.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, first.ID, memberships[0].ProjectID)
	require.Equal(t, "First", memberships[0].Project.Name)
}
