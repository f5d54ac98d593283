package service_test

import (
	"context"
	"testing"
	"time"

	"cogniboard/internal/apperrors"
	"cogniboard/internal/model"
	"cogniboard/internal/repository"
	"cogniboard/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func newProjectService(t *testing.T) (*service.ProjectService, sqlmock.Sqlmock) {
	gormDB, mock := setupMockDB(t)
	svc := service.NewProjectService(
		gormDB,
		repository.NewProjectRepository(gormDB),
		repository.NewMemberRepository(gormDB),
		repository.NewUserRepository(gormDB),
		testLogger(),
	)
	return svc, mock
}

func memberRows(projectID, userID uuid.UUID, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"project_id", "user_id", "role", "created_at"}).
		AddRow(projectID.String(), userID.String(), role, time.Now())
}

func TestProjectService_Create_InsertsProjectAndOwnerAtomically(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	ownerID := uuid.New()
	projectID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WithArgs("Website Redesign", "Revamp the marketing site", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(projectID.String()))
	mock.ExpectExec(`INSERT INTO "project_members"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), model.RoleOwner, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The service re-reads the project with memberships after commit.
	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow(projectID.String(), "Website Redesign", "Revamp the marketing site", time.Now(), time.Now()))
	mock.ExpectQuery(`SELECT .* FROM "project_members"`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleOwner))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(ownerID.String(), "owner@example.com", "Owner"))

	// Act
	project, err := svc.Create(context.Background(), ownerID, service.CreateProjectInput{
		Name:        "Website Redesign",
		Description: "Revamp the marketing site",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, "Website Redesign", project.Name)
	if assert.Len(t, project.Members, 1) {
		assert.Equal(t, model.RoleOwner, project.Members[0].Role)
		assert.Equal(t, ownerID, project.Members[0].UserID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Create_RollsBackWhenMembershipFails(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(`INSERT INTO "project_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	_, err := svc.Create(context.Background(), uuid.New(), service.CreateProjectInput{Name: "Doomed"})

	// Assert: neither row survives a failed membership insert.
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_AddMember_Defaults_ToMemberRole(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(userID.String(), "new@example.com", "New Member"))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectExec(`INSERT INTO "project_members"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), model.RoleMember, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	member, err := svc.AddMember(context.Background(), projectID, service.AddMemberInput{UserID: userID})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.RoleMember, member.Role)
	assert.Equal(t, "new@example.com", member.User.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_AddMember_UserNotFound(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	_, err := svc.AddMember(context.Background(), uuid.New(), service.AddMemberInput{UserID: uuid.New()})

	// Assert
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_AddMember_AlreadyMember(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "users" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(userID.String(), "dup@example.com", "Existing"))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(memberRows(projectID, userID, model.RoleMember))
	mock.ExpectRollback()

	// Act
	_, err := svc.AddMember(context.Background(), projectID, service.AddMemberInput{UserID: userID})

	// Assert: rejected without inserting a duplicate row.
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_LastOwnerRefused(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND role = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleOwner))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleOwner))
	mock.ExpectRollback()

	// Act
	err := svc.RemoveMember(context.Background(), projectID, ownerID)

	// Assert: the sole owner stays.
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvariantViolation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_CoOwnerRemoved(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	ownerA := uuid.New()
	ownerB := uuid.New()

	ownersRows := sqlmock.NewRows([]string{"project_id", "user_id", "role", "created_at"}).
		AddRow(projectID.String(), ownerA.String(), model.RoleOwner, time.Now()).
		AddRow(projectID.String(), ownerB.String(), model.RoleOwner, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND role = .*FOR UPDATE`).
		WillReturnRows(ownersRows)
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, ownerB, model.RoleOwner))
	mock.ExpectExec(`DELETE FROM "project_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := svc.RemoveMember(context.Background(), projectID, ownerB)

	// Assert: removing a non-sole owner is allowed.
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_PlainMemberRemoved(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	ownerID := uuid.New()
	memberID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND role = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleOwner))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, memberID, model.RoleMember))
	mock.ExpectExec(`DELETE FROM "project_members"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := svc.RemoveMember(context.Background(), projectID, memberID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_RemoveMember_MissingMembership(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND role = .*FOR UPDATE`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleOwner))
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .* AND user_id = .*FOR UPDATE`).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	// Act
	err := svc.RemoveMember(context.Background(), projectID, uuid.New())

	// Assert
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_UpdateMemberRole_AllowsDemotingSoleOwner(t *testing.T) {
	// Arrange: role updates carry no last-owner guard; only removal does.
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	ownerID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "project_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnRows(memberRows(projectID, ownerID, model.RoleMember))
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).
			AddRow(ownerID.String(), "owner@example.com", "Owner"))

	// Act
	member, err := svc.UpdateMemberRole(context.Background(), projectID, ownerID, model.RoleMember)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, model.RoleMember, member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_UpdateMemberRole_MembershipVanishes(t *testing.T) {
	// Arrange: the membership is deleted between the role write and the
	// re-read that builds the response.
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "project_members" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "project_members" WHERE project_id = .*`).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	_, err := svc.UpdateMemberRole(context.Background(), projectID, userID, model.RoleMember)

	// Assert: surfaces as NotFound, not an internal error.
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.EqualError(t, err, "Membership not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Update_AppliesOnlyProvidedFields(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)
	projectID := uuid.New()
	name := "Renamed Project"

	mock.ExpectBegin()
	// Exactly name, updated_at, and the id make it into the statement.
	mock.ExpectExec(`UPDATE "projects" SET .*"name"=.*`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT .* FROM "projects" WHERE id = .*`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at"}).
			AddRow(projectID.String(), name, "untouched description", time.Now(), time.Now()))
	mock.ExpectQuery(`SELECT .* FROM "project_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"project_id", "user_id", "role", "created_at"}))

	// Act
	project, err := svc.Update(context.Background(), projectID, service.UpdateProjectInput{Name: &name})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, name, project.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectService_Delete_MissingProject(t *testing.T) {
	// Arrange
	svc, mock := newProjectService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "projects"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	// Act
	err := svc.Delete(context.Background(), uuid.New())

	// Assert
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
